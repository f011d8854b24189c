// Package ai talks to an OpenRouter-compatible text-generation service and
// turns its free-text replies into structured resume analysis. The reply is
// treated as untrusted, partially-structured input: parsing runs through an
// ordered chain of stages and the whole call is non-fatal to the caller.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"talenthub/internal/domain"
)

const (
	defaultBaseURL     = "https://openrouter.ai/api/v1"
	defaultModel       = "deepseek/deepseek-chat-v3-0324:free"
	defaultTemperature = 0.3
	defaultMaxTokens   = 2000

	systemPrompt = "You are an expert HR assistant that specializes in resume analysis and job matching."
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze sends the resume (and optional job context) to the generation
// service and parses the reply. Every failure is reported as a wrapped
// domain.ErrAnalysisFailed so callers can treat it as non-fatal.
func (c *Client) Analyze(ctx context.Context, resumeText string, job *domain.JobContext) (*domain.AnalysisResult, error) {
	raw, err := c.generate(ctx, buildUserPrompt(resumeText, job))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisFailed, err)
	}

	result, err := ParseAnalysis(raw, job != nil)
	if err != nil {
		log.Warn().Err(err).Int("reply_length", len(raw)).Msg("analysis reply unparseable at every stage")
		return nil, err
	}
	return result, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation service returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("generation service error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func buildUserPrompt(resumeText string, job *domain.JobContext) string {
	var b strings.Builder
	b.WriteString("Analyze the following resume and extract key information including skills, experience, education, and other relevant details. Format the response as JSON.\n\nResume:\n")
	b.WriteString(resumeText)

	if job != nil {
		b.WriteString("\n\nCompare this resume to the following job description and provide a match score and recommendations:\n\n")
		b.WriteString("Job Title: " + job.Title + "\n")
		b.WriteString("Job Description: " + job.Description + "\n")
		skills := "Not specified"
		if len(job.Skills) > 0 {
			skills = strings.Join(job.Skills, ", ")
		}
		b.WriteString("Required Skills: " + skills)
	}
	return b.String()
}
