package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"talenthub/internal/domain"
)

// defaultMatchScore is returned when the reply clearly answers a match
// request but no score could be extracted from it.
const defaultMatchScore = 70

// parseStage is one link in the ordered parser chain. Each stage either
// produces a result or a typed error; the chain stops at the first success.
type parseStage struct {
	name  string
	parse func(raw string, withJob bool) (*domain.AnalysisResult, error)
}

var stages = []parseStage{
	{"whole-json", parseWholeJSON},
	{"embedded-json", parseEmbeddedJSON},
	{"heuristics", parseHeuristics},
}

// ParseAnalysis runs the generator reply through the parser chain. withJob
// signals that the request included job context, enabling the match-score
// heuristics and their default. Exhausting all stages yields a wrapped
// domain.ErrAnalysisFailed.
func ParseAnalysis(raw string, withJob bool) (*domain.AnalysisResult, error) {
	var stageErrs []error
	for _, stage := range stages {
		result, err := stage.parse(raw, withJob)
		if err == nil {
			return result, nil
		}
		stageErrs = append(stageErrs, fmt.Errorf("%s: %w", stage.name, err))
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, errors.Join(stageErrs...))
}

func parseWholeJSON(raw string, withJob bool) (*domain.AnalysisResult, error) {
	return decodeResult(strings.TrimSpace(raw), withJob)
}

// parseEmbeddedJSON looks for a fenced ```json block first, then falls back
// to the largest brace-delimited substring.
func parseEmbeddedJSON(raw string, withJob bool) (*domain.AnalysisResult, error) {
	if block, ok := extractFencedBlock(raw); ok {
		if result, err := decodeResult(block, withJob); err == nil {
			return result, nil
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, errors.New("no brace-delimited substring")
	}
	return decodeResult(raw[start:end+1], withJob)
}

// parseHeuristics is the deterministic last-resort extractor for replies with
// no parseable JSON at all. It fails only when neither a skills list nor a
// score is present.
func parseHeuristics(raw string, withJob bool) (*domain.AnalysisResult, error) {
	skills := extractSkillList(raw)
	score, scoreFound := extractMatchScore(raw)

	if len(skills) == 0 && !scoreFound {
		return nil, errors.New("no skills label or score pattern found")
	}

	result := &domain.AnalysisResult{
		RawText: raw,
		Skills:  skills,
	}
	if withJob {
		if !scoreFound {
			score = defaultMatchScore
		}
		result.OverallMatchScore = &score
	} else if scoreFound {
		result.OverallMatchScore = &score
	}
	return result, nil
}

func extractFencedBlock(raw string) (string, bool) {
	idx := strings.Index(raw, "```")
	if idx == -1 {
		return "", false
	}
	rest := raw[idx+3:]
	rest = strings.TrimPrefix(rest, "json")
	end := strings.Index(rest, "```")
	if end == -1 {
		return strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(rest[:end]), true
}

// decodeResult unmarshals candidate JSON and coerces loosely-typed fields.
// A decoded object that carries none of the recognized keys is rejected so
// later stages get a chance.
func decodeResult(candidate string, withJob bool) (*domain.AnalysisResult, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		Skills:         coerceStringSlice(data["skills"]),
		Experience:     coerceStringSlice(data["experience"]),
		Education:      coerceStringSlice(data["education"]),
		Strengths:      coerceStringSlice(data["strengths"]),
		Gaps:           coerceStringSlice(data["gaps"]),
		Recommendation: coerceString(data["recommendation"]),
	}

	recognized := len(result.Skills) > 0 || len(result.Experience) > 0 ||
		len(result.Education) > 0 || len(result.Strengths) > 0 ||
		len(result.Gaps) > 0 || result.Recommendation != ""

	if score, ok := coerceScore(data["overall_match_score"]); ok {
		result.OverallMatchScore = &score
		recognized = true
	} else if score, ok := coerceScore(data["match_score"]); ok {
		result.OverallMatchScore = &score
		recognized = true
	}

	if scores, ok := data["skill_scores"].([]any); ok {
		for _, entry := range scores {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			score, _ := coerceScore(m["score"])
			if name := coerceString(m["skill"]); name != "" {
				result.SkillScores = append(result.SkillScores, domain.SkillScore{Skill: name, Score: score})
				recognized = true
			}
		}
	}

	if !recognized {
		return nil, errors.New("valid JSON but no recognized analysis fields")
	}
	if withJob && result.OverallMatchScore != nil {
		clamped := clampScore(*result.OverallMatchScore)
		result.OverallMatchScore = &clamped
	}
	return result, nil
}

var (
	skillsLabelRe = regexp.MustCompile(`(?i)skills:?[ \t]*`)
	matchScoreRe  = regexp.MustCompile(`(?i)match\s*score:?\s*(\d+)`)
	pctMatchRe    = regexp.MustCompile(`(?i)(\d+)%\s*match`)
)

// extractSkillList finds a "skills:" label and reads the list after it:
// a comma-separated list on the label line, or when the label line is bare,
// one entry per following line until a blank line. Entries are trimmed and
// empties dropped.
func extractSkillList(text string) []string {
	loc := skillsLabelRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	rest := text[loc[1]:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		if strings.TrimSpace(rest[:nl]) != "" {
			rest = rest[:nl]
		} else {
			rest = rest[nl+1:]
			if end := strings.Index(rest, "\n\n"); end >= 0 {
				rest = rest[:end]
			}
		}
	}
	parts := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	var skills []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

func extractMatchScore(text string) (int, bool) {
	m := matchScoreRe.FindStringSubmatch(text)
	if m == nil {
		m = pctMatchRe.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, false
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return clampScore(score), true
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func coerceString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func coerceStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		switch val := item.(type) {
		case string:
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				out = append(out, trimmed)
			}
		case map[string]any:
			// Some models answer with [{"name": "Go"}, ...].
			if name := coerceString(val["name"]); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func coerceScore(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) {
			return 0, false
		}
		return int(math.Round(val)), true
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		score, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, false
		}
		return score, true
	default:
		return 0, false
	}
}
