// Package blob implements the resume blob-storage port against a
// Supabase-storage-compatible REST API.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Storage struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

func NewStorage(baseURL, serviceKey, bucket string) *Storage {
	return &Storage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores the object under the given path and returns its public URL.
// Existing objects at the same path are overwritten.
func (s *Storage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	endpoint := fmt.Sprintf("%s/object/%s/%s", s.baseURL, s.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("storage returned status %d: %s", resp.StatusCode, string(body))
	}

	return s.PublicURL(path), nil
}

// PublicURL returns the publicly resolvable URL for a stored object.
func (s *Storage) PublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, s.bucket, path)
}
