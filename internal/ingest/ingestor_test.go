package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talenthub/internal/domain"
)

type stubStorage struct {
	lastPath        string
	lastContentType string
	err             error
}

func (s *stubStorage) Upload(_ context.Context, path string, _ []byte, contentType string) (string, error) {
	s.lastPath = path
	s.lastContentType = contentType
	if s.err != nil {
		return "", s.err
	}
	return "https://storage.example.com/resumes/" + path, nil
}

type stubProfiles struct {
	domain.CandidateProfileRepository
	resumeURL string
	err       error
}

func (s *stubProfiles) SetResumeURL(_ context.Context, _ uuid.UUID, url string) error {
	if s.err != nil {
		return s.err
	}
	s.resumeURL = url
	return nil
}

func TestIngestPlainText(t *testing.T) {
	storage := &stubStorage{}
	profiles := &stubProfiles{}
	ing := NewIngestor(storage, profiles)
	userID := uuid.New()

	result, err := ing.Ingest(context.Background(), userID, "resume.txt", "text/plain", []byte("Skills: Go, SQL"))
	require.NoError(t, err)

	assert.Equal(t, "Skills: Go, SQL", result.Text)
	assert.True(t, strings.HasPrefix(storage.lastPath, userID.String()+"/"), "path must be namespaced by candidate")
	assert.True(t, strings.HasSuffix(storage.lastPath, "-resume.txt"))
	assert.Equal(t, result.StoredURL, profiles.resumeURL, "profile resume reference must be updated")
}

func TestIngestBinaryYieldsSentinel(t *testing.T) {
	ing := NewIngestor(&stubStorage{}, &stubProfiles{})

	result, err := ing.Ingest(context.Background(), uuid.New(), "resume.pdf", "application/pdf", []byte{0xff, 0xfe, 0x00, 0x81})
	require.NoError(t, err)

	assert.Equal(t, "[File content could not be read as text. File type: application/pdf]", result.Text)
	assert.NotEmpty(t, result.StoredURL)
}

func TestIngestEmptyFile(t *testing.T) {
	ing := NewIngestor(&stubStorage{}, &stubProfiles{})

	_, err := ing.Ingest(context.Background(), uuid.New(), "resume.txt", "text/plain", nil)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestIngestUploadFailureIsFatal(t *testing.T) {
	ing := NewIngestor(&stubStorage{err: errors.New("bucket unavailable")}, &stubProfiles{})

	_, err := ing.Ingest(context.Background(), uuid.New(), "resume.txt", "text/plain", []byte("hi"))
	require.Error(t, err)
}

func TestIngestProfileUpdateFailureIsSwallowed(t *testing.T) {
	profiles := &stubProfiles{err: errors.New("db down")}
	ing := NewIngestor(&stubStorage{}, profiles)

	result, err := ing.Ingest(context.Background(), uuid.New(), "resume.txt", "text/plain", []byte("hi"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.StoredURL)
}

func TestIngestStripsDirectoryFromFilename(t *testing.T) {
	storage := &stubStorage{}
	ing := NewIngestor(storage, &stubProfiles{})
	userID := uuid.New()

	_, err := ing.Ingest(context.Background(), userID, "../../etc/passwd", "text/plain", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(storage.lastPath, userID.String()+"/"))
	assert.True(t, strings.HasSuffix(storage.lastPath, "-passwd"))
	assert.NotContains(t, storage.lastPath, "..")
}
