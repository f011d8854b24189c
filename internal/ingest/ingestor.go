// Package ingest accepts uploaded resume documents, extracts text on a
// best-effort basis and persists the original bytes to blob storage.
package ingest

import (
	"context"
	"fmt"
	"path"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"talenthub/internal/domain"
)

type Ingestor struct {
	storage  domain.BlobStorage
	profiles domain.CandidateProfileRepository
}

func NewIngestor(storage domain.BlobStorage, profiles domain.CandidateProfileRepository) *Ingestor {
	return &Ingestor{storage: storage, profiles: profiles}
}

type Result struct {
	Text      string `json:"text"`
	StoredURL string `json:"resume_url"`
}

// Ingest decodes the document as UTF-8 text where possible and uploads the
// original bytes under a per-candidate path. True PDF/DOCX text extraction is
// not implemented: unreadable content yields an explicit sentinel string and
// downstream consumers must tolerate a non-informative text payload.
func (i *Ingestor) Ingest(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, domain.NewValidationError("resume", "no file uploaded", domain.ErrRequired)
	}

	text := string(data)
	if !utf8.Valid(data) {
		text = unreadableSentinel(contentType)
	}

	storedPath := path.Join(userID.String(), uuid.New().String()+"-"+path.Base(filename))
	url, err := i.storage.Upload(ctx, storedPath, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}

	// Profile update is an enrichment write: the upload already succeeded and
	// the caller gets a usable URL either way.
	if err := i.profiles.SetResumeURL(ctx, userID, url); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to update profile resume url")
	}

	return &Result{Text: text, StoredURL: url}, nil
}

func unreadableSentinel(contentType string) string {
	return fmt.Sprintf("[File content could not be read as text. File type: %s]", contentType)
}
