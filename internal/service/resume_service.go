package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"talenthub/internal/domain"
	"talenthub/internal/ingest"
)

// ResumeService accepts a resume upload and runs it through the analyzer,
// optionally against a specific job's requirements.
type ResumeService struct {
	ingestor *ingest.Ingestor
	analyzer domain.ResumeAnalyzer
	jobRepo  domain.JobRepository
}

func NewResumeService(ingestor *ingest.Ingestor, analyzer domain.ResumeAnalyzer, jobRepo domain.JobRepository) *ResumeService {
	return &ResumeService{
		ingestor: ingestor,
		analyzer: analyzer,
		jobRepo:  jobRepo,
	}
}

// AnalyzeResult is the upload outcome. Analysis is nil when the analyzer
// failed; the upload itself stands either way.
type AnalyzeResult struct {
	ResumeURL string                 `json:"resume_url"`
	Analysis  *domain.AnalysisResult `json:"analysis,omitempty"`
	Warning   string                 `json:"warning,omitempty"`
}

func (s *ResumeService) Analyze(ctx context.Context, userID uuid.UUID, filename, contentType string, data []byte, jobID uuid.UUID) (*AnalyzeResult, error) {
	ingested, err := s.ingestor.Ingest(ctx, userID, filename, contentType, data)
	if err != nil {
		return nil, err
	}

	var jobCtx *domain.JobContext
	if jobID != uuid.Nil {
		job, err := s.jobRepo.GetByID(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("get job: %w", err)
		}
		if job == nil {
			return nil, domain.ErrNotFound
		}
		jobCtx = &domain.JobContext{
			Title:       job.Title,
			Description: job.Description,
			Skills:      job.SkillNames(),
		}
	}

	result := &AnalyzeResult{ResumeURL: ingested.StoredURL}

	analysis, err := s.analyzer.Analyze(ctx, ingested.Text, jobCtx)
	if err != nil {
		// The resume is stored and the candidate can still apply; analysis
		// failure degrades, it does not abort.
		if !errors.Is(err, domain.ErrAnalysisFailed) {
			return nil, err
		}
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("resume analysis failed")
		result.Warning = "resume stored but analysis is unavailable"
		return result, nil
	}

	result.Analysis = analysis
	return result, nil
}
