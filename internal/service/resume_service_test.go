package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talenthub/internal/domain"
	"talenthub/internal/ingest"
)

type fakeStorage struct {
	uploads int
	err     error
}

func (s *fakeStorage) Upload(_ context.Context, path string, _ []byte, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploads++
	return "https://storage.example/resumes/" + path, nil
}

type fakeAnalyzer struct {
	result   *domain.AnalysisResult
	err      error
	lastText string
	lastJob  *domain.JobContext
}

func (a *fakeAnalyzer) Analyze(_ context.Context, resumeText string, job *domain.JobContext) (*domain.AnalysisResult, error) {
	a.lastText = resumeText
	a.lastJob = job
	return a.result, a.err
}

func newResumeFixture(t *testing.T) (*ResumeService, *fakeAnalyzer, *fakeJobRepo, *fakeStorage) {
	t.Helper()
	storage := &fakeStorage{}
	analyzer := &fakeAnalyzer{result: &domain.AnalysisResult{Skills: []string{"Go"}}}
	jobRepo := newFakeJobRepo()
	ingestor := ingest.NewIngestor(storage, newFakeProfileRepo())
	return NewResumeService(ingestor, analyzer, jobRepo), analyzer, jobRepo, storage
}

func TestResumeAnalyzeWithoutJob(t *testing.T) {
	svc, analyzer, _, storage := newResumeFixture(t)

	result, err := svc.Analyze(context.Background(), uuid.New(),
		"resume.txt", "text/plain", []byte("Experienced Go engineer"), uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, 1, storage.uploads)
	assert.NotEmpty(t, result.ResumeURL)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, []string{"Go"}, result.Analysis.Skills)
	assert.Equal(t, "Experienced Go engineer", analyzer.lastText)
	assert.Nil(t, analyzer.lastJob)
}

func TestResumeAnalyzePassesJobContext(t *testing.T) {
	svc, analyzer, jobRepo, _ := newResumeFixture(t)

	job := &domain.Job{
		ID:          uuid.New(),
		Title:       "Backend Engineer",
		Description: "Build services",
		Status:      domain.JobStatusActive,
		Skills: []domain.JobSkill{
			{Skill: "Go", Importance: domain.SkillRequired},
		},
	}
	jobRepo.jobs[job.ID] = job

	_, err := svc.Analyze(context.Background(), uuid.New(),
		"resume.txt", "text/plain", []byte("text"), job.ID)
	require.NoError(t, err)

	require.NotNil(t, analyzer.lastJob)
	assert.Equal(t, "Backend Engineer", analyzer.lastJob.Title)
	assert.Equal(t, []string{"Go"}, analyzer.lastJob.Skills)
}

func TestResumeAnalyzeUnknownJob(t *testing.T) {
	svc, _, _, _ := newResumeFixture(t)

	_, err := svc.Analyze(context.Background(), uuid.New(),
		"resume.txt", "text/plain", []byte("text"), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResumeAnalyzeDegradesWhenAnalyzerFails(t *testing.T) {
	svc, analyzer, _, storage := newResumeFixture(t)
	analyzer.result = nil
	analyzer.err = fmt.Errorf("%w: model unavailable", domain.ErrAnalysisFailed)

	result, err := svc.Analyze(context.Background(), uuid.New(),
		"resume.txt", "text/plain", []byte("text"), uuid.Nil)
	require.NoError(t, err)

	// Upload stood, analysis did not.
	assert.Equal(t, 1, storage.uploads)
	assert.Nil(t, result.Analysis)
	assert.NotEmpty(t, result.Warning)
}

func TestResumeAnalyzeFailsWhenUploadFails(t *testing.T) {
	svc, _, _, storage := newResumeFixture(t)
	storage.err = errFake

	_, err := svc.Analyze(context.Background(), uuid.New(),
		"resume.txt", "text/plain", []byte("text"), uuid.Nil)
	assert.Error(t, err)
}
