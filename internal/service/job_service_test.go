package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talenthub/internal/domain"
	"talenthub/internal/domain/dto"
)

type jobFixture struct {
	svc         *JobService
	jobRepo     *fakeJobRepo
	appRepo     *fakeApplicationRepo
	companyRepo *fakeCompanyRepo
	profileRepo *fakeProfileRepo

	companyID uuid.UUID
	employer  *domain.Identity
	jobseeker *domain.Identity
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()

	f := &jobFixture{
		jobRepo:     newFakeJobRepo(),
		appRepo:     newFakeApplicationRepo(),
		companyRepo: newFakeCompanyRepo(),
		profileRepo: newFakeProfileRepo(),
		companyID:   uuid.New(),
	}
	f.svc = NewJobService(f.jobRepo, f.companyRepo, f.appRepo, f.profileRepo)

	f.employer = &domain.Identity{UserID: uuid.New(), Role: domain.RoleEmployer}
	f.jobseeker = &domain.Identity{UserID: uuid.New(), Role: domain.RoleJobseeker}
	f.companyRepo.addMember(f.employer.UserID, f.companyID)
	return f
}

func (f *jobFixture) createRequest() *dto.JobCreateRequest {
	return &dto.JobCreateRequest{
		CompanyID:   f.companyID.String(),
		Title:       "Backend Engineer",
		Description: "Build services",
		Location:    "Remote",
		JobType:     "full-time",
		Skills: []dto.JobSkillInput{
			{Skill: "Go", Importance: "required"},
			{Skill: "PostgreSQL", Importance: "required"},
			{Skill: "Kubernetes", Importance: "preferred"},
		},
	}
}

func TestJobCreateByCompanyMember(t *testing.T) {
	f := newJobFixture(t)

	job, err := f.svc.Create(context.Background(), f.employer, f.createRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, domain.JobStatusActive, job.Status)
	assert.Equal(t, f.employer.UserID, job.CreatedBy)
	assert.Len(t, job.Skills, 3)
}

func TestJobCreateForbidden(t *testing.T) {
	f := newJobFixture(t)

	_, err := f.svc.Create(context.Background(), f.jobseeker, f.createRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	outsider := &domain.Identity{UserID: uuid.New(), Role: domain.RoleEmployer}
	_, err = f.svc.Create(context.Background(), outsider, f.createRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestJobCreateRejectsInvertedSalaryRange(t *testing.T) {
	f := newJobFixture(t)

	req := f.createRequest()
	req.SalaryMin = 90000
	req.SalaryMax = 60000

	_, err := f.svc.Create(context.Background(), f.employer, req)
	assert.True(t, domain.IsValidation(err))
}

func TestJobCreateSanitizesDescription(t *testing.T) {
	f := newJobFixture(t)

	req := f.createRequest()
	req.Description = `Build services<script>alert("x")</script>`

	job, err := f.svc.Create(context.Background(), f.employer, req)
	require.NoError(t, err)
	assert.Equal(t, "Build services", job.Description)
}

func TestJobGetHidesDraftFromPublic(t *testing.T) {
	f := newJobFixture(t)

	req := f.createRequest()
	req.Status = "draft"
	job, err := f.svc.Create(context.Background(), f.employer, req)
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), nil, job.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Get(context.Background(), f.jobseeker, job.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.svc.Get(context.Background(), f.employer, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
}

func TestJobPublicListOnlyActive(t *testing.T) {
	f := newJobFixture(t)

	_, err := f.svc.Create(context.Background(), f.employer, f.createRequest())
	require.NoError(t, err)

	draftReq := f.createRequest()
	draftReq.Status = "draft"
	_, err = f.svc.Create(context.Background(), f.employer, draftReq)
	require.NoError(t, err)

	jobs, total, err := f.svc.List(context.Background(), &domain.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.JobStatusActive, jobs[0].Status)
}

func TestJobUpdateForbiddenForNonMember(t *testing.T) {
	f := newJobFixture(t)

	job, err := f.svc.Create(context.Background(), f.employer, f.createRequest())
	require.NoError(t, err)

	outsider := &domain.Identity{UserID: uuid.New(), Role: domain.RoleEmployer}
	update := &dto.JobUpdateRequest{
		Title:       "Renamed",
		Description: "d",
		Location:    "l",
		JobType:     "full-time",
	}
	_, err = f.svc.Update(context.Background(), outsider, job.ID, update)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Admins are company-scoped too.
	admin := &domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}
	_, err = f.svc.Update(context.Background(), admin, job.ID, update)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestJobDelete(t *testing.T) {
	f := newJobFixture(t)

	job, err := f.svc.Create(context.Background(), f.employer, f.createRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), f.employer, job.ID))
	_, err = f.svc.Get(context.Background(), f.employer, job.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMatchPreviewFromProfileSkills(t *testing.T) {
	f := newJobFixture(t)

	job, err := f.svc.Create(context.Background(), f.employer, f.createRequest())
	require.NoError(t, err)

	f.profileRepo.profiles[f.jobseeker.UserID] = &domain.CandidateProfile{
		UserID: f.jobseeker.UserID,
		Skills: []string{"Go", "PostgreSQL", "Rust"},
	}

	result, hasApplied, err := f.svc.MatchPreview(context.Background(), f.jobseeker, job.ID)
	require.NoError(t, err)

	assert.False(t, hasApplied)
	// Both required skills hit, the preferred one missed: full 70, no 30.
	assert.Equal(t, 70, result.Score)
	assert.ElementsMatch(t, []string{"Go", "PostgreSQL"}, result.Skills.Matched)
	assert.Equal(t, []string{"Kubernetes"}, result.Skills.Missing)
	assert.Equal(t, []string{"Rust"}, result.Skills.Additional)
}

func TestMatchPreviewWithoutProfile(t *testing.T) {
	f := newJobFixture(t)

	job, err := f.svc.Create(context.Background(), f.employer, f.createRequest())
	require.NoError(t, err)

	result, hasApplied, err := f.svc.MatchPreview(context.Background(), f.jobseeker, job.ID)
	require.NoError(t, err)
	assert.False(t, hasApplied)
	assert.Equal(t, 0, result.Score)
}

func TestMatchPreviewReturnsPersistedApplicationData(t *testing.T) {
	f := newJobFixture(t)

	job, err := f.svc.Create(context.Background(), f.employer, f.createRequest())
	require.NoError(t, err)

	appID := uuid.New()
	f.appRepo.apps[appID] = &domain.Application{
		ID:         appID,
		JobID:      job.ID,
		UserID:     f.jobseeker.UserID,
		MatchScore: 84,
	}
	f.appRepo.skills[appID] = &domain.SkillPartition{Matched: []string{"Go"}}

	result, hasApplied, err := f.svc.MatchPreview(context.Background(), f.jobseeker, job.ID)
	require.NoError(t, err)

	assert.True(t, hasApplied)
	assert.Equal(t, 84, result.Score)
	assert.Equal(t, []string{"Go"}, result.Skills.Matched)
}
