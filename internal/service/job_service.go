package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"talenthub/internal/domain"
	"talenthub/internal/domain/dto"
	"talenthub/internal/matching"
)

type JobService struct {
	jobRepo     domain.JobRepository
	companyRepo domain.CompanyRepository
	appRepo     domain.ApplicationRepository
	profileRepo domain.CandidateProfileRepository
	sanitizer   *domain.Sanitizer
}

func NewJobService(
	jobRepo domain.JobRepository,
	companyRepo domain.CompanyRepository,
	appRepo domain.ApplicationRepository,
	profileRepo domain.CandidateProfileRepository,
) *JobService {
	return &JobService{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		appRepo:     appRepo,
		profileRepo: profileRepo,
		sanitizer:   domain.NewSanitizer(),
	}
}

func (s *JobService) Create(ctx context.Context, identity *domain.Identity, req *dto.JobCreateRequest) (*domain.Job, error) {
	if errs := domain.ValidateStruct(req); errs != nil {
		return nil, errs
	}

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, domain.NewValidationError("company_id", "must be a valid UUID", domain.ErrInvalidField)
	}
	if err := s.requireCompanyAccess(ctx, identity, companyID); err != nil {
		return nil, err
	}

	status := domain.JobStatus(req.Status)
	if req.Status != "" && !status.IsValid() {
		return nil, domain.NewValidationError("status", "status must be active, draft or closed", domain.ErrInvalidField)
	}
	if req.SalaryMax > 0 && req.SalaryMin > req.SalaryMax {
		return nil, domain.NewValidationError("salary_min", "must not exceed salary_max", domain.ErrInvalidField)
	}

	job := &domain.Job{
		CompanyID:       companyID,
		Title:           req.Title,
		Description:     s.sanitizer.Sanitize(req.Description),
		Location:        req.Location,
		JobType:         req.JobType,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		ExperienceLevel: req.ExperienceLevel,
		Education:       req.Education,
		Department:      req.Department,
		Status:          status,
		CreatedBy:       identity.UserID,
		ClosingAt:       req.ClosingDate,
		Skills:          skillsFromInput(req.Skills),
	}
	job.BeforeSave()

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

func (s *JobService) Update(ctx context.Context, identity *domain.Identity, jobID uuid.UUID, req *dto.JobUpdateRequest) (*domain.Job, error) {
	if errs := domain.ValidateStruct(req); errs != nil {
		return nil, errs
	}

	job, err := s.getOwned(ctx, identity, jobID)
	if err != nil {
		return nil, err
	}

	status := domain.JobStatus(req.Status)
	if req.Status != "" && !status.IsValid() {
		return nil, domain.NewValidationError("status", "status must be active, draft or closed", domain.ErrInvalidField)
	}
	if req.SalaryMax > 0 && req.SalaryMin > req.SalaryMax {
		return nil, domain.NewValidationError("salary_min", "must not exceed salary_max", domain.ErrInvalidField)
	}

	job.Title = req.Title
	job.Description = s.sanitizer.Sanitize(req.Description)
	job.Location = req.Location
	job.JobType = req.JobType
	job.SalaryMin = req.SalaryMin
	job.SalaryMax = req.SalaryMax
	job.ExperienceLevel = req.ExperienceLevel
	job.Education = req.Education
	job.Department = req.Department
	if req.Status != "" {
		job.Status = status
	}
	job.ClosingAt = req.ClosingDate
	job.Skills = skillsFromInput(req.Skills)
	job.BeforeSave()

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	if err := s.jobRepo.ReplaceSkills(ctx, job.ID, job.Skills); err != nil {
		return nil, fmt.Errorf("replace job skills: %w", err)
	}
	return job, nil
}

func (s *JobService) Delete(ctx context.Context, identity *domain.Identity, jobID uuid.UUID) error {
	if _, err := s.getOwned(ctx, identity, jobID); err != nil {
		return err
	}
	return s.jobRepo.Delete(ctx, jobID)
}

// Get returns a job for public consumption. Draft and closed jobs are only
// visible to members of the owning company.
func (s *JobService) Get(ctx context.Context, identity *domain.Identity, jobID uuid.UUID) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}

	if job.Status != domain.JobStatusActive {
		if identity == nil || !identity.Role.CanManageCompany() {
			return nil, domain.ErrNotFound
		}
		if err := s.requireCompanyAccess(ctx, identity, job.CompanyID); err != nil {
			return nil, domain.ErrNotFound
		}
	}
	return job, nil
}

// List is the public job board: only active jobs, regardless of caller.
func (s *JobService) List(ctx context.Context, filter *domain.JobFilter) ([]*domain.Job, int, error) {
	filter.Status = domain.JobStatusActive
	return s.jobRepo.List(ctx, filter)
}

// ListCompany lists a company's jobs in any status, for its members.
func (s *JobService) ListCompany(ctx context.Context, identity *domain.Identity, companyID uuid.UUID, filter *domain.JobFilter) ([]*domain.Job, int, error) {
	if err := s.requireCompanyAccess(ctx, identity, companyID); err != nil {
		return nil, 0, err
	}
	filter.CompanyID = companyID
	return s.jobRepo.List(ctx, filter)
}

func (s *JobService) CountApplications(ctx context.Context, identity *domain.Identity, jobID uuid.UUID) (int, error) {
	if _, err := s.getOwned(ctx, identity, jobID); err != nil {
		return 0, err
	}
	return s.jobRepo.CountApplications(ctx, jobID)
}

// MatchPreview scores the caller's profile against a job without creating an
// application. When the caller already applied, the persisted score and skill
// categorization are returned instead of recomputing.
func (s *JobService) MatchPreview(ctx context.Context, identity *domain.Identity, jobID uuid.UUID) (*domain.MatchResult, bool, error) {
	job, err := s.Get(ctx, identity, jobID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.appRepo.GetByJobAndUser(ctx, jobID, identity.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup application: %w", err)
	}
	if existing != nil {
		result := &domain.MatchResult{Score: existing.MatchScore}
		if partition, err := s.appRepo.GetSkills(ctx, existing.ID); err == nil && partition != nil {
			result.Skills = *partition
		}
		return result, true, nil
	}

	profile, err := s.profileRepo.GetByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup profile: %w", err)
	}
	var candidateSkills []string
	if profile != nil {
		candidateSkills = profile.Skills
	}

	result := matching.ScoreJob(job, candidateSkills)
	return &result, false, nil
}

func (s *JobService) getOwned(ctx context.Context, identity *domain.Identity, jobID uuid.UUID) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.requireCompanyAccess(ctx, identity, job.CompanyID); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) requireCompanyAccess(ctx context.Context, identity *domain.Identity, companyID uuid.UUID) error {
	if identity == nil || !identity.Role.CanManageCompany() {
		return domain.ErrForbidden
	}
	member, err := s.companyRepo.IsMember(ctx, identity.UserID, companyID)
	if err != nil {
		return fmt.Errorf("membership check: %w", err)
	}
	if !member {
		return domain.ErrForbidden
	}
	return nil
}

func skillsFromInput(inputs []dto.JobSkillInput) []domain.JobSkill {
	skills := make([]domain.JobSkill, 0, len(inputs))
	for _, in := range inputs {
		skills = append(skills, domain.JobSkill{
			Skill:      in.Skill,
			Importance: domain.SkillImportance(in.Importance),
		})
	}
	return skills
}
