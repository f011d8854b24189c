package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"talenthub/internal/domain"
	"talenthub/internal/domain/dto"
)

// DefaultMatchScore is recorded when an application arrives without a prior
// resume analysis.
const DefaultMatchScore = 75

type ApplicationService struct {
	appRepo     domain.ApplicationRepository
	jobRepo     domain.JobRepository
	userRepo    domain.UserRepository
	companyRepo domain.CompanyRepository
	profileRepo domain.CandidateProfileRepository
	sanitizer   *domain.Sanitizer
	now         func() time.Time
}

func NewApplicationService(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	userRepo domain.UserRepository,
	companyRepo domain.CompanyRepository,
	profileRepo domain.CandidateProfileRepository,
) *ApplicationService {
	return &ApplicationService{
		appRepo:     appRepo,
		jobRepo:     jobRepo,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		profileRepo: profileRepo,
		sanitizer:   domain.NewSanitizer(),
		now:         time.Now,
	}
}

// Apply creates an application. The application row itself is the atomic
// unit; enrichment writes (answers, skill categorization, profile links) run
// after it and are logged rather than failing the apply.
func (s *ApplicationService) Apply(ctx context.Context, identity *domain.Identity, req *dto.ApplyRequest) (*domain.Application, error) {
	if identity.Role != domain.RoleJobseeker {
		return nil, domain.ErrForbidden
	}
	if errs := domain.ValidateStruct(req); errs != nil {
		return nil, errs
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return nil, domain.NewValidationError("job_id", "must be a valid UUID", domain.ErrInvalidField)
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil || job.Status != domain.JobStatusActive {
		return nil, domain.ErrNotFound
	}

	existing, err := s.appRepo.GetByJobAndUser(ctx, jobID, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateApplication
	}

	resumeURL := req.ResumeURL
	if resumeURL == "" {
		profile, err := s.profileRepo.GetByUserID(ctx, identity.UserID)
		if err != nil {
			return nil, fmt.Errorf("lookup profile: %w", err)
		}
		if profile != nil {
			resumeURL = profile.ResumeURL
		}
	}

	score := DefaultMatchScore
	if req.Analysis != nil && req.Analysis.MatchScore != nil {
		score = clamp(*req.Analysis.MatchScore, 0, 100)
	}

	app := &domain.Application{
		ID:          uuid.New(),
		JobID:       jobID,
		UserID:      identity.UserID,
		Status:      domain.StatusPending,
		MatchScore:  score,
		ResumeURL:   resumeURL,
		CoverLetter: s.sanitizer.Sanitize(req.CoverLetter),
		AppliedAt:   s.now(),
	}

	// The unique constraint on (job_id, user_id) closes the race the
	// pre-check above cannot.
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	s.runEnrichment(ctx, app, req)
	return app, nil
}

// runEnrichment performs the post-commit writes. Each task is independent
// and a failure is logged, never returned: the application already exists.
func (s *ApplicationService) runEnrichment(ctx context.Context, app *domain.Application, req *dto.ApplyRequest) {
	type task struct {
		name string
		run  func() error
	}

	tasks := []task{
		{"answers", func() error {
			if len(req.Answers) == 0 {
				return nil
			}
			answers := s.sanitizer.SanitizeMap(req.Answers)
			if err := s.appRepo.InsertAnswers(ctx, app.ID, answers); err != nil {
				return err
			}
			app.Answers = answers
			return nil
		}},
		{"skills", func() error {
			if req.Analysis == nil || req.Analysis.Skills == nil {
				return nil
			}
			if err := s.appRepo.InsertSkills(ctx, app.ID, *req.Analysis.Skills); err != nil {
				return err
			}
			app.Skills = req.Analysis.Skills
			return nil
		}},
		{"profile links", func() error {
			links := domain.ProfileLinks{
				LinkedIn:  req.LinkedInURL,
				Github:    req.GithubURL,
				Portfolio: req.PortfolioURL,
			}
			if links.IsEmpty() {
				return nil
			}
			return s.profileRepo.UpdateLinks(ctx, app.UserID, links)
		}},
	}

	for _, t := range tasks {
		if err := t.run(); err != nil {
			log.Error().Err(err).
				Str("application_id", app.ID.String()).
				Str("task", t.name).
				Msg("application enrichment task failed")
		}
	}
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, identity *domain.Identity, applicationID uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error) {
	if !status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown application status", domain.ErrInvalidField)
	}

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.requireJobAccess(ctx, identity, app.JobID); err != nil {
		return nil, err
	}

	if app.Status.IsTerminal() && status != app.Status {
		return nil, domain.NewValidationError("status",
			fmt.Sprintf("application is already %s", app.Status), domain.ErrInvalidField)
	}

	if err := s.appRepo.UpdateStatus(ctx, applicationID, status); err != nil {
		return nil, err
	}
	app.Status = status
	return app, nil
}

// List returns applications the caller may see: their own for jobseekers,
// their companies' for employers and admins.
func (s *ApplicationService) List(ctx context.Context, identity *domain.Identity, filter *domain.ApplicationFilter) ([]*domain.ApplicationListItem, int, error) {
	scope, err := s.scopeFor(ctx, identity)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := s.appRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, err
	}

	// Jobseekers see their own rows; candidate identity is redundant there.
	if identity.Role == domain.RoleJobseeker {
		for _, item := range items {
			item.CandidateID = uuid.Nil
			item.CandidateName = ""
			item.CandidateEmail = ""
		}
	}
	return items, total, nil
}

// Get returns the full application detail with enrichment data loaded.
func (s *ApplicationService) Get(ctx context.Context, identity *domain.Identity, applicationID uuid.UUID) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}

	if app.UserID != identity.UserID {
		if err := s.requireJobAccess(ctx, identity, app.JobID); err != nil {
			return nil, err
		}
	}

	if app.Skills, err = s.appRepo.GetSkills(ctx, app.ID); err != nil {
		return nil, fmt.Errorf("get application skills: %w", err)
	}
	if app.Answers, err = s.appRepo.GetAnswers(ctx, app.ID); err != nil {
		return nil, fmt.Errorf("get application answers: %w", err)
	}
	return app, nil
}

// Analytics aggregates applications for a dashboard. jobID narrows to one
// job (uuid.Nil means all); timeframeDays of 0 means all time.
func (s *ApplicationService) Analytics(ctx context.Context, identity *domain.Identity, jobID uuid.UUID, timeframeDays int) (*domain.AnalyticsReport, error) {
	if !identity.Role.CanManageCompany() {
		return nil, domain.ErrForbidden
	}
	scope, err := s.scopeFor(ctx, identity)
	if err != nil {
		return nil, err
	}
	if jobID != uuid.Nil {
		if err := s.requireJobAccess(ctx, identity, jobID); err != nil {
			return nil, err
		}
	}

	since := time.Time{}
	if timeframeDays > 0 {
		since = s.now().AddDate(0, 0, -timeframeDays)
	}

	rows, err := s.appRepo.AnalyticsRows(ctx, scope, jobID, since)
	if err != nil {
		return nil, err
	}
	return buildAnalyticsReport(rows, s.now()), nil
}

func buildAnalyticsReport(rows []domain.AnalyticsRow, now time.Time) *domain.AnalyticsReport {
	report := &domain.AnalyticsReport{
		TotalApplications: len(rows),
		StatusCounts:      []domain.StatusCount{},
		ScoreBuckets: []domain.ScoreBucketCount{
			{Range: "90-100"},
			{Range: "80-89"},
			{Range: "70-79"},
			{Range: "60-69"},
			{Range: "Below 60"},
		},
		WeeklyTrends: []domain.WeeklyCount{},
	}
	if len(rows) == 0 {
		return report
	}

	newCutoff := now.AddDate(0, 0, -7)
	statusCounts := make(map[domain.ApplicationStatus]int)
	weekly := make(map[string]int)
	scoreSum := 0

	for _, row := range rows {
		statusCounts[row.Status]++
		scoreSum += row.MatchScore
		if row.AppliedAt.After(newCutoff) {
			report.NewApplications++
		}

		switch {
		case row.MatchScore >= 90:
			report.ScoreBuckets[0].Count++
		case row.MatchScore >= 80:
			report.ScoreBuckets[1].Count++
		case row.MatchScore >= 70:
			report.ScoreBuckets[2].Count++
		case row.MatchScore >= 60:
			report.ScoreBuckets[3].Count++
		default:
			report.ScoreBuckets[4].Count++
		}

		weekly[weekStart(row.AppliedAt)]++
	}

	report.AverageScore = scoreSum / len(rows)

	for _, status := range []domain.ApplicationStatus{
		domain.StatusPending, domain.StatusReviewing, domain.StatusInterviewing,
		domain.StatusRejected, domain.StatusAccepted,
	} {
		if count, ok := statusCounts[status]; ok {
			report.StatusCounts = append(report.StatusCounts, domain.StatusCount{Status: status, Count: count})
		}
	}

	weeks := make([]string, 0, len(weekly))
	for week := range weekly {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)
	for _, week := range weeks {
		report.WeeklyTrends = append(report.WeeklyTrends, domain.WeeklyCount{WeekOf: week, Count: weekly[week]})
	}
	return report
}

// weekStart returns the ISO date of the Sunday beginning the week of t.
func weekStart(t time.Time) string {
	t = t.AddDate(0, 0, -int(t.Weekday()))
	return t.Format("2006-01-02")
}

func (s *ApplicationService) scopeFor(ctx context.Context, identity *domain.Identity) (domain.ApplicationScope, error) {
	if identity.Role == domain.RoleJobseeker {
		return domain.ApplicationScope{UserID: identity.UserID}, nil
	}
	companyIDs, err := s.companyRepo.CompanyIDsForUser(ctx, identity.UserID)
	if err != nil {
		return domain.ApplicationScope{}, fmt.Errorf("lookup companies: %w", err)
	}
	return domain.ApplicationScope{CompanyIDs: companyIDs}, nil
}

func (s *ApplicationService) requireJobAccess(ctx context.Context, identity *domain.Identity, jobID uuid.UUID) error {
	if !identity.Role.CanManageCompany() {
		return domain.ErrForbidden
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return domain.ErrNotFound
	}
	member, err := s.companyRepo.IsMember(ctx, identity.UserID, job.CompanyID)
	if err != nil {
		return fmt.Errorf("membership check: %w", err)
	}
	if !member {
		return domain.ErrForbidden
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
