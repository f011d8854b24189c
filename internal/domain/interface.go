package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	// IsMember reports whether a CompanyMembership row links the user to the company.
	IsMember(ctx context.Context, userID, companyID uuid.UUID) (bool, error)
	// CompanyIDsForUser returns every company the user belongs to.
	CompanyIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type JobFilter struct {
	Search    string
	Location  string
	JobType   string
	CompanyID uuid.UUID
	Status    JobStatus
	SortBy    string // newest, oldest, salary-high, salary-low
	Page      int
	Limit     int
}

func (f *JobFilter) Offset() int {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 12
	}
	return (f.Page - 1) * f.Limit
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	// GetByID loads the job with its ordered skill list, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	List(ctx context.Context, filter *JobFilter) ([]*Job, int, error)
	ReplaceSkills(ctx context.Context, jobID uuid.UUID, skills []JobSkill) error
	CountApplications(ctx context.Context, jobID uuid.UUID) (int, error)
}

type CandidateProfileRepository interface {
	// GetByUserID returns the profile with its skill list, nil when absent.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*CandidateProfile, error)
	Upsert(ctx context.Context, profile *CandidateProfile) error
	SetResumeURL(ctx context.Context, userID uuid.UUID, resumeURL string) error
	UpdateLinks(ctx context.Context, userID uuid.UUID, links ProfileLinks) error
	ReplaceSkills(ctx context.Context, userID uuid.UUID, skills []string) error
}

// ApplicationScope restricts list/analytics queries to what the actor may
// see: exactly one of UserID (jobseeker) or CompanyIDs (employer/admin) is set.
type ApplicationScope struct {
	UserID     uuid.UUID
	CompanyIDs []uuid.UUID
}

// AnalyticsRow is the projection the analytics aggregation runs over.
type AnalyticsRow struct {
	Status     ApplicationStatus
	MatchScore int
	AppliedAt  time.Time
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	GetByJobAndUser(ctx context.Context, jobID, userID uuid.UUID) (*Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ApplicationStatus) error
	List(ctx context.Context, scope ApplicationScope, filter *ApplicationFilter) ([]*ApplicationListItem, int, error)
	AnalyticsRows(ctx context.Context, scope ApplicationScope, jobID uuid.UUID, since time.Time) ([]AnalyticsRow, error)

	// Enrichment writes, performed after the primary commit.
	InsertAnswers(ctx context.Context, applicationID uuid.UUID, answers map[string]string) error
	InsertSkills(ctx context.Context, applicationID uuid.UUID, partition SkillPartition) error
	GetSkills(ctx context.Context, applicationID uuid.UUID) (*SkillPartition, error)
	GetAnswers(ctx context.Context, applicationID uuid.UUID) (map[string]string, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	UpdateLastUsed(ctx context.Context, sessionID string) error
}

// BlobStorage is the outbound port for resume bytes. Upload returns a
// publicly resolvable URL for the stored object.
type BlobStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// ResumeAnalyzer is the outbound port for the text-generation service.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText string, job *JobContext) (*AnalysisResult, error)
}
