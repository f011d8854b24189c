package domain

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusPending      ApplicationStatus = "pending"
	StatusReviewing    ApplicationStatus = "reviewing"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusRejected     ApplicationStatus = "rejected"
	StatusAccepted     ApplicationStatus = "accepted"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusInterviewing, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions may leave the status.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusAccepted
}

// SkillMatchType labels a skill row in the persisted categorization.
type SkillMatchType string

const (
	SkillMatched    SkillMatchType = "matched"
	SkillMissing    SkillMatchType = "missing"
	SkillAdditional SkillMatchType = "additional"
)

// SkillPartition is the three-way split of the union of job and candidate
// skills: matched = candidate ∩ job, missing = job \ candidate,
// additional = candidate \ job.
type SkillPartition struct {
	Matched    []string `json:"matched"`
	Missing    []string `json:"missing"`
	Additional []string `json:"additional"`
}

type Application struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	JobID       uuid.UUID         `json:"job_id" db:"job_id"`
	UserID      uuid.UUID         `json:"user_id" db:"user_id"`
	Status      ApplicationStatus `json:"status" db:"status"`
	MatchScore  int               `json:"match_score" db:"match_score"`
	ResumeURL   string            `json:"resume_url" db:"resume_url"`
	CoverLetter string            `json:"cover_letter" db:"cover_letter"`
	AppliedAt   time.Time         `json:"applied_date" db:"applied_date"`

	// Enrichment data, loaded on detail reads only.
	Skills  *SkillPartition   `json:"skills,omitempty"`
	Answers map[string]string `json:"custom_questions,omitempty"`
}

// ApplicationFilter narrows List queries. Zero values mean "no constraint".
type ApplicationFilter struct {
	Status   ApplicationStatus
	JobID    uuid.UUID
	MinScore int
	SortBy   string // newest, oldest, match-high, match-low
	Page     int
	Limit    int
}

// Offset converts page/limit into a row offset, defaulting invalid input.
func (f *ApplicationFilter) Offset() int {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 12
	}
	return (f.Page - 1) * f.Limit
}

// ApplicationListItem is the flattened row returned by list queries, joined
// with job and candidate metadata the caller is allowed to see.
type ApplicationListItem struct {
	ID             uuid.UUID         `json:"id"`
	JobID          uuid.UUID         `json:"job_id"`
	JobTitle       string            `json:"job_title"`
	CompanyID      uuid.UUID         `json:"company_id"`
	CompanyName    string            `json:"company_name"`
	Location       string            `json:"location"`
	JobType        string            `json:"job_type"`
	CandidateID    uuid.UUID         `json:"candidate_id,omitempty"`
	CandidateName  string            `json:"candidate_name,omitempty"`
	CandidateEmail string            `json:"candidate_email,omitempty"`
	Status         ApplicationStatus `json:"status"`
	MatchScore     int               `json:"match_score"`
	AppliedAt      time.Time         `json:"applied_date"`
}

// AnalyticsReport aggregates applications for the employer dashboard.
type AnalyticsReport struct {
	TotalApplications int                `json:"total_applications"`
	NewApplications   int                `json:"new_applications"`
	AverageScore      int                `json:"average_score"`
	StatusCounts      []StatusCount      `json:"status_distribution"`
	ScoreBuckets      []ScoreBucketCount `json:"match_score_distribution"`
	WeeklyTrends      []WeeklyCount      `json:"application_trends"`
}

type StatusCount struct {
	Status ApplicationStatus `json:"status"`
	Count  int               `json:"count"`
}

type ScoreBucketCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// WeeklyCount buckets applications by the ISO date of the week's Sunday.
type WeeklyCount struct {
	WeekOf string `json:"date"`
	Count  int    `json:"count"`
}
