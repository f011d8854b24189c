package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusDraft  JobStatus = "draft"
	JobStatusClosed JobStatus = "closed"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusActive, JobStatusDraft, JobStatusClosed:
		return true
	}
	return false
}

// SkillImportance weights a job skill in the deterministic match formula.
type SkillImportance string

const (
	SkillRequired  SkillImportance = "required"
	SkillPreferred SkillImportance = "preferred"
)

func (i SkillImportance) IsValid() bool {
	return i == SkillRequired || i == SkillPreferred
}

type JobSkill struct {
	Skill      string          `json:"skill" db:"skill"`
	Importance SkillImportance `json:"importance" db:"importance"`
}

type Job struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	CompanyID       uuid.UUID  `json:"company_id" db:"company_id"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description" db:"description"`
	Location        string     `json:"location" db:"location"`
	JobType         string     `json:"job_type" db:"job_type"`
	SalaryMin       int        `json:"salary_min,omitempty" db:"salary_min"`
	SalaryMax       int        `json:"salary_max,omitempty" db:"salary_max"`
	ExperienceLevel string     `json:"experience_level" db:"experience_level"`
	Education       string     `json:"education" db:"education"`
	Department      string     `json:"department" db:"department"`
	Status          JobStatus  `json:"status" db:"status"`
	CreatedBy       uuid.UUID  `json:"created_by" db:"created_by"`
	PostedAt        time.Time  `json:"posted_date" db:"posted_date"`
	ClosingAt       *time.Time `json:"closing_date,omitempty" db:"closing_date"`
	Skills          []JobSkill `json:"skills,omitempty"`
}

// SkillsByImportance splits the job's ordered skill list into required and
// preferred names, preserving order.
func (j *Job) SkillsByImportance() (required, preferred []string) {
	for _, s := range j.Skills {
		switch s.Importance {
		case SkillRequired:
			required = append(required, s.Skill)
		default:
			preferred = append(preferred, s.Skill)
		}
	}
	return required, preferred
}

// SkillNames returns all skill names regardless of importance.
func (j *Job) SkillNames() []string {
	names := make([]string, 0, len(j.Skills))
	for _, s := range j.Skills {
		names = append(names, s.Skill)
	}
	return names
}

// BeforeSave normalizes fields prior to persistence.
func (j *Job) BeforeSave() {
	j.Title = strings.TrimSpace(j.Title)
	j.Location = strings.TrimSpace(j.Location)
	if j.Status == "" {
		j.Status = JobStatusActive
	}
	for i := range j.Skills {
		j.Skills[i].Skill = strings.TrimSpace(j.Skills[i].Skill)
		if !j.Skills[i].Importance.IsValid() {
			j.Skills[i].Importance = SkillPreferred
		}
	}
	if j.PostedAt.IsZero() {
		j.PostedAt = time.Now()
	}
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
}
