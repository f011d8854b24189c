package domain

import (
	"time"

	"github.com/google/uuid"
)

// CandidateProfile is owned 1:1 by a jobseeker user. Skills are persisted here
// (extracted from the latest resume analysis) and feed the match preview.
type CandidateProfile struct {
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Phone        string    `json:"phone" db:"phone"`
	Location     string    `json:"location" db:"location"`
	ResumeURL    string    `json:"resume_url" db:"resume_url"`
	LinkedInURL  string    `json:"linkedin_url" db:"linkedin_url"`
	GithubURL    string    `json:"github_url" db:"github_url"`
	PortfolioURL string    `json:"portfolio_url" db:"portfolio_url"`
	Skills       []string  `json:"skills"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileLinks carries the optional social links a candidate may attach while
// applying. Non-empty fields are written to the profile as a best-effort
// post-commit update.
type ProfileLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Github    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

func (l ProfileLinks) IsEmpty() bool {
	return l.LinkedIn == "" && l.Github == "" && l.Portfolio == ""
}
