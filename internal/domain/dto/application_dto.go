package dto

import "talenthub/internal/domain"

type ApplyRequest struct {
	JobID       string            `json:"job_id" validate:"required,uuid"`
	CoverLetter string            `json:"cover_letter" validate:"max=5000"`
	ResumeURL   string            `json:"resume_url"`
	Answers     map[string]string `json:"custom_questions"`

	// Optional profile links the candidate attaches while applying. They are
	// copied onto the candidate profile after the application is created.
	LinkedInURL  string `json:"linkedin_url" validate:"omitempty,url"`
	GithubURL    string `json:"github_url" validate:"omitempty,url"`
	PortfolioURL string `json:"portfolio_url" validate:"omitempty,url"`

	// Analysis carries the output of a prior resume analysis, if the
	// candidate ran one. Its score and skill categorization are persisted
	// with the application.
	Analysis *AnalysisInput `json:"analysis"`
}

type AnalysisInput struct {
	MatchScore *int                   `json:"match_score"`
	Skills     *domain.SkillPartition `json:"skills"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

type AnalyzeResumeRequest struct {
	JobID string `json:"job_id" validate:"omitempty,uuid"`
}
