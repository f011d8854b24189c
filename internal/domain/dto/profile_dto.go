package dto

type ProfileUpdateRequest struct {
	Phone        string   `json:"phone" validate:"max=30"`
	Location     string   `json:"location" validate:"max=200"`
	LinkedInURL  string   `json:"linkedin_url" validate:"omitempty,url"`
	GithubURL    string   `json:"github_url" validate:"omitempty,url"`
	PortfolioURL string   `json:"portfolio_url" validate:"omitempty,url"`
	Skills       []string `json:"skills" validate:"dive,max=100"`
}
