package dto

import "time"

type JobSkillInput struct {
	Skill      string `json:"skill" validate:"required,max=100"`
	Importance string `json:"importance"`
}

type JobCreateRequest struct {
	CompanyID       string          `json:"company_id" validate:"required,uuid"`
	Title           string          `json:"title" validate:"required,max=200"`
	Description     string          `json:"description" validate:"required"`
	Location        string          `json:"location" validate:"required,max=200"`
	JobType         string          `json:"job_type" validate:"required,max=50"`
	SalaryMin       int             `json:"salary_min" validate:"min=0"`
	SalaryMax       int             `json:"salary_max" validate:"min=0"`
	ExperienceLevel string          `json:"experience_level"`
	Education       string          `json:"education"`
	Department      string          `json:"department"`
	Status          string          `json:"status"`
	ClosingDate     *time.Time      `json:"closing_date"`
	Skills          []JobSkillInput `json:"skills" validate:"dive"`
}

type JobUpdateRequest struct {
	Title           string          `json:"title" validate:"required,max=200"`
	Description     string          `json:"description" validate:"required"`
	Location        string          `json:"location" validate:"required,max=200"`
	JobType         string          `json:"job_type" validate:"required,max=50"`
	SalaryMin       int             `json:"salary_min" validate:"min=0"`
	SalaryMax       int             `json:"salary_max" validate:"min=0"`
	ExperienceLevel string          `json:"experience_level"`
	Education       string          `json:"education"`
	Department      string          `json:"department"`
	Status          string          `json:"status"`
	ClosingDate     *time.Time      `json:"closing_date"`
	Skills          []JobSkillInput `json:"skills" validate:"dive"`
}

// PagedResponse is the envelope every list endpoint returns.
type PagedResponse struct {
	Items      any `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

func NewPagedResponse(items any, page, limit, totalItems int) PagedResponse {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}
	return PagedResponse{
		Items:      items,
		Page:       page,
		Limit:      limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
