package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"talenthub/internal/domain"
	"talenthub/internal/domain/dto"
	"talenthub/internal/middleware"
	"talenthub/internal/service"
)

type JobHandler struct {
	jobService *service.JobService
}

func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// List handles GET /api/v1/jobs, the public job board.
func (h *JobHandler) List(c *gin.Context) {
	filter := &domain.JobFilter{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		JobType:  c.Query("job_type"),
		SortBy:   c.Query("sort"),
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 12),
	}
	if companyID := c.Query("company_id"); companyID != "" {
		id, err := uuid.Parse(companyID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company_id"})
			return
		}
		filter.CompanyID = id
	}

	jobs, total, err := h.jobService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPagedResponse(jobs, filter.Page, filter.Limit, total))
}

// Get handles GET /api/v1/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	identity := middleware.IdentityFrom(c)
	job, err := h.jobService.Get(c.Request.Context(), identity, jobID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"job": job}
	if identity != nil && identity.Role.CanManageCompany() {
		if count, err := h.jobService.CountApplications(c.Request.Context(), identity, jobID); err == nil {
			response["application_count"] = count
		}
	}
	c.JSON(http.StatusOK, response)
}

// Create handles POST /api/v1/jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req dto.JobCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), middleware.IdentityFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// Update handles PUT /api/v1/jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.JobUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), middleware.IdentityFrom(c), jobID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// Delete handles DELETE /api/v1/jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), middleware.IdentityFrom(c), jobID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}

// ListCompany handles GET /api/v1/companies/:id/jobs
func (h *JobHandler) ListCompany(c *gin.Context) {
	companyID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	filter := &domain.JobFilter{
		Status: domain.JobStatus(c.Query("status")),
		SortBy: c.Query("sort"),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 12),
	}

	jobs, total, err := h.jobService.ListCompany(c.Request.Context(), middleware.IdentityFrom(c), companyID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPagedResponse(jobs, filter.Page, filter.Limit, total))
}

// MatchPreview handles GET /api/v1/jobs/:id/match
func (h *JobHandler) MatchPreview(c *gin.Context) {
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	identity := middleware.IdentityFrom(c)
	result, hasApplied, err := h.jobService.MatchPreview(c.Request.Context(), identity, jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"match_score": result.Score,
		"skills":      result.Skills,
		"has_applied": hasApplied,
	})
}
