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

type ApplicationHandler struct {
	appService *service.ApplicationService
}

func NewApplicationHandler(appService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// Apply handles POST /api/v1/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req dto.ApplyRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appService.Apply(c.Request.Context(), middleware.IdentityFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// List handles GET /api/v1/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	filter := &domain.ApplicationFilter{
		Status:   domain.ApplicationStatus(c.Query("status")),
		MinScore: intQuery(c, "min_score", 0),
		SortBy:   c.Query("sort"),
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 12),
	}
	if jobID := c.Query("job_id"); jobID != "" {
		id, err := uuid.Parse(jobID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job_id"})
			return
		}
		filter.JobID = id
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	items, total, err := h.appService.List(c.Request.Context(), middleware.IdentityFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPagedResponse(items, filter.Page, filter.Limit, total))
}

// Get handles GET /api/v1/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	applicationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	app, err := h.appService.Get(c.Request.Context(), middleware.IdentityFrom(c), applicationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// UpdateStatus handles PATCH /api/v1/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	applicationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	app, err := h.appService.UpdateStatus(c.Request.Context(), middleware.IdentityFrom(c),
		applicationID, domain.ApplicationStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// Analytics handles GET /api/v1/applications/analytics
func (h *ApplicationHandler) Analytics(c *gin.Context) {
	jobID := uuid.Nil
	if raw := c.Query("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job_id"})
			return
		}
		jobID = id
	}

	timeframe := 0
	switch c.DefaultQuery("timeframe", "30") {
	case "7":
		timeframe = 7
	case "30":
		timeframe = 30
	case "90":
		timeframe = 90
	case "all":
		timeframe = 0
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timeframe, expected 7, 30, 90 or all"})
		return
	}

	report, err := h.appService.Analytics(c.Request.Context(), middleware.IdentityFrom(c), jobID, timeframe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
