package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talenthub/internal/domain/dto"
	"talenthub/internal/middleware"
	"talenthub/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
