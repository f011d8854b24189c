package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"talenthub/internal/middleware"
	"talenthub/internal/service"
)

// maxResumeSize caps resume uploads at 10 MB.
const maxResumeSize = 10 << 20

type ResumeHandler struct {
	resumeService *service.ResumeService
}

func NewResumeHandler(resumeService *service.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

// Analyze handles POST /api/v1/resume/analyze. The resume arrives as a
// multipart "resume" file; an optional "job_id" form field scores it against
// that job.
func (h *ResumeHandler) Analyze(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No resume file uploaded"})
		return
	}
	if fileHeader.Size > maxResumeSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Resume exceeds the 10MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}

	jobID := uuid.Nil
	if raw := c.PostForm("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job_id"})
			return
		}
		jobID = id
	}

	result, err := h.resumeService.Analyze(c.Request.Context(), identity.UserID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
