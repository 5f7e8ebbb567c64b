package generation

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/middleware"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/respond"
)

// Handler exposes the generation operations over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches generation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-resume", h.generateResume)
	rg.POST("/generate-cover-letter", h.generateCoverLetter)
}

type resumeRequest struct {
	JobDescription string `json:"jobDescription"`
	Experience     string `json:"experience"`
	Skills         string `json:"skills"`
	UserID         string `json:"userId"`
}

type resumeResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ResumeID string `json:"resumeId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type coverLetterRequest struct {
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
	JobDescription string `json:"jobDescription"`
	Experience     string `json:"experience"`
	Skills         string `json:"skills"`
	UserID         string `json:"userId"`
}

type coverLetterResponse struct {
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) generateResume(c *gin.Context) {
	c.Set("generationKind", kindResume)
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, string(KindValidation), msgResumeMissing, "", err)
		return
	}

	res, err := h.Svc.GenerateResume(c.Request.Context(), middleware.UserIDFromContext(c), ResumeInput{
		JobDescription: req.JobDescription,
		Experience:     req.Experience,
		Skills:         req.Skills,
		UserID:         req.UserID,
	})
	if err != nil {
		fail(c, err, msgResumeFailed)
		return
	}
	c.Set("documentId", res.ID)
	respond.OK(c, resumeResponse{
		Success:  true,
		Message:  "Resume generated successfully",
		ResumeID: res.ID,
		Title:    res.Title,
		Content:  res.Content,
	})
}

func (h *Handler) generateCoverLetter(c *gin.Context) {
	c.Set("generationKind", kindCoverLetter)
	var req coverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, string(KindValidation), msgCoverLetterMissing, "", err)
		return
	}

	res, err := h.Svc.GenerateCoverLetter(c.Request.Context(), middleware.UserIDFromContext(c), CoverLetterInput{
		JobTitle:       req.JobTitle,
		Company:        req.Company,
		JobDescription: req.JobDescription,
		Experience:     req.Experience,
		Skills:         req.Skills,
		UserID:         req.UserID,
	})
	if err != nil {
		fail(c, err, msgCoverLetterFailed)
		return
	}
	respond.OK(c, coverLetterResponse{
		Content:   res.Content,
		Timestamp: res.Timestamp.Format(time.RFC3339),
	})
}

func fail(c *gin.Context, err error, fallback string) {
	status := HTTPStatus(err)
	message := SafeMessage(err)
	if message == "" {
		message = fallback
	}
	details := ""
	switch KindOf(err) {
	case KindGeneration:
		details = "generation failed, try again"
	case KindPersistence:
		details = "the document could not be saved, try again"
	}
	respond.Error(c, status, string(KindOf(err)), message, details, err)
}
