package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/middleware"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/respond"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/util"
	"github.com/Nirnoy12/covercraft-ai-tools/resume/render"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
	rg.POST("/documents/cover-letters", h.saveCoverLetter)
	rg.GET("/documents/:id", h.get)
	rg.GET("/documents/:id/print", h.print)
	rg.DELETE("/documents/:id", h.delete)
}

type saveCoverLetterRequest struct {
	JobTitle string `json:"jobTitle"`
	Company  string `json:"company"`
	Content  string `json:"content"`
}

func (h *Handler) saveCoverLetter(c *gin.Context) {
	var req saveCoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", "", err)
		return
	}

	doc, err := h.Svc.SaveCoverLetter(c.Request.Context(), middleware.UserIDFromContext(c), req.JobTitle, req.Company, req.Content)
	if errors.Is(err, ErrInvalidInput) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobTitle, company and content are required", "", nil)
		return
	}
	if err != nil {
		h.fail(c, err, "failed to save cover letter")
		return
	}
	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusCreated, toSummary(doc))
}

func (h *Handler) list(c *gin.Context) {
	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 100 {
		limit = 100
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	docs, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		h.fail(c, err, "failed to list documents")
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) print(c *gin.Context) {
	doc, ok := h.load(c)
	if !ok {
		return
	}

	view := render.NewView(doc.Title, doc.CreatedAt, render.Owner{
		Name:  middleware.UserNameFromContext(c),
		Email: middleware.UserEmailFromContext(c),
	}, doc.Content)

	if c.Query("download") == "1" {
		c.Header("Content-Disposition", `attachment; filename="`+util.SafeFileName(doc.Title, "html")+`"`)
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := render.Page(c.Writer, view); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) delete(c *gin.Context) {
	if c.Query("confirm") != "true" {
		respond.Error(c, http.StatusBadRequest, "confirmation_required", "deletion must be confirmed with confirm=true", "", nil)
		return
	}
	id := c.Param("id")
	c.Set("documentId", id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		h.fail(c, err, "failed to delete document")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) load(c *gin.Context) (Document, bool) {
	id := c.Param("id")
	c.Set("documentId", id)
	doc, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		h.fail(c, err, "failed to fetch document")
		return Document{}, false
	}
	return doc, true
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", "", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request", "", err)
	default:
		respond.Error(c, http.StatusInternalServerError, "persistence_error", message, "", err)
	}
}
