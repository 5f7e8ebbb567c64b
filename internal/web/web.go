package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	ginrender "github.com/gin-gonic/gin/render"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/documents"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/generation"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/middleware"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/telemetry"
	"github.com/Nirnoy12/covercraft-ai-tools/resume/model"
	"github.com/Nirnoy12/covercraft-ai-tools/resume/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"landing.html",
	"sign_in.html",
	"dashboard.html",
	"resume_form.html",
	"cover_letter_form.html",
	"document.html",
	"delete_confirm.html",
	"not_found.html",
}

// Documents is the document store as seen by the pages.
type Documents interface {
	List(ctx context.Context, userID string, limit, offset int) ([]documents.Document, error)
	Get(ctx context.Context, userID, documentID string) (documents.Document, error)
	Delete(ctx context.Context, userID, documentID string) error
	SaveCoverLetter(ctx context.Context, userID, jobTitle, company, body string) (documents.Document, error)
}

// Generator runs the generation operations.
type Generator interface {
	GenerateResume(ctx context.Context, callerID string, in generation.ResumeInput) (generation.ResumeResult, error)
	GenerateCoverLetter(ctx context.Context, callerID string, in generation.CoverLetterInput) (generation.CoverLetterResult, error)
}

// Handler serves the server-rendered client pages.
type Handler struct {
	Docs Documents
	Gen  Generator
	// SignInURL starts the hosted sign-in flow; empty disables sign-in.
	SignInURL    string
	SecureCookie bool

	pages map[string]*template.Template
}

// NewHandler parses the page templates.
func NewHandler(docs Documents, gen Generator, signInURL string) (*Handler, error) {
	funcs := template.FuncMap{
		"date": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}
	return &Handler{Docs: docs, Gen: gen, SignInURL: signInURL, pages: pages}, nil
}

// RegisterRoutes attaches page routes. r must already run middleware.Authenticate.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.landing)
	r.GET("/sign-in", h.signIn)
	r.GET("/sign-up", h.signUp)
	r.POST("/sign-out", h.signOut)

	app := r.Group("/", requireSession())
	app.GET("/dashboard", h.dashboard)
	app.GET("/resume/new", h.resumeForm)
	app.POST("/resume/new", h.createResume)
	app.GET("/cover-letter/new", h.coverLetterForm)
	app.POST("/cover-letter/new", h.createCoverLetter)
	app.POST("/cover-letter/save", h.saveCoverLetter)
	app.GET("/documents/:id", h.document)
	app.GET("/documents/:id/delete", h.confirmDelete)
	app.POST("/documents/:id/delete", h.deleteDocument)
}

// requireSession sends visitors without a verified identity to sign in.
func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.UserIDFromContext(c) == "" {
			c.Redirect(http.StatusSeeOther, "/sign-in")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Page carries the chrome shared by every page.
type Page struct {
	Title     string
	SignedIn  bool
	UserEmail string
}

func pageFor(c *gin.Context, title string) Page {
	return Page{
		Title:     title,
		SignedIn:  middleware.UserIDFromContext(c) != "",
		UserEmail: middleware.UserEmailFromContext(c),
	}
}

func (h *Handler) html(c *gin.Context, status int, name string, data any) {
	c.Render(status, ginrender.HTML{Template: h.pages[name], Name: "layout.html", Data: data})
}

type messageView struct {
	Page    Page
	Message string
}

func (h *Handler) notFound(c *gin.Context) {
	h.html(c, http.StatusNotFound, "not_found.html", messageView{
		Page:    pageFor(c, "Document not found"),
		Message: "This document does not exist or you do not have access to it.",
	})
}

func (h *Handler) serverError(c *gin.Context, err error, message string) {
	telemetry.Error("web.error", map[string]any{
		"path":       c.Request.URL.Path,
		"user_id":    middleware.UserIDFromContext(c),
		"request_id": c.GetString("requestId"),
		"error":      err.Error(),
	})
	h.html(c, http.StatusInternalServerError, "not_found.html", messageView{
		Page:    pageFor(c, "Something went wrong"),
		Message: message,
	})
}

func (h *Handler) loadDocument(c *gin.Context) (documents.Document, bool) {
	id := c.Param("id")
	c.Set("documentId", id)
	doc, err := h.Docs.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	switch {
	case err == nil:
		return doc, true
	case errors.Is(err, documents.ErrNotFound):
		h.notFound(c)
	default:
		h.serverError(c, err, "We could not load this document. Please try again.")
	}
	return documents.Document{}, false
}

func kindLabel(k model.Kind) string {
	switch k {
	case model.KindResume, model.KindLegacyResume:
		return "Resume"
	case model.KindCoverLetter:
		return "Cover letter"
	default:
		return "Unknown"
	}
}

func owner(c *gin.Context) render.Owner {
	return render.Owner{Name: middleware.UserNameFromContext(c), Email: middleware.UserEmailFromContext(c)}
}
