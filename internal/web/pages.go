package web

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/documents"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/generation"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server/middleware"
	"github.com/Nirnoy12/covercraft-ai-tools/resume/render"
)

type landingView struct {
	Page Page
}

func (h *Handler) landing(c *gin.Context) {
	h.html(c, http.StatusOK, "landing.html", landingView{Page: pageFor(c, "Home")})
}

type signInView struct {
	Page          Page
	GoogleEnabled bool
	GoogleURL     string
}

func (h *Handler) signIn(c *gin.Context) {
	if middleware.UserIDFromContext(c) != "" {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	h.html(c, http.StatusOK, "sign_in.html", signInView{
		Page:          pageFor(c, "Sign in"),
		GoogleEnabled: h.SignInURL != "",
		GoogleURL:     h.SignInURL,
	})
}

// signUp has no form of its own: accounts are created by the identity
// provider on first sign-in.
func (h *Handler) signUp(c *gin.Context) {
	if h.SignInURL == "" {
		c.Redirect(http.StatusSeeOther, "/sign-in")
		return
	}
	c.Redirect(http.StatusSeeOther, h.SignInURL)
}

func (h *Handler) signOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookie, true)
	c.Redirect(http.StatusSeeOther, "/")
}

type documentRow struct {
	ID        string
	Title     string
	Kind      string
	CreatedAt time.Time
}

type dashboardView struct {
	Page      Page
	Documents []documentRow
	Error     string
}

func (h *Handler) dashboard(c *gin.Context) {
	view := dashboardView{Page: pageFor(c, "Dashboard")}
	docs, err := h.Docs.List(c.Request.Context(), middleware.UserIDFromContext(c), 0, 0)
	if err != nil {
		_ = c.Error(err)
		view.Error = "We could not load your documents. Please refresh the page."
		h.html(c, http.StatusInternalServerError, "dashboard.html", view)
		return
	}
	for _, doc := range docs {
		kind := render.NewView(doc.Title, doc.CreatedAt, render.Owner{}, doc.Content).Kind()
		view.Documents = append(view.Documents, documentRow{
			ID:        doc.ID,
			Title:     doc.Title,
			Kind:      kindLabel(kind),
			CreatedAt: doc.CreatedAt,
		})
	}
	h.html(c, http.StatusOK, "dashboard.html", view)
}

type resumeForm struct {
	JobDescription string `form:"jobDescription"`
	Experience     string `form:"experience"`
	Skills         string `form:"skills"`
}

type resumeFormView struct {
	Page  Page
	Form  resumeForm
	Error string
}

func (h *Handler) resumeForm(c *gin.Context) {
	h.html(c, http.StatusOK, "resume_form.html", resumeFormView{Page: pageFor(c, "Create resume")})
}

func (h *Handler) createResume(c *gin.Context) {
	c.Set("generationKind", "resume")
	view := resumeFormView{Page: pageFor(c, "Create resume")}
	if err := c.ShouldBind(&view.Form); err != nil {
		view.Error = "Please fill in all fields."
		h.html(c, http.StatusBadRequest, "resume_form.html", view)
		return
	}

	userID := middleware.UserIDFromContext(c)
	res, err := h.Gen.GenerateResume(c.Request.Context(), userID, generation.ResumeInput{
		JobDescription: view.Form.JobDescription,
		Experience:     view.Form.Experience,
		Skills:         view.Form.Skills,
		UserID:         userID,
	})
	if err != nil {
		_ = c.Error(err)
		view.Error = formError(err)
		h.html(c, generation.HTTPStatus(err), "resume_form.html", view)
		return
	}
	c.Set("documentId", res.ID)
	c.Redirect(http.StatusSeeOther, "/documents/"+res.ID)
}

type coverLetterForm struct {
	JobTitle       string `form:"jobTitle"`
	Company        string `form:"company"`
	JobDescription string `form:"jobDescription"`
	Experience     string `form:"experience"`
	Skills         string `form:"skills"`
}

type coverLetterView struct {
	Page        Page
	Form        coverLetterForm
	Error       string
	Letter      string
	GeneratedAt time.Time
}

func (h *Handler) coverLetterForm(c *gin.Context) {
	h.html(c, http.StatusOK, "cover_letter_form.html", coverLetterView{Page: pageFor(c, "Create cover letter")})
}

func (h *Handler) createCoverLetter(c *gin.Context) {
	c.Set("generationKind", "cover_letter")
	view := coverLetterView{Page: pageFor(c, "Create cover letter")}
	if err := c.ShouldBind(&view.Form); err != nil {
		view.Error = "Please fill in all fields."
		h.html(c, http.StatusBadRequest, "cover_letter_form.html", view)
		return
	}

	userID := middleware.UserIDFromContext(c)
	res, err := h.Gen.GenerateCoverLetter(c.Request.Context(), userID, generation.CoverLetterInput{
		JobTitle:       view.Form.JobTitle,
		Company:        view.Form.Company,
		JobDescription: view.Form.JobDescription,
		Experience:     view.Form.Experience,
		Skills:         view.Form.Skills,
		UserID:         userID,
	})
	if err != nil {
		_ = c.Error(err)
		view.Error = formError(err)
		h.html(c, generation.HTTPStatus(err), "cover_letter_form.html", view)
		return
	}
	view.Letter = res.Content
	view.GeneratedAt = res.Timestamp
	h.html(c, http.StatusOK, "cover_letter_form.html", view)
}

const msgSaveFieldsRequired = "Job title, company and letter text are required."

type saveCoverLetterForm struct {
	JobTitle string `form:"jobTitle"`
	Company  string `form:"company"`
	Content  string `form:"content"`
}

func (h *Handler) saveCoverLetter(c *gin.Context) {
	var form saveCoverLetterForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
		h.renderSaveFailure(c, form, http.StatusBadRequest, msgSaveFieldsRequired)
		return
	}

	doc, err := h.Docs.SaveCoverLetter(c.Request.Context(), middleware.UserIDFromContext(c), form.JobTitle, form.Company, form.Content)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, documents.ErrInvalidInput) {
			h.renderSaveFailure(c, form, http.StatusBadRequest, msgSaveFieldsRequired)
			return
		}
		h.renderSaveFailure(c, form, http.StatusInternalServerError, "We could not save your cover letter. Please try again.")
		return
	}
	c.Set("documentId", doc.ID)
	c.Redirect(http.StatusSeeOther, "/documents/"+doc.ID)
}

// renderSaveFailure shows the preview again so the letter text is not lost.
func (h *Handler) renderSaveFailure(c *gin.Context, form saveCoverLetterForm, status int, msg string) {
	h.html(c, status, "cover_letter_form.html", coverLetterView{
		Page:   pageFor(c, "Create cover letter"),
		Form:   coverLetterForm{JobTitle: form.JobTitle, Company: form.Company},
		Letter: form.Content,
		Error:  msg,
	})
}

type documentView struct {
	Page     Page
	Document documents.Document
	Body     template.HTML
}

func (h *Handler) document(c *gin.Context) {
	doc, ok := h.loadDocument(c)
	if !ok {
		return
	}
	body, err := render.Fragment(render.NewView(doc.Title, doc.CreatedAt, owner(c), doc.Content))
	if err != nil {
		h.serverError(c, err, "We could not display this document.")
		return
	}
	h.html(c, http.StatusOK, "document.html", documentView{
		Page:     pageFor(c, doc.Title),
		Document: doc,
		Body:     body,
	})
}

func (h *Handler) confirmDelete(c *gin.Context) {
	doc, ok := h.loadDocument(c)
	if !ok {
		return
	}
	h.html(c, http.StatusOK, "delete_confirm.html", documentView{
		Page:     pageFor(c, "Delete "+doc.Title),
		Document: doc,
	})
}

func (h *Handler) deleteDocument(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)
	if c.PostForm("confirm") != "true" {
		c.Redirect(http.StatusSeeOther, "/documents/"+id+"/delete")
		return
	}
	if err := h.Docs.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		h.serverError(c, err, "We could not delete this document. Please try again.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func formError(err error) string {
	switch generation.KindOf(err) {
	case generation.KindValidation:
		return "Please fill in all fields."
	case generation.KindAuth:
		return "Your session does not match this request. Please sign in again."
	case generation.KindPersistence:
		return "Your document was generated but could not be saved. Please try again."
	default:
		return "Generation failed, please try again."
	}
}
