package documents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/metrics"
	"github.com/Nirnoy12/covercraft-ai-tools/resume/model"
)

// Service contains business logic for documents.
type Service struct {
	Repo DocumentsRepo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo DocumentsRepo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Create stores a new document for userID. ID and CreatedAt are assigned here.
func (s *Service) Create(ctx context.Context, userID, title, content string) (Document, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(title) == "" || content == "" {
		return Document{}, ErrInvalidInput
	}

	doc := Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		observe("create", err)
		return Document{}, persistenceErr("create", err)
	}
	observe("create", nil)
	return doc, nil
}

// SaveCoverLetter persists a generated letter body as a cover letter record.
func (s *Service) SaveCoverLetter(ctx context.Context, userID, jobTitle, company, body string) (Document, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	company = strings.TrimSpace(company)
	body = strings.TrimSpace(body)
	if jobTitle == "" || company == "" || body == "" {
		return Document{}, ErrInvalidInput
	}

	content, err := model.NewCoverLetter(jobTitle, company, body).Encode()
	if err != nil {
		return Document{}, err
	}
	return s.Create(ctx, userID, model.CoverLetterTitle(company, jobTitle), content)
}

// Get returns the document only when userID owns it.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if strings.TrimSpace(userID) == "" {
		return Document{}, ErrInvalidInput
	}
	if _, err := uuid.Parse(documentID); err != nil {
		return Document{}, ErrNotFound
	}
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	switch {
	case err == nil:
		observe("get", nil)
		return doc, nil
	case errors.Is(err, ErrNotFound):
		observe("get", err)
		return Document{}, ErrNotFound
	default:
		observe("get", err)
		return Document{}, persistenceErr("get", err)
	}
}

// List returns the user's documents newest first; never nil.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	docs, err := s.Repo.ListByUser(ctx, userID, limit, offset)
	observe("list", err)
	if err != nil {
		return nil, persistenceErr("list", err)
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// Delete removes the document if userID owns it. Deleting a missing or
// foreign id succeeds without effect.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}
	if _, err := uuid.Parse(documentID); err != nil {
		observe("delete", nil)
		return nil
	}
	err := s.Repo.Delete(ctx, userID, documentID)
	observe("delete", err)
	return persistenceErr("delete", err)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func observe(op string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	metrics.DocumentOps.WithLabelValues(op, result).Inc()
}
