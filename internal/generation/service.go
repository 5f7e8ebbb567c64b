package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/documents"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/llm"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/metrics"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/storage/object"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/telemetry"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/util"
	"github.com/Nirnoy12/covercraft-ai-tools/resume/model"
)

const (
	temperature          = 0.7
	coverLetterMaxTokens = 1000

	kindResume      = "resume"
	kindCoverLetter = "cover_letter"

	msgResumeMissing      = "Missing required fields: job description, experience, skills, and userId are required"
	msgCoverLetterMissing = "Missing required fields"
	msgUserMismatch       = "userId does not match the authenticated user"
	msgResumeFailed       = "Failed to generate resume"
	msgCoverLetterFailed  = "Failed to generate cover letter"
)

// DocumentWriter persists generated documents.
type DocumentWriter interface {
	Create(ctx context.Context, userID, title, content string) (documents.Document, error)
}

// ResumeInput is the resume form as submitted by the caller.
type ResumeInput struct {
	JobDescription string
	Experience     string
	Skills         string
	UserID         string
}

// ResumeResult describes the persisted resume.
type ResumeResult struct {
	ID      string
	Title   string
	Content string
}

// CoverLetterInput is the cover letter form as submitted by the caller.
type CoverLetterInput struct {
	JobTitle       string
	Company        string
	JobDescription string
	Experience     string
	Skills         string
	UserID         string
}

// CoverLetterResult is the generated letter body. It is not persisted.
type CoverLetterResult struct {
	Content   string
	Timestamp time.Time
}

// Service runs the two generation operations.
type Service struct {
	LLM       llm.Client
	Documents DocumentWriter
	// Quarantine receives model output that fails the resume schema. Optional.
	Quarantine       object.ObjectStore
	QuarantinePrefix string
	Now              func() time.Time
}

// NewService constructs a Service.
func NewService(client llm.Client, docs DocumentWriter, quarantine object.ObjectStore, quarantinePrefix string) *Service {
	return &Service{
		LLM:              client,
		Documents:        docs,
		Quarantine:       quarantine,
		QuarantinePrefix: quarantinePrefix,
		Now:              time.Now,
	}
}

// GenerateResume validates the form, asks the model for a structured resume
// and stores it for the verified caller.
func (s *Service) GenerateResume(ctx context.Context, callerID string, in ResumeInput) (ResumeResult, error) {
	const op = "generation.GenerateResume"
	in = ResumeInput{
		JobDescription: strings.TrimSpace(in.JobDescription),
		Experience:     strings.TrimSpace(in.Experience),
		Skills:         strings.TrimSpace(in.Skills),
		UserID:         strings.TrimSpace(in.UserID),
	}
	if in.JobDescription == "" || in.Experience == "" || in.Skills == "" || in.UserID == "" {
		return ResumeResult{}, newError(KindValidation, op, msgResumeMissing, nil)
	}
	if err := checkCaller(op, callerID, in.UserID); err != nil {
		return ResumeResult{}, err
	}

	out, err := s.complete(ctx, kindResume, llm.CompletionRequest{
		Messages:    resumeMessages(in),
		Temperature: temperature,
		JSON:        true,
	})
	if err != nil {
		return ResumeResult{}, newError(KindGeneration, op, msgResumeFailed, err)
	}

	resume, err := model.ParseResume(out.Text)
	if err != nil {
		metrics.GenerationFailed.WithLabelValues(kindResume, "schema").Inc()
		s.quarantine(ctx, callerID, out.Text, err)
		return ResumeResult{}, newError(KindGeneration, op, msgResumeFailed, err)
	}
	content, err := resume.Canonical()
	if err != nil {
		return ResumeResult{}, newError(KindGeneration, op, msgResumeFailed, err)
	}

	doc, err := s.Documents.Create(ctx, callerID, model.ResumeTitle(in.JobDescription), content)
	if err != nil {
		metrics.GenerationFailed.WithLabelValues(kindResume, string(KindPersistence)).Inc()
		return ResumeResult{}, newError(KindPersistence, op, msgResumeFailed, err)
	}
	telemetry.Info("generation.resume_saved", map[string]any{
		"user_id":     callerID,
		"document_id": doc.ID,
		"skills":      len(resume.Skills),
	})
	return ResumeResult{ID: doc.ID, Title: doc.Title, Content: doc.Content}, nil
}

// GenerateCoverLetter returns a letter body for the form. Saving it is a
// separate step.
func (s *Service) GenerateCoverLetter(ctx context.Context, callerID string, in CoverLetterInput) (CoverLetterResult, error) {
	const op = "generation.GenerateCoverLetter"
	in = CoverLetterInput{
		JobTitle:       strings.TrimSpace(in.JobTitle),
		Company:        strings.TrimSpace(in.Company),
		JobDescription: strings.TrimSpace(in.JobDescription),
		Experience:     strings.TrimSpace(in.Experience),
		Skills:         strings.TrimSpace(in.Skills),
		UserID:         strings.TrimSpace(in.UserID),
	}
	if in.JobTitle == "" || in.Company == "" || in.JobDescription == "" ||
		in.Experience == "" || in.Skills == "" || in.UserID == "" {
		return CoverLetterResult{}, newError(KindValidation, op, msgCoverLetterMissing, nil)
	}
	if err := checkCaller(op, callerID, in.UserID); err != nil {
		return CoverLetterResult{}, err
	}

	out, err := s.complete(ctx, kindCoverLetter, llm.CompletionRequest{
		Messages:    coverLetterMessages(in),
		Temperature: temperature,
		MaxTokens:   coverLetterMaxTokens,
	})
	if err != nil {
		return CoverLetterResult{}, newError(KindGeneration, op, msgCoverLetterFailed, err)
	}
	return CoverLetterResult{
		Content:   strings.TrimSpace(out.Text),
		Timestamp: s.now(),
	}, nil
}

func (s *Service) complete(ctx context.Context, kind string, req llm.CompletionRequest) (llm.Completion, error) {
	if s.LLM == nil {
		metrics.GenerationFailed.WithLabelValues(kind, "upstream").Inc()
		return llm.Completion{}, llm.ErrNotImplemented
	}
	metrics.GenerationStarted.WithLabelValues(kind).Inc()
	start := time.Now()
	out, err := s.LLM.Complete(ctx, req)
	metrics.ObserveGeneration(kind, start)
	if err != nil {
		metrics.GenerationFailed.WithLabelValues(kind, "upstream").Inc()
		return llm.Completion{}, err
	}
	if strings.TrimSpace(out.Text) == "" {
		metrics.GenerationFailed.WithLabelValues(kind, "upstream").Inc()
		return llm.Completion{}, llm.ErrEmptyContent
	}
	return out, nil
}

// quarantine keeps non-conforming output for operators. Failures are logged
// and never change the caller's result.
func (s *Service) quarantine(ctx context.Context, userID, raw string, cause error) {
	metrics.QuarantinedOutputs.Inc()
	fields := map[string]any{"user_id": userID, "reason": cause.Error(), "bytes": len(raw)}
	if s.Quarantine == nil {
		telemetry.Warn("generation.quarantine_skipped", fields)
		return
	}
	key := s.quarantineKey(userID)
	if _, err := s.Quarantine.SaveWithKey(ctx, key, "text/plain; charset=utf-8", strings.NewReader(raw)); err != nil {
		fields["error"] = err.Error()
		telemetry.Error("generation.quarantine_failed", fields)
		return
	}
	fields["key"] = key
	telemetry.Warn("generation.quarantined", fields)
}

func (s *Service) quarantineKey(userID string) string {
	name := fmt.Sprintf("%s_%s.txt", s.now().Format("20060102T150405Z"), uuid.NewString())
	prefix := strings.Trim(s.QuarantinePrefix, "/")
	if prefix == "" {
		return util.HashUserKey(userID) + "/" + name
	}
	return prefix + "/" + util.HashUserKey(userID) + "/" + name
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func checkCaller(op, callerID, userID string) error {
	if strings.TrimSpace(callerID) == "" {
		return newError(KindAuth, op, "authentication required", errors.New("missing caller identity"))
	}
	if callerID != userID {
		return newError(KindAuth, op, msgUserMismatch, nil)
	}
	return nil
}
