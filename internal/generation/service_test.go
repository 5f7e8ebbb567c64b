package generation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/documents"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/llm"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/storage/object/local"
	"github.com/Nirnoy12/covercraft-ai-tools/resume/model"
)

const validResume = "```json\n" + `{
  "professionalSummary": "Backend engineer focused on payments.",
  "workExperience": [
    {"position": "Backend Engineer", "company": "Fintech Co", "duration": "2019-2024", "description": "Built payments system. Led 4 engineers."}
  ],
  "skills": ["Go", "Kafka", "Postgres"],
  "education": []
}` + "\n```"

type fakeLLM struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []llm.CompletionRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.CompletionRequest) (llm.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return llm.Completion{}, f.err
	}
	return llm.Completion{Text: f.text, Model: "fake"}, nil
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type failingWriter struct{}

func (failingWriter) Create(ctx context.Context, userID, title, content string) (documents.Document, error) {
	return documents.Document{}, errors.New("connection refused")
}

func newTestService(t *testing.T, client llm.Client) (*Service, *documents.Service, string) {
	t.Helper()
	docs := documents.NewService(documents.NewMemoryRepo())
	dir := t.TempDir()
	svc := NewService(client, docs, local.New(dir), "quarantine")
	svc.Now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, docs, dir
}

func TestGenerateResumeRejectsBlankFieldsWithoutCallingLLM(t *testing.T) {
	client := &fakeLLM{text: validResume}
	svc, _, _ := newTestService(t, client)

	full := ResumeInput{JobDescription: "Senior Backend Engineer", Experience: "Built payments", Skills: "Go", UserID: "user-a"}
	cases := map[string]ResumeInput{
		"jobDescription": {Experience: full.Experience, Skills: full.Skills, UserID: full.UserID, JobDescription: "  "},
		"experience":     {JobDescription: full.JobDescription, Skills: full.Skills, UserID: full.UserID},
		"skills":         {JobDescription: full.JobDescription, Experience: full.Experience, UserID: full.UserID, Skills: "\t\n"},
		"userId":         {JobDescription: full.JobDescription, Experience: full.Experience, Skills: full.Skills, UserID: " "},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.GenerateResume(context.Background(), "user-a", in)
			require.Error(t, err)
			require.Equal(t, KindValidation, KindOf(err))
		})
	}
	require.Equal(t, 0, client.callCount())
}

func TestGenerateResumePersistsEntriesWithoutJobTitles(t *testing.T) {
	client := &fakeLLM{text: `{"professionalSummary":"Backend engineer.","workExperience":[` +
		`{"position":"","company":"","duration":"","description":"Built payments system"},` +
		`{"position":"","company":"","duration":"","description":"Led 4 engineers"}],` +
		`"skills":["Go","Kafka","Postgres"],"education":[]}`}
	svc, docs, dir := newTestService(t, client)

	_, err := svc.GenerateResume(context.Background(), "user-a", ResumeInput{
		JobDescription: "Senior Backend Engineer",
		Experience:     "Built payments system\nLed 4 engineers",
		Skills:         "Go, Kafka, Postgres",
		UserID:         "user-a",
	})
	require.NoError(t, err)

	stored, err := docs.List(context.Background(), "user-a", 0, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Contains(t, stored[0].Content, "Led 4 engineers")

	quarantined, err := filepath.Glob(filepath.Join(dir, "quarantine", "*", "*"))
	require.NoError(t, err)
	require.Empty(t, quarantined)
	require.Contains(t, client.calls[0].Messages[1].Content, `put the line in "description"`)
}

func TestGenerateCoverLetterRejectsBlankFieldsWithoutCallingLLM(t *testing.T) {
	client := &fakeLLM{text: "Dear team"}
	svc, _, _ := newTestService(t, client)

	base := func() CoverLetterInput {
		return CoverLetterInput{JobTitle: "Go Developer", Company: "Acme", JobDescription: "Build APIs", Experience: "5 years", Skills: "Go", UserID: "user-a"}
	}
	blanks := map[string]func(*CoverLetterInput){
		"jobTitle":       func(in *CoverLetterInput) { in.JobTitle = " " },
		"company":        func(in *CoverLetterInput) { in.Company = "" },
		"jobDescription": func(in *CoverLetterInput) { in.JobDescription = "\n" },
		"experience":     func(in *CoverLetterInput) { in.Experience = "" },
		"skills":         func(in *CoverLetterInput) { in.Skills = "   " },
		"userId":         func(in *CoverLetterInput) { in.UserID = "" },
	}
	for name, blank := range blanks {
		t.Run(name, func(t *testing.T) {
			in := base()
			blank(&in)
			_, err := svc.GenerateCoverLetter(context.Background(), "user-a", in)
			require.Equal(t, KindValidation, KindOf(err))
		})
	}
	require.Equal(t, 0, client.callCount())
}

func TestGenerateResumeEndToEnd(t *testing.T) {
	client := &fakeLLM{text: validResume}
	svc, docs, _ := newTestService(t, client)

	res, err := svc.GenerateResume(context.Background(), "user-a", ResumeInput{
		JobDescription: "Senior Backend Engineer",
		Experience:     "Built payments system\nLed 4 engineers",
		Skills:         "Go, Kafka, Postgres",
		UserID:         "user-a",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.Title, "Resume for Senior Backend Engineer"))

	require.Equal(t, 1, client.callCount())
	call := client.calls[0]
	require.True(t, call.JSON)
	require.InDelta(t, 0.7, call.Temperature, 0.001)
	require.Zero(t, call.MaxTokens)
	require.Contains(t, call.Messages[1].Content, "Senior Backend Engineer")

	stored, err := docs.List(context.Background(), "user-a", 0, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "user-a", stored[0].UserID)
	require.Equal(t, res.ID, stored[0].ID)

	content, err := model.ParseContent(stored[0].Content)
	require.NoError(t, err)
	require.Equal(t, model.KindResume, content.Kind)
	require.Len(t, content.Resume.Skills, 3)
}

func TestGenerateResumeRejectsMismatchedUser(t *testing.T) {
	client := &fakeLLM{text: validResume}
	svc, docs, _ := newTestService(t, client)

	_, err := svc.GenerateResume(context.Background(), "user-a", ResumeInput{
		JobDescription: "Senior Backend Engineer",
		Experience:     "Built payments system",
		Skills:         "Go",
		UserID:         "user-b",
	})
	require.Equal(t, KindAuth, KindOf(err))
	require.Equal(t, 0, client.callCount())

	stored, err := docs.List(context.Background(), "user-b", 0, 0)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestGenerateResumeQuarantinesMalformedOutput(t *testing.T) {
	client := &fakeLLM{text: "Here is your resume: Senior engineer with many skills"}
	svc, docs, dir := newTestService(t, client)

	_, err := svc.GenerateResume(context.Background(), "user-a", ResumeInput{
		JobDescription: "Senior Backend Engineer",
		Experience:     "Built payments system",
		Skills:         "Go",
		UserID:         "user-a",
	})
	require.Equal(t, KindGeneration, KindOf(err))
	require.ErrorIs(t, err, model.ErrParse)

	stored, err := docs.List(context.Background(), "user-a", 0, 0)
	require.NoError(t, err)
	require.Empty(t, stored)

	matches, err := filepath.Glob(filepath.Join(dir, "quarantine", "*", "20260301T120000Z_*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	raw, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.Equal(t, client.text, string(raw))
}

func TestGenerateResumeUpstreamFailure(t *testing.T) {
	client := &fakeLLM{err: llm.ErrNoChoices}
	svc, _, _ := newTestService(t, client)

	_, err := svc.GenerateResume(context.Background(), "user-a", ResumeInput{
		JobDescription: "Senior Backend Engineer", Experience: "x", Skills: "Go", UserID: "user-a",
	})
	require.Equal(t, KindGeneration, KindOf(err))
	require.ErrorIs(t, err, llm.ErrNoChoices)
}

func TestGenerateResumePersistenceFailure(t *testing.T) {
	svc := NewService(&fakeLLM{text: validResume}, failingWriter{}, nil, "")

	_, err := svc.GenerateResume(context.Background(), "user-a", ResumeInput{
		JobDescription: "Senior Backend Engineer", Experience: "x", Skills: "Go", UserID: "user-a",
	})
	require.Equal(t, KindPersistence, KindOf(err))
	require.Equal(t, msgResumeFailed, SafeMessage(err))
}

func TestGenerateCoverLetter(t *testing.T) {
	client := &fakeLLM{text: "\n  Dear hiring team,\n\nI am excited to apply.  \n"}
	svc, docs, _ := newTestService(t, client)

	res, err := svc.GenerateCoverLetter(context.Background(), "user-a", CoverLetterInput{
		JobTitle: "Go Developer", Company: "Acme", JobDescription: "Build APIs",
		Experience: "5 years of Go", Skills: "Go, gRPC", UserID: "user-a",
	})
	require.NoError(t, err)
	require.Equal(t, "Dear hiring team,\n\nI am excited to apply.", res.Content)
	require.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), res.Timestamp)

	call := client.calls[0]
	require.Equal(t, 1000, call.MaxTokens)
	require.False(t, call.JSON)
	require.Equal(t, llm.RoleSystem, call.Messages[0].Role)
	require.Contains(t, call.Messages[1].Content, "Company: Acme")

	stored, err := docs.List(context.Background(), "user-a", 0, 0)
	require.NoError(t, err)
	require.Empty(t, stored, "generating a cover letter must not persist it")
}

func TestGenerateWithoutProvider(t *testing.T) {
	svc := NewService(llm.PlaceholderClient{}, failingWriter{}, nil, "")
	_, err := svc.GenerateCoverLetter(context.Background(), "user-a", CoverLetterInput{
		JobTitle: "a", Company: "b", JobDescription: "c", Experience: "d", Skills: "e", UserID: "user-a",
	})
	require.ErrorIs(t, err, llm.ErrNotImplemented)
	require.Equal(t, msgCoverLetterFailed, SafeMessage(err))
}
