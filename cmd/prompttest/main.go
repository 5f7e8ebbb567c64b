package main

// Try the generation prompts against the configured provider without a
// database. Nothing is persisted outside this process.
//   go run ./cmd/prompttest -kind cover-letter -jd ./jd.txt -experience ./exp.txt -skills "Go, Kafka"

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/documents"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/generation"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/llm"
	openai "github.com/Nirnoy12/covercraft-ai-tools/internal/llm/openai"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/llm/vertex"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/config"
	localstore "github.com/Nirnoy12/covercraft-ai-tools/internal/shared/storage/object/local"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/telemetry"
)

const cliUser = "prompttest"

func main() {
	cfg := config.Load()

	kind := flag.String("kind", "resume", "resume or cover-letter")
	jdPath := flag.String("jd", "", "path to the job description file")
	expPath := flag.String("experience", "", "path to the experience file (one entry per line)")
	skills := flag.String("skills", "", "comma separated skills")
	jobTitle := flag.String("job-title", "", "job title (cover letter)")
	company := flag.String("company", "", "company (cover letter)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (openai or vertex)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	quarantineDir := flag.String("quarantine", "./out/quarantine", "where rejected resume output is written")
	flag.Parse()

	telemetry.Configure(os.Stderr, cfg.LogLevel)
	ctx := context.Background()

	jobDescription := readFile(*jdPath, "job description")
	experience := readFile(*expPath, "experience")

	client, err := buildClient(ctx, cfg, *provider, *model)
	if err != nil {
		exitErr(err.Error())
	}

	docs := documents.NewService(documents.NewMemoryRepo())
	svc := generation.NewService(client, docs, localstore.New(*quarantineDir), "")

	switch strings.TrimSpace(*kind) {
	case "resume":
		res, err := svc.GenerateResume(ctx, cliUser, generation.ResumeInput{
			JobDescription: jobDescription,
			Experience:     experience,
			Skills:         *skills,
			UserID:         cliUser,
		})
		if err != nil {
			exitErr(err.Error())
		}
		fmt.Println(res.Title)
		fmt.Println(res.Content)
	case "cover-letter":
		res, err := svc.GenerateCoverLetter(ctx, cliUser, generation.CoverLetterInput{
			JobTitle:       *jobTitle,
			Company:        *company,
			JobDescription: jobDescription,
			Experience:     experience,
			Skills:         *skills,
			UserID:         cliUser,
		})
		if err != nil {
			exitErr(err.Error())
		}
		fmt.Println(res.Content)
	default:
		exitErr("kind must be resume or cover-letter")
	}
}

func buildClient(ctx context.Context, cfg config.Config, provider, model string) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, model, cfg.LLMBaseURL)
	case "vertex":
		return vertex.NewClient(ctx, cfg.VertexProject, cfg.VertexLocation, model)
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}

func readFile(path, label string) string {
	if strings.TrimSpace(path) == "" {
		exitErr(label + " path is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		exitErr(fmt.Sprintf("read %s: %v", label, err))
	}
	return string(b)
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
