package main

// Render sample documents to standalone print pages:
//   go run ./cmd/renderdemo -out ./out

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Nirnoy12/covercraft-ai-tools/resume/model"
	"github.com/Nirnoy12/covercraft-ai-tools/resume/render"
)

type sample struct {
	file    string
	title   string
	content func() (string, error)
}

func main() {
	outDir := flag.String("out", "./out", "directory for the generated HTML files")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		exitErr(err)
	}

	owner := render.Owner{Name: "Jane Doe", Email: "jane@example.com"}
	created := time.Now()
	for _, s := range samples() {
		raw, err := s.content()
		if err != nil {
			exitErr(err)
		}
		view := render.NewView(s.title, created, owner, raw)
		var buf bytes.Buffer
		if err := render.Page(&buf, view); err != nil {
			exitErr(fmt.Errorf("render %s: %w", s.file, err))
		}
		path := filepath.Join(*outDir, s.file)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			exitErr(err)
		}
		kind := string(view.Kind())
		if kind == "" {
			kind = "fallback"
		}
		fmt.Printf("OK: wrote %s (%s)\n", path, kind)
	}
}

func samples() []sample {
	return []sample{
		{
			file:  "resume.html",
			title: model.ResumeTitle("Senior Backend Engineer at Acme"),
			content: func() (string, error) {
				return model.Resume{
					ProfessionalSummary: "Backend engineer with eight years building payment platforms in Go.",
					WorkExperience: []model.WorkExperience{
						{Position: "Staff Engineer", Company: "Fintech Co", Duration: "2020 - present", Description: "Built the payments ledger and led four engineers."},
						{Position: "Software Engineer", Company: "Shopify-like Inc", Duration: "2016 - 2020", Description: "Owned checkout APIs."},
					},
					Skills:    []string{"Go", "Kafka", "Postgres"},
					Education: []model.Education{{Degree: "BSc Computer Science", Institution: "State University", Year: "2016"}},
				}.Canonical()
			},
		},
		{
			file:  "cover_letter.html",
			title: model.CoverLetterTitle("Acme", "Go Developer"),
			content: func() (string, error) {
				return model.NewCoverLetter("Go Developer", "Acme",
					"I am excited to apply for the Go Developer role at Acme.\n\nAt Fintech Co I built a payments ledger in Go.").Encode()
			},
		},
		{
			file:  "legacy_resume.html",
			title: "Resume for Backend Engineer...",
			content: func() (string, error) {
				return `{"objective":"Seeking a position as a Backend Engineer...","experience":["Built payments system","Led 4 engineers"],"skills":["Go","Kafka"]}`, nil
			},
		},
		{
			file:    "fallback.html",
			title:   "Unparseable document",
			content: func() (string, error) { return "Plain text the model returned", nil },
		},
	}
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "renderdemo: %v\n", err)
	os.Exit(1)
}
