package model

import (
	"errors"
	"strings"
	"testing"
)

func TestParseContentLegacyResume(t *testing.T) {
	got, err := ParseContent(`{"objective":"Ship things","experience":["a","b"],"skills":["x"]}`)
	if err != nil {
		t.Fatalf("ParseContent: %v", err)
	}
	if got.Kind != KindLegacyResume {
		t.Fatalf("expected legacy resume, got %s", got.Kind)
	}
	if len(got.Legacy.Experience) != 2 || got.Legacy.Experience[0] != "a" || got.Legacy.Experience[1] != "b" {
		t.Fatalf("unexpected experience: %v", got.Legacy.Experience)
	}
	if len(got.Legacy.Skills) != 1 {
		t.Fatalf("unexpected skills: %v", got.Legacy.Skills)
	}
}

func TestParseContentResume(t *testing.T) {
	got, err := ParseContent(`{"professionalSummary":"s","workExperience":[{"position":"Eng","company":"Acme","duration":"2y","description":"d"}],"skills":["Go"],"education":[]}`)
	if err != nil {
		t.Fatalf("ParseContent: %v", err)
	}
	if got.Kind != KindResume || got.Resume.WorkExperience[0].Company != "Acme" {
		t.Fatalf("unexpected content: %+v", got)
	}
}

func TestParseContentCoverLetter(t *testing.T) {
	raw, err := NewCoverLetter("Go Developer", "Acme", "Dear team").Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := ParseContent(raw)
	if err != nil {
		t.Fatalf("ParseContent: %v", err)
	}
	if got.Kind != KindCoverLetter || got.CoverLetter.Company != "Acme" {
		t.Fatalf("unexpected content: %+v", got)
	}
}

func TestParseContentRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"Dear hiring manager, plain prose",
		`{"objective":`,
		`["not","an","object"]`,
		`{"foo":"bar"}`,
		`{"objective":"x","experience":"not a list"}`,
		`{"type":"cover_letter","jobTitle":"x","company":"y"}`,
	}
	for _, raw := range cases {
		_, err := ParseContent(raw)
		if !errors.Is(err, ErrParse) {
			t.Fatalf("ParseContent(%q): expected ErrParse, got %v", raw, err)
		}
	}
}

func TestParseResumeStrict(t *testing.T) {
	valid := `{"professionalSummary":"Backend engineer","workExperience":[{"position":"Engineer","company":"Pay","duration":"3 years","description":"Built payments"}],"skills":["Go","Kafka","Postgres"],"education":[]}`
	r, err := ParseResume(valid)
	if err != nil {
		t.Fatalf("ParseResume: %v", err)
	}
	if len(r.Skills) != 3 {
		t.Fatalf("expected 3 skills, got %d", len(r.Skills))
	}

	fenced := "```json\n" + valid + "\n```"
	if _, err := ParseResume(fenced); err != nil {
		t.Fatalf("ParseResume fenced: %v", err)
	}

	rejects := map[string]string{
		"prose":          "Here is your resume!",
		"unknown field":  strings.Replace(valid, `"education":[]`, `"education":[],"hobbies":["chess"]`, 1),
		"wrong type":     strings.Replace(valid, `["Go","Kafka","Postgres"]`, `"Go, Kafka"`, 1),
		"missing skills": strings.Replace(valid, `"skills":["Go","Kafka","Postgres"],`, ``, 1),
		"empty summary":  strings.Replace(valid, `"Backend engineer"`, `""`, 1),
		"trailing data":  valid + ` {"x":1}`,
	}
	for name, raw := range rejects {
		if _, err := ParseResume(raw); !errors.Is(err, ErrParse) {
			t.Fatalf("%s: expected ErrParse, got %v", name, err)
		}
	}
}

func TestParseResumeAcceptsEntriesWithoutPosition(t *testing.T) {
	raw := `{"professionalSummary":"Backend engineer.","workExperience":[` +
		`{"position":"","company":"","duration":"","description":"Built payments system"},` +
		`{"position":"","company":"","duration":"","description":"Led 4 engineers"}],` +
		`"skills":["Go","Kafka","Postgres"],"education":[]}`
	r, err := ParseResume(raw)
	if err != nil {
		t.Fatalf("ParseResume: %v", err)
	}
	if len(r.WorkExperience) != 2 || r.WorkExperience[1].Description != "Led 4 engineers" {
		t.Fatalf("unexpected experience %+v", r.WorkExperience)
	}

	blank := strings.Replace(raw, `"description":"Led 4 engineers"`, `"description":"  "`, 1)
	if _, err := ParseResume(blank); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse for an entry with neither position nor description, got %v", err)
	}
}

func TestCanonicalRoundTrips(t *testing.T) {
	r := Resume{ProfessionalSummary: "s <b>", WorkExperience: []WorkExperience{}, Skills: []string{"Go"}, Education: []Education{}}
	out, err := r.Canonical()
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if !strings.Contains(out, "s <b>") {
		t.Fatalf("expected unescaped html in canonical form, got %s", out)
	}
	back, err := ParseResume(out)
	if err != nil {
		t.Fatalf("ParseResume: %v", err)
	}
	if back.ProfessionalSummary != r.ProfessionalSummary {
		t.Fatalf("round trip mismatch: %q", back.ProfessionalSummary)
	}
}

func TestTitles(t *testing.T) {
	if got := ResumeTitle("Senior Backend Engineer with Go experience"); got != "Resume for Senior Backend Engineer..." {
		t.Fatalf("unexpected resume title %q", got)
	}
	if got := ResumeTitle("  Go   Dev "); got != "Resume for Go Dev..." {
		t.Fatalf("unexpected short title %q", got)
	}
	if got := CoverLetterTitle("Acme", "Go Developer"); got != "Cover Letter for Acme - Go Developer" {
		t.Fatalf("unexpected cover letter title %q", got)
	}
}
