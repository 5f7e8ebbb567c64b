package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// CoverLetterType tags cover letter records.
const CoverLetterType = "cover_letter"

// Kind names the shape a stored content string was recognised as.
type Kind string

const (
	KindResume       Kind = "resume"
	KindLegacyResume Kind = "legacy_resume"
	KindCoverLetter  Kind = "cover_letter"
)

// ErrParse matches every ParseError.
var ErrParse = errors.New("content could not be parsed")

// ParseError reports stored or generated content that does not follow any
// known record shape.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "parse content: " + e.Reason + ": " + e.Err.Error()
	}
	return "parse content: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// LegacyResume is the record shape written by earlier versions.
type LegacyResume struct {
	Objective      string   `json:"objective"`
	Experience     []string `json:"experience"`
	Skills         []string `json:"skills"`
	JobDescription string   `json:"jobDescription,omitempty"`
}

// CoverLetter is the record stored when a user saves a generated letter.
type CoverLetter struct {
	Type     string `json:"type"`
	JobTitle string `json:"jobTitle"`
	Company  string `json:"company"`
	Content  string `json:"content"`
}

// NewCoverLetter builds a tagged cover letter record.
func NewCoverLetter(jobTitle, company, body string) CoverLetter {
	return CoverLetter{Type: CoverLetterType, JobTitle: jobTitle, Company: company, Content: body}
}

// Encode serializes the cover letter record.
func (c CoverLetter) Encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Content is a parsed document content string. Exactly one of Resume,
// Legacy or CoverLetter is set, matching Kind.
type Content struct {
	Kind        Kind
	Resume      *Resume
	Legacy      *LegacyResume
	CoverLetter *CoverLetter
}

// ParseContent recognises the stored shape of a document's content.
func ParseContent(raw string) (Content, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Content{}, &ParseError{Reason: "content is empty"}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return Content{}, &ParseError{Reason: "content is not a JSON object", Err: err}
	}

	switch {
	case isCoverLetter(probe):
		var c CoverLetter
		if err := decodeStrict(trimmed, &c); err != nil {
			return Content{}, &ParseError{Reason: "malformed cover letter", Err: err}
		}
		if strings.TrimSpace(c.Content) == "" {
			return Content{}, &ParseError{Reason: "cover letter has no body"}
		}
		return Content{Kind: KindCoverLetter, CoverLetter: &c}, nil
	case has(probe, "professionalSummary") || has(probe, "workExperience"):
		var r Resume
		if err := json.Unmarshal([]byte(trimmed), &r); err != nil {
			return Content{}, &ParseError{Reason: "malformed resume", Err: err}
		}
		return Content{Kind: KindResume, Resume: &r}, nil
	case has(probe, "objective") || has(probe, "experience"):
		var l LegacyResume
		if err := json.Unmarshal([]byte(trimmed), &l); err != nil {
			return Content{}, &ParseError{Reason: "malformed resume", Err: err}
		}
		return Content{Kind: KindLegacyResume, Legacy: &l}, nil
	default:
		return Content{}, &ParseError{Reason: "unrecognised content shape"}
	}
}

func isCoverLetter(probe map[string]json.RawMessage) bool {
	raw, ok := probe["type"]
	if !ok {
		return false
	}
	var t string
	return json.Unmarshal(raw, &t) == nil && t == CoverLetterType
}

func has(probe map[string]json.RawMessage, key string) bool {
	_, ok := probe[key]
	return ok
}

func decodeStrict(raw string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
