package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Resume is the structured resume record stored as document content.
type Resume struct {
	ProfessionalSummary string           `json:"professionalSummary"`
	WorkExperience      []WorkExperience `json:"workExperience"`
	Skills              []string         `json:"skills"`
	Education           []Education      `json:"education"`
}

type WorkExperience struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Validate enforces the fields every generated resume must carry.
func (r Resume) Validate() error {
	if strings.TrimSpace(r.ProfessionalSummary) == "" {
		return errors.New("professionalSummary is required")
	}
	if r.WorkExperience == nil {
		return errors.New("workExperience is required")
	}
	if len(r.Skills) == 0 {
		return errors.New("skills must not be empty")
	}
	if r.Education == nil {
		return errors.New("education is required")
	}
	for i, exp := range r.WorkExperience {
		if strings.TrimSpace(exp.Position) == "" && strings.TrimSpace(exp.Description) == "" {
			return fmt.Errorf("workExperience[%d] needs a position or a description", i)
		}
	}
	for i, skill := range r.Skills {
		if strings.TrimSpace(skill) == "" {
			return fmt.Errorf("skills[%d] must not be blank", i)
		}
	}
	return nil
}

// ParseResume decodes model output against the resume schema. Unknown
// fields, wrong types, trailing data and failed validation are all rejected.
func ParseResume(raw string) (Resume, error) {
	dec := json.NewDecoder(strings.NewReader(StripCodeFence(raw)))
	dec.DisallowUnknownFields()

	var r Resume
	if err := dec.Decode(&r); err != nil {
		return Resume{}, &ParseError{Reason: "resume does not match schema", Err: err}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Resume{}, &ParseError{Reason: "unexpected data after resume object"}
	}
	if err := r.Validate(); err != nil {
		return Resume{}, &ParseError{Reason: err.Error()}
	}
	return r, nil
}

// Canonical serializes the resume in its stored form.
func (r Resume) Canonical() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// StripCodeFence removes a surrounding markdown code fence, which some
// providers add even when asked for bare JSON.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return raw
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
