package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/Nirnoy12/covercraft-ai-tools/resume/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("render").Funcs(template.FuncMap{
		"paragraphs": paragraphs,
		"date":       func(t time.Time) string { return t.Format("January 2, 2006") },
	}).ParseFS(templateFS, "templates/*.html"),
)

// Owner is printed in the resume header when known.
type Owner struct {
	Name  string
	Email string
}

// View is everything the detail and print templates need for one document.
// When ParseFailed is set only Raw is shown.
type View struct {
	Title     string
	CreatedAt time.Time
	Owner     Owner

	Resume      *model.Resume
	Legacy      *model.LegacyResume
	CoverLetter *model.CoverLetter

	ParseFailed bool
	ParseReason string
	Raw         string
}

// NewView parses raw document content. A parse failure never errors; it
// produces a view that renders the raw text fallback.
func NewView(title string, createdAt time.Time, owner Owner, raw string) View {
	v := View{Title: title, CreatedAt: createdAt, Owner: owner, Raw: raw}
	content, err := model.ParseContent(raw)
	if err != nil {
		v.ParseFailed = true
		v.ParseReason = err.Error()
		return v
	}
	v.Resume = content.Resume
	v.Legacy = content.Legacy
	v.CoverLetter = content.CoverLetter
	return v
}

// Kind reports the recognised record kind, or "" when parsing failed.
func (v View) Kind() model.Kind {
	switch {
	case v.Resume != nil:
		return model.KindResume
	case v.Legacy != nil:
		return model.KindLegacyResume
	case v.CoverLetter != nil:
		return model.KindCoverLetter
	default:
		return ""
	}
}

// Fragment renders the document body for embedding in another page.
func Fragment(v View) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "content", v); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Page writes a standalone printable HTML page for the document.
func Page(w io.Writer, v View) error {
	return templates.ExecuteTemplate(w, "print.html", v)
}

func paragraphs(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
