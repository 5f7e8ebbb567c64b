package util

import (
	"strings"
	"unicode"
)

// SafeFileName turns a document title into a download-safe file name with the
// given extension. Anything outside letters, digits and underscore
// collapses into a single dash.
func SafeFileName(title, ext string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(title) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.Trim(b.String(), "-")
	if len(name) > 80 {
		name = strings.Trim(name[:80], "-")
	}
	if name == "" {
		name = "document"
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		return name
	}
	return name + "." + ext
}
