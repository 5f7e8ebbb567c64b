package util

import "testing"

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		title string
		ext   string
		want  string
	}{
		{title: "Resume for Senior Backend Engineer...", ext: "html", want: "Resume-for-Senior-Backend-Engineer.html"},
		{title: "Cover Letter for Acme - Go Developer", ext: ".html", want: "Cover-Letter-for-Acme-Go-Developer.html"},
		{title: "../../etc/passwd", ext: "txt", want: "etc-passwd.txt"},
		{title: "   ", ext: "html", want: "document.html"},
		{title: "Résumé", ext: "", want: "R-sum"},
	}
	for _, tt := range tests {
		if got := SafeFileName(tt.title, tt.ext); got != tt.want {
			t.Fatalf("SafeFileName(%q, %q) = %q, want %q", tt.title, tt.ext, got, tt.want)
		}
	}
}
