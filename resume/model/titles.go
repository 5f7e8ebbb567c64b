package model

import (
	"fmt"
	"strings"
)

// ResumeTitle labels a resume by the first three words of the job description.
func ResumeTitle(jobDescription string) string {
	words := strings.Fields(jobDescription)
	if len(words) > 3 {
		words = words[:3]
	}
	return "Resume for " + strings.Join(words, " ") + "..."
}

// CoverLetterTitle labels a saved cover letter.
func CoverLetterTitle(company, jobTitle string) string {
	return fmt.Sprintf("Cover Letter for %s - %s", company, jobTitle)
}
