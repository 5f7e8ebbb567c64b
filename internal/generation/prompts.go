package generation

import (
	"fmt"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/llm"
)

const resumeSystemPrompt = `You are an expert resume writer. You tailor resumes to a specific job and you always answer with a single JSON object and nothing else.`

const resumeUserPrompt = `Create a professional resume tailored to the following job.

Job Description: %s

Candidate experience (one entry per line):
%s

Candidate skills (comma separated): %s

Return ONLY a JSON object with exactly these keys:
{
  "professionalSummary": "2-4 sentence summary aimed at this job",
  "workExperience": [
    {"position": "", "company": "", "duration": "", "description": ""}
  ],
  "skills": ["skill"],
  "education": [
    {"degree": "", "institution": "", "year": ""}
  ]
}

Rules:
- Use only facts from the candidate experience and skills; do not invent employers or degrees.
- Give every experience line its own workExperience entry and put the line in "description".
- Leave "position", "company" and "duration" empty when the line does not state them.
- When a value is unknown use an empty string; use an empty array when education is unknown.
- Keep skills as short labels in the order given.
- No markdown, no code fences, no extra keys.`

const coverLetterSystemPrompt = `You are an expert at writing professional cover letters that help job applicants stand out. Your cover letters are compelling, specific to the job, and highlight the applicant's relevant experience and skills.`

const coverLetterUserPrompt = `Create a professional and compelling cover letter for the following job:

Job Title: %s
Company: %s
Job Description: %s

My experience:
%s

My skills:
%s

Write a formal, personalized cover letter that highlights how my experience and skills match the job requirements. The letter should be about 300-400 words in length. Do not include the heading or signature - just the body of the letter.`

func resumeMessages(in ResumeInput) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: resumeSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(resumeUserPrompt, in.JobDescription, in.Experience, in.Skills)},
	}
}

func coverLetterMessages(in CoverLetterInput) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: coverLetterSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(coverLetterUserPrompt, in.JobTitle, in.Company, in.JobDescription, in.Experience, in.Skills)},
	}
}
