package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/job-portal/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeParsePrompt asks the model to turn raw resume text into the
// candidate profile JSON shape.
func (pb *PromptBuilder) BuildResumeParsePrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert recruiter extracting structured data from a candidate's resume.

RESUME:
%s

Extract the following information and return it in this JSON format:
{
  "summary": "<2-3 sentence professional summary>",
  "skills": ["<skill>", ...],
  "total_experience_years": <number of years of professional experience>,
  "experience": [
    {"company": "<company>", "title": "<job title>", "is_current": <true|false>, "description": "<one sentence>"}
  ],
  "education": [
    {"institution": "<school>", "degree": "<degree>", "field_of_study": "<field>"}
  ],
  "certifications": [
    {"name": "<certification>", "issuer": "<issuer>"}
  ],
  "location": {"city": "<city>", "state": "<state>", "country": "<country>"}
}

List each skill once, using its common name. Use empty arrays or strings for anything the resume does not mention. Return ONLY the JSON.`,
		resumeText)
}

// BuildJobEmbeddingText flattens the searchable parts of a job posting.
func (pb *PromptBuilder) BuildJobEmbeddingText(job *models.Job) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\n", job.Title)
	fmt.Fprintf(&b, "Company: %s\n", job.Company)
	if job.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", job.Category)
	}
	fmt.Fprintf(&b, "Level: %s\n", job.ExperienceLevel)
	if loc := formatLocation(job.Location); loc != "" {
		fmt.Fprintf(&b, "Location: %s\n", loc)
	}

	skills := make([]string, 0, len(job.RequiredSkills)+len(job.PreferredSkills))
	for _, s := range job.RequiredSkills {
		skills = append(skills, s.Skill)
	}
	for _, s := range job.PreferredSkills {
		skills = append(skills, s.Skill)
	}
	if len(skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(skills, ", "))
	}

	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(job.Description))
	return b.String()
}

// BuildCandidateQuery describes a candidate profile in the same vocabulary as
// BuildJobEmbeddingText.
func (pb *PromptBuilder) BuildCandidateQuery(profile *models.CandidateProfile) string {
	var b strings.Builder

	if len(profile.Experience) > 0 {
		fmt.Fprintf(&b, "Title: %s\n", profile.Experience[0].Title)
	}
	if loc := formatLocation(profile.Location); loc != "" {
		fmt.Fprintf(&b, "Location: %s\n", loc)
	}
	if len(profile.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(profile.Skills, ", "))
	}
	fmt.Fprintf(&b, "Experience: %.1f years\n", profile.TotalExperience)

	if profile.Summary != "" {
		b.WriteString("\n")
		b.WriteString(profile.Summary)
	}
	return b.String()
}

func formatLocation(loc models.Location) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{loc.City, loc.State, loc.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if loc.IsRemote {
		parts = append(parts, "Remote")
	}
	return strings.Join(parts, ", ")
}
