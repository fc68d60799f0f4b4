package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"alfredoptarigan/job-portal/internal/models"
)

// ParsedResume is the structured content extracted from resume text.
type ParsedResume struct {
	Summary         string                   `json:"summary"`
	Skills          []string                 `json:"skills"`
	TotalExperience float64                  `json:"total_experience_years"`
	Experience      []models.ExperienceEntry `json:"experience"`
	Education       []models.EducationEntry  `json:"education"`
	Certifications  []models.Certification   `json:"certifications"`
	Location        models.Location          `json:"location"`
}

type ResumeParser interface {
	Parse(ctx context.Context, text string) (*ParsedResume, error)
}

// resumeParser asks Gemini for structured output when it is configured and
// falls back to keyword extraction when it is not or when the call fails.
type resumeParser struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
	now           func() time.Time
}

func NewResumeParser(gemini GeminiService, maxRetries int) ResumeParser {
	return &resumeParser{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		now:           time.Now,
	}
}

func (p *resumeParser) Parse(ctx context.Context, text string) (*ParsedResume, error) {
	text = CleanText(text)
	if text == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	if p.gemini != nil {
		parsed, err := p.parseWithGemini(ctx, text)
		if err == nil {
			return parsed, nil
		}
		log.Printf("⚠️  Gemini resume parsing failed, using keyword extraction: %v", err)
	}

	return p.parseWithKeywords(text), nil
}

func (p *resumeParser) parseWithGemini(ctx context.Context, text string) (*ParsedResume, error) {
	raw, err := p.gemini.GenerateTextWithRetry(ctx, p.promptBuilder.BuildResumeParsePrompt(text), 0.1, p.maxRetries)
	if err != nil {
		return nil, err
	}

	var parsed ParsedResume
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse resume JSON: %w", err)
	}
	parsed.Skills = dedupeSkills(parsed.Skills)
	if parsed.TotalExperience < 0 {
		parsed.TotalExperience = 0
	}
	return &parsed, nil
}

var (
	dateRangePattern = regexp.MustCompile(`(?i)((?:19|20)\d{2})\s*[-–—]+\s*((?:19|20)\d{2}|present|current|now)`)
	summaryPattern   = regexp.MustCompile(`(?is)(?:professional\s+)?(?:summary|objective|profile|about\s+me)[:\-\s]*(.*?)(?:\n\s*(?:experience|education|skills|projects|certifications)\b|$)`)
	degreePattern    = regexp.MustCompile(`(?i)\b(bachelor|master|phd|ph\.d\.?|doctorate|associate|diploma|b\.?sc?\.?|m\.?sc?\.?|mba)\b[^\n]*`)
)

var skillVocabulary = []string{
	"Python", "JavaScript", "TypeScript", "Java", "C++", "C#", "PHP", "Ruby", "Go", "Golang", "Rust",
	"Swift", "Kotlin", "Scala", "SQL", "HTML", "CSS", "Bash",
	"React", "Angular", "Vue.js", "Node.js", "Express.js", "Next.js", "Django", "Flask", "Spring",
	"Laravel", "GraphQL", "REST", "Microservices",
	"MySQL", "PostgreSQL", "MongoDB", "SQLite", "Redis", "Elasticsearch", "Cassandra", "DynamoDB",
	"AWS", "Azure", "Google Cloud", "GCP", "Docker", "Kubernetes", "Terraform", "Ansible", "Jenkins",
	"CI/CD", "Git", "Linux",
	"Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "Pandas", "NumPy", "NLP",
	"Data Analysis", "Tableau", "Power BI",
	"Agile", "Scrum", "JIRA", "TDD", "Project Management", "Communication", "Leadership",
}

func (p *resumeParser) parseWithKeywords(text string) *ParsedResume {
	lower := strings.ToLower(text)

	parsed := &ParsedResume{
		Skills:     []string{},
		Experience: []models.ExperienceEntry{},
		Education:  []models.EducationEntry{},
	}
	for _, skill := range skillVocabulary {
		if containsTerm(lower, strings.ToLower(skill)) {
			parsed.Skills = append(parsed.Skills, skill)
		}
	}

	parsed.Experience, parsed.TotalExperience = p.experienceFromDates(text)

	for _, m := range degreePattern.FindAllString(text, 5) {
		parsed.Education = append(parsed.Education, models.EducationEntry{Degree: strings.TrimSpace(m)})
	}

	if m := summaryPattern.FindStringSubmatch(text); m != nil {
		parsed.Summary = strings.Join(strings.Fields(m[1]), " ")
	}
	if len(parsed.Summary) > 500 {
		parsed.Summary = parsed.Summary[:500]
	}

	return parsed
}

// experienceFromDates turns "2019 - 2022" style ranges into entries and sums
// their length in years, rounded to one decimal.
func (p *resumeParser) experienceFromDates(text string) ([]models.ExperienceEntry, float64) {
	now := p.now()
	entries := []models.ExperienceEntry{}
	months := 0

	for _, line := range strings.Split(text, "\n") {
		m := dateRangePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		startYear, _ := strconv.Atoi(m[1])
		start := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)

		entry := models.ExperienceEntry{StartDate: &start}
		end := now
		if endYear, err := strconv.Atoi(m[2]); err == nil {
			end = time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)
			entry.EndDate = &end
		} else {
			entry.IsCurrent = true
		}

		title := strings.Trim(strings.TrimSpace(dateRangePattern.ReplaceAllString(line, "")), "|-–—,")
		parts := strings.SplitN(title, "|", 2)
		entry.Title = strings.TrimSpace(parts[0])
		if len(parts) == 2 {
			entry.Company = strings.TrimSpace(parts[1])
		}
		entries = append(entries, entry)

		if span := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()); span > 0 {
			months += span
		}
	}

	years := float64(months) / 12
	return entries, float64(int(years*10+0.5)) / 10
}

// containsTerm reports whether term appears in text as a whole word.
func containsTerm(text, term string) bool {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(term)
		if isBoundary(text, start-1) && isBoundary(text, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func isBoundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	r := rune(text[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
}

func dedupeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// ApplyToProfile copies the parsed fields onto a candidate profile. The
// profile location is only filled when it is still empty.
func (r *ParsedResume) ApplyToProfile(profile *models.CandidateProfile, parsedAt time.Time) {
	profile.Skills = r.Skills
	profile.Experience = r.Experience
	profile.Education = r.Education
	profile.Certifications = r.Certifications
	profile.Summary = r.Summary
	profile.TotalExperience = r.TotalExperience
	if profile.Location == (models.Location{}) {
		profile.Location = r.Location
	}
	profile.ParsedAt = &parsedAt
}

// extractJSON strips markdown fences and returns the outermost JSON object
// or array in text.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	startArr := strings.Index(text, "[")
	endArr := strings.LastIndex(text, "]")
	if startArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
