package services

import (
	"math"
	"strings"

	"alfredoptarigan/job-portal/internal/models"
)

const (
	fullCredit    = 100.0
	partialCredit = 50.0
)

// ComputeMatchScore compares a candidate profile with a job's requirements.
// It returns the four component scores, their unweighted mean (Overall) and
// the job-weighted fit (Weighted). It has no side effects and does not stamp
// LastCalculated.
//
// Weights are applied as given. Criteria that do not sum to 100 scale the
// weighted fit proportionally before it is clamped to [0, 100].
func ComputeMatchScore(job *models.Job, candidate *models.CandidateProfile) models.MatchScore {
	breakdown := models.ScoreBreakdown{
		Skills:     skillsScore(job.RequiredSkills, candidate.Skills),
		Experience: experienceScore(job.Requirements.Experience.MinYears(), candidate.TotalExperience),
		Education:  educationScore(candidate.Education),
		Location:   locationScore(job.Location, candidate.Location),
	}

	return models.MatchScore{
		Overall:   OverallFromBreakdown(breakdown),
		Weighted:  WeightedScore(breakdown, job.MatchingCriteria),
		Breakdown: breakdown,
	}
}

// OverallFromBreakdown is the rounded mean of the four components, clamped
// to [0, 100].
func OverallFromBreakdown(b models.ScoreBreakdown) int {
	mean := (b.Skills + b.Experience + b.Education + b.Location) / 4
	return clampScore(math.Round(mean))
}

// WeightedScore sums each component scaled by weight/100.
func WeightedScore(b models.ScoreBreakdown, w models.MatchingCriteria) int {
	total := b.Skills*w.SkillsWeight/100 +
		b.Experience*w.ExperienceWeight/100 +
		b.Education*w.EducationWeight/100 +
		b.Location*w.LocationWeight/100
	return clampScore(math.Round(total))
}

// skillsScore is the share of required skills covered by the candidate.
// A required skill is covered when a candidate skill contains it or is
// contained by it, ignoring case. No required skills yields 0.
func skillsScore(required []models.RequiredSkill, candidate []string) float64 {
	have := make([]string, 0, len(candidate))
	for _, s := range candidate {
		if s = normalizeSkill(s); s != "" {
			have = append(have, s)
		}
	}

	matched := 0
	for _, rs := range required {
		want := normalizeSkill(rs.Skill)
		if want == "" {
			continue
		}
		for _, h := range have {
			if strings.Contains(h, want) || strings.Contains(want, h) {
				matched++
				break
			}
		}
	}

	denominator := len(required)
	if denominator == 0 {
		denominator = 1
	}
	return float64(matched) / float64(denominator) * fullCredit
}

// experienceScore gives full credit at or above the minimum and scales
// linearly below it. A zero minimum is always satisfied.
func experienceScore(requiredYears, candidateYears float64) float64 {
	if requiredYears <= 0 || candidateYears >= requiredYears {
		return fullCredit
	}
	if candidateYears <= 0 {
		return 0
	}
	return candidateYears / requiredYears * fullCredit
}

// educationScore only checks that some education is on file; level and
// field are not compared.
func educationScore(education []models.EducationEntry) float64 {
	if len(education) > 0 {
		return fullCredit
	}
	return 0
}

// locationScore gives full credit to remote jobs and same-city candidates
// and partial credit to everyone else.
func locationScore(job, candidate models.Location) float64 {
	if job.IsRemote {
		return fullCredit
	}
	jobCity := strings.TrimSpace(job.City)
	if jobCity != "" && strings.EqualFold(jobCity, strings.TrimSpace(candidate.City)) {
		return fullCredit
	}
	return partialCredit
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clampScore(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
