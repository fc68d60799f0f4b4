package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/repositories"
)

const (
	defaultRecommendations = 10
	candidatePoolSize      = 100
)

type RecommendationService interface {
	Recommend(ctx context.Context, seeker *models.User, limit int) ([]models.JobRecommendation, error)
}

type recommendationService struct {
	jobRepo       repositories.JobRepository
	gemini        GeminiService
	index         JobVectorIndex
	promptBuilder *PromptBuilder
	now           func() time.Time
}

// NewRecommendationService ranks open jobs for a job seeker. gemini and index
// may both be nil, in which case every open job is scored directly.
func NewRecommendationService(jobRepo repositories.JobRepository, gemini GeminiService, index JobVectorIndex) RecommendationService {
	return &recommendationService{
		jobRepo:       jobRepo,
		gemini:        gemini,
		index:         index,
		promptBuilder: NewPromptBuilder(),
		now:           time.Now,
	}
}

// Recommend returns open public jobs ordered by weighted match score, then
// by vector similarity when the semantic index supplied the candidates.
func (s *recommendationService) Recommend(ctx context.Context, seeker *models.User, limit int) ([]models.JobRecommendation, error) {
	if seeker.Role != models.RoleJobSeeker {
		return nil, apperror.Forbidden("recommendations are only available to job seekers")
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultRecommendations
	}

	jobs, similarity, err := s.semanticCandidates(ctx, &seeker.Profile)
	if err != nil {
		log.Printf("⚠️  Semantic recommendations unavailable, scoring open jobs: %v", err)
	}
	if jobs == nil {
		jobs, err = s.jobRepo.ListOpen(ctx, s.now(), candidatePoolSize)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	out := make([]models.JobRecommendation, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		if job.Visibility != models.VisibilityPublic || !job.AcceptingApplications(now) {
			continue
		}
		score := ComputeMatchScore(job, &seeker.Profile)
		out = append(out, models.JobRecommendation{
			Job:        *job,
			MatchScore: score.Weighted,
			Similarity: similarity[job.ID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// semanticCandidates returns nil jobs when the index is not configured.
func (s *recommendationService) semanticCandidates(ctx context.Context, profile *models.CandidateProfile) ([]models.Job, map[uuid.UUID]float32, error) {
	if s.gemini == nil || s.index == nil {
		return nil, nil, nil
	}

	embedding, err := s.gemini.GenerateEmbedding(ctx, s.promptBuilder.BuildCandidateQuery(profile))
	if err != nil {
		return nil, nil, err
	}
	matches, err := s.index.SearchJobs(ctx, embedding, candidatePoolSize)
	if err != nil {
		return nil, nil, err
	}
	if len(matches) == 0 {
		return nil, nil, nil
	}

	ids := make([]uuid.UUID, 0, len(matches))
	similarity := make(map[uuid.UUID]float32, len(matches))
	for _, m := range matches {
		ids = append(ids, m.JobID)
		similarity[m.JobID] = m.Score
	}

	jobs, err := s.jobRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return jobs, similarity, nil
}
