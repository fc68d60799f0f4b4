package services

import (
	"context"
	"time"

	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/repositories"
)

type AnalyticsService interface {
	Dashboard(ctx context.Context, user *models.User) (*models.Dashboard, error)
}

type analyticsService struct {
	appRepo repositories.ApplicationRepository
	jobRepo repositories.JobRepository
	now     func() time.Time
}

func NewAnalyticsService(appRepo repositories.ApplicationRepository, jobRepo repositories.JobRepository) AnalyticsService {
	return &analyticsService{appRepo: appRepo, jobRepo: jobRepo, now: time.Now}
}

// Dashboard summarises the caller's activity. Job seekers see their
// applications per status; recruiters see their jobs per status and the
// pipeline of received applications; admins see platform job totals.
func (s *analyticsService) Dashboard(ctx context.Context, user *models.User) (*models.Dashboard, error) {
	dashboard := &models.Dashboard{Role: user.Role}

	switch user.Role {
	case models.RoleJobSeeker:
		counts, err := s.appRepo.CountByApplicantStatus(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		dashboard.Applications = pipelineSummary(counts).StatusBreakdown

	case models.RoleRecruiter:
		jobCounts, err := s.jobRepo.CountByStatus(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		dashboard.Jobs = jobStatusBreakdown(jobCounts)
		for _, c := range dashboard.Jobs {
			dashboard.TotalJobs += c.Count
		}

		pipeline, err := s.appRepo.Pipeline(ctx, user.ID, nil)
		if err != nil {
			return nil, err
		}
		dashboard.Applications = pipelineSummary(pipeline).StatusBreakdown

	case models.RoleAdmin:
		stats, err := s.jobRepo.Stats(ctx, s.now())
		if err != nil {
			return nil, err
		}
		dashboard.TotalJobs = stats.TotalJobs
	}

	return dashboard, nil
}

var jobStatuses = []models.JobStatus{
	models.JobStatusDraft,
	models.JobStatusActive,
	models.JobStatusPaused,
	models.JobStatusClosed,
	models.JobStatusExpired,
}

func jobStatusBreakdown(counts []models.JobStatusCount) []models.JobStatusCount {
	byStatus := make(map[models.JobStatus]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] += c.Count
	}

	out := make([]models.JobStatusCount, 0, len(jobStatuses))
	for _, status := range jobStatuses {
		out = append(out, models.JobStatusCount{Status: status, Count: byStatus[status]})
	}
	return out
}
