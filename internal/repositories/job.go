package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.JobStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query models.JobSearchQuery, now time.Time) ([]models.Job, int64, error)
	ListOpen(ctx context.Context, now time.Time, limit int) ([]models.Job, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID, limit int) ([]models.Job, error)
	Stats(ctx context.Context, now time.Time) (*models.JobStats, error)
	CountByStatus(ctx context.Context, recruiterID uuid.UUID) ([]models.JobStatusCount, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementApplications(ctx context.Context, id uuid.UUID) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// sortColumns whitelists the sort_by values accepted by Search.
var sortColumns = map[string]string{
	"":                     "created_at",
	"created_at":           "created_at",
	"createdAt":            "created_at",
	"title":                "title",
	"views_count":          "views_count",
	"applications_count":   "applications_count",
	"application_deadline": "application_deadline",
	"salary":               "(salary->>'min')::numeric",
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Wrap(apperror.KindConflict, "job slug already exists", err)
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, notFoundOr(err, "job", "failed to find job")
	}
	return &job, nil
}

func (r *jobRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	if len(ids) == 0 {
		return jobs, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to find jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	result := r.db.WithContext(ctx).Model(job).Select("*").Omit("created_at").Updates(job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperror.Wrap(apperror.KindConflict, "job slug already exists", result.Error)
		}
		return fmt.Errorf("failed to update job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("job not found")
	}
	return nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.JobStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update job status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("job not found")
	}
	return nil
}

func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Job{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("job not found")
	}
	return nil
}

// openJobs scopes a query to public, active jobs whose deadline has not
// passed.
func openJobs(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("visibility = ? AND status = ?", models.VisibilityPublic, models.JobStatusActive).
			Where("application_deadline IS NULL OR application_deadline > ?", now)
	}
}

func (r *jobRepository) Search(ctx context.Context, q models.JobSearchQuery, now time.Time) ([]models.Job, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Job{}).Scopes(openJobs(now))

	if kw := strings.TrimSpace(q.Keywords); kw != "" {
		like := "%" + kw + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR company ILIKE ?", like, like, like)
	}
	if q.RemoteOnly {
		query = query.Where("location_is_remote = ?", true)
	} else if loc := strings.TrimSpace(q.Location); loc != "" {
		like := "%" + loc + "%"
		query = query.Where("location_city ILIKE ? OR location_state ILIKE ? OR location_country ILIKE ?", like, like, like)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if len(q.JobTypes) > 0 {
		query = query.Where("job_type IN ?", q.JobTypes)
	}
	if len(q.ExperienceLevel) > 0 {
		query = query.Where("experience_level IN ?", q.ExperienceLevel)
	}
	if q.SalaryMin > 0 {
		query = query.Where("(salary->>'min')::numeric >= ?", q.SalaryMin)
	}
	if q.SalaryMax > 0 {
		query = query.Where("(salary->>'max')::numeric <= ?", q.SalaryMax)
	}
	if len(q.Skills) > 0 {
		clauses := make([]string, 0, len(q.Skills))
		args := make([]interface{}, 0, len(q.Skills))
		for _, s := range q.Skills {
			clauses = append(clauses, "required_skills::text ILIKE ?")
			args = append(args, "%"+s+"%")
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		direction = "ASC"
	}

	var jobs []models.Job
	if err := query.Order(column + " " + direction).
		Offset(offset(q.Page, q.Limit)).
		Limit(q.Limit).
		Find(&jobs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search jobs: %w", err)
	}
	return jobs, total, nil
}

func (r *jobRepository) ListOpen(ctx context.Context, now time.Time, limit int) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.WithContext(ctx).
		Scopes(openJobs(now)).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID, limit int) ([]models.Job, error) {
	var jobs []models.Job
	query := r.db.WithContext(ctx).Where("posted_by = ?", recruiterID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list recruiter jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) Stats(ctx context.Context, now time.Time) (*models.JobStats, error) {
	stats := &models.JobStats{}
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Job{}).Scopes(openJobs(now))
	}

	if err := base().Count(&stats.TotalJobs).Error; err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	if err := base().Distinct("posted_by").Count(&stats.TotalCompanies).Error; err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}
	if err := base().
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&stats.ByCategory).Error; err != nil {
		return nil, fmt.Errorf("failed to group jobs by category: %w", err)
	}
	return stats, nil
}

func (r *jobRepository) CountByStatus(ctx context.Context, recruiterID uuid.UUID) ([]models.JobStatusCount, error) {
	var counts []models.JobStatusCount
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Select("status, COUNT(*) AS count").
		Where("posted_by = ?", recruiterID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count jobs by status: %w", err)
	}
	return counts, nil
}

func (r *jobRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

func (r *jobRepository) IncrementApplications(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("applications_count", gorm.Expr("applications_count + 1")).Error; err != nil {
		return fmt.Errorf("failed to increment applications: %w", err)
	}
	return nil
}

// ExpireOverdue flips active jobs past their deadline to expired and returns
// how many rows changed.
func (r *jobRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("status = ? AND application_deadline IS NOT NULL AND application_deadline < ?", models.JobStatusActive, now).
		Updates(map[string]interface{}{
			"status":     models.JobStatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire jobs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
