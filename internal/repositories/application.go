package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindByApplicantAndJob(ctx context.Context, applicantID, jobID uuid.UUID) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	ListByApplicant(ctx context.Context, applicantID uuid.UUID, filter ApplicationFilter) ([]models.Application, int64, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID, filter ApplicationFilter) ([]models.Application, int64, error)
	ListByJob(ctx context.Context, jobID uuid.UUID, filter ApplicationFilter) ([]models.Application, int64, error)
	TopCandidates(ctx context.Context, jobID uuid.UUID, limit int) ([]models.Application, error)
	Recent(ctx context.Context, recruiterID uuid.UUID, limit int) ([]models.Application, error)
	Pipeline(ctx context.Context, recruiterID uuid.UUID, jobID *uuid.UUID) ([]models.PipelineCount, error)
	CountByApplicantStatus(ctx context.Context, applicantID uuid.UUID) ([]models.PipelineCount, error)
}

type ApplicationFilter struct {
	Status models.ApplicationStatus
	Page   int
	Limit  int
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create inserts a new application. The (applicant, job) unique index turns a
// second application for the same job into a Conflict.
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.Version == 0 {
		app.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Wrap(apperror.KindConflict, "you have already applied for this job", err)
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, notFoundOr(err, "application", "failed to find application")
	}
	return &app, nil
}

func (r *applicationRepository) FindByApplicantAndJob(ctx context.Context, applicantID, jobID uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).
		Where("applicant_id = ? AND job_id = ?", applicantID, jobID).
		First(&app).Error; err != nil {
		return nil, notFoundOr(err, "application", "failed to find application")
	}
	return &app, nil
}

// Update writes every column of app when the stored version still matches
// app.Version, then bumps app.Version. A stale version yields Conflict.
func (r *applicationRepository) Update(ctx context.Context, app *models.Application) error {
	expected := app.Version
	app.Version = expected + 1
	app.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(app).
		Where("version = ?", expected).
		Select("*").
		Omit("id", "created_at").
		Updates(app)
	if result.Error != nil {
		app.Version = expected
		return fmt.Errorf("failed to update application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		app.Version = expected
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", app.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check application: %w", err)
		}
		if count == 0 {
			return apperror.NotFound("application not found")
		}
		return apperror.Conflict("application was modified concurrently, reload and retry")
	}
	return nil
}

func (r *applicationRepository) list(ctx context.Context, where string, id uuid.UUID, filter ApplicationFilter) ([]models.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{}).Where(where, id)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var apps []models.Application
	if err := query.Order("created_at DESC").
		Offset(offset(filter.Page, limit)).
		Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, total, nil
}

func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID, filter ApplicationFilter) ([]models.Application, int64, error) {
	return r.list(ctx, "applicant_id = ?", applicantID, filter)
}

func (r *applicationRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID, filter ApplicationFilter) ([]models.Application, int64, error) {
	return r.list(ctx, "recruiter_id = ?", recruiterID, filter)
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID, filter ApplicationFilter) ([]models.Application, int64, error) {
	return r.list(ctx, "job_id = ?", jobID, filter)
}

func (r *applicationRepository) TopCandidates(ctx context.Context, jobID uuid.UUID, limit int) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("match_overall DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to find top candidates: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) Recent(ctx context.Context, recruiterID uuid.UUID, limit int) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.WithContext(ctx).
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").
		Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to find recent applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) Pipeline(ctx context.Context, recruiterID uuid.UUID, jobID *uuid.UUID) ([]models.PipelineCount, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("recruiter_id = ?", recruiterID)
	if jobID != nil {
		query = query.Where("job_id = ?", *jobID)
	}

	var counts []models.PipelineCount
	if err := query.Group("status").Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate pipeline: %w", err)
	}
	return counts, nil
}

func (r *applicationRepository) CountByApplicantStatus(ctx context.Context, applicantID uuid.UUID) ([]models.PipelineCount, error) {
	var counts []models.PipelineCount
	if err := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("applicant_id = ?", applicantID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications by status: %w", err)
	}
	return counts, nil
}
