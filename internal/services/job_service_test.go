package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
)

func newTestJobService(jobs ...*models.Job) (*jobService, *fakeJobRepo, *fakeUserRepo, *recordingIndexer) {
	jobRepo := newFakeJobRepo(jobs...)
	users := newFakeUserRepo()
	indexer := &recordingIndexer{}
	svc := NewJobService(jobRepo, users, indexer).(*jobService)
	return svc, jobRepo, users, indexer
}

func testRecruiter() *models.User {
	return &models.User{
		ID:               uuid.New(),
		Email:            "rita@acme.io",
		Role:             models.RoleRecruiter,
		RecruiterProfile: models.RecruiterProfile{CompanyName: "Acme"},
	}
}

func TestCreateJob_Defaults(t *testing.T) {
	svc, jobs, _, indexer := newTestJobService()
	recruiter := testRecruiter()

	job, err := svc.Create(context.Background(), recruiter, models.JobRequest{
		Title:       "Senior Go Engineer!",
		Description: "Build things",
	})

	require.NoError(t, err)
	assert.Equal(t, models.JobStatusActive, job.Status)
	assert.Equal(t, models.VisibilityPublic, job.Visibility)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "mid", job.ExperienceLevel)
	assert.Equal(t, "USD", job.Salary.Currency)
	assert.Equal(t, "yearly", job.Salary.Period)
	assert.Equal(t, models.DefaultMatchingCriteria(), job.MatchingCriteria)
	assert.Regexp(t, `^senior-go-engineer-[0-9a-f]{6}$`, job.Slug)
	assert.Equal(t, recruiter.ID, jobs.get(job.ID).PostedBy)
	assert.Equal(t, []uuid.UUID{job.ID}, indexer.ids)
}

func TestCreateJob_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.JobRequest
	}{
		{"missing title", models.JobRequest{Description: "d"}},
		{"missing description", models.JobRequest{Title: "t"}},
		{"salary inverted", models.JobRequest{Title: "t", Description: "d", Salary: models.Salary{Min: 10, Max: 5}}},
		{"bad status", models.JobRequest{Title: "t", Description: "d", Status: "open"}},
		{"weight out of range", models.JobRequest{Title: "t", Description: "d", MatchingCriteria: &models.MatchingCriteria{SkillsWeight: 120}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, indexer := newTestJobService()
			_, err := svc.Create(context.Background(), testRecruiter(), tt.req)
			assert.True(t, apperror.Is(err, apperror.KindValidation), "got %v", err)
			assert.Empty(t, indexer.ids)
		})
	}
}

func TestCreateJob_PastDeadlineIsExpired(t *testing.T) {
	svc, _, _, _ := newTestJobService()
	past := time.Now().Add(-time.Hour)

	job, err := svc.Create(context.Background(), testRecruiter(), models.JobRequest{
		Title:               "Late",
		Description:         "d",
		ApplicationDeadline: &past,
	})

	require.NoError(t, err)
	assert.Equal(t, models.JobStatusExpired, job.Status)
}

func TestGetJob(t *testing.T) {
	recruiter := testRecruiter()
	past := time.Now().Add(-time.Hour)
	public := &models.Job{ID: uuid.New(), PostedBy: recruiter.ID, Status: models.JobStatusActive, Visibility: models.VisibilityPublic}
	private := &models.Job{ID: uuid.New(), PostedBy: recruiter.ID, Status: models.JobStatusActive, Visibility: models.VisibilityPrivate}
	overdue := &models.Job{ID: uuid.New(), PostedBy: recruiter.ID, Status: models.JobStatusActive, Visibility: models.VisibilityPublic, ApplicationDeadline: &past}
	svc, jobs, _, _ := newTestJobService(public, private, overdue)
	ctx := context.Background()

	job, err := svc.Get(ctx, public.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, job.ViewsCount)
	assert.Equal(t, 1, jobs.get(public.ID).ViewsCount)

	_, err = svc.Get(ctx, private.ID, nil)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = svc.Get(ctx, private.ID, &models.User{ID: uuid.New(), Role: models.RoleJobSeeker})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = svc.Get(ctx, private.ID, recruiter)
	assert.NoError(t, err)

	job, err = svc.Get(ctx, overdue.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusExpired, job.Status)
	assert.Equal(t, models.JobStatusExpired, jobs.get(overdue.ID).Status)
}

func TestUpdateJob_OwnerOnly(t *testing.T) {
	recruiter := testRecruiter()
	job := &models.Job{ID: uuid.New(), Title: "Old", Company: "Acme", PostedBy: recruiter.ID, Status: models.JobStatusActive, Slug: "old"}
	svc, jobs, _, indexer := newTestJobService(job)
	ctx := context.Background()
	req := models.JobRequest{Title: "New Title", Description: "d"}

	_, err := svc.Update(ctx, testRecruiter(), job.ID, req)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Equal(t, "Old", jobs.get(job.ID).Title)

	updated, err := svc.Update(ctx, recruiter, job.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "Acme", updated.Company)
	assert.Regexp(t, `^new-title-`, updated.Slug)
	assert.Equal(t, []uuid.UUID{job.ID}, indexer.ids)

	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	_, err = svc.Update(ctx, admin, job.ID, req)
	assert.NoError(t, err)
}

func TestToggleStatus(t *testing.T) {
	recruiter := testRecruiter()
	job := &models.Job{ID: uuid.New(), PostedBy: recruiter.ID, Status: models.JobStatusActive}
	svc, jobs, _, _ := newTestJobService(job)
	ctx := context.Background()

	toggled, err := svc.ToggleStatus(ctx, recruiter, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPaused, toggled.Status)

	toggled, err = svc.ToggleStatus(ctx, recruiter, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusActive, toggled.Status)
	assert.Equal(t, models.JobStatusActive, jobs.get(job.ID).Status)
}

func TestSetStatus_CannotReactivatePastDeadline(t *testing.T) {
	recruiter := testRecruiter()
	past := time.Now().Add(-time.Hour)
	job := &models.Job{ID: uuid.New(), PostedBy: recruiter.ID, Status: models.JobStatusExpired, ApplicationDeadline: &past}
	svc, _, _, _ := newTestJobService(job)

	_, err := svc.SetStatus(context.Background(), recruiter, job.ID, models.JobStatusActive)

	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestDeleteJob(t *testing.T) {
	recruiter := testRecruiter()
	job := &models.Job{ID: uuid.New(), PostedBy: recruiter.ID}
	svc, jobs, _, _ := newTestJobService(job)
	ctx := context.Background()

	err := svc.Delete(ctx, &models.User{ID: uuid.New(), Role: models.RoleRecruiter}, job.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	require.NoError(t, svc.Delete(ctx, recruiter, job.ID))
	_, err = jobs.FindByID(ctx, job.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestToggleSave(t *testing.T) {
	job := &models.Job{ID: uuid.New(), Status: models.JobStatusActive, Visibility: models.VisibilityPublic}
	svc, _, users, _ := newTestJobService(job)
	seeker := &models.User{ID: uuid.New(), Role: models.RoleJobSeeker}
	require.NoError(t, users.Create(context.Background(), seeker))
	ctx := context.Background()

	saved, err := svc.ToggleSave(ctx, seeker, job.ID)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, []uuid.UUID{job.ID}, users.get(seeker.ID).SavedJobs)

	list, err := svc.Saved(ctx, seeker)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	saved, err = svc.ToggleSave(ctx, seeker, job.ID)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Empty(t, users.get(seeker.ID).SavedJobs)

	_, err = svc.ToggleSave(ctx, seeker, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSearch_Pagination(t *testing.T) {
	job := &models.Job{ID: uuid.New(), Status: models.JobStatusActive, Visibility: models.VisibilityPublic}
	svc, jobs, _, _ := newTestJobService(job)

	result, err := svc.Search(context.Background(), models.JobSearchQuery{Limit: 500})

	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalJobs)
	assert.Equal(t, 1, result.CurrentPage)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, maxPageSize, jobs.searchQuery.Limit)
}

func TestSlugify(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")

	assert.Equal(t, "c-developer-174000", slugify("C++ Developer", id))
	assert.Equal(t, "174000", slugify("!!!", id))
}

func TestNormalizePage(t *testing.T) {
	page, limit := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageSize, limit)

	page, limit = normalizePage(3, 1000)
	assert.Equal(t, 3, page)
	assert.Equal(t, maxPageSize, limit)
}
