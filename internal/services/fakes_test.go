package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/repositories"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]models.User
	updates int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]models.User)}
	for _, u := range users {
		r.users[u.ID] = *u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperror.Conflict("user already exists with this email")
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) find(match func(models.User) bool, what string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, apperror.NotFound(what + " not found")
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.find(func(u models.User) bool { return u.Email == email }, "user")
}

func (r *fakeUserRepo) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return r.find(func(u models.User) bool { return token != "" && u.VerificationToken == token }, "verification token")
}

func (r *fakeUserRepo) FindByResetToken(ctx context.Context, hashedToken string) (*models.User, error) {
	return r.find(func(u models.User) bool { return hashedToken != "" && u.ResetPasswordToken == hashedToken }, "reset token")
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperror.NotFound("user not found")
	}
	r.users[user.ID] = *user
	r.updates++
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, role models.Role, page, limit int) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) get(id uuid.UUID) models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

type fakeJobRepo struct {
	mu          sync.Mutex
	jobs        map[uuid.UUID]models.Job
	searchQuery models.JobSearchQuery
}

func newFakeJobRepo(jobs ...*models.Job) *fakeJobRepo {
	r := &fakeJobRepo{jobs: make(map[uuid.UUID]models.Job)}
	for _, j := range jobs {
		r.jobs[j.ID] = *j
	}
	return r
}

func (r *fakeJobRepo) Create(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, apperror.NotFound("job not found")
	}
	return &j, nil
}

func (r *fakeJobRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, id := range ids {
		if j, ok := r.jobs[id]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return apperror.NotFound("job not found")
	}
	j.Status = status
	r.jobs[id] = j
	return nil
}

func (r *fakeJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) Search(ctx context.Context, q models.JobSearchQuery, now time.Time) ([]models.Job, int64, error) {
	open, _ := r.ListOpen(ctx, now, 0)
	r.mu.Lock()
	r.searchQuery = q
	r.mu.Unlock()
	return open, int64(len(open)), nil
}

func (r *fakeJobRepo) ListOpen(ctx context.Context, now time.Time, limit int) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.jobs {
		job := j
		if job.Visibility == models.VisibilityPublic && job.AcceptingApplications(now) {
			out = append(out, job)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeJobRepo) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID, limit int) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.jobs {
		if j.PostedBy == recruiterID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Stats(ctx context.Context, now time.Time) (*models.JobStats, error) {
	open, _ := r.ListOpen(ctx, now, 0)
	return &models.JobStats{TotalJobs: int64(len(open))}, nil
}

func (r *fakeJobRepo) CountByStatus(ctx context.Context, recruiterID uuid.UUID) ([]models.JobStatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[models.JobStatus]int64{}
	for _, j := range r.jobs {
		if j.PostedBy == recruiterID {
			counts[j.Status]++
		}
	}
	var out []models.JobStatusCount
	for status, n := range counts {
		out = append(out, models.JobStatusCount{Status: status, Count: n})
	}
	return out, nil
}

func (r *fakeJobRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := r.jobs[id]
	j.ViewsCount++
	r.jobs[id] = j
	return nil
}

func (r *fakeJobRepo) IncrementApplications(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j := r.jobs[id]
	j.ApplicationsCount++
	r.jobs[id] = j
	return nil
}

func (r *fakeJobRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, j := range r.jobs {
		if j.Status == models.JobStatusActive && j.DeadlinePassed(now) {
			j.Status = models.JobStatusExpired
			r.jobs[id] = j
			n++
		}
	}
	return n, nil
}

func (r *fakeJobRepo) get(id uuid.UUID) models.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[id]
}

type fakeApplicationRepo struct {
	mu      sync.Mutex
	apps    map[uuid.UUID]models.Application
	writes  int
	updated chan struct{}
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[uuid.UUID]models.Application)}
}

func cloneApplication(app models.Application) models.Application {
	app.StatusHistory = append([]models.StatusHistoryEntry(nil), app.StatusHistory...)
	app.Interviews = append([]models.Interview(nil), app.Interviews...)
	app.Communications = append([]models.Communication(nil), app.Communications...)
	app.References = append([]models.Reference(nil), app.References...)
	if app.Offer != nil {
		offer := *app.Offer
		app.Offer = &offer
	}
	if app.Withdrawal != nil {
		w := *app.Withdrawal
		app.Withdrawal = &w
	}
	return app
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.ApplicantID == app.ApplicantID && existing.JobID == app.JobID {
			return apperror.Conflict("you have already applied for this job")
		}
	}
	app.CreatedAt = time.Now()
	r.apps[app.ID] = cloneApplication(*app)
	r.writes++
	return nil
}

func (r *fakeApplicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, apperror.NotFound("application not found")
	}
	found := cloneApplication(app)
	return &found, nil
}

func (r *fakeApplicationRepo) FindByApplicantAndJob(ctx context.Context, applicantID, jobID uuid.UUID) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.ApplicantID == applicantID && app.JobID == jobID {
			found := cloneApplication(app)
			return &found, nil
		}
	}
	return nil, apperror.NotFound("application not found")
}

func (r *fakeApplicationRepo) Update(ctx context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.apps[app.ID]
	if !ok {
		return apperror.NotFound("application not found")
	}
	if stored.Version != app.Version {
		return apperror.Conflict("application was modified concurrently, reload and retry")
	}
	app.Version++
	r.apps[app.ID] = cloneApplication(*app)
	r.writes++
	return nil
}

func (r *fakeApplicationRepo) filter(match func(models.Application) bool, f repositories.ApplicationFilter) ([]models.Application, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, app := range r.apps {
		if match(app) && (f.Status == "" || app.Status == f.Status) {
			out = append(out, cloneApplication(app))
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) ListByApplicant(ctx context.Context, applicantID uuid.UUID, f repositories.ApplicationFilter) ([]models.Application, int64, error) {
	return r.filter(func(a models.Application) bool { return a.ApplicantID == applicantID }, f)
}

func (r *fakeApplicationRepo) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID, f repositories.ApplicationFilter) ([]models.Application, int64, error) {
	return r.filter(func(a models.Application) bool { return a.RecruiterID == recruiterID }, f)
}

func (r *fakeApplicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID, f repositories.ApplicationFilter) ([]models.Application, int64, error) {
	return r.filter(func(a models.Application) bool { return a.JobID == jobID }, f)
}

func (r *fakeApplicationRepo) TopCandidates(ctx context.Context, jobID uuid.UUID, limit int) ([]models.Application, error) {
	apps, _, err := r.ListByJob(ctx, jobID, repositories.ApplicationFilter{})
	return apps, err
}

func (r *fakeApplicationRepo) Recent(ctx context.Context, recruiterID uuid.UUID, limit int) ([]models.Application, error) {
	apps, _, err := r.ListByRecruiter(ctx, recruiterID, repositories.ApplicationFilter{})
	return apps, err
}

func (r *fakeApplicationRepo) Pipeline(ctx context.Context, recruiterID uuid.UUID, jobID *uuid.UUID) ([]models.PipelineCount, error) {
	apps, _, _ := r.ListByRecruiter(ctx, recruiterID, repositories.ApplicationFilter{})
	counts := map[models.ApplicationStatus]int64{}
	for _, a := range apps {
		if jobID == nil || a.JobID == *jobID {
			counts[a.Status]++
		}
	}
	var out []models.PipelineCount
	for status, n := range counts {
		out = append(out, models.PipelineCount{Status: status, Count: n})
	}
	return out, nil
}

func (r *fakeApplicationRepo) CountByApplicantStatus(ctx context.Context, applicantID uuid.UUID) ([]models.PipelineCount, error) {
	apps, _, _ := r.ListByApplicant(ctx, applicantID, repositories.ApplicationFilter{})
	counts := map[models.ApplicationStatus]int64{}
	for _, a := range apps {
		counts[a.Status]++
	}
	var out []models.PipelineCount
	for status, n := range counts {
		out = append(out, models.PipelineCount{Status: status, Count: n})
	}
	return out, nil
}

func (r *fakeApplicationRepo) get(id uuid.UUID) models.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneApplication(r.apps[id])
}

type recordingIndexer struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (i *recordingIndexer) EnqueueJob(id uuid.UUID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ids = append(i.ids, id)
}

type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs []models.Document
	err  error
}

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.docs = append(r.docs, *doc)
	return nil
}

func (r *fakeDocumentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ID == id {
			found := d
			return &found, nil
		}
	}
	return nil, apperror.NotFound("document not found")
}

func (r *fakeDocumentRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}
