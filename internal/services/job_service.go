package services

import (
	"context"
	"log"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/repositories"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

var jobCategories = []string{
	"Software Development",
	"Data Science",
	"Design",
	"Marketing",
	"Sales",
	"Finance",
	"Human Resources",
	"Operations",
	"Customer Service",
	"Healthcare",
	"Education",
	"Engineering",
	"Legal",
	"Consulting",
	"Other",
}

// JobIndexer receives jobs whose searchable content changed.
type JobIndexer interface {
	EnqueueJob(jobID uuid.UUID)
}

type JobService interface {
	Search(ctx context.Context, query models.JobSearchQuery) (*models.JobSearchResult, error)
	Categories() []string
	Stats(ctx context.Context) (*models.JobStats, error)
	Get(ctx context.Context, id uuid.UUID, viewer *models.User) (*models.Job, error)
	Create(ctx context.Context, recruiter *models.User, req models.JobRequest) (*models.Job, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, req models.JobRequest) (*models.Job, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
	SetStatus(ctx context.Context, actor *models.User, id uuid.UUID, status models.JobStatus) (*models.Job, error)
	ToggleStatus(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Job, error)
	ListMine(ctx context.Context, recruiter *models.User, limit int) ([]models.Job, error)
	ToggleSave(ctx context.Context, user *models.User, jobID uuid.UUID) (bool, error)
	Saved(ctx context.Context, user *models.User) ([]models.Job, error)
	OwnedJob(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Job, error)
}

type jobService struct {
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
	indexer  JobIndexer
	now      func() time.Time
}

func NewJobService(jobRepo repositories.JobRepository, userRepo repositories.UserRepository, indexer JobIndexer) JobService {
	return &jobService{
		jobRepo:  jobRepo,
		userRepo: userRepo,
		indexer:  indexer,
		now:      time.Now,
	}
}

func (s *jobService) Search(ctx context.Context, q models.JobSearchQuery) (*models.JobSearchResult, error) {
	q.Page, q.Limit = normalizePage(q.Page, q.Limit)

	jobs, total, err := s.jobRepo.Search(ctx, q, s.now())
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	return &models.JobSearchResult{
		Jobs:        jobs,
		TotalJobs:   total,
		CurrentPage: q.Page,
		TotalPages:  int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

func (s *jobService) Categories() []string {
	out := make([]string, len(jobCategories))
	copy(out, jobCategories)
	return out
}

func (s *jobService) Stats(ctx context.Context) (*models.JobStats, error) {
	return s.jobRepo.Stats(ctx, s.now())
}

// Get returns a job and counts the view. Active jobs past their deadline are
// expired on read. Non-public jobs are only visible to their owner and admins.
func (s *jobService) Get(ctx context.Context, id uuid.UUID, viewer *models.User) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if job.Visibility != models.VisibilityPublic && !canManageJob(viewer, job) {
		return nil, apperror.NotFound("job not found")
	}

	if job.Status == models.JobStatusActive && job.DeadlinePassed(s.now()) {
		if err := s.jobRepo.UpdateStatus(ctx, job.ID, models.JobStatusExpired); err != nil {
			return nil, err
		}
		job.Status = models.JobStatusExpired
	}

	if err := s.jobRepo.IncrementViews(ctx, job.ID); err != nil {
		log.Printf("⚠️  Failed to count view for job %s: %v", job.ID, err)
	} else {
		job.ViewsCount++
	}
	return job, nil
}

func (s *jobService) Create(ctx context.Context, recruiter *models.User, req models.JobRequest) (*models.Job, error) {
	if err := validateJobRequest(req); err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:       uuid.New(),
		PostedBy: recruiter.ID,
		Status:   models.JobStatusActive,
	}
	applyJobRequest(job, req)

	if job.Company == "" {
		job.Company = recruiter.RecruiterProfile.CompanyName
	}
	if job.Company == "" {
		return nil, apperror.Validation("company is required")
	}
	job.Slug = slugify(job.Title, job.ID)

	if job.Status == models.JobStatusActive && job.DeadlinePassed(s.now()) {
		job.Status = models.JobStatusExpired
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	log.Printf("📝 Job created: %s by %s", job.Title, recruiter.Email)
	s.reindex(job.ID)
	return job, nil
}

func (s *jobService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req models.JobRequest) (*models.Job, error) {
	job, err := s.OwnedJob(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validateJobRequest(req); err != nil {
		return nil, err
	}

	previousTitle := job.Title
	applyJobRequest(job, req)
	if job.Title != previousTitle {
		job.Slug = slugify(job.Title, job.ID)
	}
	if job.Status == models.JobStatusActive && job.DeadlinePassed(s.now()) {
		job.Status = models.JobStatusExpired
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	s.reindex(job.ID)
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if _, err := s.OwnedJob(ctx, actor, id); err != nil {
		return err
	}
	return s.jobRepo.Delete(ctx, id)
}

func (s *jobService) SetStatus(ctx context.Context, actor *models.User, id uuid.UUID, status models.JobStatus) (*models.Job, error) {
	if !status.Valid() {
		return nil, apperror.Validation("invalid job status: " + string(status))
	}

	job, err := s.OwnedJob(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if status == models.JobStatusActive && job.DeadlinePassed(s.now()) {
		return nil, apperror.Validation("application deadline has passed")
	}

	if err := s.jobRepo.UpdateStatus(ctx, job.ID, status); err != nil {
		return nil, err
	}
	job.Status = status
	return job, nil
}

// ToggleStatus flips an active job to paused and anything else to active.
func (s *jobService) ToggleStatus(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Job, error) {
	job, err := s.OwnedJob(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	next := models.JobStatusActive
	if job.Status == models.JobStatusActive {
		next = models.JobStatusPaused
	}
	return s.SetStatus(ctx, actor, id, next)
}

func (s *jobService) ListMine(ctx context.Context, recruiter *models.User, limit int) ([]models.Job, error) {
	jobs, err := s.jobRepo.ListByRecruiter(ctx, recruiter.ID, limit)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

// ToggleSave adds the job to the user's saved list or removes it, returning
// whether the job ends up saved.
func (s *jobService) ToggleSave(ctx context.Context, user *models.User, jobID uuid.UUID) (bool, error) {
	if _, err := s.jobRepo.FindByID(ctx, jobID); err != nil {
		return false, err
	}

	saved := false
	kept := make([]uuid.UUID, 0, len(user.SavedJobs)+1)
	for _, id := range user.SavedJobs {
		if id == jobID {
			saved = true
			continue
		}
		kept = append(kept, id)
	}
	if !saved {
		kept = append(kept, jobID)
	}

	user.SavedJobs = kept
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, err
	}
	return !saved, nil
}

// Saved lists the user's saved jobs that are still public and active.
func (s *jobService) Saved(ctx context.Context, user *models.User) ([]models.Job, error) {
	jobs, err := s.jobRepo.FindByIDs(ctx, user.SavedJobs)
	if err != nil {
		return nil, err
	}

	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.Status == models.JobStatusActive && job.Visibility == models.VisibilityPublic {
			out = append(out, job)
		}
	}
	return out, nil
}

// OwnedJob loads a job the actor may manage. Anyone else gets Forbidden.
func (s *jobService) OwnedJob(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageJob(actor, job) {
		return nil, apperror.Forbidden("not authorized to manage this job")
	}
	return job, nil
}

func (s *jobService) reindex(id uuid.UUID) {
	if s.indexer != nil {
		s.indexer.EnqueueJob(id)
	}
}

func canManageJob(actor *models.User, job *models.Job) bool {
	if actor == nil {
		return false
	}
	return actor.Role == models.RoleAdmin || actor.ID == job.PostedBy
}

func validateJobRequest(req models.JobRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return apperror.Validation("job title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperror.Validation("job description is required")
	}
	if req.Status != "" && !req.Status.Valid() {
		return apperror.Validation("invalid job status: " + string(req.Status))
	}
	if req.Salary.Min > 0 && req.Salary.Max > 0 && req.Salary.Min > req.Salary.Max {
		return apperror.Validation("salary min cannot exceed max")
	}
	if w := req.MatchingCriteria; w != nil {
		for _, v := range []float64{w.SkillsWeight, w.ExperienceWeight, w.EducationWeight, w.LocationWeight} {
			if v < 0 || v > 100 {
				return apperror.Validation("matching weights must be between 0 and 100")
			}
		}
	}
	return nil
}

func applyJobRequest(job *models.Job, req models.JobRequest) {
	job.Title = strings.TrimSpace(req.Title)
	if req.Company != "" {
		job.Company = strings.TrimSpace(req.Company)
	}
	job.Description = req.Description
	job.ShortDescription = req.ShortDescription
	job.Category = req.Category
	job.JobType = req.JobType
	job.ExperienceLevel = req.ExperienceLevel
	if job.ExperienceLevel == "" {
		job.ExperienceLevel = "mid"
	}
	job.Location = req.Location
	job.Salary = req.Salary
	if job.Salary.Currency == "" {
		job.Salary.Currency = "USD"
	}
	if job.Salary.Period == "" {
		job.Salary.Period = "yearly"
	}
	job.RequiredSkills = req.RequiredSkills
	job.PreferredSkills = req.PreferredSkills
	job.Requirements = req.Requirements
	if job.Requirements.Experience.Unit == "" {
		job.Requirements.Experience.Unit = "years"
	}
	job.Benefits = req.Benefits
	job.ScreeningQuestions = req.ScreeningQuestions
	for i := range job.ScreeningQuestions {
		if job.ScreeningQuestions[i].ID == uuid.Nil {
			job.ScreeningQuestions[i].ID = uuid.New()
		}
	}
	if req.MatchingCriteria != nil {
		job.MatchingCriteria = *req.MatchingCriteria
	} else if job.MatchingCriteria == (models.MatchingCriteria{}) {
		job.MatchingCriteria = models.DefaultMatchingCriteria()
	}
	job.ApplicationDeadline = req.ApplicationDeadline
	if req.Status != "" {
		job.Status = req.Status
	}
	job.Visibility = req.Visibility
	if job.Visibility == "" {
		job.Visibility = models.VisibilityPublic
	}
	job.Tags = req.Tags
	job.InternalNotes = req.InternalNotes
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string, id uuid.UUID) string {
	base := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
	hex := strings.ReplaceAll(id.String(), "-", "")
	suffix := hex[len(hex)-6:]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
