package services

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/repositories"
)

type ApplicationService interface {
	Apply(ctx context.Context, applicant *models.User, jobID uuid.UUID, req models.ApplyRequest) (*models.Application, error)
	Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Application, error)
	List(ctx context.Context, actor *models.User, filter repositories.ApplicationFilter) (*models.ApplicationList, error)
	ListForJob(ctx context.Context, actor *models.User, jobID uuid.UUID, filter repositories.ApplicationFilter) (*models.ApplicationList, error)
	TopCandidates(ctx context.Context, actor *models.User, jobID uuid.UUID, limit int) ([]models.Application, error)
	Recent(ctx context.Context, recruiter *models.User, limit int) ([]models.RecentApplication, error)
	Pipeline(ctx context.Context, recruiter *models.User, jobID *uuid.UUID) (*models.PipelineSummary, error)

	UpdateStatus(ctx context.Context, actor *models.User, id uuid.UUID, req models.UpdateStatusRequest) (*models.Application, error)
	ScheduleInterview(ctx context.Context, actor *models.User, id uuid.UUID, req models.ScheduleInterviewRequest) (*models.Application, error)
	RecordInterviewFeedback(ctx context.Context, actor *models.User, id, interviewID uuid.UUID, feedback models.InterviewFeedback) (*models.Application, error)
	AddCommunication(ctx context.Context, actor *models.User, id uuid.UUID, req models.CommunicationRequest) (*models.Application, error)
	AddReference(ctx context.Context, actor *models.User, id uuid.UUID, req models.ReferenceRequest) (*models.Application, error)
	ExtendOffer(ctx context.Context, actor *models.User, id uuid.UUID, req models.OfferRequest) (*models.Application, error)
	RespondOffer(ctx context.Context, actor *models.User, id uuid.UUID, req models.OfferResponseRequest) (*models.Application, error)
	Withdraw(ctx context.Context, actor *models.User, id uuid.UUID, req models.WithdrawRequest) (*models.Application, error)
	UpdateScore(ctx context.Context, actor *models.User, id uuid.UUID, breakdown models.ScoreBreakdown) (*models.Application, error)
	RecalculateScore(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Application, error)
}

type applicationService struct {
	appRepo   repositories.ApplicationRepository
	jobRepo   repositories.JobRepository
	userRepo  repositories.UserRepository
	jobs      JobService
	lifecycle *Lifecycle
	now       func() time.Time
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	jobs JobService,
	lifecycle *Lifecycle,
) ApplicationService {
	return &applicationService{
		appRepo:   appRepo,
		jobRepo:   jobRepo,
		userRepo:  userRepo,
		jobs:      jobs,
		lifecycle: lifecycle,
		now:       time.Now,
	}
}

// Apply creates the applicant's application for a job together with its
// initial match score snapshot.
func (s *applicationService) Apply(ctx context.Context, applicant *models.User, jobID uuid.UUID, req models.ApplyRequest) (*models.Application, error) {
	if applicant.Role != models.RoleJobSeeker {
		return nil, apperror.Forbidden("only job seekers can apply for jobs")
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Visibility != models.VisibilityPublic {
		return nil, apperror.NotFound("job not found")
	}
	now := s.now()
	if !job.AcceptingApplications(now) {
		return nil, apperror.Validation("job is no longer accepting applications")
	}

	if _, err := s.appRepo.FindByApplicantAndJob(ctx, applicant.ID, job.ID); err == nil {
		return nil, apperror.Conflict("you have already applied for this job")
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	resumeURL := strings.TrimSpace(req.ResumeURL)
	if resumeURL == "" {
		resumeURL = applicant.Profile.ResumeURL
	}
	if resumeURL == "" {
		return nil, apperror.Validation("a resume is required to apply")
	}
	responses, err := matchScreeningResponses(job.ScreeningQuestions, req.ScreeningResponses)
	if err != nil {
		return nil, err
	}

	score := ComputeMatchScore(job, &applicant.Profile)
	score.LastCalculated = &now

	source := req.Source
	if source == "" {
		source = "direct"
	}

	app := &models.Application{
		ID:                  uuid.New(),
		ApplicantID:         applicant.ID,
		JobID:               job.ID,
		RecruiterID:         job.PostedBy,
		ResumeURL:           resumeURL,
		CoverLetter:         req.CoverLetter,
		AdditionalDocuments: req.AdditionalDocuments,
		ScreeningResponses:  responses,
		MatchScore:          score,
		Source:              source,
		SourceDetails:       req.SourceDetails,
		Version:             1,
	}
	s.lifecycle.Open(app)

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	if err := s.jobRepo.IncrementApplications(ctx, job.ID); err != nil {
		log.Printf("⚠️  Failed to count application for job %s: %v", job.ID, err)
	}

	log.Printf("📨 Application %s submitted for job %s (score %d)", app.ID, job.ID, score.Overall)
	return app, nil
}

// matchScreeningResponses checks every required question is answered and
// copies the question text onto each response.
func matchScreeningResponses(questions []models.ScreeningQuestion, responses []models.ScreeningResponse) ([]models.ScreeningResponse, error) {
	byID := make(map[uuid.UUID]models.ScreeningResponse, len(responses))
	for _, r := range responses {
		byID[r.QuestionID] = r
	}

	out := make([]models.ScreeningResponse, 0, len(responses))
	for _, q := range questions {
		r, ok := byID[q.ID]
		if !ok || (strings.TrimSpace(r.Response) == "" && r.FileURL == "") {
			if q.Required {
				return nil, apperror.Validation("screening question requires an answer: " + q.Question)
			}
			continue
		}
		r.Question = q.Question
		out = append(out, r)
	}
	return out, nil
}

func (s *applicationService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Application, error) {
	app, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isApplicant(actor, app) && !isOwningRecruiter(actor, app) {
		return nil, apperror.Forbidden("not authorized to view this application")
	}
	return app, nil
}

func (s *applicationService) List(ctx context.Context, actor *models.User, filter repositories.ApplicationFilter) (*models.ApplicationList, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	var (
		apps  []models.Application
		total int64
		err   error
	)
	switch actor.Role {
	case models.RoleJobSeeker:
		apps, total, err = s.appRepo.ListByApplicant(ctx, actor.ID, filter)
	case models.RoleRecruiter, models.RoleAdmin:
		apps, total, err = s.appRepo.ListByRecruiter(ctx, actor.ID, filter)
	default:
		return nil, apperror.Forbidden("unknown role")
	}
	if err != nil {
		return nil, err
	}
	return applicationList(apps, total, filter), nil
}

func (s *applicationService) ListForJob(ctx context.Context, actor *models.User, jobID uuid.UUID, filter repositories.ApplicationFilter) (*models.ApplicationList, error) {
	if _, err := s.jobs.OwnedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.Validation("invalid application status: " + string(filter.Status))
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	apps, total, err := s.appRepo.ListByJob(ctx, jobID, filter)
	if err != nil {
		return nil, err
	}
	return applicationList(apps, total, filter), nil
}

func (s *applicationService) TopCandidates(ctx context.Context, actor *models.User, jobID uuid.UUID, limit int) ([]models.Application, error) {
	if _, err := s.jobs.OwnedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}
	_, limit = normalizePage(1, limit)

	apps, err := s.appRepo.TopCandidates(ctx, jobID, limit)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

func (s *applicationService) Recent(ctx context.Context, recruiter *models.User, limit int) ([]models.RecentApplication, error) {
	_, limit = normalizePage(1, limit)

	apps, err := s.appRepo.Recent(ctx, recruiter.ID, limit)
	if err != nil {
		return nil, err
	}

	applicantIDs := make([]uuid.UUID, 0, len(apps))
	jobIDs := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		applicantIDs = append(applicantIDs, app.ApplicantID)
		jobIDs = append(jobIDs, app.JobID)
	}

	users, err := s.userRepo.FindByIDs(ctx, applicantIDs)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobRepo.FindByIDs(ctx, jobIDs)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].FullName()
	}
	titles := make(map[uuid.UUID]string, len(jobs))
	for _, job := range jobs {
		titles[job.ID] = job.Title
	}

	out := make([]models.RecentApplication, 0, len(apps))
	for _, app := range apps {
		name, ok := names[app.ApplicantID]
		if !ok {
			name = "Unknown Candidate"
		}
		title, ok := titles[app.JobID]
		if !ok {
			title = "Unknown Position"
		}
		out = append(out, models.RecentApplication{
			ID:            app.ID,
			CandidateName: name,
			JobTitle:      title,
			AppliedAt:     app.CreatedAt,
			Status:        app.Status,
		})
	}
	return out, nil
}

// Pipeline counts the recruiter's applications per status. Every status is
// listed in pipeline order, including those with no applications.
func (s *applicationService) Pipeline(ctx context.Context, recruiter *models.User, jobID *uuid.UUID) (*models.PipelineSummary, error) {
	if jobID != nil {
		if _, err := s.jobs.OwnedJob(ctx, recruiter, *jobID); err != nil {
			return nil, err
		}
	}

	counts, err := s.appRepo.Pipeline(ctx, recruiter.ID, jobID)
	if err != nil {
		return nil, err
	}
	return pipelineSummary(counts), nil
}

func pipelineSummary(counts []models.PipelineCount) *models.PipelineSummary {
	byStatus := make(map[models.ApplicationStatus]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] += c.Count
	}

	summary := &models.PipelineSummary{StatusBreakdown: make([]models.PipelineCount, 0, len(models.ApplicationStatuses))}
	for _, status := range models.ApplicationStatuses {
		n := byStatus[status]
		summary.TotalApplications += n
		summary.StatusBreakdown = append(summary.StatusBreakdown, models.PipelineCount{Status: status, Count: n})
	}
	return summary
}

func (s *applicationService) UpdateStatus(ctx context.Context, actor *models.User, id uuid.UUID, req models.UpdateStatusRequest) (*models.Application, error) {
	return s.mutate(ctx, id, requireRecruiter(actor), func(app *models.Application) error {
		changedBy := actor.ID
		return s.lifecycle.Transition(app, req.Status, &changedBy, req.Notes, false)
	})
}

func (s *applicationService) ScheduleInterview(ctx context.Context, actor *models.User, id uuid.UUID, req models.ScheduleInterviewRequest) (*models.Application, error) {
	return s.mutate(ctx, id, requireRecruiter(actor), func(app *models.Application) error {
		_, err := s.lifecycle.ScheduleInterview(app, req, actor.ID)
		return err
	})
}

func (s *applicationService) RecordInterviewFeedback(ctx context.Context, actor *models.User, id, interviewID uuid.UUID, feedback models.InterviewFeedback) (*models.Application, error) {
	return s.mutate(ctx, id, requireRecruiter(actor), func(app *models.Application) error {
		_, err := s.lifecycle.RecordInterviewFeedback(app, interviewID, feedback)
		return err
	})
}

func (s *applicationService) AddCommunication(ctx context.Context, actor *models.User, id uuid.UUID, req models.CommunicationRequest) (*models.Application, error) {
	return s.mutate(ctx, id, requireParticipant(actor), func(app *models.Application) error {
		if len(req.To) == 0 {
			if isApplicant(actor, app) {
				req.To = []uuid.UUID{app.RecruiterID}
			} else {
				req.To = []uuid.UUID{app.ApplicantID}
			}
		}
		_, err := s.lifecycle.AddCommunication(app, actor.ID, req)
		return err
	})
}

func (s *applicationService) AddReference(ctx context.Context, actor *models.User, id uuid.UUID, req models.ReferenceRequest) (*models.Application, error) {
	return s.mutate(ctx, id, requireParticipant(actor), func(app *models.Application) error {
		_, err := s.lifecycle.AddReference(app, req)
		return err
	})
}

func (s *applicationService) ExtendOffer(ctx context.Context, actor *models.User, id uuid.UUID, req models.OfferRequest) (*models.Application, error) {
	return s.mutate(ctx, id, requireRecruiter(actor), func(app *models.Application) error {
		return s.lifecycle.ExtendOffer(app, req, actor.ID)
	})
}

func (s *applicationService) RespondOffer(ctx context.Context, actor *models.User, id uuid.UUID, req models.OfferResponseRequest) (*models.Application, error) {
	return s.mutate(ctx, id, requireApplicant(actor), func(app *models.Application) error {
		return s.lifecycle.RespondOffer(app, req.Response, req.Notes)
	})
}

func (s *applicationService) Withdraw(ctx context.Context, actor *models.User, id uuid.UUID, req models.WithdrawRequest) (*models.Application, error) {
	return s.mutate(ctx, id, requireApplicant(actor), func(app *models.Application) error {
		return s.lifecycle.Withdraw(app, req.Reason, req.Feedback)
	})
}

func (s *applicationService) UpdateScore(ctx context.Context, actor *models.User, id uuid.UUID, breakdown models.ScoreBreakdown) (*models.Application, error) {
	for _, v := range []float64{breakdown.Skills, breakdown.Experience, breakdown.Education, breakdown.Location} {
		if v < 0 || v > 100 || math.IsNaN(v) {
			return nil, apperror.Validation("score components must be between 0 and 100")
		}
	}

	return s.mutate(ctx, id, requireRecruiter(actor), func(app *models.Application) error {
		job, err := s.jobRepo.FindByID(ctx, app.JobID)
		if err != nil {
			return err
		}
		s.lifecycle.UpdateMatchScore(app, breakdown, job.MatchingCriteria)
		return nil
	})
}

// RecalculateScore recomputes the breakdown from the job and the applicant's
// current profile.
func (s *applicationService) RecalculateScore(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Application, error) {
	return s.mutate(ctx, id, requireRecruiter(actor), func(app *models.Application) error {
		job, err := s.jobRepo.FindByID(ctx, app.JobID)
		if err != nil {
			return err
		}
		applicant, err := s.userRepo.FindByID(ctx, app.ApplicantID)
		if err != nil {
			return err
		}
		score := ComputeMatchScore(job, &applicant.Profile)
		s.lifecycle.UpdateMatchScore(app, score.Breakdown, job.MatchingCriteria)
		return nil
	})
}

// mutate loads an application, checks the actor may touch it, applies change
// and persists the result. Nothing is written when authorize or change fail.
func (s *applicationService) mutate(
	ctx context.Context,
	id uuid.UUID,
	authorize func(*models.Application) error,
	change func(*models.Application) error,
) (*models.Application, error) {
	app, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(app); err != nil {
		return nil, err
	}
	if err := change(app); err != nil {
		return nil, err
	}
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func isApplicant(actor *models.User, app *models.Application) bool {
	return actor != nil && actor.ID == app.ApplicantID
}

func isOwningRecruiter(actor *models.User, app *models.Application) bool {
	if actor == nil {
		return false
	}
	return actor.Role == models.RoleAdmin || actor.ID == app.RecruiterID
}

func requireRecruiter(actor *models.User) func(*models.Application) error {
	return func(app *models.Application) error {
		if !isOwningRecruiter(actor, app) {
			return apperror.Forbidden("not authorized to manage this application")
		}
		return nil
	}
}

func requireApplicant(actor *models.User) func(*models.Application) error {
	return func(app *models.Application) error {
		if !isApplicant(actor, app) {
			return apperror.Forbidden("only the applicant can perform this action")
		}
		return nil
	}
}

func requireParticipant(actor *models.User) func(*models.Application) error {
	return func(app *models.Application) error {
		if !isApplicant(actor, app) && !isOwningRecruiter(actor, app) {
			return apperror.Forbidden("not authorized to update this application")
		}
		return nil
	}
}

func applicationList(apps []models.Application, total int64, filter repositories.ApplicationFilter) *models.ApplicationList {
	if apps == nil {
		apps = []models.Application{}
	}
	return &models.ApplicationList{
		Applications: apps,
		Total:        total,
		CurrentPage:  filter.Page,
		TotalPages:   int(math.Ceil(float64(total) / float64(filter.Limit))),
	}
}
