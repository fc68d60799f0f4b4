package services

import (
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
)

// Lifecycle applies state changes to an in-memory application. It never
// touches storage; callers persist the result.
type Lifecycle struct {
	now          func() time.Time
	newID        func() uuid.UUID
	lockTerminal bool
}

func NewLifecycle(lockTerminal bool) *Lifecycle {
	return &Lifecycle{
		now:          time.Now,
		newID:        uuid.New,
		lockTerminal: lockTerminal,
	}
}

// Open puts a freshly built application into the applied state with its
// single automated history entry.
func (l *Lifecycle) Open(app *models.Application) {
	app.Status = models.StatusApplied
	app.StatusHistory = []models.StatusHistoryEntry{{
		Status:    models.StatusApplied,
		Timestamp: l.now(),
		Automated: true,
	}}
	if app.Interviews == nil {
		app.Interviews = []models.Interview{}
	}
	if app.Communications == nil {
		app.Communications = []models.Communication{}
	}
	if app.References == nil {
		app.References = []models.Reference{}
	}
}

// Transition moves the application to status and appends exactly one
// history entry. A nil changedBy is attributed to the owning recruiter.
func (l *Lifecycle) Transition(app *models.Application, status models.ApplicationStatus, changedBy *uuid.UUID, notes string, automated bool) error {
	if !status.Valid() {
		return apperror.Validation("invalid application status: " + string(status))
	}
	if l.lockTerminal && app.Status.Terminal() && status != app.Status {
		return apperror.Validation("application is already " + string(app.Status))
	}

	if changedBy == nil {
		recruiter := app.RecruiterID
		changedBy = &recruiter
	}

	app.Status = status
	app.StatusHistory = append(app.StatusHistory, models.StatusHistoryEntry{
		Status:    status,
		Timestamp: l.now(),
		ChangedBy: changedBy,
		Notes:     notes,
		Automated: automated,
	})
	return nil
}

// ScheduleInterview appends a scheduled interview and moves the application
// to interview_scheduled unless it is already in the interview phase.
func (l *Lifecycle) ScheduleInterview(app *models.Application, req models.ScheduleInterviewRequest, actor uuid.UUID) (*models.Interview, error) {
	if !req.Type.Valid() {
		return nil, apperror.Validation("invalid interview type: " + string(req.Type))
	}
	if req.ScheduledDate.IsZero() {
		return nil, apperror.Validation("scheduled_date is required")
	}

	interview := models.Interview{
		ID:            l.newID(),
		Type:          req.Type,
		ScheduledDate: req.ScheduledDate,
		Duration:      req.Duration,
		Interviewer:   req.Interviewer,
		Interviewers:  req.Interviewers,
		MeetingLink:   req.MeetingLink,
		Location:      req.Location,
		Notes:         req.Notes,
		Status:        models.InterviewScheduled,
	}
	app.Interviews = append(app.Interviews, interview)

	if app.Status != models.StatusInterviewScheduled && app.Status != models.StatusInterviewCompleted {
		if err := l.Transition(app, models.StatusInterviewScheduled, &actor, "", false); err != nil {
			app.Interviews = app.Interviews[:len(app.Interviews)-1]
			return nil, err
		}
	}

	return &app.Interviews[len(app.Interviews)-1], nil
}

// RecordInterviewFeedback attaches feedback to an interview and marks it
// completed. The application status is left alone.
func (l *Lifecycle) RecordInterviewFeedback(app *models.Application, interviewID uuid.UUID, feedback models.InterviewFeedback) (*models.Interview, error) {
	if feedback.Rating < 1 || feedback.Rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}
	if feedback.Recommendation != "" && !feedback.Recommendation.Valid() {
		return nil, apperror.Validation("invalid recommendation: " + string(feedback.Recommendation))
	}

	for i := range app.Interviews {
		if app.Interviews[i].ID != interviewID {
			continue
		}
		now := l.now()
		fb := feedback
		app.Interviews[i].Feedback = &fb
		app.Interviews[i].Status = models.InterviewCompleted
		app.Interviews[i].CompletedAt = &now
		return &app.Interviews[i], nil
	}

	return nil, apperror.NotFound("interview not found")
}

// Withdraw records the applicant's reason and moves the application to
// withdrawn. Applications that already left the pipeline cannot be withdrawn.
func (l *Lifecycle) Withdraw(app *models.Application, reason models.WithdrawalReason, feedback string) error {
	if !reason.Valid() {
		return apperror.Validation("invalid withdrawal reason: " + string(reason))
	}
	if app.Status.Terminal() {
		return apperror.Validation("application is already " + string(app.Status))
	}

	applicant := app.ApplicantID
	if err := l.Transition(app, models.StatusWithdrawn, &applicant, feedback, false); err != nil {
		return err
	}
	app.Withdrawal = &models.Withdrawal{
		Reason:      reason,
		Feedback:    feedback,
		WithdrawnAt: l.now(),
	}
	return nil
}

// UpdateMatchScore replaces the breakdown, recomputes Overall as its rounded
// mean and stamps the recalculation time. weights feed the Weighted field.
func (l *Lifecycle) UpdateMatchScore(app *models.Application, breakdown models.ScoreBreakdown, weights models.MatchingCriteria) {
	now := l.now()
	app.MatchScore = models.MatchScore{
		Overall:        OverallFromBreakdown(breakdown),
		Weighted:       WeightedScore(breakdown, weights),
		Breakdown:      breakdown,
		LastCalculated: &now,
	}
}

func (l *Lifecycle) AddCommunication(app *models.Application, from uuid.UUID, req models.CommunicationRequest) (*models.Communication, error) {
	if !req.Type.Valid() {
		return nil, apperror.Validation("invalid communication type: " + string(req.Type))
	}
	if req.Message == "" {
		return nil, apperror.Validation("message is required")
	}

	app.Communications = append(app.Communications, models.Communication{
		ID:        l.newID(),
		Type:      req.Type,
		From:      from,
		To:        req.To,
		Subject:   req.Subject,
		Message:   req.Message,
		Timestamp: l.now(),
		Important: req.Important,
	})
	return &app.Communications[len(app.Communications)-1], nil
}

func (l *Lifecycle) AddReference(app *models.Application, req models.ReferenceRequest) (*models.Reference, error) {
	if req.Name == "" {
		return nil, apperror.Validation("reference name is required")
	}

	app.References = append(app.References, models.Reference{
		ID:           l.newID(),
		Name:         req.Name,
		Position:     req.Position,
		Company:      req.Company,
		Email:        req.Email,
		Phone:        req.Phone,
		Relationship: req.Relationship,
	})
	return &app.References[len(app.References)-1], nil
}

// ExtendOffer attaches a pending offer and moves the application to
// offer_extended.
func (l *Lifecycle) ExtendOffer(app *models.Application, req models.OfferRequest, actor uuid.UUID) error {
	if req.SalaryAmount <= 0 {
		return apperror.Validation("salary_amount must be positive")
	}
	if app.Status.Terminal() {
		return apperror.Validation("application is already " + string(app.Status))
	}

	negotiable := true
	if req.Negotiable != nil {
		negotiable = *req.Negotiable
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	period := req.Period
	if period == "" {
		period = "yearly"
	}

	if err := l.Transition(app, models.StatusOfferExtended, &actor, req.Notes, false); err != nil {
		return err
	}

	now := l.now()
	app.Offer = &models.Offer{
		Extended:     true,
		ExtendedDate: &now,
		SalaryAmount: req.SalaryAmount,
		Currency:     currency,
		Period:       period,
		Benefits:     req.Benefits,
		StartDate:    req.StartDate,
		Negotiable:   negotiable,
		ExpiryDate:   req.ExpiryDate,
		Response:     models.OfferPending,
	}
	return nil
}

// RespondOffer records the applicant's answer. Accepting moves the
// application to hired.
func (l *Lifecycle) RespondOffer(app *models.Application, response models.OfferResponse, notes string) error {
	if app.Offer == nil || !app.Offer.Extended {
		return apperror.Validation("no offer has been extended")
	}
	if app.Offer.Response == models.OfferAccepted || app.Offer.Response == models.OfferDeclined {
		return apperror.Conflict("offer has already been answered")
	}

	now := l.now()
	if app.Offer.ExpiryDate != nil && app.Offer.ExpiryDate.Before(now) {
		return apperror.Validation("offer has expired")
	}

	switch response {
	case models.OfferAccepted:
		applicant := app.ApplicantID
		if err := l.Transition(app, models.StatusHired, &applicant, notes, false); err != nil {
			return err
		}
	case models.OfferDeclined, models.OfferNegotiating:
	default:
		return apperror.Validation("invalid offer response: " + string(response))
	}

	app.Offer.Response = response
	app.Offer.ResponseDate = &now
	app.Offer.ResponseNotes = notes
	return nil
}

// DaysInCurrentStatus counts whole days since the latest history entry for
// the current status.
func (l *Lifecycle) DaysInCurrentStatus(app *models.Application) int {
	var latest time.Time
	for _, entry := range app.StatusHistory {
		if entry.Status == app.Status && entry.Timestamp.After(latest) {
			latest = entry.Timestamp
		}
	}
	if latest.IsZero() {
		return 0
	}
	return int(l.now().Sub(latest).Hours() / 24)
}

// NextInterview returns the earliest scheduled interview still in the future.
func (l *Lifecycle) NextInterview(app *models.Application) *models.Interview {
	now := l.now()
	var next *models.Interview
	for i := range app.Interviews {
		iv := &app.Interviews[i]
		if iv.Status != models.InterviewScheduled || !iv.ScheduledDate.After(now) {
			continue
		}
		if next == nil || iv.ScheduledDate.Before(next.ScheduledDate) {
			next = iv
		}
	}
	return next
}
