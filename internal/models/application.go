package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusApplied            ApplicationStatus = "applied"
	StatusUnderReview        ApplicationStatus = "under_review"
	StatusScreening          ApplicationStatus = "screening"
	StatusShortlisted        ApplicationStatus = "shortlisted"
	StatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	StatusInterviewCompleted ApplicationStatus = "interview_completed"
	StatusReferenceCheck     ApplicationStatus = "reference_check"
	StatusOfferExtended      ApplicationStatus = "offer_extended"
	StatusHired              ApplicationStatus = "hired"
	StatusRejected           ApplicationStatus = "rejected"
	StatusWithdrawn          ApplicationStatus = "withdrawn"
	StatusOnHold             ApplicationStatus = "on_hold"
)

// ApplicationStatuses lists every status in pipeline order.
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied,
	StatusUnderReview,
	StatusScreening,
	StatusShortlisted,
	StatusInterviewScheduled,
	StatusInterviewCompleted,
	StatusReferenceCheck,
	StatusOfferExtended,
	StatusHired,
	StatusRejected,
	StatusWithdrawn,
	StatusOnHold,
}

func (s ApplicationStatus) Valid() bool {
	for _, status := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends the pipeline.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusHired || s == StatusRejected || s == StatusWithdrawn
}

type Application struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicantID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_applicant_job;index:idx_applications_applicant_status" json:"applicant_id"`
	JobID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_applicant_job;index:idx_applications_job_status" json:"job_id"`
	RecruiterID uuid.UUID         `gorm:"type:uuid;not null;index:idx_applications_recruiter_status" json:"recruiter_id"`
	Status      ApplicationStatus `gorm:"type:text;not null;default:'applied';index:idx_applications_applicant_status;index:idx_applications_job_status;index:idx_applications_recruiter_status" json:"status"`

	StatusHistory []StatusHistoryEntry `gorm:"type:jsonb;serializer:json" json:"status_history"`

	ResumeURL           string               `gorm:"type:text;not null" json:"resume_url"`
	CoverLetter         string               `gorm:"type:text" json:"cover_letter,omitempty"`
	AdditionalDocuments []AdditionalDocument `gorm:"type:jsonb;serializer:json" json:"additional_documents,omitempty"`
	ScreeningResponses  []ScreeningResponse  `gorm:"type:jsonb;serializer:json" json:"screening_responses,omitempty"`

	MatchScore MatchScore `gorm:"embedded;embeddedPrefix:match_" json:"match_score"`

	Interviews     []Interview     `gorm:"type:jsonb;serializer:json" json:"interviews"`
	Communications []Communication `gorm:"type:jsonb;serializer:json" json:"communications"`
	References     []Reference     `gorm:"type:jsonb;serializer:json" json:"references"`
	Offer          *Offer          `gorm:"type:jsonb;serializer:json" json:"offer,omitempty"`
	Withdrawal     *Withdrawal     `gorm:"type:jsonb;serializer:json" json:"withdrawal,omitempty"`
	Flags          []Flag          `gorm:"type:jsonb;serializer:json" json:"flags,omitempty"`
	Tags           []string        `gorm:"type:jsonb;serializer:json" json:"tags,omitempty"`

	Source        string `gorm:"type:text;not null;default:'direct'" json:"source"`
	SourceDetails string `gorm:"type:text" json:"source_details,omitempty"`

	// Version is compared and bumped on every repository write.
	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}

type StatusHistoryEntry struct {
	Status    ApplicationStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	ChangedBy *uuid.UUID        `json:"changed_by,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Automated bool              `json:"automated"`
}

// ScoreBreakdown holds the four component scores, each on a 0-100 scale.
type ScoreBreakdown struct {
	Skills     float64 `gorm:"column:skills" json:"skills"`
	Experience float64 `gorm:"column:experience" json:"experience"`
	Education  float64 `gorm:"column:education" json:"education"`
	Location   float64 `gorm:"column:location" json:"location"`
}

// MatchScore is the score snapshot attached to an application.
// Overall is the rounded unweighted mean of Breakdown; Weighted applies the
// job's matching criteria.
type MatchScore struct {
	Overall        int            `gorm:"column:overall;not null;default:0;index" json:"overall"`
	Weighted       int            `gorm:"column:weighted;not null;default:0" json:"weighted"`
	Breakdown      ScoreBreakdown `gorm:"embedded;embeddedPrefix:breakdown_" json:"breakdown"`
	LastCalculated *time.Time     `gorm:"column:last_calculated" json:"last_calculated,omitempty"`
}

type InterviewType string

const (
	InterviewPhone     InterviewType = "phone"
	InterviewVideo     InterviewType = "video"
	InterviewInPerson  InterviewType = "in-person"
	InterviewTechnical InterviewType = "technical"
	InterviewPanel     InterviewType = "panel"
	InterviewFinal     InterviewType = "final"
)

func (t InterviewType) Valid() bool {
	switch t {
	case InterviewPhone, InterviewVideo, InterviewInPerson, InterviewTechnical, InterviewPanel, InterviewFinal:
		return true
	}
	return false
}

type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
	InterviewCancelled InterviewStatus = "cancelled"
	InterviewNoShow    InterviewStatus = "no_show"
)

type Interview struct {
	ID            uuid.UUID          `json:"id"`
	Type          InterviewType      `json:"type"`
	ScheduledDate time.Time          `json:"scheduled_date"`
	Duration      int                `json:"duration_minutes,omitempty"`
	Interviewer   *uuid.UUID         `json:"interviewer,omitempty"`
	Interviewers  []uuid.UUID        `json:"interviewers,omitempty"`
	MeetingLink   string             `json:"meeting_link,omitempty"`
	Location      string             `json:"location,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Feedback      *InterviewFeedback `json:"feedback,omitempty"`
	Status        InterviewStatus    `json:"status"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
}

type Recommendation string

const (
	StronglyRecommend    Recommendation = "strongly_recommend"
	Recommend            Recommendation = "recommend"
	Maybe                Recommendation = "maybe"
	NotRecommend         Recommendation = "not_recommend"
	StronglyNotRecommend Recommendation = "strongly_not_recommend"
)

func (r Recommendation) Valid() bool {
	switch r {
	case StronglyRecommend, Recommend, Maybe, NotRecommend, StronglyNotRecommend:
		return true
	}
	return false
}

type InterviewFeedback struct {
	Rating           int            `json:"rating"`
	Strengths        []string       `json:"strengths,omitempty"`
	Weaknesses       []string       `json:"weaknesses,omitempty"`
	Recommendation   Recommendation `json:"recommendation,omitempty"`
	DetailedFeedback string         `json:"detailed_feedback,omitempty"`
}

type CommunicationType string

const (
	CommunicationEmail   CommunicationType = "email"
	CommunicationCall    CommunicationType = "call"
	CommunicationMessage CommunicationType = "message"
	CommunicationNote    CommunicationType = "note"
)

func (t CommunicationType) Valid() bool {
	switch t {
	case CommunicationEmail, CommunicationCall, CommunicationMessage, CommunicationNote:
		return true
	}
	return false
}

type Communication struct {
	ID        uuid.UUID         `json:"id"`
	Type      CommunicationType `json:"type"`
	From      uuid.UUID         `json:"from"`
	To        []uuid.UUID       `json:"to,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Read      bool              `json:"read"`
	Important bool              `json:"important"`
}

type Reference struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Position      string     `json:"position,omitempty"`
	Company       string     `json:"company,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Relationship  string     `json:"relationship,omitempty"`
	Contacted     bool       `json:"contacted"`
	ContactedDate *time.Time `json:"contacted_date,omitempty"`
	Feedback      string     `json:"feedback,omitempty"`
	Rating        int        `json:"rating,omitempty"`
}

type OfferResponse string

const (
	OfferPending     OfferResponse = "pending"
	OfferAccepted    OfferResponse = "accepted"
	OfferDeclined    OfferResponse = "declined"
	OfferNegotiating OfferResponse = "negotiating"
)

type Offer struct {
	Extended      bool          `json:"extended"`
	ExtendedDate  *time.Time    `json:"extended_date,omitempty"`
	SalaryAmount  float64       `json:"salary_amount"`
	Currency      string        `json:"currency"`
	Period        string        `json:"period"`
	Benefits      []string      `json:"benefits,omitempty"`
	StartDate     *time.Time    `json:"start_date,omitempty"`
	Negotiable    bool          `json:"negotiable"`
	ExpiryDate    *time.Time    `json:"expiry_date,omitempty"`
	Response      OfferResponse `json:"response"`
	ResponseDate  *time.Time    `json:"response_date,omitempty"`
	ResponseNotes string        `json:"response_notes,omitempty"`
}

type WithdrawalReason string

const (
	WithdrawAcceptedOtherOffer  WithdrawalReason = "accepted_other_offer"
	WithdrawSalaryExpectations  WithdrawalReason = "salary_expectations"
	WithdrawLocationIssues      WithdrawalReason = "location_issues"
	WithdrawCompanyCulture      WithdrawalReason = "company_culture"
	WithdrawJobResponsibilities WithdrawalReason = "job_responsibilities"
	WithdrawPersonalReasons     WithdrawalReason = "personal_reasons"
	WithdrawOther               WithdrawalReason = "other"
)

func (r WithdrawalReason) Valid() bool {
	switch r {
	case WithdrawAcceptedOtherOffer, WithdrawSalaryExpectations, WithdrawLocationIssues,
		WithdrawCompanyCulture, WithdrawJobResponsibilities, WithdrawPersonalReasons, WithdrawOther:
		return true
	}
	return false
}

type Withdrawal struct {
	Reason      WithdrawalReason `json:"reason"`
	Feedback    string           `json:"feedback,omitempty"`
	WithdrawnAt time.Time        `json:"withdrawn_at"`
}

type AdditionalDocument struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type ScreeningResponse struct {
	QuestionID uuid.UUID `json:"question_id"`
	Question   string    `json:"question,omitempty"`
	Response   string    `json:"response"`
	FileURL    string    `json:"file_url,omitempty"`
}

type Flag struct {
	Type      string    `json:"type"`
	AddedBy   uuid.UUID `json:"added_by"`
	AddedDate time.Time `json:"added_date"`
	Notes     string    `json:"notes,omitempty"`
}

// PipelineCount is one row of the per-status pipeline aggregate.
type PipelineCount struct {
	Status ApplicationStatus `json:"status"`
	Count  int64             `json:"count"`
}
