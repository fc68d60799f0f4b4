package models

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	Role        Role   `json:"role"`
	CompanyName string `json:"company_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type UpdateProfileRequest struct {
	FirstName        *string           `json:"first_name"`
	LastName         *string           `json:"last_name"`
	Phone            *string           `json:"phone"`
	Bio              *string           `json:"bio"`
	Profile          *CandidateProfile `json:"profile"`
	RecruiterProfile *RecruiterProfile `json:"recruiter_profile"`
}

type JobRequest struct {
	Title               string              `json:"title"`
	Company             string              `json:"company"`
	Description         string              `json:"description"`
	ShortDescription    string              `json:"short_description"`
	Category            string              `json:"category"`
	JobType             string              `json:"job_type"`
	ExperienceLevel     string              `json:"experience_level"`
	Location            Location            `json:"location"`
	Salary              Salary              `json:"salary"`
	RequiredSkills      []RequiredSkill     `json:"required_skills"`
	PreferredSkills     []PreferredSkill    `json:"preferred_skills"`
	Requirements        JobRequirements     `json:"requirements"`
	Benefits            []string            `json:"benefits"`
	ScreeningQuestions  []ScreeningQuestion `json:"screening_questions"`
	MatchingCriteria    *MatchingCriteria   `json:"matching_criteria"`
	ApplicationDeadline *time.Time          `json:"application_deadline"`
	Status              JobStatus           `json:"status"`
	Visibility          Visibility          `json:"visibility"`
	Tags                []string            `json:"tags"`
	InternalNotes       string              `json:"internal_notes"`
}

type JobStatusRequest struct {
	Status JobStatus `json:"status"`
}

// JobSearchQuery carries the public job search filters.
type JobSearchQuery struct {
	Keywords        string   `query:"keywords"`
	Location        string   `query:"location"`
	Category        string   `query:"category"`
	JobTypes        []string `query:"job_type"`
	ExperienceLevel []string `query:"experience_level"`
	SalaryMin       float64  `query:"salary_min"`
	SalaryMax       float64  `query:"salary_max"`
	RemoteOnly      bool     `query:"remote_only"`
	Skills          []string `query:"skills"`
	Page            int      `query:"page"`
	Limit           int      `query:"limit"`
	SortBy          string   `query:"sort_by"`
	SortOrder       string   `query:"sort_order"`
}

type JobSearchResult struct {
	Jobs        []Job `json:"jobs"`
	TotalJobs   int64 `json:"total_jobs"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
}

type JobStats struct {
	TotalJobs      int64           `json:"total_jobs"`
	TotalCompanies int64           `json:"total_companies"`
	ByCategory     []CategoryCount `json:"by_category"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type JobRecommendation struct {
	Job        Job     `json:"job"`
	MatchScore int     `json:"match_score"`
	Similarity float32 `json:"similarity,omitempty"`
}

type ApplyRequest struct {
	ResumeURL           string               `json:"resume_url"`
	CoverLetter         string               `json:"cover_letter"`
	ScreeningResponses  []ScreeningResponse  `json:"screening_responses"`
	AdditionalDocuments []AdditionalDocument `json:"additional_documents"`
	Consent             bool                 `json:"consent"`
	Source              string               `json:"source"`
	SourceDetails       string               `json:"source_details"`
}

type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status"`
	Notes  string            `json:"notes"`
}

type ScheduleInterviewRequest struct {
	Type          InterviewType `json:"type"`
	ScheduledDate time.Time     `json:"scheduled_date"`
	Duration      int           `json:"duration_minutes"`
	Interviewer   *uuid.UUID    `json:"interviewer"`
	Interviewers  []uuid.UUID   `json:"interviewers"`
	MeetingLink   string        `json:"meeting_link"`
	Location      string        `json:"location"`
	Notes         string        `json:"notes"`
}

type CommunicationRequest struct {
	Type      CommunicationType `json:"type"`
	To        []uuid.UUID       `json:"to"`
	Subject   string            `json:"subject"`
	Message   string            `json:"message"`
	Important bool              `json:"important"`
}

type ReferenceRequest struct {
	Name         string `json:"name"`
	Position     string `json:"position"`
	Company      string `json:"company"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type OfferRequest struct {
	SalaryAmount float64    `json:"salary_amount"`
	Currency     string     `json:"currency"`
	Period       string     `json:"period"`
	Benefits     []string   `json:"benefits"`
	StartDate    *time.Time `json:"start_date"`
	Negotiable   *bool      `json:"negotiable"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Notes        string     `json:"notes"`
}

type OfferResponseRequest struct {
	Response OfferResponse `json:"response"`
	Notes    string        `json:"notes"`
}

type WithdrawRequest struct {
	Reason   WithdrawalReason `json:"reason"`
	Feedback string           `json:"feedback"`
}

type UserStatusRequest struct {
	IsActive bool `json:"is_active"`
}

type RecentApplication struct {
	ID            uuid.UUID         `json:"id"`
	CandidateName string            `json:"candidate_name"`
	JobTitle      string            `json:"job_title"`
	AppliedAt     time.Time         `json:"applied_at"`
	Status        ApplicationStatus `json:"status"`
}

type Dashboard struct {
	Role         Role             `json:"role"`
	Applications []PipelineCount  `json:"applications,omitempty"`
	Jobs         []JobStatusCount `json:"jobs,omitempty"`
	TotalJobs    int64            `json:"total_jobs,omitempty"`
}

type JobStatusCount struct {
	Status JobStatus `json:"status"`
	Count  int64     `json:"count"`
}

type UploadResponse struct {
	ID           string           `json:"id"`
	Filename     string           `json:"filename"`
	OriginalName string           `json:"original_name"`
	Profile      CandidateProfile `json:"profile"`
}

type PipelineSummary struct {
	TotalApplications int64           `json:"total_applications"`
	StatusBreakdown   []PipelineCount `json:"status_breakdown"`
}

type ApplicationList struct {
	Applications []Application `json:"applications"`
	Total        int64         `json:"total"`
	CurrentPage  int           `json:"current_page"`
	TotalPages   int           `json:"total_pages"`
}

type UserList struct {
	Users       []User `json:"users"`
	Total       int64  `json:"total"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
}
