package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FirstName    string    `gorm:"type:text;not null" json:"first_name"`
	LastName     string    `gorm:"type:text;not null" json:"last_name"`
	Email        string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Phone        string    `gorm:"type:text" json:"phone,omitempty"`
	Bio          string    `gorm:"type:text" json:"bio,omitempty"`
	Role         Role      `gorm:"type:text;not null;default:'job_seeker';index" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`

	Profile          CandidateProfile `gorm:"type:jsonb;serializer:json" json:"profile"`
	RecruiterProfile RecruiterProfile `gorm:"type:jsonb;serializer:json" json:"recruiter_profile"`
	SavedJobs        []uuid.UUID      `gorm:"type:jsonb;serializer:json" json:"saved_jobs,omitempty"`

	VerificationToken   string     `gorm:"type:text;index" json:"-"`
	ResetPasswordToken  string     `gorm:"type:text;index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	LoginAttempts       int        `gorm:"not null;default:0" json:"-"`
	LockUntil           *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// CandidateProfile holds the parsed resume attributes of a job seeker.
type CandidateProfile struct {
	ResumeURL       string            `json:"resume_url,omitempty"`
	Skills          []string          `json:"skills"`
	Experience      []ExperienceEntry `json:"experience"`
	Education       []EducationEntry  `json:"education"`
	Certifications  []Certification   `json:"certifications,omitempty"`
	Summary         string            `json:"summary,omitempty"`
	TotalExperience float64           `json:"total_experience"`
	Location        Location          `json:"location"`
	Preferences     JobPreferences    `json:"preferences"`
	ParsedAt        *time.Time        `json:"parsed_at,omitempty"`
}

type ExperienceEntry struct {
	Company     string     `json:"company"`
	Title       string     `json:"title"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsCurrent   bool       `json:"is_current"`
	Description string     `json:"description,omitempty"`
}

type EducationEntry struct {
	Institution  string     `json:"institution"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Grade        string     `json:"grade,omitempty"`
}

type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`
}

type Location struct {
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country,omitempty"`
	IsRemote bool   `json:"is_remote,omitempty"`
}

type JobPreferences struct {
	JobTypes           []string `json:"job_types,omitempty"`
	PreferredLocations []string `json:"preferred_locations,omitempty"`
	RemoteWork         bool     `json:"remote_work"`
	SalaryMin          float64  `json:"salary_min,omitempty"`
	SalaryMax          float64  `json:"salary_max,omitempty"`
	NoticePeriodDays   int      `json:"notice_period_days,omitempty"`
}

type RecruiterProfile struct {
	CompanyName         string `json:"company_name,omitempty"`
	CompanyWebsite      string `json:"company_website,omitempty"`
	CompanySize         string `json:"company_size,omitempty"`
	Industry            string `json:"industry,omitempty"`
	Position            string `json:"position,omitempty"`
	IsVerifiedRecruiter bool   `json:"is_verified_recruiter"`
}
