package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusDraft   JobStatus = "draft"
	JobStatusActive  JobStatus = "active"
	JobStatusPaused  JobStatus = "paused"
	JobStatusClosed  JobStatus = "closed"
	JobStatusExpired JobStatus = "expired"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusDraft, JobStatusActive, JobStatusPaused, JobStatusClosed, JobStatusExpired:
		return true
	}
	return false
}

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityInternal Visibility = "internal"
)

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

type Job struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title            string    `gorm:"type:text;not null" json:"title"`
	Company          string    `gorm:"type:text;not null" json:"company"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	ShortDescription string    `gorm:"type:text" json:"short_description,omitempty"`
	Category         string    `gorm:"type:text;index" json:"category,omitempty"`
	JobType          string    `gorm:"type:text;index" json:"job_type,omitempty"`
	ExperienceLevel  string    `gorm:"type:text;not null" json:"experience_level"`

	Location Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Salary   Salary   `gorm:"type:jsonb;serializer:json" json:"salary"`

	RequiredSkills     []RequiredSkill     `gorm:"type:jsonb;serializer:json" json:"required_skills"`
	PreferredSkills    []PreferredSkill    `gorm:"type:jsonb;serializer:json" json:"preferred_skills,omitempty"`
	Requirements       JobRequirements     `gorm:"type:jsonb;serializer:json" json:"requirements"`
	Benefits           []string            `gorm:"type:jsonb;serializer:json" json:"benefits,omitempty"`
	ScreeningQuestions []ScreeningQuestion `gorm:"type:jsonb;serializer:json" json:"screening_questions,omitempty"`
	MatchingCriteria   MatchingCriteria    `gorm:"embedded;embeddedPrefix:weight_" json:"matching_criteria"`

	PostedBy            uuid.UUID  `gorm:"type:uuid;not null;index" json:"posted_by"`
	ApplicationDeadline *time.Time `gorm:"index" json:"application_deadline,omitempty"`
	Status              JobStatus  `gorm:"type:text;not null;default:'draft';index" json:"status"`
	Visibility          Visibility `gorm:"type:text;not null;default:'public'" json:"visibility"`
	ApplicationsCount   int        `gorm:"not null;default:0" json:"applications_count"`
	ViewsCount          int        `gorm:"not null;default:0" json:"views_count"`
	Tags                []string   `gorm:"type:jsonb;serializer:json" json:"tags,omitempty"`
	Slug                string     `gorm:"type:text;uniqueIndex" json:"slug"`
	InternalNotes       string     `gorm:"type:text" json:"internal_notes,omitempty"`
	IsFeatured          bool       `gorm:"not null;default:false" json:"is_featured"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// DeadlinePassed reports whether the application deadline lies before now.
func (j *Job) DeadlinePassed(now time.Time) bool {
	return j.ApplicationDeadline != nil && j.ApplicationDeadline.Before(now)
}

// AcceptingApplications reports whether job seekers may apply right now.
func (j *Job) AcceptingApplications(now time.Time) bool {
	return j.Status == JobStatusActive && !j.DeadlinePassed(now)
}

type Salary struct {
	Min        float64 `json:"min,omitempty"`
	Max        float64 `json:"max,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	Period     string  `json:"period,omitempty"`
	Negotiable bool    `json:"negotiable"`
}

type RequiredSkill struct {
	Skill     string     `json:"skill"`
	Level     SkillLevel `json:"level"`
	Mandatory bool       `json:"mandatory"`
}

type PreferredSkill struct {
	Skill string     `json:"skill"`
	Level SkillLevel `json:"level"`
}

type JobRequirements struct {
	Education      EducationRequirement  `json:"education"`
	Experience     ExperienceRequirement `json:"experience"`
	Certifications []string              `json:"certifications,omitempty"`
	Languages      []LanguageRequirement `json:"languages,omitempty"`
}

type EducationRequirement struct {
	Level    string `json:"level"`
	Field    string `json:"field,omitempty"`
	Required bool   `json:"required"`
}

type ExperienceRequirement struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max,omitempty"`
	Unit string  `json:"unit"`
}

// MinYears returns the minimum experience expressed in years.
func (e ExperienceRequirement) MinYears() float64 {
	if e.Unit == "months" {
		return e.Min / 12
	}
	return e.Min
}

type LanguageRequirement struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`
}

type ScreeningQuestion struct {
	ID       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Type     string    `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// MatchingCriteria weights each score component on a 0-100 scale. The
// weights are independent and need not sum to 100.
type MatchingCriteria struct {
	SkillsWeight     float64 `gorm:"column:skills" json:"skills_weight"`
	ExperienceWeight float64 `gorm:"column:experience" json:"experience_weight"`
	EducationWeight  float64 `gorm:"column:education" json:"education_weight"`
	LocationWeight   float64 `gorm:"column:location" json:"location_weight"`
}

func DefaultMatchingCriteria() MatchingCriteria {
	return MatchingCriteria{
		SkillsWeight:     40,
		ExperienceWeight: 30,
		EducationWeight:  20,
		LocationWeight:   10,
	}
}
