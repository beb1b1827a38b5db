package survey

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AudienceCustomer = "customer"
	AudienceEmployee = "employee"
)

const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusPaused = "paused"
	StatusClosed = "closed"
)

// DefaultReviewThreshold applies when a practice has not set its own.
const DefaultReviewThreshold = 9

type Survey struct {
	ID         uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	PracticeID uuid.UUID                    `gorm:"type:uuid;not null;index" json:"practice_id"`
	Title      string                       `gorm:"column:title;not null" json:"title"`
	Audience   string                       `gorm:"column:audience;not null" json:"audience"`
	Status     string                       `gorm:"column:status;not null;index" json:"status"`
	Questions  datatypes.JSONSlice[Question] `gorm:"column:questions" json:"questions"`
	CreatedAt  time.Time                    `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time                    `gorm:"not null" json:"updated_at"`
}

func (Survey) TableName() string { return "surveys" }

func (s *Survey) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Accepting reports whether the survey takes new submissions.
func (s *Survey) Accepting() bool { return s != nil && s.Status == StatusActive }

type Practice struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                 string    `gorm:"column:name;not null" json:"name"`
	PlanID               string    `gorm:"column:plan_id;not null;index" json:"plan_id"`
	ReviewDestination    string    `gorm:"column:review_destination" json:"review_destination,omitempty"`
	ReviewThreshold      int       `gorm:"column:review_threshold;not null" json:"review_threshold"`
	ReviewRoutingEnabled bool      `gorm:"column:review_routing_enabled;not null" json:"review_routing_enabled"`
	AlertEmail           string    `gorm:"column:alert_email" json:"alert_email,omitempty"`
	QuotaWarningEmail    string    `gorm:"column:quota_warning_email" json:"quota_warning_email,omitempty"`
	CreatedAt            time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null" json:"updated_at"`
}

func (Practice) TableName() string { return "practices" }

func (p *Practice) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Threshold returns the routing threshold, falling back to the default when unset.
func (p *Practice) Threshold() int {
	if p == nil || p.ReviewThreshold <= 0 || p.ReviewThreshold > 10 {
		return DefaultReviewThreshold
	}
	return p.ReviewThreshold
}

// WarningRecipient is where quota warnings go; it defaults to the alert address.
func (p *Practice) WarningRecipient() string {
	if p == nil {
		return ""
	}
	if p.QuotaWarningEmail != "" {
		return p.QuotaWarningEmail
	}
	return p.AlertEmail
}

// IntakeConfig is everything the intake pipeline needs to know about a survey.
type IntakeConfig struct {
	Survey   Survey
	Practice Practice
}
