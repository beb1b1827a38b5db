package feedback

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category is the sentiment bucket of a 0..10 score.
type Category string

const (
	CategoryPromoter  Category = "promoter"
	CategoryPassive   Category = "passive"
	CategoryDetractor Category = "detractor"
)

// RoutedTo is where a respondent was steered after submitting.
type RoutedTo string

const (
	RoutedPublicReview RoutedTo = "public-review"
	RoutedInternal     RoutedTo = "internal"
	RoutedNone         RoutedTo = "none"
)

const (
	ChannelQR   = "qr"
	ChannelLink = "link"
)

const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
)

const AlertTypeDetractor = "detractor"

// Response is one accepted submission. Only the review-click fields change after insert.
type Response struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SurveyID          uuid.UUID      `gorm:"type:uuid;not null" json:"survey_id"`
	PracticeID        uuid.UUID      `gorm:"type:uuid;not null" json:"practice_id"`
	Score             int            `gorm:"column:score;not null" json:"score"`
	Category          Category       `gorm:"column:category;not null" json:"category"`
	Answers           datatypes.JSON `gorm:"column:answers" json:"answers"`
	FreeText          *string        `gorm:"column:free_text" json:"free_text,omitempty"`
	Channel           string         `gorm:"column:channel;not null" json:"channel"`
	DeviceType        *string        `gorm:"column:device_type" json:"device_type,omitempty"`
	SessionHash       *string        `gorm:"column:session_hash" json:"session_hash,omitempty"`
	RoutedTo          RoutedTo       `gorm:"column:routed_to;not null" json:"routed_to"`
	ReviewPromptShown bool           `gorm:"column:review_prompt_shown;not null" json:"review_prompt_shown"`
	ReviewClicked     bool           `gorm:"column:review_clicked;not null" json:"review_clicked"`
	ReviewClickedAt   *time.Time     `gorm:"column:review_clicked_at" json:"review_clicked_at,omitempty"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
}

func (Response) TableName() string { return "responses" }

func (r *Response) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Alert struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PracticeID uuid.UUID `gorm:"type:uuid;not null;index" json:"practice_id"`
	ResponseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"response_id"`
	Type       string    `gorm:"column:type;not null" json:"type"`
	IsRead     bool      `gorm:"column:is_read;not null" json:"is_read"`
	Note       *string   `gorm:"column:note" json:"note,omitempty"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (Alert) TableName() string { return "alerts" }

func (a *Alert) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// PracticeUsage counts accepted responses per practice per calendar month (UTC).
type PracticeUsage struct {
	PracticeID uuid.UUID `gorm:"type:uuid;primaryKey" json:"practice_id"`
	Period     string    `gorm:"column:period;primaryKey" json:"period"`
	Count      int       `gorm:"column:response_count;not null" json:"count"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (PracticeUsage) TableName() string { return "practice_usage" }

// PeriodLayout formats PracticeUsage.Period.
const PeriodLayout = "2006-01"

// MonthStart returns the first instant of t's calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Period returns the usage period key for t.
func Period(t time.Time) string {
	return t.UTC().Format(PeriodLayout)
}
