package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
)

type PracticeOption func(*survey.Practice)

func WithPlan(planID string) PracticeOption {
	return func(p *survey.Practice) { p.PlanID = planID }
}

func WithDestination(dest string) PracticeOption {
	return func(p *survey.Practice) {
		p.ReviewDestination = dest
		p.ReviewRoutingEnabled = dest != ""
	}
}

func WithAlertEmail(email string) PracticeOption {
	return func(p *survey.Practice) { p.AlertEmail = email }
}

func SeedPractice(tb testing.TB, ctx context.Context, tx *gorm.DB, opts ...PracticeOption) *survey.Practice {
	tb.Helper()
	p := &survey.Practice{
		ID:                   uuid.New(),
		Name:                 "Bright Smiles Dental",
		PlanID:               "growth",
		ReviewRoutingEnabled: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed practice: %v", err)
	}
	return p
}

// StandardQuestions is a typical patient survey: score, two ratables, free text.
func StandardQuestions() []survey.Question {
	return []survey.Question{
		{ID: "nps", Type: survey.TypeScore, Label: "How likely are you to recommend us?", Required: true},
		{ID: "stars", Type: survey.TypeStar, Label: "Rate your visit"},
		{ID: "again", Type: survey.TypeYesNo, Label: "Would you come back?"},
		{ID: "notes", Type: survey.TypeFreeText, Label: "Anything else?"},
	}
}

func SeedSurvey(tb testing.TB, ctx context.Context, tx *gorm.DB, practiceID uuid.UUID, status string, questions []survey.Question) *survey.Survey {
	tb.Helper()
	if questions == nil {
		questions = StandardQuestions()
	}
	s := &survey.Survey{
		ID:         uuid.New(),
		PracticeID: practiceID,
		Title:      "Post-visit survey",
		Audience:   survey.AudienceCustomer,
		Status:     status,
		Questions:  datatypes.JSONSlice[survey.Question](questions),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed survey: %v", err)
	}
	return s
}

// SeedResponses inserts n plain responses created at the given time.
func SeedResponses(tb testing.TB, ctx context.Context, tx *gorm.DB, s *survey.Survey, n int, at time.Time) {
	tb.Helper()
	if n <= 0 {
		return
	}
	rows := make([]*feedback.Response, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, &feedback.Response{
			ID:         uuid.New(),
			SurveyID:   s.ID,
			PracticeID: s.PracticeID,
			Score:      8,
			Category:   feedback.CategoryPassive,
			Answers:    datatypes.JSON([]byte(`{"nps":8}`)),
			Channel:    feedback.ChannelLink,
			RoutedTo:   feedback.RoutedNone,
			CreatedAt:  at,
		})
	}
	if err := tx.WithContext(ctx).CreateInBatches(rows, 100).Error; err != nil {
		tb.Fatalf("seed responses: %v", err)
	}
}
