package surveys

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
	"github.com/yungbote/reviewloop-backend/internal/platform/dbctx"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

type SurveyRepo interface {
	Create(dbc dbctx.Context, s *survey.Survey) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*survey.Survey, error)
	// GetIntakeConfig returns the survey with its practice, or nil when either is missing.
	GetIntakeConfig(dbc dbctx.Context, surveyID uuid.UUID) (*survey.IntakeConfig, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error
}

type surveyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSurveyRepo(db *gorm.DB, baseLog *logger.Logger) SurveyRepo {
	return &surveyRepo{
		db:  db,
		log: baseLog.With("repo", "SurveyRepo"),
	}
}

func (r *surveyRepo) Create(dbc dbctx.Context, s *survey.Survey) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if s == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Create(s).Error
}

func (r *surveyRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*survey.Survey, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var s survey.Survey
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *surveyRepo) GetIntakeConfig(dbc dbctx.Context, surveyID uuid.UUID) (*survey.IntakeConfig, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	s, err := r.GetByID(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, surveyID)
	if err != nil || s == nil {
		return nil, err
	}

	var p survey.Practice
	err = transaction.WithContext(dbc.Ctx).Where("id = ?", s.PracticeID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Warn("Survey references missing practice", "survey_id", s.ID, "practice_id", s.PracticeID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &survey.IntakeConfig{Survey: *s, Practice: p}, nil
}

func (r *surveyRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&survey.Survey{}).
		Where("id = ?", id).
		Update("status", status).Error
}
