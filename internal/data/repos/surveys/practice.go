package surveys

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
	"github.com/yungbote/reviewloop-backend/internal/platform/dbctx"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

type PracticeRepo interface {
	Create(dbc dbctx.Context, p *survey.Practice) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*survey.Practice, error)
}

type practiceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPracticeRepo(db *gorm.DB, baseLog *logger.Logger) PracticeRepo {
	return &practiceRepo{
		db:  db,
		log: baseLog.With("repo", "PracticeRepo"),
	}
}

func (r *practiceRepo) Create(dbc dbctx.Context, p *survey.Practice) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if p == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Create(p).Error
}

func (r *practiceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*survey.Practice, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var p survey.Practice
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
