package feedback

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
	"github.com/yungbote/reviewloop-backend/internal/platform/dbctx"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

type AlertRepo interface {
	Create(dbc dbctx.Context, alert *feedback.Alert) error
	// ListByPractice returns newest first. limit <= 0 means 50.
	ListByPractice(dbc dbctx.Context, practiceID uuid.UUID, unreadOnly bool, limit int) ([]*feedback.Alert, error)
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	return &alertRepo{
		db:  db,
		log: baseLog.With("repo", "AlertRepo"),
	}
}

func (r *alertRepo) Create(dbc dbctx.Context, alert *feedback.Alert) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if alert == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Create(alert).Error
}

func (r *alertRepo) ListByPractice(dbc dbctx.Context, practiceID uuid.UUID, unreadOnly bool, limit int) ([]*feedback.Alert, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	q := transaction.WithContext(dbc.Ctx).Where("practice_id = ?", practiceID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []*feedback.Alert
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
