package feedback

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
	"github.com/yungbote/reviewloop-backend/internal/platform/dbctx"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

type ResponseRepo interface {
	ExistsForSession(dbc dbctx.Context, surveyID uuid.UUID, sessionHash string) (bool, error)
	CountSince(dbc dbctx.Context, practiceID uuid.UUID, since time.Time) (int, error)
	Create(dbc dbctx.Context, resp *feedback.Response) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*feedback.Response, error)
	// MarkReviewClicked sets the click flag once; it reports whether a row changed.
	MarkReviewClicked(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error)
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return &responseRepo{
		db:  db,
		log: baseLog.With("repo", "ResponseRepo"),
	}
}

func (r *responseRepo) ExistsForSession(dbc dbctx.Context, surveyID uuid.UUID, sessionHash string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if surveyID == uuid.Nil || sessionHash == "" {
		return false, nil
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&feedback.Response{}).
		Where("survey_id = ? AND session_hash = ?", surveyID, sessionHash).
		Limit(1).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *responseRepo) CountSince(dbc dbctx.Context, practiceID uuid.UUID, since time.Time) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&feedback.Response{}).
		Where("practice_id = ? AND created_at >= ?", practiceID, since).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *responseRepo) Create(dbc dbctx.Context, resp *feedback.Response) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if resp == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Create(resp).Error
}

func (r *responseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*feedback.Response, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var resp feedback.Response
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id).Take(&resp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *responseRepo) MarkReviewClicked(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&feedback.Response{}).
		Where("id = ? AND review_clicked = ?", id, false).
		Updates(map[string]interface{}{
			"review_clicked":    true,
			"review_clicked_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
