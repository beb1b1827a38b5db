package feedback

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
	"github.com/yungbote/reviewloop-backend/internal/platform/dbctx"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

type UsageRepo interface {
	// IncrementWithin seeds the (practice, period) row with seed when it does not exist,
	// then adds one if the count is below ceiling. It returns the resulting count and
	// whether the increment happened. ceiling <= 0 means no limit.
	IncrementWithin(dbc dbctx.Context, practiceID uuid.UUID, period string, seed, ceiling int) (int, bool, error)
	Get(dbc dbctx.Context, practiceID uuid.UUID, period string) (int, error)
}

type usageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUsageRepo(db *gorm.DB, baseLog *logger.Logger) UsageRepo {
	return &usageRepo{
		db:  db,
		log: baseLog.With("repo", "UsageRepo"),
	}
}

func (r *usageRepo) IncrementWithin(dbc dbctx.Context, practiceID uuid.UUID, period string, seed, ceiling int) (int, bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	if seed < 0 {
		seed = 0
	}

	row := feedback.PracticeUsage{PracticeID: practiceID, Period: period, Count: seed, UpdatedAt: now}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return 0, false, err
	}

	q := transaction.WithContext(dbc.Ctx).
		Model(&feedback.PracticeUsage{}).
		Where("practice_id = ? AND period = ?", practiceID, period)
	if ceiling > 0 {
		q = q.Where("response_count < ?", ceiling)
	}
	res := q.Updates(map[string]interface{}{
		"response_count": gorm.Expr("response_count + 1"),
		"updated_at":     now,
	})
	if res.Error != nil {
		return 0, false, res.Error
	}

	count, err := r.Get(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, practiceID, period)
	if err != nil {
		return 0, false, err
	}
	return count, res.RowsAffected > 0, nil
}

func (r *usageRepo) Get(dbc dbctx.Context, practiceID uuid.UUID, period string) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row feedback.PracticeUsage
	err := transaction.WithContext(dbc.Ctx).
		Where("practice_id = ? AND period = ?", practiceID, period).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Count, nil
}
