package aggregates

import (
	"context"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/reviewloop-backend/internal/domain/aggregates"
	"github.com/yungbote/reviewloop-backend/internal/platform/dbctx"
)

// TxRunner runs fn inside one transaction; fn's dbctx carries the Tx.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// TxRunnerFunc adapts a plain function to TxRunner.
type TxRunnerFunc func(ctx context.Context, fn func(dbc dbctx.Context) error) error

func (f TxRunnerFunc) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return f(ctx, fn)
}

// NewGormTxRunner commits when fn returns nil and rolls back otherwise.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return TxRunnerFunc(func(ctx context.Context, fn func(dbc dbctx.Context) error) error {
		if fn == nil {
			return nil
		}
		if db == nil {
			return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "no database configured", nil)
		}
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(dbctx.Context{Ctx: ctx, Tx: tx})
		})
	})
}
