package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/reviewloop-backend/internal/domain/aggregates"
	"github.com/yungbote/reviewloop-backend/internal/platform/dbctx"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

// BaseDeps is shared by every aggregate. Runner defaults to a GORM transaction on DB.
type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	return d
}

// executeWrite runs fn in one transaction, maps the error to an aggregate code and
// reports the outcome to the hooks. Internal failures are logged here so callers only
// need to branch on the code.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	if op = strings.TrimSpace(op); op == "" {
		op = "aggregate.write"
	}

	start := time.Now()
	err := MapError(op, deps.Runner.InTx(ctx, fn))
	dur := time.Since(start)

	status := aggregateErrorStatus(err)
	switch domainagg.CodeOf(err) {
	case domainagg.CodeConflict:
		deps.Hooks.IncConflict(op)
	case domainagg.CodeRetryable:
		deps.Hooks.IncRetry(op)
	case domainagg.CodeInternal:
		deps.Log.Error("Aggregate write failed", "op", op, "duration_ms", dur.Milliseconds(), "error", err)
	}
	deps.Hooks.ObserveOperation(op, status, dur)
	return err
}

// aggregateErrorStatus is the hook status label: "success" or the aggregate code.
func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeOf(MapError("aggregate.status", err))
	}
	if code == "" {
		return "failure"
	}
	return string(code)
}
