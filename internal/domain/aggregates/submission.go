package aggregates

import (
	"context"
	"time"

	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
)

var SubmissionAggregateContract = Contract{
	Name:             "Intake.SubmissionAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns quota increment, response insert and detractor alert insert as one atomic write.",
}

// SubmissionAggregate records an accepted submission.
//
// Write failures return *aggregates.Error with codes:
// CodeConflict (same survey and session already recorded), CodePreconditionFailed
// (monthly quota reached), CodeRetryable, CodeInternal.
type SubmissionAggregate interface {
	Aggregate

	Record(ctx context.Context, in RecordInput) (*RecordResult, error)
}

type RecordInput struct {
	Response *feedback.Response
	// CreateAlert adds a detractor alert for the response in the same transaction.
	CreateAlert bool
	// MonthStart and Period identify the quota window the response counts against.
	MonthStart time.Time
	Period     string
	// Ceiling is the monthly response limit; 0 means unlimited.
	Ceiling int
}

type RecordResult struct {
	Response *feedback.Response
	Alert    *feedback.Alert
	// MonthlyCount is the practice's count for Period including this response.
	MonthlyCount int
}
