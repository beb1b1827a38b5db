package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/reviewloop-backend/internal/data/repos"
	domainagg "github.com/yungbote/reviewloop-backend/internal/domain/aggregates"
	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
	"github.com/yungbote/reviewloop-backend/internal/platform/dbctx"
)

type SubmissionAggregateDeps struct {
	Base      BaseDeps
	Responses repos.ResponseRepo
	Alerts    repos.AlertRepo
	Usage     repos.UsageRepo
}

type submissionAggregate struct {
	deps SubmissionAggregateDeps
}

func NewSubmissionAggregate(deps SubmissionAggregateDeps) domainagg.SubmissionAggregate {
	deps.Base = deps.Base.withDefaults()
	return &submissionAggregate{deps: deps}
}

func (a *submissionAggregate) Contract() domainagg.Contract {
	return domainagg.SubmissionAggregateContract
}

const opRecord = "aggregate.submission.record"

func (a *submissionAggregate) Record(ctx context.Context, in domainagg.RecordInput) (*domainagg.RecordResult, error) {
	resp := in.Response
	if resp == nil || resp.SurveyID == uuid.Nil || resp.PracticeID == uuid.Nil {
		return nil, MapError(opRecord, ValidationError("response with survey and practice is required"))
	}
	if in.Period == "" {
		return nil, MapError(opRecord, ValidationError("quota period is required"))
	}
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now().UTC()
	}

	out := &domainagg.RecordResult{Response: resp}
	err := executeWrite(ctx, a.deps.Base, opRecord, func(dbc dbctx.Context) error {
		seed, err := a.deps.Responses.CountSince(dbc, resp.PracticeID, in.MonthStart)
		if err != nil {
			return err
		}
		count, ok, err := a.deps.Usage.IncrementWithin(dbc, resp.PracticeID, in.Period, seed, in.Ceiling)
		if err != nil {
			return err
		}
		if !ok {
			return PreconditionError("monthly response quota reached")
		}
		out.MonthlyCount = count

		if err := a.deps.Responses.Create(dbc, resp); err != nil {
			return err
		}

		if in.CreateAlert {
			alert := &feedback.Alert{
				PracticeID: resp.PracticeID,
				ResponseID: resp.ID,
				Type:       feedback.AlertTypeDetractor,
				CreatedAt:  resp.CreatedAt,
			}
			if err := a.deps.Alerts.Create(dbc, alert); err != nil {
				return err
			}
			out.Alert = alert
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
