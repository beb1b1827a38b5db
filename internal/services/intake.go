package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	domainagg "github.com/yungbote/reviewloop-backend/internal/domain/aggregates"
	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
	"github.com/yungbote/reviewloop-backend/internal/modules/intake"
	"github.com/yungbote/reviewloop-backend/internal/notify"
	"github.com/yungbote/reviewloop-backend/internal/plans"
	"github.com/yungbote/reviewloop-backend/internal/platform/apierr"
	"github.com/yungbote/reviewloop-backend/internal/platform/ctxutil"
	"github.com/yungbote/reviewloop-backend/internal/platform/dbctx"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

// MaxSessionHashLen bounds the client fingerprint accepted on a submission.
const MaxSessionHashLen = 200

// SurveyConfigSource loads a survey together with its practice.
type SurveyConfigSource interface {
	GetIntakeConfig(dbc dbctx.Context, surveyID uuid.UUID) (*survey.IntakeConfig, error)
}

// SubmissionReader answers the pre-persistence dedup and quota questions.
type SubmissionReader interface {
	ExistsForSession(dbc dbctx.Context, surveyID uuid.UUID, sessionHash string) (bool, error)
	CountSince(dbc dbctx.Context, practiceID uuid.UUID, since time.Time) (int, error)
}

type PlanResolver interface {
	Resolve(planID string) plans.Policy
}

type SubmissionInput struct {
	SurveyID    string           `json:"surveyId"`
	Answers     survey.AnswerMap `json:"answers"`
	Channel     string           `json:"channel,omitempty"`
	DeviceType  string           `json:"deviceType,omitempty"`
	SessionHash *string          `json:"sessionHash,omitempty"`
}

type RoutingView struct {
	Category         feedback.Category `json:"category"`
	ShowPublicPrompt bool              `json:"showPublicPrompt"`
	ReviewURL        *string           `json:"reviewUrl"`
}

type SubmissionResult struct {
	ResponseID uuid.UUID
	Routing    RoutingView
}

type SurveySteps struct {
	SurveyID uuid.UUID     `json:"surveyId"`
	Title    string        `json:"title"`
	Audience string        `json:"audience"`
	Steps    []survey.Step `json:"steps"`
}

type StepCheck struct {
	StepID     string   `json:"stepId"`
	CanAdvance bool     `json:"canAdvance"`
	Problems   []string `json:"problems"`
}

type IntakeService interface {
	Submit(ctx context.Context, in SubmissionInput) (*SubmissionResult, error)
	Steps(ctx context.Context, surveyID string) (*SurveySteps, error)
	CheckStep(ctx context.Context, surveyID, stepID string, answers survey.AnswerMap) (*StepCheck, error)
}

// SubmissionObserver counts submission outcomes. category is empty for rejections.
type SubmissionObserver interface {
	ObserveSubmission(outcome, category string)
}

type IntakeDeps struct {
	Surveys       SurveyConfigSource
	Responses     SubmissionReader
	Submissions   domainagg.SubmissionAggregate
	Plans         PlanResolver
	Notifier      notify.Notifier
	Composer      notify.Composer
	Fingerprinter *intake.Fingerprinter
	Observer      SubmissionObserver
	// Now defaults to time.Now.
	Now func() time.Time
}

type intakeService struct {
	log    *logger.Logger
	deps   IntakeDeps
	tracer trace.Tracer
}

func NewIntakeService(log *logger.Logger, deps IntakeDeps) IntakeService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NotifierFunc(func(context.Context, notify.Notification) {})
	}
	return &intakeService{
		log:    log.With("service", "IntakeService"),
		deps:   deps,
		tracer: otel.Tracer("reviewloop/intake"),
	}
}

// normalized is a submission after shape checks.
type normalized struct {
	surveyID    uuid.UUID
	answers     survey.AnswerMap
	channel     string
	deviceType  *string
	sessionHash *string
}

func (s *intakeService) Submit(ctx context.Context, in SubmissionInput) (*SubmissionResult, error) {
	ctx = ctxutil.Default(ctx)
	ctx, span := s.tracer.Start(ctx, "intake.submit")
	defer span.End()

	res, err := s.submit(ctx, span, in)
	if err != nil {
		code := apierr.CodeInternal
		if ae, ok := apierr.As(err); ok {
			code = ae.Code
		}
		span.SetAttributes(attribute.String("intake.outcome", code))
		if code == apierr.CodeInternal {
			span.SetStatus(codes.Error, code)
		}
		s.observe(code, "")
		return nil, err
	}
	s.observe("accepted", string(res.Routing.Category))
	span.SetAttributes(
		attribute.String("intake.outcome", "accepted"),
		attribute.String("intake.category", string(res.Routing.Category)),
	)
	return res, nil
}

func (s *intakeService) observe(outcome, category string) {
	if s.deps.Observer != nil {
		s.deps.Observer.ObserveSubmission(outcome, category)
	}
}

func (s *intakeService) submit(ctx context.Context, span trace.Span, in SubmissionInput) (*SubmissionResult, error) {
	n, aerr := s.normalize(in)
	if aerr != nil {
		return nil, aerr
	}
	span.SetAttributes(attribute.String("intake.survey_id", n.surveyID.String()))
	log := s.log.With(ctxutil.LogFields(ctx)...).With("survey_id", n.surveyID)
	dbc := dbctx.Context{Ctx: ctx}

	cfg, err := s.loadAccepting(dbc, n.surveyID)
	if err != nil {
		return nil, s.fail(log, "load survey", err)
	}
	sv, practice := cfg.Survey, cfg.Practice
	log = log.With("practice_id", practice.ID)

	if problems := intake.ValidateAnswers(sv.Questions, n.answers); len(problems) > 0 {
		log.Debug("Submission failed validation", "problems", problems)
		return nil, apierr.ValidationFailed(problems[0])
	}

	if n.sessionHash != nil {
		exists, err := s.deps.Responses.ExistsForSession(dbc, sv.ID, *n.sessionHash)
		if err != nil {
			return nil, s.fail(log, "dedup lookup", err)
		}
		if exists {
			log.Debug("Duplicate submission rejected", "session_hash", *n.sessionHash)
			return nil, apierr.Duplicate()
		}
	}

	now := s.deps.Now().UTC()
	monthStart := feedback.MonthStart(now)
	period := feedback.Period(now)
	policy := s.deps.Plans.Resolve(practice.PlanID)
	if !policy.Unlimited() {
		count, err := s.deps.Responses.CountSince(dbc, practice.ID, monthStart)
		if err != nil {
			return nil, s.fail(log, "quota lookup", err)
		}
		if count >= policy.MonthlyResponses {
			log.Info("Monthly quota reached", "plan_id", policy.ID, "count", count, "ceiling", policy.MonthlyResponses)
			return nil, apierr.QuotaExceeded()
		}
	}

	score, fromEmployee := extractScore(sv.Questions, n.answers)
	decision := intake.Route(score, practice.ReviewDestination,
		intake.WithThreshold(practice.Threshold()),
		intake.WithRoutingEnabled(practice.ReviewRoutingEnabled),
	)
	if sv.Audience == survey.AudienceEmployee || fromEmployee {
		decision = intake.EmployeeOverride(decision)
	}

	snapshot, err := json.Marshal(n.answers)
	if err != nil {
		return nil, s.fail(log, "encode answers", err)
	}
	resp := &feedback.Response{
		SurveyID:          sv.ID,
		PracticeID:        practice.ID,
		Score:             score,
		Category:          decision.Category,
		Answers:           datatypes.JSON(snapshot),
		FreeText:          extractFreeText(sv.Questions, n.answers),
		Channel:           n.channel,
		DeviceType:        n.deviceType,
		SessionHash:       n.sessionHash,
		RoutedTo:          decision.RoutedTo,
		ReviewPromptShown: decision.ShowPublicPrompt,
		CreatedAt:         now,
	}

	recorded, err := s.deps.Submissions.Record(ctx, domainagg.RecordInput{
		Response:    resp,
		CreateAlert: decision.AlertRequired,
		MonthStart:  monthStart,
		Period:      period,
		Ceiling:     policy.MonthlyResponses,
	})
	if err != nil {
		switch domainagg.CodeOf(err) {
		case domainagg.CodeConflict:
			log.Debug("Duplicate submission lost insert race", "session_hash", n.sessionHash)
			return nil, apierr.Duplicate()
		case domainagg.CodePreconditionFailed:
			log.Info("Monthly quota reached at insert", "plan_id", policy.ID, "ceiling", policy.MonthlyResponses)
			return nil, apierr.QuotaExceeded()
		default:
			return nil, s.fail(log, "record submission", err)
		}
	}

	if recorded.Alert != nil && policy.AlertsIncluded && strings.TrimSpace(practice.AlertEmail) != "" {
		s.deps.Notifier.Dispatch(ctx, s.deps.Composer.Alert(practice, sv, *recorded.Response, *recorded.Alert))
	}
	if !policy.Unlimited() {
		level := plans.CrossedLevel(recorded.MonthlyCount-1, recorded.MonthlyCount, policy.MonthlyResponses)
		if level != plans.LevelNone && practice.WarningRecipient() != "" {
			log.Info("Quota warning level crossed", "level", level, "count", recorded.MonthlyCount)
			s.deps.Notifier.Dispatch(ctx, s.deps.Composer.QuotaWarning(practice, level, recorded.MonthlyCount, policy.MonthlyResponses, period))
		}
	}

	log.Debug("Submission accepted",
		"response_id", recorded.Response.ID,
		"category", decision.Category,
		"routed_to", decision.RoutedTo,
	)
	return &SubmissionResult{
		ResponseID: recorded.Response.ID,
		Routing: RoutingView{
			Category:         decision.Category,
			ShowPublicPrompt: decision.ShowPublicPrompt,
			ReviewURL:        decision.ReviewURL,
		},
	}, nil
}

func (s *intakeService) Steps(ctx context.Context, surveyID string) (*SurveySteps, error) {
	id, err := uuid.Parse(strings.TrimSpace(surveyID))
	if err != nil {
		return nil, apierr.SurveyNotFound()
	}
	cfg, err := s.loadAccepting(dbctx.Context{Ctx: ctxutil.Default(ctx)}, id)
	if err != nil {
		return nil, s.fail(s.log.With("survey_id", id), "load survey", err)
	}
	return &SurveySteps{
		SurveyID: cfg.Survey.ID,
		Title:    cfg.Survey.Title,
		Audience: cfg.Survey.Audience,
		Steps:    intake.BuildSteps(cfg.Survey.Questions),
	}, nil
}

func (s *intakeService) CheckStep(ctx context.Context, surveyID, stepID string, answers survey.AnswerMap) (*StepCheck, error) {
	view, err := s.Steps(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	step, ok := intake.FindStep(view.Steps, stepID)
	if !ok {
		return nil, apierr.StepNotFound(stepID)
	}
	problems := intake.StepProblems(step, answers)
	if problems == nil {
		problems = []string{}
	}
	return &StepCheck{StepID: step.ID, CanAdvance: len(problems) == 0, Problems: problems}, nil
}

func (s *intakeService) normalize(in SubmissionInput) (*normalized, *apierr.Error) {
	id, err := uuid.Parse(strings.TrimSpace(in.SurveyID))
	if err != nil {
		return nil, apierr.InvalidPayload("surveyId must be a UUID")
	}
	if in.Answers == nil {
		return nil, apierr.InvalidPayload("answers must be an object")
	}
	out := &normalized{surveyID: id, answers: in.Answers}

	switch ch := strings.ToLower(strings.TrimSpace(in.Channel)); ch {
	case "":
		out.channel = feedback.ChannelLink
	case feedback.ChannelQR, feedback.ChannelLink:
		out.channel = ch
	default:
		return nil, apierr.InvalidPayload("channel must be %q or %q", feedback.ChannelQR, feedback.ChannelLink)
	}

	switch dev := strings.ToLower(strings.TrimSpace(in.DeviceType)); dev {
	case "":
	case feedback.DeviceMobile, feedback.DeviceDesktop:
		out.deviceType = &dev
	default:
		return nil, apierr.InvalidPayload("deviceType must be %q or %q", feedback.DeviceMobile, feedback.DeviceDesktop)
	}

	if in.SessionHash != nil {
		raw := strings.TrimSpace(*in.SessionHash)
		if utf8.RuneCountInString(raw) > MaxSessionHashLen {
			return nil, apierr.InvalidPayload("sessionHash must be at most %d characters", MaxSessionHashLen)
		}
		if raw != "" {
			stored := s.deps.Fingerprinter.Apply(raw)
			out.sessionHash = &stored
		}
	}
	return out, nil
}

// loadAccepting returns the survey config or an apierr rejection for unknown and
// non-active surveys.
func (s *intakeService) loadAccepting(dbc dbctx.Context, id uuid.UUID) (*survey.IntakeConfig, error) {
	cfg, err := s.deps.Surveys.GetIntakeConfig(dbc, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apierr.SurveyNotFound()
	}
	if !cfg.Survey.Accepting() {
		return nil, apierr.SurveyInactive()
	}
	if err := survey.ValidateSchema(cfg.Survey.Questions); err != nil {
		return nil, fmt.Errorf("stored survey schema: %w", err)
	}
	return cfg, nil
}

// fail passes apierr rejections through and turns everything else into a logged 500.
func (s *intakeService) fail(log *logger.Logger, stage string, err error) error {
	if ae, ok := apierr.As(err); ok {
		return ae
	}
	log.Error("Submission failed", "stage", stage, "error", err)
	return apierr.Internal()
}

// extractScore returns the primary score, falling back to the employee score. The flag
// reports that the employee score was used.
func extractScore(questions []survey.Question, answers survey.AnswerMap) (int, bool) {
	if q, ok := survey.Find(questions, survey.TypeScore); ok {
		if v, ok := intake.AsInt(answers[q.ID]); ok {
			return v, false
		}
	}
	if q, ok := survey.Find(questions, survey.TypeEmployeeScore); ok {
		if v, ok := intake.AsInt(answers[q.ID]); ok {
			return v, true
		}
	}
	return 0, false
}

func extractFreeText(questions []survey.Question, answers survey.AnswerMap) *string {
	q, ok := survey.Find(questions, survey.TypeFreeText)
	if !ok {
		return nil
	}
	v, _ := answers[q.ID].(string)
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
