package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/data/repos/testutil"
	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
	"github.com/yungbote/reviewloop-backend/internal/platform/dbctx"
)

func newResponse(s *survey.Survey, session *string) *feedback.Response {
	return &feedback.Response{
		SurveyID:    s.ID,
		PracticeID:  s.PracticeID,
		Score:       9,
		Category:    feedback.CategoryPromoter,
		Answers:     datatypes.JSON([]byte(`{"nps":9}`)),
		Channel:     feedback.ChannelQR,
		SessionHash: session,
		RoutedTo:    feedback.RoutedPublicReview,
	}
}

func strPtr(s string) *string { return &s }

func TestResponseRepo_SessionDedup(t *testing.T) {
	ctx := context.Background()
	db := testutil.SQLite(t)
	repo := NewResponseRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	p := testutil.SeedPractice(t, ctx, db)
	s := testutil.SeedSurvey(t, ctx, db, p.ID, survey.StatusActive, nil)

	exists, err := repo.ExistsForSession(dbc, s.ID, "abc")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(dbc, newResponse(s, strPtr("abc"))))

	exists, err = repo.ExistsForSession(dbc, s.ID, "abc")
	require.NoError(t, err)
	assert.True(t, exists)

	require.Error(t, repo.Create(dbc, newResponse(s, strPtr("abc"))))

	// Missing session hashes never collide.
	require.NoError(t, repo.Create(dbc, newResponse(s, nil)))
	require.NoError(t, repo.Create(dbc, newResponse(s, nil)))

	exists, err = repo.ExistsForSession(dbc, s.ID, "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestResponseRepo_CountSince(t *testing.T) {
	ctx := context.Background()
	db := testutil.SQLite(t)
	repo := NewResponseRepo(db, testutil.Logger(t))

	p := testutil.SeedPractice(t, ctx, db)
	s := testutil.SeedSurvey(t, ctx, db, p.ID, survey.StatusActive, nil)
	monthStart := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	testutil.SeedResponses(t, ctx, db, s, 3, monthStart.Add(-time.Hour))
	testutil.SeedResponses(t, ctx, db, s, 5, monthStart.Add(time.Hour))

	other := testutil.SeedPractice(t, ctx, db)
	otherSurvey := testutil.SeedSurvey(t, ctx, db, other.ID, survey.StatusActive, nil)
	testutil.SeedResponses(t, ctx, db, otherSurvey, 2, monthStart.Add(time.Hour))

	n, err := repo.CountSince(dbctx.Context{Ctx: ctx}, p.ID, monthStart)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestResponseRepo_MarkReviewClickedOnce(t *testing.T) {
	ctx := context.Background()
	db := testutil.SQLite(t)
	repo := NewResponseRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	p := testutil.SeedPractice(t, ctx, db)
	s := testutil.SeedSurvey(t, ctx, db, p.ID, survey.StatusActive, nil)
	resp := newResponse(s, strPtr("x"))
	require.NoError(t, repo.Create(dbc, resp))

	at := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	changed, err := repo.MarkReviewClicked(dbc, resp.ID, at)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkReviewClicked(dbc, resp.ID, at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.GetByID(dbc, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.ReviewClicked)
	require.NotNil(t, got.ReviewClickedAt)
	assert.True(t, got.ReviewClickedAt.Equal(at))
}

func TestAlertRepo_ListByPractice(t *testing.T) {
	ctx := context.Background()
	db := testutil.SQLite(t)
	responses := NewResponseRepo(db, testutil.Logger(t))
	alerts := NewAlertRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	p := testutil.SeedPractice(t, ctx, db)
	s := testutil.SeedSurvey(t, ctx, db, p.ID, survey.StatusActive, nil)

	base := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		resp := newResponse(s, nil)
		require.NoError(t, responses.Create(dbc, resp))
		require.NoError(t, alerts.Create(dbc, &feedback.Alert{
			PracticeID: p.ID,
			ResponseID: resp.ID,
			Type:       feedback.AlertTypeDetractor,
			IsRead:     i == 0,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := alerts.ListByPractice(dbc, p.ID, false, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	unread, err := alerts.ListByPractice(dbc, p.ID, true, 0)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	none, err := alerts.ListByPractice(dbc, uuid.New(), false, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUsageRepo_IncrementWithin(t *testing.T) {
	ctx := context.Background()
	db := testutil.SQLite(t)
	repo := NewUsageRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}
	practiceID := uuid.New()

	count, ok, err := repo.IncrementWithin(dbc, practiceID, "2026-05", 1, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, count)

	// The seed only applies when the row is first created.
	count, ok, err = repo.IncrementWithin(dbc, practiceID, "2026-05", 0, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, count)

	count, ok, err = repo.IncrementWithin(dbc, practiceID, "2026-05", 0, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, count)

	// A new period starts fresh; no ceiling means no limit.
	for i := 1; i <= 5; i++ {
		count, ok, err = repo.IncrementWithin(dbc, practiceID, "2026-06", 0, 0)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, i, count)
	}

	got, err := repo.Get(dbc, practiceID, "2026-07")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestUsageRepo_RollbackUndoesIncrement(t *testing.T) {
	ctx := context.Background()
	db := testutil.SQLite(t)
	repo := NewUsageRepo(db, testutil.Logger(t))
	practiceID := uuid.New()

	boom := errors.New("insert failed")
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, ok, err := repo.IncrementWithin(dbctx.Context{Ctx: ctx, Tx: tx}, practiceID, "2026-05", 0, 10)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.Get(dbctx.Context{Ctx: ctx}, practiceID, "2026-05")
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}
