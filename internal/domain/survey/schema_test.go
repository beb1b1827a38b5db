package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
		wantErr   string
	}{
		{
			name: "valid template",
			questions: []Question{
				{ID: "nps", Type: TypeScore, Required: true},
				{ID: "stars", Type: TypeStar},
				{ID: "visit", Type: TypeSingleChoice, Options: []string{"cleaning", "checkup"}},
				{ID: "notes", Type: TypeFreeText},
			},
		},
		{name: "empty", questions: nil},
		{
			name:      "missing id",
			questions: []Question{{Type: TypeYesNo}},
			wantErr:   "id is required",
		},
		{
			name:      "duplicate id",
			questions: []Question{{ID: "a", Type: TypeYesNo}, {ID: "a", Type: TypeStar}},
			wantErr:   "duplicate id",
		},
		{
			name:      "unknown type",
			questions: []Question{{ID: "a", Type: "slider"}},
			wantErr:   "unknown type",
		},
		{
			name:      "choice without options",
			questions: []Question{{ID: "a", Type: TypeSingleChoice}},
			wantErr:   "1 to 10 options",
		},
		{
			name: "too many options",
			questions: []Question{{ID: "a", Type: TypeSingleChoice, Options: []string{
				"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11",
			}}},
			wantErr: "1 to 10 options",
		},
		{
			name:      "options on non-choice",
			questions: []Question{{ID: "a", Type: TypeStar, Options: []string{"x"}}},
			wantErr:   "only allowed on single-choice",
		},
		{
			name:      "two primary scores",
			questions: []Question{{ID: "a", Type: TypeScore}, {ID: "b", Type: TypeScore}},
			wantErr:   "at most one score-0-10",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSchema(tc.questions)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidSchema)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestQuestionTypeHelpers(t *testing.T) {
	for _, qt := range QuestionTypes {
		assert.True(t, qt.Valid(), qt)
	}
	assert.False(t, QuestionType("rating").Valid())
	assert.True(t, TypeScore.IsSingleton())
	assert.True(t, TypeEmployeeScore.IsScore())
	assert.False(t, TypeFreeText.IsSingleton())
	assert.False(t, TypeStar.IsScore())
}

func TestPracticeDefaults(t *testing.T) {
	p := &Practice{}
	assert.Equal(t, DefaultReviewThreshold, p.Threshold())
	p.ReviewThreshold = 8
	assert.Equal(t, 8, p.Threshold())

	p.AlertEmail = "alerts@x.test"
	assert.Equal(t, "alerts@x.test", p.WarningRecipient())
	p.QuotaWarningEmail = "billing@x.test"
	assert.Equal(t, "billing@x.test", p.WarningRecipient())
}
