package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatusAndCode(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   string
	}{
		{InvalidPayload("bad %s", "json"), http.StatusBadRequest, CodeInvalidPayload},
		{SurveyNotFound(), http.StatusNotFound, CodeSurveyNotFound},
		{SurveyInactive(), http.StatusNotFound, CodeSurveyInactive},
		{ValidationFailed("x is required"), http.StatusBadRequest, CodeValidationFailed},
		{Duplicate(), http.StatusConflict, CodeDuplicateSubmission},
		{QuotaExceeded(), http.StatusForbidden, CodeQuotaExceeded},
		{Internal(), http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.Status)
			assert.Equal(t, tc.code, tc.err.Code)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", Duplicate())
	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeDuplicateSubmission, e.Code)
	assert.True(t, IsCode(wrapped, CodeDuplicateSubmission))
	assert.False(t, IsCode(errors.New("plain"), CodeDuplicateSubmission))
}

func TestErrorFallbacks(t *testing.T) {
	var nilErr *Error
	assert.Equal(t, "", nilErr.Error())
	assert.Equal(t, "quota_exceeded", (&Error{Code: CodeQuotaExceeded}).Error())
	assert.Equal(t, "api error (418)", (&Error{Status: 418}).Error())
}
