package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable rejection codes returned to clients.
const (
	CodeInvalidPayload      = "invalid_payload"
	CodeSurveyNotFound      = "survey_not_found"
	CodeSurveyInactive      = "survey_inactive"
	CodeValidationFailed    = "validation_failed"
	CodeDuplicateSubmission = "duplicate_submission"
	CodeQuotaExceeded       = "quota_exceeded"
	CodeStepNotFound        = "step_not_found"
	CodeInternal            = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Newf builds an Error whose message is safe to show to the caller.
func Newf(status int, code, format string, args ...any) *Error {
	return &Error{Status: status, Code: code, Err: fmt.Errorf(format, args...)}
}

func InvalidPayload(format string, args ...any) *Error {
	return Newf(http.StatusBadRequest, CodeInvalidPayload, format, args...)
}

func SurveyNotFound() *Error {
	return Newf(http.StatusNotFound, CodeSurveyNotFound, "survey not found")
}

func SurveyInactive() *Error {
	return Newf(http.StatusNotFound, CodeSurveyInactive, "this survey is not accepting responses")
}

func StepNotFound(stepID string) *Error {
	return Newf(http.StatusNotFound, CodeStepNotFound, "step %q not found", stepID)
}

func ValidationFailed(msg string) *Error {
	return New(http.StatusBadRequest, CodeValidationFailed, errors.New(msg))
}

func Duplicate() *Error {
	return Newf(http.StatusConflict, CodeDuplicateSubmission, "You have already submitted this survey. Thank you!")
}

func QuotaExceeded() *Error {
	return Newf(http.StatusForbidden, CodeQuotaExceeded, "this practice has reached its monthly response limit")
}

// Internal never carries the cause; callers log it before returning.
func Internal() *Error {
	return Newf(http.StatusInternalServerError, CodeInternal, "something went wrong, please try again")
}

// As extracts an *Error from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
