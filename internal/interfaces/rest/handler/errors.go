package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/aptitude"
	"github.com/pot-code/interview-prep/internal/capability"
	"github.com/pot-code/interview-prep/internal/capture"
	"github.com/pot-code/interview-prep/internal/course"
	"github.com/pot-code/interview-prep/internal/dashboard"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/interview"
	"github.com/pot-code/interview-prep/internal/practice"
	"github.com/pot-code/interview-prep/internal/resume"
	"github.com/pot-code/interview-prep/internal/roadmap"
	"github.com/pot-code/interview-prep/internal/session"
	"github.com/pot-code/interview-prep/internal/settings"
	"github.com/pot-code/interview-prep/internal/speech"
	"github.com/pot-code/interview-prep/internal/voice"
)

// RESTStandardError response error
type RESTStandardError struct {
	Type    string `json:"type,omitempty"`
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// NewRESTStandardError create a RESTStandardError titled by the status text of code
func NewRESTStandardError(code int, detail string) *RESTStandardError {
	return &RESTStandardError{
		Code:   code,
		Title:  http.StatusText(code),
		Detail: detail,
	}
}

func (re RESTStandardError) Error() string {
	return re.Detail
}

func (re RESTStandardError) SetTraceID(traceID string) RESTStandardError {
	re.TraceID = traceID
	return re
}

// RESTValidationError standard validation error
type RESTValidationError struct {
	RESTStandardError
	InvalidParams []*validate.FieldError `json:"invalid_params"`
}

// NewRESTValidationError create a RESTValidationError
func NewRESTValidationError(code int, detail string, internal []*validate.FieldError) *RESTValidationError {
	return &RESTValidationError{
		RESTStandardError: RESTStandardError{
			Code:   code,
			Title:  http.StatusText(code),
			Detail: detail,
		},
		InvalidParams: internal,
	}
}

func (rve RESTValidationError) Error() string {
	return rve.Detail
}

func (rve RESTValidationError) SetTraceID(traceID string) RESTValidationError {
	rve.RESTStandardError.TraceID = traceID
	return rve
}

var (
	badRequest = []error{
		aptitude.ErrIncomplete, aptitude.ErrOutOfRange,
		interview.ErrBlankResponse,
		capture.ErrClipTooLarge, capture.ErrAnswerRequired,
		practice.ErrUnknownKind, practice.ErrOutOfRange, practice.ErrUnknownTopic,
		resume.ErrUnsupportedFile, resume.ErrEmptyFile,
		settings.ErrPasswordMismatch, settings.ErrPasswordTooShort,
		speech.ErrUnknownPersonality,
		dashboard.ErrBlankQuery,
	}
	notFound = []error{
		capture.ErrClipNotFound,
		course.ErrUnknownLesson,
		roadmap.ErrUnknownCategory, roadmap.ErrUnknownRoadmap,
	}
	conflict = []error{
		aptitude.ErrWrongStage, aptitude.ErrLocked, aptitude.ErrNotQualified,
		interview.ErrWrongStage, interview.ErrNotQualified, interview.ErrNoQuestions, interview.ErrAlreadyAnswered,
		capture.ErrNoStream, capture.ErrRecording, capture.ErrNotRecording, capture.ErrDegraded, capture.ErrStreamNotActive,
		course.ErrNotLoaded, course.ErrFirstLesson, course.ErrLastLesson, course.ErrNotCompleted, course.ErrNoLessons,
		practice.ErrWrongStage, practice.ErrNoProblems,
		voice.ErrSpeaking, voice.ErrNoRecognition, voice.ErrDictationOnly, voice.ErrNothingToSpeak,
		capability.ErrUnavailable, capability.ErrDenied,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// ErrorResponse status and body for err, ok is false when err is unexpected and should surface as 500
func ErrorResponse(err error) (code int, body interface{}, ok bool) {
	var (
		fieldErrs validate.Errors
		failure   *session.Failure
		apiErr    *apiclient.APIError
		urlErr    *url.Error
	)
	switch {
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", fieldErrs), true
	case errors.As(err, &failure):
		code = http.StatusBadRequest
		if apiclient.IsUnauthorized(err) {
			code = http.StatusUnauthorized
		}
		return code, NewRESTStandardError(code, failure.Message), true
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, session.ErrNoSession):
		code = http.StatusUnauthorized
	case errors.Is(err, resume.ErrFileTooLarge):
		code = http.StatusRequestEntityTooLarge
	case errors.Is(err, settings.ErrNotAvailable):
		code = http.StatusNotImplemented
	case isAny(err, badRequest):
		code = http.StatusBadRequest
	case isAny(err, notFound):
		code = http.StatusNotFound
	case isAny(err, conflict):
		code = http.StatusConflict
	case errors.As(err, &apiErr):
		code = apiErr.Status
		if code < http.StatusBadRequest || code >= http.StatusInternalServerError {
			code = http.StatusBadGateway
		}
		return code, NewRESTStandardError(code, apiclient.Message(err, http.StatusText(code))), true
	case errors.As(err, &urlErr):
		return http.StatusBadGateway, NewRESTStandardError(http.StatusBadGateway, "The interview prep service is unreachable"), true
	default:
		return http.StatusInternalServerError, nil, false
	}
	return code, NewRESTStandardError(code, err.Error()), true
}
