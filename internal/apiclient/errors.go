package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError non-2xx response
type APIError struct {
	Status int
	Detail string // human readable detail, empty when the body carries none
	Body   []byte
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Detail: extractDetail(body), Body: body}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

// extractDetail reads {"detail": "..."} or {"detail": [{"msg": "..."}]}
func extractDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}

// Message best-effort human readable message of err, fallback is used for everything
// that carries no server detail, transport failures included
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// IsStatus whether err is an API error with given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized the API rejected the bearer token
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsRejection whether the API answered with an error status, as opposed to a transport failure
func IsRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
