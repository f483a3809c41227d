package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse is returned when the API answers with a body this client cannot use.
var ErrMalformedResponse = errors.New("malformed response from API")

// ErrUpstreamStatus is returned when an envelope reports a non-success status.
var ErrUpstreamStatus = errors.New("API reported failure")

// APIError is an HTTP error status returned by the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned %d: %s", e.StatusCode, e.Message)
}

// errorBody is the error shape the API uses: {"error": "..."}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(status int, body *errorBody) *APIError {
	msg := ""
	if body != nil {
		msg = body.Error
		if msg == "" {
			msg = body.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}

// Message returns the text a user should see for err: the API's own error message when
// there is one, otherwise the error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
