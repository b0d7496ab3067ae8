package jobsapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for transport-level failures.
var (
	ErrNetwork = errors.New("jobs api unreachable")
	ErrAborted = errors.New("jobs api request aborted")
	// ErrDecode wraps a 2xx JSON body that does not parse.
	ErrDecode = errors.New("jobs api returned malformed JSON")
)

// ErrMissingTaskID is returned before any request is made for an empty task id.
var ErrMissingTaskID = errors.New("task id is required")

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
	StatusText string
	// Detail is the backend's "detail" field when present, else the raw body.
	Detail string
	// Payload is the decoded error body: a JSON value or the body text.
	Payload any
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("[%d] %s - %s", e.StatusCode, e.StatusText, e.Detail)
}

// IsStatus reports whether err is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var herr *HTTPError
	return errors.As(err, &herr) && herr.StatusCode == code
}

// classifyError maps transport errors to ErrAborted when the caller's
// context ended, and to ErrNetwork otherwise.
func classifyError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrAborted, ctxErr)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
