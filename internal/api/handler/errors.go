package handler

import (
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/kiranshivaraju/skillora/internal/api/middleware"
	"github.com/kiranshivaraju/skillora/internal/api/response"
	"github.com/kiranshivaraju/skillora/internal/jobsapi"
	"github.com/kiranshivaraju/skillora/internal/normalize"
	"github.com/kiranshivaraju/skillora/internal/poll"
	"github.com/kiranshivaraju/skillora/internal/store"
	"github.com/kiranshivaraju/skillora/internal/wizard"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

// StatusClientClosedRequest is written when the caller went away first.
const StatusClientClosedRequest = 499

// writeError maps service and backend errors onto the error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		herr *jobsapi.HTTPError
		nerr *normalize.Error
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Session not found", nil)
	case errors.Is(err, wizard.ErrUnsupportedFile):
		response.Error(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE", err.Error(), nil)
	case errors.Is(err, models.ErrIncompleteColumnMap), errors.Is(err, jobsapi.ErrMissingTaskID):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, wizard.ErrAlreadyMapped):
		response.Error(w, http.StatusConflict, "ALREADY_MAPPED", err.Error(), nil)
	case errors.Is(err, wizard.ErrNotMapped):
		response.Error(w, http.StatusConflict, "NOT_MAPPED", err.Error(), nil)
	case errors.Is(err, jobsapi.ErrAborted), errors.Is(err, poll.ErrAborted):
		response.Error(w, StatusClientClosedRequest, "ABORTED", "Request was cancelled", nil)
	case errors.Is(err, poll.ErrTimeout):
		response.Error(w, http.StatusGatewayTimeout, "POLL_TIMEOUT", err.Error(), nil)
	case errors.Is(err, jobsapi.ErrNetwork):
		response.Error(w, http.StatusBadGateway, "UPSTREAM_UNREACHABLE", "The jobs API is not reachable", nil)
	case errors.As(err, &herr):
		response.Error(w, herr.StatusCode, "UPSTREAM_ERROR", herr.Error(), map[string]any{
			"status": herr.StatusCode,
			"detail": herr.Detail,
		})
	case errors.As(err, &nerr):
		response.Error(w, http.StatusBadGateway, "INVALID_UPSTREAM_RESPONSE", nerr.Error(), nil)
	case errors.Is(err, jobsapi.ErrDecode):
		response.Error(w, http.StatusBadGateway, "INVALID_UPSTREAM_RESPONSE", "The jobs API returned malformed JSON", nil)
	default:
		slog.Error("http.handler_failed", "path", r.URL.Path, "request_id", mw.GetRequestID(r), "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}
