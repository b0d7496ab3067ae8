package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/skillora/internal/api/response"
	"github.com/kiranshivaraju/skillora/internal/poll"
	"github.com/kiranshivaraju/skillora/internal/wizard"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

// MaxUploadBytes caps the multipart body accepted for uploads.
const MaxUploadBytes = 32 << 20

// Wizard is the slice of wizard.Service the session handlers need.
type Wizard interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*models.Session, error)
	Session(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Sessions(ctx context.Context, limit int) ([]*models.Session, error)
	Map(ctx context.Context, id uuid.UUID, columns models.ColumnMap) (*models.Session, error)
	Watch(ctx context.Context, id uuid.UUID) (models.TaskStatus, error)
	StartWatch(ctx context.Context, id uuid.UUID) (*poll.Session[models.TaskStatus], error)
	CancelWatch(id uuid.UUID) bool
}

// NewUploadHandler returns an http.HandlerFunc for POST /api/v1/sessions.
func NewUploadHandler(svc Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds upload limit", nil)
				return
			}
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "multipart field \"file\" is required", nil)
			return
		}
		defer file.Close()

		sess, err := svc.Upload(r.Context(), header.Filename, file)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Created(w, sess)
	}
}

// NewListSessionsHandler returns an http.HandlerFunc for GET /api/v1/sessions.
func NewListSessionsHandler(svc Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer", nil)
				return
			}
			limit = n
		}

		sessions, err := svc.Sessions(r.Context(), limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, sessions)
	}
}

// NewGetSessionHandler returns an http.HandlerFunc for GET /api/v1/sessions/{sessionID}.
func NewGetSessionHandler(svc Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}
		sess, err := svc.Session(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, sess)
	}
}

// NewMapHandler returns an http.HandlerFunc for POST /api/v1/sessions/{sessionID}/mapping.
// A request without a column map, or with only a preset name, uses a preset.
func NewMapHandler(svc Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		var req struct {
			Preset    string            `json:"preset"`
			ColumnMap *models.ColumnMap `json:"column_map"`
		}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
				return
			}
		}

		columns := req.ColumnMap
		if columns == nil {
			name := req.Preset
			if name == "" {
				name = wizard.DefaultPreset
			}
			cm, found := wizard.Preset(name)
			if !found {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "unknown preset "+strconv.Quote(name), nil)
				return
			}
			columns = &cm
		}

		sess, err := svc.Map(r.Context(), id, *columns)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Accepted(w, sess)
	}
}

type watchResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Watching  bool      `json:"watching"`
}

// NewStartWatchHandler returns an http.HandlerFunc for POST /api/v1/sessions/{sessionID}/watch.
func NewStartWatchHandler(svc Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}
		if _, err := svc.StartWatch(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		response.Accepted(w, watchResponse{SessionID: id, Watching: true})
	}
}

// NewCancelWatchHandler returns an http.HandlerFunc for DELETE /api/v1/sessions/{sessionID}/watch.
func NewCancelWatchHandler(svc Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}
		if !svc.CancelWatch(id) {
			response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "No watch running for session", nil)
			return
		}
		response.NoContent(w)
	}
}

// NewWaitHandler returns an http.HandlerFunc for GET /api/v1/sessions/{sessionID}/wait.
// It holds the request open until the task settles or the poll gives up.
func NewWaitHandler(svc Wizard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}
		st, err := svc.Watch(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, newStatusView(st))
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "sessionID must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}
