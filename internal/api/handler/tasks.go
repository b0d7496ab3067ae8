package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/skillora/internal/api/response"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

// TaskStatuser fetches one normalized task status.
type TaskStatuser interface {
	TaskStatus(ctx context.Context, taskID string) (models.TaskStatus, error)
}

type statusView struct {
	models.TaskStatus
	Label string `json:"label"`
}

func newStatusView(st models.TaskStatus) statusView {
	return statusView{TaskStatus: st, Label: st.Label()}
}

// NewTaskStatusHandler returns an http.HandlerFunc for GET /api/v1/tasks/{taskID}.
func NewTaskStatusHandler(svc TaskStatuser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "taskID")
		if taskID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "taskID is required", nil)
			return
		}
		st, err := svc.TaskStatus(r.Context(), taskID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.JSON(w, newStatusView(st))
	}
}
