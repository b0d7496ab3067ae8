package normalize

import (
	"math"
	"strings"

	"github.com/kiranshivaraju/skillora/pkg/models"
)

var statePhases = map[string]models.TaskPhase{
	"PENDING":    models.TaskPhaseQueued,
	"RECEIVED":   models.TaskPhaseQueued,
	"QUEUED":     models.TaskPhaseQueued,
	"SCHEDULED":  models.TaskPhaseQueued,
	"STARTED":    models.TaskPhaseRunning,
	"PROGRESS":   models.TaskPhaseRunning,
	"RUNNING":    models.TaskPhaseRunning,
	"RETRY":      models.TaskPhaseRunning,
	"PROCESSING": models.TaskPhaseRunning,
	"SUCCESS":    models.TaskPhaseSucceeded,
	"SUCCEEDED":  models.TaskPhaseSucceeded,
	"COMPLETED":  models.TaskPhaseSucceeded,
	"DONE":       models.TaskPhaseSucceeded,
	"FINISHED":   models.TaskPhaseSucceeded,
	"FAILURE":    models.TaskPhaseFailed,
	"FAILED":     models.TaskPhaseFailed,
	"ERROR":      models.TaskPhaseFailed,
	"REVOKED":    models.TaskPhaseFailed,
	"CANCELLED":  models.TaskPhaseFailed,
	"CANCELED":   models.TaskPhaseFailed,
}

// Phase folds a backend state into a canonical phase. States outside the
// known vocabulary fall back on the backend's own ready/successful flags.
func Phase(state string, ready, successful bool) models.TaskPhase {
	if p, ok := statePhases[strings.ToUpper(state)]; ok {
		return p
	}
	switch {
	case ready && successful:
		return models.TaskPhaseSucceeded
	case ready:
		return models.TaskPhaseFailed
	}
	return models.TaskPhaseRunning
}

var taskKeys = []string{"task_id", "taskId", "id", "state", "status", "ready"}

// TaskStatus decodes a task status response. Only a non-object body is an
// error; every individual field is optional.
func TaskStatus(raw any) (models.TaskStatus, error) {
	obj := asObject(raw)
	if obj == nil {
		return models.TaskStatus{}, &Error{Endpoint: "task status", Field: "body"}
	}
	if !hasAny(obj, taskKeys) {
		if data := asObject(obj["data"]); data != nil {
			obj = data
		}
	}

	id, _ := firstString(obj, "task_id", "taskId", "id")

	state := strings.ToUpper(strings.TrimSpace(text(firstValue(obj, "state", "status"))))
	if state == "" {
		state = models.DefaultTaskState
	}

	phase := Phase(state, flag(obj["ready"]), flag(obj["successful"]))
	meta := asObject(obj["meta"])

	message := text(obj["message"])
	if message == "" && meta != nil {
		message, _ = meta["message"].(string)
	}

	return models.TaskStatus{
		ID:         id,
		State:      state,
		Phase:      phase,
		Ready:      phase.Terminal(),
		Successful: phase == models.TaskPhaseSucceeded,
		Progress:   progress(meta),
		Message:    message,
		Result:     obj["result"],
	}, nil
}

// Percent clamps v to [0,100] and rounds it; non-numeric input yields nil.
func Percent(v any) *int {
	f, ok := number(v)
	if !ok {
		return nil
	}
	p := int(math.Round(math.Max(0, math.Min(100, f))))
	return &p
}

func progress(meta map[string]any) *models.Progress {
	if meta == nil {
		return nil
	}
	p := &models.Progress{
		Processed: optionalInt64(meta["processed"]),
		Total:     optionalInt64(meta["total"]),
		Percent:   Percent(meta["percent"]),
	}
	if p.Processed == nil && p.Total == nil && p.Percent == nil {
		return nil
	}
	return p
}

func hasAny(obj map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func flag(v any) bool {
	b, _ := v.(bool)
	return b
}
