package models

// TaskPhase is the canonical lifecycle position of a backend task, independent
// of the vocabulary the backend uses for its state.
type TaskPhase string

const (
	TaskPhaseQueued    TaskPhase = "queued"
	TaskPhaseRunning   TaskPhase = "running"
	TaskPhaseSucceeded TaskPhase = "succeeded"
	TaskPhaseFailed    TaskPhase = "failed"
)

// Terminal reports whether no further transitions are expected.
func (p TaskPhase) Terminal() bool {
	return p == TaskPhaseSucceeded || p == TaskPhaseFailed
}

// DefaultTaskState is used when the backend omits the state entirely.
const DefaultTaskState = "PENDING"

// Progress is optional progress metadata reported while a task runs.
type Progress struct {
	Processed *int64 `json:"processed,omitempty"`
	Total     *int64 `json:"total,omitempty"`
	Percent   *int   `json:"percent,omitempty"`
}

// TaskStatus is a single observation of a backend task. Ready is true iff
// Phase is terminal; Successful is only meaningful once Ready.
type TaskStatus struct {
	ID         string    `json:"id"`
	State      string    `json:"state"`
	Phase      TaskPhase `json:"phase"`
	Ready      bool      `json:"ready"`
	Successful bool      `json:"successful"`
	Progress   *Progress `json:"progress,omitempty"`
	Message    string    `json:"message,omitempty"`
	Result     any       `json:"result,omitempty"`
}

// Label returns a short human-readable description of the task state.
func (s TaskStatus) Label() string {
	switch s.State {
	case "PENDING":
		return "Queued"
	case "RUNNING", "STARTED", "PROGRESS":
		return "Processing"
	case "SUCCESS":
		return "Finished"
	case "FAILURE":
		return "Failed"
	case "":
		return "Waiting..."
	}
	return s.State
}
