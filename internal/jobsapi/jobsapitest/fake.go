// Package jobsapitest provides an in-memory jobsapi.Client for tests.
package jobsapitest

import (
	"context"
	"io"
	"sync"

	"github.com/kiranshivaraju/skillora/internal/jobsapi"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

var _ jobsapi.Client = (*Fake)(nil)

// Fake answers each call from its fields. Statuses are served in order;
// the last one repeats once the list is exhausted.
type Fake struct {
	mu sync.Mutex

	FileID    string
	TaskID    string
	Statuses  []models.TaskStatus
	Summary   models.SalarySummary
	Stacks    []models.StackCompareRow
	UploadErr error
	MapErr    error
	StatusErr error
	// SummaryErr and StacksErr fail the analytics calls.
	SummaryErr error
	StacksErr  error
	ReadyErr   error
	// MapGate, when set, holds MapColumns until it is closed.
	MapGate chan struct{}

	Uploaded    []string
	MappedFiles []string
	MappedCols  []models.ColumnMap
	StatusCalls int
	// AnalyticsCalls counts SalarySummary and StackCompare calls.
	AnalyticsCalls int
}

func (f *Fake) Upload(ctx context.Context, filename string, r io.Reader) (models.UploadResult, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return models.UploadResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Uploaded = append(f.Uploaded, filename)
	if f.UploadErr != nil {
		return models.UploadResult{}, f.UploadErr
	}
	return models.UploadResult{FileID: f.FileID}, nil
}

func (f *Fake) MapColumns(ctx context.Context, fileID string, columns models.ColumnMap) (models.TaskHandle, error) {
	f.mu.Lock()
	f.MappedFiles = append(f.MappedFiles, fileID)
	f.MappedCols = append(f.MappedCols, columns)
	gate := f.MapGate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.TaskHandle{}, jobsapi.ErrAborted
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MapErr != nil {
		return models.TaskHandle{}, f.MapErr
	}
	return models.TaskHandle{ID: f.TaskID}, nil
}

func (f *Fake) TaskStatus(ctx context.Context, taskID string) (models.TaskStatus, error) {
	if err := ctx.Err(); err != nil {
		return models.TaskStatus{}, jobsapi.ErrAborted
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusCalls++
	if f.StatusErr != nil {
		return models.TaskStatus{}, f.StatusErr
	}
	if len(f.Statuses) == 0 {
		return models.TaskStatus{ID: taskID, State: models.DefaultTaskState, Phase: models.TaskPhaseQueued}, nil
	}
	i := f.StatusCalls - 1
	if i >= len(f.Statuses) {
		i = len(f.Statuses) - 1
	}
	st := f.Statuses[i]
	st.ID = taskID
	return st, nil
}

func (f *Fake) SalarySummary(ctx context.Context) (models.SalarySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AnalyticsCalls++
	return f.Summary, f.SummaryErr
}

func (f *Fake) StackCompare(ctx context.Context) ([]models.StackCompareRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AnalyticsCalls++
	if f.StacksErr != nil {
		return nil, f.StacksErr
	}
	return append([]models.StackCompareRow{}, f.Stacks...), nil
}

func (f *Fake) Ready(ctx context.Context) error {
	return f.ReadyErr
}

// Calls returns the number of TaskStatus calls so far.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.StatusCalls
}

// MapCalls returns how many MapColumns calls have started.
func (f *Fake) MapCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.MappedFiles)
}

// Running returns a status observation for an in-flight task.
func Running(state string) models.TaskStatus {
	return models.TaskStatus{State: state, Phase: models.TaskPhaseRunning}
}

// Succeeded returns a settled, successful observation.
func Succeeded() models.TaskStatus {
	return models.TaskStatus{State: "SUCCESS", Phase: models.TaskPhaseSucceeded, Ready: true, Successful: true}
}

// Failed returns a settled, failed observation.
func Failed(msg string) models.TaskStatus {
	return models.TaskStatus{State: "FAILURE", Phase: models.TaskPhaseFailed, Ready: true, Message: msg}
}
