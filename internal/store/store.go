package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// ErrConflict is returned when a conditional update finds the row in the
// wrong state.
var ErrConflict = errors.New("conflicting update")

// Store is the data access interface for wizard sessions.
type Store interface {
	Ping(ctx context.Context) error

	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	ListSessions(ctx context.Context, limit int) ([]*models.Session, error)
	UpdateSession(ctx context.Context, id uuid.UUID, opts ...SessionUpdateOption) (*models.Session, error)
}

const defaultListLimit = 20

type sessionUpdateParams struct {
	Step       *string
	ColumnMap  *models.ColumnMap
	TaskID     *string
	LastStatus *models.TaskStatus

	requireUnmapped bool
}

type SessionUpdateOption func(*sessionUpdateParams)

func WithStep(step string) SessionUpdateOption {
	return func(p *sessionUpdateParams) {
		p.Step = &step
	}
}

// WithMapping records the submitted column map and the task it started.
func WithMapping(columns models.ColumnMap, taskID string) SessionUpdateOption {
	return func(p *sessionUpdateParams) {
		p.ColumnMap = &columns
		p.TaskID = &taskID
	}
}

// IfUnmapped makes the update apply only while the session has no task,
// failing with ErrConflict otherwise.
func IfUnmapped() SessionUpdateOption {
	return func(p *sessionUpdateParams) {
		p.requireUnmapped = true
	}
}

func WithLastStatus(status models.TaskStatus) SessionUpdateOption {
	return func(p *sessionUpdateParams) {
		p.LastStatus = &status
	}
}

func applyOptions(opts []SessionUpdateOption) sessionUpdateParams {
	var p sessionUpdateParams
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultListLimit
	}
	return limit
}
