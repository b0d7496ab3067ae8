package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

// MemoryStore keeps sessions in process memory. Used when no database is
// configured; contents are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]models.Session)}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) CreateSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; exists {
		return ErrDuplicateKey
	}
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id uuid.UUID) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) ListSessions(_ context.Context, limit int) ([]*models.Session, error) {
	m.mu.RLock()
	out := make([]*models.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		s := s
		out = append(out, &s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit = clampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) UpdateSession(_ context.Context, id uuid.UUID, opts ...SessionUpdateOption) (*models.Session, error) {
	params := applyOptions(opts)

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if params.requireUnmapped && s.TaskID != nil {
		return nil, ErrConflict
	}
	if params.Step != nil {
		s.Step = *params.Step
	}
	if params.ColumnMap != nil {
		s.ColumnMap = params.ColumnMap
	}
	if params.TaskID != nil {
		s.TaskID = params.TaskID
	}
	if params.LastStatus != nil {
		s.LastStatus = params.LastStatus
	}
	s.UpdatedAt = time.Now().UTC()
	m.sessions[id] = s
	return &s, nil
}

var _ Store = (*MemoryStore)(nil)
