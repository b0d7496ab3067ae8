// Package wizard drives the ingest flow: upload a file, map its columns,
// then watch the resulting backend task until it settles.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/skillora/internal/cache"
	"github.com/kiranshivaraju/skillora/internal/jobsapi"
	"github.com/kiranshivaraju/skillora/internal/poll"
	"github.com/kiranshivaraju/skillora/internal/store"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type, use CSV/XLSX/XLS")
	ErrAlreadyMapped   = errors.New("session already has a mapping")
	ErrNotMapped       = errors.New("session has no mapping yet")
)

var allowedExtensions = map[string]bool{".csv": true, ".xls": true, ".xlsx": true}

// terminalStatusTTL bounds how long a settled task status is served from cache.
const terminalStatusTTL = 24 * time.Hour

// Options tunes how tasks are watched.
type Options struct {
	PollInterval time.Duration
	PollMaxWait  time.Duration
	Logger       *slog.Logger
}

// Service runs wizard sessions against the backend.
type Service struct {
	api   jobsapi.Client
	store store.Store
	cache cache.Cache
	opts  Options
	log   *slog.Logger

	mu      sync.Mutex
	watches map[uuid.UUID]*poll.Session[models.TaskStatus]
	mapping map[uuid.UUID]struct{}
	wg      sync.WaitGroup
}

// NewService creates a wizard Service.
func NewService(api jobsapi.Client, st store.Store, ca cache.Cache, opts Options) *Service {
	if opts.PollInterval <= 0 {
		opts.PollInterval = poll.DefaultInterval
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if ca == nil {
		ca = cache.NoopCache{}
	}
	return &Service{
		api:     api,
		store:   st,
		cache:   ca,
		opts:    opts,
		log:     log,
		watches: make(map[uuid.UUID]*poll.Session[models.TaskStatus]),
		mapping: make(map[uuid.UUID]struct{}),
	}
}

// CheckFileName rejects files the backend will not ingest.
func CheckFileName(name string) error {
	if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFile, name)
	}
	return nil
}

// Upload sends the file to the backend and opens a session for it.
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (*models.Session, error) {
	filename = filepath.Base(filename)
	if err := CheckFileName(filename); err != nil {
		return nil, err
	}

	res, err := s.api.Upload(ctx, filename, r)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}

	now := time.Now().UTC()
	sess := &models.Session{
		ID:        uuid.New(),
		FileName:  filename,
		FileID:    res.FileID,
		Step:      models.SessionStepUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.log.Info("wizard.uploaded", "session_id", sess.ID, "file_id", sess.FileID, "file_name", filename)
	return sess, nil
}

// Session returns a stored session.
func (s *Service) Session(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return s.store.GetSession(ctx, id)
}

// Sessions returns the most recent sessions, newest first.
func (s *Service) Sessions(ctx context.Context, limit int) ([]*models.Session, error) {
	return s.store.ListSessions(ctx, limit)
}

// Map submits the column map for the session's file. A session is mapped
// at most once.
func (s *Service) Map(ctx context.Context, id uuid.UUID, columns models.ColumnMap) (*models.Session, error) {
	if err := columns.Validate(); err != nil {
		return nil, err
	}

	// Only one submission per session may be in flight in this process.
	// The conditional update below covers other replicas.
	s.mu.Lock()
	if _, busy := s.mapping[id]; busy {
		s.mu.Unlock()
		return nil, ErrAlreadyMapped
	}
	s.mapping[id] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.mapping, id)
		s.mu.Unlock()
	}()

	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.TaskID != nil {
		return nil, ErrAlreadyMapped
	}

	handle, err := s.api.MapColumns(ctx, sess.FileID, columns)
	if err != nil {
		return nil, fmt.Errorf("map columns for %s: %w", sess.FileID, err)
	}

	sess, err = s.store.UpdateSession(ctx, id,
		store.IfUnmapped(),
		store.WithMapping(columns, handle.ID),
		store.WithStep(models.SessionStepMapped))
	if errors.Is(err, store.ErrConflict) {
		s.log.Warn("wizard.map_conflict", "session_id", id, "task_id", handle.ID)
		return nil, ErrAlreadyMapped
	}
	if err != nil {
		return nil, fmt.Errorf("save mapping: %w", err)
	}

	s.log.Info("wizard.mapped", "session_id", id, "task_id", handle.ID)
	return sess, nil
}

// TaskStatus fetches one status observation, serving settled tasks from cache.
func (s *Service) TaskStatus(ctx context.Context, taskID string) (models.TaskStatus, error) {
	var cached models.TaskStatus
	if found, err := cache.GetJSON(ctx, s.cache, cache.TaskStatusKey(taskID), &cached); err == nil && found {
		return cached, nil
	}

	st, err := s.api.TaskStatus(ctx, taskID)
	if err != nil {
		return models.TaskStatus{}, err
	}
	if st.Ready {
		if err := cache.SetJSON(ctx, s.cache, cache.TaskStatusKey(taskID), st, terminalStatusTTL); err != nil {
			s.log.Warn("wizard.cache_write_failed", "task_id", taskID, "error", err)
		}
	}
	return st, nil
}

// Watch polls the session's task until it is ready, recording every
// observation on the session. It blocks until the poll settles.
func (s *Service) Watch(ctx context.Context, id uuid.UUID) (models.TaskStatus, error) {
	opts, err := s.watchOptions(ctx, id)
	if err != nil {
		return models.TaskStatus{}, err
	}
	return poll.Poll(ctx, opts)
}

// StartWatch polls the session's task in the background. Only one watch
// runs per session; a second call returns the running one.
func (s *Service) StartWatch(ctx context.Context, id uuid.UUID) (*poll.Session[models.TaskStatus], error) {
	opts, err := s.watchOptions(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.watches[id]; ok {
		return w, nil
	}

	// Background watches outlive the request that started them.
	w := poll.Start(context.WithoutCancel(ctx), opts)
	s.watches[id] = w
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		st, err := w.Wait(context.Background())
		s.mu.Lock()
		delete(s.watches, id)
		s.mu.Unlock()
		if err != nil {
			s.log.Warn("wizard.watch.stopped", "session_id", id, "error", err)
			return
		}
		s.log.Info("wizard.watch.finished", "session_id", id, "state", st.State, "successful", st.Successful)
	}()
	return w, nil
}

// CancelWatch stops the session's background watch. It reports whether a
// watch was running.
func (s *Service) CancelWatch(id uuid.UUID) bool {
	s.mu.Lock()
	w, ok := s.watches[id]
	s.mu.Unlock()
	if ok {
		w.Cancel()
	}
	return ok
}

// Watching reports whether a background watch is running for the session.
func (s *Service) Watching(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.watches[id]
	return ok
}

// Shutdown cancels every background watch and waits for them to settle.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for _, w := range s.watches {
		w.Cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) watchOptions(ctx context.Context, id uuid.UUID) (poll.Options[models.TaskStatus], error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return poll.Options[models.TaskStatus]{}, err
	}
	if sess.TaskID == nil {
		return poll.Options[models.TaskStatus]{}, ErrNotMapped
	}
	taskID := *sess.TaskID

	return poll.Options[models.TaskStatus]{
		Probe: func(ctx context.Context) (models.TaskStatus, error) {
			return s.TaskStatus(ctx, taskID)
		},
		ShouldStop: func(st models.TaskStatus) bool { return st.Ready },
		Interval:   s.opts.PollInterval,
		MaxWait:    s.opts.PollMaxWait,
		OnAttempt: func(attempt int, st models.TaskStatus) {
			s.record(ctx, id, attempt, st)
		},
	}, nil
}

// record stores the latest observation. Store failures are logged and do
// not interrupt the watch.
func (s *Service) record(ctx context.Context, id uuid.UUID, attempt int, st models.TaskStatus) {
	opts := []store.SessionUpdateOption{store.WithLastStatus(st)}
	if st.Ready {
		opts = append(opts, store.WithStep(models.SessionStepFinished))
	}
	if _, err := s.store.UpdateSession(context.WithoutCancel(ctx), id, opts...); err != nil {
		s.log.Warn("wizard.record_failed", "session_id", id, "error", err)
	}
	s.log.Debug("wizard.watch.tick", "session_id", id, "attempt", attempt, "state", st.State)
}
