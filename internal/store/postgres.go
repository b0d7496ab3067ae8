package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/skillora/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const sessionColumns = `id, file_name, file_id, step, column_map, task_id, last_status, created_at, updated_at`

func (s *PostgresStore) CreateSession(ctx context.Context, sess *models.Session) error {
	columnMap, err := jsonOrNil(sess.ColumnMap)
	if err != nil {
		return fmt.Errorf("encode column map: %w", err)
	}
	lastStatus, err := jsonOrNil(sess.LastStatus)
	if err != nil {
		return fmt.Errorf("encode last status: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO wizard_sessions (`+sessionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sess.ID, sess.FileName, sess.FileID, sess.Step, columnMap, sess.TaskID, lastStatus,
		sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	sess, err := scanSession(s.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM wizard_sessions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) ListSessions(ctx context.Context, limit int) ([]*models.Session, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM wizard_sessions ORDER BY created_at DESC LIMIT $1`,
		clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *PostgresStore) UpdateSession(ctx context.Context, id uuid.UUID, opts ...SessionUpdateOption) (*models.Session, error) {
	params := applyOptions(opts)

	query := `UPDATE wizard_sessions SET updated_at = $2`
	args := []any{id, time.Now().UTC()}
	argIdx := 3

	if params.Step != nil {
		query += fmt.Sprintf(", step = $%d", argIdx)
		args = append(args, *params.Step)
		argIdx++
	}
	if params.ColumnMap != nil {
		b, err := json.Marshal(params.ColumnMap)
		if err != nil {
			return nil, fmt.Errorf("encode column map: %w", err)
		}
		query += fmt.Sprintf(", column_map = $%d", argIdx)
		args = append(args, b)
		argIdx++
	}
	if params.TaskID != nil {
		query += fmt.Sprintf(", task_id = $%d", argIdx)
		args = append(args, *params.TaskID)
		argIdx++
	}
	if params.LastStatus != nil {
		b, err := json.Marshal(params.LastStatus)
		if err != nil {
			return nil, fmt.Errorf("encode last status: %w", err)
		}
		query += fmt.Sprintf(", last_status = $%d", argIdx)
		args = append(args, b)
		argIdx++
	}

	query += " WHERE id = $1"
	if params.requireUnmapped {
		query += " AND task_id IS NULL"
	}
	query += " RETURNING " + sessionColumns

	sess, err := scanSession(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		if params.requireUnmapped {
			if _, getErr := s.GetSession(ctx, id); getErr == nil {
				return nil, ErrConflict
			}
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	return sess, nil
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var (
		sess       models.Session
		columnMap  []byte
		lastStatus []byte
	)
	if err := row.Scan(&sess.ID, &sess.FileName, &sess.FileID, &sess.Step, &columnMap,
		&sess.TaskID, &lastStatus, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		return nil, err
	}
	if columnMap != nil {
		sess.ColumnMap = &models.ColumnMap{}
		if err := json.Unmarshal(columnMap, sess.ColumnMap); err != nil {
			return nil, fmt.Errorf("decode column map: %w", err)
		}
	}
	if lastStatus != nil {
		sess.LastStatus = &models.TaskStatus{}
		if err := json.Unmarshal(lastStatus, sess.LastStatus); err != nil {
			return nil, fmt.Errorf("decode last status: %w", err)
		}
	}
	return &sess, nil
}

// jsonOrNil encodes v, mapping a nil pointer to SQL NULL.
func jsonOrNil[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

var _ Store = (*PostgresStore)(nil)
