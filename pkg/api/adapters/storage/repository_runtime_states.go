package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/parentwatch/scanguard/pkg/api/business/runtime_states"
)

func (r *Repository) GetState(ctx context.Context, key string) (*runtime_states.RuntimeState, error) {
	var state runtime_states.RuntimeState

	row := r.db.QueryRowContext(ctx, `SELECT key, value, updated_at FROM runtime_states WHERE key = $1`, key)

	err := row.Scan(&state.Key, &state.Value, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil //nolint:nilnil
		}

		return nil, err
	}

	return &state, nil
}

func (r *Repository) SetState(ctx context.Context, key string, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runtime_states (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)

	return err
}

func (r *Repository) RemoveState(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM runtime_states WHERE key = $1`, key)

	return err
}

// TryAdvisoryLock wraps pg_try_advisory_lock, a session-scoped non-blocking
// lock held for the lifetime of the underlying connection rather than the
// transaction, so the caller must release it explicitly to free it.
func (r *Repository) TryAdvisoryLock(ctx context.Context, lockID int64) (bool, error) {
	var acquired bool

	row := r.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID)
	if err := row.Scan(&acquired); err != nil {
		return false, err
	}

	return acquired, nil
}

func (r *Repository) ReleaseAdvisoryLock(ctx context.Context, lockID int64) error {
	_, err := r.db.ExecContext(ctx, `SELECT pg_advisory_unlock($1)`, lockID)

	return err
}

func (r *Repository) ListStatesByPrefix(ctx context.Context, prefix string) ([]*runtime_states.RuntimeState, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, updated_at FROM runtime_states WHERE key LIKE $1 ORDER BY key`, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []*runtime_states.RuntimeState

	for rows.Next() {
		var state runtime_states.RuntimeState

		if err := rows.Scan(&state.Key, &state.Value, &state.UpdatedAt); err != nil {
			return nil, err
		}

		states = append(states, &state)
	}

	return states, rows.Err()
}
