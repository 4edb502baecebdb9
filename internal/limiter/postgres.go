package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PG is a PostgreSQL-backed limiter with a sliding failure window and lockout.
type PG struct {
	pool     pgxQuerier
	window   time.Duration
	maxFails int
	blockFor time.Duration
	now      func() time.Time
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPG constructs a PostgreSQL-backed limiter. maxFails <= 0 disables blocking.
func NewPG(q pgxQuerier, window time.Duration, maxFails int, blockFor time.Duration) *PG {
	return &PG{pool: q, window: window, maxFails: maxFails, blockFor: blockFor, now: time.Now}
}

// Allow reports whether a sync is currently allowed and a retry-after duration.
func (l *PG) Allow(ctx context.Context, instanceID uuid.UUID) (bool, time.Duration, error) {
	const q = `SELECT blocked_until FROM sync_limiter WHERE instance_id=$1`
	var blockedUntil time.Time
	err := l.pool.QueryRow(ctx, q, instanceID).Scan(&blockedUntil)
	switch {
	case err == nil:
		if now := l.now(); blockedUntil.After(now) {
			return false, blockedUntil.Sub(now), nil
		}
		return true, 0, nil
	case errors.Is(err, pgx.ErrNoRows):
		return true, 0, nil
	default:
		return false, 0, err
	}
}

// Success resets counters for an instance.
func (l *PG) Success(ctx context.Context, instanceID uuid.UUID) error {
	const q = `
INSERT INTO sync_limiter (instance_id, fail_count, blocked_until, updated_at)
VALUES ($1,0,'epoch',now())
ON CONFLICT (instance_id)
DO UPDATE SET fail_count=0, blocked_until='epoch', updated_at=now()`
	_, err := l.pool.Exec(ctx, q, instanceID)
	return err
}

// Failure records a failed run and blocks the instance once maxFails is reached within the window.
func (l *PG) Failure(ctx context.Context, instanceID uuid.UUID) (bool, time.Duration, error) {
	const q = `
INSERT INTO sync_limiter (instance_id, fail_count, blocked_until, updated_at)
VALUES ($1,1,'epoch',now())
ON CONFLICT (instance_id) DO UPDATE
SET
  fail_count = CASE WHEN EXCLUDED.updated_at - sync_limiter.updated_at > $2::interval THEN 1 ELSE sync_limiter.fail_count + 1 END,
  updated_at = now()
RETURNING fail_count`
	var fails int
	if err := l.pool.QueryRow(ctx, q, instanceID, l.window).Scan(&fails); err != nil {
		return false, 0, err
	}
	if l.maxFails <= 0 || fails < l.maxFails {
		return false, 0, nil
	}
	const upd = `UPDATE sync_limiter SET blocked_until=$2 WHERE instance_id=$1`
	if _, err := l.pool.Exec(ctx, upd, instanceID, l.now().Add(l.blockFor)); err != nil {
		return false, 0, err
	}
	return true, l.blockFor, nil
}
