// Package limiter backs off sync attempts against remote instances that keep failing.
package limiter

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Limiter tracks consecutive sync failures per instance and temporary blocks.
type Limiter interface {
	// Allow reports whether a sync may start now and, if not, the retry-after.
	Allow(ctx context.Context, instanceID uuid.UUID) (bool, time.Duration, error)
	// Success resets counters after a completed run.
	Success(ctx context.Context, instanceID uuid.UUID) error
	// Failure records a failed run; may place a temporary block.
	Failure(ctx context.Context, instanceID uuid.UUID) (bool, time.Duration, error)
}

// Nop never blocks.
type Nop struct{}

// Allow always allows.
func (Nop) Allow(context.Context, uuid.UUID) (bool, time.Duration, error) { return true, 0, nil }

// Success does nothing.
func (Nop) Success(context.Context, uuid.UUID) error { return nil }

// Failure does nothing.
func (Nop) Failure(context.Context, uuid.UUID) (bool, time.Duration, error) { return false, 0, nil }
