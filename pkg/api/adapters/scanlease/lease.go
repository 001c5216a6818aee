// Package scanlease backs the scan worker's per-account exclusion lease with
// a Postgres session-scoped advisory lock, via runtime_states.Service.
package scanlease

import (
	"context"
	"hash/fnv"

	"github.com/parentwatch/scanguard/pkg/api/business/runtime_states"
)

// Lease implements scan.Lease on top of a pg_try_advisory_lock-backed
// runtime_states.Service, so two workers never scan the same linked account
// concurrently even across process restarts.
type Lease struct {
	states *runtime_states.Service
}

func New(states *runtime_states.Service) *Lease {
	return &Lease{states: states}
}

// TryAcquire hashes linkedAccountID into an advisory lock ID and attempts a
// non-blocking acquire. The caller must invoke the returned release func
// exactly once regardless of whether acquired is true, matching
// TryAdvisoryLock's session-scoped semantics (a failed acquire still holds
// no lock, so release is a no-op in that case).
func (l *Lease) TryAcquire(ctx context.Context, linkedAccountID string) (bool, func(), error) {
	lockID := lockIDFor(linkedAccountID)

	acquired, err := l.states.TryLock(ctx, lockID)
	if err != nil {
		return false, func() {}, err
	}

	if !acquired {
		return false, func() {}, nil
	}

	release := func() {
		_ = l.states.ReleaseLock(ctx, lockID)
	}

	return true, release, nil
}

func lockIDFor(linkedAccountID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("scan:" + linkedAccountID))

	return int64(h.Sum64()) //nolint:gosec
}
