// Package registry tracks which remediation actions have been executed during
// the current session. State is held only in memory and discarded with the
// process; the tracker is deliberately ephemeral and view-only.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pnl-insights/internal/insights"
)

type pairKey struct {
	cardID    int
	actionKey string
}

// Registry is the per-session action state machine. Each (card, action) pair
// moves Pending -> Completed exactly once; there is no reverse transition and
// no delete path.
type Registry struct {
	mu         sync.RWMutex
	completed  map[pairKey]struct{}
	operations []insights.Operation
	now        func() time.Time
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		completed: make(map[pairKey]struct{}),
		now:       time.Now,
	}
}

// IsCompleted reports whether the pair has been completed this session.
// Absent pairs are Pending.
func (r *Registry) IsCompleted(cardID int, actionKey string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.completed[pairKey{cardID, actionKey}]
	return ok
}

// Complete marks the pair completed and appends an Operation built from the
// template. It returns the recorded operation and whether this call created
// it. Completing an already-completed pair is a no-op: no duplicate
// operation, no error.
func (r *Registry) Complete(cardID int, actionKey string, tmpl insights.OperationTemplate) (insights.Operation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{cardID, actionKey}
	if _, ok := r.completed[key]; ok {
		return insights.Operation{}, false
	}
	r.completed[key] = struct{}{}

	op := insights.Operation{
		ID:                 uuid.NewString(),
		Name:               tmpl.Name,
		Type:               tmpl.Type,
		Impact:             tmpl.Impact,
		ExpectedCompletion: tmpl.ExpectedCompletion,
		StartedAt:          r.now().UTC(),
		Status:             insights.OperationStatusInProgress,
	}
	r.operations = append(r.operations, op)
	return op, true
}

// Operations returns the session's operations in insertion order,
// most-recent-last. The returned slice is a copy.
func (r *Registry) Operations() []insights.Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]insights.Operation, len(r.operations))
	copy(out, r.operations)
	return out
}
