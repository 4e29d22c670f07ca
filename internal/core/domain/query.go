package domain

import (
	"context"
	"sync"
)

// QueryFailureMessage is the single user-facing message for any failed
// free-text query, whatever the status code or transport fault.
const QueryFailureMessage = "Query failure.  There may be a syntax issue."

// Generation identifies one submission of an orchestrator. Generations
// increase monotonically; zero means "no submission".
type Generation uint64

// QueryStatus is the lifecycle state of the current free-text query.
type QueryStatus string

// Query lifecycle states.
const (
	QueryStatusIdle       QueryStatus = "idle"
	QueryStatusInProgress QueryStatus = "in_progress"
	QueryStatusSucceeded  QueryStatus = "succeeded"
	QueryStatusFailed     QueryStatus = "failed"
	QueryStatusCancelled  QueryStatus = "cancelled"
)

// IsTerminal reports whether the status ends a submission.
func (s QueryStatus) IsTerminal() bool {
	switch s {
	case QueryStatusSucceeded, QueryStatusFailed, QueryStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s QueryStatus) String() string {
	return string(s)
}

// CancellationHandle is an opaque per-request token plus the operation that
// aborts the request's in-flight network call.
type CancellationHandle struct {
	// Token identifies the handle. It carries no meaning beyond identity.
	Token string

	// Generation is the submission this handle was created for.
	Generation Generation

	once   sync.Once
	cancel context.CancelFunc
}

// NewCancellationHandle creates a handle that calls cancel at most once.
func NewCancellationHandle(token string, gen Generation, cancel context.CancelFunc) *CancellationHandle {
	return &CancellationHandle{
		Token:      token,
		Generation: gen,
		cancel:     cancel,
	}
}

// Cancel requests early termination of the request. It is safe to call on a
// nil handle, more than once, and after the request has completed.
func (h *CancellationHandle) Cancel() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		if h.cancel != nil {
			h.cancel()
		}
	})
}
