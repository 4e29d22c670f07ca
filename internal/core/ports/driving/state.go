package driving

import "github.com/j-drayer/discovery-cli/internal/core/domain"

// StateReader exposes the state container to presentation adapters.
type StateReader interface {
	// Emit applies a user-originated event such as QueryTextSet.
	Emit(event domain.Event)

	// Subscribe returns a channel of applied events and a function that
	// ends the subscription.
	Subscribe(buffer int) (<-chan domain.Event, func())

	// QueryText returns the stored query text.
	QueryText() string

	// ShouldAutoFetchQuery reports whether a stored query should run
	// without the user asking: text is present, the user has not
	// interacted and no query has run yet.
	ShouldAutoFetchQuery() bool
}
