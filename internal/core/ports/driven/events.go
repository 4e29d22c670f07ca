package driven

import "github.com/j-drayer/discovery-cli/internal/core/domain"

// EventSink receives outcome events from the orchestrators.
// Emit must not block for long and must be safe for concurrent use.
type EventSink interface {
	Emit(event domain.Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(event domain.Event)

// Emit calls f(event).
func (f EventSinkFunc) Emit(event domain.Event) {
	f(event)
}

// QueryTextReader supplies the query text stored in shared state.
type QueryTextReader interface {
	// QueryText returns the stored text, or "" when none is stored.
	QueryText() string
}
