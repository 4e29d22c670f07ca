package driving

import (
	"context"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

// QueryService runs free-text queries against the data service.
type QueryService interface {
	// Submit runs one query and returns its terminal outcome, which is also
	// emitted as an event. An empty text falls back to the stored text;
	// domain.ErrNoQueryText is returned when there is none.
	Submit(ctx context.Context, text string) (domain.QueryOutcome, error)

	// Cancel cancels the most recently submitted query and emits
	// QueryCancelled. It never fails.
	Cancel()
}
