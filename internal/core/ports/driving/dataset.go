package driving

import (
	"context"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

// DatasetService searches and previews datasets.
type DatasetService interface {
	// Search runs one dataset search and returns its outcome, which is also
	// emitted as an event. Invalid requests fail locally with
	// domain.ErrInvalidInput.
	Search(ctx context.Context, req domain.SearchRequest) (domain.SearchOutcome, error)

	// RetrievePreview fetches sample rows of a dataset.
	RetrievePreview(ctx context.Context, datasetID string) (domain.Preview, error)

	// DownloadURL returns the absolute download link of a dataset.
	DownloadURL(datasetID string) string
}
