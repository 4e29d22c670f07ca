package domain

import "encoding/json"

// Event is an outcome or state change delivered to the state container.
type Event interface {
	// EventName returns a stable name for logging and metrics.
	EventName() string
}

// QueryOutcome is an event describing the status of a free-text query
// submission.
type QueryOutcome interface {
	Event
	QueryGeneration() Generation
}

// SearchOutcome is an event describing the result of a dataset search.
type SearchOutcome interface {
	Event
	SearchGeneration() Generation
}

// QueryInProgress is emitted before the query is dispatched.
type QueryInProgress struct {
	Generation Generation
	Handle     *CancellationHandle
}

// QuerySucceeded carries the response body of a query answered with 200.
type QuerySucceeded struct {
	Generation Generation

	// Rows is the response body exactly as the transport returned it.
	Rows json.RawMessage
}

// QueryFailed is emitted for any non-200 status or transport fault.
type QueryFailed struct {
	Generation Generation
	Message    string
}

// QueryCancelled is emitted when the user cancels the stored query.
// Generation is zero when no query had been submitted.
type QueryCancelled struct {
	Generation Generation
}

// QueryTextSet stores query text typed by the user.
type QueryTextSet struct {
	Text string
}

// UserInteracted records that the user touched the query editor.
type UserInteracted struct{}

// DatasetListUpdated carries a page of dataset search results.
type DatasetListUpdated struct {
	Generation Generation
	Page       SearchPage
}

// DatasetListFailed carries the raw failure of a dataset search.
type DatasetListFailed struct {
	Generation Generation
	Err        error
}

// DatasetPreviewRequested is emitted before a preview is fetched.
type DatasetPreviewRequested struct {
	DatasetID string
}

// DatasetPreviewLoaded carries the sample rows of a dataset.
type DatasetPreviewLoaded struct {
	DatasetID string
	Preview   Preview
}

// DatasetPreviewFailed signals that a preview could not be retrieved.
type DatasetPreviewFailed struct {
	DatasetID string
	Err       error
}

// ChartSaved stores the chart definition produced by a chart editor.
type ChartSaved struct {
	Chart Chart
}

func (QueryInProgress) EventName() string         { return "query_in_progress" }
func (QuerySucceeded) EventName() string          { return "query_succeeded" }
func (QueryFailed) EventName() string             { return "query_failed" }
func (QueryCancelled) EventName() string          { return "query_cancelled" }
func (QueryTextSet) EventName() string            { return "query_text_set" }
func (UserInteracted) EventName() string          { return "user_interacted" }
func (DatasetListUpdated) EventName() string      { return "dataset_list_updated" }
func (DatasetListFailed) EventName() string       { return "dataset_list_failed" }
func (DatasetPreviewRequested) EventName() string { return "dataset_preview_requested" }
func (DatasetPreviewLoaded) EventName() string    { return "dataset_preview_loaded" }
func (DatasetPreviewFailed) EventName() string    { return "dataset_preview_failed" }
func (ChartSaved) EventName() string              { return "chart_saved" }

// QueryGeneration implements QueryOutcome.
func (e QueryInProgress) QueryGeneration() Generation { return e.Generation }

// QueryGeneration implements QueryOutcome.
func (e QuerySucceeded) QueryGeneration() Generation { return e.Generation }

// QueryGeneration implements QueryOutcome.
func (e QueryFailed) QueryGeneration() Generation { return e.Generation }

// QueryGeneration implements QueryOutcome.
func (e QueryCancelled) QueryGeneration() Generation { return e.Generation }

// SearchGeneration implements SearchOutcome.
func (e DatasetListUpdated) SearchGeneration() Generation { return e.Generation }

// SearchGeneration implements SearchOutcome.
func (e DatasetListFailed) SearchGeneration() Generation { return e.Generation }
