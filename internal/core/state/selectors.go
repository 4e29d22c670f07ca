package state

import (
	"encoding/json"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

// QueryText returns the stored query text.
func (s *Store) QueryText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.QueryText
}

// QueryStatus returns the lifecycle state of the latest query.
func (s *Store) QueryStatus() domain.QueryStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.QueryStatus
}

// QueryIsLoading reports whether the latest query is in flight.
func (s *Store) QueryIsLoading() bool {
	return s.QueryStatus() == domain.QueryStatusInProgress
}

// QueryData returns the rows of the last successful query.
func (s *Store) QueryData() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.QueryData
}

// QueryFailureMessage returns the message of the last failed query.
func (s *Store) QueryFailureMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.QueryFailure
}

// QueryCancelled reports whether the latest query was cancelled.
func (s *Store) QueryCancelled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.QueryCancelled
}

// UserHasInteracted reports whether the user has edited the query.
func (s *Store) UserHasInteracted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserInteracted
}

// ShouldAutoFetchQuery reports whether a stored query should run without
// user action: text is present, the user has not touched it and nothing
// has been fetched or is being fetched.
func (s *Store) ShouldAutoFetchQuery() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	return st.QueryText != "" &&
		!st.UserInteracted &&
		len(st.QueryData) == 0 &&
		st.QueryStatus == domain.QueryStatusIdle
}

// VisualizationDataSources returns the query rows by column. It is empty
// when there is no tabular data.
func (s *Store) VisualizationDataSources() map[string][]any {
	t, err := domain.DecodeTable(s.QueryData())
	if err != nil {
		return map[string][]any{}
	}
	return domain.DataSources(t)
}

// Datasets returns the current page of search results.
func (s *Store) Datasets() []domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Dataset(nil), s.state.Datasets...)
}

// Facets returns the facet counts of the last search.
func (s *Store) Facets() map[string][]domain.FacetCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Pagination.Facets
}

// TotalDatasets returns the total number of matches of the last search.
func (s *Store) TotalDatasets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Pagination.TotalDatasets
}

// DatasetError returns the failure of the last search, if any.
func (s *Store) DatasetError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.DatasetError
}

// DatasetPreview returns the loaded preview, or nil.
func (s *Store) DatasetPreview() *domain.Preview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Preview
}

// IsLoading reports whether a preview is being fetched.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.PreviewLoading
}

// Chart returns the saved chart definition.
func (s *Store) Chart() domain.Chart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Chart
}
