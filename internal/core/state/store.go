// Package state holds the client-side state that outcome events are reduced
// into. Store is the single consumer of events from the orchestrators and
// the source of truth for presentation adapters.
package state

import (
	"encoding/json"
	"sync"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driven"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driving"
	"github.com/j-drayer/discovery-cli/internal/logger"
)

// Ensure Store implements the ports it serves.
var (
	_ driven.EventSink       = (*Store)(nil)
	_ driven.QueryTextReader = (*Store)(nil)
	_ driving.StateReader    = (*Store)(nil)
)

// State is a snapshot of everything the client knows.
type State struct {
	// Free-text query.
	QueryText       string
	UserInteracted  bool
	QueryStatus     domain.QueryStatus
	QueryGeneration domain.Generation
	QueryHandle     *domain.CancellationHandle
	QueryData       json.RawMessage
	QueryFailure    string
	QueryCancelled  bool

	// Dataset search.
	SearchGeneration domain.Generation
	Datasets         []domain.Dataset
	Pagination       domain.Pagination
	DatasetError     error

	// Dataset preview.
	PreviewDatasetID string
	PreviewLoading   bool
	Preview          *domain.Preview
	PreviewError     error

	Chart domain.Chart
}

// Store reduces events into State and fans applied events out to
// subscribers. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[int]chan domain.Event
	nextID int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		state: State{QueryStatus: domain.QueryStatusIdle},
		subs:  make(map[int]chan domain.Event),
	}
}

// Emit applies an event. Stale outcomes, those belonging to a superseded or
// cancelled submission, are discarded and not forwarded.
func (s *Store) Emit(event domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !reduce(&s.state, event) {
		logger.Debug("state: discarding stale %s", event.EventName())
		return
	}

	for id, ch := range s.subs {
		select {
		case ch <- event:
		default:
			logger.Warn("state: subscriber %d is full, dropping %s", id, event.EventName())
		}
	}
}

// Subscribe returns a channel receiving every applied event and a function
// that ends the subscription and closes the channel. Delivery never blocks
// Emit: events are dropped when the buffer is full.
func (s *Store) Subscribe(buffer int) (<-chan domain.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan domain.Event, buffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Datasets = append([]domain.Dataset(nil), s.state.Datasets...)
	return snap
}

// reduce applies event to st and reports whether it was applied.
func reduce(st *State, event domain.Event) bool {
	switch e := event.(type) {
	case domain.QueryTextSet:
		st.QueryText = e.Text
	case domain.UserInteracted:
		st.UserInteracted = true

	case domain.QueryInProgress:
		if e.Generation < st.QueryGeneration {
			return false
		}
		st.QueryGeneration = e.Generation
		st.QueryHandle = e.Handle
		st.QueryStatus = domain.QueryStatusInProgress
		st.QueryFailure = ""
		st.QueryCancelled = false
	case domain.QuerySucceeded:
		if !isCurrentQuery(st, e.Generation) {
			return false
		}
		st.QueryStatus = domain.QueryStatusSucceeded
		st.QueryData = e.Rows
		st.QueryFailure = ""
	case domain.QueryFailed:
		if !isCurrentQuery(st, e.Generation) {
			return false
		}
		st.QueryStatus = domain.QueryStatusFailed
		st.QueryData = nil
		st.QueryFailure = e.Message
	case domain.QueryCancelled:
		if e.Generation != st.QueryGeneration {
			return false
		}
		st.QueryCancelled = true
		if st.QueryStatus == domain.QueryStatusInProgress {
			st.QueryStatus = domain.QueryStatusCancelled
		}

	case domain.DatasetListUpdated:
		if e.Generation < st.SearchGeneration {
			return false
		}
		st.SearchGeneration = e.Generation
		st.Datasets = e.Page.Results
		st.Pagination = e.Page.Metadata
		st.DatasetError = nil
	case domain.DatasetListFailed:
		if e.Generation < st.SearchGeneration {
			return false
		}
		st.SearchGeneration = e.Generation
		st.DatasetError = e.Err

	case domain.DatasetPreviewRequested:
		st.PreviewDatasetID = e.DatasetID
		st.PreviewLoading = true
		st.Preview = nil
		st.PreviewError = nil
	case domain.DatasetPreviewLoaded:
		if e.DatasetID != st.PreviewDatasetID {
			return false
		}
		preview := e.Preview
		st.Preview = &preview
		st.PreviewLoading = false
	case domain.DatasetPreviewFailed:
		if e.DatasetID != st.PreviewDatasetID {
			return false
		}
		st.PreviewError = e.Err
		st.PreviewLoading = false

	case domain.ChartSaved:
		st.Chart = e.Chart
	default:
		return false
	}
	return true
}

// isCurrentQuery reports whether a terminal outcome for gen may be applied:
// it must belong to the latest submission, which must still be running.
func isCurrentQuery(st *State, gen domain.Generation) bool {
	return gen == st.QueryGeneration && st.QueryStatus == domain.QueryStatusInProgress
}
