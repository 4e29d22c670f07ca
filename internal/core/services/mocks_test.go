package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driven"
)

// mockDispatcher implements driven.Dispatcher with testify/mock.
type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, req driven.Request) (*driven.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*driven.Response)
	return resp, args.Error(1)
}

// linkingDispatcher adds driven.Linker to mockDispatcher.
type linkingDispatcher struct {
	mockDispatcher
	base string
}

func (l *linkingDispatcher) URL(path string) string {
	return l.base + path
}

// recordingSink implements driven.EventSink and keeps every event.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
	ch     chan domain.Event
}

func newRecordingSink() *recordingSink {
	return &recordingSink{ch: make(chan domain.Event, 64)}
}

func (s *recordingSink) Emit(e domain.Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
	select {
	case s.ch <- e:
	default:
	}
}

func (s *recordingSink) Events() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

// next waits for the next emitted event.
func (s *recordingSink) next(t *testing.T) domain.Event {
	t.Helper()
	select {
	case e := <-s.ch:
		return e
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for event")
		return nil
	}
}

// staticText implements driven.QueryTextReader.
type staticText string

func (s staticText) QueryText() string {
	return string(s)
}

func respondOK(body string) *driven.Response {
	return &driven.Response{StatusCode: 200, Body: []byte(body)}
}

func respond(code int, body string) *driven.Response {
	return &driven.Response{StatusCode: code, Body: []byte(body)}
}
