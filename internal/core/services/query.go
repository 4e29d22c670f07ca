package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driven"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driving"
	"github.com/j-drayer/discovery-cli/internal/logger"
	"github.com/j-drayer/discovery-cli/internal/metrics"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryPath is the free-text query endpoint.
const QueryPath = "/api/v1/query"

// QueryService runs free-text queries. It keeps a single cancellation slot
// holding the handle of the most recent submission.
type QueryService struct {
	dispatcher driven.Dispatcher
	sink       driven.EventSink
	text       driven.QueryTextReader

	gen atomic.Uint64

	mu     sync.Mutex
	handle *domain.CancellationHandle
}

// NewQueryService creates a query service. text may be nil, in which case
// submissions must carry their own text.
func NewQueryService(dispatcher driven.Dispatcher, sink driven.EventSink, text driven.QueryTextReader) *QueryService {
	return &QueryService{
		dispatcher: dispatcher,
		sink:       sink,
		text:       text,
	}
}

// Submit runs one query. Empty text falls back to the stored query text.
// The returned outcome is QuerySucceeded or QueryFailed; the only error is
// domain.ErrNoQueryText, returned before anything is emitted or sent.
func (s *QueryService) Submit(ctx context.Context, text string) (domain.QueryOutcome, error) {
	if text == "" && s.text != nil {
		text = s.text.QueryText()
	}
	if text == "" {
		return nil, domain.ErrNoQueryText
	}

	gen := domain.Generation(s.gen.Add(1))
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	handle := domain.NewCancellationHandle(uuid.NewString(), gen, cancel)
	s.mu.Lock()
	s.handle = handle
	s.mu.Unlock()
	reqCtx = logger.ContextWithLogger(reqCtx, logger.L().With(zap.String("submission", handle.Token)))

	logger.Debug("query %d: submitting %d bytes", gen, len(text))
	s.sink.Emit(domain.QueryInProgress{Generation: gen, Handle: handle})

	outcome := invoke(reqCtx, s.dispatcher, invocation[domain.QueryOutcome]{
		Request: driven.Request{
			Method:      http.MethodPost,
			Path:        QueryPath,
			Body:        []byte(text),
			ContentType: driven.ContentTypeText,
		},
		Success: func(resp *driven.Response) domain.QueryOutcome {
			return domain.QuerySucceeded{Generation: gen, Rows: json.RawMessage(resp.Body)}
		},
		Failure: func(resp *driven.Response, err error) domain.QueryOutcome {
			if err != nil {
				logger.Debug("query %d: dispatch failed: %v", gen, err)
			} else {
				logger.Debug("query %d: rejected with status %d", gen, resp.StatusCode)
			}
			return domain.QueryFailed{Generation: gen, Message: domain.QueryFailureMessage}
		},
	})

	metrics.ObserveOutcome(outcome.EventName())
	s.sink.Emit(outcome)
	return outcome, nil
}

// Cancel cancels whatever request holds the slot, which may be newer than
// the one the caller had in mind, and emits QueryCancelled.
func (s *QueryService) Cancel() {
	s.mu.Lock()
	h := s.handle
	s.mu.Unlock()

	var gen domain.Generation
	if h != nil {
		gen = h.Generation
		h.Cancel()
	}

	logger.Debug("query %d: cancelled", gen)
	metrics.ObserveOutcome(domain.QueryCancelled{}.EventName())
	s.sink.Emit(domain.QueryCancelled{Generation: gen})
}
