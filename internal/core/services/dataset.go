package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driven"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driving"
	"github.com/j-drayer/discovery-cli/internal/logger"
	"github.com/j-drayer/discovery-cli/internal/metrics"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// SearchPath is the dataset search endpoint.
const SearchPath = "/api/v1/dataset/search"

// DatasetService searches the dataset index. Every call is independent:
// concurrent searches are neither serialised nor cancelled.
type DatasetService struct {
	dispatcher driven.Dispatcher
	sink       driven.EventSink
	gen        atomic.Uint64
}

// NewDatasetService creates a dataset service.
func NewDatasetService(dispatcher driven.Dispatcher, sink driven.EventSink) *DatasetService {
	return &DatasetService{
		dispatcher: dispatcher,
		sink:       sink,
	}
}

// Search runs one dataset search and emits its outcome. Failures are
// reported raw: *domain.APIError for a non-2xx status, the transport or
// decode error otherwise.
func (s *DatasetService) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	gen := domain.Generation(s.gen.Add(1))
	logger.Debug("search %d: query=%q offset=%d limit=%d", gen, req.Query, req.Offset, req.Limit)

	outcome := invoke(ctx, s.dispatcher, invocation[domain.SearchOutcome]{
		Request: driven.Request{
			Method: http.MethodGet,
			Path:   SearchPath,
			Params: req,
		},
		Accept: Status2xx,
		Success: func(resp *driven.Response) domain.SearchOutcome {
			var page domain.SearchPage
			if err := json.Unmarshal(resp.Body, &page); err != nil {
				return domain.DatasetListFailed{Generation: gen, Err: fmt.Errorf("decoding search results: %w", err)}
			}
			if page.Results == nil {
				page.Results = []domain.Dataset{}
			}
			return domain.DatasetListUpdated{Generation: gen, Page: page}
		},
		Failure: func(resp *driven.Response, err error) domain.SearchOutcome {
			if err != nil {
				return domain.DatasetListFailed{Generation: gen, Err: err}
			}
			return domain.DatasetListFailed{Generation: gen, Err: apiError(resp, SearchPath)}
		},
	})

	metrics.ObserveOutcome(outcome.EventName())
	s.sink.Emit(outcome)
	return outcome, nil
}

// RetrievePreview fetches the sample rows of a dataset and emits
// DatasetPreviewLoaded or DatasetPreviewFailed.
func (s *DatasetService) RetrievePreview(ctx context.Context, datasetID string) (domain.Preview, error) {
	if datasetID == "" {
		return domain.Preview{}, fmt.Errorf("%w: dataset id is required", domain.ErrInvalidInput)
	}

	path := domain.PreviewPath(datasetID)
	s.sink.Emit(domain.DatasetPreviewRequested{DatasetID: datasetID})

	type result struct {
		preview domain.Preview
		err     error
	}
	res := invoke(ctx, s.dispatcher, invocation[result]{
		Request: driven.Request{Method: http.MethodGet, Path: path},
		Accept:  Status2xx,
		Success: func(resp *driven.Response) result {
			p, err := domain.DecodePreview(resp.Body)
			return result{preview: p, err: err}
		},
		Failure: func(resp *driven.Response, err error) result {
			if err != nil {
				return result{err: err}
			}
			return result{err: apiError(resp, path)}
		},
	})

	if res.err != nil {
		logger.Debug("preview %s: %v", datasetID, res.err)
		s.sink.Emit(domain.DatasetPreviewFailed{DatasetID: datasetID, Err: res.err})
		return domain.Preview{}, res.err
	}
	s.sink.Emit(domain.DatasetPreviewLoaded{DatasetID: datasetID, Preview: res.preview})
	return res.preview, nil
}

// DownloadURL returns the download link of a dataset. Without a linking
// dispatcher the relative path is returned.
func (s *DatasetService) DownloadURL(datasetID string) string {
	path := domain.DownloadPath(datasetID)
	if l, ok := s.dispatcher.(driven.Linker); ok {
		return l.URL(path)
	}
	return path
}

func apiError(resp *driven.Response, path string) *domain.APIError {
	return &domain.APIError{StatusCode: resp.StatusCode, Path: path, Body: resp.Body}
}
