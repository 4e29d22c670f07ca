package mcp

import (
	"context"
	"encoding/json"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	outcome   domain.QueryOutcome
	err       error
	submitted []string
}

func (m *mockQueryService) Submit(_ context.Context, text string) (domain.QueryOutcome, error) {
	m.submitted = append(m.submitted, text)
	return m.outcome, m.err
}

func (m *mockQueryService) Cancel() {}

// mockDatasetService is a mock implementation of driving.DatasetService.
type mockDatasetService struct {
	outcome   domain.SearchOutcome
	preview   domain.Preview
	err       error
	lastReq   domain.SearchRequest
	previewed string
}

func (m *mockDatasetService) Search(_ context.Context, req domain.SearchRequest) (domain.SearchOutcome, error) {
	m.lastReq = req
	return m.outcome, m.err
}

func (m *mockDatasetService) RetrievePreview(_ context.Context, id string) (domain.Preview, error) {
	m.previewed = id
	return m.preview, m.err
}

func (m *mockDatasetService) DownloadURL(id string) string {
	return "http://data.test/api/v1/dataset/" + id + "/download"
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
}

func (m *mockSettingsService) Get() (domain.AppSettings, error) { return m.settings, nil }
func (m *mockSettingsService) Set(_, _ string) error          { return nil }
func (m *mockSettingsService) Keys() []string                 { return nil }

func newTestServer(q *mockQueryService, d *mockDatasetService) *Server {
	s, err := NewServer(&Ports{Query: q, Datasets: d})
	if err != nil {
		panic(err)
	}
	return s
}

func rows(s string) json.RawMessage {
	return json.RawMessage(s)
}
