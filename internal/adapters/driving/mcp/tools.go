package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

// QueryInput is the input schema for the run_query tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the free-text query to run"`
}

// QueryOutput is the output schema for the run_query tool.
type QueryOutput struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
	// Raw holds the response when it is not a list of rows.
	Raw string `json:"raw,omitempty"`
}

// SearchDatasetsInput is the input schema for the search_datasets tool.
type SearchDatasetsInput struct {
	Query         string              `json:"query,omitempty" jsonschema:"text to search dataset names and descriptions for"`
	Page          int                 `json:"page,omitempty" jsonschema:"page number starting at 1 (default 1)"`
	Limit         int                 `json:"limit,omitempty" jsonschema:"datasets per page (default 10)"`
	Sort          string              `json:"sort,omitempty" jsonschema:"sort order such as name_asc"`
	Facets        map[string][]string `json:"facets,omitempty" jsonschema:"selected facet values keyed by facet name"`
	APIAccessible bool                `json:"api_accessible,omitempty" jsonschema:"only return datasets accessible through the API"`
}

// SearchDatasetsOutput is the output schema for the search_datasets tool.
type SearchDatasetsOutput struct {
	Datasets []DatasetOutput                `json:"datasets"`
	Total    int                            `json:"total"`
	Page     int                            `json:"page"`
	HasNext  bool                           `json:"has_next"`
	Facets   map[string][]domain.FacetCount `json:"facets,omitempty"`
}

// DatasetOutput represents a single dataset.
type DatasetOutput struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Organization string   `json:"organization,omitempty"`
	FileTypes    []string `json:"file_types,omitempty"`
	Download     string   `json:"download"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "run_query",
		Description: "Run a free-text query against the data service and return the resulting rows",
	}, s.handleRunQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_datasets",
		Description: "Search the dataset catalogue by text and facets, one page at a time",
	}, s.handleSearchDatasets)
}

// handleRunQuery handles the run_query tool invocation.
func (s *Server) handleRunQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	outcome, err := s.ports.Query.Submit(ctx, input.Query)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	switch o := outcome.(type) {
	case domain.QuerySucceeded:
		t, err := domain.DecodeTable(o.Rows)
		if err != nil {
			return nil, QueryOutput{Columns: []string{}, Rows: []map[string]any{}, Raw: string(o.Rows)}, nil
		}
		columns := t.Columns
		if columns == nil {
			columns = []string{}
		}
		return nil, QueryOutput{Columns: columns, Rows: t.Rows, RowCount: t.Len()}, nil
	case domain.QueryFailed:
		return nil, QueryOutput{}, errors.New(o.Message)
	default:
		return nil, QueryOutput{}, fmt.Errorf("query ended with %s", outcome.EventName())
	}
}

// handleSearchDatasets handles the search_datasets tool invocation.
func (s *Server) handleSearchDatasets(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchDatasetsInput,
) (*mcp.CallToolResult, SearchDatasetsOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	params := domain.DatasetSearchParams{
		Page:          page,
		SearchText:    input.Query,
		SortOrder:     input.Sort,
		Facets:        input.Facets,
		APIAccessible: input.APIAccessible,
	}
	req := params.Request(s.pageSize(input.Limit))

	outcome, err := s.ports.Datasets.Search(ctx, req)
	if err != nil {
		return nil, SearchDatasetsOutput{}, err
	}

	switch o := outcome.(type) {
	case domain.DatasetListUpdated:
		output := SearchDatasetsOutput{
			Datasets: make([]DatasetOutput, len(o.Page.Results)),
			Total:    o.Page.Metadata.TotalDatasets,
			Page:     page,
			HasNext:  o.Page.HasNext(),
			Facets:   o.Page.Metadata.Facets,
		}
		for i, d := range o.Page.Results {
			output.Datasets[i] = DatasetOutput{
				ID:           d.ID,
				Title:        d.DisplayTitle(),
				Description:  d.Description,
				Organization: d.Organization.Title,
				FileTypes:    d.FileTypes,
				Download:     s.ports.Datasets.DownloadURL(d.ID),
			}
		}
		return nil, output, nil
	case domain.DatasetListFailed:
		return nil, SearchDatasetsOutput{}, o.Err
	default:
		return nil, SearchDatasetsOutput{}, fmt.Errorf("search ended with %s", outcome.EventName())
	}
}

func (s *Server) pageSize(requested int) int {
	if requested > 0 {
		return requested
	}
	if s.ports.Settings != nil {
		if settings, err := s.ports.Settings.Get(); err == nil {
			return settings.Search.PageSize
		}
	}
	return domain.DefaultPageSize
}
