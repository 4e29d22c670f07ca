package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
)

// DefaultPageSize is the number of datasets requested per search page.
const DefaultPageSize = 10

// FacetSelection maps a facet name to the selected values.
// It is sent as a single JSON-encoded query parameter.
type FacetSelection map[string][]string

// EncodeValues implements the query-string encoder interface.
func (f FacetSelection) EncodeValues(key string, v *url.Values) error {
	if len(f) == 0 {
		return nil
	}
	data, err := json.Marshal(map[string][]string(f))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	v.Set(key, string(data))
	return nil
}

// PassThrough holds additional query parameters forwarded verbatim.
type PassThrough map[string]string

// EncodeValues implements the query-string encoder interface. Each entry is
// added under its own name; the field key is ignored.
func (p PassThrough) EncodeValues(_ string, v *url.Values) error {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Add(k, p[k])
	}
	return nil
}

// SearchRequest holds the parameters of one dataset search. Field tags name
// the query parameters sent to the dataset index.
type SearchRequest struct {
	// Offset is the number of results to skip.
	Offset int `url:"offset"`

	// Limit is the maximum number of results to return.
	Limit int `url:"limit"`

	// Sort is the sort key, e.g. "name_asc" or "last_mod".
	Sort string `url:"sort,omitempty"`

	// Query is the free-text search term.
	Query string `url:"query"`

	// Facets filters results to the selected facet values.
	Facets FacetSelection `url:"facets,omitempty"`

	// APIAccessible restricts results to datasets reachable through the API.
	APIAccessible bool `url:"apiAccessible"`

	// Extra carries pass-through parameters.
	Extra PassThrough `url:"extra,omitempty"`
}

// Validate checks the numeric constraints of the request.
func (r SearchRequest) Validate() error {
	if r.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidInput, r.Offset)
	}
	if r.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidInput, r.Limit)
	}
	return nil
}

// DatasetSearchParams is the search form as the user fills it in.
type DatasetSearchParams struct {
	Page          int
	SearchText    string
	SortOrder     string
	Facets        FacetSelection
	APIAccessible bool
}

// Request converts the form into a SearchRequest. A page below 1 is treated
// as the first page and a non-positive limit as DefaultPageSize.
func (p DatasetSearchParams) Request(limit int) SearchRequest {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return SearchRequest{
		Offset:        (page - 1) * limit,
		Limit:         limit,
		Sort:          p.SortOrder,
		Query:         p.SearchText,
		Facets:        p.Facets,
		APIAccessible: p.APIAccessible,
	}
}

// Organization owns datasets.
type Organization struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Image string `json:"image,omitempty"`
}

// Dataset is one entry of the dataset index.
type Dataset struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	Title        string       `json:"title,omitempty"`
	Description  string       `json:"description,omitempty"`
	Keywords     []string     `json:"keywords,omitempty"`
	Organization Organization `json:"organization,omitempty"`
	FileTypes    []string     `json:"fileTypes,omitempty"`
	SourceType   string       `json:"sourceType,omitempty"`
	SystemName   string       `json:"systemName,omitempty"`
	Modified     string       `json:"modified,omitempty"`
	Private      bool         `json:"private,omitempty"`
}

// DisplayTitle returns the title, falling back to the name and then the ID.
func (d Dataset) DisplayTitle() string {
	switch {
	case d.Title != "":
		return d.Title
	case d.Name != "":
		return d.Name
	default:
		return d.ID
	}
}

// FacetCount is the number of datasets carrying one facet value.
type FacetCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	TotalDatasets int                     `json:"totalDatasets"`
	Limit         int                     `json:"limit"`
	Offset        int                     `json:"offset"`
	Facets        map[string][]FacetCount `json:"facets,omitempty"`
}

// SearchPage is one page of dataset search results.
type SearchPage struct {
	Results  []Dataset  `json:"results"`
	Metadata Pagination `json:"metadata"`
}

// HasNext reports whether more results follow this page.
func (p SearchPage) HasNext() bool {
	return p.Metadata.Offset+len(p.Results) < p.Metadata.TotalDatasets
}

// DownloadPath returns the path of the direct download link of a dataset.
func DownloadPath(datasetID string) string {
	return "/api/v1/dataset/" + url.PathEscape(datasetID) + "/download"
}

// PreviewPath returns the path of the preview endpoint of a dataset.
func PreviewPath(datasetID string) string {
	return "/api/v1/dataset/" + url.PathEscape(datasetID) + "/preview"
}
