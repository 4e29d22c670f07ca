package domain

import "encoding/json"

// NoDataMessage is shown when a query produced nothing to visualise.
const NoDataMessage = "Unable to load data. You may need to revise your query."

// Chart is a chart definition as produced by a plotting editor. The
// contents are opaque to the client.
type Chart struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Layout json.RawMessage `json:"layout,omitempty"`
	Frames json.RawMessage `json:"frames,omitempty"`
}

// IsZero reports whether no chart has been saved.
func (c Chart) IsZero() bool {
	return len(c.Data) == 0 && len(c.Layout) == 0 && len(c.Frames) == 0
}

// ChartDocument is the file handed to an external chart editor.
type ChartDocument struct {
	DataSources       map[string][]any   `json:"dataSources"`
	DataSourceOptions []DataSourceOption `json:"dataSourceOptions"`
	Chart             Chart              `json:"chart"`
}

// NewChartDocument builds a chart document from query rows.
func NewChartDocument(t Table, chart Chart) ChartDocument {
	sources := DataSources(t)
	return ChartDocument{
		DataSources:       sources,
		DataSourceOptions: DataSourceOptions(sources),
		Chart:             chart,
	}
}
