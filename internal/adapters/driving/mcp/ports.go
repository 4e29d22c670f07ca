package mcp

import (
	"github.com/j-drayer/discovery-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Query runs free-text queries.
	Query driving.QueryService

	// Datasets searches and previews datasets.
	Datasets driving.DatasetService

	// Settings supplies the default page size. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Datasets == nil {
		return ErrMissingDatasetService
	}
	return nil
}
