// Package tui provides the interactive terminal interface for discovery.
// It is a driving adapter: every action goes through a driving port and
// every result comes back as a state event.
package tui

import (
	"github.com/j-drayer/discovery-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Query runs free-text queries.
	Query driving.QueryService

	// Datasets searches and previews datasets.
	Datasets driving.DatasetService

	// State delivers applied events and the stored query text.
	State driving.StateReader

	// Settings is optional. It supplies the API host shown in the menu
	// and the search page size.
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
	if p.State == nil {
		return ErrMissingState
	}
	return nil
}
