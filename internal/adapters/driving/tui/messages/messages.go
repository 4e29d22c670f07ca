// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewQuery is the free-text query view.
	ViewQuery
	// ViewDatasets is the dataset search view.
	ViewDatasets
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewQuery:
		return "query"
	case ViewDatasets:
		return "datasets"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// StateChanged carries an event applied by the state store. Stale
// outcomes never arrive here.
type StateChanged struct {
	Event domain.Event
}

// TaskFinished reports that a background task returned. Outcomes arrive
// separately as StateChanged; only task errors such as local validation
// failures are carried here.
type TaskFinished struct {
	View ViewType
	Err  error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
