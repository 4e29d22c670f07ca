package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/keymap"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/messages"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/styles"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/views/datasets"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/views/menu"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/views/query"
	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/services"
	"github.com/j-drayer/discovery-cli/internal/logger"
)

// eventBuffer is the subscription buffer. Events beyond it are dropped by
// the store rather than blocking emitters.
const eventBuffer = 64

// App is the main TUI application following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	runner *services.Runner

	events      <-chan domain.Event
	unsubscribe func()

	menuView     *menu.View
	queryView    *query.View
	datasetsView *datasets.View

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the application and subscribes to state events. Call
// Close when the program has exited.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	var host string
	pageSize := domain.DefaultPageSize
	if ports.Settings != nil {
		settings, err := ports.Settings.Get()
		if err != nil {
			logger.Warn("tui: settings: %v", err)
		}
		host = settings.API.Host
		if settings.Search.PageSize > 0 {
			pageSize = settings.Search.PageSize
		}
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	runner := services.NewRunner(ports.Query, ports.Datasets)
	events, unsubscribe := ports.State.Subscribe(eventBuffer)

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		runner:       runner,
		events:       events,
		unsubscribe:  unsubscribe,
		menuView:     menu.NewView(s, host),
		queryView:    query.NewView(s, km, runner, ports.State),
		datasetsView: datasets.NewView(s, km, runner, ports.Datasets, pageSize),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context requests run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.queryView.WithContext(ctx)
	a.datasetsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("discovery"),
		a.listen(),
	)
}

// listen waits for the next state event.
func (a *App) listen() tea.Cmd {
	events := a.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return messages.StateChanged{Event: ev}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.StateChanged:
		// Both views track state so switching back shows current results.
		var qcmd, dcmd tea.Cmd
		a.queryView, qcmd = a.queryView.Update(msg)
		a.datasetsView, dcmd = a.datasetsView.Update(msg)
		return a, tea.Batch(qcmd, dcmd, a.listen())

	case messages.TaskFinished:
		switch msg.View {
		case messages.ViewQuery:
			a.queryView, cmd = a.queryView.Update(msg)
		case messages.ViewDatasets:
			a.datasetsView, cmd = a.datasetsView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp:
		}
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case spinner.TickMsg:
		// Spinners ignore ticks carrying another spinner's ID.
		var qcmd, dcmd tea.Cmd
		a.queryView, qcmd = a.queryView.Update(msg)
		a.datasetsView, dcmd = a.datasetsView.Update(msg)
		return a, tea.Batch(qcmd, dcmd)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewQuery:
			return a, a.queryView.Init()
		case messages.ViewDatasets:
			return a, a.datasetsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewQuery:
		a.queryView, cmd = a.queryView.Update(msg)
	case messages.ViewDatasets:
		a.datasetsView, cmd = a.datasetsView.Update(msg)
	case messages.ViewHelp:
		if key, ok := msg.(tea.KeyMsg); ok && (key.Type == tea.KeyEsc || key.String() == "q") {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewQuery:
		return a.queryView.View()
	case messages.ViewDatasets:
		return a.datasetsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
		return a.menuView.View()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Global:
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Query:
  (type)      Edit the query
  enter       Run the query
  tab         Switch between query and results
  esc         Cancel a running query, otherwise back to menu

Datasets:
  (type)      Edit the search text
  enter       Search, or preview the highlighted dataset
  n/→  p/←    Next and previous page
  tab         Switch between search box and results
  esc         Close the preview, otherwise back to menu

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Close ends the state subscription and waits for running tasks. Cancel
// the app context first so in-flight requests return promptly.
func (a *App) Close() error {
	a.unsubscribe()
	return a.runner.Wait()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last task error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.queryView.SetDimensions(width, height)
	a.datasetsView.SetDimensions(width, height)
}
