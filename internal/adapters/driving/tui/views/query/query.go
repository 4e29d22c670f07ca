// Package query provides the free-text query view for the TUI.
package query

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/components/input"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/components/results"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/components/status"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/keymap"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/messages"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/styles"
	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driving"
	"github.com/j-drayer/discovery-cli/internal/core/services"
)

// View edits and runs a free-text query and shows its rows.
// Outcomes are read from state events, never from task results, so a
// superseded submission cannot overwrite a newer one.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.TextInput
	table     *results.Table
	statusbar *status.Bar
	spinner   spinner.Model

	runner *services.Runner
	state  driving.StateReader
	ctx    context.Context

	running    bool
	interacted bool
	failure    string
	notice     string
	width      int
	height     int
	ready      bool
}

// NewView creates a query view.
func NewView(s *styles.Styles, km *keymap.KeyMap, runner *services.Runner, state driving.StateReader) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner))
	bar := status.NewBar(s, km)
	bar.SetHints(km.QueryHelp())

	in := input.New(s, "Query", "select * from trips limit 10")
	in.Focus()

	return &View{
		styles:    s,
		keymap:    km,
		input:     in,
		table:     results.New(s),
		statusbar: bar,
		spinner:   sp,
		runner:    runner,
		state:     state,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context submissions run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init restores the stored query text and runs it when nothing has been
// fetched yet and the user has not edited it.
func (v *View) Init() tea.Cmd {
	cmds := []tea.Cmd{v.input.Init()}
	if text := v.state.QueryText(); text != "" && v.input.Value() == "" {
		v.input.SetValue(text)
	}
	if v.state.ShouldAutoFetchQuery() {
		cmds = append(cmds, v.submit(""))
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the query view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case spinner.TickMsg:
		if !v.running {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.StateChanged:
		v.handleEvent(msg.Event)
		return v, nil

	case messages.TaskFinished:
		if msg.Err != nil {
			v.running = false
			v.failure = msg.Err.Error()
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(v.failure)
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		if v.running {
			return v, v.cancel()
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(k, v.keymap.Focus):
		v.toggleFocus()
		return v, nil

	case keymap.Matches(k, v.keymap.Submit) && v.input.Focused():
		text := strings.TrimSpace(v.input.Value())
		if text == "" {
			return v, nil
		}
		v.state.Emit(domain.QueryTextSet{Text: text})
		return v, v.submit(text)
	}

	if !v.input.Focused() {
		var cmd tea.Cmd
		v.table, cmd = v.table.Update(msg)
		return v, cmd
	}

	if !v.interacted {
		v.interacted = true
		v.state.Emit(domain.UserInteracted{})
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) toggleFocus() {
	if v.input.Focused() && v.table.Len() > 0 {
		v.input.Blur()
		v.table.Focus()
		return
	}
	v.table.Blur()
	v.input.Focus()
}

// submit runs a query. Empty text runs the stored query text.
func (v *View) submit(text string) tea.Cmd {
	v.running = true
	v.failure = ""
	v.statusbar.SetState(status.StateRunning)
	v.statusbar.SetMessage("Running query...")

	ctx, runner := v.ctx, v.runner
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		res := <-runner.SubmitQuery(ctx, text)
		return messages.TaskFinished{View: messages.ViewQuery, Err: res.Err}
	})
}

func (v *View) cancel() tea.Cmd {
	runner := v.runner
	return func() tea.Msg {
		res := <-runner.CancelQuery()
		return messages.TaskFinished{View: messages.ViewQuery, Err: res.Err}
	}
}

func (v *View) handleEvent(ev domain.Event) {
	switch e := ev.(type) {
	case domain.QueryInProgress:
		v.running = true
		v.failure = ""
		v.statusbar.SetState(status.StateRunning)
		v.statusbar.SetMessage("Running query...")

	case domain.QuerySucceeded:
		v.running = false
		v.showRows(e.Rows)

	case domain.QueryFailed:
		v.running = false
		v.failure = e.Message
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(e.Message)

	case domain.QueryCancelled:
		v.running = false
		v.statusbar.SetState(status.StateCancelled)

	case domain.QueryTextSet:
		if v.input.Value() != e.Text {
			v.input.SetValue(e.Text)
		}
	}
}

func (v *View) showRows(raw []byte) {
	v.notice = ""
	t, err := domain.DecodeTable(raw)
	if err != nil {
		v.table.Clear()
		v.notice = string(raw)
		v.statusbar.SetState(status.StateReady)
		return
	}
	if t.Len() == 0 {
		v.table.Clear()
		v.notice = domain.NoDataMessage
		v.statusbar.SetResults(0, "rows")
		return
	}
	v.table.SetData(results.FromTable(t))
	v.statusbar.SetResults(t.Len(), "rows")
}

// View renders the query view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Query"), "", v.input.View(), "")

	if v.failure != "" {
		sections = append(sections, v.styles.Banner.Render(v.failure), "")
	}
	if v.running {
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Running query... (esc to cancel)"), "")
	}

	switch {
	case v.notice != "":
		sections = append(sections, v.styles.Muted.Render(v.notice))
	case v.table.Len() > 0:
		sections = append(sections, v.table.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	// Title, input, spinner line, status bar and spacing.
	v.table.SetDimensions(width, height-12)
}

// Running reports whether a query is in flight.
func (v *View) Running() bool {
	return v.running
}

// Failure returns the message of the last failure.
func (v *View) Failure() string {
	return v.failure
}

// Notice returns the text shown instead of a table, if any.
func (v *View) Notice() string {
	return v.notice
}

// RowCount returns the number of rows on screen.
func (v *View) RowCount() int {
	return v.table.Len()
}

// Value returns the query text being edited.
func (v *View) Value() string {
	return v.input.Value()
}

// InputFocused reports whether the text input has focus.
func (v *View) InputFocused() bool {
	return v.input.Focused()
}
