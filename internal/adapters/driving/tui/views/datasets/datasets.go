// Package datasets provides the dataset search and preview view for the TUI.
package datasets

import (
	"context"
	"fmt"
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

var columns = []string{"ID", "Title", "Organization", "Formats"}

// View searches the dataset catalogue page by page and previews the
// highlighted dataset.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.TextInput
	table     *results.Table
	preview   *results.Table
	statusbar *status.Bar
	spinner   spinner.Model

	runner   *services.Runner
	datasets driving.DatasetService
	ctx      context.Context
	pageSize int

	text     string
	page     int
	items    []domain.Dataset
	meta     domain.Pagination
	hasNext  bool
	loading  bool
	failure  string
	searched bool

	previewID      string
	previewLoading bool
	previewErr     string
	download       string

	width  int
	height int
	ready  bool
}

// NewView creates a datasets view. A pageSize of zero uses
// domain.DefaultPageSize.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	runner *services.Runner,
	datasets driving.DatasetService,
	pageSize int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.DatasetsHelp())

	in := input.New(s, "Search", "dataset title, keyword or organisation")
	in.Focus()

	return &View{
		styles:    s,
		keymap:    km,
		input:     in,
		table:     results.New(s),
		preview:   results.New(s),
		statusbar: bar,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner)),
		runner:    runner,
		datasets:  datasets,
		ctx:       context.Background(),
		pageSize:  pageSize,
		page:      1,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context requests run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the datasets view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case spinner.TickMsg:
		if !v.loading && !v.previewLoading {
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
			v.loading = false
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

	if keymap.Matches(k, v.keymap.Back) {
		if v.previewID != "" {
			v.closePreview()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if keymap.Matches(k, v.keymap.Focus) {
		v.toggleFocus()
		return v, nil
	}

	if v.input.Focused() {
		if keymap.Matches(k, v.keymap.Submit) {
			v.text = strings.TrimSpace(v.input.Value())
			v.page = 1
			return v, v.search()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(k, v.keymap.NextPage):
		if !v.hasNext {
			return v, nil
		}
		v.page++
		return v, v.search()

	case keymap.Matches(k, v.keymap.PrevPage):
		if v.page <= 1 {
			return v, nil
		}
		v.page--
		return v, v.search()

	case keymap.Matches(k, v.keymap.Select):
		d, ok := v.Selected()
		if !ok {
			return v, nil
		}
		return v, v.openPreview(d.ID)
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
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

func (v *View) search() tea.Cmd {
	v.loading = true
	v.failure = ""
	v.searched = true
	v.closePreview()
	v.statusbar.SetState(status.StateRunning)
	v.statusbar.SetMessage("Searching...")

	params := domain.DatasetSearchParams{Page: v.page, SearchText: v.text}
	req := params.Request(v.pageSize)
	ctx, runner := v.ctx, v.runner
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		res := <-runner.Search(ctx, req)
		return messages.TaskFinished{View: messages.ViewDatasets, Err: res.Err}
	})
}

// openPreview fetches a preview. The outcome arrives as a state event.
func (v *View) openPreview(id string) tea.Cmd {
	v.previewID = id
	v.previewLoading = true
	v.previewErr = ""
	v.download = v.datasets.DownloadURL(id)
	v.preview.Clear()

	ctx, datasets := v.ctx, v.datasets
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		_, _ = datasets.RetrievePreview(ctx, id) //nolint:errcheck // reported via state
		return nil
	})
}

func (v *View) closePreview() {
	v.previewID = ""
	v.previewLoading = false
	v.previewErr = ""
	v.download = ""
	v.preview.Clear()
}

func (v *View) handleEvent(ev domain.Event) {
	switch e := ev.(type) {
	case domain.DatasetListUpdated:
		v.loading = false
		v.failure = ""
		v.items = e.Page.Results
		v.meta = e.Page.Metadata
		v.hasNext = e.Page.HasNext()
		v.showDatasets()

	case domain.DatasetListFailed:
		v.loading = false
		v.failure = e.Err.Error()
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(v.failure)

	case domain.DatasetPreviewLoaded:
		if e.DatasetID != v.previewID {
			return
		}
		v.previewLoading = false
		v.preview.SetData(results.FromTable(e.Preview.Table))

	case domain.DatasetPreviewFailed:
		if e.DatasetID != v.previewID {
			return
		}
		v.previewLoading = false
		v.previewErr = e.Err.Error()
	}
}

func (v *View) showDatasets() {
	rows := make([][]string, len(v.items))
	for i, d := range v.items {
		rows[i] = []string{d.ID, d.DisplayTitle(), d.Organization.Title, strings.Join(d.FileTypes, ", ")}
	}
	if len(rows) == 0 {
		v.table.Clear()
		v.table.Blur()
		v.input.Focus()
	} else {
		v.table.SetData(columns, rows)
		v.input.Blur()
		v.table.Focus()
	}
	v.statusbar.SetResults(v.meta.TotalDatasets, "datasets")
}

// View renders the datasets view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 16)
	sections = append(sections, v.styles.Title.Render("Datasets"), "", v.input.View(), "")

	if v.failure != "" {
		sections = append(sections, v.styles.Banner.Render(v.failure), "")
	}
	if v.loading {
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Searching..."), "")
	}

	switch {
	case v.table.Len() > 0:
		sections = append(sections, v.table.View(), v.styles.Muted.Render(v.pageLine()))
	case v.searched && !v.loading && v.failure == "":
		sections = append(sections, v.styles.Muted.Render("No datasets found."))
	}

	if v.previewID != "" {
		sections = append(sections, "", v.styles.Subtitle.Render("Preview: "+v.previewID))
		switch {
		case v.previewLoading:
			sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Loading preview..."))
		case v.previewErr != "":
			sections = append(sections, v.styles.Banner.Render(v.previewErr))
		case v.preview.Len() == 0:
			sections = append(sections, v.styles.Muted.Render("No preview rows available."))
		default:
			sections = append(sections, v.preview.View())
		}
		sections = append(sections, v.styles.Normal.Render("Download: "+v.download))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) pageLine() string {
	line := fmt.Sprintf("Page %d · %d-%d of %d",
		v.page, v.meta.Offset+1, v.meta.Offset+len(v.items), v.meta.TotalDatasets)
	if v.hasNext {
		line += " · n: next"
	}
	if v.page > 1 {
		line += " · p: previous"
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	// Results and preview share what the header and status bar leave.
	avail := height - 14
	v.table.SetDimensions(width, avail/2)
	v.preview.SetDimensions(width, avail-avail/2)
}

// Selected returns the highlighted dataset.
func (v *View) Selected() (domain.Dataset, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.items) {
		return domain.Dataset{}, false
	}
	return v.items[i], true
}

// Page returns the current page number.
func (v *View) Page() int {
	return v.page
}

// Datasets returns the datasets on the current page.
func (v *View) Datasets() []domain.Dataset {
	return v.items
}

// Loading reports whether a search is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Failure returns the message of the last failed search.
func (v *View) Failure() string {
	return v.failure
}

// PreviewID returns the dataset being previewed, if any.
func (v *View) PreviewID() string {
	return v.previewID
}

// PreviewRows returns the number of preview rows on screen.
func (v *View) PreviewRows() int {
	return v.preview.Len()
}

// PreviewError returns the message of a failed preview.
func (v *View) PreviewError() string {
	return v.previewErr
}
