// Package results provides the tabular results component for the TUI.
package results

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/styles"
)

const minColumnWidth = 8

// Table displays rows under headers with keyboard navigation.
type Table struct {
	model   table.Model
	styles  *styles.Styles
	headers []string
	rows    [][]string
	width   int
	height  int
}

// New creates an empty, unfocused table.
func New(s *styles.Styles) *Table {
	if s == nil {
		s = styles.DefaultStyles()
	}

	m := table.New(table.WithHeight(10))
	m.SetStyles(s.Table())

	return &Table{
		model:  m,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles navigation keys when focused.
func (t *Table) Update(msg tea.Msg) (*Table, tea.Cmd) {
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return t, cmd
}

// View renders the table.
func (t *Table) View() string {
	if len(t.headers) == 0 {
		return ""
	}
	return t.model.View()
}

// SetData replaces headers and rows. Every row must have one cell per
// header; short rows are padded.
func (t *Table) SetData(headers []string, rows [][]string) {
	t.headers = headers
	t.rows = make([][]string, len(rows))
	for i, r := range rows {
		if len(r) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, r)
			r = padded
		}
		t.rows[i] = r[:len(headers)]
	}

	// Clear rows first: the viewport re-renders on every column change.
	t.model.SetRows(nil)
	t.model.SetColumns(t.columns())
	t.model.SetRows(toRows(t.rows))
	if len(t.rows) > 0 {
		t.model.SetCursor(0)
	}
}

// Clear removes all data.
func (t *Table) Clear() {
	t.SetData(nil, nil)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Headers returns the current headers.
func (t *Table) Headers() []string {
	return t.headers
}

// Cursor returns the index of the highlighted row.
func (t *Table) Cursor() int {
	return t.model.Cursor()
}

// Focus enables keyboard navigation.
func (t *Table) Focus() {
	t.model.Focus()
}

// Blur disables keyboard navigation.
func (t *Table) Blur() {
	t.model.Blur()
}

// Focused reports whether the table has focus.
func (t *Table) Focused() bool {
	return t.model.Focused()
}

// SetDimensions sets the space the table may occupy.
func (t *Table) SetDimensions(width, height int) {
	t.width = width
	t.height = height
	if height < 3 {
		height = 3
	}
	t.model.SetHeight(height)
	t.model.SetWidth(width)
	if len(t.headers) > 0 {
		t.model.SetRows(nil)
		t.model.SetColumns(t.columns())
		t.model.SetRows(toRows(t.rows))
	}
}

// columns spreads the width evenly over the headers.
func (t *Table) columns() []table.Column {
	cols := make([]table.Column, len(t.headers))
	if len(cols) == 0 {
		return cols
	}

	// Each cell carries one column of padding on both sides.
	each := (t.width - 2*len(cols)) / len(cols)
	if each < minColumnWidth {
		each = minColumnWidth
	}
	for i, h := range t.headers {
		cols[i] = table.Column{Title: h, Width: each}
	}
	return cols
}

func toRows(rows [][]string) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row(r)
	}
	return out
}
