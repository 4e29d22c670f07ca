package results

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tbl := New(nil)

	require.NotNil(t, tbl)
	assert.Equal(t, 0, tbl.Len())
	assert.False(t, tbl.Focused())
	assert.Equal(t, "", tbl.View())
}

func TestTable_SetData(t *testing.T) {
	tbl := New(nil)
	tbl.SetDimensions(80, 10)

	tbl.SetData([]string{"city", "trips"}, [][]string{{"Oslo", "3"}, {"Bergen", "5"}})

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"city", "trips"}, tbl.Headers())
	view := tbl.View()
	assert.Contains(t, view, "city")
	assert.Contains(t, view, "Bergen")
}

func TestTable_SetData_PadsShortRows(t *testing.T) {
	tbl := New(nil)

	tbl.SetData([]string{"a", "b", "c"}, [][]string{{"1"}})

	require.Equal(t, 1, tbl.Len())
	assert.Len(t, tbl.rows[0], 3)
	assert.NotPanics(t, func() { _ = tbl.View() })
}

func TestTable_ReplaceWithFewerColumns(t *testing.T) {
	tbl := New(nil)
	tbl.SetData([]string{"a", "b", "c"}, [][]string{{"1", "2", "3"}})

	assert.NotPanics(t, func() {
		tbl.SetData([]string{"x"}, [][]string{{"only"}})
	})
	assert.Contains(t, tbl.View(), "only")
}

func TestTable_Navigation(t *testing.T) {
	tbl := New(nil)
	tbl.SetData([]string{"n"}, [][]string{{"1"}, {"2"}, {"3"}})
	tbl.Focus()

	tbl.Update(tea.KeyMsg{Type: tea.KeyDown})
	tbl.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, tbl.Cursor())

	tbl.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, tbl.Cursor())
}

func TestTable_BlurredIgnoresKeys(t *testing.T) {
	tbl := New(nil)
	tbl.SetData([]string{"n"}, [][]string{{"1"}, {"2"}})
	tbl.Blur()

	tbl.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 0, tbl.Cursor())
}

func TestTable_Clear(t *testing.T) {
	tbl := New(nil)
	tbl.SetData([]string{"n"}, [][]string{{"1"}})

	tbl.Clear()

	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, "", tbl.View())
}

func TestTable_ColumnsHaveMinimumWidth(t *testing.T) {
	tbl := New(nil)
	tbl.SetDimensions(10, 5)
	tbl.SetData([]string{"a", "b", "c"}, nil)

	for _, c := range tbl.columns() {
		assert.Equal(t, minColumnWidth, c.Width)
	}
}
