package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/styles"
)

func TestNew(t *testing.T) {
	in := New(styles.DefaultStyles(), "Query", "type a query")

	require.NotNil(t, in)
	assert.Equal(t, "", in.Value())
	assert.True(t, in.Focused())
}

func TestNew_NilStyles(t *testing.T) {
	in := New(nil, "Search", "")

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
}

func TestTextInput_Init(t *testing.T) {
	assert.NotNil(t, New(nil, "Query", "").Init())
}

func TestTextInput_Update(t *testing.T) {
	in := New(nil, "Query", "")

	updated, _ := in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.Equal(t, in, updated)
	assert.Equal(t, "a", in.Value())
}

func TestTextInput_View(t *testing.T) {
	in := New(nil, "Query", "")
	in.SetValue("select 1")

	view := in.View()

	assert.Contains(t, view, "Query:")
	assert.Contains(t, view, "select 1")
}

func TestTextInput_FocusAndBlur(t *testing.T) {
	in := New(nil, "Query", "")

	in.Blur()
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}

func TestTextInput_BlurredIgnoresKeys(t *testing.T) {
	in := New(nil, "Query", "")
	in.Blur()

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Equal(t, "", in.Value())
}

func TestTextInput_SetWidth(t *testing.T) {
	in := New(nil, "Query", "")

	in.SetWidth(100)
	assert.Equal(t, 100, in.Width())
	assert.Equal(t, 100-len("Query")-8, in.textinput.Width)

	in.SetWidth(10)
	assert.Equal(t, 20, in.textinput.Width)
}

func TestTextInput_Reset(t *testing.T) {
	in := New(nil, "Query", "")
	in.SetValue("abc")

	in.Reset()

	assert.Equal(t, "", in.Value())
}
