package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/keymap"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotEmpty(t, bar.hints)
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Bar)
		contains string
	}{
		{"ready", func(*Bar) {}, "Ready"},
		{"running default", func(b *Bar) { b.SetState(StateRunning) }, "Running..."},
		{"running message", func(b *Bar) {
			b.SetState(StateRunning)
			b.SetMessage("Searching datasets...")
		}, "Searching datasets..."},
		{"cancelled", func(b *Bar) { b.SetState(StateCancelled) }, "Cancelled"},
		{"error", func(b *Bar) {
			b.SetState(StateError)
			b.SetMessage("boom")
		}, "Error: boom"},
		{"results", func(b *Bar) { b.SetResults(42, "datasets") }, "42 datasets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			tt.setup(bar)
			assert.Contains(t, bar.View(), tt.contains)
		})
	}
}

func TestBar_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(160)
	bar.SetHints(km.DatasetsHelp())

	view := bar.View()

	assert.Contains(t, view, "n: next page")
	assert.Contains(t, view, "p: prev page")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResults(3, "rows")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
}
