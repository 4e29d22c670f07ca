package query

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/components/status"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui/messages"
	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/services"
	"github.com/j-drayer/discovery-cli/internal/core/state"
)

// fakeQuery answers every submission immediately through the store.
type fakeQuery struct {
	store *state.Store
	rows  json.RawMessage

	mu        sync.Mutex
	gen       domain.Generation
	submitted []string
	cancelled int
}

func (f *fakeQuery) Submit(_ context.Context, text string) (domain.QueryOutcome, error) {
	if text == "" {
		text = f.store.QueryText()
	}
	if text == "" {
		return nil, domain.ErrNoQueryText
	}

	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.submitted = append(f.submitted, text)
	f.mu.Unlock()

	f.store.Emit(domain.QueryInProgress{Generation: gen})
	out := domain.QuerySucceeded{Generation: gen, Rows: f.rows}
	f.store.Emit(out)
	return out, nil
}

func (f *fakeQuery) Cancel() {
	f.mu.Lock()
	f.cancelled++
	gen := f.gen
	f.mu.Unlock()
	f.store.Emit(domain.QueryCancelled{Generation: gen})
}

func newTestView(t *testing.T) (*View, *fakeQuery, *state.Store) {
	t.Helper()
	store := state.NewStore()
	fake := &fakeQuery{store: store, rows: json.RawMessage(`[{"a":1}]`)}
	v := NewView(nil, nil, services.NewRunner(fake, nil), store)
	v.SetDimensions(100, 30)
	return v, fake, store
}

// runCmd executes cmd and any batch it returns.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func taskFinished(msgs []tea.Msg) (messages.TaskFinished, bool) {
	for _, m := range msgs {
		if tf, ok := m.(messages.TaskFinished); ok {
			return tf, true
		}
	}
	return messages.TaskFinished{}, false
}

func typeText(v *View, s string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestNewView(t *testing.T) {
	v, _, _ := newTestView(t)

	assert.True(t, v.InputFocused())
	assert.False(t, v.Running())
	assert.Empty(t, v.Value())
	assert.Zero(t, v.RowCount())
}

func TestView_Init_AutoFetchesStoredText(t *testing.T) {
	v, fake, store := newTestView(t)
	store.Emit(domain.QueryTextSet{Text: "select 1"})

	msgs := runCmd(v.Init())

	assert.Equal(t, "select 1", v.Value())
	assert.Equal(t, []string{"select 1"}, fake.submitted)
	tf, ok := taskFinished(msgs)
	require.True(t, ok)
	assert.Equal(t, messages.ViewQuery, tf.View)
	assert.NoError(t, tf.Err)
}

func TestView_Init_NoAutoFetchAfterInteraction(t *testing.T) {
	v, fake, store := newTestView(t)
	store.Emit(domain.QueryTextSet{Text: "select 1"})
	store.Emit(domain.UserInteracted{})

	runCmd(v.Init())

	assert.Equal(t, "select 1", v.Value())
	assert.Empty(t, fake.submitted)
}

func TestView_Init_NoStoredText(t *testing.T) {
	v, fake, _ := newTestView(t)

	runCmd(v.Init())

	assert.Empty(t, v.Value())
	assert.Empty(t, fake.submitted)
}

func TestView_FirstKeystrokeMarksInteraction(t *testing.T) {
	v, _, store := newTestView(t)

	typeText(v, "s")

	assert.True(t, store.UserHasInteracted())
	assert.Equal(t, "s", v.Value())
}

func TestView_EnterSubmits(t *testing.T) {
	v, fake, store := newTestView(t)
	typeText(v, "select 2")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, v.Running())
	assert.Equal(t, "select 2", store.QueryText())
	assert.Equal(t, status.StateRunning, v.statusbar.State())

	tf, ok := taskFinished(runCmd(cmd))
	require.True(t, ok)
	assert.NoError(t, tf.Err)
	assert.Equal(t, []string{"select 2"}, fake.submitted)
}

func TestView_EnterWithEmptyInput(t *testing.T) {
	v, _, _ := newTestView(t)
	typeText(v, "   ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, v.Running())
}

func TestView_StateEvents(t *testing.T) {
	t.Run("in progress", func(t *testing.T) {
		v, _, _ := newTestView(t)
		v.failure = "old"

		v.Update(messages.StateChanged{Event: domain.QueryInProgress{Generation: 1}})

		assert.True(t, v.Running())
		assert.Empty(t, v.Failure())
	})

	t.Run("succeeded with rows", func(t *testing.T) {
		v, _, _ := newTestView(t)
		v.running = true

		v.Update(messages.StateChanged{Event: domain.QuerySucceeded{
			Generation: 1,
			Rows:       json.RawMessage(`[{"city":"Oslo","n":3},{"city":"Bergen","n":5}]`),
		}})

		assert.False(t, v.Running())
		assert.Equal(t, 2, v.RowCount())
		assert.Empty(t, v.Notice())
		assert.Equal(t, 2, v.statusbar.ResultCount())
		assert.Contains(t, v.View(), "Bergen")
	})

	t.Run("succeeded with no rows", func(t *testing.T) {
		v, _, _ := newTestView(t)

		v.Update(messages.StateChanged{Event: domain.QuerySucceeded{Generation: 1, Rows: json.RawMessage(`[]`)}})

		assert.Zero(t, v.RowCount())
		assert.Equal(t, domain.NoDataMessage, v.Notice())
	})

	t.Run("succeeded with non-tabular body", func(t *testing.T) {
		v, _, _ := newTestView(t)

		v.Update(messages.StateChanged{Event: domain.QuerySucceeded{Generation: 1, Rows: json.RawMessage(`{"count":4}`)}})

		assert.Zero(t, v.RowCount())
		assert.Equal(t, `{"count":4}`, v.Notice())
	})

	t.Run("failed", func(t *testing.T) {
		v, _, _ := newTestView(t)
		v.running = true

		v.Update(messages.StateChanged{Event: domain.QueryFailed{Generation: 1, Message: domain.QueryFailureMessage}})

		assert.False(t, v.Running())
		assert.Equal(t, domain.QueryFailureMessage, v.Failure())
		assert.Equal(t, status.StateError, v.statusbar.State())
		assert.Contains(t, v.View(), domain.QueryFailureMessage)
	})

	t.Run("cancelled", func(t *testing.T) {
		v, _, _ := newTestView(t)
		v.running = true

		v.Update(messages.StateChanged{Event: domain.QueryCancelled{Generation: 1}})

		assert.False(t, v.Running())
		assert.Equal(t, status.StateCancelled, v.statusbar.State())
	})

	t.Run("text set", func(t *testing.T) {
		v, _, _ := newTestView(t)

		v.Update(messages.StateChanged{Event: domain.QueryTextSet{Text: "select 3"}})

		assert.Equal(t, "select 3", v.Value())
	})
}

func TestView_EscCancelsRunningQuery(t *testing.T) {
	v, fake, _ := newTestView(t)
	v.running = true

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	msgs := runCmd(cmd)
	assert.Equal(t, 1, fake.cancelled)
	tf, ok := taskFinished(msgs)
	require.True(t, ok)
	assert.Equal(t, messages.ViewQuery, tf.View)
}

func TestView_EscGoesBackWhenIdle(t *testing.T) {
	v, fake, _ := newTestView(t)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
	assert.Zero(t, fake.cancelled)
}

func TestView_TabTogglesFocusWhenRowsExist(t *testing.T) {
	v, _, _ := newTestView(t)

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, v.InputFocused(), "no rows to focus")

	v.Update(messages.StateChanged{Event: domain.QuerySucceeded{Generation: 1, Rows: json.RawMessage(`[{"a":1},{"a":2}]`)}})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, v.InputFocused())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.table.Cursor())
	assert.Empty(t, v.Value(), "keys go to the table")

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, v.InputFocused())
}

func TestView_TaskFinishedError(t *testing.T) {
	v, _, _ := newTestView(t)
	v.running = true

	v.Update(messages.TaskFinished{View: messages.ViewQuery, Err: errors.New("boom")})

	assert.False(t, v.Running())
	assert.Equal(t, "boom", v.Failure())
}

func TestView_TaskFinishedWithoutError(t *testing.T) {
	v, _, _ := newTestView(t)
	v.running = true

	v.Update(messages.TaskFinished{View: messages.ViewQuery})

	assert.True(t, v.Running(), "outcomes arrive as state events")
}

func TestView_Render(t *testing.T) {
	store := state.NewStore()
	v := NewView(nil, nil, services.NewRunner(&fakeQuery{store: store}, nil), store)
	assert.Contains(t, v.View(), "Initialising")

	v.SetDimensions(80, 24)
	v.running = true
	out := v.View()

	assert.Contains(t, out, "Query")
	assert.Contains(t, out, "esc to cancel")
}
