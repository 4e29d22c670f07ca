package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewMenu, "menu"},
		{ViewQuery, "query"},
		{ViewDatasets, "datasets"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestStateChanged_CarriesEvent(t *testing.T) {
	msg := StateChanged{Event: domain.QueryCancelled{Generation: 3}}

	e, ok := msg.Event.(domain.QueryCancelled)
	assert.True(t, ok)
	assert.Equal(t, domain.Generation(3), e.Generation)
}

func TestTaskFinished_CarriesError(t *testing.T) {
	msg := TaskFinished{View: ViewQuery, Err: domain.ErrNoQueryText}

	assert.Equal(t, ViewQuery, msg.View)
	assert.True(t, errors.Is(msg.Err, domain.ErrNoQueryText))
}
