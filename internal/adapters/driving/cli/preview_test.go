package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

func testPreview() domain.Preview {
	return domain.Preview{Table: domain.Table{
		Columns: []string{"stop", "lines"},
		Rows: []map[string]any{
			{"stop": "Central", "lines": float64(12)},
			{"stop": "Harbour", "lines": float64(3)},
		},
	}}
}

func TestPreviewCmd_Args(t *testing.T) {
	env := setupTestServices(t)

	_, err := env.run("preview")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestPreviewCmd_Table(t *testing.T) {
	env := setupTestServices(t)
	env.datasets.preview = testPreview()

	out, err := env.run("preview", "bus-stops")

	require.NoError(t, err)
	assert.Contains(t, out, "Central")
	assert.Contains(t, out, "Harbour")
	assert.NotContains(t, out, "rows shown")
	assert.Contains(t, out, "Download: http://localhost:4000/api/v1/dataset/bus-stops/download")
	assert.Equal(t, "bus-stops", env.store.Snapshot().PreviewDatasetID)
}

func TestPreviewCmd_RowLimit(t *testing.T) {
	env := setupTestServices(t)
	env.datasets.preview = testPreview()

	out, err := env.run("preview", "--rows", "1", "bus-stops")

	require.NoError(t, err)
	assert.Contains(t, out, "Central")
	assert.NotContains(t, out, "Harbour")
	assert.Contains(t, out, "1 of 2 rows shown")
}

func TestPreviewCmd_Empty(t *testing.T) {
	env := setupTestServices(t)

	out, err := env.run("preview", "empty")

	require.NoError(t, err)
	assert.Contains(t, out, "No preview rows available.")
	assert.Contains(t, out, "Download:")
}

func TestPreviewCmd_JSON(t *testing.T) {
	env := setupTestServices(t)
	env.datasets.preview = testPreview()

	out, err := env.run("preview", "-o", "json", "bus-stops")

	require.NoError(t, err)
	assert.Contains(t, out, `"datasetId": "bus-stops"`)
	assert.Contains(t, out, `"download": "http://localhost:4000/api/v1/dataset/bus-stops/download"`)
	assert.Contains(t, out, `"stop": "Central"`)
}

func TestPreviewCmd_NotFound(t *testing.T) {
	env := setupTestServices(t)
	env.datasets.previewErr = &domain.APIError{StatusCode: 404, Path: "/api/v1/dataset/gone/preview"}

	_, err := env.run("preview", "gone")

	require.Error(t, err)
	assert.Equal(t, "dataset gone not found", err.Error())
}

func TestPreviewCmd_Failure(t *testing.T) {
	env := setupTestServices(t)
	env.datasets.previewErr = &domain.APIError{StatusCode: 502, Path: "/api/v1/dataset/x/preview"}

	_, err := env.run("preview", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "preview failed")
}
