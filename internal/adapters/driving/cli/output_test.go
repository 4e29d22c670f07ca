package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"table", "json", "yaml"} {
		assert.NoError(t, validateFormat(f), f)
	}
	assert.Error(t, validateFormat("csv"))
}

func TestWriteStructured(t *testing.T) {
	v := map[string]any{"name": "trips", "count": 2}

	var js bytes.Buffer
	require.NoError(t, writeStructured(&js, formatJSON, v))
	assert.JSONEq(t, `{"name":"trips","count":2}`, js.String())
	assert.Contains(t, js.String(), "\n  ")

	var y bytes.Buffer
	require.NoError(t, writeStructured(&y, formatYAML, v))
	assert.Equal(t, "count: 2\nname: trips\n", y.String())
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"City", "N"}, [][]string{{"Oslo", "3"}})

	assert.Contains(t, out, "City")
	assert.Contains(t, out, "Oslo")
	assert.Contains(t, out, "╭")
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "x", formatCell("x"))
	assert.Equal(t, "1.5", formatCell(1.5))
	assert.Equal(t, "false", formatCell(false))
	assert.Equal(t, `{"k":"v"}`, formatCell(map[string]any{"k": "v"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "ñañ...", truncate("ñañañañaña", 6))
}
