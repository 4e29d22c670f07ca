package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrNotTabular indicates a body that is not a JSON array of objects.
var ErrNotTabular = errors.New("response is not a list of rows")

// Table is a list of rows with columns in first-seen order.
type Table struct {
	Columns []string
	Rows    []map[string]any
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Cell returns the value of a column in a row, or nil.
func (t Table) Cell(row int, column string) any {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	return t.Rows[row][column]
}

// DecodeTable decodes a JSON array of objects. Columns are ordered by first
// appearance, which keeps the server's key order for uniform rows.
func DecodeTable(raw json.RawMessage) (Table, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return Table{}, fmt.Errorf("%w: %w", ErrNotTabular, err)
	}

	t := Table{Rows: make([]map[string]any, 0, len(items))}
	seen := make(map[string]bool)
	for i, item := range items {
		keys, err := objectKeys(item)
		if err != nil {
			return Table{}, fmt.Errorf("%w: row %d: %w", ErrNotTabular, i, err)
		}
		row := make(map[string]any, len(keys))
		if err := json.Unmarshal(item, &row); err != nil {
			return Table{}, fmt.Errorf("%w: row %d: %w", ErrNotTabular, i, err)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				t.Columns = append(t.Columns, k)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("row is not an object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("malformed object key")
		}
		keys = append(keys, key)

		// Skip the value.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// Preview is a sample of a dataset's rows.
type Preview struct {
	Table
}

// DecodePreview decodes a preview response of the form
// {"data": [...], "meta": {"columns": [...]}}. When meta.columns is present
// it defines the column order.
func DecodePreview(raw json.RawMessage) (Preview, error) {
	var body struct {
		Data json.RawMessage `json:"data"`
		Meta struct {
			Columns []string `json:"columns"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return Preview{}, fmt.Errorf("decoding preview: %w", err)
	}
	if len(body.Data) == 0 || string(body.Data) == "null" {
		return Preview{Table: Table{Columns: body.Meta.Columns, Rows: []map[string]any{}}}, nil
	}

	t, err := DecodeTable(body.Data)
	if err != nil {
		return Preview{}, fmt.Errorf("decoding preview: %w", err)
	}
	if len(body.Meta.Columns) > 0 {
		t.Columns = body.Meta.Columns
	}
	return Preview{Table: t}, nil
}

// DataSources maps each column to its values, in row order. This is the
// shape chart editors consume.
func DataSources(t Table) map[string][]any {
	sources := make(map[string][]any, len(t.Columns))
	for _, col := range t.Columns {
		values := make([]any, len(t.Rows))
		for i, row := range t.Rows {
			values[i] = row[col]
		}
		sources[col] = values
	}
	return sources
}

// DataSourceOption is one selectable data source of a chart editor.
type DataSourceOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DataSourceOptions lists the data sources sorted by name.
func DataSourceOptions(sources map[string][]any) []DataSourceOption {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := make([]DataSourceOption, len(names))
	for i, name := range names {
		opts[i] = DataSourceOption{Value: name, Label: name}
	}
	return opts
}
