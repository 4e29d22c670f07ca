package results

import (
	"encoding/json"
	"fmt"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
)

// FromTable converts decoded rows into headers and display cells.
func FromTable(t domain.Table) ([]string, [][]string) {
	cells := make([][]string, t.Len())
	for i := range cells {
		cells[i] = make([]string, len(t.Columns))
		for j, col := range t.Columns {
			cells[i][j] = Cell(t.Cell(i, col))
		}
	}
	return t.Columns, cells
}

// Cell renders a decoded JSON value as cell text.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64, bool:
		return fmt.Sprint(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}
