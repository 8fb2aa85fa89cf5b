package layout

import (
	"fmt"
	"slices"

	"github.com/sznuper/bettertiles/internal/painter"
)

// StatusClass picks the tile background class for a row. Service rows use
// sstate<n>/sstatep, everything else falls back to the host state with
// hhstate<n>/hhstatep. Missing fields count as checked and state 0.
func StatusClass(row painter.Row) string {
	state := row.Int("service_state", -1)
	if state == -1 {
		if row.Int("host_has_been_checked", 1) == 0 {
			return "hhstatep"
		}
		return fmt.Sprintf("hhstate%d", row.Int("host_state", 0))
	}
	if row.Int("service_has_been_checked", 1) == 0 {
		return "sstatep"
	}
	return fmt.Sprintf("sstate%d", state)
}

// GroupKey identifies the group a row belongs to.
type GroupKey []string

func (k GroupKey) Equal(o GroupKey) bool { return slices.Equal(k, o) }

// GroupValue derives the group key of row from the columns of the group
// cells' painters. Columns missing from the row are skipped; present values
// keep their dynamic type, so 1 and "1" or nil and "" fall into different
// groups.
func GroupValue(row painter.Row, groupCells []painter.Cell) GroupKey {
	var key GroupKey
	for _, c := range groupCells {
		p := c.Painter()
		if p == nil {
			continue
		}
		for _, col := range p.Columns() {
			v, ok := row.Lookup(col)
			if !ok {
				continue
			}
			key = append(key, fmt.Sprintf("%s=%T:%v", col, v, v))
		}
	}
	return key
}
