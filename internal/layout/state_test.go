package layout

import (
	"regexp"
	"testing"

	"github.com/sznuper/bettertiles/internal/painter"
)

func TestStatusClass(t *testing.T) {
	tests := []struct {
		name string
		row  painter.Row
		want string
	}{
		{"empty row", painter.Row{}, "hhstate0"},
		{"host down", painter.Row{"host_state": 1}, "hhstate1"},
		{"host pending", painter.Row{"host_state": 1, "host_has_been_checked": 0}, "hhstatep"},
		{"service crit", painter.Row{"service_state": 2, "host_state": 1}, "sstate2"},
		{"service pending", painter.Row{"service_state": 0, "service_has_been_checked": 0}, "sstatep"},
		{"service explicit -1", painter.Row{"service_state": -1, "host_state": 2}, "hhstate2"},
		{"string state", painter.Row{"service_state": "3"}, "sstate3"},
		{"garbage checked flag", painter.Row{"host_has_been_checked": "x"}, "hhstate0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusClass(tt.row); got != tt.want {
				t.Errorf("StatusClass(%v) = %q, want %q", tt.row, got, tt.want)
			}
		})
	}
}

func TestStatusClass_Total(t *testing.T) {
	valid := regexp.MustCompile(`^(hhstate(\d+|p)|sstate(\d+|p))$`)
	values := []any{nil, 0, 1, 2, 3, "1", "x"}
	keys := []string{"service_state", "service_has_been_checked", "host_state", "host_has_been_checked"}

	for _, k1 := range keys {
		for _, v1 := range values {
			for _, k2 := range keys {
				for _, v2 := range values {
					row := painter.Row{k1: v1, k2: v2}
					got := StatusClass(row)
					if !valid.MatchString(got) {
						t.Errorf("StatusClass(%v) = %q, not a status class", row, got)
					}
					if again := StatusClass(row); again != got {
						t.Errorf("StatusClass(%v) not stable: %q then %q", row, got, again)
					}
				}
			}
		}
	}
}

func TestGroupValue(t *testing.T) {
	groupCells := []painter.Cell{fieldCell("site"), painter.EmptyCell(), fieldCell("hostgroup_name")}
	a := GroupValue(painter.Row{"site": "lab", "hostgroup_name": "web"}, groupCells)
	b := GroupValue(painter.Row{"site": "lab", "hostgroup_name": "web", "host_name": "x"}, groupCells)
	c := GroupValue(painter.Row{"site": "lab", "hostgroup_name": "db"}, groupCells)

	if !a.Equal(b) {
		t.Errorf("%v and %v should be the same group", a, b)
	}
	if a.Equal(c) {
		t.Errorf("%v and %v should differ", a, c)
	}
}

func TestGroupValue_DistinctValues(t *testing.T) {
	groupCells := []painter.Cell{fieldCell("site"), fieldCell("hostgroup_name")}

	tests := []struct {
		name string
		a, b painter.Row
	}{
		{"missing vs empty", painter.Row{"site": "lab"}, painter.Row{"site": "lab", "hostgroup_name": ""}},
		{"nil vs empty", painter.Row{"site": "lab", "hostgroup_name": nil}, painter.Row{"site": "lab", "hostgroup_name": ""}},
		{"int vs string", painter.Row{"site": 1}, painter.Row{"site": "1"}},
		{"value in other column", painter.Row{"site": "web"}, painter.Row{"hostgroup_name": "web"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := GroupValue(tt.a, groupCells), GroupValue(tt.b, groupCells)
			if a.Equal(b) {
				t.Errorf("%v and %v should be different groups", a, b)
			}
		})
	}

	if !GroupValue(painter.Row{"site": 1}, groupCells).Equal(GroupValue(painter.Row{"site": 1, "other": "x"}, groupCells)) {
		t.Error("unrelated columns must not change the group")
	}
}

func TestBuiltinLayouts(t *testing.T) {
	r := Builtin()
	l, ok := r.Lookup("better_tiles")
	if !ok {
		t.Fatal("better_tiles not registered")
	}
	if l.Title() != "Better Tiles" {
		t.Errorf("title = %q", l.Title())
	}
	if err := r.Register(BetterTiles{}); err == nil {
		t.Error("expected duplicate registration error")
	}
}
