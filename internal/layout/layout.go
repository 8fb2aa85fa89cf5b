package layout

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/sznuper/bettertiles/internal/page"
	"github.com/sznuper/bettertiles/internal/painter"
)

// PermAct is the permission that enables row selection.
const PermAct = "general.act"

// Principal is the user a view is rendered for.
type Principal interface {
	May(permission string) bool
}

// RowSelectFunc initialises row selection for the named view.
type RowSelectFunc func(w *page.Writer, view string)

// Context carries everything a layout needs besides rows and cells.
type Context struct {
	W    *page.Writer
	View string
	User Principal
	// RowSelect defaults to InitRowSelect when nil.
	RowSelect RowSelectFunc
}

// Layout renders rows of a view.
type Layout interface {
	Ident() string
	Title() string
	Render(ctx *Context, rows []painter.Row, groupCells, cells []painter.Cell)
}

// InitRowSelect emits the client side row selection initialiser.
func InitRowSelect(w *page.Writer, view string) {
	name, _ := json.Marshal(view)
	w.Script(fmt.Sprintf("cmk.selection.init_rowselect(%s);", name))
}

// Registry maps layout identifiers to layouts.
type Registry struct {
	layouts map[string]Layout
}

func NewRegistry() *Registry {
	return &Registry{layouts: make(map[string]Layout)}
}

func (r *Registry) Register(l Layout) error {
	id := l.Ident()
	if id == "" {
		return fmt.Errorf("layout has an empty identifier")
	}
	if _, ok := r.layouts[id]; ok {
		return fmt.Errorf("layout %q already registered", id)
	}
	r.layouts[id] = l
	return nil
}

func (r *Registry) Lookup(ident string) (Layout, bool) {
	l, ok := r.layouts[ident]
	return l, ok
}

func (r *Registry) Idents() []string {
	ids := make([]string, 0, len(r.layouts))
	for id := range r.layouts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Builtin returns a registry with the stock layouts.
func Builtin() *Registry {
	r := NewRegistry()
	if err := r.Register(BetterTiles{}); err != nil {
		panic(err)
	}
	return r
}
