package painter

import (
	"fmt"
	"slices"

	"github.com/sznuper/bettertiles/internal/page"
)

// Painter turns a row into a styled piece of content.
type Painter interface {
	Ident() string
	Title() string
	ShortTitle() string
	// Columns lists the row keys the painter reads.
	Columns() []string
	Render(row Row) (class string, content page.HTML)
}

// Registry maps painter identifiers to painters. It is filled once at
// startup and only read afterwards.
type Registry struct {
	painters map[string]Painter
}

func NewRegistry() *Registry {
	return &Registry{painters: make(map[string]Painter)}
}

// Register adds p. Identifiers must be unique.
func (r *Registry) Register(p Painter) error {
	id := p.Ident()
	if id == "" {
		return fmt.Errorf("painter has an empty identifier")
	}
	if _, ok := r.painters[id]; ok {
		return fmt.Errorf("painter %q already registered", id)
	}
	r.painters[id] = p
	return nil
}

// Lookup returns the painter registered under ident.
func (r *Registry) Lookup(ident string) (Painter, bool) {
	p, ok := r.painters[ident]
	return p, ok
}

// Idents returns all identifiers in sorted order.
func (r *Registry) Idents() []string {
	ids := make([]string, 0, len(r.painters))
	for id := range r.painters {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
