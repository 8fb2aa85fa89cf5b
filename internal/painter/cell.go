package painter

import (
	"fmt"
	"net/url"
	"text/template"

	"github.com/sznuper/bettertiles/internal/page"
)

// LinkFunc computes the target URL of a cell for a row. An empty string
// means the cell has no link for that row.
type LinkFunc func(Row) string

// Cell is a painter placed into a view, optionally linking somewhere. The
// link capability is fixed when the cell is built.
type Cell struct {
	painter Painter
	link    LinkFunc
}

// CellOption configures a Cell.
type CellOption func(*Cell)

// WithLink makes the cell link to fn(row).
func WithLink(fn LinkFunc) CellOption {
	return func(c *Cell) { c.link = fn }
}

// NewCell places p into a view.
func NewCell(p Painter, opts ...CellOption) Cell {
	c := Cell{painter: p}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// EmptyCell renders nothing and never links.
func EmptyCell() Cell { return Cell{} }

// Painter returns the painter behind the cell, nil for an empty cell.
func (c Cell) Painter() Painter { return c.painter }

// Render returns the style class and content for row.
func (c Cell) Render(row Row) (string, page.HTML) {
	if c.painter == nil {
		return "", ""
	}
	return c.painter.Render(row)
}

// Paint writes the cell as a table cell. Cells with no content write
// nothing and report false.
func (c Cell) Paint(w *page.Writer, row Row) bool {
	css, content := c.Render(row)
	if content == "" {
		return false
	}
	w.Element("td", content, page.Class(css))
	return true
}

// HasLink reports whether the cell was built with a link.
func (c Cell) HasLink() bool { return c.link != nil }

// URL returns the link target for row, or "".
func (c Cell) URL(row Row) string {
	if c.link == nil {
		return ""
	}
	return c.link(row)
}

// LinkToView builds a link to another view. Parameter values are templates
// evaluated against the row, e.g. {"host": "{{ .host_name }}"}. When any
// parameter renders empty the row gets no link.
func LinkToView(view string, params map[string]string) (LinkFunc, error) {
	if view == "" {
		return nil, fmt.Errorf("link: view name is required")
	}

	tmpls := make(map[string]*template.Template, len(params))
	for k, v := range params {
		t, err := parseTemplate("link_"+k, v)
		if err != nil {
			return nil, fmt.Errorf("link parameter %q: %w", k, err)
		}
		tmpls[k] = t
	}

	return func(row Row) string {
		values := url.Values{}
		values.Set("view_name", view)
		for k, t := range tmpls {
			v, err := execTemplate(t, row)
			if err != nil || v == "" {
				return ""
			}
			values.Set(k, v)
		}
		return "view.py?" + values.Encode()
	}, nil
}
