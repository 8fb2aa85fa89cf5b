package layout

import (
	"strings"

	"github.com/sznuper/bettertiles/internal/page"
	"github.com/sznuper/bettertiles/internal/painter"
)

// minTileCells is the number of cells every tile is padded to.
const minTileCells = 5

// BetterTiles is a tiled layout with rounded corners, a larger headline
// and a tile that is clickable as a whole.
//
// Only cell 0 (headline) and cells 5 and up (content rows) are shown.
// Cells 1-4 are rendered but never written; this mirrors an older tile
// layout whose slots 1-4 went into corner positions and looks like a
// leftover rather than something to build on.
type BetterTiles struct{}

func (BetterTiles) Ident() string { return "better_tiles" }
func (BetterTiles) Title() string { return "Better Tiles" }

// tileState is the render state of a single Render call.
type tileState struct {
	lastGroup GroupKey
	haveGroup bool
	groupOpen bool
}

func (BetterTiles) Render(ctx *Context, rows []painter.Row, groupCells, cells []painter.Cell) {
	w := ctx.W
	w.Open("table", page.Class("data", "tiled", "better_tiles"))

	var st tileState
	for _, row := range rows {
		if len(groupCells) > 0 {
			thisGroup := GroupValue(row, groupCells)
			if !st.haveGroup || !thisGroup.Equal(st.lastGroup) {
				if st.groupOpen {
					w.Close("td")
					w.Close("tr")
				}
				writeGroupHeader(w, row, groupCells)

				w.Open("tr")
				w.Open("td", page.Class("tiles"))
				st.groupOpen = true
				st.lastGroup = thisGroup
				st.haveGroup = true
			}
		}

		if !st.groupOpen {
			w.Open("tr")
			w.Open("td", page.Class("tiles"))
			st.groupOpen = true
		}

		writeTile(w, row, cells)
	}

	if st.groupOpen {
		w.Close("td")
		w.Close("tr")
	}
	w.Close("table")

	w.Style(tilesCSS)

	if ctx.User == nil || !ctx.User.May(PermAct) {
		return
	}
	rowSelect := ctx.RowSelect
	if rowSelect == nil {
		rowSelect = InitRowSelect
	}
	rowSelect(w, ctx.View)
}

// writeGroupHeader writes the header band for the group starting at row.
// Cells without content are skipped; painted cells are separated by ", ".
func writeGroupHeader(w *page.Writer, row painter.Row, groupCells []painter.Cell) {
	w.Open("tr")
	w.Open("td")
	w.Open("table", page.Class("groupheader"))
	w.Open("tr", page.Class("groupheader"))

	painted := false
	for _, c := range groupCells {
		var buf strings.Builder
		if !c.Paint(page.NewWriter(&buf), row) {
			continue
		}
		if painted {
			w.Element("td", ",&nbsp;")
		}
		w.Write(page.HTML(buf.String()))
		painted = true
	}

	w.Close("tr")
	w.Close("table")
	w.Close("td")
	w.Close("tr")
}

func writeTile(w *page.Writer, row painter.Row, cells []painter.Cell) {
	link := tileLink(row, cells)
	if link != "" {
		w.Open("a", page.Href(link), page.Class("tile_link"))
	}

	w.Open("div", page.Class("tile", "better_tile", StatusClass(row)))
	w.Open("table")

	renderCells := cells
	if len(renderCells) < minTileCells {
		renderCells = make([]painter.Cell, minTileCells)
		copy(renderCells, cells)
	}

	type rendered struct {
		css     string
		content page.HTML
	}
	out := make([]rendered, len(renderCells))
	for i, c := range renderCells {
		out[i].css, out[i].content = c.Render(row)
	}

	w.Open("tr")
	w.Element("td", out[0].content, page.Colspan(2), page.Class("center", "larger_text", out[0].css))
	w.Close("tr")

	for _, r := range out[minTileCells:] {
		w.Open("tr")
		w.Element("td", r.content, page.Colspan(2), page.Class("cont", r.css))
		w.Close("tr")
	}

	w.Close("table")
	w.Close("div")

	if link != "" {
		w.Close("a")
	}
}

// tileLink is the URL of the first cell that links somewhere for row.
func tileLink(row painter.Row, cells []painter.Cell) string {
	for _, c := range cells {
		if !c.HasLink() {
			continue
		}
		if u := c.URL(row); u != "" {
			return u
		}
	}
	return ""
}

const tilesCSS = `
        .better_tiles .better_tile {
            border-radius: 8px;
            transition: transform 0.2s ease;
            overflow: hidden;
            box-shadow: 0 2px 5px rgba(0,0,0,0.1);
        }

        .better_tiles .better_tile td.center {
            border-radius: 6px;
        }

        .better_tiles .better_tile:hover {
            transform: translateY(-3px);
            box-shadow: 0 4px 8px rgba(0,0,0,0.2);
        }

        .better_tiles .larger_text {
            font-size: 120%;
            font-weight: bold;
        }

        .better_tiles a.tile_link {
            text-decoration: none;
            color: inherit;
            display: block;
            width: 100%;
            height: 100%;
        }

        .better_tiles .tile_link:focus {
            outline: none;
        }

        .better_tiles .better_tile table {
            height: 50px !important;
            width: 100%;
        }
        `
