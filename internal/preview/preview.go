package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"github.com/sznuper/bettertiles/internal/layout"
	"github.com/sznuper/bettertiles/internal/page"
	"github.com/sznuper/bettertiles/internal/painter"
)

// Options controls the terminal rendition.
type Options struct {
	PerLine   int  // tiles per line, default 4
	TileWidth int  // inner width of a tile, default 22
	Color     bool // colour borders by state
}

// stateColors maps tile status classes to ANSI colours.
var stateColors = map[string]lipgloss.Color{
	"hhstate0": "2",
	"hhstate1": "1",
	"hhstate2": "208",
	"hhstatep": "8",
	"sstate0":  "2",
	"sstate1":  "3",
	"sstate2":  "1",
	"sstate3":  "208",
	"sstatep":  "8",
}

// Render writes rows as boxes, one per row, grouped like the better_tiles
// layout. Headline is cell 0, further lines are cells 5 and up.
func Render(out io.Writer, rows []painter.Row, groupCells, cells []painter.Cell, opts Options) error {
	if opts.PerLine <= 0 {
		opts.PerLine = 4
	}
	if opts.TileWidth <= 0 {
		opts.TileWidth = 22
	}

	header := lipgloss.NewStyle().Bold(true).MarginTop(1)

	var (
		b         strings.Builder
		line      []string
		lastGroup layout.GroupKey
		haveGroup bool
	)
	flush := func() {
		if len(line) > 0 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...))
			b.WriteString("\n")
			line = line[:0]
		}
	}

	for _, row := range rows {
		if len(groupCells) > 0 {
			g := layout.GroupValue(row, groupCells)
			if !haveGroup || !g.Equal(lastGroup) {
				flush()
				b.WriteString(header.Render(groupTitle(row, groupCells)))
				b.WriteString("\n")
				lastGroup, haveGroup = g, true
			}
		}

		line = append(line, tile(row, cells, opts))
		if len(line) == opts.PerLine {
			flush()
		}
	}
	flush()

	_, err := io.WriteString(out, b.String())
	return err
}

func tile(row painter.Row, cells []painter.Cell, opts Options) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(opts.TileWidth)
	if opts.Color {
		if c, ok := stateColors[layout.StatusClass(row)]; ok {
			style = style.BorderForeground(c)
		}
	}

	var lines []string
	if len(cells) > 0 {
		_, content := cells[0].Render(row)
		lines = append(lines, lipgloss.NewStyle().Bold(true).Render(PlainText(content)))
	} else {
		lines = append(lines, "")
	}
	if len(cells) > 5 {
		for _, c := range cells[5:] {
			_, content := c.Render(row)
			lines = append(lines, PlainText(content))
		}
	}
	return style.Render(strings.Join(lines, "\n"))
}

func groupTitle(row painter.Row, groupCells []painter.Cell) string {
	var parts []string
	for _, c := range groupCells {
		_, content := c.Render(row)
		if t := PlainText(content); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ", ")
}

// PlainText strips markup from h and unescapes entities.
func PlainText(h page.HTML) string {
	z := html.NewTokenizer(strings.NewReader(string(h)))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.WriteString(z.Token().Data)
		}
	}
}

// Legend describes the colours used by Render.
func Legend() string {
	return fmt.Sprintf("%s OK/UP  %s WARN  %s CRIT/DOWN  %s UNKNOWN/UNREACH  %s PENDING",
		swatch("2"), swatch("3"), swatch("1"), swatch("208"), swatch("8"))
}

func swatch(c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render("■")
}
