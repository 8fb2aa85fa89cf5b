package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/sznuper/bettertiles/internal/page"
	"github.com/sznuper/bettertiles/internal/painter"
)

// fieldPainter shows one column with a fixed class.
type fieldPainter struct {
	column string
	class  string
}

func (p fieldPainter) Ident() string      { return "field_" + p.column }
func (p fieldPainter) Title() string      { return p.column }
func (p fieldPainter) ShortTitle() string { return p.column }
func (p fieldPainter) Columns() []string  { return []string{p.column} }

func (p fieldPainter) Render(row painter.Row) (string, page.HTML) {
	v := row.String(p.column, "")
	if v == "" {
		return "", ""
	}
	return p.class, page.Escape(v)
}

func fieldCell(column string) painter.Cell {
	return painter.NewCell(fieldPainter{column: column, class: "c_" + column})
}

type user struct{ perms []string }

func (u user) May(p string) bool {
	for _, x := range u.perms {
		if x == p {
			return true
		}
	}
	return false
}

type renderResult struct {
	out string
	doc *html.Node
	w   *page.Writer
}

func render(t *testing.T, ctx *Context, rows []painter.Row, groupCells, cells []painter.Cell) renderResult {
	t.Helper()
	var buf strings.Builder
	w := page.NewWriter(&buf)
	if ctx == nil {
		ctx = &Context{}
	}
	ctx.W = w
	BetterTiles{}.Render(ctx, rows, groupCells, cells)
	if err := w.Err(); err != nil {
		t.Fatalf("write error: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	return renderResult{out: buf.String(), doc: doc, w: w}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findAll(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && (class == "" || hasClass(n, class)) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func TestBetterTiles_GroupedEndToEnd(t *testing.T) {
	rows := []painter.Row{
		{"hostgroup_name": "A", "host_name": "web01", "host_state": 0},
		{"hostgroup_name": "A", "host_name": "web02", "host_state": 1},
		{"hostgroup_name": "B", "host_name": "db01", "host_state": 0},
	}
	groupCells := []painter.Cell{fieldCell("hostgroup_name")}
	cells := []painter.Cell{fieldCell("host_name"), fieldCell("host_state"), fieldCell("host_alias")}

	res := render(t, nil, rows, groupCells, cells)

	headers := findAll(res.doc, "table", "groupheader")
	if len(headers) != 2 {
		t.Fatalf("header bands = %d, want 2", len(headers))
	}
	if got := text(headers[0]); got != "A" {
		t.Errorf("first header = %q, want A", got)
	}
	if got := text(headers[1]); got != "B" {
		t.Errorf("second header = %q, want B", got)
	}

	tiles := findAll(res.doc, "div", "tile")
	if len(tiles) != 3 {
		t.Fatalf("tiles = %d, want 3", len(tiles))
	}
	headline := findAll(tiles[0], "td", "larger_text")
	if len(headline) != 1 || text(headline[0]) != "web01" {
		t.Errorf("first headline = %v, want web01", headline)
	}
	if !hasClass(headline[0], "c_host_name") || !hasClass(headline[0], "center") {
		t.Errorf("headline class = %q", attr(headline[0], "class"))
	}
	if attr(headline[0], "colspan") != "2" {
		t.Errorf("headline colspan = %q, want 2", attr(headline[0], "colspan"))
	}

	if got := len(findAll(res.doc, "td", "tiles")); got != 2 {
		t.Errorf("tile sections = %d, want 2", got)
	}
	if !res.w.Balanced() {
		t.Errorf("unbalanced output: %v", res.w.Imbalances())
	}
}

func TestBetterTiles_HeaderBandsPerRun(t *testing.T) {
	keys := []string{"A", "A", "B", "A", "C", "C", "C", "B"}
	var rows []painter.Row
	for _, k := range keys {
		rows = append(rows, painter.Row{"g": k, "host_name": "h"})
	}

	res := render(t, nil, rows, []painter.Cell{fieldCell("g")}, []painter.Cell{fieldCell("host_name")})

	var got []string
	for _, h := range findAll(res.doc, "table", "groupheader") {
		got = append(got, text(h))
	}
	want := []string{"A", "B", "A", "C", "B"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("header bands mismatch (-want +got):\n%s", diff)
	}
	if !res.w.Balanced() {
		t.Errorf("unbalanced output: %v", res.w.Imbalances())
	}
}

func TestBetterTiles_NoGroupingSingleSection(t *testing.T) {
	rows := []painter.Row{{"host_name": "a"}, {"host_name": "b"}, {"host_name": "c"}}
	res := render(t, nil, rows, nil, []painter.Cell{fieldCell("host_name")})

	if got := len(findAll(res.doc, "table", "groupheader")); got != 0 {
		t.Errorf("header bands = %d, want 0", got)
	}
	sections := findAll(res.doc, "td", "tiles")
	if len(sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(sections))
	}
	if got := len(findAll(sections[0], "div", "tile")); got != 3 {
		t.Errorf("tiles in section = %d, want 3", got)
	}
	if !res.w.Balanced() {
		t.Errorf("unbalanced output: %v", res.w.Imbalances())
	}
}

func TestBetterTiles_NoRows(t *testing.T) {
	res := render(t, nil, nil, []painter.Cell{fieldCell("g")}, nil)
	if got := len(findAll(res.doc, "td", "tiles")); got != 0 {
		t.Errorf("sections = %d, want 0", got)
	}
	if !strings.Contains(res.out, `<table class="data tiled better_tiles"></table>`) {
		t.Errorf("output = %q, want empty container table", res.out)
	}
	if !res.w.Balanced() {
		t.Errorf("unbalanced output: %v", res.w.Imbalances())
	}
}

func TestBetterTiles_HeaderSeparators(t *testing.T) {
	row := painter.Row{"site": "lab", "hostgroup_name": "", "host_name": "web01", "g": "x"}
	groupCells := []painter.Cell{fieldCell("site"), fieldCell("hostgroup_name"), fieldCell("host_name")}

	res := render(t, nil, []painter.Row{row}, groupCells, []painter.Cell{fieldCell("g")})

	header := findAll(res.doc, "tr", "groupheader")
	if len(header) != 1 {
		t.Fatalf("header rows = %d, want 1", len(header))
	}
	var tds []string
	for _, td := range findAll(header[0], "td", "") {
		tds = append(tds, text(td))
	}
	want := []string{"lab", ",\u00a0", "web01"}
	if diff := cmp.Diff(want, tds); diff != "" {
		t.Errorf("header cells mismatch (-want +got):\n%s", diff)
	}
}

func TestBetterTiles_PaddingAndExtraCells(t *testing.T) {
	row := painter.Row{"c0": "zero", "c1": "one", "c2": "two", "c3": "three", "c4": "four", "c5": "five", "c6": "six"}

	var cells []painter.Cell
	for _, c := range []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6"} {
		cells = append(cells, fieldCell(c))
	}
	res := render(t, nil, []painter.Row{row}, nil, cells)

	var cont []string
	for _, td := range findAll(res.doc, "td", "cont") {
		cont = append(cont, text(td))
	}
	if diff := cmp.Diff([]string{"five", "six"}, cont); diff != "" {
		t.Errorf("content rows mismatch (-want +got):\n%s", diff)
	}
	tiles := findAll(res.doc, "div", "better_tile")
	if len(tiles) != 1 {
		t.Fatalf("tiles = %d, want 1", len(tiles))
	}
	if got := text(tiles[0]); got != "zerofivesix" {
		t.Errorf("tile text = %q, want cells 0, 5 and 6 only", got)
	}

	// Fewer than five cells: only the headline row.
	res = render(t, nil, []painter.Row{row}, nil, cells[:2])
	if got := len(findAll(res.doc, "td", "cont")); got != 0 {
		t.Errorf("content rows = %d, want 0", got)
	}
	if got := len(findAll(res.doc, "td", "larger_text")); got != 1 {
		t.Errorf("headline rows = %d, want 1", got)
	}

	// No cells at all still yields an empty headline.
	res = render(t, nil, []painter.Row{row}, nil, nil)
	headline := findAll(res.doc, "td", "larger_text")
	if len(headline) != 1 || text(headline[0]) != "" {
		t.Errorf("headline = %v, want one empty cell", headline)
	}
}

func TestBetterTiles_TileLink(t *testing.T) {
	link, err := painter.LinkToView("host", map[string]string{"host": "{{ .host_name }}"})
	if err != nil {
		t.Fatal(err)
	}
	emptyLink := func(painter.Row) string { return "" }
	cells := []painter.Cell{
		fieldCell("state"),
		painter.NewCell(fieldPainter{column: "x"}, painter.WithLink(emptyLink)),
		painter.NewCell(fieldPainter{column: "host_name"}, painter.WithLink(link)),
	}

	res := render(t, nil, []painter.Row{{"host_name": "web01"}, {}}, nil, cells)

	links := findAll(res.doc, "a", "tile_link")
	if len(links) != 1 {
		t.Fatalf("tile links = %d, want 1", len(links))
	}
	if got := attr(links[0], "href"); got != "view.py?host=web01&view_name=host" {
		t.Errorf("href = %q", got)
	}
	if got := len(findAll(links[0], "div", "better_tile")); got != 1 {
		t.Errorf("link should wrap exactly one tile, got %d", got)
	}
	if !res.w.Balanced() {
		t.Errorf("unbalanced output: %v", res.w.Imbalances())
	}
}

func TestBetterTiles_StatusClassOnTile(t *testing.T) {
	rows := []painter.Row{
		{"service_state": 2},
		{"host_state": 1, "host_has_been_checked": 0},
	}
	res := render(t, nil, rows, nil, nil)
	tiles := findAll(res.doc, "div", "better_tile")
	if len(tiles) != 2 {
		t.Fatalf("tiles = %d, want 2", len(tiles))
	}
	if !hasClass(tiles[0], "sstate2") {
		t.Errorf("tile 0 class = %q, want sstate2", attr(tiles[0], "class"))
	}
	if !hasClass(tiles[1], "hhstatep") {
		t.Errorf("tile 1 class = %q, want hhstatep", attr(tiles[1], "class"))
	}
}

func TestBetterTiles_StyleAndRowSelect(t *testing.T) {
	var selected []string
	hook := func(w *page.Writer, view string) { selected = append(selected, view) }

	res := render(t, &Context{View: "allhosts", User: user{}, RowSelect: hook}, nil, nil, nil)
	if !strings.Contains(res.out, "border-radius: 8px") {
		t.Error("style block missing")
	}
	if len(selected) != 0 {
		t.Errorf("row select initialised without permission: %v", selected)
	}

	render(t, &Context{View: "allhosts", User: user{perms: []string{PermAct}}, RowSelect: hook}, nil, nil, nil)
	if diff := cmp.Diff([]string{"allhosts"}, selected); diff != "" {
		t.Errorf("row select mismatch (-want +got):\n%s", diff)
	}

	res = render(t, &Context{View: "all\"hosts", User: user{perms: []string{PermAct}}}, nil, nil, nil)
	if !strings.Contains(res.out, `cmk.selection.init_rowselect("all\"hosts");`) {
		t.Errorf("default row select script missing: %q", res.out)
	}
}
