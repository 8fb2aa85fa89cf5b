package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/sznuper/bettertiles/internal/config"
	"github.com/sznuper/bettertiles/internal/layout"
	"github.com/sznuper/bettertiles/internal/livestatus"
	"github.com/sznuper/bettertiles/internal/metrics"
	"github.com/sznuper/bettertiles/internal/page"
	"github.com/sznuper/bettertiles/internal/painter"
)

// Result captures the outcome of rendering one view. Errors are stored in
// Err/ErrStage rather than returned, so the caller always has something to
// report.
type Result struct {
	View     string
	Layout   string
	Rows     int
	Duration time.Duration
	Err      error
	ErrStage string // "lookup", "cells", "fetch", "render"
}

// Runner renders configured views: build cells → fetch rows → layout.
type Runner struct {
	cfg      *config.Config
	querier  livestatus.Querier
	painters *painter.Registry
	layouts  *layout.Registry
	logger   *slog.Logger
}

// New creates a Runner. Template painters from cfg are added to painters.
func New(cfg *config.Config, q livestatus.Querier, painters *painter.Registry, layouts *layout.Registry, logger *slog.Logger) (*Runner, error) {
	for _, pc := range cfg.Painters {
		title := pc.Title
		if title == "" {
			title = pc.Name
		}
		p, err := painter.NewTemplatePainter(pc.Name, title, pc.Template, pc.Class, pc.Columns, logger)
		if err != nil {
			return nil, fmt.Errorf("painter %q: %w", pc.Name, err)
		}
		if err := painters.Register(p); err != nil {
			return nil, err
		}
	}
	return &Runner{cfg: cfg, querier: q, painters: painters, layouts: layouts, logger: logger}, nil
}

// FindView returns the view with the given name, or nil if not found.
func (r *Runner) FindView(name string) *config.View {
	return r.cfg.FindView(name)
}

// Cells resolves the cell specs of a view.
func (r *Runner) Cells(specs []config.Cell) ([]painter.Cell, error) {
	cells := make([]painter.Cell, 0, len(specs))
	for _, s := range specs {
		p, ok := r.painters.Lookup(s.Painter)
		if !ok {
			return nil, fmt.Errorf("unknown painter %q", s.Painter)
		}
		if s.Link == nil {
			cells = append(cells, painter.NewCell(p))
			continue
		}
		link, err := painter.LinkToView(s.Link.View, s.Link.Params)
		if err != nil {
			return nil, fmt.Errorf("painter %q: %w", s.Painter, err)
		}
		cells = append(cells, painter.NewCell(p, painter.WithLink(link)))
	}
	return cells, nil
}

// Columns returns the union of the columns the cells' painters read, in
// first-seen order.
func Columns(cellSets ...[]painter.Cell) []string {
	var cols []string
	for _, cells := range cellSets {
		for _, c := range cells {
			if c.Painter() == nil {
				continue
			}
			for _, col := range c.Painter().Columns() {
				if !slices.Contains(cols, col) {
					cols = append(cols, col)
				}
			}
		}
	}
	return cols
}

// Fetch queries the view's datasource for the given columns and zips the
// answer into rows.
func Fetch(ctx context.Context, q livestatus.Querier, datasource string, columns []string) ([]painter.Row, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("no columns to fetch from %s", datasource)
	}
	data, err := q.QueryTable(ctx, livestatus.Get(datasource, columns...))
	if err != nil {
		return nil, err
	}

	rows := make([]painter.Row, 0, len(data))
	for i, values := range data {
		if len(values) != len(columns) {
			return nil, fmt.Errorf("row %d: got %d values, want %d", i, len(values), len(columns))
		}
		row := make(painter.Row, len(columns))
		for j, col := range columns {
			row[col] = values[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Render renders the named view into out. When rows is nil they are
// fetched from the backend.
func (r *Runner) Render(ctx context.Context, out io.Writer, name string, rows []painter.Row, user layout.Principal) Result {
	log := r.logger.With("view", name)
	start := time.Now()
	result := Result{View: name}

	fail := func(stage string, err error) Result {
		result.Err = err
		result.ErrStage = stage
		result.Duration = time.Since(start)
		log.Error(stage+" failed", "error", err)
		return result
	}

	// Stage 1: Look up view and layout.
	v := r.FindView(name)
	if v == nil {
		return fail("lookup", fmt.Errorf("view %q not found in config", name))
	}
	result.Layout = v.Layout
	lay, ok := r.layouts.Lookup(v.Layout)
	if !ok {
		return fail("lookup", fmt.Errorf("unknown layout %q", v.Layout))
	}

	// Stage 2: Resolve cells.
	groupCells, err := r.Cells(v.GroupBy)
	if err != nil {
		return fail("cells", err)
	}
	cells, err := r.Cells(v.Columns)
	if err != nil {
		return fail("cells", err)
	}

	// Stage 3: Fetch rows.
	if rows == nil {
		cols := Columns(groupCells, cells)
		log.Info("fetching rows", "datasource", v.Datasource, "columns", len(cols))
		rows, err = Fetch(ctx, r.querier, v.Datasource, cols)
		if err != nil {
			return fail("fetch", err)
		}
	}
	result.Rows = len(rows)
	log.Debug("rows ready", "rows", len(rows))

	// Stage 4: Render.
	w := page.NewWriter(out)
	title := v.Title
	if title == "" {
		title = v.Name
	}
	w.Element("h1", page.Escape(title))
	lay.Render(&layout.Context{W: w, View: v.Name, User: user}, rows, groupCells, cells)
	if err := w.Err(); err != nil {
		return fail("render", fmt.Errorf("writing page: %w", err))
	}
	if !w.Balanced() {
		log.Warn("layout left unbalanced markup", "layout", v.Layout, "imbalances", w.Imbalances())
	}
	metrics.RecordRender(v.Layout)

	result.Duration = time.Since(start)
	log.Info("view rendered", "layout", v.Layout, "rows", result.Rows, "duration", result.Duration)
	return result
}
