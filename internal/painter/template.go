package painter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/sznuper/bettertiles/internal/metrics"
	"github.com/sznuper/bettertiles/internal/page"
)

// TemplatePainter renders a Go text/template with Sprig functions against
// the row. The result is escaped before it reaches the page.
type TemplatePainter struct {
	ident   string
	title   string
	class   string
	columns []string
	tmpl    *template.Template
	logger  *slog.Logger
	warned  sync.Once
}

// NewTemplatePainter parses text once; columns are the row keys the
// template reads, so views fetch them. A nil logger discards.
func NewTemplatePainter(ident, title, text, class string, columns []string, logger *slog.Logger) (*TemplatePainter, error) {
	t, err := parseTemplate(ident, text)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TemplatePainter{
		ident:   ident,
		title:   title,
		class:   class,
		columns: columns,
		tmpl:    t,
		logger:  logger,
	}, nil
}

func (p *TemplatePainter) Ident() string      { return p.ident }
func (p *TemplatePainter) Title() string      { return p.title }
func (p *TemplatePainter) ShortTitle() string { return p.title }
func (p *TemplatePainter) Columns() []string  { return p.columns }

// Render paints nothing when the template fails. The first failure is
// logged as a warning, later ones at debug level.
func (p *TemplatePainter) Render(row Row) (string, page.HTML) {
	out, err := execTemplate(p.tmpl, row)
	if err != nil {
		level := slog.LevelDebug
		p.warned.Do(func() { level = slog.LevelWarn })
		p.logger.Log(context.Background(), level, "template painter failed",
			"painter", p.ident, "error", err)
		metrics.RecordPainterFailure(p.ident)
		return "", ""
	}
	if out == "" {
		return "", ""
	}
	return p.class, page.Escape(out)
}

func parseTemplate(name, text string) (*template.Template, error) {
	t, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return t, nil
}

// execTemplate runs t on row. Missing columns render empty rather than
// as "<no value>".
func execTemplate(t *template.Template, row Row) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]any(row)); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return strings.TrimSpace(strings.ReplaceAll(buf.String(), "<no value>", "")), nil
}
