package painter

import (
	"fmt"
	"log/slog"

	"github.com/sznuper/bettertiles/internal/livestatus"
	"github.com/sznuper/bettertiles/internal/page"
)

// Builtin returns a registry holding the stock painters. q answers the
// queries of painters that need live data.
func Builtin(q livestatus.Querier, logger *slog.Logger) *Registry {
	r := NewRegistry()
	for _, p := range []Painter{
		&columnPainter{ident: "host", title: "Hostname", short: "Host", column: "host_name", class: "nobr"},
		&columnPainter{ident: "service_description", title: "Service description", short: "Service", column: "service_description"},
		&columnPainter{ident: "svc_plugin_output", title: "Output of check plugin", short: "Status detail", column: "service_plugin_output"},
		&columnPainter{ident: "hostgroup_name", title: "Host group name", short: "Name", column: "hostgroup_name"},
		&columnPainter{ident: "hostgroup_alias", title: "Host group alias", short: "Alias", column: "hostgroup_alias"},
		hostStatePainter{},
		serviceStatePainter{},
		NewHostGroupStatusAlias(q, logger),
	} {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// columnPainter shows one column as text.
type columnPainter struct {
	ident  string
	title  string
	short  string
	column string
	class  string
}

func (p *columnPainter) Ident() string      { return p.ident }
func (p *columnPainter) Title() string      { return p.title }
func (p *columnPainter) ShortTitle() string { return p.short }
func (p *columnPainter) Columns() []string  { return []string{p.column} }

func (p *columnPainter) Render(row Row) (string, page.HTML) {
	v := row.String(p.column, "")
	if v == "" {
		return "", ""
	}
	return p.class, page.Escape(v)
}

var (
	hostStateNames    = []string{"UP", "DOWN", "UNREACH"}
	serviceStateNames = []string{"OK", "WARN", "CRIT", "UNKN"}
)

type hostStatePainter struct{}

func (hostStatePainter) Ident() string      { return "host_state" }
func (hostStatePainter) Title() string      { return "Host state" }
func (hostStatePainter) ShortTitle() string { return "State" }
func (hostStatePainter) Columns() []string {
	return []string{"host_has_been_checked", "host_state"}
}

func (hostStatePainter) Render(row Row) (string, page.HTML) {
	if row.Int("host_has_been_checked", 1) == 0 {
		return "state hstate hstatep", "PEND"
	}
	state := row.Int("host_state", 0)
	return fmt.Sprintf("state hstate hstate%d", state), page.Escape(stateName(hostStateNames, state))
}

type serviceStatePainter struct{}

func (serviceStatePainter) Ident() string      { return "service_state" }
func (serviceStatePainter) Title() string      { return "Service state" }
func (serviceStatePainter) ShortTitle() string { return "State" }
func (serviceStatePainter) Columns() []string {
	return []string{"service_has_been_checked", "service_state"}
}

func (serviceStatePainter) Render(row Row) (string, page.HTML) {
	if row.Int("service_has_been_checked", 1) == 0 {
		return "state svcstate statep", "PEND"
	}
	state := row.Int("service_state", 0)
	return fmt.Sprintf("state svcstate state%d", state), page.Escape(stateName(serviceStateNames, state))
}

func stateName(names []string, state int) string {
	if state < 0 || state >= len(names) {
		return fmt.Sprintf("STATE %d", state)
	}
	return names[state]
}
