package painter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sznuper/bettertiles/internal/livestatus"
	"github.com/sznuper/bettertiles/internal/metrics"
	"github.com/sznuper/bettertiles/internal/page"
)

// StateCritical ends the worst-state scan early. UNKNOWN (3) ranks higher
// numerically, so a scan that has already seen 3 keeps going.
const StateCritical = 2

var errNoBackend = errors.New("no status backend configured")

// HostGroupStatusAlias paints a host group's alias coloured by the worst
// state among the group's services that are not acknowledged.
type HostGroupStatusAlias struct {
	querier livestatus.Querier
	logger  *slog.Logger
}

// NewHostGroupStatusAlias creates the painter. A nil logger discards.
func NewHostGroupStatusAlias(q livestatus.Querier, logger *slog.Logger) *HostGroupStatusAlias {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HostGroupStatusAlias{querier: q, logger: logger}
}

func (p *HostGroupStatusAlias) Ident() string { return "hostgroup_status_alias" }

func (p *HostGroupStatusAlias) Title() string {
	return "Host Group: Alias with status color (excluding acknowledged)"
}

func (p *HostGroupStatusAlias) ShortTitle() string { return "Group Status" }

func (p *HostGroupStatusAlias) Columns() []string {
	return []string{
		"hostgroup_name",
		"hostgroup_alias",
		"hostgroup_num_services_ok",
		"hostgroup_num_services_warn",
		"hostgroup_num_services_crit",
		"hostgroup_num_services_unknown",
		"hostgroup_num_services_pending",
	}
}

// Render never fails: backend errors are logged and the alias is returned
// without a state class.
func (p *HostGroupStatusAlias) Render(row Row) (string, page.HTML) {
	name := row.String("hostgroup_name", "")
	alias := row.String("hostgroup_alias", name)
	if name == "" {
		return "", ""
	}

	worst, err := p.worstState(context.Background(), name)
	if err != nil {
		p.logger.Error("hostgroup status query failed",
			"painter", p.Ident(), "hostgroup", name, "error", err)
		metrics.RecordPainterFailure(p.Ident())
		return "", page.Escape(alias)
	}

	return fmt.Sprintf("count svcstate state%d", worst), page.Span(alias)
}

func (p *HostGroupStatusAlias) worstState(ctx context.Context, group string) (int, error) {
	if p.querier == nil {
		return 0, errNoBackend
	}
	q := GroupServicesQuery(group)
	rows, err := p.querier.QueryTable(ctx, q)
	if err != nil {
		return 0, err
	}
	return WorstState(rows)
}

// GroupServicesQuery selects the unacknowledged services of all hosts in group.
func GroupServicesQuery(group string) livestatus.Query {
	return livestatus.Get("services", "state", "host_name", "description", "acknowledged").
		Where("host_groups", livestatus.GreaterEqual, group).
		Where("acknowledged", livestatus.Equal, "0")
}

// WorstState returns the highest state in rows of (state, host_name,
// description, acknowledged). It stops as soon as the running maximum is
// CRIT. No rows means OK.
func WorstState(rows [][]any) (int, error) {
	worst := 0
	for i, r := range rows {
		if len(r) != 4 {
			return 0, fmt.Errorf("row %d: got %d columns, want 4", i, len(r))
		}
		state, ok := livestatus.AsInt(r[0])
		if !ok {
			return 0, fmt.Errorf("row %d: state %v is not a number", i, r[0])
		}
		if state > worst {
			worst = state
		}
		if worst == StateCritical {
			break
		}
	}
	return worst, nil
}
