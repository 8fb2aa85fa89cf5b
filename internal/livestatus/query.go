package livestatus

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidValue is returned when a filter value would break out of
	// its header line.
	ErrInvalidValue = errors.New("livestatus: filter value contains a line break")

	// ErrInvalidQuery is returned for an empty or malformed table or column name.
	ErrInvalidQuery = errors.New("livestatus: invalid query")
)

// Operator is a Livestatus filter operator.
type Operator string

const (
	Equal        Operator = "="
	NotEqual     Operator = "!="
	Less         Operator = "<"
	Greater      Operator = ">"
	LessEqual    Operator = "<="
	GreaterEqual Operator = ">=" // on list columns: "contains"
	Match        Operator = "~"
)

// Filter is a single "Filter:" header.
type Filter struct {
	Column string
	Op     Operator
	Value  string
}

// Query is a structured GET request. Values are only ever placed into
// header lines by Encode, which refuses anything that could start a new
// header.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
}

// Get starts a query on table.
func Get(table string, columns ...string) Query {
	return Query{Table: table, Columns: columns}
}

// Where returns a copy of q with one more filter.
func (q Query) Where(column string, op Operator, value string) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Column: column, Op: op, Value: value})
	return q
}

// Encode renders the request text, asking for JSON output and a fixed16
// response header.
func (q Query) Encode() (string, error) {
	if !isName(q.Table) {
		return "", fmt.Errorf("%w: table %q", ErrInvalidQuery, q.Table)
	}

	var b strings.Builder
	b.WriteString("GET " + q.Table + "\n")

	if len(q.Columns) > 0 {
		for _, c := range q.Columns {
			if !isName(c) {
				return "", fmt.Errorf("%w: column %q", ErrInvalidQuery, c)
			}
		}
		b.WriteString("Columns: " + strings.Join(q.Columns, " ") + "\n")
	}

	for _, f := range q.Filters {
		if !isName(f.Column) {
			return "", fmt.Errorf("%w: filter column %q", ErrInvalidQuery, f.Column)
		}
		if !isOperator(f.Op) {
			return "", fmt.Errorf("%w: filter operator %q", ErrInvalidQuery, f.Op)
		}
		if strings.ContainsAny(f.Value, "\r\n") {
			return "", fmt.Errorf("%w: %s %s %q", ErrInvalidValue, f.Column, f.Op, f.Value)
		}
		fmt.Fprintf(&b, "Filter: %s %s %s\n", f.Column, f.Op, f.Value)
	}

	b.WriteString("OutputFormat: json\n")
	b.WriteString("ResponseHeader: fixed16\n")
	b.WriteString("\n")
	return b.String(), nil
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isOperator(op Operator) bool {
	switch op {
	case Equal, NotEqual, Less, Greater, LessEqual, GreaterEqual, Match:
		return true
	}
	return false
}
