package view

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/sznuper/bettertiles/internal/painter"
)

// LoadRows reads a list of rows from a YAML (or JSON) file, e.g. a saved
// backend answer used to render a view offline.
func LoadRows(path string) ([]painter.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing rows: %w", err)
	}

	rows := make([]painter.Row, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, painter.Row(r))
	}
	return rows, nil
}
