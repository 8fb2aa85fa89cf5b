package painter

import (
	"fmt"

	"github.com/sznuper/bettertiles/internal/livestatus"
)

// Row is one result row, keyed by column name. Painters only read it.
type Row map[string]any

// Lookup returns the raw value for key.
func (r Row) Lookup(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

// String returns the value for key as text, or def when the key is absent
// or nil.
func (r Row) String(key, def string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the value for key as an int, or def when the key is absent or
// not numeric.
func (r Row) Int(key string, def int) int {
	v, ok := r[key]
	if !ok {
		return def
	}
	n, ok := livestatus.AsInt(v)
	if !ok {
		return def
	}
	return n
}
