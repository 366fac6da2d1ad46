package storage

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrWatchUnsupported is returned when watching a backend that cannot report changes.
var ErrWatchUnsupported = errors.New("storage backend does not support watching")

// FilterKeys returns the keys matching a glob pattern such as "shopping_*".
// An empty pattern matches everything.
func FilterKeys(keys []string, pattern string) ([]string, error) {
	if pattern == "" {
		return keys, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern: %q", pattern)
	}
	var out []string
	for _, k := range keys {
		if doublestar.MatchUnvalidated(pattern, k) {
			out = append(out, k)
		}
	}
	return out, nil
}
