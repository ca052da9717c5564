// Package annotation persists the bug annotation map shown next to each bug
// in the HTML report.
package annotation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Map is bug identifier to annotation text.
type Map map[string]string

// Load reads the annotation file at path. A missing file is an empty map.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Map{}, nil
		}
		return nil, fmt.Errorf("reading annotations %s: %w", path, err)
	}
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing annotations %s: %w", path, err)
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}

// Save writes m to path.
func Save(m Map, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding annotations: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing annotations %s: %w", path, err)
	}
	return nil
}

// WithDefaults returns a copy of m where every bug in bugs without an
// annotation is set to note. The second result reports whether anything
// was added.
func (m Map) WithDefaults(bugs []string, note string) (Map, bool) {
	out := make(Map, len(m)+len(bugs))
	for k, v := range m {
		out[k] = v
	}
	added := false
	for _, b := range bugs {
		if _, ok := out[b]; !ok {
			out[b] = note
			added = true
		}
	}
	return out, added
}
