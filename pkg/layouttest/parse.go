package layouttest

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/lta/internal/detect"
)

// ParseJSON decodes a JSON test-info mapping.
func ParseJSON(data []byte) (RawMap, error) {
	var m RawMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding test info JSON: %w", err)
	}
	if m == nil {
		m = RawMap{}
	}
	return m, nil
}

// ParseYAML decodes a YAML test-info mapping.
func ParseYAML(data []byte) (RawMap, error) {
	var m RawMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding test info YAML: %w", err)
	}
	if m == nil {
		m = RawMap{}
	}
	return m, nil
}

// Parse sniffs the input format and decodes it.
func Parse(data []byte) (RawMap, error) {
	switch detect.Sniff(data) {
	case detect.JSON:
		return ParseJSON(data)
	case detect.YAML:
		return ParseYAML(data)
	case detect.Empty:
		return RawMap{}, nil
	default:
		return nil, fmt.Errorf("unrecognized test info format (expected JSON or YAML mapping)")
	}
}
