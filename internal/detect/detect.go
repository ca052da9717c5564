// Package detect sniffs raw test-info input to determine its encoding.
package detect

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown Format = iota
	Empty          // whitespace only
	JSON           // JSON object keyed by test name
	YAML           // YAML mapping keyed by test name
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case Empty:
		return "empty"
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Sniff examines input to determine its format.
func Sniff(data []byte) Format {
	// Trim leading whitespace
	for len(data) > 0 && (data[0] == ' ' || data[0] == '\t' || data[0] == '\n' || data[0] == '\r') {
		data = data[1:]
	}
	if len(data) == 0 {
		return Empty
	}

	// JSON is a YAML subset, so it has to be tried first.
	if data[0] == '{' {
		if isJSONObject(data) {
			return JSON
		}
		return Unknown
	}

	if isYAMLMapping(data) {
		return YAML
	}
	return Unknown
}

func isJSONObject(data []byte) bool {
	var probe map[string]json.RawMessage
	return json.Unmarshal(data, &probe) == nil
}

func isYAMLMapping(data []byte) bool {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return false
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return false
	}
	return node.Content[0].Kind == yaml.MappingNode
}
