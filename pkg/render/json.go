package render

import (
	"encoding/json"

	"github.com/dkoosis/lta/pkg/pattern"
)

// jsonSchemaVersion is bumped when the document shape changes.
const jsonSchemaVersion = 1

// Meta identifies the run a set of patterns describes.
type Meta struct {
	TestGroup string `json:"test_group,omitempty"`
	// Snapshot is the stored snapshot name, e.g. "2011-08-19-14".
	Snapshot string `json:"snapshot,omitempty"`
	// Previous names the snapshot compared against, if any.
	Previous string `json:"previous,omitempty"`
}

// JSON renders patterns as one JSON document for automation.
type JSON struct {
	Meta Meta
}

// NewJSON creates a JSON renderer for the run described by meta.
func NewJSON(meta Meta) *JSON {
	return &JSON{Meta: meta}
}

type jsonDocument struct {
	Tool   string `json:"tool"`
	Schema int    `json:"schema"`
	Meta
	// Regressions lists the comparison labels that moved the wrong way,
	// so callers can gate on them without walking the patterns.
	Regressions []string      `json:"regressions"`
	Patterns    []jsonPattern `json:"patterns"`
}

type jsonPattern struct {
	Type string          `json:"type"`
	Data pattern.Pattern `json:"data"`
}

// Render formats all patterns as an indented JSON document.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	doc := jsonDocument{
		Tool:        "lta",
		Schema:      jsonSchemaVersion,
		Meta:        j.Meta,
		Regressions: []string{},
		Patterns:    make([]jsonPattern, 0, len(patterns)),
	}
	for _, p := range patterns {
		if c, ok := p.(*pattern.Comparison); ok {
			for _, item := range c.Changes {
				if item.Regression {
					doc.Regressions = append(doc.Regressions, item.Label)
				}
			}
		}
		doc.Patterns = append(doc.Patterns, jsonPattern{Type: string(p.Type()), Data: p})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON) + "\n"
	}
	return string(data) + "\n"
}
