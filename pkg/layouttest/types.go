// Package layouttest holds the layout-test data model: test records and
// the expectation entries joined onto them from the expectations file.
package layouttest

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
)

// Reserved keys in the expectation mapping wire form. Everything else is a
// keyword.
const (
	KeyBugs     = "Bugs"
	KeyComments = "Comments"
)

// Well-known expectation keywords.
const (
	KeywordSkip    = "SKIP"
	KeywordGPU     = "GPU"
	KeywordTimeout = "TIMEOUT"
	KeywordCrash   = "CRASH"
	KeywordPass    = "PASS"
)

// Expectation is one line of the expectations file as it applies to a test.
// Keywords are kept sorted and deduplicated; use NewExpectation or the
// unmarshallers to build one.
type Expectation struct {
	Keywords []string
	Bugs     []string
	Comments string
}

// NewExpectation builds an Expectation with normalized keywords.
func NewExpectation(keywords, bugs []string, comments string) Expectation {
	return Expectation{
		Keywords: normalize(keywords),
		Bugs:     slices.Clone(bugs),
		Comments: comments,
	}
}

// HasKeyword reports whether the entry carries keyword kw.
func (e Expectation) HasKeyword(kw string) bool {
	_, found := slices.BinarySearch(e.Keywords, kw)
	return found
}

// IsSkip reports whether the entry marks the test as skipped.
func (e Expectation) IsSkip() bool {
	return e.HasKeyword(KeywordSkip)
}

// MainKeywords returns the keywords without bugs and comments.
func (e Expectation) MainKeywords() []string {
	return slices.Clone(e.Keywords)
}

// Equal reports structural equality.
func (e Expectation) Equal(o Expectation) bool {
	return e.Comments == o.Comments &&
		slices.Equal(e.Keywords, o.Keywords) &&
		slices.Equal(e.Bugs, o.Bugs)
}

// MarshalJSON writes the mapping wire form.
func (e Expectation) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.wire())
}

// UnmarshalJSON reads the mapping wire form.
func (e *Expectation) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out Expectation
	var keywords []string
	for k, raw := range m {
		switch k {
		case KeyBugs:
			if err := json.Unmarshal(raw, &out.Bugs); err != nil {
				return fmt.Errorf("expectation %s: %w", KeyBugs, err)
			}
		case KeyComments:
			if err := json.Unmarshal(raw, &out.Comments); err != nil {
				return fmt.Errorf("expectation %s: %w", KeyComments, err)
			}
		default:
			keywords = append(keywords, k)
		}
	}
	out.Keywords = normalize(keywords)
	*e = out
	return nil
}

// MarshalYAML writes the mapping wire form.
func (e Expectation) MarshalYAML() (interface{}, error) {
	return e.wire(), nil
}

// UnmarshalYAML reads the mapping wire form.
func (e *Expectation) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var m map[string]interface{}
	if err := unmarshal(&m); err != nil {
		return err
	}
	var out Expectation
	var keywords []string
	for k, v := range m {
		switch k {
		case KeyBugs:
			bugs, ok := v.([]interface{})
			if !ok {
				return fmt.Errorf("expectation %s: want a list, got %T", KeyBugs, v)
			}
			for _, b := range bugs {
				out.Bugs = append(out.Bugs, fmt.Sprint(b))
			}
		case KeyComments:
			out.Comments = fmt.Sprint(v)
		default:
			keywords = append(keywords, k)
		}
	}
	out.Keywords = normalize(keywords)
	*e = out
	return nil
}

func (e Expectation) wire() map[string]interface{} {
	m := make(map[string]interface{}, len(e.Keywords)+2)
	for _, k := range e.Keywords {
		m[k] = true
	}
	if len(e.Bugs) > 0 {
		m[KeyBugs] = e.Bugs
	}
	if e.Comments != "" {
		m[KeyComments] = e.Comments
	}
	return m
}

// Record is everything known about one layout test.
type Record struct {
	Description  string        `json:"desc,omitempty" yaml:"desc,omitempty"`
	Expectations []Expectation `json:"te_info,omitempty" yaml:"te_info,omitempty"`
}

// IsSkipped reports whether any entry carries SKIP.
func (r Record) IsSkipped() bool {
	for _, e := range r.Expectations {
		if e.IsSkip() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := Record{Description: r.Description}
	if r.Expectations != nil {
		out.Expectations = make([]Expectation, len(r.Expectations))
		for i, e := range r.Expectations {
			out.Expectations[i] = NewExpectation(e.Keywords, e.Bugs, e.Comments)
		}
	}
	return out
}

// RawMap is the joined test information keyed by test path,
// e.g. "media/video-play.html".
type RawMap map[string]Record

// Names returns the test names in sorted order.
func (m RawMap) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func normalize(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}
	out := slices.Clone(keywords)
	sort.Strings(out)
	return slices.Compact(out)
}
