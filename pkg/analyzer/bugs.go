package analyzer

import (
	"regexp"
	"sort"
)

var bugRe = regexp.MustCompile(`^(BUG(CR|WK))(\d+)`)

// Bug type prefixes understood by ParseBug.
const (
	PrefixChromium = "BUGCR"
	PrefixWebKit   = "BUGWK"
)

// BugRef is a bug identifier split into its tracker prefix and number.
// Both fields are empty when the identifier is not recognized.
type BugRef struct {
	ID     string
	Prefix string
	Number string
}

// ParseBug splits an identifier such as "BUGCR1234". Unrecognized
// identifiers keep their ID with empty Prefix and Number.
func ParseBug(id string) BugRef {
	ref := BugRef{ID: id}
	if m := bugRe.FindStringSubmatch(id); m != nil {
		ref.Prefix = m[1]
		ref.Number = m[3]
	}
	return ref
}

// URL returns the tracker link for the bug, or "" when unknown.
func (r BugRef) URL() string {
	switch r.Prefix {
	case PrefixChromium:
		return "http://crbug.com/" + r.Number
	case PrefixWebKit:
		return "https://bugs.webkit.org/show_bug.cgi?id=" + r.Number
	default:
		return ""
	}
}

// BugTest is a test referencing a bug, with that entry's keywords.
type BugTest struct {
	Name     string
	Keywords []string
}

// BugGroup is every non-skipped test entry referencing one bug.
type BugGroup struct {
	Bug   BugRef
	Tests []BugTest
}

// GroupByBug groups the tests of a bucket by the bugs their expectation
// entries reference. A test appears once per entry naming the bug. Groups
// are sorted by bug identifier.
func GroupByBug(tests Tests) []BugGroup {
	byBug := make(map[string][]BugTest)
	for _, name := range tests.Names() {
		for _, e := range tests[name].Expectations {
			for _, bug := range e.Bugs {
				byBug[bug] = append(byBug[bug], BugTest{Name: name, Keywords: e.MainKeywords()})
			}
		}
	}

	ids := make([]string, 0, len(byBug))
	for id := range byBug {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]BugGroup, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, BugGroup{Bug: ParseBug(id), Tests: byBug[id]})
	}
	return groups
}

// NonSkipBugGroups groups the snapshot's non-skipped tests by bug.
func (s *Snapshot) NonSkipBugGroups() []BugGroup {
	return GroupByBug(s.Bucket(NonSkip))
}
