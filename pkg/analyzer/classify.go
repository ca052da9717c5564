// Package analyzer classifies layout-test results into buckets, diffs two
// classified snapshots and derives the statistics reported on them.
//
// A Snapshot is an independently owned value. Classify deep-copies its
// input, and nothing in this package mutates a Snapshot after construction.
package analyzer

import (
	"sort"

	"github.com/dkoosis/lta/pkg/layouttest"
)

// Bucket names one partition of a snapshot.
type Bucket string

const (
	Whole   Bucket = "whole"   // every test
	Skip    Bucket = "skip"    // tests with SKIP in some expectation entry
	NonSkip Bucket = "nonskip" // tests in the expectations file but not skipped
)

// Buckets lists all buckets in reporting order.
var Buckets = []Bucket{Whole, Skip, NonSkip}

// Tests maps test name to its record within one bucket.
type Tests map[string]layouttest.Record

// Names returns the test names sorted.
func (t Tests) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Snapshot is a classified capture of all test results at one point in time.
type Snapshot struct {
	Whole   Tests `json:"whole"`
	Skip    Tests `json:"skip"`
	NonSkip Tests `json:"nonskip"`
}

// NewSnapshot returns a snapshot with three empty buckets.
func NewSnapshot() *Snapshot {
	return &Snapshot{Whole: Tests{}, Skip: Tests{}, NonSkip: Tests{}}
}

// Classify partitions raw test information into buckets. Every test lands
// in Whole; tests with expectation entries land in exactly one of Skip or
// NonSkip.
func Classify(raw layouttest.RawMap) *Snapshot {
	s := NewSnapshot()
	for name, rec := range raw {
		rec = rec.Clone()
		s.Whole[name] = rec
		if len(rec.Expectations) == 0 {
			continue
		}
		if rec.IsSkipped() {
			s.Skip[name] = rec
		} else {
			s.NonSkip[name] = rec
		}
	}
	return s
}

// Bucket returns the tests in bucket b. Unknown buckets yield nil.
func (s *Snapshot) Bucket(b Bucket) Tests {
	if s == nil {
		return nil
	}
	switch b {
	case Whole:
		return s.Whole
	case Skip:
		return s.Skip
	case NonSkip:
		return s.NonSkip
	default:
		return nil
	}
}

// Counts holds the bucket sizes of a snapshot.
type Counts struct {
	Whole   int
	Skip    int
	NonSkip int
}

// Counts returns the bucket sizes.
func (s *Snapshot) Counts() Counts {
	if s == nil {
		return Counts{}
	}
	return Counts{Whole: len(s.Whole), Skip: len(s.Skip), NonSkip: len(s.NonSkip)}
}

// Of returns the count for bucket b.
func (c Counts) Of(b Bucket) int {
	switch b {
	case Whole:
		return c.Whole
	case Skip:
		return c.Skip
	case NonSkip:
		return c.NonSkip
	default:
		return 0
	}
}
