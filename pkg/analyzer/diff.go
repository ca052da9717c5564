package analyzer

import (
	"sort"

	"github.com/dkoosis/lta/pkg/layouttest"
)

// Entry is one test reported by a bucket diff.
type Entry struct {
	Name string
	// Record is the full record when the test is missing from the other
	// snapshot's bucket.
	Record layouttest.Record
	// Delta holds the expectation entries missing from the other side when
	// the test is present in both and detail comparison is enabled.
	Delta []layouttest.Expectation
}

// Changed reports whether the entry describes an expectation change rather
// than presence in only one snapshot.
func (e Entry) Changed() bool {
	return len(e.Delta) > 0
}

// BucketDiff holds the tests present on one side of a comparison but not
// the other.
type BucketDiff struct {
	OnlyInA []Entry
	OnlyInB []Entry
}

// Net returns len(OnlyInA) - len(OnlyInB).
func (d BucketDiff) Net() int {
	return len(d.OnlyInA) - len(d.OnlyInB)
}

// Empty reports whether both sides are empty.
func (d BucketDiff) Empty() bool {
	return len(d.OnlyInA) == 0 && len(d.OnlyInB) == 0
}

// DiffResult is the per-bucket comparison of snapshot A (usually the
// current run) against snapshot B (usually the previous run).
type DiffResult struct {
	Whole   BucketDiff
	Skip    BucketDiff
	NonSkip BucketDiff
}

// Of returns the diff for bucket b.
func (r DiffResult) Of(b Bucket) BucketDiff {
	switch b {
	case Whole:
		return r.Whole
	case Skip:
		return r.Skip
	case NonSkip:
		return r.NonSkip
	default:
		return BucketDiff{}
	}
}

// HasChanges reports whether any bucket differs.
func (r DiffResult) HasChanges() bool {
	return !r.Whole.Empty() || !r.Skip.Empty() || !r.NonSkip.Empty()
}

// ChangedTestNames returns the sorted, deduplicated names of tests that
// appear on either side of the given buckets' diffs.
func (r DiffResult) ChangedTestNames(buckets ...Bucket) []string {
	seen := make(map[string]bool)
	for _, b := range buckets {
		d := r.Of(b)
		for _, e := range d.OnlyInA {
			seen[e.Name] = true
		}
		for _, e := range d.OnlyInB {
			seen[e.Name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DiffOptions selects, per bucket, whether tests present on both sides
// are compared by their expectation entries.
type DiffOptions struct {
	Detail map[Bucket]bool
}

// DefaultDiffOptions compares expectation details for NonSkip only.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{Detail: map[Bucket]bool{NonSkip: true}}
}

// Compare diffs every bucket of a against b.
func Compare(a, b *Snapshot, opts DiffOptions) DiffResult {
	return DiffResult{
		Whole:   DiffBucket(a.Bucket(Whole), b.Bucket(Whole), opts.Detail[Whole]),
		Skip:    DiffBucket(a.Bucket(Skip), b.Bucket(Skip), opts.Detail[Skip]),
		NonSkip: DiffBucket(a.Bucket(NonSkip), b.Bucket(NonSkip), opts.Detail[NonSkip]),
	}
}

// DiffBucket compares two buckets. Results are sorted by test name.
func DiffBucket(a, b Tests, detail bool) BucketDiff {
	return BucketDiff{
		OnlyInA: oneSided(a, b, detail),
		OnlyInB: oneSided(b, a, detail),
	}
}

func oneSided(from, other Tests, detail bool) []Entry {
	var out []Entry
	for _, name := range from.Names() {
		rec := from[name]
		otherRec, ok := other[name]
		if !ok {
			out = append(out, Entry{Name: name, Record: rec})
			continue
		}
		if !detail {
			continue
		}
		if delta := missingFrom(rec.Expectations, otherRec.Expectations); len(delta) > 0 {
			out = append(out, Entry{Name: name, Delta: delta})
		}
	}
	return out
}

// missingFrom returns the entries of list that have no structural match in
// other.
func missingFrom(list, other []layouttest.Expectation) []layouttest.Expectation {
	var out []layouttest.Expectation
	for _, e := range list {
		found := false
		for _, o := range other {
			if e.Equal(o) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, e)
		}
	}
	return out
}
