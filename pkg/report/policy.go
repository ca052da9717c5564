package report

import "github.com/dkoosis/lta/pkg/analyzer"

// Colors used in HTML output.
const (
	ColorGood = "green"
	ColorBad  = "red"
)

// ColorPolicy decides how bucket deltas are colored. A bucket listed in
// GrowthIsRegression renders positive deltas as regressions; every other
// delta renders as an improvement.
type ColorPolicy struct {
	GrowthIsRegression map[analyzer.Bucket]bool
}

// DefaultColorPolicy treats more skipped or failing tests as a regression
// and more tests overall as fine.
func DefaultColorPolicy() ColorPolicy {
	return ColorPolicy{GrowthIsRegression: map[analyzer.Bucket]bool{
		analyzer.Skip:    true,
		analyzer.NonSkip: true,
	}}
}

// With returns a copy of p with bucket b's rule replaced.
func (p ColorPolicy) With(b analyzer.Bucket, growthIsRegression bool) ColorPolicy {
	out := ColorPolicy{GrowthIsRegression: make(map[analyzer.Bucket]bool, len(p.GrowthIsRegression)+1)}
	for k, v := range p.GrowthIsRegression {
		out.GrowthIsRegression[k] = v
	}
	out.GrowthIsRegression[b] = growthIsRegression
	return out
}

// IsRegression reports whether a net change of delta in bucket b is bad.
func (p ColorPolicy) IsRegression(b analyzer.Bucket, delta int) bool {
	return delta > 0 && p.GrowthIsRegression[b]
}

// Color returns the HTML color for a net change of delta in bucket b.
func (p ColorPolicy) Color(b analyzer.Bucket, delta int) string {
	if p.IsRegression(b, delta) {
		return ColorBad
	}
	return ColorGood
}
