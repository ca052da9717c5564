package mapper

import (
	"fmt"

	"github.com/dkoosis/lta/pkg/analyzer"
	"github.com/dkoosis/lta/pkg/pattern"
)

// TrendPoint is one recorded run in a passing-rate trend, oldest first.
type TrendPoint struct {
	Time        string
	Counts      analyzer.Counts
	PassingRate int
	HasRate     bool
}

// FromTrend converts recorded runs into a summary and sparklines of the
// passing rate and non-skipped test count.
func FromTrend(group string, points []TrendPoint) []pattern.Pattern {
	label := fmt.Sprintf("%d runs", len(points))
	if group != "" {
		label = group + ": " + label
	}
	summary := &pattern.Summary{Label: label, Kind: pattern.SummaryKindTrend}
	if len(points) == 0 {
		return []pattern.Pattern{summary}
	}

	first, last := points[0], points[len(points)-1]
	summary.Label += fmt.Sprintf(" from %s to %s", first.Time, last.Time)
	summary.Metrics = []pattern.SummaryItem{
		{Label: title(analyzer.Whole), Value: fmt.Sprint(last.Counts.Whole), Kind: kindInfo},
		{Label: title(analyzer.NonSkip), Value: fmt.Sprint(last.Counts.NonSkip), Kind: nonSkipKind(last.Counts.NonSkip)},
	}

	rates := &pattern.Sparkline{Label: "Passing rate", Unit: "%", Min: 0, Max: 100}
	nonskip := &pattern.Sparkline{Label: title(analyzer.NonSkip) + " tests"}
	for _, p := range points {
		if p.HasRate {
			rates.Values = append(rates.Values, float64(p.PassingRate))
		}
		nonskip.Values = append(nonskip.Values, float64(p.Counts.NonSkip))
	}

	patterns := []pattern.Pattern{summary}
	if len(rates.Values) > 0 {
		patterns = append(patterns, rates)
	}
	return append(patterns, nonskip)
}
