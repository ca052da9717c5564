// Package mapper converts analysis results into visualization patterns.
package mapper

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/lta/pkg/analyzer"
	"github.com/dkoosis/lta/pkg/layouttest"
	"github.com/dkoosis/lta/pkg/pattern"
	"github.com/dkoosis/lta/pkg/report"
)

const (
	statusFail  = "fail"
	statusPass  = "pass"
	kindSuccess = "success"
	kindError   = "error"
	kindWarning = "warning"
	kindInfo    = "info"

	// DefaultTopBugs caps the bug leaderboard.
	DefaultTopBugs = 10
)

// Analysis is everything known about one run of the analyzer.
type Analysis struct {
	TestGroup string
	Timestamp string
	Snapshot  *analyzer.Snapshot

	// Previous and Diff are nil when there is no earlier snapshot.
	Previous *analyzer.Snapshot
	PrevTime string
	Diff     *analyzer.DiffResult

	Policy      report.ColorPolicy
	Annotations map[string]string
	TopBugs     int // 0 = DefaultTopBugs
}

// FromAnalysis converts an analysis run into patterns: a summary of counts
// and passing rate, a comparison and change tables against the previous
// snapshot, a leaderboard of bugs and one table per bug group.
func FromAnalysis(a Analysis) []pattern.Pattern {
	if a.Snapshot == nil {
		return nil
	}
	if a.Policy.GrowthIsRegression == nil {
		a.Policy = report.DefaultColorPolicy()
	}

	patterns := []pattern.Pattern{summaryPattern(a)}
	if a.Previous != nil {
		patterns = append(patterns, comparisonPattern(a))
	}
	if a.Diff != nil {
		for _, b := range analyzer.Buckets {
			if t := diffTable(a, b); t != nil {
				patterns = append(patterns, t)
			}
		}
	}

	groups := a.Snapshot.NonSkipBugGroups()
	if lb := bugLeaderboard(groups, a.Annotations, a.TopBugs); lb != nil {
		patterns = append(patterns, lb)
	}
	for _, g := range groups {
		patterns = append(patterns, bugTable(g, a.Annotations))
	}
	return patterns
}

func summaryPattern(a Analysis) *pattern.Summary {
	counts := a.Snapshot.Counts()
	label := fmt.Sprintf("%d tests", counts.Whole)
	if a.Timestamp != "" {
		label = a.Timestamp + ": " + label
	}
	if a.TestGroup != "" {
		label = a.TestGroup + " " + label
	}

	metrics := []pattern.SummaryItem{
		{Label: title(analyzer.Whole), Value: fmt.Sprint(counts.Whole), Kind: kindInfo},
		{Label: title(analyzer.Skip), Value: fmt.Sprint(counts.Skip), Kind: kindWarning},
		{Label: title(analyzer.NonSkip), Value: fmt.Sprint(counts.NonSkip), Kind: nonSkipKind(counts.NonSkip)},
	}
	rate, err := counts.PassingRate()
	switch {
	case err == nil:
		label += fmt.Sprintf(", passing rate %d%%", rate)
		metrics = append(metrics, pattern.SummaryItem{Label: "Passing rate", Value: fmt.Sprintf("%d%%", rate), Kind: rateKind(rate)})
	case errors.Is(err, analyzer.ErrInsufficientPopulation):
		metrics = append(metrics, pattern.SummaryItem{Label: "Passing rate", Value: "n/a", Kind: kindWarning})
	}
	return &pattern.Summary{Label: label, Kind: pattern.SummaryKindAnalysis, Metrics: metrics}
}

func comparisonPattern(a Analysis) *pattern.Comparison {
	cur, prev := a.Snapshot.Counts(), a.Previous.Counts()
	label := "Compared to previous snapshot"
	if a.PrevTime != "" {
		label = "Compared to " + a.PrevTime
	}
	c := &pattern.Comparison{Label: label}
	for _, b := range analyzer.Buckets {
		delta := cur.Of(b) - prev.Of(b)
		c.Changes = append(c.Changes, pattern.ComparisonItem{
			Label:      title(b),
			Before:     fmt.Sprint(prev.Of(b)),
			After:      fmt.Sprint(cur.Of(b)),
			Change:     float64(delta),
			Unit:       "tests",
			Regression: a.Policy.IsRegression(b, delta),
		})
	}
	return c
}

// diffTable lists the tests that appeared in or left bucket b. A row is
// marked as failing when the move counts as a regression under the policy.
func diffTable(a Analysis, b analyzer.Bucket) *pattern.TestTable {
	d := a.Diff.Of(b)
	if d.Empty() {
		return nil
	}
	addedStatus, removedStatus := statusPass, statusFail
	if a.Policy.IsRegression(b, 1) {
		addedStatus, removedStatus = statusFail, statusPass
	}

	t := &pattern.TestTable{
		Label: fmt.Sprintf("%s changes (+%d/-%d)", title(b), len(d.OnlyInA), len(d.OnlyInB)),
	}
	for _, e := range d.OnlyInA {
		t.Results = append(t.Results, pattern.TestTableItem{
			Name:    e.Name,
			Status:  addedStatus,
			Details: entryDetails(e, "now", "added"),
		})
	}
	for _, e := range d.OnlyInB {
		t.Results = append(t.Results, pattern.TestTableItem{
			Name:    e.Name,
			Status:  removedStatus,
			Details: entryDetails(e, "was", "removed"),
		})
	}
	return t
}

func entryDetails(e analyzer.Entry, changedVerb, presenceVerb string) string {
	if e.Changed() {
		return changedVerb + ": " + describe(e.Delta)
	}
	if len(e.Record.Expectations) == 0 {
		return presenceVerb
	}
	return presenceVerb + ": " + describe(e.Record.Expectations)
}

func describe(entries []layouttest.Expectation) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		words := append(e.MainKeywords(), e.Bugs...)
		parts = append(parts, strings.Join(words, " "))
	}
	return strings.Join(parts, "; ")
}

func bugLeaderboard(groups []analyzer.BugGroup, notes map[string]string, top int) *pattern.Leaderboard {
	if len(groups) == 0 {
		return nil
	}
	if top <= 0 {
		top = DefaultTopBugs
	}
	ranked := make([]analyzer.BugGroup, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(ranked[i].Tests) > len(ranked[j].Tests)
	})

	lb := &pattern.Leaderboard{
		Label:      "Bugs by non-skipped test count",
		MetricName: "Tests",
		Direction:  "highest",
		TotalCount: len(ranked),
		ShowRank:   true,
	}
	for i, g := range ranked {
		if i == top {
			break
		}
		lb.Items = append(lb.Items, pattern.LeaderboardItem{
			Name:    g.Bug.ID,
			Metric:  fmt.Sprintf("%d tests", len(g.Tests)),
			Value:   float64(len(g.Tests)),
			Rank:    i + 1,
			Context: notes[g.Bug.ID],
		})
	}
	return lb
}

func bugTable(g analyzer.BugGroup, notes map[string]string) *pattern.TestTable {
	label := g.Bug.ID
	if u := g.Bug.URL(); u != "" {
		label += " " + u
	}
	if note, ok := notes[g.Bug.ID]; ok && note != "" {
		label += ": " + note
	} else {
		label += ": " + report.NeedsInvestigation
	}
	t := &pattern.TestTable{Label: label}
	for _, bt := range g.Tests {
		t.Results = append(t.Results, pattern.TestTableItem{
			Name:    bt.Name,
			Status:  statusFail,
			Details: strings.Join(bt.Keywords, " "),
		})
	}
	return t
}

func nonSkipKind(n int) string {
	if n == 0 {
		return kindSuccess
	}
	return kindError
}

func rateKind(rate int) string {
	if rate == 100 {
		return kindSuccess
	}
	return kindWarning
}

// title capitalizes a bucket name for display. Casers are stateful, so one
// is built per call.
func title(b analyzer.Bucket) string {
	return cases.Title(language.English).String(string(b))
}
