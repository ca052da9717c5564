package pattern

// SummaryKind identifies the source of a summary for renderer dispatch.
type SummaryKind string

const (
	SummaryKindAnalysis SummaryKind = "analysis"
	SummaryKindTrend    SummaryKind = "trend"
)

// Summary represents high-level metrics and counts.
type Summary struct {
	Label   string
	Kind    SummaryKind // dispatch key for renderers
	Metrics []SummaryItem
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Label string // e.g., "Tests", "Skipped", "Passing rate"
	Value string // formatted value
	Kind  string // success, error, warning or info; affects coloring
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
