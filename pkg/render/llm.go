package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/lta/pkg/pattern"
)

const (
	statusFail = "fail"
	maxDetail  = 3
)

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, SCOPE line first, patterns in the order given.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for _, p := range patterns {
		if s, ok := p.(*pattern.Summary); ok {
			sb.WriteString("SCOPE: " + s.Label + "\n")
			for _, m := range s.Metrics {
				sb.WriteString("  " + m.Label + ": " + m.Value + "\n")
			}
		}
	}

	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Comparison:
			l.writeComparison(&sb, v)
		case *pattern.Leaderboard:
			l.writeLeaderboard(&sb, v)
		case *pattern.TestTable:
			l.writeTable(&sb, v)
		case *pattern.Sparkline:
			l.writeSparkline(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) writeComparison(sb *strings.Builder, c *pattern.Comparison) {
	if len(c.Changes) == 0 {
		return
	}
	sb.WriteString("\n" + c.Label + "\n")
	for _, item := range c.Changes {
		mark := ""
		if item.Regression {
			mark = " REGRESSION"
		}
		fmt.Fprintf(sb, "  %s: %s -> %s (%+.0f)%s\n", item.Label, item.Before, item.After, item.Change, mark)
	}
}

func (l *LLM) writeLeaderboard(sb *strings.Builder, lb *pattern.Leaderboard) {
	if len(lb.Items) == 0 {
		return
	}
	sb.WriteString("\n" + lb.Label)
	if lb.TotalCount > len(lb.Items) {
		fmt.Fprintf(sb, " (top %d of %d)", len(lb.Items), lb.TotalCount)
	}
	sb.WriteString("\n")
	for _, item := range lb.Items {
		fmt.Fprintf(sb, "  %d. %s %s\n", item.Rank, item.Name, item.Metric)
	}
}

func (l *LLM) writeTable(sb *strings.Builder, t *pattern.TestTable) {
	if len(t.Results) == 0 {
		return
	}
	sb.WriteString("\n" + t.Label + "\n")
	for _, item := range t.Results {
		prefix := "  "
		switch item.Status {
		case statusFail:
			prefix = "  FAIL "
		case "skip":
			prefix = "  SKIP "
		case "pass":
			prefix = "  PASS "
		}
		sb.WriteString(prefix + item.Name + "\n")
		if item.Details == "" {
			continue
		}
		lines := strings.Split(item.Details, "\n")
		n := min(len(lines), maxDetail)
		for _, line := range lines[:n] {
			sb.WriteString("    " + line + "\n")
		}
		if len(lines) > maxDetail {
			fmt.Fprintf(sb, "    ... (%d more lines)\n", len(lines)-maxDetail)
		}
	}
}

func (l *LLM) writeSparkline(sb *strings.Builder, s *pattern.Sparkline) {
	if len(s.Values) == 0 {
		return
	}
	vals := make([]string, len(s.Values))
	for i, v := range s.Values {
		vals[i] = fmt.Sprintf("%.0f", v)
	}
	fmt.Fprintf(sb, "\n%s: %s%s\n", s.Label, strings.Join(vals, " "), s.Unit)
}
