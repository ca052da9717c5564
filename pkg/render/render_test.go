package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/lta/pkg/pattern"
)

func analysisPatterns() []pattern.Pattern {
	return []pattern.Pattern{
		&pattern.Summary{
			Label: "2011-08-19-14: 120 tests, passing rate 90%",
			Kind:  pattern.SummaryKindAnalysis,
			Metrics: []pattern.SummaryItem{
				{Label: "Whole", Value: "120", Kind: "info"},
				{Label: "Nonskip", Value: "10", Kind: "warning"},
			},
		},
		&pattern.Comparison{
			Label: "Compared to 2011-08-18-10",
			Changes: []pattern.ComparisonItem{
				{Label: "Nonskip", Before: "8", After: "10", Change: 2, Unit: "tests", Regression: true},
				{Label: "Skip", Before: "12", After: "10", Change: -2, Unit: "tests"},
			},
		},
		&pattern.TestTable{
			Label: "BUGCR1234",
			Results: []pattern.TestTableItem{
				{Name: "media/video-play.html", Status: "fail", Details: "TIMEOUT"},
			},
		},
	}
}

func TestTerminal_RenderAnalysisPatterns(t *testing.T) {
	t.Parallel()

	out := NewTerminal(MonoTheme(), 80).Render(analysisPatterns())
	assert.Contains(t, out, "120 tests")
	assert.Contains(t, out, "Nonskip: 8 -> 10 + 2 tests (regression)")
	assert.Contains(t, out, "Skip: 12 -> 10 - 2 tests\n")
	assert.Contains(t, out, "x media/video-play.html")
	assert.Contains(t, out, "    TIMEOUT")
}

func TestTerminal_SkipsEmptyPatterns(t *testing.T) {
	t.Parallel()

	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{
		&pattern.TestTable{Label: "empty"},
		&pattern.Leaderboard{Label: "none"},
	})
	assert.Empty(t, out)
}

func TestTerminal_LeaderboardAlignsWideNames(t *testing.T) {
	t.Parallel()

	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{
		&pattern.Leaderboard{
			Label: "Bugs",
			Items: []pattern.LeaderboardItem{
				{Name: "BUGCR1", Metric: "3", Rank: 1},
				{Name: "日本語", Metric: "12", Rank: 2},
			},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  BUGCR1   3", lines[1])
	assert.Equal(t, "  日本語  12", lines[2])
}

func TestSparkString(t *testing.T) {
	t.Parallel()

	got := sparkString(&pattern.Sparkline{Values: []float64{0, 50, 100}})
	assert.Equal(t, "▁▄█", got)

	flat := sparkString(&pattern.Sparkline{Values: []float64{7, 7}})
	assert.Equal(t, "▁▁", flat)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "media/...", truncate("media/video-play.html", 9))
}

func TestTerminal_RegressionGlyphFollowsTheme(t *testing.T) {
	t.Parallel()

	out := NewTerminal(DefaultTheme(), 80).Render(analysisPatterns())
	assert.Contains(t, out, "↑ 2 tests ⚠")
	assert.NotContains(t, out, "↓ 2 tests ⚠")
}

func TestTerminal_SkipStatusUsesSkipGlyph(t *testing.T) {
	t.Parallel()

	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{
		&pattern.TestTable{Label: "Skip changes (+1/-0)", Results: []pattern.TestTableItem{
			{Name: "media/video-seek.html", Status: "skip"},
		}},
	})
	assert.Contains(t, out, "s media/video-seek.html")
}

func TestJSON_RenderCarriesRunMeta(t *testing.T) {
	t.Parallel()

	meta := Meta{TestGroup: "media", Snapshot: "2011-08-19-14", Previous: "2011-08-18-10"}
	out := NewJSON(meta).Render(analysisPatterns())
	var decoded struct {
		Tool        string   `json:"tool"`
		Schema      int      `json:"schema"`
		TestGroup   string   `json:"test_group"`
		Snapshot    string   `json:"snapshot"`
		Previous    string   `json:"previous"`
		Regressions []string `json:"regressions"`
		Patterns    []struct {
			Type string `json:"type"`
		} `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "lta", decoded.Tool)
	assert.Equal(t, 1, decoded.Schema)
	assert.Equal(t, "media", decoded.TestGroup)
	assert.Equal(t, "2011-08-19-14", decoded.Snapshot)
	assert.Equal(t, "2011-08-18-10", decoded.Previous)
	assert.Equal(t, []string{"Nonskip"}, decoded.Regressions)
	require.Len(t, decoded.Patterns, 3)
	assert.Equal(t, "summary", decoded.Patterns[0].Type)
	assert.Equal(t, "comparison", decoded.Patterns[1].Type)
	assert.Equal(t, "test-table", decoded.Patterns[2].Type)
}

func TestJSON_NoRegressionsIsEmptyList(t *testing.T) {
	t.Parallel()

	out := NewJSON(Meta{}).Render(nil)
	assert.Contains(t, out, `"regressions": []`)
	assert.NotContains(t, out, `"snapshot"`)
}

func TestByFormat(t *testing.T) {
	t.Parallel()

	opts := Options{Theme: MonoTheme(), Width: 80}
	assert.IsType(t, &JSON{}, ByFormat("json", opts))
	assert.IsType(t, &LLM{}, ByFormat("llm", opts))
	assert.IsType(t, &Terminal{}, ByFormat("terminal", opts))
	assert.IsType(t, &Terminal{}, ByFormat("", opts))
}

func TestThemeByName(t *testing.T) {
	t.Parallel()

	for _, name := range ThemeNames() {
		theme, err := ThemeByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, theme.Name)
	}

	theme, err := ThemeByName("")
	require.NoError(t, err)
	assert.Equal(t, "default", theme.Name)

	_, err = ThemeByName("solarized")
	assert.ErrorContains(t, err, `unknown theme "solarized"`)
}
