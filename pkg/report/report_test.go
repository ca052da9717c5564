package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/lta/pkg/analyzer"
	"github.com/dkoosis/lta/pkg/layouttest"
)

func exp(keywords []string, bugs ...string) layouttest.Expectation {
	return layouttest.NewExpectation(keywords, bugs, "")
}

// sampleSnapshot has 10 tests: 2 skipped, 3 failing non-skipped.
func sampleSnapshot() *analyzer.Snapshot {
	raw := layouttest.RawMap{
		"media/skip1.html": {Expectations: []layouttest.Expectation{exp([]string{"SKIP"}, "BUGCR10")}},
		"media/skip2.html": {Expectations: []layouttest.Expectation{exp([]string{"SKIP", "TIMEOUT"})}},
		"media/eos.html":   {Expectations: []layouttest.Expectation{exp([]string{"TIMEOUT", "PASS"}, "BUGWK71543")}},
		"media/audio.html": {Expectations: []layouttest.Expectation{exp([]string{"IMAGE", "MAC", "TIMEOUT", "PASS"}, "BUGCR97657")}},
		"media/gpu.html":   {Expectations: []layouttest.Expectation{exp([]string{"GPU", "CRASH"}, "BUGCR97657")}},
	}
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		raw["media/"+n+".html"] = layouttest.Record{Description: n}
	}
	return analyzer.Classify(raw)
}

func TestStatsCSV(t *testing.T) {
	t.Parallel()

	got, err := StatsCSV(sampleSnapshot(), "2011-11-10-15")
	require.NoError(t, err)
	assert.Equal(t, "2011-11-10-15,10,2,3,62", got)
}

func TestStatsCSV_InsufficientPopulation(t *testing.T) {
	t.Parallel()

	_, err := StatsCSV(analyzer.NewSnapshot(), "2011-11-10-15")
	assert.ErrorIs(t, err, analyzer.ErrInsufficientPopulation)
}

func TestIssuesCSV(t *testing.T) {
	t.Parallel()

	got, err := IssuesCSV(sampleSnapshot())
	require.NoError(t, err)

	want := "BUGCR,97657,IMAGE MAC PASS TIMEOUT,media/audio.html,CRASH GPU,media/gpu.html,\n" +
		"BUGWK,71543,PASS TIMEOUT,media/eos.html,\n"
	assert.Equal(t, want, got)
}

func TestIssuesCSV_UnparseableBug(t *testing.T) {
	t.Parallel()

	snap := analyzer.Classify(layouttest.RawMap{
		"a.html": {Expectations: []layouttest.Expectation{exp([]string{"CRASH"}, "BUG_SOMEONE")}},
	})
	got, err := IssuesCSV(snap)
	require.NoError(t, err)
	assert.Equal(t, ",,CRASH,a.html,\n", got)
}

func TestDiffString(t *testing.T) {
	t.Parallel()

	policy := DefaultColorPolicy()

	assert.Equal(t, "No Change", string(DiffString(analyzer.BucketDiff{}, analyzer.Skip, policy)))

	d := analyzer.BucketDiff{
		OnlyInA: []analyzer.Entry{{Name: "a.html"}, {Name: "b.html"}},
		OnlyInB: []analyzer.Entry{{Name: "c.html"}},
	}
	got := string(DiffString(d, analyzer.Skip, policy))
	want := `<font color="red">+1</font>:<font color="red">a.html,</font> <font color="red">b.html,</font><font color="green">c.html,</font>`
	assert.Equal(t, want, got)

	got = string(DiffString(d, analyzer.Whole, policy))
	assert.True(t, strings.HasPrefix(got, `<font color="green">+1</font>`), got)

	shrink := analyzer.BucketDiff{OnlyInB: []analyzer.Entry{{Name: "c.html"}}}
	got = string(DiffString(shrink, analyzer.NonSkip, policy))
	assert.True(t, strings.HasPrefix(got, `<font color="green">-1</font>`), got)
}

func TestDiffString_EscapesNames(t *testing.T) {
	t.Parallel()

	d := analyzer.BucketDiff{OnlyInA: []analyzer.Entry{{Name: "<script>.html"}}}
	got := string(DiffString(d, analyzer.Whole, DefaultColorPolicy()))
	assert.Contains(t, got, "&lt;script&gt;.html")
}

func TestColorPolicy_Override(t *testing.T) {
	t.Parallel()

	base := DefaultColorPolicy()
	p := base.With(analyzer.Whole, true)

	assert.Equal(t, ColorBad, p.Color(analyzer.Whole, 3))
	assert.Equal(t, ColorGood, base.Color(analyzer.Whole, 3), "With must not modify the receiver")
	assert.Equal(t, ColorGood, p.Color(analyzer.Skip, -3))
}

func TestHTMLRenderer_WithoutDiff(t *testing.T) {
	t.Parallel()

	annotations := map[string]string{"BUGWK71543": "fixed upstream"}
	rep, err := NewHTMLRenderer().Render(Input{Snapshot: sampleSnapshot(), Annotations: annotations})
	require.NoError(t, err)

	assert.NotContains(t, rep.Body, "Statistics")
	assert.Contains(t, rep.Body, "<b>Current issues about failing non-skipped tests:</b>")
	assert.Contains(t, rep.Body, `<a href="http://crbug.com/97657">BUGCR97657</a> (<font color="red">Needs investigation!</font>)`)
	assert.Contains(t, rep.Body, "(fixed upstream)")
	assert.Contains(t, rep.Body, ">media/eos.html</a> (PASS TIMEOUT) </li>")
	assert.Equal(t, []string{"BUGCR97657"}, rep.Defaulted)
	assert.Len(t, annotations, 1, "renderer must not modify the annotation map")
}

func TestHTMLRenderer_StoredMarkerStaysHighlighted(t *testing.T) {
	t.Parallel()

	annotations := map[string]string{"BUGCR97657": NeedsInvestigation, "BUGWK71543": "fixed upstream"}
	rep, err := NewHTMLRenderer().Render(Input{Snapshot: sampleSnapshot(), Annotations: annotations})
	require.NoError(t, err)

	assert.Contains(t, rep.Body, `<a href="http://crbug.com/97657">BUGCR97657</a> (<font color="red">Needs investigation!</font>)`)
	assert.Empty(t, rep.Defaulted, "a stored marker is not a new default")
}

func TestHTMLRenderer_DashboardLinks(t *testing.T) {
	t.Parallel()

	rep, err := NewHTMLRenderer().Render(Input{Snapshot: sampleSnapshot()})
	require.NoError(t, err)

	assert.Contains(t, rep.Body, `flakiness_dashboard.html#tests=media/audio.html`)
	assert.Contains(t, rep.Body, `flakiness_dashboard.html#group=%40ToT%20GPU%20Mesa%20-%20chromium.org&amp;tests=media/gpu.html`)
}

func TestHTMLRenderer_WithDiff(t *testing.T) {
	t.Parallel()

	cur := sampleSnapshot()
	prev := analyzer.NewSnapshot()
	diff := analyzer.Compare(cur, prev, analyzer.DefaultDiffOptions())

	rep, err := NewHTMLRenderer().Render(Input{Snapshot: cur, Diff: &diff, PrevTime: "2011-11-09-15"})
	require.NoError(t, err)

	assert.Contains(t, rep.Body, "<b>Statistics (Diff Compared to 2011-11-09-15):</b>")
	assert.Contains(t, rep.Body, `<li>The number of tests: 10 (<font color="green">+10</font>:`)
	assert.Contains(t, rep.Body, `<li>The number of failing skipped tests: 2 (<font color="red">+2</font>:`)
	assert.Contains(t, rep.Body, "<li>Passing rate: 62 %</li>")
}

func TestHTMLRenderer_StatsNeedPopulation(t *testing.T) {
	t.Parallel()

	diff := analyzer.DiffResult{}
	_, err := NewHTMLRenderer().Render(Input{Snapshot: analyzer.NewSnapshot(), Diff: &diff})
	assert.ErrorIs(t, err, analyzer.ErrInsufficientPopulation)
}

func TestHTMLRenderer_EscapesAnnotations(t *testing.T) {
	t.Parallel()

	rep, err := NewHTMLRenderer().Render(Input{
		Snapshot:    sampleSnapshot(),
		Annotations: map[string]string{"BUGCR97657": "<b>owner</b>", "BUGWK71543": "x"},
	})
	require.NoError(t, err)
	assert.Contains(t, rep.Body, "&lt;b&gt;owner&lt;/b&gt;")
	assert.Empty(t, rep.Defaulted)
}

func TestRenderRevisions(t *testing.T) {
	t.Parallel()

	sum, err := RenderRevisions([]Revision{
		{Old: 100, New: 101, Author: "a@chromium.org", Date: "2011-11-01", Lines: []string{"BUGCR1 : media/a.html = TIMEOUT"}},
		{Old: 101, New: 105, Author: "b@chromium.org", Date: "2011-11-02"},
	})
	require.NoError(t, err)

	assert.Contains(t, sum.HTML, ">100->101</a>")
	assert.Contains(t, sum.HTML, "<li>a@chromium.org</li>")
	assert.Contains(t, sum.HTML, "<li>BUGCR1 : media/a.html = TIMEOUT</li>")
	assert.Equal(t, 2, strings.Count(sum.Links, "</a>,"))
	assert.Equal(t, 105, sum.Latest.New)
	assert.Equal(t, "2011-11-02", sum.Latest.Date)
}

func TestRenderRevisions_Empty(t *testing.T) {
	t.Parallel()

	sum, err := RenderRevisions(nil)
	require.NoError(t, err)
	assert.Equal(t, RevisionSummary{}, sum)
}
