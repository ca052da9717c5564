package report

import (
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"

	"github.com/dkoosis/lta/pkg/analyzer"
	"github.com/dkoosis/lta/pkg/layouttest"
)

// DefaultDashboardURL is the flakiness dashboard base; the test query is
// appended after the fragment marker.
const DefaultDashboardURL = "http://test-results.appspot.com/dashboards/flakiness_dashboard.html#"

// gpuGroupParam selects the GPU bots on the flakiness dashboard.
const gpuGroupParam = "group=%40ToT%20GPU%20Mesa%20-%20chromium.org&"

// NeedsInvestigation is shown for bugs that have no annotation yet.
const NeedsInvestigation = "Needs investigation!"

// needsInvestigation is the highlighted marker for bugs nobody has
// annotated yet, whether defaulted now or in an earlier run.
var needsInvestigation = template.HTML(fmt.Sprintf(`<font color="%s">%s</font>`, ColorBad, NeedsInvestigation))

// Input is everything the HTML report is rendered from.
type Input struct {
	Snapshot *analyzer.Snapshot
	// Diff against the snapshot taken at PrevTime. The statistics block is
	// omitted when Diff is nil.
	Diff        *analyzer.DiffResult
	PrevTime    string
	Annotations map[string]string
}

// HTMLReport is a rendered HTML fragment.
type HTMLReport struct {
	Body string
	// Defaulted lists, sorted, the bugs rendered with the
	// NeedsInvestigation marker because Annotations had no entry.
	Defaulted []string
}

// HTMLRenderer renders analysis results as an HTML fragment for email
// bodies and dashboards.
type HTMLRenderer struct {
	Policy       ColorPolicy
	DashboardURL string
}

// NewHTMLRenderer returns a renderer using the default policy and dashboard.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{Policy: DefaultColorPolicy(), DashboardURL: DefaultDashboardURL}
}

var htmlTmpl = template.Must(template.New("report").Parse(
	`{{with .Stats}}<b>Statistics (Diff Compared to {{.PrevTime}}):</b><ul>` +
		`<li>The number of tests: {{.Whole}} ({{.WholeDiff}})</li>` +
		`<li>The number of failing skipped tests: {{.Skip}} ({{.SkipDiff}})</li>` +
		`<li>The number of failing non-skipped tests: {{.NonSkip}} ({{.NonSkipDiff}})</li>` +
		`<li>Passing rate: {{.Rate}} %</li></ul>{{end}}` +
		`<b>Current issues about failing non-skipped tests:</b>` +
		`{{range .Groups}}<ul>{{if .URL}}<a href="{{.URL}}">{{.ID}}</a>{{else}}{{.ID}}{{end}} ({{.Annotation}})` +
		`{{range .Tests}}<li><a href="{{.Link}}">{{.Name}}</a> ({{.Keywords}}) </li>{{end}}</ul>
{{end}}`))

type statsView struct {
	PrevTime                         string
	Whole, Skip, NonSkip, Rate       int
	WholeDiff, SkipDiff, NonSkipDiff template.HTML
}

type groupView struct {
	ID, URL    string
	Annotation template.HTML
	Tests      []testView
}

type testView struct {
	Name, Link, Keywords string
}

// Render renders in. It fails with analyzer.ErrInsufficientPopulation when
// statistics are requested but no passing rate can be computed. The
// Annotations map is not modified.
func (r *HTMLRenderer) Render(in Input) (HTMLReport, error) {
	data := struct {
		Stats  *statsView
		Groups []groupView
	}{}

	if in.Diff != nil {
		c := in.Snapshot.Counts()
		rate, err := c.PassingRate()
		if err != nil {
			return HTMLReport{}, fmt.Errorf("rendering statistics: %w", err)
		}
		data.Stats = &statsView{
			PrevTime:    in.PrevTime,
			Whole:       c.Whole,
			Skip:        c.Skip,
			NonSkip:     c.NonSkip,
			Rate:        rate,
			WholeDiff:   DiffString(in.Diff.Whole, analyzer.Whole, r.Policy),
			SkipDiff:    DiffString(in.Diff.Skip, analyzer.Skip, r.Policy),
			NonSkipDiff: DiffString(in.Diff.NonSkip, analyzer.NonSkip, r.Policy),
		}
	}

	var defaulted []string
	for _, g := range in.Snapshot.NonSkipBugGroups() {
		gv := groupView{ID: g.Bug.ID, URL: g.Bug.URL()}
		note, ok := in.Annotations[g.Bug.ID]
		switch {
		case !ok:
			gv.Annotation = needsInvestigation
			defaulted = append(defaulted, g.Bug.ID)
		case strings.TrimSpace(note) == NeedsInvestigation:
			gv.Annotation = needsInvestigation
		default:
			gv.Annotation = template.HTML(html.EscapeString(note))
		}
		for _, bt := range g.Tests {
			gv.Tests = append(gv.Tests, testView{
				Name:     bt.Name,
				Link:     r.dashboardLink(bt),
				Keywords: strings.Join(bt.Keywords, " "),
			})
		}
		data.Groups = append(data.Groups, gv)
	}
	sort.Strings(defaulted)

	var sb strings.Builder
	if err := htmlTmpl.Execute(&sb, data); err != nil {
		return HTMLReport{}, fmt.Errorf("rendering HTML report: %w", err)
	}
	return HTMLReport{Body: sb.String(), Defaulted: defaulted}, nil
}

func (r *HTMLRenderer) dashboardLink(bt analyzer.BugTest) string {
	base := r.DashboardURL
	if base == "" {
		base = DefaultDashboardURL
	}
	group := ""
	for _, kw := range bt.Keywords {
		if kw == layouttest.KeywordGPU {
			group = gpuGroupParam
			break
		}
	}
	return base + group + "tests=" + bt.Name
}

// DiffString summarizes one bucket diff: the colored net change followed by
// the tests only in the current snapshot (red) and only in the previous one
// (green).
func DiffString(d analyzer.BucketDiff, b analyzer.Bucket, policy ColorPolicy) template.HTML {
	net := d.Net()
	if net == 0 {
		return "No Change"
	}
	sign := ""
	if net > 0 {
		sign = "+"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `<font color="%s">%s%d</font>`, policy.Color(b, net), sign, net)
	added := coloredNames(d.OnlyInA, ColorBad)
	removed := coloredNames(d.OnlyInB, ColorGood)
	if added != "" || removed != "" {
		sb.WriteString(":")
	}
	sb.WriteString(added)
	sb.WriteString(removed)
	return template.HTML(sb.String())
}

func coloredNames(entries []analyzer.Entry, color string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf(`<font color="%s">%s,</font>`, color, html.EscapeString(e.Name)))
	}
	return strings.Join(parts, " ")
}
