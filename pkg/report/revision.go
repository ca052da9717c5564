package report

import (
	"fmt"
	"html/template"
	"strings"
)

// changesetURL links a revision range of the expectations file in trac.
const changesetURL = "http://trac.webkit.org/changeset?new=%d@trunk/LayoutTests/platform/chromium/test_expectations.txt&old=%d@trunk/LayoutTests/platform/chromium/test_expectations.txt"

// Revision is one change to the expectations file, as reported by the
// revision history lookup.
type Revision struct {
	Old    int
	New    int
	Author string
	Date   string
	// Lines are the changed lines touching the tests of interest.
	Lines []string
}

// URL returns the changeset link for the revision.
func (r Revision) URL() string {
	return fmt.Sprintf(changesetURL, r.New, r.Old)
}

// RevisionSummary is the rendered revision information for a report.
type RevisionSummary struct {
	// HTML lists every revision with author, date and changed lines.
	HTML string
	// Links is a comma-terminated list of changeset links, for trend graph
	// annotations.
	Links string
	// Latest is the last revision in the range; zero when there is none.
	Latest Revision
}

var revisionTmpl = template.Must(template.New("revisions").Parse(
	`{{range .}}<ul><a href="{{.URL}}">{{.Old}}->{{.New}}</a>
<li>{{.Author}}</li>
<li>{{.Date}}</li>
<ul>{{range .Lines}}<li>{{.}}</li>
{{end}}</ul></ul>{{end}}`))

var linkTmpl = template.Must(template.New("link").Parse(`<a href="{{.URL}}">{{.Old}}->{{.New}}</a>,`))

// RenderRevisions renders revs, oldest first.
func RenderRevisions(revs []Revision) (RevisionSummary, error) {
	if len(revs) == 0 {
		return RevisionSummary{}, nil
	}
	var full, links strings.Builder
	if err := revisionTmpl.Execute(&full, revs); err != nil {
		return RevisionSummary{}, fmt.Errorf("rendering revisions: %w", err)
	}
	for _, r := range revs {
		if err := linkTmpl.Execute(&links, r); err != nil {
			return RevisionSummary{}, fmt.Errorf("rendering revision links: %w", err)
		}
	}
	return RevisionSummary{HTML: full.String(), Links: links.String(), Latest: revs[len(revs)-1]}, nil
}
