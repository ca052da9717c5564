package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/lta/internal/annotation"
	"github.com/dkoosis/lta/pkg/mail"
	"github.com/dkoosis/lta/pkg/snapshot"
)

const firstRun = `{
	"media/a.html": {"desc": "a", "te_info": [{"TIMEOUT": true, "Bugs": ["BUGCR1"]}]},
	"media/b.html": {"desc": "b", "te_info": [{"SKIP": true, "Bugs": ["BUGWK2"]}]},
	"media/c.html": {"desc": "c"}
}`

const secondRun = `
media/a.html:
  desc: a
  te_info:
    - TIMEOUT: true
      Bugs: [BUGCR1]
media/b.html:
  desc: b
  te_info:
    - SKIP: true
      Bugs: [BUGWK2]
media/c.html:
  desc: c
media/d.html:
  desc: d
  te_info:
    - CRASH: true
      Bugs: [BUGCR3]
`

type fakeSender struct {
	addr string
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m mail.Message) mail.Result {
	if f.err != nil {
		return mail.Result{Err: f.err}
	}
	f.sent = append(f.sent, m)
	return mail.Result{Delivered: true}
}

type harness struct {
	dir    string
	sender *fakeSender
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{dir: t.TempDir(), sender: &fakeSender{}}
}

// run executes lta at the given hour of 2011-08-19 with the harness's
// result dir, annotation file and history database.
func (h *harness) run(t *testing.T, hour int, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errOut)
	a.now = func() time.Time { return time.Date(2011, 8, 19, hour, 0, 0, 0, time.Local) }
	a.newSender = func(addr string) mail.Sender {
		h.sender.addr = addr
		return h.sender
	}
	full := append([]string{}, args...)
	full = append(full,
		"--result-dir", filepath.Join(h.dir, "results"),
		"--annotations", filepath.Join(h.dir, "anno.yaml"),
		"--history-db", filepath.Join(h.dir, "history.db"),
		"--test-group", "media",
	)
	code = a.run(context.Background(), full)
	return code, out.String(), errOut.String()
}

func TestAnalyze_FirstRunStoresSnapshot(t *testing.T) {
	h := newHarness(t)

	code, stdout, stderr := h.run(t, 14, firstRun, "analyze", "--format", "llm")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	assert.Contains(t, stdout, "SCOPE: media 2011-08-19-14: 3 tests, passing rate 50%")
	assert.NotContains(t, stdout, "Compared to")
	assert.Contains(t, stderr, "no previous snapshot")

	snap, err := snapshot.Load(filepath.Join(h.dir, "results", "2011-08-19-14"))
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Counts().Whole)

	notes, err := annotation.Load(filepath.Join(h.dir, "anno.yaml"))
	require.NoError(t, err)
	assert.Equal(t, annotation.Map{"BUGCR1": "Needs investigation!"}, notes)
}

func TestAnalyze_SecondRunDiffsMailsAndFlagsRegression(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run(t, 14, firstRun, "analyze", "--format", "llm")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	code, stdout, stderr := h.run(t, 15, secondRun, "analyze", "-",
		"--format", "llm",
		"--mail-to", "media-team@example.com",
		"--mail-from", "lta@example.com",
		"--smtp-addr", "smtp.example.com:25",
		"--only-on-change",
		"--fail-on-regression",
	)
	assert.Equal(t, 1, code)
	assert.NotContains(t, stderr, "lta: ")

	assert.Contains(t, stdout, "Compared to 2011-08-19-14")
	assert.Contains(t, stdout, "Nonskip: 1 -> 2 (+1) REGRESSION")
	assert.Contains(t, stdout, "Nonskip changes (+1/-0)")

	require.Len(t, h.sender.sent, 1)
	msg := h.sender.sent[0]
	assert.Equal(t, "smtp.example.com:25", h.sender.addr)
	assert.Equal(t, []string{"media-team@example.com"}, msg.To)
	assert.Equal(t, "Layout Test Analyzer Result Status Change (media): Fri Aug 19 15:00:00 2011", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Statistics (Diff Compared to 2011-08-19-14)")
	assert.Contains(t, msg.HTMLBody, "BUGCR3")

	_, err := os.Stat(filepath.Join(h.dir, "results", "2011-08-19-15"))
	assert.NoError(t, err, "snapshot is stored even when the run regressed")
}

func TestAnalyze_OnlyOnChangeSkipsUnchangedRun(t *testing.T) {
	h := newHarness(t)

	code, _, _ := h.run(t, 14, firstRun, "analyze", "--format", "llm")
	require.Equal(t, 0, code)

	code, _, stderr := h.run(t, 15, firstRun, "analyze", "--format", "llm",
		"--mail-to", "media-team@example.com", "--only-on-change")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Empty(t, h.sender.sent)
	assert.Contains(t, stderr, "not sending mail")
}

func TestAnalyze_MailFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.sender.err = errors.New("connection refused")

	code, _, stderr := h.run(t, 14, firstRun, "analyze", "--format", "llm",
		"--mail-to", "media-team@example.com")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "status mail not delivered")
	assert.Contains(t, stderr, "connection refused")
}

func TestAnalyze_WritesReportsWithoutSaving(t *testing.T) {
	h := newHarness(t)
	htmlPath := filepath.Join(h.dir, "report.html")
	statsPath := filepath.Join(h.dir, "stats.csv")
	issuesPath := filepath.Join(h.dir, "issues.csv")
	revPath := filepath.Join(h.dir, "revisions.yaml")
	require.NoError(t, os.WriteFile(revPath, []byte(`
- old: 93100
  new: 93103
  author: someone@chromium.org
  date: Fri Aug 19 10:00:00 2011
  lines: ["BUGCR1 : media/a.html = TIMEOUT"]
`), 0o644))

	code, _, stderr := h.run(t, 14, firstRun, "analyze", "--format", "llm", "--no-save",
		"--html", htmlPath, "--stats-csv", statsPath, "--issues-csv", issuesPath, "--revisions", revPath)
	require.Equal(t, 0, code, "stderr: %s", stderr)

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<html>")
	assert.Contains(t, string(html), `<a href="http://crbug.com/1">BUGCR1</a>`)
	assert.Contains(t, string(html), "Needs investigation!")
	assert.Contains(t, string(html), "someone@chromium.org")

	stats, err := os.ReadFile(statsPath)
	require.NoError(t, err)
	assert.Equal(t, "2011-08-19-14,3,1,1,50\n", string(stats))

	issues, err := os.ReadFile(issuesPath)
	require.NoError(t, err)
	assert.Equal(t, "BUGCR,1,TIMEOUT,media/a.html,\n", string(issues))

	_, err = os.Stat(filepath.Join(h.dir, "results"))
	assert.True(t, os.IsNotExist(err), "--no-save must not create the result dir")
	_, err = os.Stat(filepath.Join(h.dir, "anno.yaml"))
	assert.True(t, os.IsNotExist(err), "--no-save must not write annotations")
}

func TestAnalyze_BadInput(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run(t, 14, "not test info", "analyze")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "lta: parsing test info")
}

func TestRoot_UnknownFormat(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run(t, 14, firstRun, "analyze", "--format", "xml")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown format "xml"`)
}

func TestRoot_UnknownTheme(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run(t, 14, firstRun, "analyze", "--theme", "solarized")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown theme "solarized"`)
}

func TestRoot_UnknownFlag(t *testing.T) {
	h := newHarness(t)

	code, _, _ := h.run(t, 14, firstRun, "analyze", "--bogus")
	assert.Equal(t, 2, code)
}

func TestLatest(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run(t, 14, "", "latest")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no snapshot")

	code, _, _ = h.run(t, 14, firstRun, "analyze", "--format", "llm")
	require.Equal(t, 0, code)

	code, stdout, _ := h.run(t, 14, "", "latest")
	assert.Equal(t, 0, code)
	assert.Equal(t, "2011-08-19-14 whole=3 skip=1 nonskip=1 rate=50%\n", stdout)
}

func TestShowAgainst_JSON(t *testing.T) {
	h := newHarness(t)
	code, _, _ := h.run(t, 14, firstRun, "analyze", "--format", "llm")
	require.Equal(t, 0, code)
	code, _, _ = h.run(t, 15, secondRun, "analyze", "--format", "llm")
	require.Equal(t, 0, code)

	code, stdout, stderr := h.run(t, 16, "", "show", "2011-08-19-15", "--against", "2011-08-19-14", "--format", "json")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	var out struct {
		Snapshot    string   `json:"snapshot"`
		Previous    string   `json:"previous"`
		Regressions []string `json:"regressions"`
		Patterns    []struct {
			Type string `json:"type"`
		} `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "2011-08-19-15", out.Snapshot)
	assert.Equal(t, "2011-08-19-14", out.Previous)
	assert.Equal(t, []string{"Nonskip"}, out.Regressions)
	types := make([]string, 0, len(out.Patterns))
	for _, p := range out.Patterns {
		types = append(types, p.Type)
	}
	assert.Equal(t, "summary", types[0])
	assert.Contains(t, types, "comparison")
	assert.Contains(t, types, "leaderboard")
}

func TestShow_MissingSnapshot(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run(t, 14, "", "show", "2011-01-01-00")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "lta: ")
}

func TestTrend(t *testing.T) {
	h := newHarness(t)
	code, _, _ := h.run(t, 14, firstRun, "analyze", "--format", "llm")
	require.Equal(t, 0, code)
	code, _, _ = h.run(t, 15, secondRun, "analyze", "--format", "llm")
	require.Equal(t, 0, code)

	code, stdout, stderr := h.run(t, 16, "", "trend", "--format", "llm")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "SCOPE: media: 2 runs from 2011-08-19-14 to 2011-08-19-15")
	assert.Contains(t, stdout, "Passing rate: 50 34%")
}

func TestView_RequiresTerminal(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run(t, 14, "", "view")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "needs a terminal")
}
