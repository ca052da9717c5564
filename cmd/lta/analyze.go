package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/lta/internal/annotation"
	"github.com/dkoosis/lta/internal/history"
	"github.com/dkoosis/lta/pkg/analyzer"
	"github.com/dkoosis/lta/pkg/layouttest"
	"github.com/dkoosis/lta/pkg/mail"
	"github.com/dkoosis/lta/pkg/mapper"
	"github.com/dkoosis/lta/pkg/render"
	"github.com/dkoosis/lta/pkg/report"
	"github.com/dkoosis/lta/pkg/snapshot"
)

type analyzeOptions struct {
	htmlPath         string
	statsCSVPath     string
	issuesCSVPath    string
	revisionsPath    string
	onlyOnChange     bool
	noSave           bool
	failOnRegression bool
}

func (a *app) analyzeCmd() *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze [FILE]",
		Short: "Classify test info, diff it against the last snapshot and report",
		Long: `Read a layout-test information map (JSON or YAML) from FILE or stdin,
classify it into whole, skip and nonskip buckets and compare it with the
latest snapshot in the result directory.

The run is reported on stdout, optionally as an HTML report, CSV rows and a
status mail. Unless --no-save is given the new snapshot, the run statistics
and any newly seen bugs in the annotation file are then stored.

Examples:
  # Analyze and mail the team
  lta analyze testinfo.json --mail-to media-team@example.com

  # Only mail when something changed, and write the report to disk
  lta analyze testinfo.json --only-on-change --html report.html
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd.Context(), args, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.htmlPath, "html", "", "write the HTML report to this file")
	f.StringVar(&opts.statsCSVPath, "stats-csv", "", "append the statistics row to this CSV file")
	f.StringVar(&opts.issuesCSVPath, "issues-csv", "", "write the per-bug issue rows to this CSV file")
	f.StringVar(&opts.revisionsPath, "revisions", "", "YAML list of expectation file revisions to include in the report")
	f.StringSliceVar(&a.flags.MailTo, "mail-to", nil, "status mail recipients")
	f.StringVar(&a.flags.MailFrom, "mail-from", "", "status mail sender")
	f.StringVar(&a.flags.SMTPAddr, "smtp-addr", "", "SMTP relay address (default localhost:25)")
	f.BoolVar(&opts.onlyOnChange, "only-on-change", false, "send mail only when the snapshot differs from the previous one")
	f.BoolVar(&opts.noSave, "no-save", false, "do not store the snapshot, history or annotations")
	f.BoolVar(&opts.failOnRegression, "fail-on-regression", false, "exit 1 when a bucket moved in the bad direction")
	return cmd
}

func (a *app) runAnalyze(ctx context.Context, args []string, opts analyzeOptions) error {
	now := a.now()
	ts := now.Format(snapshot.TimeLayout)

	raw, err := a.readInput(args)
	if err != nil {
		return err
	}
	snap := analyzer.Classify(raw)
	a.logger.Debug("classified test info", "tests", len(raw))

	policy, err := a.cfg.Policy()
	if err != nil {
		return err
	}

	store := snapshot.NewStore(a.cfg.ResultDir)
	prev, hasPrev, err := store.Latest()
	if err != nil {
		return fmt.Errorf("finding previous snapshot: %w", err)
	}
	var diff *analyzer.DiffResult
	if hasPrev {
		d := analyzer.Compare(snap, prev.Snapshot, analyzer.DefaultDiffOptions())
		diff = &d
		a.logger.Debug("compared against previous snapshot", "previous", prev.Name, "changed", d.HasChanges())
	} else {
		a.logger.Info("no previous snapshot, skipping comparison", "dir", a.cfg.ResultDir)
	}

	notes, err := annotation.Load(a.cfg.Annotations)
	if err != nil {
		return err
	}

	renderer := &report.HTMLRenderer{Policy: policy, DashboardURL: a.cfg.DashboardURL}
	in := report.Input{
		Snapshot:    snap,
		Diff:        diff,
		PrevTime:    prev.Name,
		Annotations: notes,
	}
	rep, err := renderer.Render(in)
	if errors.Is(err, analyzer.ErrInsufficientPopulation) {
		a.logger.Warn("omitting statistics from HTML report", "reason", err)
		in.Diff = nil
		rep, err = renderer.Render(in)
	}
	if err != nil {
		return err
	}

	revisions, err := loadRevisions(opts.revisionsPath)
	if err != nil {
		return err
	}

	if err := a.writeReports(snap, ts, rep, revisions, opts); err != nil {
		return err
	}

	meta := render.Meta{TestGroup: a.cfg.TestGroup, Snapshot: ts, Previous: prev.Name}
	a.printPatterns(meta, mapper.FromAnalysis(mapper.Analysis{
		TestGroup:   a.cfg.TestGroup,
		Timestamp:   ts,
		Snapshot:    snap,
		Previous:    prev.Snapshot,
		PrevTime:    prev.Name,
		Diff:        diff,
		Policy:      policy,
		Annotations: notes,
	}))

	onlyOnChange := opts.onlyOnChange || a.cfg.Email.OnlyOnChange
	a.sendStatusMail(ctx, rep, revisions, diff, onlyOnChange, now)

	if !opts.noSave {
		if err := a.persist(snap, now, notes, rep.Defaulted); err != nil {
			return err
		}
	}

	if opts.failOnRegression && hasPrev && regressed(policy, snap.Counts(), prev.Snapshot.Counts()) {
		return &exitError{code: 1, err: errRegression}
	}
	return nil
}

func (a *app) readInput(args []string) (layouttest.RawMap, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case len(args) == 1 && args[0] != "-":
		data, err = os.ReadFile(args[0])
	case len(args) == 0 && isTTYReader(a.stdin):
		return nil, errors.New("no input: pass a test info file or pipe one on stdin")
	default:
		data, err = io.ReadAll(a.stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("reading test info: %w", err)
	}
	raw, err := layouttest.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing test info: %w", err)
	}
	return raw, nil
}

func loadRevisions(path string) ([]report.Revision, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading revisions: %w", err)
	}
	var revs []report.Revision
	if err := yaml.Unmarshal(data, &revs); err != nil {
		return nil, fmt.Errorf("parsing revisions %s: %w", path, err)
	}
	return revs, nil
}

func (a *app) writeReports(snap *analyzer.Snapshot, ts string, rep report.HTMLReport, revisions []report.Revision, opts analyzeOptions) error {
	if opts.htmlPath != "" {
		body := rep.Body
		if len(revisions) > 0 {
			summary, err := report.RenderRevisions(revisions)
			if err != nil {
				return err
			}
			body += "<br><b>Revision Information:</b>" + summary.HTML
		}
		doc := mail.Message{HTMLBody: body}.Document()
		if err := os.WriteFile(opts.htmlPath, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("writing HTML report: %w", err)
		}
		a.logger.Debug("wrote HTML report", "path", opts.htmlPath)
	}

	if opts.statsCSVPath != "" {
		row, err := report.StatsCSV(snap, ts)
		switch {
		case errors.Is(err, analyzer.ErrInsufficientPopulation):
			a.logger.Warn("skipping stats CSV row", "reason", err)
		case err != nil:
			return err
		default:
			if err := appendLine(opts.statsCSVPath, row); err != nil {
				return fmt.Errorf("writing stats CSV: %w", err)
			}
		}
	}

	if opts.issuesCSVPath != "" {
		rows, err := report.IssuesCSV(snap)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.issuesCSVPath, []byte(rows), 0o644); err != nil {
			return fmt.Errorf("writing issues CSV: %w", err)
		}
	}
	return nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// sendStatusMail mails the report when recipients are configured. Delivery
// failures are logged and never fail the run.
func (a *app) sendStatusMail(ctx context.Context, rep report.HTMLReport, revisions []report.Revision, diff *analyzer.DiffResult, onlyOnChange bool, now time.Time) {
	email := a.cfg.Email
	if !email.Enabled() {
		return
	}
	if onlyOnChange && (diff == nil || !diff.HasChanges()) {
		a.logger.Info("no change since previous snapshot, not sending mail")
		return
	}

	var revisionHTML string
	if len(revisions) > 0 {
		summary, err := report.RenderRevisions(revisions)
		if err != nil {
			a.logger.WithError(err).Warn("omitting revision information from mail")
		} else {
			revisionHTML = summary.HTML
		}
	}

	msg := mail.BuildStatusMessage(mail.StatusEmail{
		From:         email.From,
		To:           email.To,
		TestGroup:    a.cfg.TestGroup,
		Content:      rep.Body,
		RevisionHTML: revisionHTML,
		AppendedText: email.AppendedText,
		OnlyChanges:  onlyOnChange,
		Time:         now,
	})
	res := a.newSender(email.SMTPAddr).Send(ctx, msg)
	if res.Err != nil {
		a.logger.WithError(res.Err).Error("status mail not delivered", "to", email.To)
		return
	}
	a.logger.Info("status mail sent", "to", email.To, "subject", msg.Subject)
}

// persist stores the snapshot, records the run and adds defaulted bugs to
// the annotation file.
func (a *app) persist(snap *analyzer.Snapshot, now time.Time, notes annotation.Map, defaulted []string) error {
	if updated, added := notes.WithDefaults(defaulted, report.NeedsInvestigation); added {
		if err := annotation.Save(updated, a.cfg.Annotations); err != nil {
			return err
		}
		a.logger.Info("added bugs to annotation file", "count", len(defaulted), "path", a.cfg.Annotations)
	}

	if err := a.recordHistory(snap, now); err != nil {
		a.logger.WithError(err).Warn("run not recorded in history")
	}

	name, err := snapshot.NewStore(a.cfg.ResultDir).Save(snap, now)
	if err != nil {
		return err
	}
	a.logger.Info("saved snapshot", "name", name, "dir", a.cfg.ResultDir)
	return nil
}

func (a *app) recordHistory(snap *analyzer.Snapshot, now time.Time) error {
	h, err := a.openHistory()
	if err != nil {
		return err
	}
	defer h.Close()
	run, err := h.Record(a.cfg.TestGroup, now, snap)
	if err != nil {
		return err
	}
	a.logger.Debug("recorded run", "run_id", run.ID)
	return nil
}

func (a *app) openHistory() (*history.History, error) {
	path := a.cfg.HistoryDB
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return history.Open(path)
}

// regressed reports whether any bucket moved in the direction the policy
// calls a regression.
func regressed(policy report.ColorPolicy, cur, prev analyzer.Counts) bool {
	for _, b := range analyzer.Buckets {
		if policy.IsRegression(b, cur.Of(b)-prev.Of(b)) {
			return true
		}
	}
	return false
}
