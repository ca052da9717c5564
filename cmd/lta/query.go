package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkoosis/lta/internal/annotation"
	"github.com/dkoosis/lta/pkg/analyzer"
	"github.com/dkoosis/lta/pkg/mapper"
	"github.com/dkoosis/lta/pkg/render"
	"github.com/dkoosis/lta/pkg/snapshot"
)

func (a *app) latestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Print the name and counts of the most recent stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			latest, ok, err := snapshot.FindLatest(a.cfg.ResultDir)
			if err != nil {
				return err
			}
			if !ok {
				return &exitError{code: 1, err: fmt.Errorf("no snapshot in %s", a.cfg.ResultDir)}
			}
			c := latest.Snapshot.Counts()
			rate := "n/a"
			if r, err := c.PassingRate(); err == nil {
				rate = fmt.Sprintf("%d%%", r)
			}
			fmt.Fprintf(a.stdout, "%s whole=%d skip=%d nonskip=%d rate=%s\n", latest.Name, c.Whole, c.Skip, c.NonSkip, rate)
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	var against string
	cmd := &cobra.Command{
		Use:   "show [SNAPSHOT]",
		Short: "Render a stored snapshot (default: the latest)",
		Long: `Render a stored snapshot, optionally compared with another one.

Examples:
  lta show
  lta show 2011-08-19-14 --against 2011-08-18-10 --format json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			an, err := a.loadAnalysis(args, against)
			if err != nil {
				return err
			}
			a.printPatterns(render.Meta{TestGroup: an.TestGroup, Snapshot: an.Timestamp, Previous: an.PrevTime}, mapper.FromAnalysis(an))
			return nil
		},
	}
	cmd.Flags().StringVar(&against, "against", "", "compare with this stored snapshot")
	return cmd
}

// loadAnalysis builds the analysis of a stored snapshot, named by the
// first arg or the latest one, compared with the snapshot named against.
func (a *app) loadAnalysis(args []string, against string) (mapper.Analysis, error) {
	store := snapshot.NewStore(a.cfg.ResultDir)
	var an mapper.Analysis

	if len(args) == 1 {
		snap, err := store.Load(args[0])
		if err != nil {
			return an, err
		}
		an.Snapshot, an.Timestamp = snap, args[0]
	} else {
		latest, ok, err := store.Latest()
		if err != nil {
			return an, err
		}
		if !ok {
			return an, &exitError{code: 1, err: fmt.Errorf("no snapshot in %s", a.cfg.ResultDir)}
		}
		an.Snapshot, an.Timestamp = latest.Snapshot, latest.Name
	}

	policy, err := a.cfg.Policy()
	if err != nil {
		return an, err
	}
	an.Policy = policy
	an.TestGroup = a.cfg.TestGroup

	if against != "" {
		prev, err := store.Load(against)
		if err != nil {
			return an, err
		}
		d := analyzer.Compare(an.Snapshot, prev, analyzer.DefaultDiffOptions())
		an.Previous, an.PrevTime, an.Diff = prev, against, &d
	}

	notes, err := annotation.Load(a.cfg.Annotations)
	if err != nil {
		a.logger.WithError(err).Warn("showing bugs without annotations")
	}
	an.Annotations = notes
	return an, nil
}

func (a *app) trendCmd() *cobra.Command {
	var runs int
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show the passing-rate trend of recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if runs <= 0 {
				return errors.New("--runs must be positive")
			}
			h, err := a.openHistory()
			if err != nil {
				return err
			}
			defer h.Close()

			recent, err := h.Recent(a.cfg.TestGroup, runs)
			if err != nil {
				return err
			}
			points := make([]mapper.TrendPoint, 0, len(recent))
			for _, r := range recent {
				points = append(points, mapper.TrendPoint{
					Time:        r.Timestamp.Local().Format(snapshot.TimeLayout),
					Counts:      r.Counts,
					PassingRate: r.PassingRate,
					HasRate:     r.HasRate,
				})
			}
			a.printPatterns(render.Meta{TestGroup: a.cfg.TestGroup}, mapper.FromTrend(a.cfg.TestGroup, points))
			return nil
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 20, "number of most recent runs to show")
	return cmd
}
