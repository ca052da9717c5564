package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dkoosis/lta/internal/pager"
	"github.com/dkoosis/lta/pkg/mapper"
	"github.com/dkoosis/lta/pkg/render"
)

func (a *app) viewCmd() *cobra.Command {
	var against string
	cmd := &cobra.Command{
		Use:   "view [SNAPSHOT]",
		Short: "Browse a stored snapshot interactively",
		Long: `Open a stored snapshot (default: the latest) in an interactive viewer
with one page per summary, change list and bug.

Keys: ↑/↓ or j/k select a page, pgup/pgdn scroll, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTTYWriter(a.stdout) {
				return errors.New("view needs a terminal; use show for piped output")
			}
			an, err := a.loadAnalysis(args, against)
			if err != nil {
				return err
			}
			// The list pane takes part of the width.
			width := termWidth(a.stdout) * 2 / 3
			sections := pager.SectionsFrom(mapper.FromAnalysis(an), render.NewTerminal(a.theme, width))
			return pager.Run(cmd.Context(), "lta "+an.Timestamp, sections, a.stdin, a.stdout)
		},
	}
	cmd.Flags().StringVar(&against, "against", "", "compare with this stored snapshot")
	return cmd
}
