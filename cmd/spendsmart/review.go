package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsmart/internal/cli"
	"github.com/Veraticus/spendsmart/internal/model"
	"github.com/Veraticus/spendsmart/internal/tui"
	"github.com/Veraticus/spendsmart/internal/tui/themes"
)

func reviewCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Confirm or correct AI suggested categories",
		Long: `Walk through expenses whose category was suggested by the AI and
has not been judged yet. Accepting keeps the category; picking another one
records a correction the AI learns from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			var queue []model.Expense
			for _, e := range s.Ledger().Snapshot() {
				if e.NeedsReview() && e.FeedbackStatus == model.FeedbackUnset {
					queue = append(queue, e)
				}
			}
			if limit > 0 && len(queue) > limit {
				queue = queue[:limit]
			}

			out := cmd.OutOrStdout()
			if len(queue) == 0 {
				fmt.Fprintln(out, cli.FormatSuccess("Nothing to review"))
				return nil
			}

			stats, err := tui.Run(cmd.Context(), tui.Config{
				Reviewer: s.Ledger(),
				Palette:  s.Preferences().Palette(),
				Currency: s.Preferences().Currency(),
				Theme:    themes.Default,
				Queue:    queue,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf(
				"Reviewed: %d accepted, %d rejected, %d recategorized, %d skipped",
				stats.Accepted, stats.Rejected, stats.Recategorized, stats.Skipped)))
			if stats.Missing > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d expenses were deleted before they could be reviewed", stats.Missing)))
			}
			warnUnsaved(cmd.ErrOrStderr(), s)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "review at most this many")
	return cmd
}
