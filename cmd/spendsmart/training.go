package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsmart/internal/cli"
	"github.com/Veraticus/spendsmart/internal/training"
)

func trainingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "training",
		Short: "Inspect the corrections the AI learns from",
	}
	cmd.AddCommand(trainingListCmd())
	return cmd
}

func trainingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List remembered corrections, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			examples := s.Training().Snapshot()
			if len(examples) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No corrections yet. Recategorize an expense to teach the AI."))
				return nil
			}

			palette := s.Preferences().Palette()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DESCRIPTION\tCATEGORY")
			for _, ex := range examples {
				fmt.Fprintf(tw, "%s\t%s\n", ex.Description, cli.CategoryLabel(palette, ex.CorrectCategory))
			}
			_ = tw.Flush()
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d of %d kept", len(examples), training.MaxExamples)))
			return nil
		},
	}
}
