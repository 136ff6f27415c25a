package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsmart/internal/chart"
	"github.com/Veraticus/spendsmart/internal/cli"
	"github.com/Veraticus/spendsmart/internal/common"
)

func chartCmd() *cobra.Command {
	var (
		kind          string
		output        string
		width, height int
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render spending per category as a PNG or SVG chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := chart.ParseKind(kind)
			if err != nil {
				return common.NewUserError(err.Error(), nil)
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}

			err = chart.Render(f, s.Ledger().Snapshot(), s.Preferences().Palette(), s.Preferences().Currency(), chart.Options{
				Kind:   k,
				Format: chart.FormatFromPath(output),
				Title:  "Spending by category",
				Width:  width,
				Height: height,
			})
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(output)
				if errors.Is(err, common.ErrNoExpenses) {
					return common.NewUserError("nothing to chart yet", nil)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(cli.ChartIcon+" Wrote "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(chart.KindPie), "pie or bar")
	cmd.Flags().StringVarP(&output, "out", "o", "spending.png", "output file; .svg selects SVG")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")
	return cmd
}
