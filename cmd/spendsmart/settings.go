package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsmart/internal/cli"
	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
	"github.com/Veraticus/spendsmart/internal/settings"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change currency and category colors",
	}
	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsCurrencyCmd())
	cmd.AddCommand(settingsColorCmd())
	cmd.AddCommand(settingsResetColorsCmd())
	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			currency := s.Preferences().Currency()
			palette := s.Preferences().Palette()

			fmt.Fprintf(out, "%s %s (%s)\n\n", cli.BoldStyle.Render("Currency:"), currency.Label, currency.Symbol)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, c := range model.Categories() {
				fmt.Fprintf(tw, "%s\t%s\n", palette.Color(c), cli.CategoryLabel(palette, c))
			}
			return tw.Flush()
		},
	}
}

func settingsCurrencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "currency [code]",
		Short: "Select the display currency, or list the choices",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, c := range model.Currencies() {
					fmt.Fprintf(out, "%-4s %-3s %s\n", c.Code, c.Symbol, c.Label)
				}
				return nil
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			currency, err := s.Preferences().SetCurrency(cmd.Context(), args[0])
			if err != nil {
				return preferenceError(err)
			}
			fmt.Fprintln(out, cli.FormatSuccess("Amounts are now shown in "+currency.Label))
			return nil
		},
	}
}

func settingsColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color <category> <#RRGGBB>",
		Short: "Change a category's display color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := parseCategoryArg(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Preferences().SetColor(cmd.Context(), category, args[1]); err != nil {
				return preferenceError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated "+cli.CategoryLabel(s.Preferences().Palette(), category)))
			return nil
		},
	}
}

func settingsResetColorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-colors",
		Short: "Restore the default category colors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Preferences().ResetPalette(cmd.Context()); err != nil {
				return preferenceError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Colors reset"))
			return nil
		},
	}
}

// preferenceError turns validation failures into user errors; save failures
// pass through unchanged.
func preferenceError(err error) error {
	for _, target := range []error{settings.ErrInvalidColor, settings.ErrUnknownCategory, settings.ErrUnknownCurrency} {
		if errors.Is(err, target) {
			return common.NewUserError(err.Error(), nil)
		}
	}
	return err
}
