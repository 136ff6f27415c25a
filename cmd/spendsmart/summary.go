package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsmart/internal/aggregate"
	"github.com/Veraticus/spendsmart/internal/cli"
	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/tracker"
)

const summaryBarWidth = 24

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			expenses := s.Ledger().Snapshot()
			if len(expenses) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No expenses yet. Add one with: spendsmart add <description> <amount>"))
				return nil
			}

			palette := s.Preferences().Palette()
			currency := s.Preferences().Currency()

			first, last, _ := aggregate.DateSpan(expenses)
			header := fmt.Sprintf("%s  %d expenses, %s to %s",
				cli.FormatTitle("Total "+currency.Format(aggregate.GrandTotal(expenses))),
				len(expenses), first.Format("Jan 2, 2006"), last.Format("Jan 2, 2006"))
			fmt.Fprintln(out, header)
			fmt.Fprintln(out, cli.SubtleStyle.Render("Average "+currency.Format(aggregate.Average(expenses))))
			fmt.Fprintln(out)

			label := lipgloss.NewStyle().Width(22)
			amount := lipgloss.NewStyle().Width(14).Align(lipgloss.Right)
			for _, row := range aggregate.Breakdown(expenses) {
				share, _ := row.Share.Float64()
				fmt.Fprintf(out, "%s %s %s %5.1f%%\n",
					label.Render(cli.CategoryLabel(palette, row.Category)),
					amount.Render(currency.Format(row.Total)),
					cli.Bar(palette, row.Category, share, summaryBarWidth),
					share*100)
			}
			return nil
		},
	}
}

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Ask the AI for a summary of your spending habits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			insight, err := s.Insights(cmd.Context())
			switch {
			case errors.Is(err, common.ErrNoExpenses):
				return common.NewUserError("add some expenses before asking for insights", err)
			case errors.Is(err, tracker.ErrNoOracle):
				return common.NewUserError("insights need an AI provider; set llm.provider and its API key", err)
			case err != nil:
				return common.NewUserError("could not generate insights", err)
			}

			var b strings.Builder
			b.WriteString(insight.Summary)
			if len(insight.Suggestions) > 0 {
				b.WriteString("\n\n")
				b.WriteString(cli.InfoStyle.Render("Suggestions"))
				for _, tip := range insight.Suggestions {
					b.WriteString("\n  • " + tip)
				}
			}
			if insight.Prediction != "" {
				b.WriteString("\n\n")
				b.WriteString(cli.InfoStyle.Render("Next month"))
				b.WriteString("\n  " + insight.Prediction)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.RobotIcon+" Spending insights", b.String()))
			if insight.Fallback {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("The AI answer could not be read; showing generic advice"))
			}
			return nil
		},
	}
}
