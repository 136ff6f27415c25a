package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsmart/internal/aggregate"
	"github.com/Veraticus/spendsmart/internal/cli"
	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
	"github.com/Veraticus/spendsmart/internal/tracker"
)

const shortIDLen = 8

func addCmd() *cobra.Command {
	var (
		category  string
		noPredict bool
	)

	cmd := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Record an expense",
		Long: `Record an expense dated today. Unless --category is given, the
configured AI provider suggests one; the suggestion can be reviewed later.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			amount, err := model.ParseAmount(args[1])
			if err != nil {
				return common.NewUserError("amount must be a positive number", err)
			}
			if err := model.ValidateExpenseInput(args[0], amount); err != nil {
				return common.NewUserError(err.Error(), err)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			var expense model.Expense
			if category != "" {
				c, err := parseCategoryArg(category)
				if err != nil {
					return err
				}
				expense = s.Ledger().Add(ctx, args[0], amount, c, false)
			} else {
				draft := s.NewDraft()
				draft.SetDescription(args[0])
				draft.SetAmount(amount)
				if !noPredict {
					predictInto(cmd, draft)
				}
				if expense, err = draft.Submit(ctx); err != nil {
					return err
				}
			}

			palette := s.Preferences().Palette()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added %s %s",
				expense.Description, s.Preferences().Currency().Format(expense.Amount))))
			fmt.Fprintf(out, "  %s  %s\n", cli.CategoryLabel(palette, expense.Category), cli.SubtleStyle.Render(expense.ID))
			warnUnsaved(cmd.ErrOrStderr(), s)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category to use instead of asking the AI")
	cmd.Flags().BoolVar(&noPredict, "no-predict", false, "skip the AI suggestion and file under Others")
	return cmd
}

// predictInto asks for a suggestion and explains why none was applied.
func predictInto(cmd *cobra.Command, draft *tracker.Draft) {
	w := cmd.ErrOrStderr()
	p, err := draft.Predict(cmd.Context())
	switch {
	case errors.Is(err, tracker.ErrNoOracle):
		fmt.Fprintln(w, cli.FormatInfo("No AI provider configured; filing under Others"))
	case err != nil:
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Could not suggest a category: %v", err)))
	case p.Fallback:
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Unrecognized suggestion %q; filing under Others", p.Raw)))
	}
}

func listCmd() *cobra.Command {
	var (
		query    string
		category string
		sortKey  string
		limit    int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria := aggregate.Criteria{Query: query}
			if category != "" {
				c, err := parseCategoryArg(category)
				if err != nil {
					return err
				}
				criteria.Category = &c
			}
			key, err := aggregate.ParseSortKey(sortKey)
			if err != nil {
				return common.NewUserError(err.Error(), err)
			}

			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			matched := aggregate.Sort(aggregate.Filter(s.Ledger().Snapshot(), criteria), key)
			if len(matched) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No matching expenses"))
				return nil
			}

			shown := matched
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}

			currency := s.Preferences().Currency()
			printExpenses(cmd.OutOrStdout(), shown, s.Preferences().Palette(), currency)

			// Totals cover every match, not just the rows shown.
			first, last, _ := aggregate.DateSpan(matched)
			fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render(fmt.Sprintf(
				"\n%d expenses, %s to %s  total %s  average %s",
				len(matched),
				first.Format(model.DateLayout), last.Format(model.DateLayout),
				currency.Format(aggregate.GrandTotal(matched)),
				currency.Format(aggregate.Average(matched)))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "only descriptions containing this text")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category")
	cmd.Flags().StringVar(&sortKey, "sort", string(aggregate.SortDateDesc), "date-desc, date-asc, amount-desc or amount-asc")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many")
	return cmd
}

func recentCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recently added expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			recent := aggregate.Recent(s.Ledger().Snapshot(), count)
			if len(recent) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No expenses yet"))
				return nil
			}
			printExpenses(cmd.OutOrStdout(), recent, s.Preferences().Palette(), s.Preferences().Currency())
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of expenses")
	return cmd
}

func deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			expense, err := resolveID(s, args[0])
			if err != nil {
				return err
			}

			if !yes {
				prompt := fmt.Sprintf("Delete %s (%s)?", expense.Description,
					s.Preferences().Currency().Format(expense.Amount))
				confirmed, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, prompt)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, cli.FormatInfo("Kept"))
					return nil
				}
			}

			s.Ledger().Delete(ctx, expense.ID)
			fmt.Fprintln(out, cli.FormatSuccess("Deleted "+expense.Description))
			warnUnsaved(cmd.ErrOrStderr(), s)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func recategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize <id> <category>",
		Short: "Correct an expense's category",
		Long: `Move an expense to another category. The correction is remembered
and shown to the AI as an example for similar descriptions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			category, err := parseCategoryArg(args[1])
			if err != nil {
				return err
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			expense, err := resolveID(s, args[0])
			if err != nil {
				return err
			}
			if expense.Category == category {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("%s is already %s", expense.Description, category)))
				return nil
			}
			if !s.Ledger().Recategorize(ctx, expense.ID, category) {
				return notFound(expense.ID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s is now %s",
				expense.Description, cli.CategoryLabel(s.Preferences().Palette(), category))))
			warnUnsaved(cmd.ErrOrStderr(), s)
			return nil
		},
	}
}

func feedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <id> <good|bad>",
		Short: "Judge an AI suggested category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			judgment, ok := model.ParseFeedback(args[1])
			if !ok {
				return common.NewUserError(fmt.Sprintf("feedback must be good or bad, got %q", args[1]), nil)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			expense, err := resolveID(s, args[0])
			if err != nil {
				return err
			}
			if !s.Ledger().RecordFeedback(ctx, expense.ID, judgment) {
				return notFound(expense.ID)
			}
			expense, _ = s.Ledger().Get(expense.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cli.FeedbackMark(expense), expense.Description)
			warnUnsaved(cmd.ErrOrStderr(), s)
			return nil
		},
	}
}

func parseCategoryArg(s string) (model.Category, error) {
	c, ok := model.ParseCategory(s)
	if !ok {
		names := make([]string, 0, len(model.Categories()))
		for _, c := range model.Categories() {
			names = append(names, string(c))
		}
		return "", common.NewUserError(
			fmt.Sprintf("unknown category %q (choose from: %s)", s, strings.Join(names, ", ")), nil)
	}
	return c, nil
}

func notFound(id string) error {
	return common.NewUserError(fmt.Sprintf("no expense with id %q", id), common.ErrNotFound)
}

// printExpenses writes a table. The colored category goes last so escape
// codes do not disturb the column widths.
func printExpenses(w io.Writer, expenses []model.Expense, palette model.Palette, currency model.Currency) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tDESCRIPTION\tCATEGORY")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\n",
			shortID(e.ID),
			e.Date.Format(model.DateLayout),
			currency.Format(e.Amount),
			e.Description,
			cli.CategoryLabel(palette, e.Category),
			cli.FeedbackMark(e))
	}
	_ = tw.Flush()
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// resolveID accepts a full ID or any unambiguous prefix of one, such as the
// short form printed by list.
func resolveID(s *session, ref string) (model.Expense, error) {
	ref = strings.TrimSpace(ref)
	if e, ok := s.Ledger().Get(ref); ok {
		return e, nil
	}

	var matches []model.Expense
	if ref != "" {
		for _, e := range s.Ledger().Snapshot() {
			if strings.HasPrefix(e.ID, ref) {
				matches = append(matches, e)
			}
		}
	}
	switch len(matches) {
	case 0:
		return model.Expense{}, notFound(ref)
	case 1:
		return matches[0], nil
	default:
		return model.Expense{}, common.NewUserError(
			fmt.Sprintf("id %q matches %d expenses; use more characters", ref, len(matches)), nil)
	}
}
