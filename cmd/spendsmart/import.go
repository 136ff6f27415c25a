package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spendsmart/internal/cli"
	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/importer"
	"github.com/Veraticus/spendsmart/internal/tracker"
)

func importCmd() *cobra.Command {
	var (
		concurrency int
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Add expenses in bulk from CSV or OFX/QFX files",
		Long: `Import expenses from CSV files (description,amount[,category]) or
bank exports in OFX/QFX format. Only debits are taken from bank files.
Rows without a category are classified by the AI; imported expenses are
dated today. Glob patterns such as statements/*.qfx are expanded.

Nothing is added if any row is invalid or the import is interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			logger := slog.Default()

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx, stop := interrupts.HandleInterrupts(cmd.Context(), "Nothing was imported.")
			defer stop()

			files, err := expandGlobs(args)
			if err != nil {
				return err
			}

			var entries []tracker.Entry
			for _, path := range files {
				loaded, err := importer.LoadFile(ctx, path, logger)
				if err != nil {
					return common.NewUserError(fmt.Sprintf("could not read %s", filepath.Base(path)), err)
				}
				logger.Info("Loaded file", "file", filepath.Base(path), "entries", len(loaded))
				entries = append(entries, loaded...)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No expenses found"))
				return nil
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if dryRun {
				for _, e := range entries {
					category := "(AI)"
					if e.Category != nil {
						category = string(*e.Category)
					}
					fmt.Fprintf(out, "%-40s %12s  %s\n", e.Description, s.Preferences().Currency().Format(e.Amount), category)
				}
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d expenses would be imported", len(entries))))
				return nil
			}

			bar := progressbar.NewOptions(len(entries),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan][bold]Categorizing expenses...[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)

			result, err := s.Import(ctx, entries, tracker.ImportOptions{
				Concurrency: concurrency,
				Progress: func() {
					if err := bar.Add(1); err != nil {
						logger.Warn("Failed to update progress bar", "error", err)
					}
				},
			})
			if err != nil {
				if interrupts.WasInterrupted() || errors.Is(err, ctx.Err()) {
					return common.NewUserError("import interrupted", err)
				}
				return common.NewUserError("import failed", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses", len(result.Added))))
			if result.Unpredicted > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf(
					"%d could not be categorized and were filed under Others", result.Unpredicted)))
			}
			warnUnsaved(cmd.ErrOrStderr(), s)
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "parallel AI requests")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without saving")
	return cmd
}

func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("invalid pattern %q", pattern), err)
		}
		if len(matches) == 0 {
			return nil, common.NewUserError(fmt.Sprintf("no files match %q", pattern), nil)
		}
		files = append(files, matches...)
	}
	return files, nil
}
