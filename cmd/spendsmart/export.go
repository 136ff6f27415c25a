package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/spendsmart/internal/cli"
	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/config"
	"github.com/Veraticus/spendsmart/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to external services",
	}
	cmd.AddCommand(exportSheetsCmd())
	return cmd
}

func exportSheetsCmd() *cobra.Command {
	var spreadsheetID string

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write a report to Google Sheets",
		Long: `Write a summary, a category breakdown and every expense to a Google
Sheets spreadsheet. The sheet is rebuilt on each export.

Authenticate with a service account (sheets.service_account_path) or with
OAuth2 client credentials; run "spendsmart export sheets auth" once to
obtain a refresh token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			v := viper.GetViper()

			if spreadsheetID != "" {
				v.Set("sheets.spreadsheet_id", spreadsheetID)
			}
			useCachedToken(v)

			cfg, err := config.LoadSheetsConfig(v)
			if err != nil {
				return common.NewUserError("Google Sheets is not configured", err)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			writer, err := sheets.NewWriter(ctx, *cfg, nil)
			if err != nil {
				return err
			}

			result, err := writer.Write(ctx, s.Ledger().Snapshot(), s.Preferences().Currency())
			if err != nil {
				return common.NewUserError("export to Google Sheets failed", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d rows", result.Rows)))
			fmt.Fprintln(cmd.OutOrStdout(), "  "+result.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "write to this spreadsheet instead of the configured one")
	cmd.AddCommand(exportSheetsAuthCmd())
	return cmd
}

func exportSheetsAuthCmd() *cobra.Command {
	var callbackAddr string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize spendsmart to write to your Google Sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.GetViper()
			out := cmd.OutOrStdout()

			clientID := firstNonEmpty(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
			clientSecret := firstNonEmpty(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
			if clientID == "" || clientSecret == "" {
				return common.NewUserError("set sheets.client_id and sheets.client_secret first", common.ErrMissingConfig)
			}

			tokenFile := config.SheetsTokenFile(v)
			token, err := sheets.GetOrCreateToken(cmd.Context(), sheets.OAuth2Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				TokenFile:    tokenFile,
				CallbackAddr: callbackAddr,
				OpenURL: func(url string) {
					fmt.Fprintln(out, cli.FormatPrompt("Open this URL in your browser to authorize access"))
					fmt.Fprintln(out, "  "+url)
				},
			})
			if err != nil {
				return common.NewUserError("authorization failed", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess("Authorized; token cached in "+tokenFile))
			if token.RefreshToken == "" {
				fmt.Fprintln(out, cli.FormatWarning("Google returned no refresh token; revoke access and try again"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&callbackAddr, "callback", "", "local address for the OAuth2 redirect (default localhost:8080)")
	return cmd
}

// useCachedToken fills in the refresh token from the auth command's cache
// when none is configured explicitly.
func useCachedToken(v *viper.Viper) {
	if v.GetString("sheets.refresh_token") != "" || os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN") != "" {
		return
	}
	token, err := sheets.LoadToken(config.SheetsTokenFile(v))
	if err != nil || token.RefreshToken == "" {
		return
	}
	v.Set("sheets.refresh_token", token.RefreshToken)
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
