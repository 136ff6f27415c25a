package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
)

const sheetTitle = "Expenses"

// Result describes a finished export.
type Result struct {
	SpreadsheetID string
	URL           string
	Rows          int
}

// Writer exports the ledger to Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a writer authenticated with the configured credentials.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewWriterWithService(service, config, logger), nil
}

// NewWriterWithService creates a writer around an existing Sheets service.
func NewWriterWithService(service *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Writer{service: service, config: config, logger: logger}
}

// Write replaces the sheet content with a report of the given expenses.
func (w *Writer) Write(ctx context.Context, expenses []model.Expense, currency model.Currency) (Result, error) {
	w.logger.Info("starting sheets export", "expenses", len(expenses), "currency", currency.Code)

	spreadsheetID, url, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts + 1,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if clearErr := common.WithRetry(ctx, func() error {
		return w.clearSheet(ctx, spreadsheetID)
	}, retryOpts); clearErr != nil {
		return Result{}, fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	report := BuildReport(expenses, currency)

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, report.Values)
	}, retryOpts)
	if err != nil {
		return Result{}, fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, report, currency)
		}, retryOpts)
		if err != nil {
			common.LogError(w.logger, err, "failed to apply formatting", common.Fields{
				"spreadsheet_id": spreadsheetID,
			})
		}
	}

	w.logger.Info("sheets export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(report.Values))

	return Result{SpreadsheetID: spreadsheetID, URL: url, Rows: len(report.Values)}, nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (id, url string, err error) {
	if w.config.SpreadsheetID != "" {
		existing, getErr := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if getErr != nil {
			return "", "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, getErr)
		}
		return w.config.SpreadsheetID, existing.SpreadsheetUrl, nil
	}

	name := w.config.SpreadsheetName
	if strings.TrimSpace(name) == "" {
		name = DefaultSpreadsheetName
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    name,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: sheetTitle}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, created.SpreadsheetUrl, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return retryable(err)
}

func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("A%d", i+1), &sheets.ValueRange{
			Values: batch,
		}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, retryable(err))
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}
	return nil
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, report Report, currency model.Currency) error {
	requests := []*sheets.Request{
		textFormat(0, 1, 0, 1, &sheets.TextFormat{Bold: true, FontSize: 16}),
	}
	for _, row := range report.Headers {
		requests = append(requests, textFormat(row, row+1, 0, 6, &sheets.TextFormat{Bold: true}))
	}

	amountPattern := fmt.Sprintf(`"%s"#,##0.00`, currency.Symbol)
	for _, r := range report.amounts {
		if r.end > r.start {
			requests = append(requests, numberFormat(r, &sheets.NumberFormat{Type: "CURRENCY", Pattern: amountPattern}))
		}
	}
	for _, r := range report.shares {
		if r.end > r.start {
			requests = append(requests, numberFormat(r, &sheets.NumberFormat{Type: "PERCENT", Pattern: "0.0%"}))
		}
	}

	requests = append(requests,
		&sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   6,
				},
			},
		},
		&sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        0,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	)

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return retryable(err)
}

func textFormat(startRow, endRow, startCol, endCol int, format *sheets.TextFormat) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          0,
				StartRowIndex:    int64(startRow),
				EndRowIndex:      int64(endRow),
				StartColumnIndex: int64(startCol),
				EndColumnIndex:   int64(endCol),
			},
			Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{TextFormat: format}},
			Fields: "userEnteredFormat.textFormat",
		},
	}
}

func numberFormat(r columnRange, format *sheets.NumberFormat) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          0,
				StartRowIndex:    int64(r.start),
				EndRowIndex:      int64(r.end),
				StartColumnIndex: int64(r.column),
				EndColumnIndex:   int64(r.column + 1),
			},
			Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{NumberFormat: format}},
			Fields: "userEnteredFormat.numberFormat",
		},
	}
}

// retryable marks throttling and server side failures for common.WithRetry.
func retryable(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) &&
		(apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError) {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	return err
}
