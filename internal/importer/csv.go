package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsmart/internal/model"
	"github.com/Veraticus/spendsmart/internal/tracker"
)

// ReadCSV parses rows of description,amount[,category]. A first row whose
// amount column is not a number is treated as a header. An empty category
// column leaves the choice to the oracle.
func ReadCSV(r io.Reader) ([]tracker.Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var entries []tracker.Entry
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if blank(record) {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: want description and amount, got %d column(s)", row, len(record))
		}

		if row == 1 && !numeric(record[1]) {
			continue
		}
		amount, err := model.ParseAmount(record[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		entry := tracker.Entry{
			Description: strings.TrimSpace(record[0]),
			Amount:      amount,
		}
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			category, ok := model.ParseCategory(record[2])
			if !ok {
				return nil, fmt.Errorf("row %d: unknown category %q", row, record[2])
			}
			entry.Category = &category
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func numeric(s string) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil
}

func blank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
