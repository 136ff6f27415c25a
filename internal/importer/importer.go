// Package importer reads bulk expense entries from CSV and OFX/QFX files.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/spendsmart/internal/ofx"
	"github.com/Veraticus/spendsmart/internal/tracker"
)

// Format identifies a supported input file type.
type Format string

// Supported formats.
const (
	FormatCSV Format = "csv"
	FormatOFX Format = "ofx"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".ofx", ".qfx":
		return FormatOFX, nil
	default:
		return "", fmt.Errorf("unsupported import file %q: want .csv, .ofx or .qfx", filepath.Base(path))
	}
}

// LoadFile reads entries from path, choosing the parser by extension.
func LoadFile(ctx context.Context, path string, logger *slog.Logger) ([]tracker.Entry, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var entries []tracker.Entry
	switch format {
	case FormatOFX:
		entries, err = ofx.NewParser(logger).ParseFile(ctx, f)
	default:
		entries, err = ReadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return entries, nil
}
