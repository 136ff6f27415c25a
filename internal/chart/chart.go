// Package chart renders category totals as pie or bar charts.
package chart

import (
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Veraticus/spendsmart/internal/aggregate"
	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
)

// Kind selects the chart shape.
type Kind string

// Supported chart kinds.
const (
	KindPie Kind = "pie"
	KindBar Kind = "bar"
)

// Format selects the output encoding.
type Format string

// Supported output formats.
const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseKind accepts "pie" or "bar"; empty means pie.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindPie:
		return KindPie, nil
	case KindBar:
		return KindBar, nil
	default:
		return "", fmt.Errorf("unknown chart kind %q (want pie or bar)", s)
	}
}

// FormatFromPath picks SVG for .svg files and PNG otherwise.
func FormatFromPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".svg") {
		return FormatSVG
	}
	return FormatPNG
}

// Options controls rendering.
type Options struct {
	Kind   Kind
	Format Format
	Title  string
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Kind == "" {
		o.Kind = KindPie
	}
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = 640
	}
	return o
}

// Render draws per-category totals of expenses in palette colors.
func Render(w io.Writer, expenses []model.Expense, palette model.Palette, currency model.Currency, opts Options) error {
	opts = opts.withDefaults()

	rows := aggregate.Breakdown(expenses)
	if len(rows) == 0 {
		return common.ErrNoExpenses
	}

	provider := gochart.PNG
	if opts.Format == FormatSVG {
		provider = gochart.SVG
	}

	var err error
	switch opts.Kind {
	case KindPie:
		err = pie(rows, palette, currency, opts).Render(provider, w)
	case KindBar:
		err = bar(rows, palette, currency, opts).Render(provider, w)
	default:
		return fmt.Errorf("unknown chart kind %q", opts.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", opts.Kind, err)
	}
	return nil
}

func pie(rows []aggregate.CategoryShare, palette model.Palette, currency model.Currency, opts Options) gochart.PieChart {
	values := make([]gochart.Value, 0, len(rows))
	for _, r := range rows {
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %s (%s%%)", r.Category, currency.Format(r.Total), r.Share.Shift(2).StringFixed(1)),
			Value: r.Total.InexactFloat64(),
			Style: gochart.Style{
				FillColor:   categoryColor(palette, r.Category),
				StrokeColor: gochart.ColorWhite,
				FontSize:    10,
				FontColor:   gochart.ColorBlack,
			},
		})
	}

	return gochart.PieChart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
		Background: gochart.Style{
			Padding:   gochart.Box{Top: 40, Left: 40, Right: 40, Bottom: 40},
			FillColor: gochart.ColorWhite,
		},
	}
}

func bar(rows []aggregate.CategoryShare, palette model.Palette, currency model.Currency, opts Options) gochart.BarChart {
	bars := make([]gochart.Value, 0, len(rows))
	top := 0.0
	for _, r := range rows {
		v := r.Total.InexactFloat64()
		top = max(top, v)
		color := categoryColor(palette, r.Category)
		bars = append(bars, gochart.Value{
			Label: string(r.Category),
			Value: v,
			Style: gochart.Style{FillColor: color, StrokeColor: color},
		})
	}

	barWidth := max(opts.Width/(2*len(bars)+1), 8)
	return gochart.BarChart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		Background: gochart.Style{
			Padding:   gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: gochart.ColorWhite,
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%s%.0f", currency.Symbol, f)
				}
				return ""
			},
		},
		Bars: bars,
	}
}

// categoryColor converts a "#RRGGBB" palette entry; unparseable or missing
// colors render gray.
func categoryColor(palette model.Palette, c model.Category) drawing.Color {
	hex := strings.TrimPrefix(palette.Color(c), "#")
	if len(hex) != 6 {
		return gochart.ColorAlternateGray
	}
	return drawing.ColorFromHex(hex)
}
