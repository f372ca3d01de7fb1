// Package charts renders per-category totals as PNG bar charts.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/wcharczuk/go-chart/v2"

	"spendlog/internal/core"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to chart")

// Options controls the rendered image.
type Options struct {
	Title  string
	Width  int
	Height int
}

func DefaultOptions() Options {
	return Options{
		Title:  "Expenses by category",
		Width:  800,
		Height: 400,
	}
}

// RenderCategoryBars draws one bar per label, in series order.
func RenderCategoryBars(series core.ChartSeries, opts Options) ([]byte, error) {
	if len(series.Labels) == 0 || len(series.Labels) != len(series.Values) {
		return nil, ErrNoData
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}

	bars := make([]chart.Value, len(series.Labels))
	for i, label := range series.Labels {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%s: %s", label, core.FormatAmount(series.Values[i])),
			Value: series.Values[i],
		}
	}

	// A single bar (or equal bars) would give go-chart a zero-height range.
	top := slices.Max(series.Values)
	if top <= 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title: opts.Title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    opts.Width,
		Height:   opts.Height,
		BarWidth: barWidth(opts.Width, len(bars)),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return core.FormatAmount(f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render category chart: %w", err)
	}
	return buf.Bytes(), nil
}

func barWidth(width, n int) int {
	w := width / (2*n + 1)
	switch {
	case w > 80:
		return 80
	case w < 10:
		return 10
	}
	return w
}
