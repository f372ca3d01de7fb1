package charts

import (
	"bytes"
	"errors"
	"testing"

	"spendlog/internal/core"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderCategoryBars(t *testing.T) {
	tests := []struct {
		name   string
		series core.ChartSeries
	}{
		{"several", core.ChartSeries{Labels: []string{"Food", "Transport"}, Values: []float64{30, 5}}},
		{"single", core.ChartSeries{Labels: []string{"Books"}, Values: []float64{12.5}}},
		{"equal", core.ChartSeries{Labels: []string{"A", "B"}, Values: []float64{7, 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := RenderCategoryBars(tt.series, DefaultOptions())
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !bytes.HasPrefix(png, pngMagic) {
				t.Fatalf("output is not a PNG (%d bytes)", len(png))
			}
		})
	}
}

func TestRenderCategoryBarsNoData(t *testing.T) {
	cases := []core.ChartSeries{
		{},
		{Labels: []string{"Food"}, Values: nil},
	}
	for _, s := range cases {
		if _, err := RenderCategoryBars(s, DefaultOptions()); !errors.Is(err, ErrNoData) {
			t.Errorf("RenderCategoryBars(%+v) error = %v, want ErrNoData", s, err)
		}
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		width, n, want int
	}{
		{800, 1, 80},
		{800, 5, 72},
		{800, 100, 10},
	}
	for _, tt := range tests {
		if got := barWidth(tt.width, tt.n); got != tt.want {
			t.Errorf("barWidth(%d, %d) = %d, want %d", tt.width, tt.n, got, tt.want)
		}
	}
}
