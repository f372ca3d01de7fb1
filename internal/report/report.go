// Package report writes a core.Summary in the formats offered by the
// spendlog-report command.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"spendlog/internal/charts"
	"spendlog/internal/core"
)

// Format names an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
	FormatPNG   Format = "png"
)

// Formats lists every supported format.
func Formats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatXLSX), string(FormatPNG)}
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatXLSX, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q: must be one of %s", s, strings.Join(Formats(), ", "))
	}
}

// Binary reports whether the format cannot be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatXLSX || f == FormatPNG
}

// Write renders s to w in the given format.
func Write(w io.Writer, f Format, s core.Summary) error {
	switch f {
	case FormatTable:
		WriteTable(w, s)
		return nil
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatXLSX:
		return WriteWorkbook(w, s)
	case FormatPNG:
		png, err := charts.RenderCategoryBars(s.Chart, chartOptions(s.Mode))
		if err != nil {
			return err
		}
		_, err = w.Write(png)
		return err
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// WriteJSON writes the summary as indented JSON.
func WriteJSON(w io.Writer, s core.Summary) error {
	if s.Expenses == nil {
		s.Expenses = []core.Expense{}
	}
	if s.ByCategory == nil {
		s.ByCategory = core.CategoryTotals{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return nil
}

func chartOptions(mode core.FilterMode) charts.Options {
	opts := charts.DefaultOptions()
	opts.Title = fmt.Sprintf("Expenses by category (%s)", mode)
	return opts
}
