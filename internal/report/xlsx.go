package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"spendlog/internal/core"
)

const (
	expensesSheet = "Expenses"
	totalsSheet   = "Totals"
)

// WriteWorkbook writes an XLSX workbook with an "Expenses" sheet listing
// every record and a "Totals" sheet with per-category sums.
func WriteWorkbook(w io.Writer, s core.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(totalsSheet); err != nil {
		return fmt.Errorf("adding sheet: %w", err)
	}

	rows := [][]any{{"ID", "Date", "Category", "Note", "Amount"}}
	for _, e := range s.Expenses {
		rows = append(rows, []any{e.ID, e.Date.String(), core.CategoryLabel(e.Category), e.Note, e.Amount})
	}
	rows = append(rows, []any{nil, nil, nil, "Total", s.Total})
	if err := setRows(f, expensesSheet, rows); err != nil {
		return err
	}

	rows = [][]any{{"Category", "Total"}}
	for _, ca := range s.ByCategory {
		rows = append(rows, []any{ca.Name, ca.Amount})
	}
	if err := setRows(f, totalsSheet, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("setting %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
