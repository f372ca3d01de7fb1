package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"spendlog/internal/core"
)

// WriteTable prints the expenses followed by the per-category totals.
func WriteTable(w io.Writer, s core.Summary) {
	fmt.Fprintf(w, "Showing: %s (%d expenses)\n\n", s.Mode, len(s.Expenses))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Date", "Category", "Note", "Amount"})
	for _, e := range s.Expenses {
		t.AppendRow(table.Row{e.ID, e.Date.String(), core.CategoryLabel(e.Category), e.Note, core.FormatAmount(e.Amount)})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "", "", text.Bold.Sprint("Total"), text.Bold.Sprint(core.FormatAmount(s.Total))})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()

	if len(s.ByCategory) == 0 {
		return
	}
	fmt.Fprintln(w)

	ct := table.NewWriter()
	ct.SetOutputMirror(w)
	ct.AppendHeader(table.Row{"Category", "Total"})
	for _, ca := range s.ByCategory {
		ct.AppendRow(table.Row{ca.Name, core.FormatAmount(ca.Amount)})
	}
	ct.SetStyle(table.StyleRounded)
	ct.Style().Format.Header = text.FormatDefault
	ct.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	ct.Render()
}
