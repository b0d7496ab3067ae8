package main

import (
	"fmt"
	"io"

	"github.com/kiranshivaraju/skillora/internal/dashboard"
	"github.com/kiranshivaraju/skillora/pkg/models"
	"github.com/olekukonko/tablewriter"
)

func printStatus(out io.Writer, a *app, st models.TaskStatus) {
	line := st.Label()
	if p := st.Progress; p != nil {
		if p.Percent != nil {
			line += fmt.Sprintf(" %d%%", *p.Percent)
		}
		if p.Processed != nil && p.Total != nil {
			line += fmt.Sprintf(" (%s / %s)", a.format.Count(p.Processed), a.format.Count(p.Total))
		}
	}
	if st.Message != "" {
		line += ": " + st.Message
	}
	fmt.Fprintln(out, line)
}

func printDashboard(out io.Writer, a *app, data *dashboard.Data, page dashboard.Page[models.StackCompareRow]) {
	f := a.format
	s := data.Summary
	fmt.Fprintf(out, "Salary (n=%s)  P50 %s  P75 %s  P90 %s\n\n",
		f.Int(float64(s.N)),
		f.Currency(s.P50, a.currency),
		f.Currency(s.P75, a.currency),
		f.Currency(s.P90, a.currency))

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Stack", "Median", "N"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range page.Items {
		table.Append([]string{row.Stack, f.Currency(row.P50, a.currency), f.Int(float64(row.N))})
	}
	table.Render()

	pages := (page.Total + page.Limit - 1) / page.Limit
	fmt.Fprintf(out, "page %d of %d (%d stacks)\n", page.Page, max(pages, 1), page.Total)
}
