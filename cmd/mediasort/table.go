package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"mediasort/internal/plan"
)

const (
	pathColumnMaxWidth  = 60
	errorColumnMaxWidth = 40
)

// renderEntriesTable renders plan entries in the fixed status layout: one row
// per entry with its lifecycle status, action, paths, and any captured error.
// Long paths wrap rather than widening the table past a terminal.
func renderEntriesTable(entries []plan.Entry) string {
	if len(entries) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"STATUS", "ACTION", "SOURCE", "DESTINATION", "ERROR"})
	for _, entry := range entries {
		tw.AppendRow(table.Row{
			string(entry.Status),
			string(entry.Action),
			entry.SourcePath,
			entry.DestinationPath,
			entry.Error,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AlignHeader: text.AlignLeft},
		{Number: 2, AlignHeader: text.AlignLeft},
		{Number: 3, AlignHeader: text.AlignLeft, WidthMax: pathColumnMaxWidth, WidthMaxEnforcer: text.WrapSoft},
		{Number: 4, AlignHeader: text.AlignLeft, WidthMax: pathColumnMaxWidth, WidthMaxEnforcer: text.WrapSoft},
		{Number: 5, AlignHeader: text.AlignLeft, WidthMax: errorColumnMaxWidth, WidthMaxEnforcer: text.WrapSoft},
	})

	return tw.Render()
}
