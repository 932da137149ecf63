package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/regscan/regscan/internal/document"
)

// previewRows caps how many documents the console preview shows.
const previewRows = 20

// Preview renders the first rows of the table to w as a bordered console
// table, one row per document, truncated wide columns.
func Preview(t *document.ResultTable, w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(t.Type)

	head := table.Row{"source"}
	configs := []table.ColumnConfig{{Number: 1, WidthMax: 28}}
	for i, col := range t.Columns {
		head = append(head, col)
		configs = append(configs, table.ColumnConfig{
			Number:           i + 2,
			WidthMax:         24,
			WidthMaxEnforcer: text.Trim,
		})
	}
	tw.AppendHeader(head)
	tw.SetColumnConfigs(configs)

	shown := 0
	for _, rec := range t.Rows {
		if shown == previewRows {
			break
		}
		row := table.Row{rec.Source}
		if rec.Failed() {
			row = append(row, "FAILED: "+rec.Err)
			for i := 1; i < len(t.Columns); i++ {
				row = append(row, "")
			}
		} else {
			for _, col := range t.Columns {
				row = append(row, rec.Fields[col].Clean)
			}
		}
		tw.AppendRow(row)
		shown++
	}
	if len(t.Rows) > previewRows {
		tw.AppendFooter(table.Row{text.Bold.Sprintf("%d more rows", len(t.Rows)-previewRows)})
	}
	tw.Render()
}
