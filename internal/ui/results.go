// internal/ui/results.go
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/vmdang/querypad/internal/db"
)

const maxColumnWidth = 40

// resultsTable builds a bubble-table from a query result
func resultsTable(res *db.QueryResult, targetWidth int) bbtable.Model {
	if res == nil || len(res.Columns) == 0 {
		return bbtable.New(nil)
	}

	widths := columnWidths(res.Columns, res.Rows)
	var cols []bbtable.Column
	for _, c := range res.Columns {
		w := widths[c]
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		cols = append(cols, bbtable.NewColumn(c, c, w))
	}

	var rows []bbtable.Row
	for _, r := range res.Rows {
		rowData := bbtable.RowData{}
		for i, val := range r {
			rowData[res.Columns[i]] = val
		}
		rows = append(rows, bbtable.NewRow(rowData))
	}

	return bbtable.New(cols).
		WithRows(rows).
		WithBaseStyle(lipgloss.NewStyle().Foreground(textPrimary)).
		HeaderStyle(lipgloss.NewStyle().Foreground(accentColor).Bold(true)).
		HighlightStyle(lipgloss.NewStyle().Foreground(successColor).Bold(true)).
		WithTargetWidth(targetWidth).
		WithPageSize(15).
		BorderRounded()
}

// columnWidths sizes each column to its widest value, header included
func columnWidths(columns []string, rows [][]string) map[string]int {
	widths := make(map[string]int, len(columns))
	for _, c := range columns {
		widths[c] = len(c)
	}
	for _, row := range rows {
		for i, val := range row {
			if i >= len(columns) {
				break
			}
			if len(val) > widths[columns[i]] {
				widths[columns[i]] = len(val)
			}
		}
	}
	return widths
}

// resultSummary renders the one-line outcome shown in the status bar
func resultSummary(res *db.QueryResult) string {
	if res == nil {
		return ""
	}
	if res.IsSelect {
		return fmt.Sprintf("%d rows in %s", res.RowCount, res.ExecTime.Round(time.Millisecond))
	}
	return fmt.Sprintf("%d rows affected in %s", res.AffectedRows, res.ExecTime.Round(time.Millisecond))
}
