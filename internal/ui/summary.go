package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vvka-141/dwhetl/internal/runner"
)

const (
	statusOK     = SymbolCheck + " ok"
	statusFailed = SymbolCross + " failed"
)

const statusColumn = 2

// RenderSummary lays out one row per executed statement with its kind,
// status and duration.
func RenderSummary(results []runner.Result) string {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		status := statusOK
		if !res.Succeeded {
			status = statusFailed
		}
		rows = append(rows, []string{
			res.Statement.Name,
			res.Statement.Kind.String(),
			status,
			res.Duration.Round(time.Millisecond).String(),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(MutedStyle).
		Headers("STATEMENT", "KIND", "STATUS", "DURATION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			if col == statusColumn && row >= 0 && row < len(results) {
				if results[row].Succeeded {
					return CellStyle.Foreground(ColorSuccess)
				}
				return CellStyle.Foreground(ColorError)
			}
			return CellStyle
		})
	return t.String()
}

// PrintSummary writes the summary table followed by a totals line.
func PrintSummary(w io.Writer, phase string, results []runner.Result) {
	var failed int
	var total time.Duration
	for _, res := range results {
		total += res.Duration
		if !res.Succeeded {
			failed++
		}
	}

	fmt.Fprintf(w, "\n%s\n", RenderSummary(results))
	line := fmt.Sprintf("%s: %d statements, %d failed, %s", phase, len(results), failed, total.Round(time.Millisecond))
	if failed > 0 {
		fmt.Fprintln(w, ErrorStyle.Render(SymbolCross+" "+line))
		return
	}
	fmt.Fprintln(w, SuccessStyle.Render(SymbolCheck+" "+line))
}
