// Package static provides non-interactive terminal output components.
package static

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/raphi011/chop/internal/plan"
)

// RenderTable renders a borderless table with aligned columns. Headers are
// bold; column widths follow the content.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// PlanTable renders the plan's groups as a table, one row per group.
func PlanTable(p *plan.Plan) string {
	headers := []string{"GROUP", "FILES", "MESSAGE"}
	rows := make([][]string, 0, len(p.Groups))
	for _, g := range p.Groups {
		rows = append(rows, PlanTableRow(g))
	}
	return RenderTable(headers, rows)
}

// PlanTableRow builds the table row for one group.
func PlanTableRow(g plan.Group) []string {
	return []string{g.Name, fmt.Sprintf("%d", len(g.Files)), g.Message}
}
