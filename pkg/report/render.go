package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2)
)

// Render formats the summary for a terminal.
func Render(s *Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Follow network " + s.RunID))
	b.WriteString("\n")

	g := s.Global
	stats := []string{
		fmt.Sprintf("Population:          %d", g.Population),
		fmt.Sprintf("Edges:               %d", g.Edges),
		fmt.Sprintf("Density:             %.4f", g.Density),
		fmt.Sprintf("Reciprocity:         %.4f", g.Reciprocity),
		fmt.Sprintf("Transitivity:        %.4f", g.Transitivity),
		fmt.Sprintf("Average clustering:  %.4f", g.AverageClustering),
		fmt.Sprintf("Zero-degree members: %d", g.ZeroDegree),
		fmt.Sprintf("Weak components:     %d", g.WeakComponents),
	}
	b.WriteString(statsBoxStyle.Render(strings.Join(stats, "\n")))
	b.WriteString("\n")

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Algorithm", "Groups", "Sizes", "Modularity Q")

	for _, a := range s.Algorithms {
		t.Row(a.Name, fmt.Sprintf("%d", a.GroupCount), joinInts(a.GroupSizes), fmt.Sprintf("%.6f", a.ModularityQ))
	}
	b.WriteString(t.Render())
	b.WriteString("\n")

	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
