package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/JonMunkholm/ordercheck/internal/core"
)

var (
	colorBorder  = lipgloss.Color("#5C6370")
	colorOK      = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#E53935")

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func stateStyle(s core.OrderState) lipgloss.Style {
	switch s {
	case core.StateUnfinished:
		return cellStyle.Foreground(colorWarning)
	case core.StateCrossMonth, core.StateBoth:
		return cellStyle.Foreground(colorError).Bold(true)
	default:
		return cellStyle.Foreground(colorOK)
	}
}

func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...)
}
