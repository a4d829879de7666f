package core

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

// RenderStatisticsTable formats the statistics of a state for a terminal
func RenderStatisticsTable(state *DashboardState) string {
	stats := MapStatisticsToResponse(state.Statistics)

	rows := make([][]string, len(stats.Rows))
	for i, r := range stats.Rows {
		row := []string{r.Index}
		for _, v := range r.Values {
			row = append(row, FormatStatistic(v))
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(stats.Columns...).
		Rows(rows...)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(state.CorrelationTitle),
		t.String(),
	)
}

// FormatStatistic prints a rounded statistic, undefined values print as NaN
func FormatStatistic(v null.Float) string {
	if !v.Valid {
		return "NaN"
	}
	return decimal.NewFromFloat(v.Float64).String()
}
