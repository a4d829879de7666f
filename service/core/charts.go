package core

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	ex "stockdash/data/extensions"
)

const (
	// charts in the group share dataZoom and brush through echarts.connect
	chartGroup = "stocks"

	correlationChartId = "correlation"
	t1ChartId          = "t1_prices"
	t2ChartId          = "t2_prices"

	correlationSize = "350px"
	seriesWidth     = "900px"
	seriesHeight    = "250px"
	pointSize       = 2
)

// NewCorrelationChart scatters t1_returns against t2_returns
func NewCorrelationChart(state *DashboardState) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: PageTitle,
			ChartID:   correlationChartId,
			Width:     correlationSize,
			Height:    correlationSize,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    state.CorrelationTitle,
			Subtitle: correlationSubtitle(state),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: ColumnT1Returns, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: ColumnT2Returns, Type: "value"}),
	)

	points := make([]opts.ScatterData, state.View.Len())
	for i, row := range state.View.Rows {
		points[i] = opts.ScatterData{
			Name:       ex.FmtShort(row.Date),
			Value:      []float64{row.T1Returns, row.T2Returns},
			SymbolSize: pointSize,
		}
	}
	scatter.AddSeries("returns", points)

	return scatter
}

// NewPriceChart draws the closes of one side of the selection over time
func NewPriceChart(state *DashboardState, column string) *charts.Line {
	symbol, chartId := state.Selection.T1, t1ChartId
	if column == ColumnT2 {
		symbol, chartId = state.Selection.T2, t2ChartId
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: PageTitle,
			ChartID:   chartId,
			Width:     seriesWidth,
			Height:    seriesHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: symbol}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside", Start: 0, End: 100},
			opts.DataZoom{Type: "slider", Start: 0, End: 100},
		),
	)

	dates := make([]string, state.View.Len())
	for i, d := range state.View.Dates() {
		dates[i] = ex.FmtShort(d)
	}

	prices := state.View.Column(column)
	points := make([]opts.LineData, len(prices))
	for i, p := range prices {
		points[i] = opts.LineData{Value: p}
	}

	line.SetXAxis(dates).AddSeries(symbol, points)
	return line
}

// RenderCharts writes the scatter and the two price charts as one page
func RenderCharts(w io.Writer, state *DashboardState) error {
	page := components.NewPage()
	page.PageTitle = PageTitle
	page.SetLayout(components.PageFlexLayout)
	t2 := NewPriceChart(state, ColumnT2)
	// the last chart's script runs after every chart on the page is initialized
	t2.AddJSFuncs(connectChartsJs())

	page.AddCharts(
		NewCorrelationChart(state),
		NewPriceChart(state, ColumnT1),
		t2,
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("error rendering charts for %s/%s: %w", state.Selection.T1, state.Selection.T2, err)
	}
	return nil
}

func correlationSubtitle(state *DashboardState) string {
	if !state.Correlation.Valid {
		return "correlation: n/a"
	}
	return fmt.Sprintf("correlation: %.2f", state.Correlation.Float64)
}

// connectChartsJs puts the three charts in one group so both price charts keep
// the same time window, and adds a brush whose selection is shared by the group
func connectChartsJs() string {
	return fmt.Sprintf(`(function () {
	var ids = [%q, %q, %q];
	ids.forEach(function (id) {
		var chart = echarts.getInstanceByDom(document.getElementById(id));
		if (!chart) { return; }
		chart.group = %q;
		chart.setOption({
			toolbox: { feature: { brush: { type: ["rect", "lineX", "clear"] } } },
			brush: { xAxisIndex: "all", brushLink: "all", throttleType: "debounce" }
		});
	});
	echarts.connect(%q);
})();`, correlationChartId, t1ChartId, t2ChartId, chartGroup, chartGroup)
}
