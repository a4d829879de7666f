package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState(t *testing.T, sel Selection) *DashboardState {
	t.Helper()
	state, err := NewDashboard(testSeries(t)).Update(sel)
	require.NoError(t, err)
	return state
}

func TestRenderCharts(t *testing.T) {
	state := testState(t, Selection{T1: "MSFT", T2: "GOOG"})

	var buf bytes.Buffer
	require.NoError(t, RenderCharts(&buf, state))

	html := buf.String()
	assert.Contains(t, html, "<title>Stocks</title>")
	assert.Contains(t, html, "MSFT returns vs. GOOG returns")
	assert.Contains(t, html, "2018-01-03")
}

func TestRenderCharts_ConnectsChartGroup(t *testing.T) {
	state := testState(t, Selection{T1: "AAPL", T2: "GOOG"})

	var buf bytes.Buffer
	require.NoError(t, RenderCharts(&buf, state))

	html := buf.String()
	assert.Contains(t, html, `echarts.connect("stocks")`)
	for _, id := range []string{correlationChartId, t1ChartId, t2ChartId} {
		assert.Contains(t, html, `id="`+id+`"`)
		assert.Contains(t, html, `"`+id+`"`)
	}
	assert.Contains(t, html, "brushLink")

	// the connect script is emitted once, after the last chart
	assert.Equal(t, 1, strings.Count(html, "echarts.connect("))
	assert.Greater(t, strings.Index(html, "echarts.connect("), strings.Index(html, `id="`+t2ChartId+`"`))
}

func TestNewPriceChart_UsesSelectedSymbol(t *testing.T) {
	state := testState(t, Selection{T1: "MSFT", T2: "GOOG"})

	t1 := NewPriceChart(state, ColumnT1)
	require.Len(t, t1.MultiSeries, 1)
	assert.Equal(t, "MSFT", t1.MultiSeries[0].Name)

	t2 := NewPriceChart(state, ColumnT2)
	assert.Equal(t, "GOOG", t2.MultiSeries[0].Name)
}

func TestNewCorrelationChart(t *testing.T) {
	state := testState(t, Selection{T1: "AAPL", T2: "GOOG"})

	scatter := NewCorrelationChart(state)
	require.Len(t, scatter.MultiSeries, 1)
}

func TestCorrelationSubtitle(t *testing.T) {
	state := &DashboardState{Correlation: null.FloatFrom(0.4567)}
	assert.Equal(t, "correlation: 0.46", correlationSubtitle(state))

	state.Correlation = null.Float{}
	assert.Equal(t, "correlation: n/a", correlationSubtitle(state))
}

func TestRenderStatisticsTable(t *testing.T) {
	state := testState(t, Selection{T1: "AAPL", T2: "GOOG"})

	out := RenderStatisticsTable(state)
	assert.Contains(t, out, "AAPL returns vs. GOOG returns")
	for _, col := range append([]string{"index"}, NumericColumns...) {
		assert.Contains(t, out, col)
	}
	for _, label := range StatisticLabels {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "101.5")
}

func TestFormatStatistic(t *testing.T) {
	assert.Equal(t, "NaN", FormatStatistic(null.Float{}))
	assert.Equal(t, "0.71", FormatStatistic(null.FloatFrom(0.71)))
	assert.Equal(t, "2", FormatStatistic(null.FloatFrom(2)))
	assert.Equal(t, "-0.01", FormatStatistic(null.FloatFrom(-0.01)))
}
