package core

import (
	"math"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "stockdash/data/models"
)

func TestDescribe(t *testing.T) {
	view, err := BuildDerivedView(testSeries(t), Selection{T1: "AAPL", T2: "GOOG"})
	require.NoError(t, err)

	stats := Describe(view)
	assert.Equal(t, StatisticLabels, stats.Index)
	assert.Equal(t, NumericColumns, stats.Columns)

	expected := map[string]float64{
		"count": 2,
		"mean":  101.5,
		"std":   0.71,
		"min":   101,
		"25%":   101.25,
		"50%":   101.5,
		"75%":   101.75,
		"max":   102,
	}
	for label, v := range expected {
		assert.Equal(t, null.FloatFrom(v), stats.Get(label, ColumnT1), label)
	}

	assert.Equal(t, null.FloatFrom(51.75), stats.Get("mean", ColumnT2))
	assert.Equal(t, null.FloatFrom(1.06), stats.Get("std", ColumnT2))
	assert.Equal(t, null.FloatFrom(0.01), stats.Get("mean", ColumnT1Returns))
	assert.Equal(t, null.FloatFrom(-0.01), stats.Get("min", ColumnT1Returns))
	assert.Equal(t, null.FloatFrom(0.02), stats.Get("max", ColumnT1Returns))
	assert.Equal(t, null.FloatFrom(0.03), stats.Get("max", ColumnT2Returns))

	row := stats.Row(0)
	assert.Len(t, row, len(NumericColumns))
	for _, v := range row {
		assert.Equal(t, null.FloatFrom(2), v)
	}

	assert.False(t, stats.Get("skew", ColumnT1).Valid)
	assert.False(t, stats.Get("mean", "volume").Valid)
}

func TestDescribe_SingleRowHasNoStd(t *testing.T) {
	series, err := NewPriceSeries([]string{"AAPL", "GOOG"}, map[string][]*m.ClosePrice{
		"AAPL": closesOf("AAPL", 100, 101),
		"GOOG": closesOf("GOOG", 10, 12),
	})
	require.NoError(t, err)

	view, err := BuildDerivedView(series, Selection{T1: "AAPL", T2: "GOOG"})
	require.NoError(t, err)
	require.Equal(t, 1, view.Len())

	stats := Describe(view)
	assert.Equal(t, null.FloatFrom(1), stats.Get("count", ColumnT1))
	assert.False(t, stats.Get("std", ColumnT1).Valid)
	assert.Equal(t, null.FloatFrom(101), stats.Get("50%", ColumnT1))
	assert.Equal(t, null.FloatFrom(0.2), stats.Get("max", ColumnT2Returns))
}

func TestDescribe_EmptyView(t *testing.T) {
	stats := Describe(&DerivedView{Selection: Selection{T1: "AAPL", T2: "GOOG"}})

	for _, col := range NumericColumns {
		assert.Equal(t, null.FloatFrom(0), stats.Get("count", col))
		for _, label := range StatisticLabels[1:] {
			assert.False(t, stats.Get(label, col).Valid, "%s %s", label, col)
		}
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.0, Quantile(sorted, 0), 1e-12)
	assert.InDelta(t, 1.75, Quantile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Quantile(sorted, 0.75), 1e-12)
	assert.InDelta(t, 4.0, Quantile(sorted, 1), 1e-12)

	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.25))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestRoundValue(t *testing.T) {
	tests := []struct {
		in       float64
		expected null.Float
	}{
		{0.125, null.FloatFrom(0.12)},
		{0.375, null.FloatFrom(0.38)},
		{-0.0098039, null.FloatFrom(-0.01)},
		{101.254, null.FloatFrom(101.25)},
		{3, null.FloatFrom(3)},
		// rounding works on the scaled float, as numpy does
		{1.015, null.FloatFrom(1.01)},
		{1.035, null.FloatFrom(1.03)},
		{2.675, null.FloatFrom(2.68)},
		{0.035, null.FloatFrom(0.04)},
		{math.NaN(), null.Float{}},
		{math.Inf(1), null.Float{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RoundValue(tt.in, 2), "%v", tt.in)
	}
}

func TestCorrelation(t *testing.T) {
	closes := map[string][]*m.ClosePrice{
		"AAPL": closesOf("AAPL", 100, 110, 99, 120),
		"GOOG": closesOf("GOOG", 50, 55, 49.5, 60),
	}
	series, err := NewPriceSeries([]string{"AAPL", "GOOG"}, closes)
	require.NoError(t, err)

	view, err := BuildDerivedView(series, Selection{T1: "AAPL", T2: "GOOG"})
	require.NoError(t, err)

	c := Correlation(view)
	require.True(t, c.Valid)
	assert.InDelta(t, 1.0, c.Float64, 1e-9)

	view.Rows = view.Rows[:1]
	assert.False(t, Correlation(view).Valid)
}
