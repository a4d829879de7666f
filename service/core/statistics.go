package core

import (
	"math"
	"slices"

	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const statisticsPrecision = 2

// StatisticLabels are the rows of the statistics table, in order
var StatisticLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// SummaryStatistics is the describe table of a derived view: one row per
// label, one column per numeric column. Undefined values are null.
type SummaryStatistics struct {
	Index   []string
	Columns []string
	Values  map[string][]null.Float // <column, value per label>
}

// Describe computes count, mean, sample std, min, quartiles and max of every
// numeric column, rounded to two decimals
func Describe(view *DerivedView) *SummaryStatistics {
	res := &SummaryStatistics{
		Index:   slices.Clone(StatisticLabels),
		Columns: slices.Clone(NumericColumns),
		Values:  make(map[string][]null.Float, len(NumericColumns)),
	}

	for _, col := range NumericColumns {
		res.Values[col] = describeColumn(view.Column(col))
	}

	return res
}

func describeColumn(x []float64) []null.Float {
	n := len(x)
	values := make([]float64, len(StatisticLabels))
	for i := range values {
		values[i] = math.NaN()
	}
	values[0] = float64(n)

	if n > 0 {
		sorted := slices.Clone(x)
		slices.Sort(sorted)

		values[1] = stat.Mean(x, nil)
		if n > 1 {
			values[2] = stat.StdDev(x, nil)
		}
		values[3] = floats.Min(x)
		values[4] = Quantile(sorted, 0.25)
		values[5] = Quantile(sorted, 0.5)
		values[6] = Quantile(sorted, 0.75)
		values[7] = floats.Max(x)
	}

	res := make([]null.Float, len(values))
	for i, v := range values {
		res[i] = RoundValue(v, statisticsPrecision)
	}
	return res
}

// Quantile linearly interpolates between the closest ranks at p*(n-1).
// gonum's stat.Quantile offers the empirical and LinInterp estimators, neither
// of which places the quartiles the way the statistics table expects.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}

	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// RoundValue rounds the scaled float half to even, the way numpy rounds, so
// 1.015 becomes 1.01. NaN and Inf become null.
func RoundValue(v float64, places int32) null.Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	scale := math.Pow(10, float64(places))
	return null.FloatFrom(math.RoundToEven(v*scale) / scale)
}

// Correlation is the pearson correlation of the two return columns,
// null when it is undefined
func Correlation(view *DerivedView) null.Float {
	if view.Len() < 2 {
		return null.Float{}
	}

	c := stat.Correlation(view.Column(ColumnT1Returns), view.Column(ColumnT2Returns), nil)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return null.Float{}
	}
	return null.FloatFrom(c)
}

// Row returns the values of a label across the columns
func (s *SummaryStatistics) Row(label int) []null.Float {
	res := make([]null.Float, len(s.Columns))
	for i, col := range s.Columns {
		res[i] = s.Values[col][label]
	}
	return res
}

// Get looks up a single cell by label and column
func (s *SummaryStatistics) Get(label, column string) null.Float {
	idx := slices.Index(s.Index, label)
	if idx < 0 {
		return null.Float{}
	}
	values, ok := s.Values[column]
	if !ok {
		return null.Float{}
	}
	return values[idx]
}
