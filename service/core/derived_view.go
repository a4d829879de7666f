package core

import (
	"fmt"
	"math"
	"time"
)

// column names of the derived view, as bound to the charts and the statistics table
const (
	ColumnDate      = "Date"
	ColumnT1        = "t1"
	ColumnT2        = "t2"
	ColumnT1Returns = "t1_returns"
	ColumnT2Returns = "t2_returns"
)

// NumericColumns are the derived view columns described by the statistics table, in order
var NumericColumns = []string{ColumnT1, ColumnT2, ColumnT1Returns, ColumnT2Returns}

type DerivedRow struct {
	Date      time.Time
	T1        float64
	T2        float64
	T1Returns float64
	T2Returns float64
}

// DerivedView is the table behind every chart for one selection
type DerivedView struct {
	Selection Selection
	Rows      []DerivedRow
}

// BuildDerivedView slices the two selected closes, adds their percent change
// and drops the rows that are not complete, which always includes the first one
func BuildDerivedView(series *PriceSeries, sel Selection) (*DerivedView, error) {
	p1, ok := series.Column(sel.T1)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in the price series", ErrInvalidSelection, sel.T1)
	}

	p2, ok := series.Column(sel.T2)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in the price series", ErrInvalidSelection, sel.T2)
	}

	r1 := PercentChange(p1)
	r2 := PercentChange(p2)

	rows := make([]DerivedRow, 0, series.Len())
	for i, d := range series.Dates {
		row := DerivedRow{
			Date:      d,
			T1:        p1[i],
			T2:        p2[i],
			T1Returns: r1[i],
			T2Returns: r2[i],
		}
		if row.complete() {
			rows = append(rows, row)
		}
	}

	return &DerivedView{Selection: sel, Rows: rows}, nil
}

// PercentChange returns (p[t] - p[t-1]) / p[t-1], the first element is NaN
func PercentChange(prices []float64) []float64 {
	res := make([]float64, len(prices))
	for i := range prices {
		if i == 0 {
			res[i] = math.NaN()
			continue
		}
		res[i] = (prices[i] - prices[i-1]) / prices[i-1]
	}
	return res
}

func (r DerivedRow) complete() bool {
	for _, v := range []float64{r.T1, r.T2, r.T1Returns, r.T2Returns} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Column returns the values of a numeric column by name
func (v *DerivedView) Column(name string) []float64 {
	res := make([]float64, len(v.Rows))
	for i, row := range v.Rows {
		switch name {
		case ColumnT1:
			res[i] = row.T1
		case ColumnT2:
			res[i] = row.T2
		case ColumnT1Returns:
			res[i] = row.T1Returns
		case ColumnT2Returns:
			res[i] = row.T2Returns
		default:
			panic(fmt.Sprintf("%s is not a numeric column of the derived view", name))
		}
	}
	return res
}

func (v *DerivedView) Dates() []time.Time {
	res := make([]time.Time, len(v.Rows))
	for i, row := range v.Rows {
		res[i] = row.Date
	}
	return res
}

func (v *DerivedView) Len() int {
	return len(v.Rows)
}
