package core

import (
	"fmt"
	"slices"
	"time"

	ex "stockdash/data/extensions"
	m "stockdash/data/models"
)

// PriceSeries is the date indexed close table, one column per symbol.
// It only holds complete rows and is never mutated once built.
type PriceSeries struct {
	Symbols []string
	Dates   []time.Time
	columns map[string][]float64
}

// NewPriceSeries outer joins the closes of every symbol on date and drops
// each date where any symbol has a missing close
func NewPriceSeries(symbols []string, closes map[string][]*m.ClosePrice) (*PriceSeries, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("price series needs at least one symbol")
	}
	if !ex.AreAllUnique(symbols) {
		return nil, fmt.Errorf("price series symbols must be unique, got %v", symbols)
	}

	// <symbol, <date, close>>, later duplicates overwrite earlier ones
	lookup := make(map[string]map[time.Time]*m.ClosePrice, len(symbols))
	dateSet := make(map[time.Time]struct{})
	for _, symbol := range symbols {
		byDate := make(map[time.Time]*m.ClosePrice, len(closes[symbol]))
		for _, p := range closes[symbol] {
			d := tradingDate(p.Timestamp)
			byDate[d] = p
			dateSet[d] = struct{}{}
		}
		lookup[symbol] = byDate
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })

	complete := func(d time.Time) bool {
		for _, symbol := range symbols {
			p, ok := lookup[symbol][d]
			if !ok || !p.Close.Valid {
				return false
			}
		}
		return true
	}
	dates = ex.FilterMultiple(dates, complete)

	if len(dates) == 0 {
		return nil, fmt.Errorf("no date has a close for every symbol in %v", symbols)
	}

	columns := make(map[string][]float64, len(symbols))
	for _, symbol := range symbols {
		col := make([]float64, len(dates))
		for i, d := range dates {
			col[i] = lookup[symbol][d].Close.Float64
		}
		columns[symbol] = col
	}

	return &PriceSeries{
		Symbols: slices.Clone(symbols),
		Dates:   dates,
		columns: columns,
	}, nil
}

// Column returns the closes of symbol aligned with Dates
func (ps *PriceSeries) Column(symbol string) ([]float64, bool) {
	col, ok := ps.columns[symbol]
	return col, ok
}

func (ps *PriceSeries) Len() int {
	return len(ps.Dates)
}

func tradingDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
