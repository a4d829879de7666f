package core

import (
	"fmt"
	"slices"

	"github.com/guregu/null/v6"
)

const PageTitle = "Stocks"

// Dashboard owns the loaded price series and recomputes everything shown on
// the page for a selection. The series is read only, so one Dashboard is
// shared by every request.
type Dashboard struct {
	series *PriceSeries
}

// DashboardState is everything the page binds to for one selection
type DashboardState struct {
	Selection        Selection
	T1Options        []string
	T2Options        []string
	View             *DerivedView
	Statistics       *SummaryStatistics
	Correlation      null.Float
	CorrelationTitle string
}

func NewDashboard(series *PriceSeries) *Dashboard {
	return &Dashboard{series: series}
}

func (d *Dashboard) Universe() []string {
	return slices.Clone(d.series.Symbols)
}

func (d *Dashboard) Series() *PriceSeries {
	return d.series
}

// Update is the reaction to a dropdown change: both option lists exclude the
// other side's value and the view and statistics are rebuilt from scratch
func (d *Dashboard) Update(sel Selection) (*DashboardState, error) {
	universe := d.series.Symbols
	if err := sel.Validate(universe); err != nil {
		return nil, err
	}

	view, err := BuildDerivedView(d.series, sel)
	if err != nil {
		return nil, err
	}

	return &DashboardState{
		Selection:        sel,
		T1Options:        sel.T1Options(universe),
		T2Options:        sel.T2Options(universe),
		View:             view,
		Statistics:       Describe(view),
		Correlation:      Correlation(view),
		CorrelationTitle: CorrelationTitle(sel),
	}, nil
}

// Resolve turns raw request values into a state, see ResolveSelection
func (d *Dashboard) Resolve(t1, t2 string) (*DashboardState, error) {
	sel, err := ResolveSelection(d.series.Symbols, t1, t2)
	if err != nil {
		return nil, err
	}
	return d.Update(sel)
}

func CorrelationTitle(sel Selection) string {
	return fmt.Sprintf("%s returns vs. %s returns", sel.T1, sel.T2)
}
