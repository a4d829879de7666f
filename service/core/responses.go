package core

import (
	sm "stockdash/service/models"
)

func mapSelection(sel Selection, universe []string) sm.SelectionResponse {
	return sm.SelectionResponse{
		T1:        sel.T1,
		T2:        sel.T2,
		T1Options: sel.T1Options(universe),
		T2Options: sel.T2Options(universe),
	}
}

func MapStateToViewResponse(state *DashboardState) sm.ViewResponse {
	rows := make([]sm.DerivedRowResponse, state.View.Len())
	for i, r := range state.View.Rows {
		rows[i] = sm.DerivedRowResponse{
			Date:      r.Date,
			T1:        r.T1,
			T2:        r.T2,
			T1Returns: r.T1Returns,
			T2Returns: r.T2Returns,
		}
	}

	return sm.ViewResponse{
		Selection: sm.SelectionResponse{
			T1:        state.Selection.T1,
			T2:        state.Selection.T2,
			T1Options: state.T1Options,
			T2Options: state.T2Options,
		},
		Titles: sm.TitlesResponse{
			Correlation: state.CorrelationTitle,
			T1:          state.Selection.T1,
			T2:          state.Selection.T2,
		},
		Correlation: state.Correlation,
		Rows:        rows,
		Statistics:  MapStatisticsToResponse(state.Statistics),
	}
}

// MapStatisticsToResponse lays the describe table out row by row with an index column first
func MapStatisticsToResponse(stats *SummaryStatistics) sm.StatisticsResponse {
	res := sm.StatisticsResponse{
		Columns: append([]string{"index"}, stats.Columns...),
		Rows:    make([]sm.StatisticsRecord, len(stats.Index)),
	}

	for i, label := range stats.Index {
		res.Rows[i] = sm.StatisticsRecord{
			Index:  label,
			Values: stats.Row(i),
		}
	}

	return res
}
