package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// TickersResponse describes the universe the dashboard was loaded with
type TickersResponse struct {
	Tickers   []string          `json:"tickers"`
	Start     string            `json:"start"`
	End       string            `json:"end"`
	Rows      int               `json:"rows"`
	Selection SelectionResponse `json:"defaultSelection"`
}

type SelectionResponse struct {
	T1        string   `json:"t1"`
	T2        string   `json:"t2"`
	T1Options []string `json:"t1Options"`
	T2Options []string `json:"t2Options"`
}

// DerivedRowResponse keeps the column names the charts are bound to
type DerivedRowResponse struct {
	Date      time.Time `json:"Date"`
	T1        float64   `json:"t1"`
	T2        float64   `json:"t2"`
	T1Returns float64   `json:"t1_returns"`
	T2Returns float64   `json:"t2_returns"`
}

// StatisticsResponse is the describe table with the label column first
type StatisticsResponse struct {
	Columns []string           `json:"columns"`
	Rows    []StatisticsRecord `json:"rows"`
}

type StatisticsRecord struct {
	Index  string       `json:"index"`
	Values []null.Float `json:"values"`
}

type ViewResponse struct {
	Selection   SelectionResponse    `json:"selection"`
	Titles      TitlesResponse       `json:"titles"`
	Correlation null.Float           `json:"correlation"`
	Rows        []DerivedRowResponse `json:"rows"`
	Statistics  StatisticsResponse   `json:"statistics"`
}

type TitlesResponse struct {
	Correlation string `json:"correlation"`
	T1          string `json:"t1"`
	T2          string `json:"t2"`
}
