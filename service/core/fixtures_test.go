package core

import (
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/require"

	m "stockdash/data/models"
)

var testUniverse = []string{"AAPL", "GOOG", "MSFT"}

func day(n int) time.Time {
	return time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// closesOf builds one close per value starting at day(1), NaN marks a missing close
func closesOf(symbol string, values ...float64) []*m.ClosePrice {
	res := make([]*m.ClosePrice, len(values))
	for i, v := range values {
		res[i] = &m.ClosePrice{
			Symbol:    symbol,
			Timestamp: day(i + 1),
			Close:     null.NewFloat(v, v == v),
		}
	}
	return res
}

func testCloses() map[string][]*m.ClosePrice {
	return map[string][]*m.ClosePrice{
		"AAPL": closesOf("AAPL", 100, 102, 101),
		"GOOG": closesOf("GOOG", 50, 51, 52.5),
		"MSFT": closesOf("MSFT", 80, 81, 82),
	}
}

func testSeries(t *testing.T) *PriceSeries {
	t.Helper()
	series, err := NewPriceSeries(testUniverse, testCloses())
	require.NoError(t, err)
	return series
}
