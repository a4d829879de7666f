package csvfile

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/guregu/null/v6"

	e "stockdash/data/extensions"
	m "stockdash/data/models"
	c "stockdash/service/api"
)

const ProviderName = "csv"

// closeRecord is one row of a long format price file: date,symbol,close
type closeRecord struct {
	Date   string `csv:"date"`
	Symbol string `csv:"symbol"`
	Close  string `csv:"close"`
}

// CsvProvider serves closes from a local file, read once when created
type CsvProvider struct {
	path   string
	closes map[string][]*m.ClosePrice
}

func NewCsvProvider(path string) (*CsvProvider, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening price file: %w", err)
	}
	defer file.Close()

	var records []*closeRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("error parsing price file %s: %w", path, err)
	}

	closes := make(map[string][]*m.ClosePrice)
	for i, r := range records {
		timestamp, err := time.Parse(time.DateOnly, strings.TrimSpace(r.Date))
		if err != nil {
			return nil, fmt.Errorf("error parsing date on row %d of %s: %w", i+2, path, err)
		}

		symbol := e.NormalizeSymbol(r.Symbol)
		closes[symbol] = append(closes[symbol], &m.ClosePrice{
			Symbol:    symbol,
			Timestamp: timestamp,
			Close:     parseClose(r.Close),
		})
	}

	for _, series := range closes {
		slices.SortFunc(series, func(a, b *m.ClosePrice) int { return a.Timestamp.Compare(b.Timestamp) })
	}

	return &CsvProvider{path: path, closes: closes}, nil
}

func (cp *CsvProvider) Name() string {
	return ProviderName
}

func (cp *CsvProvider) GetDailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]*m.ClosePrice, error) {
	series, ok := cp.closes[e.NormalizeSymbol(symbol)]
	if !ok {
		return nil, fmt.Errorf("symbol %s not found in %s", symbol, cp.path)
	}

	inRange := func(p *m.ClosePrice) bool { return c.InRange(p.Timestamp, start, end) }
	return e.FilterMultiplePtr(series, inRange), nil
}

// parseClose treats blanks, NaN and unparsable values as a missing close
func parseClose(val string) null.Float {
	val = strings.TrimSpace(val)
	if val == "" {
		return null.Float{}
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return null.Float{}
	}
	return null.NewFloat(f, !math.IsNaN(f))
}
