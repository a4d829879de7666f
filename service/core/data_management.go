package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	ex "stockdash/data/extensions"
	m "stockdash/data/models"
)

// PriceStore persists downloaded closes, implemented by repos.Postgres
type PriceStore interface {
	GetMetaDataBySymbol(ctx context.Context, symbol string) (*m.TimeSeriesMetadata, error)
	GetClosePrices(ctx context.Context, symbol string, start, end time.Time) ([]*m.ClosePrice, error)
	ReplaceClosePrices(ctx context.Context, metadata *m.TimeSeriesMetadata, data []*m.ClosePrice) (int64, error)
}

// LoadPriceSeries gets the closes of every ticker, from the store when it
// already covers the range and from the provider otherwise, then aligns them.
// Any failure aborts the load.
func (sc *ServiceContext) LoadPriceSeries() (*PriceSeries, error) {
	start := time.Now()
	sc.Logger.Info("loading price series",
		zap.Strings("tickers", sc.Tickers),
		zap.String("start", ex.FmtShort(sc.Start)),
		zap.String("end", ex.FmtShort(sc.End)),
		zap.String("provider", sc.Provider.Name()))

	closes, err := sc.fetchAll(false)
	if err != nil {
		return nil, err
	}

	series, err := NewPriceSeries(sc.Tickers, closes)
	if err != nil {
		return nil, fmt.Errorf("error aligning price series: %w", err)
	}

	sc.Logger.Info("price series loaded",
		zap.Int("rows", series.Len()),
		zap.String("first", ex.FmtShort(series.Dates[0])),
		zap.String("last", ex.FmtShort(series.Dates[series.Len()-1])),
		zap.Duration("elapsed", time.Since(start)))

	return series, nil
}

// SyncPriceSeries downloads every ticker from the provider and replaces what is stored
func (sc *ServiceContext) SyncPriceSeries() (map[string]int, error) {
	if sc.Store == nil {
		return nil, fmt.Errorf("sync needs a database, set DATABASE_URL")
	}

	closes, err := sc.fetchAll(true)
	if err != nil {
		return nil, err
	}

	res := make(map[string]int, len(closes))
	for symbol, c := range closes {
		res[symbol] = len(c)
	}
	return res, nil
}

func (sc *ServiceContext) fetchAll(forceDownload bool) (map[string][]*m.ClosePrice, error) {
	var mu sync.Mutex
	closes := make(map[string][]*m.ClosePrice, len(sc.Tickers))

	g, ctx := errgroup.WithContext(sc.Context)
	g.SetLimit(max(sc.FetchConcurrency, 1))

	for _, symbol := range sc.Tickers {
		g.Go(func() error {
			res, err := sc.loadSymbol(ctx, symbol, forceDownload)
			if err != nil {
				return err
			}

			mu.Lock()
			closes[symbol] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return closes, nil
}

func (sc *ServiceContext) loadSymbol(ctx context.Context, symbol string, forceDownload bool) ([]*m.ClosePrice, error) {
	if sc.Store != nil && !forceDownload {
		md, err := sc.Store.GetMetaDataBySymbol(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("error determining if meta data exists for %s: %w", symbol, err)
		}

		if md != nil && md.Covers(sc.Start, sc.End) {
			res, err := sc.Store.GetClosePrices(ctx, symbol, sc.Start, sc.End)
			if err != nil {
				return nil, fmt.Errorf("error reading stored closes for %s: %w", symbol, err)
			}
			sc.Logger.Debug("using stored closes", zap.String("symbol", symbol), zap.Int("rows", len(res)))
			return res, nil
		}
	}

	res, err := sc.Provider.GetDailyCloses(ctx, symbol, sc.Start, sc.End)
	if err != nil {
		return nil, fmt.Errorf("error downloading %s from %s: %w", symbol, sc.Provider.Name(), err)
	}
	sc.Logger.Info("downloaded closes", zap.String("symbol", symbol), zap.Int("rows", len(res)))

	if sc.Store == nil {
		return res, nil
	}

	md := &m.TimeSeriesMetadata{
		Symbol:        symbol,
		Provider:      sc.Provider.Name(),
		RangeStart:    sc.Start,
		RangeEnd:      sc.End,
		LastRefreshed: time.Now().UTC(),
	}

	ra, err := sc.Store.ReplaceClosePrices(ctx, md, res)
	if err != nil {
		return nil, fmt.Errorf("error storing closes for %s: %w", symbol, err)
	}
	sc.Logger.Debug("stored closes",
		zap.String("symbol", symbol),
		zap.Int64("rows", ra),
		zap.String("refreshed", ex.FmtLong(md.LastRefreshed)))

	return res, nil
}
