package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	m "stockdash/data/models"
	"stockdash/service/logger"
)

type mockProvider struct {
	mock.Mock
}

func (p *mockProvider) Name() string {
	return "mock"
}

func (p *mockProvider) GetDailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]*m.ClosePrice, error) {
	args := p.Called(symbol, start, end)
	res, _ := args.Get(0).([]*m.ClosePrice)
	return res, args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (s *mockStore) GetMetaDataBySymbol(ctx context.Context, symbol string) (*m.TimeSeriesMetadata, error) {
	args := s.Called(symbol)
	res, _ := args.Get(0).(*m.TimeSeriesMetadata)
	return res, args.Error(1)
}

func (s *mockStore) GetClosePrices(ctx context.Context, symbol string, start, end time.Time) ([]*m.ClosePrice, error) {
	args := s.Called(symbol, start, end)
	res, _ := args.Get(0).([]*m.ClosePrice)
	return res, args.Error(1)
}

func (s *mockStore) ReplaceClosePrices(ctx context.Context, metadata *m.TimeSeriesMetadata, data []*m.ClosePrice) (int64, error) {
	args := s.Called(metadata, data)
	return int64(args.Int(0)), args.Error(1)
}

func newTestServiceContext(provider *mockProvider, store PriceStore) *ServiceContext {
	return &ServiceContext{
		Context:          context.Background(),
		Logger:           logger.NewNop(),
		Provider:         provider,
		Store:            store,
		Tickers:          testUniverse,
		Start:            day(0),
		End:              day(10),
		FetchConcurrency: 2,
	}
}

func TestLoadPriceSeries_WithoutStore(t *testing.T) {
	provider := new(mockProvider)
	for symbol, closes := range testCloses() {
		provider.On("GetDailyCloses", symbol, day(0), day(10)).Return(closes, nil).Once()
	}

	series, err := newTestServiceContext(provider, nil).LoadPriceSeries()
	require.NoError(t, err)

	assert.Equal(t, testUniverse, series.Symbols)
	assert.Equal(t, 3, series.Len())
	provider.AssertExpectations(t)
}

func TestLoadPriceSeries_UsesStoreWhenRangeIsCovered(t *testing.T) {
	provider := new(mockProvider)
	store := new(mockStore)

	for symbol, closes := range testCloses() {
		md := &m.TimeSeriesMetadata{Symbol: symbol, RangeStart: day(0), RangeEnd: day(30)}
		store.On("GetMetaDataBySymbol", symbol).Return(md, nil).Once()
		store.On("GetClosePrices", symbol, day(0), day(10)).Return(closes, nil).Once()
	}

	series, err := newTestServiceContext(provider, store).LoadPriceSeries()
	require.NoError(t, err)

	assert.Equal(t, 3, series.Len())
	store.AssertExpectations(t)
	provider.AssertNotCalled(t, "GetDailyCloses", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "ReplaceClosePrices", mock.Anything, mock.Anything)
}

func TestLoadPriceSeries_DownloadsAndStoresStaleSymbols(t *testing.T) {
	provider := new(mockProvider)
	store := new(mockStore)
	closes := testCloses()

	// AAPL is stored for a shorter range, GOOG was never stored
	store.On("GetMetaDataBySymbol", "AAPL").Return(&m.TimeSeriesMetadata{Symbol: "AAPL", RangeStart: day(0), RangeEnd: day(5)}, nil).Once()
	store.On("GetMetaDataBySymbol", "GOOG").Return(nil, nil).Once()
	store.On("GetMetaDataBySymbol", "MSFT").Return(&m.TimeSeriesMetadata{Symbol: "MSFT", RangeStart: day(0), RangeEnd: day(10)}, nil).Once()
	store.On("GetClosePrices", "MSFT", day(0), day(10)).Return(closes["MSFT"], nil).Once()

	for _, symbol := range []string{"AAPL", "GOOG"} {
		provider.On("GetDailyCloses", symbol, day(0), day(10)).Return(closes[symbol], nil).Once()
		store.On("ReplaceClosePrices", mock.MatchedBy(func(md *m.TimeSeriesMetadata) bool {
			return md.Symbol == symbol && md.Provider == "mock" && md.Covers(day(0), day(10))
		}), closes[symbol]).Return(len(closes[symbol]), nil).Once()
	}

	series, err := newTestServiceContext(provider, store).LoadPriceSeries()
	require.NoError(t, err)

	assert.Equal(t, 3, series.Len())
	provider.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestLoadPriceSeries_DownloadErrorAborts(t *testing.T) {
	provider := new(mockProvider)
	closes := testCloses()
	provider.On("GetDailyCloses", "AAPL", mock.Anything, mock.Anything).Return(closes["AAPL"], nil).Maybe()
	provider.On("GetDailyCloses", "GOOG", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited")).Once()
	provider.On("GetDailyCloses", "MSFT", mock.Anything, mock.Anything).Return(closes["MSFT"], nil).Maybe()

	_, err := newTestServiceContext(provider, nil).LoadPriceSeries()
	require.Error(t, err)
	assert.ErrorContains(t, err, "GOOG")
	assert.ErrorContains(t, err, "rate limited")
}

func TestLoadPriceSeries_StoreErrorAborts(t *testing.T) {
	provider := new(mockProvider)
	store := new(mockStore)
	store.On("GetMetaDataBySymbol", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := newTestServiceContext(provider, store).LoadPriceSeries()
	assert.ErrorContains(t, err, "connection refused")
	provider.AssertNotCalled(t, "GetDailyCloses", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadPriceSeries_NothingAligned(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GetDailyCloses", "AAPL", mock.Anything, mock.Anything).Return(closesOf("AAPL", 1, 2), nil)
	provider.On("GetDailyCloses", "GOOG", mock.Anything, mock.Anything).Return([]*m.ClosePrice{}, nil)
	provider.On("GetDailyCloses", "MSFT", mock.Anything, mock.Anything).Return(closesOf("MSFT", 1, 2), nil)

	_, err := newTestServiceContext(provider, nil).LoadPriceSeries()
	assert.Error(t, err)
}

func TestSyncPriceSeries(t *testing.T) {
	provider := new(mockProvider)
	store := new(mockStore)

	for symbol, closes := range testCloses() {
		provider.On("GetDailyCloses", symbol, day(0), day(10)).Return(closes, nil).Once()
		store.On("ReplaceClosePrices", mock.Anything, closes).Return(len(closes), nil).Once()
	}

	counts, err := newTestServiceContext(provider, store).SyncPriceSeries()
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"AAPL": 3, "GOOG": 3, "MSFT": 3}, counts)
	store.AssertNotCalled(t, "GetMetaDataBySymbol", mock.Anything)
	provider.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestSyncPriceSeries_NeedsStore(t *testing.T) {
	_, err := newTestServiceContext(new(mockProvider), nil).SyncPriceSeries()
	assert.Error(t, err)
}
