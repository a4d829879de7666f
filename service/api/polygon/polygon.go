package polygon

import (
	"context"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	e "stockdash/data/extensions"
	m "stockdash/data/models"
	c "stockdash/service/api"
)

const (
	ProviderName = "polygon"

	// daily bars for a decade fit in one page, the iterator follows next_url otherwise
	pageLimit = 50000
)

// AggsIterator is the part of the rest iterator the client reads
type AggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// AggsLister lists aggregate bars, implemented over *polygon.Client by restAggsLister
type AggsLister interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) AggsIterator
}

type restAggsLister struct {
	client *polygon.Client
}

func (l restAggsLister) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) AggsIterator {
	return l.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	aggs AggsLister
}

func NewPolygonClient(apiKey string) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	return NewPolygonClientWithLister(restAggsLister{client: polygon.New(apiKey)}), nil
}

func NewPolygonClientWithLister(aggs AggsLister) *PolygonClient {
	return &PolygonClient{aggs: aggs}
}

func (pc *PolygonClient) Name() string {
	return ProviderName
}

// GetDailyCloses lists split adjusted daily aggregates of ticker in [start, end), oldest first
func (pc *PolygonClient) GetDailyCloses(ctx context.Context, ticker string, start, end time.Time) ([]*m.ClosePrice, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithAdjusted(true).WithOrder(models.Asc).WithLimit(pageLimit)

	// bars are stamped at the New York session start, so To is left at end
	// and the end day itself is dropped by the range filter below
	iter := pc.aggs.ListAggs(ctx, params)

	var res []*m.ClosePrice
	for iter.Next() {
		agg := iter.Item()
		res = append(res, toClosePrice(ticker, agg))
	}

	if iter.Err() != nil {
		return nil, fmt.Errorf("error iterating polygon aggregates for %s: %w", ticker, iter.Err())
	}

	inRange := func(p *m.ClosePrice) bool { return c.InRange(p.Timestamp, start, end) }
	return e.FilterMultiplePtr(res, inRange), nil
}

// toClosePrice converts a bar to a close on its trading date, polygon stamps
// daily bars at the session start in New York so the date is taken from there
func toClosePrice(ticker string, agg models.Agg) *m.ClosePrice {
	ts := time.Time(agg.Timestamp).In(newYork)
	return &m.ClosePrice{
		Symbol:    ticker,
		Timestamp: time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
		Close:     null.FloatFrom(agg.Close),
	}
}

var newYork = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()
