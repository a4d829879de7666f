package alpha_vantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	e "stockdash/data/extensions"
	m "stockdash/data/models"
	c "stockdash/service/api"
)

// public
const (
	HostDefault  = "www.alphavantage.co"
	ProviderName = "alphavantage"
)

// private
const (
	// default query parameters
	defaultOutputSize = "full"
	defaultDataType   = "json"
	defaultTimeout    = time.Second * 30

	// api request elements
	query    = "query"
	symbol   = "symbol"
	function = "function"

	dailyFunction = "TIME_SERIES_DAILY"
	dailyKey      = "Time Series (Daily)"
)

var (
	timeSeriesDateFormats = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
	}

	// alpha vantage answers 200 with one of these instead of data on bad symbols or throttling
	errorKeys = []string{"Error Message", "Note", "Information"}
)

type AlphaVantageClient struct {
	*c.Client
}

func GetClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{
		c.ClientFactory(HostDefault, apiKey, defaultTimeout),
	}
}

func (avc *AlphaVantageClient) Name() string {
	return ProviderName
}

// GetDailyCloses returns the daily closes of ticker in [start, end), oldest first
// https://www.alphavantage.co/documentation/#daily
func (avc *AlphaVantageClient) GetDailyCloses(ctx context.Context, ticker string, start, end time.Time) ([]*m.ClosePrice, error) {
	if avc == nil {
		panic("alpha vantage client has not been set.")
	}

	endpoint := avc.buildRequestPath(map[string]string{
		function: dailyFunction,
		symbol:   ticker,
	})

	response, err := avc.Client.Connection.Request(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("error requesting %s from alpha vantage: %w", ticker, err)
	}

	defer response.Body.Close()

	raw, err := parseRawJson(response.Body)
	if err != nil {
		return nil, err
	}

	metaData, err := parseMetaData(raw)
	if err != nil {
		return nil, err
	}

	closes, err := parseDailyCloses(raw, metaData.Symbol, dailyKey)
	if err != nil {
		return nil, err
	}

	inRange := func(p *m.ClosePrice) bool { return c.InRange(p.Timestamp, start, end) }
	return e.FilterMultiplePtr(closes, inRange), nil
}

func (avc *AlphaVantageClient) buildRequestPath(params map[string]string) *url.URL {
	// build our URL
	endpoint := &url.URL{}
	endpoint.Path = query

	// base parameters
	query := endpoint.Query()
	query.Set("apikey", avc.Client.ApiKey)
	query.Set("datatype", defaultDataType)
	query.Set("outputsize", defaultOutputSize)

	// additional parameters
	for key, value := range params {
		query.Set(key, value)
	}

	endpoint.RawQuery = query.Encode()

	return endpoint
}

func parseRawJson(reader io.Reader) (raw map[string]json.RawMessage, err error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	// converting to a <string, raw message> map
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	for _, key := range errorKeys {
		if msg, ok := raw[key]; ok {
			return nil, fmt.Errorf("alpha vantage returned %s: %s", strings.ToLower(key), string(msg))
		}
	}

	return
}

func parseMetaData(raw map[string]json.RawMessage) (*m.TimeSeriesMetadata, error) {
	var metadataElements map[string]string
	if err := json.Unmarshal(raw["Meta Data"], &metadataElements); err != nil {
		return nil, fmt.Errorf("error unmarshaling meta data: %w", err)
	}

	metaDataKeys := slices.Collect(maps.Keys(metadataElements))

	// parse symbol
	sf := func(s string) bool { return strings.HasSuffix(s, ". Symbol") }
	symbolKey, err := e.FilterSingle(metaDataKeys, sf)
	if err != nil {
		return nil, fmt.Errorf("error extracting symbol for meta data")
	}

	// parse time zone
	tzf := func(s string) bool { return strings.HasSuffix(s, ". Time Zone") }
	timeZoneKey, err := e.FilterSingle(metaDataKeys, tzf)
	if err != nil {
		return nil, fmt.Errorf("error extracting time zone for meta data")
	}

	timeZone, err := getTimeZone(metadataElements[timeZoneKey])
	if err != nil {
		return nil, fmt.Errorf("error converting time zone key %s, to time.Location: %w", metadataElements[timeZoneKey], err)
	}

	// parse last refreshed
	lrf := func(s string) bool { return strings.HasSuffix(s, ". Last Refreshed") }
	lastRefreshedKey, err := e.FilterSingle(metaDataKeys, lrf)
	if err != nil {
		return nil, fmt.Errorf("error extracting last refreshed date")
	}

	lastRefreshed, err := parseDate(metadataElements[lastRefreshedKey], timeZone)
	if err != nil {
		return nil, fmt.Errorf("error parsing last refreshed date")
	}

	res := m.TimeSeriesMetadata{
		Symbol:        e.NormalizeSymbol(metadataElements[symbolKey]),
		Provider:      ProviderName,
		LastRefreshed: lastRefreshed,
	}

	return &res, nil
}

// parseDailyCloses reads the close of every day, trading dates are kept as UTC midnight
func parseDailyCloses(raw map[string]json.RawMessage, ticker, key string) ([]*m.ClosePrice, error) {
	var timeSeriesElements map[string]map[string]string
	if err := json.Unmarshal(raw[key], &timeSeriesElements); err != nil {
		return nil, fmt.Errorf("error unmarshaling time series: %w", err)
	}

	timeSeries := make([]*m.ClosePrice, 0, len(timeSeriesElements))
	closeKey := ""
	for timeSeriesKey, timeSeriesValue := range timeSeriesElements {
		if closeKey == "" {
			cf := func(s string) bool { return strings.HasSuffix(strings.ToLower(s), ". close") }
			k, err := e.FilterSingle(slices.Collect(maps.Keys(timeSeriesValue)), cf)
			if err != nil {
				return nil, fmt.Errorf("error extracting close key for time series. Available headers: %v", slices.Collect(maps.Keys(timeSeriesValue)))
			}
			closeKey = k
		}

		timestamp, err := parseDate(timeSeriesKey, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("error converting TIMESTAMP from string to time.Time: %w", err)
		}

		timeSeries = append(timeSeries, &m.ClosePrice{
			Symbol:    ticker,
			Timestamp: timestamp,
			Close:     parseFloat(timeSeriesValue[closeKey]),
		})
	}

	slices.SortFunc(timeSeries, func(a, b *m.ClosePrice) int { return a.Timestamp.Compare(b.Timestamp) })
	return timeSeries, nil
}

func getTimeZone(location string) (*time.Location, error) {
	var loc string
	switch strings.ToUpper(location) {
	case "US/EASTERN":
		loc = "America/New_York"
	default:
		return time.UTC, nil
	}

	res, err := time.LoadLocation(loc)
	if err != nil {
		return nil, fmt.Errorf("error parsing time zone %s in time.LoadLocation", loc)
	}

	return res, nil
}

func parseDate(dateString string, location *time.Location) (time.Time, error) {
	for _, format := range timeSeriesDateFormats {
		t, err := time.ParseInLocation(format, dateString, location)
		if err != nil {
			continue
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", dateString)
}

func parseFloat(val string) null.Float {
	if val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return null.FloatFrom(f)
		}
	}
	return null.Float{}
}
