package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// TimeSeriesMetadata tracks what has been downloaded for a symbol, so the
// stored closes can be reused when they cover the requested range
type TimeSeriesMetadata struct {
	Id            int32     `db:"id"`
	Symbol        string    `db:"symbol"`
	Provider      string    `db:"provider"`
	RangeStart    time.Time `db:"range_start"`
	RangeEnd      time.Time `db:"range_end"`
	LastRefreshed time.Time `db:"last_refreshed"`
}

// Covers reports if the stored range contains [start, end)
func (md *TimeSeriesMetadata) Covers(start, end time.Time) bool {
	return !md.RangeStart.After(start) && !md.RangeEnd.Before(end)
}

// ClosePrice is a single daily close, missing closes are kept as invalid
type ClosePrice struct {
	SourceId  int32      `db:"source_id"`
	Symbol    string     `db:"symbol"`
	Timestamp time.Time  `db:"timestamp"`
	Close     null.Float `db:"close"`
}
