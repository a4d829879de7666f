package api

import (
	"context"
	"time"

	m "stockdash/data/models"
)

// Provider downloads daily closing prices for a symbol over [start, end)
type Provider interface {
	Name() string
	GetDailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]*m.ClosePrice, error)
}

// InRange reports if t falls in [start, end)
func InRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
