package core

import (
	"context"
	"time"

	"stockdash/service/api"
	"stockdash/service/logger"
)

type ServiceContext struct {
	Context          context.Context
	Logger           *logger.Logger
	Provider         api.Provider
	Store            PriceStore // nil when prices are not persisted
	Tickers          []string
	Start            time.Time
	End              time.Time
	FetchConcurrency int
}
