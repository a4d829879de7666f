package main

import (
	"fmt"

	"stockdash/service/api"
	av "stockdash/service/api/alpha_vantage"
	"stockdash/service/api/csvfile"
	"stockdash/service/api/polygon"
	"stockdash/service/config"
)

func newProvider(cfg *config.Config) (api.Provider, error) {
	switch cfg.Provider {
	case config.ProviderAlphaVantage:
		return av.GetClient(cfg.AlphaVantageApiKey), nil
	case config.ProviderPolygon:
		return polygon.NewPolygonClient(cfg.PolygonApiKey)
	case config.ProviderCsv:
		return csvfile.NewCsvProvider(cfg.PricesCsv)
	default:
		return nil, fmt.Errorf("unknown market data provider %q", cfg.Provider)
	}
}
