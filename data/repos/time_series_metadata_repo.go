package repos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	m "stockdash/data/models"
	q "stockdash/data/queries"
)

// GetMetaDataBySymbol returns nil, nil when the symbol has never been stored
func (pg *Postgres) GetMetaDataBySymbol(ctx context.Context, symbol string) (*m.TimeSeriesMetadata, error) {
	args := pgx.NamedArgs{
		"symbol": symbol,
	}

	res, err := Query[m.TimeSeriesMetadata](ctx, pg, q.Get(q.QueryHelper.Select.MetaDataBySymbol), args)
	if err != nil {
		return nil, fmt.Errorf("unable to query metadata by symbol (%s): %w", symbol, err)
	}

	if len(res) == 0 {
		return nil, nil
	}

	return res[0], nil
}

// UpsertMetaData inserts or refreshes the metadata row and sets metadata.Id
func (pg *Postgres) UpsertMetaData(ctx context.Context, metadata *m.TimeSeriesMetadata, tx pgx.Tx) error {
	args := pgx.NamedArgs{
		"symbol":         metadata.Symbol,
		"provider":       metadata.Provider,
		"range_start":    metadata.RangeStart,
		"range_end":      metadata.RangeEnd,
		"last_refreshed": metadata.LastRefreshed,
	}

	query := q.Get(q.QueryHelper.Upsert.MetaData)

	var err error
	if tx == nil {
		err = pg.db.QueryRow(ctx, query, args).Scan(&metadata.Id)
	} else {
		err = tx.QueryRow(ctx, query, args).Scan(&metadata.Id)
	}

	if err != nil {
		return fmt.Errorf("error upserting metadata for %s: %w", metadata.Symbol, err)
	}

	return nil
}
