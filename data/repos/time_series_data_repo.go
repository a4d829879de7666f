package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	m "stockdash/data/models"
	q "stockdash/data/queries"
)

const closeTable = "price_series_close"

// GetClosePrices returns the stored closes for symbol in [start, end), oldest first
func (pg *Postgres) GetClosePrices(ctx context.Context, symbol string, start, end time.Time) ([]*m.ClosePrice, error) {
	args := pgx.NamedArgs{
		"symbol": symbol,
		"start":  start,
		"end":    end,
	}

	res, err := Query[m.ClosePrice](ctx, pg, q.Get(q.QueryHelper.Select.ClosePrices), args)
	if err != nil {
		return nil, fmt.Errorf("unable to query close prices by symbol (%s): %w", symbol, err)
	}
	return res, nil
}

// ReplaceClosePrices swaps every stored close of the metadata's symbol for data
// and refreshes the metadata, all in one transaction
func (pg *Postgres) ReplaceClosePrices(ctx context.Context, metadata *m.TimeSeriesMetadata, data []*m.ClosePrice) (int64, error) {
	tx, err := pg.GetTransaction(ctx)
	if err != nil {
		return 0, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) // this will kick off if we return before committing

	if err := pg.UpsertMetaData(ctx, metadata, tx); err != nil {
		return 0, err
	}

	args := pgx.NamedArgs{"source_id": metadata.Id}
	if _, err := tx.Exec(ctx, q.Get(q.QueryHelper.Delete.ClosePricesBySourceId), args); err != nil {
		return 0, fmt.Errorf("error clearing close prices for %s: %w", metadata.Symbol, err)
	}

	columns := []string{"source_id", "timestamp", "close"}
	entries := make([][]any, len(data))
	for i, ent := range data {
		entries[i] = []any{metadata.Id, ent.Timestamp, ent.Close.Ptr()}
	}

	ra, err := pg.BulkInsert(ctx, closeTable, columns, entries, tx)
	if err != nil {
		return 0, fmt.Errorf("error inserting close prices for %s: %w", metadata.Symbol, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("error committing close prices for %s: %w", metadata.Symbol, err)
	}

	return ra, nil
}
