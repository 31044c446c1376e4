package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"hiqsync/internal/fetch"
	"hiqsync/internal/model"
	"hiqsync/internal/retry"
)

// stockIndexSyncer has no watermark: it fetches today's full code->valuation
// row map and replaces the whole collection every run, since the upstream
// source only ever exposes the current snapshot. Ported from
// stock_index.rs.
type stockIndexSyncer struct {
	db    *mongodriver.Database
	fetch fetch.Fetcher
	log   zerolog.Logger
}

func newStockIndexSyncer(db *mongodriver.Database, f fetch.Fetcher, log zerolog.Logger) *stockIndexSyncer {
	return &stockIndexSyncer{db: db, fetch: f, log: log}
}

func (s *stockIndexSyncer) Name() string { return "stock_index" }

func (s *stockIndexSyncer) Fetch(ctx context.Context, tx chan<- model.SyncData) error {
	v, err := retry.Do(ctx, func() (any, error) {
		return s.fetch.FetchStockIndex(ctx, nil)
	})
	if err != nil {
		return fmt.Errorf("stock_index: %w", err)
	}
	m, _ := v.(map[string]model.StockIndex)
	if len(m) == 0 {
		return nil
	}

	rows := make([]model.StockIndex, 0, len(m))
	for code, row := range m {
		row.Code = code
		rows = append(rows, row)
	}

	select {
	case tx <- model.StockIndexData{Rows: rows}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *stockIndexSyncer) Save(ctx context.Context, data model.SyncData) error {
	d, ok := data.(model.StockIndexData)
	if !ok || len(d.Rows) == 0 {
		return nil
	}
	s.log.Info().Int("size", len(d.Rows)).Msg("replacing stock_index snapshot")
	return insertMany(ctx, s.db, TabStockIndex, d.Rows, true)
}
