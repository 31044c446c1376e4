package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"hiqsync/internal/cache"
	"hiqsync/internal/fetch"
	"hiqsync/internal/model"
	"hiqsync/internal/retry"
	"hiqsync/internal/watermark"
)

// marginSyncer is one shard of the stock_margin syncer: same per-code
// watermark loop as barSyncer, but the fetch call takes no name/freq and
// the persisted row shape is StockMargin rather than Bar. Ported from
// stock_margin.rs; margin eligibility (is_margin) is already applied one
// layer up when the shard is built, matching prepare_heavy_syncer.
type marginSyncer struct {
	db    *mongodriver.Database
	cache *cache.ReferenceCache
	fetch fetch.Fetcher
	shard []model.StockInfo
	taskN int
	log   zerolog.Logger
}

func newMarginSyncer(db *mongodriver.Database, c *cache.ReferenceCache, f fetch.Fetcher, shard []model.StockInfo, taskN int, log zerolog.Logger) *marginSyncer {
	return &marginSyncer{db: db, cache: c, fetch: f, shard: shard, taskN: taskN, log: log.With().Int("task", taskN).Logger()}
}

func (s *marginSyncer) Name() string { return "stock_margin" }

func (s *marginSyncer) Fetch(ctx context.Context, tx chan<- model.SyncData) error {
	for _, info := range s.shard {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		latest, found, err := queryOne[model.StockMargin](ctx, s.db, TabStockMargin, bson.D{{Key: "code", Value: info.Code}}, bson.D{{Key: "trade_date", Value: -1}})
		if err != nil {
			return fmt.Errorf("stock_margin: watermark probe for %s: %w", info.Code, err)
		}

		var latestPtr *time.Time
		if found {
			t := latestToTime(latest.TradeDate)
			latestPtr = &t
		}
		start := watermark.Start(latestPtr, s.cache.NextTradeDate)

		if !watermark.NeedToStart(start, time.Now()) {
			continue
		}

		v, err := retry.Do(ctx, func() (any, error) {
			return s.fetch.FetchStockMargin(ctx, info.Code, &start, nil)
		})
		if err != nil {
			return fmt.Errorf("stock_margin: fetch %s: %w", info.Code, err)
		}
		rows, _ := v.([]model.StockMargin)
		if len(rows) == 0 {
			continue
		}

		select {
		case tx <- model.StockMarginData{Rows: rows}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *marginSyncer) Save(ctx context.Context, data model.SyncData) error {
	d, ok := data.(model.StockMarginData)
	if !ok || len(d.Rows) == 0 {
		return nil
	}
	s.log.Info().Str("code", d.Rows[0].Code).Int("size", len(d.Rows)).Msg("saving stock_margin")
	return insertMany(ctx, s.db, TabStockMargin, d.Rows, false)
}
