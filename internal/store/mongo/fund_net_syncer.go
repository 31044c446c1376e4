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

// fundNetSyncer is the same per-code watermark loop as barSyncer, but
// fetches net-asset-value rows (no freq/adjust parameters) rather than OHLCV
// bars. Ported from fund_net.rs.
type fundNetSyncer struct {
	db    *mongodriver.Database
	cache *cache.ReferenceCache
	fetch fetch.Fetcher
	log   zerolog.Logger
}

func newFundNetSyncer(db *mongodriver.Database, c *cache.ReferenceCache, f fetch.Fetcher, log zerolog.Logger) *fundNetSyncer {
	return &fundNetSyncer{db: db, cache: c, fetch: f, log: log}
}

func (s *fundNetSyncer) Name() string { return "fund_net" }

func (s *fundNetSyncer) Fetch(ctx context.Context, tx chan<- model.SyncData) error {
	for _, info := range s.cache.FundInfo() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		latest, found, err := queryOne[model.FundNet](ctx, s.db, TabFundNet, bson.D{{Key: "code", Value: info.Code}}, bson.D{{Key: "trade_date", Value: -1}})
		if err != nil {
			return fmt.Errorf("fund_net: watermark probe for %s: %w", info.Code, err)
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
			return s.fetch.FetchFundNet(ctx, info.Code, info.Name, &start, nil)
		})
		if err != nil {
			return fmt.Errorf("fund_net: fetch %s: %w", info.Code, err)
		}
		rows, _ := v.([]model.FundNet)
		if len(rows) == 0 {
			continue
		}

		select {
		case tx <- model.FundNetData{Rows: rows}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *fundNetSyncer) Save(ctx context.Context, data model.SyncData) error {
	d, ok := data.(model.FundNetData)
	if !ok || len(d.Rows) == 0 {
		return nil
	}
	s.log.Info().Str("code", d.Rows[0].Code).Int("size", len(d.Rows)).Msg("saving fund_net")
	return insertMany(ctx, s.db, TabFundNet, d.Rows, false)
}
