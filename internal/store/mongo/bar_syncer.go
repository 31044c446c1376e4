package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"hiqsync/internal/cache"
	"hiqsync/internal/model"
	"hiqsync/internal/retry"
	"hiqsync/internal/watermark"
)

// codeRef is the minimal (code, name) pair a bar syncer iterates.
type codeRef struct {
	Code string
	Name string
}

// barSyncer is the shape shared by every *_daily dataset: iterate a code
// set, watermark each one against its own persisted max trade_date, skip
// codes whose next start fails need_to_start, fetch with retry, append.
// Ported from stock_daily.rs (the canonical instance); bond_daily.rs,
// fund_daily.rs, index_daily.rs, stock_industry_daily.rs, and
// stock_concept_daily.rs are the same shape with a different code source,
// collection, and fetch call.
type barSyncer struct {
	name       string
	collection string
	db         *mongodriver.Database
	cache      *cache.ReferenceCache
	taskN      int
	codes      func(ctx context.Context) ([]codeRef, error)
	fetchOne   func(ctx context.Context, code, name string, start, end *time.Time) ([]model.Bar, error)
	wrap       func([]model.Bar) model.SyncData
	unwrap     func(model.SyncData) []model.Bar
	log        zerolog.Logger
}

func (s *barSyncer) Name() string { return s.name }

func (s *barSyncer) Fetch(ctx context.Context, tx chan<- model.SyncData) error {
	codes, err := s.codes(ctx)
	if err != nil {
		return fmt.Errorf("%s: list codes: %w", s.name, err)
	}

	for _, c := range codes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		latest, found, err := queryOne[model.Bar](ctx, s.db, s.collection, bson.D{{Key: "code", Value: c.Code}}, bson.D{{Key: "trade_date", Value: -1}})
		if err != nil {
			return fmt.Errorf("%s: watermark probe for %s: %w", s.name, c.Code, err)
		}

		var latestPtr *time.Time
		if found {
			t := latestToTime(latest.TradeDate)
			latestPtr = &t
		}
		start := watermark.Start(latestPtr, s.cache.NextTradeDate)
		startPtr := &start

		if !watermark.NeedToStart(*startPtr, time.Now()) {
			s.log.Debug().Str("code", c.Code).Str("task", s.name).Msg("up to date, skipping")
			continue
		}

		v, err := retry.Do(ctx, func() (any, error) {
			return s.fetchOne(ctx, c.Code, c.Name, startPtr, nil)
		})
		if err != nil {
			return fmt.Errorf("%s: fetch %s: %w", s.name, c.Code, err)
		}
		bars, _ := v.([]model.Bar)
		if len(bars) == 0 {
			continue
		}

		select {
		case tx <- s.wrap(bars):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *barSyncer) Save(ctx context.Context, data model.SyncData) error {
	bars := s.unwrap(data)
	if len(bars) == 0 {
		return nil
	}
	s.log.Info().Str("code", bars[0].Code).Int("size", len(bars)).Str("task", s.name).Msg("saving bars")
	return insertMany(ctx, s.db, s.collection, bars, false)
}

func latestToTime(tradeDate int) time.Time {
	year := tradeDate / 10000
	month := (tradeDate / 100) % 100
	day := tradeDate % 100
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
