package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"hiqsync/internal/cache"
	"hiqsync/internal/model"
	"hiqsync/internal/retry"
)

// tradeDateRow is the persisted shape of one trade_date document.
type tradeDateRow struct {
	TradeDate int `bson:"trade_date"`
}

// tradeDateSyncer is the one info-style syncer that still behaves as
// append-only: it reads the full cached trade-date set, diffs against the
// persisted maximum, and appends only the dates beyond it. Ported from
// trade_date.rs.
type tradeDateSyncer struct {
	db    *mongodriver.Database
	cache *cache.ReferenceCache
	log   zerolog.Logger
}

func newTradeDateSyncer(db *mongodriver.Database, c *cache.ReferenceCache, log zerolog.Logger) *tradeDateSyncer {
	return &tradeDateSyncer{db: db, cache: c, log: log}
}

func (s *tradeDateSyncer) Name() string { return "trade_date" }

func (s *tradeDateSyncer) Fetch(ctx context.Context, tx chan<- model.SyncData) error {
	v, err := retry.Do(ctx, func() (any, error) {
		latest, found, err := queryOne[tradeDateRow](ctx, s.db, TabTradeDate, bson.D{}, bson.D{{Key: "trade_date", Value: -1}})
		if err != nil {
			return nil, err
		}
		maxDate := 19700101
		if found {
			maxDate = latest.TradeDate
		}

		all := s.cache.TradeDates()
		out := make([]int, 0, len(all))
		for _, d := range all {
			if d > maxDate {
				out = append(out, d)
			}
		}
		return out, nil
	})
	if err != nil {
		return fmt.Errorf("trade_date: %w", err)
	}

	dates := v.([]int)
	if len(dates) == 0 {
		return nil
	}
	select {
	case tx <- model.TradeDateData{Dates: dates}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *tradeDateSyncer) Save(ctx context.Context, data model.SyncData) error {
	d, ok := data.(model.TradeDateData)
	if !ok || len(d.Dates) == 0 {
		return nil
	}
	rows := make([]tradeDateRow, len(d.Dates))
	for i, date := range d.Dates {
		rows[i] = tradeDateRow{TradeDate: date}
	}
	s.log.Info().Int("size", len(rows)).Msg("saving trade_date")
	return insertMany(ctx, s.db, TabTradeDate, rows, false)
}
