package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"hiqsync/internal/fetch"
	"hiqsync/internal/model"
	"hiqsync/internal/retry"
	"hiqsync/internal/watermark"
)

type yjbbRow struct {
	Year   int `bson:"year"`
	Season int `bson:"season"`
}

// yjbbSyncer enumerates missing (year, season) pairs from the latest
// persisted one, fetches each, and appends only codes not already persisted
// for that season. Ported from stock_yjbb.rs.
type yjbbSyncer struct {
	db    *mongodriver.Database
	fetch fetch.Fetcher
	log   zerolog.Logger
}

func newYJBBSyncer(db *mongodriver.Database, f fetch.Fetcher, log zerolog.Logger) *yjbbSyncer {
	return &yjbbSyncer{db: db, fetch: f, log: log}
}

func (s *yjbbSyncer) Name() string { return "stock_yjbb" }

func (s *yjbbSyncer) Fetch(ctx context.Context, tx chan<- model.SyncData) error {
	latest, found, err := queryOne[yjbbRow](ctx, s.db, TabStockYJBB, bson.D{}, bson.D{{Key: "year", Value: -1}, {Key: "season", Value: -1}})
	if err != nil {
		return fmt.Errorf("stock_yjbb: latest season probe: %w", err)
	}

	var season *watermark.Season
	if found {
		season = &watermark.Season{Year: latest.Year, Season: latest.Season}
	}
	seasons := watermark.YJBBSeasons(season, time.Now().Year())

	for _, sn := range seasons {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		v, err := retry.Do(ctx, func() (any, error) {
			return s.fetch.FetchStockYJBB(ctx, sn.Year, sn.Season)
		})
		if err != nil {
			return fmt.Errorf("stock_yjbb: fetch %d/%d: %w", sn.Year, sn.Season, err)
		}
		fetched, _ := v.([]model.StockYJBB)
		if len(fetched) == 0 {
			continue
		}

		existing, err := existingCodes(ctx, s.db, TabStockYJBB, bson.D{{Key: "year", Value: sn.Year}, {Key: "season", Value: sn.Season}}, "code")
		if err != nil {
			return fmt.Errorf("stock_yjbb: existing codes for %d/%d: %w", sn.Year, sn.Season, err)
		}

		fresh := make([]model.StockYJBB, 0, len(fetched))
		for _, row := range fetched {
			if _, ok := existing[row.Code]; !ok {
				fresh = append(fresh, row)
			}
		}
		if len(fresh) == 0 {
			continue
		}

		select {
		case tx <- model.StockYJBBData{Rows: fresh}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *yjbbSyncer) Save(ctx context.Context, data model.SyncData) error {
	d, ok := data.(model.StockYJBBData)
	if !ok || len(d.Rows) == 0 {
		return nil
	}
	s.log.Info().Int("size", len(d.Rows)).Msg("saving stock_yjbb")
	return insertMany(ctx, s.db, TabStockYJBB, d.Rows, false)
}
