package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"hiqsync/internal/cache"
	"hiqsync/internal/model"
	"hiqsync/internal/retry"
)

// infoSyncer is the syncer shape shared by stock_info, bond_info, fund_info,
// and index_info: the source is the already-populated reference cache, and
// every run emits one full snapshot that replaces the collection outright.
// Ported from stock_info.rs/index_info.rs/bond_info.rs/fund_info.rs, which
// are identical modulo which cache table and collection they touch.
type infoSyncer[T any] struct {
	name       string
	collection string
	db         *mongodriver.Database
	snapshot   func() []T
	wrap       func([]T) model.SyncData
	log        zerolog.Logger
}

func (s *infoSyncer[T]) Name() string { return s.name }

func (s *infoSyncer[T]) Fetch(ctx context.Context, tx chan<- model.SyncData) error {
	v, err := retry.Do(ctx, func() (any, error) {
		return s.snapshot(), nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	rows := v.([]T)
	if len(rows) == 0 {
		return nil
	}
	select {
	case tx <- s.wrap(rows):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *infoSyncer[T]) Save(ctx context.Context, data model.SyncData) error {
	rows := unwrapRows[T](data)
	if rows == nil {
		return nil
	}
	s.log.Info().Str("collection", s.collection).Int("size", len(rows)).Msg("saving info snapshot")
	return insertMany(ctx, s.db, s.collection, rows, true)
}

// unwrapRows type-asserts the payload slice out of one of the SyncData
// wrapper types via the concrete struct's single exported field. Each
// concrete wrapper type is handled explicitly in its constructor call site
// instead of reflection, keeping dispatch a plain type switch.
func unwrapRows[T any](data model.SyncData) []T {
	switch d := data.(type) {
	case model.StockInfoData:
		if rows, ok := any(d.Info).([]T); ok {
			return rows
		}
	case model.IndexInfoData:
		if rows, ok := any(d.Info).([]T); ok {
			return rows
		}
	case model.BondInfoData:
		if rows, ok := any(d.Info).([]T); ok {
			return rows
		}
	case model.FundInfoData:
		if rows, ok := any(d.Info).([]T); ok {
			return rows
		}
	}
	return nil
}

// newStockInfoSyncer, newBondInfoSyncer, newFundInfoSyncer, and
// newIndexInfoSyncer are identical aside from which cache table/collection
// they bind — matching the four near-duplicate Rust files they are ported
// from.

func newStockInfoSyncer(db *mongodriver.Database, c *cache.ReferenceCache, log zerolog.Logger) *infoSyncer[model.StockInfo] {
	return &infoSyncer[model.StockInfo]{
		name: "stock_info", collection: TabStockInfo, db: db, log: log,
		snapshot: c.StockInfo,
		wrap:     func(rows []model.StockInfo) model.SyncData { return model.StockInfoData{Info: rows} },
	}
}

func newIndexInfoSyncer(db *mongodriver.Database, c *cache.ReferenceCache, log zerolog.Logger) *infoSyncer[model.StockInfo] {
	return &infoSyncer[model.StockInfo]{
		name: "index_info", collection: TabIndexInfo, db: db, log: log,
		snapshot: c.IndexInfo,
		wrap:     func(rows []model.StockInfo) model.SyncData { return model.IndexInfoData{Info: rows} },
	}
}

func newBondInfoSyncer(db *mongodriver.Database, c *cache.ReferenceCache, log zerolog.Logger) *infoSyncer[model.BondInfo] {
	return &infoSyncer[model.BondInfo]{
		name: "bond_info", collection: TabBondInfo, db: db, log: log,
		snapshot: c.BondInfo,
		wrap:     func(rows []model.BondInfo) model.SyncData { return model.BondInfoData{Info: rows} },
	}
}

func newFundInfoSyncer(db *mongodriver.Database, c *cache.ReferenceCache, log zerolog.Logger) *infoSyncer[model.FundInfo] {
	return &infoSyncer[model.FundInfo]{
		name: "fund_info", collection: TabFundInfo, db: db, log: log,
		snapshot: c.FundInfo,
		wrap:     func(rows []model.FundInfo) model.SyncData { return model.FundInfoData{Info: rows} },
	}
}
