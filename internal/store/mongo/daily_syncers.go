package mongo

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"hiqsync/internal/cache"
	"hiqsync/internal/fetch"
	"hiqsync/internal/model"
)

func bondBarWrap(bars []model.Bar) model.SyncData { return model.BondBarData{Bars: bars} }
func bondBarUnwrap(d model.SyncData) []model.Bar {
	if v, ok := d.(model.BondBarData); ok {
		return v.Bars
	}
	return nil
}

func newBondDailySyncer(db *mongodriver.Database, c *cache.ReferenceCache, f fetch.Fetcher, log zerolog.Logger) *barSyncer {
	return &barSyncer{
		name: "bond_daily", collection: TabBondDaily, db: db, cache: c, log: log,
		codes: func(ctx context.Context) ([]codeRef, error) {
			return codeRefsFromBondInfo(c.BondInfo()), nil
		},
		fetchOne: func(ctx context.Context, code, name string, start, end *time.Time) ([]model.Bar, error) {
			return f.FetchBondBar(ctx, code, name, start, end, true)
		},
		wrap: bondBarWrap, unwrap: bondBarUnwrap,
	}
}

func fundBarWrap(bars []model.Bar) model.SyncData { return model.FundBarData{Bars: bars} }
func fundBarUnwrap(d model.SyncData) []model.Bar {
	if v, ok := d.(model.FundBarData); ok {
		return v.Bars
	}
	return nil
}

func newFundDailySyncer(db *mongodriver.Database, c *cache.ReferenceCache, f fetch.Fetcher, log zerolog.Logger) *barSyncer {
	return &barSyncer{
		name: "fund_daily", collection: TabFundDaily, db: db, cache: c, log: log,
		codes: func(ctx context.Context) ([]codeRef, error) {
			return codeRefsFromFundInfo(c.FundInfo()), nil
		},
		fetchOne: func(ctx context.Context, code, name string, start, end *time.Time) ([]model.Bar, error) {
			return f.FetchFundBar(ctx, code, name, start, end, true)
		},
		wrap: fundBarWrap, unwrap: fundBarUnwrap,
	}
}

func indexBarWrap(bars []model.Bar) model.SyncData { return model.IndexBarData{Bars: bars} }
func indexBarUnwrap(d model.SyncData) []model.Bar {
	if v, ok := d.(model.IndexBarData); ok {
		return v.Bars
	}
	return nil
}

func newIndexDailySyncer(db *mongodriver.Database, c *cache.ReferenceCache, f fetch.Fetcher, log zerolog.Logger) *barSyncer {
	return &barSyncer{
		name: "index_daily", collection: TabIndexDaily, db: db, cache: c, log: log,
		codes: func(ctx context.Context) ([]codeRef, error) {
			return codeRefsFromStockInfo(c.IndexInfo()), nil
		},
		fetchOne: func(ctx context.Context, code, name string, start, end *time.Time) ([]model.Bar, error) {
			return f.FetchIndexBar(ctx, code, name, model.FreqDaily, start, end, true)
		},
		wrap: indexBarWrap, unwrap: indexBarUnwrap,
	}
}

func stockIndustryBarWrap(bars []model.Bar) model.SyncData { return model.StockIndustryBarData{Bars: bars} }
func stockIndustryBarUnwrap(d model.SyncData) []model.Bar {
	if v, ok := d.(model.StockIndustryBarData); ok {
		return v.Bars
	}
	return nil
}

func newStockIndustryDailySyncer(db *mongodriver.Database, c *cache.ReferenceCache, f fetch.Fetcher, log zerolog.Logger) *barSyncer {
	return &barSyncer{
		name: "stock_industry_daily", collection: TabStockIndustryDaily, db: db, cache: c, log: log,
		codes: func(ctx context.Context) ([]codeRef, error) {
			return codeRefsFromParentCollection(ctx, db, TabStockIndustry)
		},
		fetchOne: func(ctx context.Context, code, name string, start, end *time.Time) ([]model.Bar, error) {
			return f.FetchStockIndustryBar(ctx, code, name, start, end, true)
		},
		wrap: stockIndustryBarWrap, unwrap: stockIndustryBarUnwrap,
	}
}

func stockConceptBarWrap(bars []model.Bar) model.SyncData { return model.StockConceptBarData{Bars: bars} }
func stockConceptBarUnwrap(d model.SyncData) []model.Bar {
	if v, ok := d.(model.StockConceptBarData); ok {
		return v.Bars
	}
	return nil
}

func newStockConceptDailySyncer(db *mongodriver.Database, c *cache.ReferenceCache, f fetch.Fetcher, log zerolog.Logger) *barSyncer {
	return &barSyncer{
		name: "stock_concept_daily", collection: TabStockConceptDaily, db: db, cache: c, log: log,
		codes: func(ctx context.Context) ([]codeRef, error) {
			return codeRefsFromParentCollection(ctx, db, TabStockConcept)
		},
		fetchOne: func(ctx context.Context, code, name string, start, end *time.Time) ([]model.Bar, error) {
			return f.FetchStockConceptBar(ctx, code, name, start, end, true)
		},
		wrap: stockConceptBarWrap, unwrap: stockConceptBarUnwrap,
	}
}

func stockBarWrap(bars []model.Bar) model.SyncData { return model.StockBarData{Bars: bars} }
func stockBarUnwrap(d model.SyncData) []model.Bar {
	if v, ok := d.(model.StockBarData); ok {
		return v.Bars
	}
	return nil
}

// newStockDailySyncer builds one shard of the stock_daily syncer, carrying
// taskN so every log line can identify its shard the way the original
// threads task_n through every log statement.
func newStockDailySyncer(db *mongodriver.Database, c *cache.ReferenceCache, f fetch.Fetcher, shard []model.StockInfo, taskN int, log zerolog.Logger) *barSyncer {
	return &barSyncer{
		name: "stock_daily", collection: TabStockDaily, db: db, cache: c, taskN: taskN,
		log: log.With().Int("task", taskN).Logger(),
		codes: func(ctx context.Context) ([]codeRef, error) {
			return codeRefsFromStockInfo(shard), nil
		},
		fetchOne: func(ctx context.Context, code, name string, start, end *time.Time) ([]model.Bar, error) {
			return f.FetchStockBar(ctx, code, name, model.FreqDaily, start, end, true)
		},
		wrap: stockBarWrap, unwrap: stockBarUnwrap,
	}
}

func codeRefsFromStockInfo(rows []model.StockInfo) []codeRef {
	out := make([]codeRef, len(rows))
	for i, r := range rows {
		out[i] = codeRef{Code: r.Code, Name: r.Name}
	}
	return out
}

func codeRefsFromBondInfo(rows []model.BondInfo) []codeRef {
	out := make([]codeRef, len(rows))
	for i, r := range rows {
		out[i] = codeRef{Code: r.Code, Name: r.Name}
	}
	return out
}

func codeRefsFromFundInfo(rows []model.FundInfo) []codeRef {
	out := make([]codeRef, len(rows))
	for i, r := range rows {
		out[i] = codeRef{Code: r.Code, Name: r.Name}
	}
	return out
}

func codeRefsFromParentCollection(ctx context.Context, db *mongodriver.Database, collection string) ([]codeRef, error) {
	type parentRow struct {
		Code string `bson:"code"`
		Name string `bson:"name"`
	}
	rows, err := query[parentRow](ctx, db, collection, bson.D{}, nil)
	if err != nil {
		return nil, err
	}
	out := make([]codeRef, len(rows))
	for i, r := range rows {
		out[i] = codeRef{Code: r.Code, Name: r.Name}
	}
	return out, nil
}
