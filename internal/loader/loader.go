// Package loader defines the backend-agnostic read side of the store: one
// Load method per dataset, each taking a raw bson filter/sort plus an
// optional row limit. Grounded on store/mongo/loader.rs — the original
// exposes mongodb's Document type across the loader boundary regardless of
// backend, and this port keeps that same shape rather than inventing a
// backend-neutral query DSL nothing in the corpus has a use for.
package loader

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"hiqsync/internal/model"
)

// Loader is the read-side companion to store.Store: one method per dataset
// that supports ad-hoc querying, matching store/mongo/loader.rs exactly
// (trade_date has no loader method there either — it is consulted only
// through the reference cache).
type Loader interface {
	Init(ctx context.Context) error
	Close(ctx context.Context) error

	LoadBondInfo(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.BondInfo, error)
	LoadBondDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error)

	LoadFundInfo(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.FundInfo, error)
	LoadFundDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error)
	LoadFundNet(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.FundNet, error)

	LoadIndexInfo(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockInfo, error)
	LoadIndexDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error)

	LoadStockInfo(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockInfo, error)
	LoadStockDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error)
	LoadStockIndex(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockIndex, error)

	LoadStockIndustry(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockIndustry, error)
	LoadStockIndustryDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error)
	LoadStockIndustryDetail(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockIndustryDetail, error)

	LoadStockConcept(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockConcept, error)
	LoadStockConceptDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error)
	LoadStockConceptDetail(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockConceptDetail, error)

	LoadStockYJBB(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockYJBB, error)
	LoadStockMargin(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockMargin, error)
}
