package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hiqsync/internal/config"
	"hiqsync/internal/model"
)

// Loader is the read side of the mongo backend: ad-hoc filter/sort/limit
// queries against any collection, independent of the syncer/watermark
// machinery. Ported from store/mongo/loader.rs.
type Loader struct {
	client *mongodriver.Client
	db     *mongodriver.Database
	cfg    *config.Config
}

// NewLoader returns an unconnected-until-Init Loader.
func NewLoader(cfg *config.Config) *Loader {
	return &Loader{cfg: cfg}
}

func (l *Loader) Init(ctx context.Context) error {
	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(l.cfg.MongoURL))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	l.client = client
	l.db = client.Database(Database)
	return nil
}

func (l *Loader) Close(ctx context.Context) error {
	if l.client == nil {
		return nil
	}
	return l.client.Disconnect(ctx)
}

// queryLoader mirrors loader.rs's MongoLoader::query: a limit of exactly 1
// is served by queryOne (a single findOne rather than a capped find), any
// other limit (including none) goes through a capped/uncapped find.
func queryLoader[T any](ctx context.Context, db *mongodriver.Database, collection string, filter, sort bson.D, limit *int64) ([]T, error) {
	if limit != nil && *limit == 1 {
		row, found, err := queryOne[T](ctx, db, collection, filter, sort)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return []T{row}, nil
	}

	opts := options.Find().SetSort(sort)
	if limit != nil {
		opts.SetLimit(*limit)
	}
	return query[T](ctx, db, collection, filter, opts)
}

func (l *Loader) LoadBondInfo(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.BondInfo, error) {
	return queryLoader[model.BondInfo](ctx, l.db, TabBondInfo, filter, sort, limit)
}

func (l *Loader) LoadBondDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error) {
	return queryLoader[model.Bar](ctx, l.db, TabBondDaily, filter, sort, limit)
}

func (l *Loader) LoadFundInfo(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.FundInfo, error) {
	return queryLoader[model.FundInfo](ctx, l.db, TabFundInfo, filter, sort, limit)
}

func (l *Loader) LoadFundDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error) {
	return queryLoader[model.Bar](ctx, l.db, TabFundDaily, filter, sort, limit)
}

func (l *Loader) LoadFundNet(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.FundNet, error) {
	return queryLoader[model.FundNet](ctx, l.db, TabFundNet, filter, sort, limit)
}

func (l *Loader) LoadIndexInfo(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockInfo, error) {
	return queryLoader[model.StockInfo](ctx, l.db, TabIndexInfo, filter, sort, limit)
}

func (l *Loader) LoadIndexDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error) {
	return queryLoader[model.Bar](ctx, l.db, TabIndexDaily, filter, sort, limit)
}

func (l *Loader) LoadStockInfo(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockInfo, error) {
	return queryLoader[model.StockInfo](ctx, l.db, TabStockInfo, filter, sort, limit)
}

func (l *Loader) LoadStockDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error) {
	return queryLoader[model.Bar](ctx, l.db, TabStockDaily, filter, sort, limit)
}

func (l *Loader) LoadStockIndex(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockIndex, error) {
	return queryLoader[model.StockIndex](ctx, l.db, TabStockIndex, filter, sort, limit)
}

func (l *Loader) LoadStockIndustry(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockIndustry, error) {
	return queryLoader[model.StockIndustry](ctx, l.db, TabStockIndustry, filter, sort, limit)
}

func (l *Loader) LoadStockIndustryDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error) {
	return queryLoader[model.Bar](ctx, l.db, TabStockIndustryDaily, filter, sort, limit)
}

func (l *Loader) LoadStockIndustryDetail(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockIndustryDetail, error) {
	return queryLoader[model.StockIndustryDetail](ctx, l.db, TabStockIndustryDetail, filter, sort, limit)
}

func (l *Loader) LoadStockConcept(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockConcept, error) {
	return queryLoader[model.StockConcept](ctx, l.db, TabStockConcept, filter, sort, limit)
}

func (l *Loader) LoadStockConceptDaily(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.Bar, error) {
	return queryLoader[model.Bar](ctx, l.db, TabStockConceptDaily, filter, sort, limit)
}

func (l *Loader) LoadStockConceptDetail(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockConceptDetail, error) {
	return queryLoader[model.StockConceptDetail](ctx, l.db, TabStockConceptDetail, filter, sort, limit)
}

func (l *Loader) LoadStockYJBB(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockYJBB, error) {
	return queryLoader[model.StockYJBB](ctx, l.db, TabStockYJBB, filter, sort, limit)
}

func (l *Loader) LoadStockMargin(ctx context.Context, filter, sort bson.D, limit *int64) ([]model.StockMargin, error) {
	return queryLoader[model.StockMargin](ctx, l.db, TabStockMargin, filter, sort, limit)
}
