package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var barSeriesCollections = []string{
	TabFundDaily, TabFundNet, TabBondDaily, TabIndexDaily, TabStockDaily,
	TabStockMargin, TabStockIndex, TabStockConceptDaily, TabStockIndustryDaily,
}

var infoCollections = []string{
	TabFundInfo, TabBondInfo, TabIndexInfo, TabStockInfo,
	TabStockYJBB, TabStockConcept, TabStockIndustry,
}

var detailCollections = []string{TabStockConceptDetail, TabStockIndustryDetail}

// buildIndex creates the canonical index set for every collection, per the
// external-interfaces index-set rules. Safe to call repeatedly: Mongo's
// CreateMany is a no-op for indices that already exist with the same keys.
func buildIndex(ctx context.Context, client *mongodriver.Client) error {
	db := client.Database(Database)

	tradeDateDesc := indexModel(bson.D{{Key: "trade_date", Value: -1}})
	codeAsc := indexModel(bson.D{{Key: "code", Value: 1}})
	compound := indexModel(bson.D{{Key: "trade_date", Value: -1}, {Key: "code", Value: 1}})
	barIndexes := []mongodriver.IndexModel{tradeDateDesc, codeAsc, compound}

	if _, err := db.Collection(TabTradeDate).Indexes().CreateOne(ctx, tradeDateDesc); err != nil {
		return fmt.Errorf("build index on %s: %w", TabTradeDate, err)
	}

	for _, coll := range barSeriesCollections {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, barIndexes); err != nil {
			return fmt.Errorf("build index on %s: %w", coll, err)
		}
	}

	for _, coll := range infoCollections {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, codeAsc); err != nil {
			return fmt.Errorf("build index on %s: %w", coll, err)
		}
	}

	detailIndex := indexModel(bson.D{{Key: "code", Value: 1}, {Key: "stock_code", Value: 1}})
	for _, coll := range detailCollections {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, detailIndex); err != nil {
			return fmt.Errorf("build index on %s: %w", coll, err)
		}
	}

	return nil
}

func indexModel(keys bson.D) mongodriver.IndexModel {
	return mongodriver.IndexModel{Keys: keys, Options: options.Index()}
}
