// Package mongo implements the one fully-functional Store backend. Ported
// from the original store/mongo package: the generic query/insert helpers
// (service.rs), the per-database index bootstrap (mongo_index.rs), the
// store lifecycle and syncer assembly order (mongo.rs), and one file's worth
// of syncer logic per dataset behavioral class.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// insertMany optionally deletes every existing row in the collection before
// inserting, per the replace-vs-append save contract. A single-row insert
// takes InsertOne; a multi-row insert takes InsertMany, matching the two
// distinct paths in the original save contract.
func insertMany[T any](ctx context.Context, db *mongodriver.Database, collection string, rows []T, replace bool) error {
	coll := db.Collection(collection)

	if replace {
		if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("delete existing rows in %s: %w", collection, err)
		}
	}

	if len(rows) == 0 {
		return nil
	}

	if len(rows) == 1 {
		_, err := coll.InsertOne(ctx, rows[0])
		if err != nil {
			return fmt.Errorf("insert one into %s: %w", collection, err)
		}
		return nil
	}

	docs := make([]any, len(rows))
	for i, r := range rows {
		docs[i] = r
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert many into %s: %w", collection, err)
	}
	return nil
}

// query runs a find and collects every matching document into a slice.
func query[T any](ctx context.Context, db *mongodriver.Database, collection string, filter bson.D, opts *options.FindOptions) ([]T, error) {
	cur, err := db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s results: %w", collection, err)
	}
	return out, nil
}

// queryOne returns the first document matching filter/sort, or (zero, false)
// if none matched — used for watermark "latest" probes.
func queryOne[T any](ctx context.Context, db *mongodriver.Database, collection string, filter bson.D, sort bson.D) (T, bool, error) {
	var out T
	opts := options.FindOne().SetSort(sort)
	err := db.Collection(collection).FindOne(ctx, filter, opts).Decode(&out)
	if err == mongodriver.ErrNoDocuments {
		return out, false, nil
	}
	if err != nil {
		return out, false, fmt.Errorf("query_one %s: %w", collection, err)
	}
	return out, true, nil
}

// existingCodes builds the set of values present for field within rows
// matching filter — used by the detail/yjbb syncers to diff fresh fetches
// against what is already persisted.
func existingCodes(ctx context.Context, db *mongodriver.Database, collection string, filter bson.D, field string) (map[string]struct{}, error) {
	opts := options.Find().SetProjection(bson.D{{Key: field, Value: 1}})
	cur, err := db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query existing codes in %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	out := map[string]struct{}{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode existing code in %s: %w", collection, err)
		}
		if v, ok := doc[field].(string); ok {
			out[v] = struct{}{}
		}
	}
	return out, cur.Err()
}
