// Package store defines the backend-agnostic Store interface every
// destination implements, and NewStore, the factory that picks a concrete
// backend from a parsed dest. Grounded on store/mod.rs's get_store: mongodb
// is the only backend implemented; file/mysql/clickhouse are declared and
// fail fast.
package store

import (
	"context"

	"github.com/rs/zerolog"

	"hiqsync/internal/cache"
	"hiqsync/internal/config"
	"hiqsync/internal/fetch"
	"hiqsync/internal/hiqerr"
	"hiqsync/internal/model"
	"hiqsync/internal/store/mongo"
	"hiqsync/internal/syncer"
)

// Store is the lifecycle every destination backend implements: connect and
// warm the reference cache, bootstrap indices, then hand back the syncer set
// for this run.
type Store interface {
	Init(ctx context.Context, skipBasic bool) error
	BuildIndex(ctx context.Context) error
	Syncers(skipBasic bool) ([]syncer.Syncer, error)
	Close(ctx context.Context) error
}

// NewStore dispatches on dest kind. Only mongodb is wired to a real
// implementation; the other three destination kinds are declared on the CLI
// surface but return ErrNotImplemented from Init, matching the original's
// todo!() arms.
func NewStore(dest model.DestType, url string, cfg *config.Config, f fetch.Fetcher, warm *cache.WarmPopulator, funcs []string, log zerolog.Logger) (Store, error) {
	switch dest {
	case model.DestTypeMongoDB:
		cfg.MongoURL = url
		return mongo.New(cfg, f, warm, funcs, log), nil
	case model.DestTypeFile:
		return unimplementedStore{kind: "file"}, nil
	case model.DestTypeMySQL:
		return unimplementedStore{kind: "mysql"}, nil
	case model.DestTypeClickHouse:
		return unimplementedStore{kind: "clickhouse"}, nil
	default:
		return nil, hiqerr.ErrRequest
	}
}

// unimplementedStore satisfies Store for destination kinds the original
// also leaves as todo!(); Init is the single call site that actually fails,
// so callers get a clear error instead of a nil-interface panic deeper in
// the run.
type unimplementedStore struct{ kind string }

func (u unimplementedStore) Init(ctx context.Context, skipBasic bool) error {
	return hiqerr.ErrNotImplemented
}

func (u unimplementedStore) BuildIndex(ctx context.Context) error {
	return hiqerr.ErrNotImplemented
}

func (u unimplementedStore) Syncers(skipBasic bool) ([]syncer.Syncer, error) {
	return nil, hiqerr.ErrNotImplemented
}

func (u unimplementedStore) Close(ctx context.Context) error {
	return nil
}
