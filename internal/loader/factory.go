package loader

import (
	"hiqsync/internal/config"
	"hiqsync/internal/hiqerr"
	"hiqsync/internal/model"
	"hiqsync/internal/store/mongo"
)

// New dispatches on dest kind, mirroring store.NewStore: only mongodb is
// wired to a real Loader, matching store/mod.rs::get_loader. The other
// three destination kinds have no Loader implementation at all, so New
// itself fails fast rather than handing back a stub that would panic on
// every method.
func New(dest model.DestType, url string, cfg *config.Config) (Loader, error) {
	switch dest {
	case model.DestTypeMongoDB:
		cfg.MongoURL = url
		return mongo.NewLoader(cfg), nil
	case model.DestTypeFile, model.DestTypeMySQL, model.DestTypeClickHouse:
		return nil, hiqerr.ErrNotImplemented
	default:
		return nil, hiqerr.ErrRequest
	}
}
