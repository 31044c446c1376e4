package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const warmCacheKey = "hiqsync:reference_snapshot"

// WarmPopulator populates a ReferenceCache, consulting an optional Redis
// warm layer first so a fresh process can skip re-fetching reference data a
// previous run already cached within ttl. Adapted from the teacher's
// SymbolCache read-through-with-fallback pattern (service/caching/symbols.go).
type WarmPopulator struct {
	Redis *RedisStore // nil disables the warm layer
	TTL   time.Duration
	Log   zerolog.Logger
}

// Populate tries the warm layer first; on miss (or no warm layer configured)
// it calls fetchLive to build a fresh Snapshot, writes it back to the warm
// layer, and populates c.
func (w *WarmPopulator) Populate(ctx context.Context, c *ReferenceCache, fetchLive func() (Snapshot, error)) error {
	if w.Redis != nil {
		var snap Snapshot
		found, err := w.Redis.GetJSON(ctx, warmCacheKey, &snap)
		if err != nil {
			w.Log.Warn().Err(err).Msg("warm cache read failed, falling back to live populate")
		} else if found {
			w.Log.Info().Msg("reference cache warmed from redis")
			return c.Populate(snap)
		}
	}

	snap, err := fetchLive()
	if err != nil {
		return err
	}

	if err := c.Populate(snap); err != nil {
		return err
	}

	if w.Redis != nil {
		if err := w.Redis.SetJSON(ctx, warmCacheKey, snap, w.TTL); err != nil {
			w.Log.Warn().Err(err).Msg("warm cache write failed")
		}
	}
	return nil
}
