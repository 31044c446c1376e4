// Package syncer implements the per-dataset fetch/save unit of work. A
// Syncer owns one dataset's path from upstream fetch to persisted save;
// some are sharded per code-group (stock_daily, stock_margin). This package
// holds only the Syncer interface and the ShardCodes helper; the concrete
// syncers and their constructors live in the store backend
// (internal/store/mongo).
package syncer

import (
	"context"

	"hiqsync/internal/model"
)

// Syncer is the unit of work the orchestrator drives: Fetch pushes
// zero-or-more record batches into tx, then the orchestrator sends the Done
// sentinel once Fetch returns. Save persists one batch.
type Syncer interface {
	// Name is the syncer's dataset name, e.g. "stock_daily"; every shard of a
	// sharded dataset returns the same name.
	Name() string
	Fetch(ctx context.Context, tx chan<- model.SyncData) error
	Save(ctx context.Context, data model.SyncData) error
}

// ShardCodes splits codes into splitCount equal-size groups of
// floor(len(codes)/splitCount); a remainder shorter than a full group is
// dropped, matching the original sharding formula exactly (§8/§9 of the
// governing design: preserve the short-tail-drop behavior as-is).
func ShardCodes[T any](codes []T, splitCount int) [][]T {
	if splitCount <= 0 || len(codes) == 0 {
		return nil
	}
	groupLen := len(codes) / splitCount
	if groupLen == 0 {
		return nil
	}
	strideEnd := groupLen * splitCount

	groups := make([][]T, 0, splitCount+1)
	for i := 0; i < strideEnd; i += groupLen {
		groups = append(groups, codes[i:i+groupLen])
	}

	remainder := codes[strideEnd:]
	if len(remainder) >= groupLen {
		groups = append(groups, remainder)
	}
	return groups
}
