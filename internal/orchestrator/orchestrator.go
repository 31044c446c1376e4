// Package orchestrator drives one sync pass across every configured
// destination store: each destination runs its own syncer set concurrently,
// fetch work is bucketed across a fixed task count, and save work runs one
// goroutine per syncer feeding off its own channel. Ported from
// data/src/sync.rs, with tokio's broadcast-channel shutdown fan-out replaced
// by plain context cancellation — every blocking step here already selects
// on ctx.Done(), so a single cancel propagates the same way a shutdown
// broadcast would.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"hiqsync/internal/model"
	"hiqsync/internal/store"
	"hiqsync/internal/syncer"
)

// Orchestrator owns one store per configured destination and runs them
// concurrently on each pass.
type Orchestrator struct {
	stores      map[model.DestType]store.Store
	taskCount   int
	log         zerolog.Logger
	syncerCount int64 // syncers run across all destinations in the last pass
}

// New builds an Orchestrator over already-constructed stores.
func New(stores map[model.DestType]store.Store, taskCount int, log zerolog.Logger) *Orchestrator {
	if taskCount <= 0 {
		taskCount = 1
	}
	return &Orchestrator{stores: stores, taskCount: taskCount, log: log}
}

// SyncerCount reports the total number of syncers run across all
// destinations in the most recently completed or in-progress pass.
func (o *Orchestrator) SyncerCount() int {
	return int(atomic.LoadInt64(&o.syncerCount))
}

// Run executes one sync pass: every destination's syncTask runs
// concurrently, and the first hard error cancels the shared context for the
// rest. skipBasic is forwarded to each store's Syncers call.
func (o *Orchestrator) Run(ctx context.Context, skipBasic bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	atomic.StoreInt64(&o.syncerCount, 0)

	var wg sync.WaitGroup
	errs := make(chan error, len(o.stores))

	for typ, st := range o.stores {
		wg.Add(1)
		go func(typ model.DestType, st store.Store) {
			defer wg.Done()
			if err := o.syncTask(ctx, typ, st, skipBasic); err != nil {
				o.log.Error().Err(err).Str("dest", typ.String()).Msg("sync task failed")
				errs <- err
				cancel()
			}
		}(typ, st)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	o.log.Info().Msg("done sync")
	return nil
}

// syncDataBufferSize sizes each syncer's fetch->save channel. The original
// feeds these off an unbounded mpsc channel; Go has no literal equivalent, so
// this stands in with a fixed buffer: up to 256 batches can queue before the
// fetch goroutine blocks on a slow Save.
const syncDataBufferSize = 256

// syncTask runs one destination's full syncer set: one save goroutine per
// syncer index, and fetch work bucketed across o.taskCount fetch goroutines.
func (o *Orchestrator) syncTask(ctx context.Context, typ model.DestType, st store.Store, skipBasic bool) error {
	o.log.Info().Str("dest", typ.String()).Msg("start sync")

	syncers, err := st.Syncers(skipBasic)
	if err != nil {
		return fmt.Errorf("list syncers for %s: %w", typ, err)
	}
	n := len(syncers)
	o.log.Info().Int("count", n).Str("dest", typ.String()).Msg("syncer counts")
	atomic.AddInt64(&o.syncerCount, int64(n))
	if n == 0 {
		return nil
	}

	chans := make([]chan model.SyncData, n)
	var saveWG sync.WaitGroup
	for i, s := range syncers {
		chans[i] = make(chan model.SyncData, syncDataBufferSize)
		saveWG.Add(1)
		go func(i int, s syncer.Syncer) {
			defer saveWG.Done()
			o.saveTask(ctx, typ, i, s, chans[i])
		}(i, s)
	}

	var fetchWG sync.WaitGroup
	for taskN, bucket := range bucketIndices(n, o.taskCount) {
		taskN := taskN + 1
		o.log.Info().Int("task", taskN).Str("dest", typ.String()).Msg("start fetch task")
		fetchWG.Add(1)
		go func(idxs []int, taskN int) {
			defer fetchWG.Done()
			o.fetchTask(ctx, typ, taskN, syncers, chans, idxs)
		}(bucket, taskN)
	}

	fetchWG.Wait()
	saveWG.Wait()
	return nil
}

// bucketIndices splits [0,n) into taskCount groups of n/taskCount
// consecutive indices, the same stride arithmetic as syncer.ShardCodes,
// except the trailing remainder is appended to the last group instead of
// being dropped: this buckets syncer indices, and every syncer must run
// exactly once. When n < taskCount, all indices form a single group.
func bucketIndices(n, taskCount int) [][]int {
	if n == 0 || taskCount <= 0 {
		return nil
	}
	groupLen := n / taskCount
	if groupLen == 0 {
		return [][]int{allIndices(n)}
	}
	groupEnd := groupLen * taskCount

	var groups [][]int
	var bucket []int
	for i := 0; i < n; i++ {
		bucket = append(bucket, i)
		if i+1 >= groupEnd {
			continue
		}
		if len(bucket) >= groupLen {
			groups = append(groups, bucket)
			bucket = nil
		}
	}
	if len(bucket) > 0 {
		groups = append(groups, bucket)
	}
	return groups
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// fetchTask runs Fetch for each syncer index assigned to it, in order,
// sending the Done sentinel down that syncer's channel once its Fetch
// returns (successfully or not) so the matching save goroutine can stop.
func (o *Orchestrator) fetchTask(ctx context.Context, typ model.DestType, taskN int, syncers []syncer.Syncer, chans []chan model.SyncData, indices []int) {
	for _, idx := range indices {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s := syncers[idx]
		if err := s.Fetch(ctx, chans[idx]); err != nil {
			o.log.Error().Err(err).Str("dest", typ.String()).Str("syncer", s.Name()).Int("task", taskN).Msg("fetch failed")
		}

		select {
		case chans[idx] <- model.Done{}:
		case <-ctx.Done():
			return
		}
	}
}

// saveTask drains one syncer's channel until Done or cancellation, calling
// Save on every batch in between.
func (o *Orchestrator) saveTask(ctx context.Context, typ model.DestType, index int, s syncer.Syncer, rx <-chan model.SyncData) {
	o.log.Info().Str("dest", typ.String()).Int("index", index).Str("syncer", s.Name()).Msg("save task start")

	for {
		select {
		case <-ctx.Done():
			o.log.Info().Str("dest", typ.String()).Int("index", index).Msg("save task cancelled")
			return
		case data, ok := <-rx:
			if !ok {
				return
			}
			if _, done := data.(model.Done); done {
				o.log.Info().Str("dest", typ.String()).Int("index", index).Str("syncer", s.Name()).Msg("save task done")
				return
			}
			if err := s.Save(ctx, data); err != nil {
				o.log.Error().Err(err).Str("dest", typ.String()).Str("syncer", s.Name()).Msg("save failed")
			}
		}
	}
}
