package mongo

import (
	"testing"

	"hiqsync/internal/cache"
	"hiqsync/internal/config"
	"hiqsync/internal/model"
)

func stockInfoPopulation(n int, marginEvery int) []model.StockInfo {
	out := make([]model.StockInfo, n)
	for i := range out {
		out[i] = model.StockInfo{Code: "code", Name: "name", IsMargin: marginEvery > 0 && i%marginEvery == 0}
	}
	return out
}

func storeWithStocks(stocks []model.StockInfo, splitCount int) *Store {
	c := cache.New()
	_ = c.Populate(cache.Snapshot{
		TradeDates: []int{20240102},
		IndexInfo:  []model.StockInfo{{Code: "1", Name: "n"}},
		StockInfo:  stocks,
		BondInfo:   []model.BondInfo{{Code: "1", Name: "n"}},
		FundInfo:   []model.FundInfo{{Code: "1", Name: "n"}},
	})
	return &Store{cache: c, cfg: &config.Config{SplitCount: splitCount}}
}

func TestPrepareHeavySyncerSplitsStockDailyEvenly(t *testing.T) {
	s := storeWithStocks(stockInfoPopulation(100, 0), 5)
	syncers := s.prepareHeavySyncer()

	count := 0
	for _, syn := range syncers {
		if syn.Name() == "stock_daily" {
			count++
		}
	}
	if count != 5 {
		t.Fatalf("stock_daily shards = %d, want 5", count)
	}
	// no margin-eligible codes in the population, so no stock_margin shards
	for _, syn := range syncers {
		if syn.Name() == "stock_margin" {
			t.Fatalf("unexpected stock_margin shard with no margin-eligible codes")
		}
	}
}

func TestPrepareHeavySyncerPairsMarginShardAtSameTaskBoundary(t *testing.T) {
	// 100 stocks, split 5 -> groupLen 20; every stock is margin-eligible, so
	// every shard (including the trailing one) carries a full 20-code
	// margin shard too — the trailing margin flush only fires when the
	// margin subset itself reaches groupLen, matching prepare_heavy_syncer
	// exactly (an asymmetry from the original: the mid-loop flush has no
	// such floor).
	s := storeWithStocks(stockInfoPopulation(100, 1), 5)
	syncers := s.prepareHeavySyncer()

	var names []string
	for _, syn := range syncers {
		names = append(names, syn.Name())
	}
	// every stock_daily shard must be immediately followed by its matching
	// stock_margin shard, produced from the same lockstep pass rather than
	// an independently re-sharded margin-only population.
	for i := 0; i < len(names); i += 2 {
		if names[i] != "stock_daily" || names[i+1] != "stock_margin" {
			t.Fatalf("syncer order = %v, want alternating stock_daily/stock_margin pairs", names)
		}
	}
	if len(names) != 10 {
		t.Fatalf("total shards = %d, want 10 (5 stock_daily + 5 stock_margin)", len(names))
	}

	marginSyn := syncers[1].(*marginSyncer)
	if len(marginSyn.shard) != 20 {
		t.Fatalf("first stock_margin shard size = %d, want 20", len(marginSyn.shard))
	}
}

func TestPrepareHeavySyncerDropsShortTrailingMarginRemainder(t *testing.T) {
	// Same population as above but every 4th stock only: the trailing
	// group's margin subset (5 codes) falls short of groupLen (20), so
	// unlike the mid-loop shards it is not flushed at all — the original's
	// own asymmetry between the mid-loop (">0") and trailing (">=len")
	// margin checks.
	s := storeWithStocks(stockInfoPopulation(100, 4), 5)
	syncers := s.prepareHeavySyncer()

	dailyCount, marginCount := 0, 0
	for _, syn := range syncers {
		switch syn.Name() {
		case "stock_daily":
			dailyCount++
		case "stock_margin":
			marginCount++
		}
	}
	if dailyCount != 5 {
		t.Fatalf("stock_daily shards = %d, want 5", dailyCount)
	}
	if marginCount != 4 {
		t.Fatalf("stock_margin shards = %d, want 4 (trailing remainder's margin subset is short of groupLen and dropped)", marginCount)
	}
}

func TestPrepareHeavySyncerSkipsEmptyMarginShard(t *testing.T) {
	// a single margin-eligible code inside the first 20-wide group (well
	// before the trailing remainder); the other three full groups carry no
	// margin-eligible codes at all and must not get an (empty) stock_margin
	// companion.
	stocks := stockInfoPopulation(100, 0)
	stocks[10].IsMargin = true
	s := storeWithStocks(stocks, 5)
	syncers := s.prepareHeavySyncer()

	marginCount := 0
	for _, syn := range syncers {
		if syn.Name() == "stock_margin" {
			marginCount++
		}
	}
	if marginCount != 1 {
		t.Fatalf("stock_margin shards = %d, want 1 (only the shard containing the one margin-eligible code)", marginCount)
	}
}

func TestPrepareHeavySyncerRespectsFuncsAllowlist(t *testing.T) {
	s := storeWithStocks(stockInfoPopulation(100, 1), 5)
	s.funcs = map[string]struct{}{"stock_margin": {}}

	syncers := s.prepareHeavySyncer()
	for _, syn := range syncers {
		if syn.Name() != "stock_margin" {
			t.Fatalf("got syncer %q, allowlist should have excluded everything but stock_margin", syn.Name())
		}
	}
	if len(syncers) != 5 {
		t.Fatalf("stock_margin shards = %d, want 5", len(syncers))
	}
}

func TestPrepareHeavySyncerNoSplitWhenPopulationSmallerThanSplitCount(t *testing.T) {
	s := storeWithStocks(stockInfoPopulation(3, 0), 8)
	if syncers := s.prepareHeavySyncer(); syncers != nil {
		t.Fatalf("syncers = %v, want nil when len(stocks) < splitCount", syncers)
	}
}

func TestStoreContainsNilAllowlistRunsEverything(t *testing.T) {
	s := &Store{}
	if !s.contains("anything") {
		t.Fatalf("contains() with nil funcs should allow every dataset name")
	}
}
