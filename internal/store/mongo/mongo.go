package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hiqsync/internal/cache"
	"hiqsync/internal/config"
	"hiqsync/internal/fetch"
	"hiqsync/internal/model"
	"hiqsync/internal/syncer"
)

// Store is the mongodb backend: connection, index bootstrap, reference-cache
// population, and syncer assembly. Ported from mongo.rs, the only store
// backend the original fully implements.
type Store struct {
	client *mongodriver.Client
	db     *mongodriver.Database
	cache  *cache.ReferenceCache
	warm   *cache.WarmPopulator
	fetch  fetch.Fetcher
	cfg    *config.Config
	log    zerolog.Logger

	// funcs restricts the syncer set to these dataset names; nil means run
	// everything. Matches MongoStore::contains/add_syncer.
	funcs map[string]struct{}
}

// New returns an unconnected-until-Init Store; Init dials mongo. funcs is the
// optional dataset-name allowlist from the CLI's -f flag; pass nil to run
// every dataset.
func New(cfg *config.Config, f fetch.Fetcher, warm *cache.WarmPopulator, funcs []string, log zerolog.Logger) *Store {
	var funcSet map[string]struct{}
	if funcs != nil {
		funcSet = make(map[string]struct{}, len(funcs))
		for _, name := range funcs {
			funcSet[name] = struct{}{}
		}
	}
	return &Store{
		cache: cache.New(),
		warm:  warm,
		fetch: f,
		cfg:   cfg,
		funcs: funcSet,
		log:   log,
	}
}

// contains reports whether name is in the syncer allowlist (always true
// when no allowlist was configured).
func (s *Store) contains(name string) bool {
	if s.funcs == nil {
		return true
	}
	_, ok := s.funcs[name]
	return ok
}

// addSyncer appends syn to out if its name passes the allowlist.
func (s *Store) addSyncer(out *[]syncer.Syncer, syn syncer.Syncer) {
	if s.contains(syn.Name()) {
		*out = append(*out, syn)
	}
}

// Init connects to mongo and pings it, then warms the reference cache.
func (s *Store) Init(ctx context.Context, skipBasic bool) error {
	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(s.cfg.MongoURL))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	s.client = client
	s.db = client.Database(Database)

	return s.prepareCache(ctx, skipBasic)
}

// BuildIndex creates the canonical index set across every collection.
func (s *Store) BuildIndex(ctx context.Context) error {
	return buildIndex(ctx, s.client)
}

// Close disconnects from mongo.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// prepareCache populates the reference cache. Under skip_basic it reads the
// five reference tables back from the store instead of re-fetching them
// live, on the assumption a prior run already has them persisted; a live
// fetch is used otherwise. On both paths the warm Redis layer, if
// configured, is consulted first and refreshed afterwards.
func (s *Store) prepareCache(ctx context.Context, skipBasic bool) error {
	fetchLive := func() (cache.Snapshot, error) {
		if skipBasic {
			return s.snapshotFromStore(ctx)
		}
		return s.snapshotLive(ctx)
	}

	if err := s.warm.Populate(ctx, s.cache, fetchLive); err != nil {
		return fmt.Errorf("prepare reference cache: %w", err)
	}
	return nil
}

func (s *Store) snapshotLive(ctx context.Context) (cache.Snapshot, error) {
	tradeDates, err := s.fetch.FetchTradeDate(ctx)
	if err != nil {
		return cache.Snapshot{}, fmt.Errorf("fetch trade_date: %w", err)
	}
	indexInfo, err := s.fetch.FetchIndexInfo(ctx)
	if err != nil {
		return cache.Snapshot{}, fmt.Errorf("fetch index_info: %w", err)
	}
	stockInfo, err := s.fetch.FetchStockInfo(ctx)
	if err != nil {
		return cache.Snapshot{}, fmt.Errorf("fetch stock_info: %w", err)
	}
	bondInfo, err := s.fetch.FetchBondInfo(ctx)
	if err != nil {
		return cache.Snapshot{}, fmt.Errorf("fetch bond_info: %w", err)
	}
	fundInfo, err := s.fetch.FetchFundInfo(ctx)
	if err != nil {
		return cache.Snapshot{}, fmt.Errorf("fetch fund_info: %w", err)
	}
	return cache.Snapshot{
		TradeDates: tradeDates,
		IndexInfo:  indexInfo,
		StockInfo:  stockInfo,
		BondInfo:   bondInfo,
		FundInfo:   fundInfo,
	}, nil
}

func (s *Store) snapshotFromStore(ctx context.Context) (cache.Snapshot, error) {
	tradeRows, err := query[tradeDateRow](ctx, s.db, TabTradeDate, nil, nil)
	if err != nil {
		return cache.Snapshot{}, err
	}
	dates := make([]int, len(tradeRows))
	for i, r := range tradeRows {
		dates[i] = r.TradeDate
	}

	indexInfo, err := query[model.StockInfo](ctx, s.db, TabIndexInfo, nil, nil)
	if err != nil {
		return cache.Snapshot{}, err
	}
	stockInfo, err := query[model.StockInfo](ctx, s.db, TabStockInfo, nil, nil)
	if err != nil {
		return cache.Snapshot{}, err
	}
	bondInfo, err := query[model.BondInfo](ctx, s.db, TabBondInfo, nil, nil)
	if err != nil {
		return cache.Snapshot{}, err
	}
	fundInfo, err := query[model.FundInfo](ctx, s.db, TabFundInfo, nil, nil)
	if err != nil {
		return cache.Snapshot{}, err
	}

	return cache.Snapshot{
		TradeDates: dates,
		IndexInfo:  indexInfo,
		StockInfo:  stockInfo,
		BondInfo:   bondInfo,
		FundInfo:   fundInfo,
	}, nil
}

// prepareHeavySyncer walks the full stock population once, grouping every
// floor(len(stocks)/splitCount) codes into one stock_daily shard; the last
// shard also takes every code past groupLen*splitCount, so no stock code is
// dropped (syncer.ShardCodes is not used here). The margin-eligible codes
// seen within that same span are flushed alongside it as that shard's
// stock_margin syncer, so the two datasets' shards share a task number and
// progress in lockstep rather than being sharded independently. Ported from
// mongo.rs::prepare_heavy_syncer.
func (s *Store) prepareHeavySyncer() []syncer.Syncer {
	allStocks := s.cache.StockInfo()
	groupLen := len(allStocks) / s.cfg.SplitCount
	if groupLen == 0 {
		return nil
	}
	groupEnd := groupLen * s.cfg.SplitCount

	var out []syncer.Syncer
	taskN := 0
	var subCodes, marginSubCodes []model.StockInfo

	for i, code := range allStocks {
		if code.IsMargin {
			marginSubCodes = append(marginSubCodes, code)
		}
		subCodes = append(subCodes, code)

		if i+1 >= groupEnd {
			continue
		}
		if len(subCodes) >= groupLen {
			taskN++
			s.addSyncer(&out, newStockDailySyncer(s.db, s.cache, s.fetch, subCodes, taskN, s.log))
			if len(marginSubCodes) > 0 {
				s.addSyncer(&out, newMarginSyncer(s.db, s.cache, s.fetch, marginSubCodes, taskN, s.log))
			}
			subCodes = nil
			marginSubCodes = nil
		}
	}

	if len(subCodes) >= groupLen {
		taskN++
		s.addSyncer(&out, newStockDailySyncer(s.db, s.cache, s.fetch, subCodes, taskN, s.log))
	}
	if len(marginSubCodes) >= groupLen {
		s.addSyncer(&out, newMarginSyncer(s.db, s.cache, s.fetch, marginSubCodes, taskN, s.log))
	}
	return out
}

// prepareSyncer assembles the fixed syncer order: the four reference-info
// snapshots plus trade_date first (skipped entirely under skip_basic, since
// those five datasets are exactly what the reference cache already holds),
// then every remaining dataset unconditionally, ending with the sharded
// stock_daily/stock_margin groups. Ported from mongo.rs::prepare_syncer.
func (s *Store) prepareSyncer(skipBasic bool) []syncer.Syncer {
	var out []syncer.Syncer

	if !skipBasic {
		s.addSyncer(&out, newBondInfoSyncer(s.db, s.cache, s.log))
		s.addSyncer(&out, newIndexInfoSyncer(s.db, s.cache, s.log))
		s.addSyncer(&out, newStockInfoSyncer(s.db, s.cache, s.log))
		s.addSyncer(&out, newFundInfoSyncer(s.db, s.cache, s.log))
		s.addSyncer(&out, newTradeDateSyncer(s.db, s.cache, s.log))
	}

	s.addSyncer(&out, newBondDailySyncer(s.db, s.cache, s.fetch, s.log))
	s.addSyncer(&out, newFundDailySyncer(s.db, s.cache, s.fetch, s.log))
	s.addSyncer(&out, newFundNetSyncer(s.db, s.cache, s.fetch, s.log))
	s.addSyncer(&out, newIndexDailySyncer(s.db, s.cache, s.fetch, s.log))
	s.addSyncer(&out, newStockIndexSyncer(s.db, s.fetch, s.log))
	s.addSyncer(&out, newStockIndustrySyncer(s.db, s.fetch, s.log))
	s.addSyncer(&out, newStockIndustryDailySyncer(s.db, s.cache, s.fetch, s.log))
	s.addSyncer(&out, newStockIndustryDetailSyncer(s.db, s.fetch, s.log))
	s.addSyncer(&out, newStockConceptSyncer(s.db, s.fetch, s.log))
	s.addSyncer(&out, newStockConceptDailySyncer(s.db, s.cache, s.fetch, s.log))
	s.addSyncer(&out, newStockConceptDetailSyncer(s.db, s.fetch, s.log))
	s.addSyncer(&out, newYJBBSyncer(s.db, s.fetch, s.log))

	out = append(out, s.prepareHeavySyncer()...)
	return out
}

// Syncers returns every syncer to run this pass, gated on the reference
// cache having been populated (Init must succeed first).
func (s *Store) Syncers(skipBasic bool) ([]syncer.Syncer, error) {
	if !s.cache.Populated() {
		return nil, fmt.Errorf("reference cache not populated: call Init first")
	}
	return s.prepareSyncer(skipBasic), nil
}
