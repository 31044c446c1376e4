// Package cache implements the reference cache: a process-wide, read-mostly
// snapshot of slow-changing reference datasets, populated once per run and
// read concurrently by every syncer thereafter. Grounded on the HiqCache
// struct in the original store package (RwLock<HashMap<...>> fields plus a
// next_trade_date walker).
package cache

import (
	"sort"
	"sync"
	"time"

	"hiqsync/internal/hiqerr"
	"hiqsync/internal/model"
)

// ReferenceCache holds the five optional reference tables. All fields are
// absent (nil) until Populate succeeds; after that, reads are lock-free from
// the syncers' standpoint except for the internal RWMutex guarding the
// fields themselves (cheap, since writes only ever happen once per run).
type ReferenceCache struct {
	mu sync.RWMutex

	tradeDates map[int]struct{}
	indexInfo  map[string]model.StockInfo
	stockInfo  map[string]model.StockInfo
	bondInfo   map[string]model.BondInfo
	fundInfo   map[string]model.FundInfo

	populated bool
}

// New returns an empty cache; call Populate before any syncer reads it.
func New() *ReferenceCache {
	return &ReferenceCache{}
}

// Snapshot is the raw material handed to Populate, coming either from a live
// fetch or, under skip_basic, from a store-backed read of the same shape.
type Snapshot struct {
	TradeDates []int
	IndexInfo  []model.StockInfo
	StockInfo  []model.StockInfo
	BondInfo   []model.BondInfo
	FundInfo   []model.FundInfo
}

// Populate writes all five tables in one locked section. Every table must be
// non-empty; a partially populated cache is a fatal condition for the run.
func (c *ReferenceCache) Populate(s Snapshot) error {
	if len(s.TradeDates) == 0 || len(s.IndexInfo) == 0 || len(s.StockInfo) == 0 ||
		len(s.BondInfo) == 0 || len(s.FundInfo) == 0 {
		return hiqerr.ErrCacheEmpty
	}

	dates := make(map[int]struct{}, len(s.TradeDates))
	for _, d := range s.TradeDates {
		dates[d] = struct{}{}
	}
	indexInfo := make(map[string]model.StockInfo, len(s.IndexInfo))
	for _, i := range s.IndexInfo {
		indexInfo[i.Code] = i
	}
	stockInfo := make(map[string]model.StockInfo, len(s.StockInfo))
	for _, i := range s.StockInfo {
		stockInfo[i.Code] = i
	}
	bondInfo := make(map[string]model.BondInfo, len(s.BondInfo))
	for _, i := range s.BondInfo {
		bondInfo[i.Code] = i
	}
	fundInfo := make(map[string]model.FundInfo, len(s.FundInfo))
	for _, i := range s.FundInfo {
		fundInfo[i.Code] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tradeDates = dates
	c.indexInfo = indexInfo
	c.stockInfo = stockInfo
	c.bondInfo = bondInfo
	c.fundInfo = fundInfo
	c.populated = true
	return nil
}

// Populated reports whether Populate has succeeded.
func (c *ReferenceCache) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.populated
}

// NextTradeDate returns the smallest calendar day after d present in the
// trade-date set. If the set is absent, d is returned unchanged.
func (c *ReferenceCache) NextTradeDate(d time.Time) time.Time {
	c.mu.RLock()
	dates := c.tradeDates
	c.mu.RUnlock()

	if dates == nil {
		return d
	}
	cur := d
	for {
		cur = cur.AddDate(0, 0, 1)
		if _, ok := dates[yyyymmdd(cur)]; ok {
			return cur
		}
	}
}

// TradeDates returns a sorted copy of the cached trade-date set.
func (c *ReferenceCache) TradeDates() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]int, 0, len(c.tradeDates))
	for d := range c.tradeDates {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// StockInfo returns a snapshot slice of the cached stock-info table.
func (c *ReferenceCache) StockInfo() []model.StockInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.StockInfo, 0, len(c.stockInfo))
	for _, v := range c.stockInfo {
		out = append(out, v)
	}
	return out
}

func (c *ReferenceCache) IndexInfo() []model.StockInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.StockInfo, 0, len(c.indexInfo))
	for _, v := range c.indexInfo {
		out = append(out, v)
	}
	return out
}

func (c *ReferenceCache) BondInfo() []model.BondInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.BondInfo, 0, len(c.bondInfo))
	for _, v := range c.bondInfo {
		out = append(out, v)
	}
	return out
}

func (c *ReferenceCache) FundInfo() []model.FundInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.FundInfo, 0, len(c.fundInfo))
	for _, v := range c.fundInfo {
		out = append(out, v)
	}
	return out
}

func yyyymmdd(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
