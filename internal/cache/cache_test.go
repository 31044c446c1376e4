package cache

import (
	"testing"
	"time"

	"hiqsync/internal/hiqerr"
	"hiqsync/internal/model"
)

func fullSnapshot() Snapshot {
	return Snapshot{
		TradeDates: []int{20240603, 20240604, 20240605},
		IndexInfo:  []model.StockInfo{{Code: "sh000001", Name: "上证指数"}},
		StockInfo:  []model.StockInfo{{Code: "sh600000", Name: "浦发银行"}},
		BondInfo:   []model.BondInfo{{Code: "sz128038", Name: "bond"}},
		FundInfo:   []model.FundInfo{{Code: "sh510300", Name: "fund"}},
	}
}

func TestPopulateRequiresAllFiveTables(t *testing.T) {
	c := New()
	snap := fullSnapshot()
	snap.FundInfo = nil
	if err := c.Populate(snap); err != hiqerr.ErrCacheEmpty {
		t.Fatalf("expected ErrCacheEmpty, got %v", err)
	}
	if c.Populated() {
		t.Fatal("cache should not report populated after a failed Populate")
	}
}

func TestNextTradeDateAdvancesPastInput(t *testing.T) {
	c := New()
	if err := c.Populate(fullSnapshot()); err != nil {
		t.Fatalf("Populate: %v", err)
	}

	d := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	next := c.NextTradeDate(d)
	if !next.After(d) {
		t.Fatalf("NextTradeDate(%v) = %v, want after input", d, next)
	}
	if yyyymmdd(next) != 20240604 {
		t.Fatalf("NextTradeDate(2024-06-03) = %d, want 20240604", yyyymmdd(next))
	}
}

func TestNextTradeDateUnchangedWhenEmpty(t *testing.T) {
	c := New()
	d := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	if got := c.NextTradeDate(d); !got.Equal(d) {
		t.Fatalf("NextTradeDate with no cache = %v, want unchanged %v", got, d)
	}
}
