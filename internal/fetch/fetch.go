// Package fetch defines the fetcher façade: typed operations that produce
// normalized records from upstream HTTP endpoints. The per-endpoint
// HTML/JSON/XLSX decoding of any specific upstream is out of scope here —
// this package specifies what each operation returns and may fail with, and
// implements the operational rules that are in scope: two-pass bar
// reconciliation, the seam-duplicate skip, and the skip_rt same-day
// adjustment. Every operation issues a single request; paged responses are
// not followed past the first page. HTTP plumbing follows the teacher's
// service/fetcher.go client idiom (shared *http.Client, base URL from
// config, JSON decode).
package fetch

import (
	"context"
	"time"

	"hiqsync/internal/model"
)

// StockFetcher groups the stock-domain operations the syncers call.
type StockFetcher interface {
	FetchTradeDate(ctx context.Context) ([]int, error)
	FetchStockInfo(ctx context.Context) ([]model.StockInfo, error)
	FetchIndexInfo(ctx context.Context) ([]model.StockInfo, error)
	FetchStockBar(ctx context.Context, code string, name string, freq model.BarFreq, start, end *time.Time, skipRT bool) ([]model.Bar, error)
	FetchIndexBar(ctx context.Context, code string, name string, freq model.BarFreq, start, end *time.Time, skipRT bool) ([]model.Bar, error)
	FetchStockIndex(ctx context.Context, date *time.Time) (map[string]model.StockIndex, error)
	FetchStockIndustry(ctx context.Context) ([]model.StockIndustry, error)
	FetchStockIndustryDetail(ctx context.Context, code, name string) ([]model.StockIndustryDetail, error)
	FetchStockIndustryBar(ctx context.Context, code, name string, start, end *time.Time, skipRT bool) ([]model.Bar, error)
	FetchStockConcept(ctx context.Context) ([]model.StockConcept, error)
	FetchStockConceptDetail(ctx context.Context, code, name string) ([]model.StockConceptDetail, error)
	FetchStockConceptBar(ctx context.Context, code, name string, start, end *time.Time, skipRT bool) ([]model.Bar, error)
	FetchStockYJBB(ctx context.Context, year, season int) ([]model.StockYJBB, error)
	FetchStockMargin(ctx context.Context, code string, start, end *time.Time) ([]model.StockMargin, error)
}

// FundFetcher groups fund-domain operations.
type FundFetcher interface {
	FetchFundInfo(ctx context.Context) ([]model.FundInfo, error)
	FetchFundBar(ctx context.Context, code, name string, start, end *time.Time, skipRT bool) ([]model.Bar, error)
	FetchFundNet(ctx context.Context, code, name string, start, end *time.Time) ([]model.FundNet, error)
}

// BondFetcher groups bond-domain operations.
type BondFetcher interface {
	FetchBondInfo(ctx context.Context) ([]model.BondInfo, error)
	FetchBondBar(ctx context.Context, code, name string, start, end *time.Time, skipRT bool) ([]model.Bar, error)
}

// Fetcher is the full façade a store wires its syncers to.
type Fetcher interface {
	StockFetcher
	FundFetcher
	BondFetcher
}
