// Package model holds the domain types shared across the fetch/cache/syncer/
// store layers: reference and time-series entities, the enumerations that
// drive dataset dispatch, and the code-normalization rule.
package model

import "fmt"

// BarFreq enumerates the bar interval codes a fetcher may be asked for.
type BarFreq int

const (
	Freq1m        BarFreq = 1
	Freq5m        BarFreq = 5
	Freq15m       BarFreq = 15
	Freq30m       BarFreq = 30
	Freq60m       BarFreq = 60
	FreqDaily     BarFreq = 101
	FreqWeekly    BarFreq = 102
	FreqMonthly   BarFreq = 103
	FreqLooseDaily BarFreq = 1010
)

// Market identifies a listing exchange.
type Market int

const (
	MarketSZ Market = 0
	MarketSH Market = 1
	MarketBJ Market = 2
)

// MarketType drives the code-prefix rule in ToStdCode.
type MarketType int

const (
	MarketTypeBond  MarketType = 0
	MarketTypeFund  MarketType = 1
	MarketTypeStock MarketType = 2
)

// DataType identifies a syncer/dataset, matching the 19 dataset names
// accepted on the CLI's -f flag.
type DataType int

const (
	DataTypeTradeDate DataType = iota + 1
	DataTypeIndexInfo
	DataTypeIndexBar
	DataTypeStockInfo
	DataTypeStockBar
	DataTypeStockIndex
	DataTypeStockIndustry
	DataTypeStockIndustryDetail
	DataTypeStockIndustryBar
	DataTypeStockConcept
	DataTypeStockConceptDetail
	DataTypeStockConceptBar
	DataTypeStockYJBB
	DataTypeStockMargin
	DataTypeFundInfo
	DataTypeFundNet
	DataTypeFundBar
	DataTypeBondInfo
	DataTypeBondBar
)

var dataTypeNames = map[string]DataType{
	"trade_date":               DataTypeTradeDate,
	"index_info":               DataTypeIndexInfo,
	"index_daily":              DataTypeIndexBar,
	"stock_info":               DataTypeStockInfo,
	"stock_daily":              DataTypeStockBar,
	"stock_index":              DataTypeStockIndex,
	"stock_industry":           DataTypeStockIndustry,
	"stock_industry_detail":    DataTypeStockIndustryDetail,
	"stock_industry_daily":     DataTypeStockIndustryBar,
	"stock_concept":            DataTypeStockConcept,
	"stock_concept_detail":     DataTypeStockConceptDetail,
	"stock_concept_daily":      DataTypeStockConceptBar,
	"stock_yjbb":               DataTypeStockYJBB,
	"stock_margin":             DataTypeStockMargin,
	"fund_info":                DataTypeFundInfo,
	"fund_net":                 DataTypeFundNet,
	"fund_daily":               DataTypeFundBar,
	"bond_info":                DataTypeBondInfo,
	"bond_daily":               DataTypeBondBar,
}

// ParseDataType resolves one of the 19 accepted dataset names.
func ParseDataType(name string) (DataType, error) {
	dt, ok := dataTypeNames[name]
	if !ok {
		return 0, fmt.Errorf("hiqsync: unknown dataset name %q", name)
	}
	return dt, nil
}

// DestType identifies a store backend. Only Mongo is fully implemented; the
// rest are declared for the CLI's -d flag and fail fast with
// hiqerr.ErrNotImplemented.
type DestType int

const (
	DestTypeFile DestType = iota + 1
	DestTypeMongoDB
	DestTypeMySQL
	DestTypeClickHouse
)

// ParseDestKind resolves the "<kind>" half of a "<kind>=<url>" dest spec.
func ParseDestKind(kind string) (DestType, error) {
	switch kind {
	case "file":
		return DestTypeFile, nil
	case "mongodb":
		return DestTypeMongoDB, nil
	case "mysql":
		return DestTypeMySQL, nil
	case "clickhouse":
		return DestTypeClickHouse, nil
	default:
		return 0, fmt.Errorf("hiqsync: unknown dest kind %q", kind)
	}
}

func (d DestType) String() string {
	switch d {
	case DestTypeFile:
		return "file"
	case DestTypeMongoDB:
		return "mongodb"
	case DestTypeMySQL:
		return "mysql"
	case DestTypeClickHouse:
		return "clickhouse"
	default:
		return "unknown"
	}
}
