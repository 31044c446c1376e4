package mongo

// Database is the logical database name every collection lives under.
const Database = "hiq"

// Collection names, backend-agnostic per the external-interfaces contract.
const (
	TabTradeDate            = "trade_date"
	TabBondInfo              = "bond_info"
	TabBondDaily             = "bond_daily"
	TabFundInfo              = "fund_info"
	TabFundDaily             = "fund_daily"
	TabFundNet               = "fund_net"
	TabIndexInfo             = "index_info"
	TabIndexDaily            = "index_daily"
	TabStockInfo             = "stock_info"
	TabStockDaily            = "stock_daily"
	TabStockIndex            = "stock_index"
	TabStockIndustry         = "stock_industry"
	TabStockIndustryDaily    = "stock_industry_daily"
	TabStockIndustryDetail   = "stock_industry_detail"
	TabStockConcept          = "stock_concept"
	TabStockConceptDaily     = "stock_concept_daily"
	TabStockConceptDetail    = "stock_concept_detail"
	TabStockYJBB             = "stock_yjbb"
	TabStockMargin           = "stock_margin"
)

// DefaultStartDate mirrors watermark.DefaultStartDate; duplicated as a
// string constant here because the original keeps this alongside the
// collection names rather than in the watermark module.
const DefaultStartDate = "2010-01-01"
