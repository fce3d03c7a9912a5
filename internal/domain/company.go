package domain

// Tier is one of the four mutually exclusive market-cap buckets used for
// ranking scope.
type Tier string

const (
	TierFlagship Tier = "flagship"
	TierGiant    Tier = "giant"
	TierLarge    Tier = "large"
	TierMid      Tier = "mid"
	TierOverall  Tier = "overall"
)

// Market-cap thresholds for tier classification, in USD.
const (
	GiantCapFloor = 500e9
	LargeCapFloor = 100e9
)

// Risk and health labels. These are ordered three-level categorical bins
// derived from numeric thresholds, never free text.
const (
	LabelLowRisk    = "Low Risk"
	LabelMediumRisk = "Medium Risk"
	LabelHighRisk   = "High Risk"
)

// Profitability status labels.
const (
	StatusHighlyProfitable     = "Highly Profitable"
	StatusProfitable           = "Profitable"
	StatusMarginallyProfitable = "Marginally Profitable"
	StatusUnprofitable         = "Unprofitable"
)

// Company is one row of the universe table: identity, raw financial metrics
// supplied by the collector, and derived fields added by the scoring pipeline.
// Missing numeric values are NaN.
type Company struct {
	// Identity. Symbol is the unique key within a table.
	Symbol         string
	CompanyName    string
	SectorCategory string

	// Market data
	CurrentPrice float64
	MarketCap    float64

	// Valuation ratios
	PERatio      float64
	ForwardPE    float64
	PEGRatio     float64
	PriceToBook  float64
	PriceToSales float64

	// Profitability
	ProfitMargin    float64
	OperatingMargin float64
	GrossMargin     float64
	ROE             float64
	ROA             float64

	// Growth (fractions, e.g. 0.12 = 12% YoY)
	RevenueGrowth  float64
	EarningsGrowth float64

	// Financial health
	DebtToEquity float64
	CurrentRatio float64
	QuickRatio   float64

	// Cash flow (USD)
	FreeCashFlow      float64
	OperatingCashFlow float64

	// Risk
	Beta          float64
	Volatility30d float64
	Volatility90d float64

	// Multi-horizon returns (percent)
	Return1M float64
	Return3M float64
	Return6M float64
	Return1Y float64

	// Income
	DividendYield float64

	// Derived: scoring pipeline output
	PEGRatioCalculated float64
	QualityScoreRaw    float64
	ValueScoreRaw      float64
	GrowthScoreRaw     float64
	MomentumScoreRaw   float64
	QualityScore       float64
	ValueScore         float64
	GrowthScore        float64
	MomentumScore      float64
	CompositeScore     float64

	// Derived: health and risk classification
	AltmanZScore        float64
	FinancialHealth     string
	IsProfitable        bool
	ProfitabilityStatus string
	RiskScore           float64
	RiskCategory        string

	// Derived: ranking
	RankScore float64
	Rank      int
}

// Canonical column names. The column contract between the external collector,
// the scoring pipeline, and the ranking engine is expressed in these names.
const (
	ColSymbol         = "symbol"
	ColCompanyName    = "company_name"
	ColSectorCategory = "sector_category"

	ColCurrentPrice = "current_price"
	ColMarketCap    = "market_cap"

	ColPERatio      = "pe_ratio"
	ColForwardPE    = "forward_pe"
	ColPEGRatio     = "peg_ratio"
	ColPriceToBook  = "price_to_book"
	ColPriceToSales = "price_to_sales"

	ColProfitMargin    = "profit_margin"
	ColOperatingMargin = "operating_margin"
	ColGrossMargin     = "gross_margin"
	ColROE             = "roe"
	ColROA             = "roa"

	ColRevenueGrowth  = "revenue_growth"
	ColEarningsGrowth = "earnings_growth"

	ColDebtToEquity = "debt_to_equity"
	ColCurrentRatio = "current_ratio"
	ColQuickRatio   = "quick_ratio"

	ColFreeCashFlow      = "free_cash_flow"
	ColOperatingCashFlow = "operating_cash_flow"

	ColBeta          = "beta"
	ColVolatility30d = "volatility_30d"
	ColVolatility90d = "volatility_90d"

	ColReturn1M = "return_1m"
	ColReturn3M = "return_3m"
	ColReturn6M = "return_6m"
	ColReturn1Y = "return_1y"

	ColDividendYield = "dividend_yield"

	ColPEGRatioCalculated = "peg_ratio_calculated"
	ColQualityScoreRaw    = "quality_score_raw"
	ColValueScoreRaw      = "value_score_raw"
	ColGrowthScoreRaw     = "growth_score_raw"
	ColMomentumScoreRaw   = "momentum_score_raw"
	ColQualityScore       = "quality_score"
	ColValueScore         = "value_score"
	ColGrowthScore        = "growth_score"
	ColMomentumScore      = "momentum_score"
	ColCompositeScore     = "composite_score"

	ColAltmanZScore        = "altman_z_score"
	ColFinancialHealth     = "financial_health"
	ColIsProfitable        = "is_profitable"
	ColProfitabilityStatus = "profitability_status"
	ColRiskScore           = "risk_score"
	ColRiskCategory        = "risk_category"

	ColRankScore = "rank_score"
	ColRank      = "rank"
)

// numericColumns maps every numeric column name to an accessor on Company.
// Table-level column operations (extraction, bulk set, serialization) go
// through this registry.
var numericColumns = map[string]func(*Company) *float64{
	ColCurrentPrice:       func(c *Company) *float64 { return &c.CurrentPrice },
	ColMarketCap:          func(c *Company) *float64 { return &c.MarketCap },
	ColPERatio:            func(c *Company) *float64 { return &c.PERatio },
	ColForwardPE:          func(c *Company) *float64 { return &c.ForwardPE },
	ColPEGRatio:           func(c *Company) *float64 { return &c.PEGRatio },
	ColPriceToBook:        func(c *Company) *float64 { return &c.PriceToBook },
	ColPriceToSales:       func(c *Company) *float64 { return &c.PriceToSales },
	ColProfitMargin:       func(c *Company) *float64 { return &c.ProfitMargin },
	ColOperatingMargin:    func(c *Company) *float64 { return &c.OperatingMargin },
	ColGrossMargin:        func(c *Company) *float64 { return &c.GrossMargin },
	ColROE:                func(c *Company) *float64 { return &c.ROE },
	ColROA:                func(c *Company) *float64 { return &c.ROA },
	ColRevenueGrowth:      func(c *Company) *float64 { return &c.RevenueGrowth },
	ColEarningsGrowth:     func(c *Company) *float64 { return &c.EarningsGrowth },
	ColDebtToEquity:       func(c *Company) *float64 { return &c.DebtToEquity },
	ColCurrentRatio:       func(c *Company) *float64 { return &c.CurrentRatio },
	ColQuickRatio:         func(c *Company) *float64 { return &c.QuickRatio },
	ColFreeCashFlow:       func(c *Company) *float64 { return &c.FreeCashFlow },
	ColOperatingCashFlow:  func(c *Company) *float64 { return &c.OperatingCashFlow },
	ColBeta:               func(c *Company) *float64 { return &c.Beta },
	ColVolatility30d:      func(c *Company) *float64 { return &c.Volatility30d },
	ColVolatility90d:      func(c *Company) *float64 { return &c.Volatility90d },
	ColReturn1M:           func(c *Company) *float64 { return &c.Return1M },
	ColReturn3M:           func(c *Company) *float64 { return &c.Return3M },
	ColReturn6M:           func(c *Company) *float64 { return &c.Return6M },
	ColReturn1Y:           func(c *Company) *float64 { return &c.Return1Y },
	ColDividendYield:      func(c *Company) *float64 { return &c.DividendYield },
	ColPEGRatioCalculated: func(c *Company) *float64 { return &c.PEGRatioCalculated },
	ColQualityScoreRaw:    func(c *Company) *float64 { return &c.QualityScoreRaw },
	ColValueScoreRaw:      func(c *Company) *float64 { return &c.ValueScoreRaw },
	ColGrowthScoreRaw:     func(c *Company) *float64 { return &c.GrowthScoreRaw },
	ColMomentumScoreRaw:   func(c *Company) *float64 { return &c.MomentumScoreRaw },
	ColQualityScore:       func(c *Company) *float64 { return &c.QualityScore },
	ColValueScore:         func(c *Company) *float64 { return &c.ValueScore },
	ColGrowthScore:        func(c *Company) *float64 { return &c.GrowthScore },
	ColMomentumScore:      func(c *Company) *float64 { return &c.MomentumScore },
	ColCompositeScore:     func(c *Company) *float64 { return &c.CompositeScore },
	ColAltmanZScore:       func(c *Company) *float64 { return &c.AltmanZScore },
	ColRiskScore:          func(c *Company) *float64 { return &c.RiskScore },
	ColRankScore:          func(c *Company) *float64 { return &c.RankScore },
}

// RawMetricColumns is the full raw-metric column contract an external
// collector can populate.
func RawMetricColumns() []string {
	return []string{
		ColCurrentPrice, ColMarketCap,
		ColPERatio, ColForwardPE, ColPEGRatio, ColPriceToBook, ColPriceToSales,
		ColProfitMargin, ColOperatingMargin, ColGrossMargin, ColROE, ColROA,
		ColRevenueGrowth, ColEarningsGrowth,
		ColDebtToEquity, ColCurrentRatio, ColQuickRatio,
		ColFreeCashFlow, ColOperatingCashFlow,
		ColBeta, ColVolatility30d, ColVolatility90d,
		ColReturn1M, ColReturn3M, ColReturn6M, ColReturn1Y,
		ColDividendYield,
	}
}

// ScoreColumns are the five normalized score columns the ranking engine
// requires.
func ScoreColumns() []string {
	return []string{ColCompositeScore, ColQualityScore, ColValueScore, ColGrowthScore, ColMomentumScore}
}

// ColumnValue returns the value of a numeric column on a company. The second
// return is false when the name is not a numeric column.
func ColumnValue(c *Company, name string) (float64, bool) {
	acc, ok := numericColumns[name]
	if !ok {
		return 0, false
	}
	return *acc(c), true
}

// SetColumnValue sets a numeric column on a company. Returns false when the
// name is not a numeric column.
func SetColumnValue(c *Company, name string, v float64) bool {
	acc, ok := numericColumns[name]
	if !ok {
		return false
	}
	*acc(c) = v
	return true
}

// IsNumericColumn reports whether name addresses a numeric column.
func IsNumericColumn(name string) bool {
	_, ok := numericColumns[name]
	return ok
}
