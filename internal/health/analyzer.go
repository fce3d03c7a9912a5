package health

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

// DimensionWeights allocates the overall health score across the six health
// dimensions. Must sum to 1.0.
type DimensionWeights struct {
	FinancialStrength float64 `yaml:"financial_strength"`
	Profitability     float64 `yaml:"profitability"`
	GrowthTrajectory  float64 `yaml:"growth_trajectory"`
	Valuation         float64 `yaml:"valuation"`
	RiskManagement    float64 `yaml:"risk_management"`
	MarketPosition    float64 `yaml:"market_position"`
}

func DefaultDimensionWeights() DimensionWeights {
	return DimensionWeights{
		FinancialStrength: 0.25,
		Profitability:     0.20,
		GrowthTrajectory:  0.20,
		Valuation:         0.15,
		RiskManagement:    0.10,
		MarketPosition:    0.10,
	}
}

func (w DimensionWeights) Sum() float64 {
	return w.FinancialStrength + w.Profitability + w.GrowthTrajectory +
		w.Valuation + w.RiskManagement + w.MarketPosition
}

func (w DimensionWeights) Validate() error {
	if sum := w.Sum(); math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("health dimension weights sum to %.4f, expected 1.0", sum)
	}
	return nil
}

// DimensionScores are the six health dimensions, each in [0,100].
type DimensionScores struct {
	FinancialStrength float64
	Profitability     float64
	GrowthTrajectory  float64
	Valuation         float64
	RiskManagement    float64
	MarketPosition    float64
}

// KeyMetrics is the raw-metric snapshot attached to every analysis.
type KeyMetrics struct {
	CurrentPrice  float64
	MarketCap     float64
	PERatio       float64
	ProfitMargin  float64
	RevenueGrowth float64
	DebtToEquity  float64
	ROE           float64
	Beta          float64
	DividendYield float64
}

// Analysis is the complete health result for one symbol. A lookup miss is an
// expected outcome, not an error: Found is false and SymbolSample carries a
// few valid symbols to point the caller at.
type Analysis struct {
	Symbol        string
	CompanyName   string
	Found         bool
	SymbolSample  []string
	OverallHealth float64
	Dimensions    DimensionScores
	Pros          []string
	Cons          []string
	RiskLevel     string
	Recommendation string
	KeyMetrics    KeyMetrics
	Sector        string
	MarketCap     float64
}

// Analyzer computes multi-dimension health analyses over an engineered table.
// It reads the table only; repeated analyses are idempotent.
type Analyzer struct {
	table   *domain.Table
	weights DimensionWeights
}

const symbolSampleSize = 20

func NewAnalyzer(t *domain.Table, weights DimensionWeights) (*Analyzer, error) {
	if t == nil {
		return nil, fmt.Errorf("nil company table")
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	log.Info().Int("companies", t.Len()).Msg("health analyzer ready")
	return &Analyzer{table: t, weights: weights}, nil
}

// Analyze produces the full health analysis for one symbol. Lookup is
// case-insensitive.
func (a *Analyzer) Analyze(symbol string) *Analysis {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	company, ok := a.table.Lookup(symbol)
	if !ok {
		sample := a.table.Symbols()
		if len(sample) > symbolSampleSize {
			sample = sample[:symbolSampleSize]
		}
		log.Warn().Str("symbol", symbol).Msg("symbol not found in universe")
		return &Analysis{Symbol: symbol, Found: false, SymbolSample: sample}
	}

	log.Info().Str("symbol", symbol).Str("company", company.CompanyName).Msg("analyzing company health")

	dims := a.dimensionScores(&company)
	overall := a.overallHealth(dims)
	pros, cons := generateProsCons(&company, dims)
	risk := assessRiskLevel(&company)

	return &Analysis{
		Symbol:         symbol,
		CompanyName:    company.CompanyName,
		Found:          true,
		OverallHealth:  round2(overall),
		Dimensions:     dims,
		Pros:           pros,
		Cons:           cons,
		RiskLevel:      risk,
		Recommendation: recommend(overall, risk),
		KeyMetrics: KeyMetrics{
			CurrentPrice:  company.CurrentPrice,
			MarketCap:     company.MarketCap,
			PERatio:       company.PERatio,
			ProfitMargin:  company.ProfitMargin,
			RevenueGrowth: company.RevenueGrowth,
			DebtToEquity:  company.DebtToEquity,
			ROE:           company.ROE,
			Beta:          company.Beta,
			DividendYield: company.DividendYield,
		},
		Sector:    company.SectorCategory,
		MarketCap: company.MarketCap,
	}
}

func (a *Analyzer) dimensionScores(c *domain.Company) DimensionScores {
	var d DimensionScores

	// Financial strength: debt, cash flow, liquidity.
	d.FinancialStrength = domain.Mean(scoreDebtLevel(c.DebtToEquity), scoreCashFlow(c), scoreLiquidity(c.CurrentRatio))

	// Profitability: margins and ROE scaled against the 20% excellence bar,
	// plus the pipeline's quality score.
	marginScore := math.Min(100, c.ProfitMargin*500)
	roeScore := math.Min(100, c.ROE*500)
	d.Profitability = domain.Mean(marginScore, roeScore, domain.OrDefault(c.QualityScore, 50))

	// Growth trajectory and valuation pass through the pipeline scores.
	d.GrowthTrajectory = domain.OrDefault(c.GrowthScore, 50)
	d.Valuation = domain.OrDefault(c.ValueScore, 50)

	// Risk management: inverted risk score plus distance of beta from market.
	riskScore := 100 - domain.OrDefault(c.RiskScore, 5)*10
	betaScore := math.Max(0, 100-math.Abs(c.Beta-1)*50)
	d.RiskManagement = domain.Mean(riskScore, betaScore)

	// Market position: size on a log scale plus momentum.
	sizeScore := 0.0
	if c.MarketCap > 0 {
		sizeScore = math.Min(100, math.Log10(c.MarketCap)*10)
	}
	d.MarketPosition = domain.Mean(sizeScore, domain.OrDefault(c.MomentumScore, 50))

	d.FinancialStrength = round2(d.FinancialStrength)
	d.Profitability = round2(d.Profitability)
	d.GrowthTrajectory = round2(d.GrowthTrajectory)
	d.Valuation = round2(d.Valuation)
	d.RiskManagement = round2(d.RiskManagement)
	d.MarketPosition = round2(d.MarketPosition)
	return d
}

func (a *Analyzer) overallHealth(d DimensionScores) float64 {
	overall := score(d.FinancialStrength)*a.weights.FinancialStrength +
		score(d.Profitability)*a.weights.Profitability +
		score(d.GrowthTrajectory)*a.weights.GrowthTrajectory +
		score(d.Valuation)*a.weights.Valuation +
		score(d.RiskManagement)*a.weights.RiskManagement +
		score(d.MarketPosition)*a.weights.MarketPosition
	return math.Min(100, math.Max(0, overall))
}

// score substitutes the neutral midpoint for a dimension that could not be
// computed at all.
func score(v float64) float64 {
	return domain.OrDefault(v, 50)
}

// assessRiskLevel combines three binary high/low signals by majority count.
func assessRiskLevel(c *domain.Company) string {
	var high, low int

	switch c.RiskCategory {
	case domain.LabelHighRisk:
		high++
	case domain.LabelLowRisk:
		low++
	}
	switch c.FinancialHealth {
	case domain.LabelHighRisk:
		high++
	case domain.LabelLowRisk:
		low++
	}
	if !c.IsProfitable {
		high++
	}

	switch {
	case high >= 2:
		return domain.LabelHighRisk
	case low >= 2:
		return domain.LabelLowRisk
	default:
		return domain.LabelMediumRisk
	}
}

func round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}
