package rank

import (
	"math"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

// TierStats summarizes one ranked population for reporting.
type TierStats struct {
	AvgCompositeScore float64
	AvgQualityScore   float64
	AvgValueScore     float64
	AvgGrowthScore    float64
	AvgMomentumScore  float64
	AvgMarketCap      float64
	TotalMarketCap    float64
	ProfitablePct     float64
	LowRiskPct        float64
	MediumRiskPct     float64
	HighRiskPct       float64
}

func computeTierStats(t *domain.Table) TierStats {
	n := t.Len()
	if n == 0 {
		return TierStats{}
	}

	var stats TierStats
	stats.AvgCompositeScore = columnMean(t, domain.ColCompositeScore)
	stats.AvgQualityScore = columnMean(t, domain.ColQualityScore)
	stats.AvgValueScore = columnMean(t, domain.ColValueScore)
	stats.AvgGrowthScore = columnMean(t, domain.ColGrowthScore)
	stats.AvgMomentumScore = columnMean(t, domain.ColMomentumScore)

	var profitable, low, medium, high int
	for i := range t.Rows {
		c := &t.Rows[i]
		if !domain.IsMissing(c.MarketCap) {
			stats.TotalMarketCap += c.MarketCap
		}
		switch c.ProfitabilityStatus {
		case domain.StatusMarginallyProfitable, domain.StatusProfitable, domain.StatusHighlyProfitable:
			profitable++
		}
		switch c.RiskCategory {
		case domain.LabelLowRisk:
			low++
		case domain.LabelMediumRisk:
			medium++
		case domain.LabelHighRisk:
			high++
		}
	}

	stats.AvgMarketCap = columnMean(t, domain.ColMarketCap)
	stats.ProfitablePct = float64(profitable) / float64(n) * 100
	stats.LowRiskPct = float64(low) / float64(n) * 100
	stats.MediumRiskPct = float64(medium) / float64(n) * 100
	stats.HighRiskPct = float64(high) / float64(n) * 100
	return stats
}

// columnMean averages the non-missing values of a numeric column.
func columnMean(t *domain.Table, name string) float64 {
	values, ok := t.Column(name)
	if !ok {
		return math.NaN()
	}
	return domain.Mean(values...)
}
