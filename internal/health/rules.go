package health

import (
	"fmt"
	"math"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

// Threshold ladders are ordered (predicate, score) pairs evaluated first
// match wins. Keeping them as data makes each rung testable on its own.
type ladderRung struct {
	applies func(float64) bool
	score   func(float64) float64
}

func evalLadder(rungs []ladderRung, v float64) float64 {
	for _, r := range rungs {
		if r.applies(v) {
			return r.score(v)
		}
	}
	return 50
}

func fixed(score float64) func(float64) float64 {
	return func(float64) float64 { return score }
}

var debtLadder = []ladderRung{
	{func(d float64) bool { return math.IsNaN(d) }, fixed(50)},
	{func(d float64) bool { return d < 0.3 }, fixed(100)},
	{func(d float64) bool { return d < 0.7 }, fixed(80)},
	{func(d float64) bool { return d < 1.5 }, fixed(60)},
	{func(d float64) bool { return true }, func(d float64) float64 { return math.Max(0, 60-(d-1.5)*20) }},
}

var liquidityLadder = []ladderRung{
	{func(r float64) bool { return math.IsNaN(r) }, fixed(50)},
	{func(r float64) bool { return r > 2.5 }, fixed(100)},
	{func(r float64) bool { return r > 2.0 }, fixed(90)},
	{func(r float64) bool { return r > 1.5 }, fixed(75)},
	{func(r float64) bool { return r > 1.0 }, fixed(60)},
	{func(r float64) bool { return true }, fixed(40)},
}

func scoreDebtLevel(debtToEquity float64) float64 {
	return evalLadder(debtLadder, debtToEquity)
}

func scoreLiquidity(currentRatio float64) float64 {
	return evalLadder(liquidityLadder, currentRatio)
}

// scoreCashFlow rewards positive free cash flow in proportion to its yield on
// market cap; negative FCF is a flat concern, missing or zero is neutral.
func scoreCashFlow(c *domain.Company) float64 {
	fcf := c.FreeCashFlow
	switch {
	case domain.IsMissing(fcf) || fcf == 0:
		return 50
	case fcf < 0:
		return 30
	}
	if domain.IsMissing(c.MarketCap) || c.MarketCap <= 0 {
		return domain.Missing()
	}
	fcfYield := fcf / c.MarketCap * 100
	return math.Min(100, 50+fcfYield*10)
}

// adviceRule inspects one signal and contributes at most one pro and one con.
// Rules run in a fixed order so report text is deterministic.
type adviceRule func(c *domain.Company, d DimensionScores) (pro, con string)

var adviceRules = []adviceRule{
	ruleFinancialStrength,
	ruleProfitMargin,
	ruleROE,
	ruleRevenueGrowth,
	rulePERatio,
	rulePEGRatio,
	ruleBeta,
	ruleFreeCashFlow,
	ruleMarketCap,
	ruleReturn1Y,
	ruleDividend,
	ruleSectorGrowth,
	ruleAltmanZ,
}

// generateProsCons evaluates the advice rules in order. At least one pro and
// one con are always present: an empty report is unhelpful, so a generic
// statement backstops each side. The backstop is an explicit post-condition,
// not part of the rule set.
func generateProsCons(c *domain.Company, d DimensionScores) (pros, cons []string) {
	for _, rule := range adviceRules {
		pro, con := rule(c, d)
		if pro != "" {
			pros = append(pros, pro)
		}
		if con != "" {
			cons = append(cons, con)
		}
	}

	if len(pros) == 0 {
		pros = append(pros, "Company has stable operations")
	}
	if len(cons) == 0 {
		cons = append(cons, "Monitor industry competition")
	}
	return pros, cons
}

func ruleFinancialStrength(c *domain.Company, d DimensionScores) (string, string) {
	debt := domain.OrDefault(c.DebtToEquity, 0)
	if d.FinancialStrength > 70 {
		return fmt.Sprintf("Strong financial position with low debt (D/E: %.2f)", debt), ""
	}
	if d.FinancialStrength < 40 {
		return "", fmt.Sprintf("High debt levels may pose risk (D/E: %.2f)", debt)
	}
	return "", ""
}

func ruleProfitMargin(c *domain.Company, _ DimensionScores) (string, string) {
	margin := domain.OrDefault(c.ProfitMargin, 0)
	switch {
	case margin > 0.20:
		return fmt.Sprintf("Exceptional profit margins (%.1f%%)", margin*100), ""
	case margin > 0.10:
		return fmt.Sprintf("Healthy profit margins (%.1f%%)", margin*100), ""
	case margin < 0:
		return "", fmt.Sprintf("Company is currently unprofitable (margin: %.1f%%)", margin*100)
	case margin < 0.05:
		return "", fmt.Sprintf("Thin profit margins (%.1f%%)", margin*100)
	}
	return "", ""
}

func ruleROE(c *domain.Company, _ DimensionScores) (string, string) {
	roe := domain.OrDefault(c.ROE, 0)
	if roe > 0.20 {
		return fmt.Sprintf("Strong return on equity (ROE: %.1f%%)", roe*100), ""
	}
	if roe < 0 {
		return "", "Negative return on equity"
	}
	return "", ""
}

func ruleRevenueGrowth(c *domain.Company, _ DimensionScores) (string, string) {
	growth := domain.OrDefault(c.RevenueGrowth, 0)
	switch {
	case growth > 0.15:
		return fmt.Sprintf("Impressive revenue growth (%.1f%% YoY)", growth*100), ""
	case growth > 0.08:
		return fmt.Sprintf("Solid revenue growth (%.1f%% YoY)", growth*100), ""
	case growth < 0:
		return "", fmt.Sprintf("Declining revenues (%.1f%% YoY)", growth*100)
	case growth < 0.03:
		return "", fmt.Sprintf("Slow revenue growth (%.1f%% YoY)", growth*100)
	}
	return "", ""
}

func rulePERatio(c *domain.Company, _ DimensionScores) (string, string) {
	if domain.IsMissing(c.PERatio) {
		return "", ""
	}
	if c.PERatio < 15 {
		return fmt.Sprintf("Attractively valued (P/E: %.1f)", c.PERatio), ""
	}
	if c.PERatio > 40 {
		return "", fmt.Sprintf("High valuation multiple (P/E: %.1f)", c.PERatio)
	}
	return "", ""
}

func rulePEGRatio(c *domain.Company, _ DimensionScores) (string, string) {
	if domain.IsMissing(c.PEGRatio) || c.PEGRatio <= 0 {
		return "", ""
	}
	if c.PEGRatio < 1.0 {
		return fmt.Sprintf("Growth at reasonable price (PEG: %.2f)", c.PEGRatio), ""
	}
	if c.PEGRatio > 2.0 {
		return "", fmt.Sprintf("Expensive relative to growth (PEG: %.2f)", c.PEGRatio)
	}
	return "", ""
}

func ruleBeta(c *domain.Company, _ DimensionScores) (string, string) {
	beta := domain.OrDefault(c.Beta, 1)
	if beta < 0.8 {
		return fmt.Sprintf("Lower volatility than market (Beta: %.2f)", beta), ""
	}
	if beta > 1.5 {
		return "", fmt.Sprintf("Higher volatility than market (Beta: %.2f)", beta)
	}
	return "", ""
}

func ruleFreeCashFlow(c *domain.Company, _ DimensionScores) (string, string) {
	if domain.IsMissing(c.FreeCashFlow) {
		return "", ""
	}
	if c.FreeCashFlow > 0 {
		return fmt.Sprintf("Generates strong free cash flow ($%.2fB)", c.FreeCashFlow/1e9), ""
	}
	if c.FreeCashFlow < 0 {
		return "", "Negative free cash flow"
	}
	return "", ""
}

func ruleMarketCap(c *domain.Company, _ DimensionScores) (string, string) {
	if c.MarketCap > 100e9 {
		return fmt.Sprintf("Large, established company (%s)", formatMarketCap(c.MarketCap)), ""
	}
	return "", ""
}

func ruleReturn1Y(c *domain.Company, _ DimensionScores) (string, string) {
	if domain.IsMissing(c.Return1Y) {
		return "", ""
	}
	if c.Return1Y > 30 {
		return fmt.Sprintf("Strong 1-year performance (+%.1f%%)", c.Return1Y), ""
	}
	if c.Return1Y < -20 {
		return "", fmt.Sprintf("Poor 1-year performance (%.1f%%)", c.Return1Y)
	}
	return "", ""
}

func ruleDividend(c *domain.Company, _ DimensionScores) (string, string) {
	if !domain.IsMissing(c.DividendYield) && c.DividendYield > 0.02 {
		return fmt.Sprintf("Pays dividend (Yield: %.2f%%)", c.DividendYield*100), ""
	}
	return "", ""
}

func ruleSectorGrowth(c *domain.Company, _ DimensionScores) (string, string) {
	if c.SectorCategory == "tech" && domain.OrDefault(c.RevenueGrowth, 0) > 0.15 {
		return "Strong growth in tech sector", ""
	}
	return "", ""
}

func ruleAltmanZ(c *domain.Company, _ DimensionScores) (string, string) {
	z := domain.OrDefault(c.AltmanZScore, 0)
	if z > 3.0 {
		return "Low bankruptcy risk (Altman Z-Score)", ""
	}
	if z < 1.8 {
		return "", "Higher financial distress risk (Altman Z-Score)"
	}
	return "", ""
}

// Recommendation decision table: ordered guards over (health score bucket,
// risk level). Thresholds are strict lower bounds on the next bucket, so a
// 69.99 health score falls through to the bucket below 70.
var recommendationTable = []struct {
	applies func(health float64, risk string) bool
	text    string
}{
	{func(h float64, r string) bool { return h >= 70 && r == domain.LabelLowRisk },
		"Strong Buy - Excellent health with low risk"},
	{func(h float64, r string) bool { return h >= 70 },
		"Buy - Strong fundamentals, monitor risk factors"},
	{func(h float64, r string) bool { return h >= 60 && r != domain.LabelHighRisk },
		"Buy - Good fundamentals, suitable for growth portfolios"},
	{func(h float64, r string) bool { return h >= 50 && r == domain.LabelLowRisk },
		"Hold - Stable but limited upside potential"},
	{func(h float64, r string) bool { return h >= 50 },
		"Hold - Mixed signals, suitable for risk-tolerant investors"},
	{func(h float64, r string) bool { return h >= 40 },
		"Hold/Sell - Significant concerns, review risk tolerance"},
	{func(h float64, r string) bool { return true },
		"Sell - Poor fundamentals, high risk"},
}

func recommend(health float64, risk string) string {
	for _, row := range recommendationTable {
		if row.applies(health, risk) {
			return row.text
		}
	}
	return recommendationTable[len(recommendationTable)-1].text
}
