package report

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/rank"
)

func reportCompany(symbol, name string, rankNo int, score float64) domain.Company {
	c := domain.NewCompany(symbol)
	c.CompanyName = name
	c.Rank = rankNo
	c.RankScore = score
	c.CompositeScore = score
	c.QualityScore = 70
	c.ValueScore = 60
	c.GrowthScore = 80
	c.MomentumScore = 55
	c.MarketCap = 2.31e12
	c.PERatio = 28.4
	c.ProfitMargin = 0.253
	c.RevenueGrowth = 0.08
	c.RiskCategory = domain.LabelLowRisk
	c.ProfitabilityStatus = domain.StatusHighlyProfitable
	return c
}

func reportResult(picks ...domain.Company) *rank.Result {
	table := domain.NewTable(picks, domain.ScoreColumns()...)
	return &rank.Result{
		Tier:           domain.TierFlagship,
		Description:    "Magnificent 7 Tech Giants",
		TotalCompanies: len(picks),
		TopN:           len(picks),
		Rankings:       table,
		TopPicks:       picks,
		Stats: rank.TierStats{
			AvgCompositeScore: 72.5,
			TotalMarketCap:    12.4e12,
			ProfitablePct:     100,
			LowRiskPct:        71.4,
			MediumRiskPct:     28.6,
		},
	}
}

func TestFormatMarketCap(t *testing.T) {
	assert.Equal(t, "$2.31T", FormatMarketCap(2.31e12))
	assert.Equal(t, "$45.10B", FormatMarketCap(45.1e9))
	assert.Equal(t, "$890.00M", FormatMarketCap(890e6))
	assert.Equal(t, "$512000", FormatMarketCap(512000))
	assert.Equal(t, "N/A", FormatMarketCap(math.NaN()))
}

func TestFormatCategoryReport(t *testing.T) {
	longName := "International Business Machines Corporation"
	r := reportResult(
		reportCompany("AAPL", "Apple Inc.", 1, 72.5),
		reportCompany("MSFT", "Microsoft Corporation", 2, 70.1),
		reportCompany("IBM", longName, 3, 65.0),
		reportCompany("ORCL", "Oracle Corporation", 4, 60.0),
	)

	out := FormatCategoryReport(r)

	assert.Contains(t, out, "MAGNIFICENT 7 TECH GIANTS", "description is upper-cased in the banner")
	assert.Contains(t, out, "Total Companies: 4")
	assert.Contains(t, out, "Average Composite Score: 72.50")
	assert.Contains(t, out, "Total Market Cap: $12.40T")
	assert.Contains(t, out, "Low Risk:     71.4%")

	assert.Contains(t, out, "Rank")
	assert.Contains(t, out, "TOP PICKS:")
	assert.Contains(t, out, "Apple Inc.")
	assert.Contains(t, out, longName[:33], "long names are truncated in the table")

	assert.Contains(t, out, "DETAILED ANALYSIS OF TOP 3:")
	assert.Contains(t, out, "1. AAPL - Apple Inc.")
	assert.Contains(t, out, "3. IBM - "+longName, "the detail block uses the untruncated name")
	assert.NotContains(t, out, "4. ORCL", "detail covers only the top three")
	assert.Contains(t, out, "P/E: 28.40 | Profit Margin: 25.30% | Revenue Growth: 8.00%")

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), reportWidth, "rules and rows stay within the report width")
	}
}

func TestInvestmentThesis_Outlooks(t *testing.T) {
	r := reportResult(reportCompany("AAPL", "Apple Inc.", 1, 72.5))
	r.Stats.AvgCompositeScore = 60
	assert.Contains(t, InvestmentThesis(r), "Strong opportunities with solid fundamentals")

	r.Stats.AvgCompositeScore = 59.99
	assert.Contains(t, InvestmentThesis(r), "Moderate opportunities with selective picks")

	r.Stats.AvgCompositeScore = 49.99
	assert.Contains(t, InvestmentThesis(r), "Challenging environment, focus on quality")
}

func TestInvestmentThesis_Picks(t *testing.T) {
	alt := reportCompany("MSFT", "Microsoft Corporation", 2, 70.1)
	alt.MomentumScore = 95 // momentum is its standout category
	r := reportResult(reportCompany("AAPL", "Apple Inc.", 1, 72.5), alt)

	out := InvestmentThesis(r)
	assert.Contains(t, out, "PRIMARY RECOMMENDATION: AAPL - Apple Inc.")
	assert.Contains(t, out, "Highest overall score (72.50)")
	assert.Contains(t, out, "2. MSFT: Strong momentum profile")
}

func TestInvestmentThesis_EmptyTier(t *testing.T) {
	r := reportResult()
	out := InvestmentThesis(r)
	assert.Contains(t, out, "Market Outlook:")
	assert.NotContains(t, out, "PRIMARY RECOMMENDATION")
}

func TestPortfolioSummary(t *testing.T) {
	results := map[domain.Tier]*rank.Result{
		domain.TierFlagship: reportResult(reportCompany("AAPL", "Apple Inc.", 1, 72.5)),
		domain.TierMid:      {TotalCompanies: 40, TopN: 10},
	}

	out := PortfolioSummary(150, results)
	assert.Contains(t, out, "HNI INVESTMENT PORTFOLIO RECOMMENDATIONS")
	assert.Contains(t, out, "Total Universe: 150 companies analyzed")
	assert.Contains(t, out, "Magnificent 7:      All 1 companies ranked")
	assert.Contains(t, out, "Mid Cap (<$100B): Top 10 of 40 analyzed")
	assert.NotContains(t, out, "Giant Cap", "absent tiers are skipped")
}

func TestPrimaryStrength(t *testing.T) {
	c := domain.NewCompany("A")
	c.QualityScore = 80
	c.ValueScore = 60
	c.GrowthScore = 90
	c.MomentumScore = 50
	assert.Equal(t, "growth", primaryStrength(&c))

	all := domain.NewCompany("B")
	assert.Equal(t, "quality", primaryStrength(&all), "all-missing scores fall back to quality")
}
