// Package report renders ranking results and portfolio summaries for human
// consumption: fixed-width text reports, CSV artifacts, and an Excel
// workbook.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/rank"
)

const reportWidth = 100

// FormatMarketCap renders a USD market cap compactly ($2.31T, $45.10B).
func FormatMarketCap(v float64) string {
	switch {
	case domain.IsMissing(v):
		return "N/A"
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatCategoryReport renders one ranked tier: statistics, risk
// distribution, the top-picks table, and a detailed view of the top three.
func FormatCategoryReport(r *rank.Result) string {
	var b strings.Builder
	rule := strings.Repeat("=", reportWidth)
	dash := strings.Repeat("-", reportWidth)

	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", rule, strings.ToUpper(r.Description), rule)

	fmt.Fprintf(&b, "Total Companies: %d\n", r.TotalCompanies)
	fmt.Fprintf(&b, "Top Picks Selected: %d\n", r.TopN)
	fmt.Fprintf(&b, "Average Composite Score: %.2f\n", r.Stats.AvgCompositeScore)
	fmt.Fprintf(&b, "Total Market Cap: %s\n", FormatMarketCap(r.Stats.TotalMarketCap))
	fmt.Fprintf(&b, "Profitable Companies: %.1f%%\n\n", r.Stats.ProfitablePct)

	b.WriteString("Risk Distribution:\n")
	fmt.Fprintf(&b, "  Low Risk:    %5.1f%%\n", r.Stats.LowRiskPct)
	fmt.Fprintf(&b, "  Medium Risk: %5.1f%%\n", r.Stats.MediumRiskPct)
	fmt.Fprintf(&b, "  High Risk:   %5.1f%%\n\n", r.Stats.HighRiskPct)

	fmt.Fprintf(&b, "%s\nTOP PICKS:\n%s\n\n", dash, dash)
	fmt.Fprintf(&b, "%-6s%-8s%-35s%-8s%-9s%-8s%-8s%-12s\n",
		"Rank", "Symbol", "Company", "Score", "Quality", "Value", "Growth", "Risk")
	b.WriteString(dash + "\n")

	for i := range r.TopPicks {
		c := &r.TopPicks[i]
		name := c.CompanyName
		if len(name) > 33 {
			name = name[:33]
		}
		fmt.Fprintf(&b, "%-6d%-8s%-35s%-8.2f%-9.2f%-8.2f%-8.2f%-12s\n",
			c.Rank, c.Symbol, name, c.RankScore,
			c.QualityScore, c.ValueScore, c.GrowthScore, c.RiskCategory)
	}

	fmt.Fprintf(&b, "\n%s\nDETAILED ANALYSIS OF TOP 3:\n%s\n\n", dash, dash)

	for i := range r.TopPicks {
		if i >= 3 {
			break
		}
		c := &r.TopPicks[i]
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, c.Symbol, c.CompanyName)
		fmt.Fprintf(&b, "   Rank Score: %.2f | Market Cap: %s\n", c.RankScore, FormatMarketCap(c.MarketCap))
		fmt.Fprintf(&b, "   P/E: %s | Profit Margin: %s | Revenue Growth: %s\n",
			formatRatio(c.PERatio), formatPct(c.ProfitMargin), formatPct(c.RevenueGrowth))
		fmt.Fprintf(&b, "   Quality: %.1f | Value: %.1f | Growth: %.1f | Momentum: %.1f\n",
			c.QualityScore, c.ValueScore, c.GrowthScore, c.MomentumScore)
		fmt.Fprintf(&b, "   Risk: %s | Profitability: %s\n\n", c.RiskCategory, c.ProfitabilityStatus)
	}

	b.WriteString(rule + "\n")
	return b.String()
}

// InvestmentThesis writes the narrative recommendation block for a tier.
func InvestmentThesis(r *rank.Result) string {
	var b strings.Builder
	dash := strings.Repeat("-", reportWidth)

	fmt.Fprintf(&b, "\nINVESTMENT THESIS - %s\n%s\n\n", r.Description, dash)

	var outlook string
	switch {
	case r.Stats.AvgCompositeScore >= 60:
		outlook = "Strong opportunities with solid fundamentals"
	case r.Stats.AvgCompositeScore >= 50:
		outlook = "Moderate opportunities with selective picks"
	default:
		outlook = "Challenging environment, focus on quality"
	}
	fmt.Fprintf(&b, "Market Outlook: %s\n\n", outlook)

	if len(r.TopPicks) == 0 {
		return b.String()
	}

	top := &r.TopPicks[0]
	fmt.Fprintf(&b, "PRIMARY RECOMMENDATION: %s - %s\n", top.Symbol, top.CompanyName)
	fmt.Fprintf(&b, "  Why: Highest overall score (%.2f) combining strong fundamentals,\n", top.RankScore)
	fmt.Fprintf(&b, "       attractive valuation, and positive momentum. %s with\n", top.ProfitabilityStatus)
	fmt.Fprintf(&b, "       %s margins and %s growth.\n\n",
		formatPct(top.ProfitMargin), formatPct(top.RevenueGrowth))

	if len(r.TopPicks) > 1 {
		b.WriteString("ALTERNATIVE PICKS:\n")
		for i := 1; i < len(r.TopPicks) && i < 3; i++ {
			c := &r.TopPicks[i]
			fmt.Fprintf(&b, "  %d. %s: Strong %s profile\n", i+1, c.Symbol, primaryStrength(c))
		}
	}

	b.WriteString("\n")
	return b.String()
}

// PortfolioSummary is the executive header covering every ranked tier.
func PortfolioSummary(universeSize int, results map[domain.Tier]*rank.Result) string {
	var b strings.Builder
	rule := strings.Repeat("=", reportWidth)
	dash := strings.Repeat("-", reportWidth)

	fmt.Fprintf(&b, "\n%s\n", rule)
	b.WriteString("HNI INVESTMENT PORTFOLIO RECOMMENDATIONS\n")
	b.WriteString("AI-Powered Stock Analysis & Ranking System\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("EXECUTIVE SUMMARY\n")
	b.WriteString(dash + "\n\n")
	fmt.Fprintf(&b, "Total Universe: %d companies analyzed\n", universeSize)
	fmt.Fprintf(&b, "Analysis Date: %s\n\n", time.Now().Format("2006-01-02"))

	b.WriteString("Portfolio Allocation Recommendations:\n")
	if r, ok := results[domain.TierFlagship]; ok {
		fmt.Fprintf(&b, "  - Magnificent 7:      All %d companies ranked\n", r.TotalCompanies)
	}
	if r, ok := results[domain.TierGiant]; ok {
		fmt.Fprintf(&b, "  - Giant Cap (>$500B): Top %d of %d analyzed\n", r.TopN, r.TotalCompanies)
	}
	if r, ok := results[domain.TierLarge]; ok {
		fmt.Fprintf(&b, "  - Large Cap ($100B-$500B): Top %d of %d analyzed\n", r.TopN, r.TotalCompanies)
	}
	if r, ok := results[domain.TierMid]; ok {
		fmt.Fprintf(&b, "  - Mid Cap (<$100B): Top %d of %d analyzed\n", r.TopN, r.TotalCompanies)
	}
	b.WriteString("\n" + rule + "\n\n")

	return b.String()
}

// primaryStrength names the highest of the four category scores.
func primaryStrength(c *domain.Company) string {
	best, bestScore := "quality", c.QualityScore
	for _, cand := range []struct {
		name  string
		score float64
	}{
		{"value", c.ValueScore},
		{"growth", c.GrowthScore},
		{"momentum", c.MomentumScore},
	} {
		if !domain.IsMissing(cand.score) && (domain.IsMissing(bestScore) || cand.score > bestScore) {
			best, bestScore = cand.name, cand.score
		}
	}
	return best
}

func formatRatio(v float64) string {
	if domain.IsMissing(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatPct(v float64) string {
	if domain.IsMissing(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}
