package health

import (
	"fmt"
	"strings"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

const reportWidth = 80

// FormatAnalysis renders an analysis as a readable text report.
func FormatAnalysis(a *Analysis) string {
	if !a.Found {
		sample := strings.Join(a.SymbolSample, ", ")
		return fmt.Sprintf("Error: Symbol %s not found in database\nAvailable symbols include: %s\n", a.Symbol, sample)
	}

	var b strings.Builder
	rule := strings.Repeat("=", reportWidth)
	thin := strings.Repeat("-", reportWidth)

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "COMPANY HEALTH ANALYSIS: %s (%s)\n", a.CompanyName, a.Symbol)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Overall Health Score: %.1f%% - %s\n", a.OverallHealth, healthRating(a.OverallHealth))
	fmt.Fprintf(&b, "Risk Level: %s\n", a.RiskLevel)
	fmt.Fprintf(&b, "Recommendation: %s\n", a.Recommendation)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, thin)
	fmt.Fprintln(&b, "HEALTH DIMENSIONS:")
	fmt.Fprintln(&b, thin)
	for _, dim := range []struct {
		name  string
		score float64
	}{
		{"Financial Strength", a.Dimensions.FinancialStrength},
		{"Profitability", a.Dimensions.Profitability},
		{"Growth Trajectory", a.Dimensions.GrowthTrajectory},
		{"Valuation", a.Dimensions.Valuation},
		{"Risk Management", a.Dimensions.RiskManagement},
		{"Market Position", a.Dimensions.MarketPosition},
	} {
		fmt.Fprintf(&b, "%-25s: %5.1f%% %s\n", dim.name, domain.OrDefault(dim.score, 50), scoreBar(domain.OrDefault(dim.score, 50), 20))
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, thin)
	fmt.Fprintln(&b, "KEY METRICS:")
	fmt.Fprintln(&b, thin)
	m := a.KeyMetrics
	fmt.Fprintf(&b, "Market Cap: %s\n", formatMarketCap(m.MarketCap))
	fmt.Fprintf(&b, "Current Price: $%.2f\n", domain.OrDefault(m.CurrentPrice, 0))
	if !domain.IsMissing(m.PERatio) {
		fmt.Fprintf(&b, "P/E Ratio: %.2f\n", m.PERatio)
	}
	fmt.Fprintf(&b, "Profit Margin: %.2f%%\n", domain.OrDefault(m.ProfitMargin, 0)*100)
	fmt.Fprintf(&b, "Revenue Growth: %.2f%%\n", domain.OrDefault(m.RevenueGrowth, 0)*100)
	if !domain.IsMissing(m.DebtToEquity) {
		fmt.Fprintf(&b, "Debt/Equity: %.2f\n", m.DebtToEquity)
	}
	if !domain.IsMissing(m.ROE) {
		fmt.Fprintf(&b, "ROE: %.2f%%\n", m.ROE*100)
	}
	if !domain.IsMissing(m.Beta) {
		fmt.Fprintf(&b, "Beta: %.2f\n", m.Beta)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, thin)
	fmt.Fprintln(&b, "STRENGTHS (PROS):")
	fmt.Fprintln(&b, thin)
	for _, pro := range a.Pros {
		fmt.Fprintf(&b, "  + %s\n", pro)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, thin)
	fmt.Fprintln(&b, "CONCERNS (CONS):")
	fmt.Fprintln(&b, thin)
	for _, con := range a.Cons {
		fmt.Fprintf(&b, "  ! %s\n", con)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)

	return b.String()
}

// healthRating maps a numeric health score to its verbal rating.
func healthRating(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 70:
		return "Very Good"
	case score >= 60:
		return "Good"
	case score >= 50:
		return "Fair"
	case score >= 40:
		return "Below Average"
	default:
		return "Poor"
	}
}

// scoreBar renders a fixed-width fill bar for a [0,100] score.
func scoreBar(score float64, width int) string {
	filled := int(score / 100 * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatMarketCap(marketCap float64) string {
	if domain.IsMissing(marketCap) {
		return "N/A"
	}
	switch {
	case marketCap >= 1e12:
		return fmt.Sprintf("$%.2fT", marketCap/1e12)
	case marketCap >= 1e9:
		return fmt.Sprintf("$%.2fB", marketCap/1e9)
	case marketCap >= 1e6:
		return fmt.Sprintf("$%.2fM", marketCap/1e6)
	default:
		return fmt.Sprintf("$%.0f", marketCap)
	}
}
