package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/rank"
)

// excel sheet column layout for ranked tiers.
var excelHeader = []string{
	"Rank", "Symbol", "Company", "Sector", "Market Cap",
	"Rank Score", "Composite", "Quality", "Value", "Growth", "Momentum",
	"P/E", "Profit Margin %", "Revenue Growth %", "Risk", "Profitability",
}

// WriteWorkbook saves every ranked tier into one Excel workbook, one sheet
// per tier plus an Overview sheet.
func WriteWorkbook(path string, universeSize int, results map[domain.Tier]*rank.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeOverviewSheet(f, universeSize, results); err != nil {
		return err
	}

	for _, tier := range tierOrder() {
		r, ok := results[tier]
		if !ok {
			continue
		}
		if err := writeTierSheet(f, r); err != nil {
			return err
		}
	}

	// The default sheet is replaced by Overview.
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeOverviewSheet(f *excelize.File, universeSize int, results map[domain.Tier]*rank.Result) error {
	const sheet = "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"HNI Investment Portfolio Recommendations"},
		{},
		{"Total Universe", universeSize},
		{},
		{"Tier", "Companies", "Top Picks", "Avg Composite", "Total Market Cap", "Profitable %"},
	}
	for _, tier := range tierOrder() {
		r, ok := results[tier]
		if !ok {
			continue
		}
		rows = append(rows, []interface{}{
			r.Description, r.TotalCompanies, r.TopN,
			round2(r.Stats.AvgCompositeScore),
			FormatMarketCap(r.Stats.TotalMarketCap),
			round2(r.Stats.ProfitablePct),
		})
	}

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 36)
}

func writeTierSheet(f *excelize.File, r *rank.Result) error {
	sheet := sheetName(r.Tier)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{}}
	header := make([]interface{}, len(excelHeader))
	for i, h := range excelHeader {
		header[i] = h
	}
	rows[0] = header

	for i := range r.Rankings.Rows {
		c := &r.Rankings.Rows[i]
		rows = append(rows, []interface{}{
			c.Rank, c.Symbol, c.CompanyName, c.SectorCategory,
			FormatMarketCap(c.MarketCap),
			round2(c.RankScore), round2(c.CompositeScore),
			round2(c.QualityScore), round2(c.ValueScore),
			round2(c.GrowthScore), round2(c.MomentumScore),
			cellOrBlank(c.PERatio), cellOrBlank(c.ProfitMargin * 100),
			cellOrBlank(c.RevenueGrowth * 100),
			c.RiskCategory, c.ProfitabilityStatus,
		})
	}

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "C", 34); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "D", "P", 14)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for rowIdx, row := range rows {
		for colIdx, v := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("bad cell coordinate: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func sheetName(tier domain.Tier) string {
	switch tier {
	case domain.TierFlagship:
		return "Magnificent 7"
	case domain.TierGiant:
		return "Giant Cap"
	case domain.TierLarge:
		return "Large Cap"
	case domain.TierMid:
		return "Mid Cap"
	default:
		return "Overall Top Picks"
	}
}

func tierOrder() []domain.Tier {
	return []domain.Tier{domain.TierFlagship, domain.TierGiant, domain.TierLarge, domain.TierMid, domain.TierOverall}
}

// cellOrBlank keeps missing values as empty cells instead of NaN text.
func cellOrBlank(v float64) interface{} {
	if domain.IsMissing(v) {
		return ""
	}
	return round2(v)
}

func round2(v float64) float64 {
	if domain.IsMissing(v) {
		return 0
	}
	return math.Round(v*100) / 100
}
