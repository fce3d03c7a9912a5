package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/rank"
)

func TestWriteWorkbook(t *testing.T) {
	flagship := reportResult(
		reportCompany("AAPL", "Apple Inc.", 1, 72.5),
		reportCompany("MSFT", "Microsoft Corporation", 2, 70.1),
	)

	path := filepath.Join(t.TempDir(), "portfolio.xlsx")
	err := WriteWorkbook(path, 150, map[domain.Tier]*rank.Result{domain.TierFlagship: flagship})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Overview")
	assert.Contains(t, sheets, "Magnificent 7")
	assert.NotContains(t, sheets, "Sheet1", "the default sheet is removed")
	assert.NotContains(t, sheets, "Giant Cap", "absent tiers get no sheet")

	title, err := f.GetCellValue("Overview", "A1")
	require.NoError(t, err)
	assert.Equal(t, "HNI Investment Portfolio Recommendations", title)

	symbol, err := f.GetCellValue("Magnificent 7", "B2")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", symbol)

	score, err := f.GetCellValue("Magnificent 7", "F2")
	require.NoError(t, err)
	assert.Equal(t, "72.5", score)

	marketCap, err := f.GetCellValue("Magnificent 7", "E3")
	require.NoError(t, err)
	assert.Equal(t, "$2.31T", marketCap)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 72.46, round2(72.456))
	assert.Equal(t, -1.5, round2(-1.499))
	assert.Equal(t, 0.0, round2(domain.Missing()))
}
