package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

func writeFundamentals(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fundamentals.csv")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadFundamentals(t *testing.T) {
	path := writeFundamentals(t, `symbol,profit_margin,roe,debt_to_equity
aapl,0.25,0.35,
MSFT,,0.40,0.5
`)

	table, err := LoadFundamentals(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	aapl, ok := table.Lookup("AAPL")
	require.True(t, ok, "symbols are upper-cased on load")
	assert.InDelta(t, 0.25, aapl.ProfitMargin, 1e-9)
	assert.InDelta(t, 0.35, aapl.ROE, 1e-9)
	assert.True(t, domain.IsMissing(aapl.DebtToEquity), "blank cells stay missing")

	msft, _ := table.Lookup("MSFT")
	assert.True(t, domain.IsMissing(msft.ProfitMargin))
	assert.InDelta(t, 0.5, msft.DebtToEquity, 1e-9)
}

func TestLoadFundamentals_Errors(t *testing.T) {
	_, err := LoadFundamentals(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)

	_, err = LoadFundamentals(writeFundamentals(t, "symbol,profit_margin\n"))
	assert.ErrorContains(t, err, "no data rows")

	_, err = LoadFundamentals(writeFundamentals(t, "ticker,profit_margin\nAAPL,0.2\n"))
	assert.ErrorContains(t, err, "first column")

	_, err = LoadFundamentals(writeFundamentals(t, "symbol,mystery\nAAPL,0.2\n"))
	assert.ErrorContains(t, err, `unknown column "mystery"`)

	_, err = LoadFundamentals(writeFundamentals(t, "symbol,profit_margin\nAAPL,not-a-number\n"))
	assert.ErrorContains(t, err, "profit_margin")
}

func TestMergeFundamentals_OverlaysWithoutClobbering(t *testing.T) {
	collected := domain.NewCompany("AAPL")
	collected.CompanyName = "Apple Inc."
	collected.CurrentPrice = 180
	collected.PERatio = 28
	base := domain.NewTable([]domain.Company{collected}, domain.ColCurrentPrice, domain.ColPERatio)

	extra := domain.NewCompany("AAPL")
	extra.ProfitMargin = 0.25
	orphan := domain.NewCompany("ZZZZ")
	orphan.ProfitMargin = 0.10
	fundamentals := domain.NewTable([]domain.Company{extra, orphan},
		domain.ColProfitMargin, domain.ColROE)

	out := MergeFundamentals(base, fundamentals)

	got, ok := out.Lookup("AAPL")
	require.True(t, ok)
	assert.InDelta(t, 180.0, got.CurrentPrice, 1e-9, "collected quote data survives the merge")
	assert.InDelta(t, 0.25, got.ProfitMargin, 1e-9)
	assert.True(t, domain.IsMissing(got.ROE), "a declared but empty column writes nothing")

	_, found := out.Lookup("ZZZZ")
	assert.False(t, found, "fundamentals-only symbols are not appended")

	assert.True(t, out.HasColumn(domain.ColProfitMargin))
	assert.True(t, out.HasColumn(domain.ColROE))

	// The input table is untouched.
	orig, _ := base.Lookup("AAPL")
	assert.True(t, domain.IsMissing(orig.ProfitMargin))
}
