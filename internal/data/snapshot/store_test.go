package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	a := domain.NewCompany("AAPL")
	a.CompanyName = "Apple Inc."
	a.SectorCategory = "tech"
	a.CurrentPrice = 180.5
	a.MarketCap = 3e12
	a.RiskCategory = domain.LabelLowRisk
	a.IsProfitable = true
	a.Rank = 1
	// PERatio stays missing.

	b := domain.NewCompany("TSLA")
	b.CompanyName = "Tesla, Inc."
	b.PERatio = 65.2
	// Rank 0 is written as an empty cell.

	in := domain.NewTable([]domain.Company{a, b},
		domain.ColCurrentPrice, domain.ColMarketCap, domain.ColPERatio,
		domain.ColRiskCategory, domain.ColIsProfitable, domain.ColRank)

	path := filepath.Join(t.TempDir(), "snapshots", "raw.csv")
	require.NoError(t, Write(in, path), "parent directories are created on demand")

	out, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	gotA, ok := out.Lookup("AAPL")
	require.True(t, ok)
	assert.Equal(t, "Apple Inc.", gotA.CompanyName)
	assert.Equal(t, "tech", gotA.SectorCategory)
	assert.InDelta(t, 180.5, gotA.CurrentPrice, 1e-9)
	assert.InDelta(t, 3e12, gotA.MarketCap, 1e-3)
	assert.True(t, domain.IsMissing(gotA.PERatio), "empty cells read back as missing")
	assert.Equal(t, domain.LabelLowRisk, gotA.RiskCategory)
	assert.True(t, gotA.IsProfitable)
	assert.Equal(t, 1, gotA.Rank)

	gotB, ok := out.Lookup("TSLA")
	require.True(t, ok)
	assert.Equal(t, "Tesla, Inc.", gotB.CompanyName, "embedded commas survive the format")
	assert.InDelta(t, 65.2, gotB.PERatio, 1e-9)
	assert.False(t, gotB.IsProfitable)
	assert.Equal(t, 0, gotB.Rank)

	// The header declares the populated column set.
	assert.ElementsMatch(t, in.Columns(), out.Columns())
}

func TestRead_LowercaseSymbolsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")
	doc := "symbol,company_name,sector_category,current_price\naapl,Apple,tech,180\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, out.Symbols())
}

func TestRead_UnknownColumnsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")
	doc := "symbol,company_name,sector_category,mystery_metric\nAAPL,Apple,tech,42\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	got, _ := out.Lookup("AAPL")
	assert.Equal(t, "Apple", got.CompanyName)
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "nope.csv"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Read(empty)
	assert.ErrorContains(t, err, "empty")
}

func TestWrite_MissingValuesBecomeEmptyCells(t *testing.T) {
	c := domain.NewCompany("AAPL")
	c.CurrentPrice = 180
	in := domain.NewTable([]domain.Company{c}, domain.ColCurrentPrice, domain.ColPERatio)

	path := filepath.Join(t.TempDir(), "raw.csv")
	require.NoError(t, Write(in, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[1], "NaN")
}
