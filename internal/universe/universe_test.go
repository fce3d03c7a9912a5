package universe

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	u := Default()
	require.NoError(t, u.Validate())

	assert.Len(t, u.Flagship, 7)
	assert.True(t, u.IsFlagship("AAPL"))
	assert.True(t, u.IsFlagship("nvda"), "lookup is case-insensitive")
	assert.False(t, u.IsFlagship("JPM"))
}

func TestAllSymbols_SortedAndUnique(t *testing.T) {
	u := Default()
	symbols := u.AllSymbols()

	assert.True(t, sort.StringsAreSorted(symbols))

	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		_, dup := seen[s]
		assert.Falsef(t, dup, "duplicate symbol %s", s)
		seen[s] = struct{}{}
	}

	// COST is listed under both consumer and consumer_staples but appears once.
	assert.Contains(t, symbols, "COST")
}

func TestSectorFor_DeterministicOnOverlap(t *testing.T) {
	u := Default()

	// COST sits in both consumer and consumer_staples; sectors are scanned in
	// sorted name order, so consumer wins.
	assert.Equal(t, "consumer", u.SectorFor("COST"))
	assert.Equal(t, "consumer", u.SectorFor("cost"))
	assert.Equal(t, "energy", u.SectorFor("XOM"))
	assert.Equal(t, "unknown", u.SectorFor("ZZZZ"))
}

func TestValidate_Failures(t *testing.T) {
	u := &Universe{Sectors: map[string][]string{"tech": {"AAPL"}}}
	assert.ErrorContains(t, u.Validate(), "flagship")

	u = &Universe{Flagship: []string{"AAPL"}}
	assert.ErrorContains(t, u.Validate(), "sectors")

	u = &Universe{Flagship: []string{"AAPL"}, Sectors: map[string][]string{"tech": {}}}
	assert.ErrorContains(t, u.Validate(), "tech")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.yaml")
	doc := `flagship: [aapl, msft]
sectors:
  tech: [aapl, msft, " orcl "]
  energy: [xom]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	u, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT"}, u.Flagship, "symbols are upper-cased on load")
	assert.Equal(t, []string{"AAPL", "MSFT", "ORCL", "XOM"}, u.AllSymbols())
	assert.Equal(t, "tech", u.SectorFor("orcl"))
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("flagship: [aapl]\nsectors: {}\n"), 0o644))
	_, err = LoadFromFile(bad)
	assert.ErrorContains(t, err, "validation")
}
