package universe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

func cappedCompany(symbol string, marketCap float64) domain.Company {
	c := domain.NewCompany(symbol)
	c.MarketCap = marketCap
	return c
}

func TestClassify_PartitionsByMarketCap(t *testing.T) {
	table := domain.NewTable([]domain.Company{
		cappedCompany("AAPL", 3e12),     // flagship regardless of cap
		cappedCompany("TSLA", 80e9),     // flagship even below the large floor
		cappedCompany("BRK-B", 900e9),   // giant
		cappedCompany("JPM", 500e9),     // exactly on the giant floor stays large
		cappedCompany("V", 100e9),       // exactly on the large floor
		cappedCompany("TGT", 60e9),      // mid
		cappedCompany("NEW", math.NaN()), // unknown cap defaults to mid
	}, domain.ColMarketCap)

	tiers := NewClassifier(Default()).Classify(table)
	require.Len(t, tiers, 4)

	assert.Equal(t, []string{"AAPL", "TSLA"}, tiers[domain.TierFlagship].Symbols())
	assert.Equal(t, []string{"BRK-B"}, tiers[domain.TierGiant].Symbols())
	assert.Equal(t, []string{"JPM", "V"}, tiers[domain.TierLarge].Symbols())
	assert.Equal(t, []string{"TGT", "NEW"}, tiers[domain.TierMid].Symbols())

	// The partition is a disjoint total cover of the input.
	total := 0
	for _, tier := range Tiers() {
		total += tiers[tier].Len()
	}
	assert.Equal(t, table.Len(), total)
}

func TestClassify_EmptyTiersStayEmpty(t *testing.T) {
	table := domain.NewTable([]domain.Company{cappedCompany("TGT", 60e9)}, domain.ColMarketCap)

	tiers := NewClassifier(Default()).Classify(table)

	assert.Equal(t, 0, tiers[domain.TierFlagship].Len())
	assert.Equal(t, 0, tiers[domain.TierGiant].Len())
	assert.Equal(t, 0, tiers[domain.TierLarge].Len())
	assert.Equal(t, 1, tiers[domain.TierMid].Len())
}

func TestTierDescriptions_CoverAllTiers(t *testing.T) {
	for _, tier := range Tiers() {
		assert.NotEmpty(t, TierDescriptions[tier])
	}
	assert.NotEmpty(t, TierDescriptions[domain.TierOverall])
}
