package universe

import (
	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

// TierDescriptions are the display names used in reports.
var TierDescriptions = map[domain.Tier]string{
	domain.TierFlagship: "Magnificent 7 Tech Giants",
	domain.TierGiant:    "Giant Companies (>$500B)",
	domain.TierLarge:    "Large Cap ($100B-$500B)",
	domain.TierMid:      "Mid Cap (<$100B)",
	domain.TierOverall:  "Top Picks Across All Categories",
}

// Tiers lists the four partition tiers in report order.
func Tiers() []domain.Tier {
	return []domain.Tier{domain.TierFlagship, domain.TierGiant, domain.TierLarge, domain.TierMid}
}

// Classifier partitions a scored table into the four market-cap tiers.
type Classifier struct {
	universe *Universe
}

func NewClassifier(u *Universe) *Classifier {
	return &Classifier{universe: u}
}

// Classify splits the table: flagship rows by allowlist first, then the
// remaining rows by market cap. The result is a disjoint total cover of the
// input; a row with an unknown market cap lands in the mid tier rather than
// being dropped.
func (c *Classifier) Classify(t *domain.Table) map[domain.Tier]*domain.Table {
	flagship := t.Filter(func(r *domain.Company) bool {
		return c.universe.IsFlagship(r.Symbol)
	})
	remaining := t.Filter(func(r *domain.Company) bool {
		return !c.universe.IsFlagship(r.Symbol)
	})

	tiers := map[domain.Tier]*domain.Table{
		domain.TierFlagship: flagship,
		domain.TierGiant: remaining.Filter(func(r *domain.Company) bool {
			return r.MarketCap > domain.GiantCapFloor
		}),
		domain.TierLarge: remaining.Filter(func(r *domain.Company) bool {
			return r.MarketCap >= domain.LargeCapFloor && r.MarketCap <= domain.GiantCapFloor
		}),
		domain.TierMid: remaining.Filter(func(r *domain.Company) bool {
			return r.MarketCap < domain.LargeCapFloor || domain.IsMissing(r.MarketCap)
		}),
	}

	log.Info().
		Int("flagship", tiers[domain.TierFlagship].Len()).
		Int("giant", tiers[domain.TierGiant].Len()).
		Int("large", tiers[domain.TierLarge].Len()).
		Int("mid", tiers[domain.TierMid].Len()).
		Msg("market-cap categorization complete")

	return tiers
}
