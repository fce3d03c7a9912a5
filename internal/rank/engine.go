package rank

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

// Engine computes rank scores over already-normalized [0,100] category scores
// and produces deterministic per-tier and whole-universe rankings.
type Engine struct {
	weights Weights
}

// NewEngine validates the weight blend up front; a malformed configuration is
// a fatal structural error.
func NewEngine(w Weights) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ranking weights: %w", err)
	}
	return &Engine{weights: w}, nil
}

// Result is one ranked population: a tier or the whole universe.
type Result struct {
	Tier           domain.Tier
	Description    string
	TotalCompanies int
	TopN           int
	Rankings       *domain.Table
	TopPicks       []domain.Company
	Stats          TierStats
}

// RankTier ranks one tier's table and selects its top picks. Ties on
// rank_score are broken by original row order (stable sort), so reruns over
// the same table always produce identical orderings.
func (e *Engine) RankTier(tier domain.Tier, description string, t *domain.Table, topN int) (*Result, error) {
	if missing := t.MissingColumns(domain.ScoreColumns()...); len(missing) > 0 {
		return nil, &domain.MissingColumnError{
			Stage:   fmt.Sprintf("ranking:%s", tier),
			Columns: missing,
		}
	}

	log.Info().Str("tier", string(tier)).Int("companies", t.Len()).Msg("ranking tier")

	ranked := t.Clone()
	for i := range ranked.Rows {
		c := &ranked.Rows[i]
		c.RankScore = e.weights.Composite*c.CompositeScore +
			e.weights.Quality*c.QualityScore +
			e.weights.Value*c.ValueScore +
			e.weights.Growth*c.GrowthScore +
			e.weights.Momentum*c.MomentumScore
	}

	sort.SliceStable(ranked.Rows, func(i, j int) bool {
		return ranked.Rows[i].RankScore > ranked.Rows[j].RankScore
	})
	for i := range ranked.Rows {
		ranked.Rows[i].Rank = i + 1
	}
	ranked.AddColumns(domain.ColRankScore, domain.ColRank)

	if topN > ranked.Len() {
		topN = ranked.Len()
	}
	top := make([]domain.Company, topN)
	copy(top, ranked.Rows[:topN])

	return &Result{
		Tier:           tier,
		Description:    description,
		TotalCompanies: ranked.Len(),
		TopN:           topN,
		Rankings:       ranked,
		TopPicks:       top,
		Stats:          computeTierStats(ranked),
	}, nil
}

// RankUniverse ranks the whole table ignoring tier boundaries, for the global
// top-N shortlist. A company's tier rank and global rank use the same score
// formula over different populations, so they may disagree.
func (e *Engine) RankUniverse(t *domain.Table, topN int, description string) (*Result, error) {
	return e.RankTier(domain.TierOverall, description, t, topN)
}
