package features

import (
	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/telemetry"
)

// Engineer runs the feature-engineering pipeline over a company table: metric
// normalization, the four category score blends, bankruptcy and risk
// classification, and the final table-wide rescale into comparable [0,100]
// scores. The stage order matters; later stages read columns written by
// earlier ones.
type Engineer struct {
	norm    *Normalizer
	created []string
}

func NewEngineer() *Engineer {
	return &Engineer{norm: NewNormalizer()}
}

// Weighted factor blends. Each factor is normalized per its spec, missing
// entries filled with the neutral 50, then combined by weight.
type factorWeight struct {
	spec   MetricSpec
	weight float64
}

func qualityFactors() []factorWeight {
	return []factorWeight{
		{MetricSpec{domain.ColROE, HigherIsBetter, noCap()}, 0.30},
		{MetricSpec{domain.ColProfitMargin, HigherIsBetter, noCap()}, 0.30},
		{MetricSpec{domain.ColDebtToEquity, LowerIsBetter, noCap()}, 0.25},
		{MetricSpec{domain.ColFreeCashFlow, HigherIsBetter, noCap()}, 0.15},
	}
}

func valueFactors() []factorWeight {
	return []factorWeight{
		{MetricSpec{domain.ColPERatio, LowerIsBetter, 50}, 0.35},
		{MetricSpec{domain.ColPEGRatio, LowerIsBetter, 3}, 0.30},
		{MetricSpec{domain.ColPriceToBook, LowerIsBetter, 10}, 0.20},
		{MetricSpec{domain.ColPriceToSales, LowerIsBetter, 20}, 0.15},
	}
}

func growthFactors() []factorWeight {
	return []factorWeight{
		{MetricSpec{domain.ColRevenueGrowth, HigherIsBetter, noCap()}, 0.40},
		{MetricSpec{domain.ColEarningsGrowth, HigherIsBetter, noCap()}, 0.35},
		{MetricSpec{domain.ColReturn1Y, HigherIsBetter, noCap()}, 0.25},
	}
}

func momentumFactors() []factorWeight {
	return []factorWeight{
		{MetricSpec{domain.ColReturn1M, HigherIsBetter, noCap()}, 0.50},
		{MetricSpec{domain.ColReturn3M, HigherIsBetter, noCap()}, 0.30},
		{MetricSpec{domain.ColReturn6M, HigherIsBetter, noCap()}, 0.20},
	}
}

// EngineerAll applies every transformation in pipeline order and returns a new
// table; the input is never mutated.
func (e *Engineer) EngineerAll(in *domain.Table) (*domain.Table, error) {
	log.Info().Int("rows", in.Len()).Msg("starting feature engineering")

	t := in.Clone()
	e.created = e.created[:0]

	stages := []struct {
		name string
		run  func(*domain.Table) error
	}{
		{"peg_ratio", e.calculatePEGRatio},
		{"quality_score", e.createQualityScore},
		{"value_score", e.createValueScore},
		{"growth_score", e.createGrowthScore},
		{"momentum_score", e.createMomentumScore},
		{"altman_z_score", e.calculateAltmanZScore},
		{"profitability", e.calculateProfitabilityFlags},
		{"risk_category", e.categorizeRisk},
		{"composite_score", e.normalizeCompositeScores},
	}

	for _, stage := range stages {
		if err := stage.run(t); err != nil {
			return nil, err
		}
	}

	telemetry.CompaniesScored.Add(float64(t.Len()))
	log.Info().Int("features_created", len(e.created)).Msg("feature engineering complete")
	return t, nil
}

// FeaturesCreated lists the derived columns added by the last EngineerAll
// call, in creation order.
func (e *Engineer) FeaturesCreated() []string {
	out := make([]string, len(e.created))
	copy(out, e.created)
	return out
}

// calculatePEGRatio backfills PEG from P/E and earnings growth where the
// reported PEG is missing. A reported value is never overwritten.
func (e *Engineer) calculatePEGRatio(t *domain.Table) error {
	if err := e.require(t, "peg_ratio", domain.ColPERatio, domain.ColEarningsGrowth, domain.ColPEGRatio); err != nil {
		return err
	}
	for i := range t.Rows {
		c := &t.Rows[i]
		c.PEGRatioCalculated = domain.Missing()
		if !domain.IsMissing(c.PERatio) && !domain.IsMissing(c.EarningsGrowth) && c.EarningsGrowth > 0 {
			c.PEGRatioCalculated = c.PERatio / (c.EarningsGrowth * 100)
		}
		if domain.IsMissing(c.PEGRatio) {
			c.PEGRatio = c.PEGRatioCalculated
		}
	}
	t.AddColumns(domain.ColPEGRatioCalculated)
	e.markCreated(domain.ColPEGRatioCalculated)
	log.Debug().Msg("calculated PEG ratios")
	return nil
}

func (e *Engineer) createQualityScore(t *domain.Table) error {
	return e.blend(t, "quality_score", domain.ColQualityScoreRaw, qualityFactors())
}

func (e *Engineer) createValueScore(t *domain.Table) error {
	return e.blend(t, "value_score", domain.ColValueScoreRaw, valueFactors())
}

func (e *Engineer) createGrowthScore(t *domain.Table) error {
	return e.blend(t, "growth_score", domain.ColGrowthScoreRaw, growthFactors())
}

func (e *Engineer) createMomentumScore(t *domain.Table) error {
	return e.blend(t, "momentum_score", domain.ColMomentumScoreRaw, momentumFactors())
}

// blend normalizes each factor column, fills missing entries with the neutral
// 50, and writes the weighted combination to target.
func (e *Engineer) blend(t *domain.Table, stage, target string, factors []factorWeight) error {
	required := make([]string, len(factors))
	for i, f := range factors {
		required[i] = f.spec.Column
	}
	if err := e.require(t, stage, required...); err != nil {
		return err
	}

	blended := make([]float64, t.Len())
	for _, f := range factors {
		values, _ := t.Column(f.spec.Column)
		scaled := e.norm.ScaleSpec(f.spec, values)
		for i, v := range scaled {
			blended[i] += f.weight * domain.OrDefault(v, 50)
		}
	}

	t.SetColumn(target, blended)
	e.markCreated(target)
	log.Debug().Str("column", target).Msg("created category score")
	return nil
}

// calculateAltmanZScore computes the simplified four-factor bankruptcy proxy
// and labels financial health from it.
func (e *Engineer) calculateAltmanZScore(t *domain.Table) error {
	err := e.require(t, "altman_z_score",
		domain.ColCurrentRatio, domain.ColROE, domain.ColOperatingMargin, domain.ColDebtToEquity)
	if err != nil {
		return err
	}

	for i := range t.Rows {
		c := &t.Rows[i]

		wcTA := domain.Clip(domain.OrDefault(c.CurrentRatio, 1)-1, -2, 3)
		reTA := domain.Clip(domain.OrDefault(c.ROE, 0)*5, -5, 5)
		ebitTA := domain.Clip(domain.OrDefault(c.OperatingMargin, 0)*3.3, -5, 5)
		mvTL := domain.Clip(1/(domain.OrDefault(c.DebtToEquity, 0.5)+0.01), 0, 10)

		c.AltmanZScore = wcTA + reTA + ebitTA + mvTL

		switch {
		case c.AltmanZScore <= 1.8:
			c.FinancialHealth = domain.LabelHighRisk
		case c.AltmanZScore <= 3.0:
			c.FinancialHealth = domain.LabelMediumRisk
		default:
			c.FinancialHealth = domain.LabelLowRisk
		}
	}

	t.AddColumns(domain.ColAltmanZScore, domain.ColFinancialHealth)
	e.markCreated(domain.ColAltmanZScore, domain.ColFinancialHealth)
	log.Debug().Msg("calculated Altman Z-Score")
	return nil
}

func (e *Engineer) calculateProfitabilityFlags(t *domain.Table) error {
	if err := e.require(t, "profitability", domain.ColProfitMargin); err != nil {
		return err
	}

	for i := range t.Rows {
		c := &t.Rows[i]
		c.IsProfitable = c.ProfitMargin > 0
		switch {
		case c.ProfitMargin > 0.15:
			c.ProfitabilityStatus = domain.StatusHighlyProfitable
		case c.ProfitMargin > 0.05:
			c.ProfitabilityStatus = domain.StatusProfitable
		case c.ProfitMargin > 0:
			c.ProfitabilityStatus = domain.StatusMarginallyProfitable
		default:
			c.ProfitabilityStatus = domain.StatusUnprofitable
		}
	}

	t.AddColumns(domain.ColIsProfitable, domain.ColProfitabilityStatus)
	e.markCreated(domain.ColIsProfitable, domain.ColProfitabilityStatus)
	log.Debug().Msg("created profitability flags")
	return nil
}

// categorizeRisk derives an additive 0-10 risk score from beta, realized
// volatility, leverage, and an unprofitability penalty, then bins it.
func (e *Engineer) categorizeRisk(t *domain.Table) error {
	err := e.require(t, "risk_category",
		domain.ColBeta, domain.ColVolatility90d, domain.ColDebtToEquity, domain.ColProfitMargin)
	if err != nil {
		return err
	}

	for i := range t.Rows {
		c := &t.Rows[i]

		score := domain.Clip((domain.OrDefault(c.Beta, 1)-0.5)*2, 0, 3) +
			domain.Clip(domain.OrDefault(c.Volatility90d, 0.3)*10, 0, 3) +
			domain.Clip(domain.OrDefault(c.DebtToEquity, 0.5)/0.5, 0, 3)
		if c.ProfitMargin < 0 {
			score++
		}

		c.RiskScore = score
		switch {
		case score <= 3:
			c.RiskCategory = domain.LabelLowRisk
		case score <= 6:
			c.RiskCategory = domain.LabelMediumRisk
		default:
			c.RiskCategory = domain.LabelHighRisk
		}
	}

	t.AddColumns(domain.ColRiskScore, domain.ColRiskCategory)
	e.markCreated(domain.ColRiskScore, domain.ColRiskCategory)
	log.Debug().Msg("categorized risk levels")
	return nil
}

// normalizeCompositeScores rescales the four raw category scores to [0,100]
// across the whole table so they are comparable between companies, then blends
// them into the composite. This is a second, table-wide rescale of already
// blended scores, not the per-metric normalizer.
func (e *Engineer) normalizeCompositeScores(t *domain.Table) error {
	rawToFinal := []struct{ raw, final string }{
		{domain.ColQualityScoreRaw, domain.ColQualityScore},
		{domain.ColValueScoreRaw, domain.ColValueScore},
		{domain.ColGrowthScoreRaw, domain.ColGrowthScore},
		{domain.ColMomentumScoreRaw, domain.ColMomentumScore},
	}

	required := make([]string, len(rawToFinal))
	for i, m := range rawToFinal {
		required[i] = m.raw
	}
	if err := e.require(t, "composite_score", required...); err != nil {
		return err
	}

	for _, m := range rawToFinal {
		values, _ := t.Column(m.raw)
		t.SetColumn(m.final, e.norm.Scale(m.final, values, HigherIsBetter, noCap()))
	}

	// Missing normalized sub-scores count as 0 in the composite here, not the
	// neutral 50 used during blending. Downstream rankings depend on this.
	for i := range t.Rows {
		c := &t.Rows[i]
		c.CompositeScore = 0.25*domain.OrDefault(c.QualityScore, 0) +
			0.25*domain.OrDefault(c.ValueScore, 0) +
			0.25*domain.OrDefault(c.GrowthScore, 0) +
			0.25*domain.OrDefault(c.MomentumScore, 0)
	}

	t.AddColumns(domain.ColCompositeScore)
	e.markCreated(domain.ColCompositeScore)
	log.Debug().Msg("normalized composite scores")
	return nil
}

func (e *Engineer) require(t *domain.Table, stage string, columns ...string) error {
	return domain.NewMissingColumnError(stage, t.MissingColumns(columns...))
}

func (e *Engineer) markCreated(names ...string) {
	e.created = append(e.created, names...)
}
