// Package application orchestrates the scoring pipeline: feature
// engineering, tier classification, per-tier and overall ranking, optional
// persistence, and report artifacts.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/config"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/features"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/persistence"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/rank"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/report"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/telemetry"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/universe"
)

// Pipeline wires the scoring stages together. Construct once per process.
type Pipeline struct {
	cfg        *config.Config
	engineer   *features.Engineer
	classifier *universe.Classifier
	engine     *rank.Engine
	repo       *persistence.Repository
}

// RunResult is everything one pipeline execution produced.
type RunResult struct {
	RunID     string
	StartedAt time.Time
	Enriched  *domain.Table
	Results   map[domain.Tier]*rank.Result
}

// NewPipeline builds a pipeline from config. repo may be nil when
// persistence is disabled.
func NewPipeline(cfg *config.Config, u *universe.Universe, repo *persistence.Repository) (*Pipeline, error) {
	engine, err := rank.NewEngine(cfg.Ranking.Weights)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:        cfg,
		engineer:   features.NewEngineer(),
		classifier: universe.NewClassifier(u),
		engine:     engine,
		repo:       repo,
	}, nil
}

// Run scores a raw collected table end to end and ranks every tier plus the
// whole universe.
func (p *Pipeline) Run(ctx context.Context, raw *domain.Table) (*RunResult, error) {
	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	telemetry.PipelineRuns.Inc()

	log.Info().Str("run_id", runID).Int("companies", raw.Len()).Msg("pipeline run starting")

	enriched, err := p.engineer.EngineerAll(raw)
	if err != nil {
		return nil, fmt.Errorf("feature engineering failed: %w", err)
	}

	tiers := p.classifier.Classify(enriched)

	results := make(map[domain.Tier]*rank.Result, len(tiers)+1)
	for _, tier := range universe.Tiers() {
		t, ok := tiers[tier]
		if !ok || t.Len() == 0 {
			log.Warn().Str("tier", string(tier)).Msg("tier empty, skipped")
			continue
		}
		r, err := p.engine.RankTier(tier, universe.TierDescriptions[tier], t, p.topN(tier))
		if err != nil {
			return nil, err
		}
		results[tier] = r
	}

	overall, err := p.engine.RankUniverse(enriched, p.cfg.Ranking.TopN.Overall, universe.TierDescriptions[domain.TierOverall])
	if err != nil {
		return nil, err
	}
	results[domain.TierOverall] = overall

	res := &RunResult{
		RunID:     runID,
		StartedAt: startedAt,
		Enriched:  enriched,
		Results:   results,
	}

	if p.repo != nil && p.repo.Scores != nil {
		if err := p.persist(ctx, res, raw.Len()); err != nil {
			return nil, err
		}
	}

	log.Info().Str("run_id", runID).Int("tiers", len(results)).Msg("pipeline run complete")
	return res, nil
}

// WriteArtifacts saves the run's reports to the configured output directory.
func (p *Pipeline) WriteArtifacts(res *RunResult) error {
	return report.WriteArtifacts(p.cfg.Output.Dir, res.Enriched.Len(), res.Results)
}

func (p *Pipeline) persist(ctx context.Context, res *RunResult, universeSize int) error {
	run := persistence.Run{
		ID:            res.RunID,
		StartedAt:     res.StartedAt,
		UniverseSize:  universeSize,
		CompaniesUsed: res.Enriched.Len(),
	}
	if err := p.repo.Scores.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to persist run: %w", err)
	}
	for tier, r := range res.Results {
		if err := p.repo.Scores.SaveScores(ctx, res.RunID, tier, r.Rankings); err != nil {
			return fmt.Errorf("failed to persist %s scores: %w", tier, err)
		}
	}
	return nil
}

func (p *Pipeline) topN(tier domain.Tier) int {
	switch tier {
	case domain.TierFlagship:
		return p.cfg.Ranking.TopN.Flagship
	case domain.TierGiant:
		return p.cfg.Ranking.TopN.Giant
	case domain.TierLarge:
		return p.cfg.Ranking.TopN.Large
	case domain.TierMid:
		return p.cfg.Ranking.TopN.Mid
	default:
		return p.cfg.Ranking.TopN.Overall
	}
}
