// Package persistence defines the storage contracts for scoring runs. The
// postgres subpackage implements them; callers depend only on these
// interfaces so the pipeline runs unchanged with persistence disabled.
package persistence

import (
	"context"
	"time"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
)

// Run records one pipeline execution for provenance.
type Run struct {
	ID            string    `db:"id"`
	StartedAt     time.Time `db:"started_at"`
	UniverseSize  int       `db:"universe_size"`
	CompaniesUsed int       `db:"companies_used"`
}

// ScoresRepo persists enriched company rows keyed by run and tier.
type ScoresRepo interface {
	SaveRun(ctx context.Context, run Run) error
	SaveScores(ctx context.Context, runID string, tier domain.Tier, t *domain.Table) error
	LatestRun(ctx context.Context) (*Run, error)
	ScoresForRun(ctx context.Context, runID string, tier domain.Tier) (*domain.Table, error)
}

// Repository is the collection of repositories the application wires up.
type Repository struct {
	Scores ScoresRepo
}
