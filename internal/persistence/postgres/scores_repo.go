// Package postgres implements the persistence contracts on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/persistence"
)

// Schema creates the run and score tables. Applied idempotently at startup.
const Schema = `
CREATE TABLE IF NOT EXISTS scoring_runs (
	id             TEXT PRIMARY KEY,
	started_at     TIMESTAMPTZ NOT NULL,
	universe_size  INT NOT NULL,
	companies_used INT NOT NULL
);

CREATE TABLE IF NOT EXISTS company_scores (
	run_id          TEXT NOT NULL REFERENCES scoring_runs(id),
	tier            TEXT NOT NULL,
	rank            INT NOT NULL,
	symbol          TEXT NOT NULL,
	company_name    TEXT NOT NULL,
	sector_category TEXT NOT NULL,
	rank_score      DOUBLE PRECISION,
	composite_score DOUBLE PRECISION,
	market_cap      DOUBLE PRECISION,
	risk_category   TEXT NOT NULL,
	metrics         JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, tier, symbol)
);

CREATE INDEX IF NOT EXISTS idx_company_scores_symbol ON company_scores (symbol, created_at DESC);
`

type scoresRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewScoresRepo creates a PostgreSQL scores repository.
func NewScoresRepo(db *sqlx.DB, timeout time.Duration) persistence.ScoresRepo {
	return &scoresRepo{db: db, timeout: timeout}
}

// Connect opens and pings a PostgreSQL connection.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema applies the schema.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (r *scoresRepo) SaveRun(ctx context.Context, run persistence.Run) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO scoring_runs (id, started_at, universe_size, companies_used)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			universe_size = EXCLUDED.universe_size,
			companies_used = EXCLUDED.companies_used`

	if _, err := r.db.ExecContext(ctx, query, run.ID, run.StartedAt, run.UniverseSize, run.CompaniesUsed); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (r *scoresRepo) SaveScores(ctx context.Context, runID string, tier domain.Tier, t *domain.Table) error {
	if t.Len() == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(t.Len()/100+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO company_scores
			(run_id, tier, rank, symbol, company_name, sector_category,
			 rank_score, composite_score, market_cap, risk_category, metrics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (run_id, tier, symbol) DO UPDATE SET
			rank = EXCLUDED.rank,
			rank_score = EXCLUDED.rank_score,
			composite_score = EXCLUDED.composite_score,
			market_cap = EXCLUDED.market_cap,
			risk_category = EXCLUDED.risk_category,
			metrics = EXCLUDED.metrics`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range t.Rows {
		c := &t.Rows[i]
		metricsJSON, err := json.Marshal(metricsDoc(t, c))
		if err != nil {
			return fmt.Errorf("failed to marshal metrics for %s: %w", c.Symbol, err)
		}

		_, err = stmt.ExecContext(ctx,
			runID, string(tier), c.Rank, c.Symbol, c.CompanyName, c.SectorCategory,
			nullable(c.RankScore), nullable(c.CompositeScore), nullable(c.MarketCap),
			c.RiskCategory, metricsJSON)
		if err != nil {
			return fmt.Errorf("failed to insert score for %s: %w", c.Symbol, err)
		}
	}

	return tx.Commit()
}

func (r *scoresRepo) LatestRun(ctx context.Context) (*persistence.Run, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, started_at, universe_size, companies_used
		FROM scoring_runs
		ORDER BY started_at DESC
		LIMIT 1`

	var run persistence.Run
	if err := r.db.GetContext(ctx, &run, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	return &run, nil
}

func (r *scoresRepo) ScoresForRun(ctx context.Context, runID string, tier domain.Tier) (*domain.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT rank, symbol, company_name, sector_category, risk_category, metrics
		FROM company_scores
		WHERE run_id = $1 AND tier = $2
		ORDER BY rank ASC`

	rows, err := r.db.QueryxContext(ctx, query, runID, string(tier))
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	columns := map[string]struct{}{}
	for rows.Next() {
		var (
			rank                       int
			symbol, name, sector, risk string
			metricsJSON                []byte
		)
		if err := rows.Scan(&rank, &symbol, &name, &sector, &risk, &metricsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}

		c := domain.NewCompany(symbol)
		c.Rank = rank
		c.CompanyName = name
		c.SectorCategory = sector
		c.RiskCategory = risk

		var metrics map[string]float64
		if err := json.Unmarshal(metricsJSON, &metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics for %s: %w", symbol, err)
		}
		for col, v := range metrics {
			if domain.SetColumnValue(&c, col, v) {
				columns[col] = struct{}{}
			}
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score rows: %w", err)
	}

	names := make([]string, 0, len(columns)+2)
	for col := range columns {
		names = append(names, col)
	}
	names = append(names, domain.ColRiskCategory, domain.ColRank)
	return domain.NewTable(companies, names...), nil
}

// metricsDoc flattens every populated numeric column into a JSON-safe map.
// Missing values are omitted.
func metricsDoc(t *domain.Table, c *domain.Company) map[string]float64 {
	doc := make(map[string]float64)
	for _, col := range t.Columns() {
		if v, ok := domain.ColumnValue(c, col); ok && !domain.IsMissing(v) {
			doc[col] = v
		}
	}
	return doc
}

func nullable(v float64) sql.NullFloat64 {
	if domain.IsMissing(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
