package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/application"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/domain"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/health"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/rank"
)

func serveRequest(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "every endpoint answers JSON")
	return rec, body
}

func publishedServer(t *testing.T) *Server {
	t.Helper()

	c := domain.NewCompany("AAPL")
	c.CompanyName = "Apple Inc."
	c.SectorCategory = "tech"
	c.Rank = 1
	c.RankScore = 72.5
	c.CompositeScore = 80
	c.MarketCap = 3e12
	c.ProfitMargin = 0.25
	c.ROE = 0.30
	c.CurrentRatio = 2.0
	c.DebtToEquity = 0.3
	c.QualityScore = 85
	c.ValueScore = 70
	c.GrowthScore = 75
	c.MomentumScore = 65
	c.RiskCategory = domain.LabelLowRisk
	c.FinancialHealth = domain.LabelLowRisk
	c.IsProfitable = true

	cols := append(domain.RawMetricColumns(), domain.ScoreColumns()...)
	table := domain.NewTable([]domain.Company{c}, cols...)

	res := &application.RunResult{
		RunID:     "run-1",
		StartedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Enriched:  table,
		Results: map[domain.Tier]*rank.Result{
			domain.TierFlagship: {
				Tier:           domain.TierFlagship,
				Description:    "Magnificent 7 Tech Giants",
				TotalCompanies: 1,
				TopN:           1,
				Rankings:       table,
				TopPicks:       []domain.Company{c},
			},
		},
	}
	analyzer, err := health.NewAnalyzer(table, health.DefaultDimensionWeights())
	require.NoError(t, err)

	s := NewServer(DefaultServerConfig())
	s.SwapResult(res, analyzer)
	return s
}

func TestHandleHealth_BeforeFirstRun(t *testing.T) {
	s := NewServer(DefaultServerConfig())

	rec, body := serveRequest(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body, "run_id")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHandleHealth_AfterRun(t *testing.T) {
	s := publishedServer(t)

	rec, body := serveRequest(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "run-1", body["run_id"])
	assert.Equal(t, float64(1), body["companies"])
	assert.Equal(t, "2026-08-30T12:00:00Z", body["started_at"])
}

func TestHandleRankings(t *testing.T) {
	s := publishedServer(t)

	rec, body := serveRequest(t, s, "/rankings/flagship")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Magnificent 7 Tech Giants", body["description"])

	picks, ok := body["top_picks"].([]interface{})
	require.True(t, ok)
	require.Len(t, picks, 1)
	pick := picks[0].(map[string]interface{})
	assert.Equal(t, "AAPL", pick["symbol"])
	assert.Equal(t, 72.5, pick["rank_score"])
}

func TestHandleRankings_Errors(t *testing.T) {
	empty := NewServer(DefaultServerConfig())
	rec, body := serveRequest(t, empty, "/rankings/flagship")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "no completed run yet", body["error"])

	s := publishedServer(t)
	rec, body = serveRequest(t, s, "/rankings/nonsense")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "unknown tier")
}

func TestHandleAnalyze(t *testing.T) {
	s := publishedServer(t)

	rec, body := serveRequest(t, s, "/analyze/aapl")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AAPL", body["symbol"])
	assert.NotEmpty(t, body["recommendation"])

	dims, ok := body["dimensions"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, dims, "growth_trajectory")

	metrics, ok := body["metrics"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 0.25, metrics["profit_margin"])
	assert.Nil(t, metrics["pe_ratio"], "missing metrics serialize as null")
}

func TestHandleAnalyze_UnknownSymbol(t *testing.T) {
	s := publishedServer(t)

	rec, body := serveRequest(t, s, "/analyze/ZZZZ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "ZZZZ")
	assert.NotEmpty(t, body["symbol_sample"])
}
