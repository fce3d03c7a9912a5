package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1.0, cfg.Collector.RequestsPerSecond)
	assert.Equal(t, time.Minute, cfg.Collector.BreakerCooldown())
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL())
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, 20, cfg.Ranking.TopN.Overall)
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `collector:
  requests_per_second: 2.5
cache:
  enabled: true
  addr: redis:6379
  ttl_hours: 6
ranking:
  top_n:
    overall: 15
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Collector.RequestsPerSecond)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL())
	assert.Equal(t, 15, cfg.Ranking.TopN.Overall)

	// Untouched sections keep their defaults.
	assert.Equal(t, 400, cfg.Collector.HistoryDays)
	assert.Equal(t, 0.30, cfg.Ranking.Weights.Composite)
	assert.Equal(t, 0.25, cfg.Health.Weights.FinancialStrength)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsBadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `ranking:
  weights:
    composite: 0.9
    quality: 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum")
}

func TestValidate_Failures(t *testing.T) {
	cfg := Default()
	cfg.Collector.RequestsPerSecond = 0
	assert.ErrorContains(t, cfg.Validate(), "requests_per_second")

	cfg = Default()
	cfg.Collector.HistoryDays = 10
	assert.ErrorContains(t, cfg.Validate(), "history_days")

	cfg = Default()
	cfg.Ranking.TopN.Mid = 0
	assert.ErrorContains(t, cfg.Validate(), "top_n.mid")

	cfg = Default()
	cfg.Cache.Enabled = true
	cfg.Cache.Addr = ""
	assert.ErrorContains(t, cfg.Validate(), "cache")

	cfg = Default()
	cfg.Database.Enabled = true
	assert.ErrorContains(t, cfg.Validate(), "dsn")
}
