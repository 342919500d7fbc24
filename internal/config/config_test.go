package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
database:
  host: localhost
  user: crawler
  dbname: listings
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "mercadolibre", cfg.Source.Name)
	assert.Equal(t, "static", cfg.Source.FetchMode)
	assert.Equal(t, 45*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 50, cfg.Crawl.MaxSearches)
	assert.Equal(t, "retry", cfg.Crawl.RateLimitPolicy)
	assert.Equal(t, 1, cfg.Crawl.RateLimitRetries)
	assert.Equal(t, 10, cfg.Enrichment.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Enrichment.BatchDelay)
	assert.Equal(t, 2*time.Second, cfg.Enrichment.ItemDelay)
	assert.Equal(t, 7*24*time.Hour, cfg.Enrichment.RecentWindow)
	assert.Equal(t, 2*time.Hour, cfg.Enrichment.StuckThreshold)
	assert.Equal(t, "file", cfg.State.Backend)
	assert.Equal(t, 30, cfg.State.HistorySize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_SkipPolicyKeepsZeroRetries(t *testing.T) {
	cfg, err := Parse([]byte(minimalConfig + `
crawl:
  rate_limit_policy: skip
  page_delay: 250ms
`))
	require.NoError(t, err)

	assert.Equal(t, "skip", cfg.Crawl.RateLimitPolicy)
	assert.Equal(t, 0, cfg.Crawl.RateLimitRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Crawl.PageDelay)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("CRAWLER_DB_PASSWORD", "s3cret")

	cfg, err := Parse([]byte(minimalConfig + `  password: ${CRAWLER_DB_PASSWORD}
`))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
}

func TestParse_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		extra string
	}{
		{"unknown policy", "crawl:\n  rate_limit_policy: wait\n"},
		{"unknown backend", "state:\n  backend: redis\n"},
		{"unknown source", "source:\n  name: craigslist\n"},
		{"unknown fetch mode", "source:\n  fetch_mode: curl\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(minimalConfig + tt.extra))
			assert.Error(t, err)
		})
	}
}

func TestParse_RequiresDatabase(t *testing.T) {
	_, err := Parse([]byte("log_level: info\n"))
	assert.Error(t, err)
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "listings", cfg.Database.DBName)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
