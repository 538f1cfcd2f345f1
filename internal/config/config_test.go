package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "test-password")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api-live.euroleague.net/v1", cfg.FeedBaseURL)
	assert.Equal(t, 30*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 3, cfg.FeedRetries)
	assert.Equal(t, "E2023", cfg.DefaultSeason)
	assert.Equal(t, 24*time.Hour, cfg.StatsCacheTTL)
	assert.Equal(t, time.Hour, cfg.StandingsCacheTTL)
	assert.Equal(t, 10, cfg.CacheFillWorkers)
	assert.Equal(t, "0 3 * * *", cfg.NightlyRefreshCron)
	assert.True(t, cfg.EnableScheduler)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "test-password")
	t.Setenv("FEED_MAX_RETRIES", "5")
	t.Setenv("STATS_CACHE_TTL", "6h")
	t.Setenv("CACHE_FILL_WORKERS", "4")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.FeedRetries)
	assert.Equal(t, 6*time.Hour, cfg.StatsCacheTTL)
	assert.Equal(t, 4, cfg.CacheFillWorkers)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabasePassword: "pw", FeedRetries: 3, CacheFillWorkers: 10}
	assert.NoError(t, cfg.Validate())

	noPassword := &Config{FeedRetries: 3, CacheFillWorkers: 10}
	assert.Error(t, noPassword.Validate(), "Missing database password should fail")

	badRetries := &Config{DatabasePassword: "pw", FeedRetries: -1, CacheFillWorkers: 10}
	assert.Error(t, badRetries.Validate(), "Negative retry count should fail")

	noWorkers := &Config{DatabasePassword: "pw", FeedRetries: 3, CacheFillWorkers: 0}
	assert.Error(t, noWorkers.Validate(), "Zero fill workers should fail")
}

func TestConnectionStrings(t *testing.T) {
	cfg := &Config{
		DatabaseHost: "db.internal", DatabasePort: 5432,
		DatabaseUser: "app", DatabasePassword: "pw",
		DatabaseName: "euroleague_stats", DatabaseSSLMode: "require",
		RedisHost: "redis.internal", RedisPort: 6379,
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=app password=pw dbname=euroleague_stats sslmode=require",
		cfg.DatabaseDSN())
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr())
}
