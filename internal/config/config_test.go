package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"DB_HOST":                   "db.host",
		"DB_NAME":                   "db.name",
		"SERVER_PORT":               "server.port",
		"REDIS_ADDR":                "redis.addr",
		"JWT_SECRET":                "auth.jwt_secret",
		"CACHE_RECOMMENDATIONS_TTL": "cache.recommendations_ttl",
		"RATE_LIMIT_MAX":            "rate_limit.max",
		"TMDB_API_KEY":              "tmdb.api_key",
		"LOG_LEVEL":                 "log.level",
		"HOME":                      "",
		"DB_":                       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, envTransformFunc(in), in)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Cache.RecommendationsTTL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.SimilarTTL)
	assert.Equal(t, time.Hour, cfg.Cache.TrendingTTL)
	assert.Equal(t, 15*time.Minute, cfg.Cache.StatsTTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.LocalTTL)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=movie_nexus sslmode=disable", cfg.DB.DSN())
}

func TestLoadLayersFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "nexus.yaml")
	yml := "server:\n  port: \"9000\"\ncache:\n  similar_ttl: 2h\n  trending_ttl: 10m\ndb:\n  host: db.internal\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("CACHE_TRENDING_TTL", "5m")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Cache.SimilarTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TrendingTTL)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.False(t, cfg.Redis.Enabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.SimilarTTL = 0
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "similarttl")
	assert.Contains(t, err.Error(), "format")
}
