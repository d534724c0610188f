package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"DATABASE_URL": "postgres://u:p@localhost:5432/db",
		"JWT_SECRET":   "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, "marketplace", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 60*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "products", cfg.Search.Index)

	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Search.Enabled())
	assert.False(t, cfg.Reconcile.Enabled())
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"DATABASE_URL":       "postgres://x",
		"JWT_SECRET":         "s",
		"SERVER_HOST":        "0.0.0.0",
		"SERVER_PORT":        "9090",
		"CORS_ORIGINS":       "https://a.example,https://b.example",
		"KAFKA_BROKERS":      "k1:9092,k2:9092",
		"REDIS_ADDR":         "localhost:6379",
		"REDIS_DB":           "2",
		"CACHE_TTL":          "5m",
		"ES_URL":             "http://es:9200",
		"RECONCILE_SCHEDULE": "@every 1h",
		"JWT_TTL":            "30m",
	})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.True(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Search.Enabled())
	assert.True(t, cfg.Reconcile.Enabled())
}

func TestLoadFromRequired(t *testing.T) {
	cases := map[string]map[string]string{
		"no database":  {"JWT_SECRET": "s"},
		"no secret":    {"DATABASE_URL": "postgres://x"},
		"empty secret": {"DATABASE_URL": "postgres://x", "JWT_SECRET": ""},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(vars)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromInvalid(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{"DATABASE_URL": "postgres://x", "JWT_SECRET": "s"}
	}

	vars := base()
	vars["SERVER_PORT"] = "70000"
	_, err := LoadFrom(vars)
	assert.Error(t, err)

	vars = base()
	vars["JWT_TTL"] = "soon"
	_, err = LoadFrom(vars)
	assert.Error(t, err)
}
