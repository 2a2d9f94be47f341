package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATA_SOURCE", "KAFKA_BROKERS", "REQUEST_TIMEOUT_MS", "REFERENCE_SPEED_KMPH", "LOG_LEVEL", "CORS_ORIGINS", "SKIP_ROAD_CONDITIONS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg := LoadConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, SourceCSV, cfg.DataSource)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 50.0, cfg.ReferenceSpeed)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.SkipConditions)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_SOURCE", "Neo4j")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REQUEST_TIMEOUT_MS", "250")
	t.Setenv("REFERENCE_SPEED_KMPH", "-4")
	t.Setenv("AVOID_AFFECTED_TRANSIT", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SKIP_ROAD_CONDITIONS", "Flooded, Collapsed")

	cfg := LoadConfig()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, SourceNeo4j, cfg.DataSource)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 50.0, cfg.ReferenceSpeed)
	assert.True(t, cfg.AvoidAffected)
	assert.Equal(t, []string{"Flooded", "Collapsed"}, cfg.SkipConditions)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "abc")
	assert.Equal(t, 7, getEnvAsInt("X_INT", 7))
	t.Setenv("X_FLOAT", "2.5")
	assert.Equal(t, 2.5, getEnvAsFloat("X_FLOAT", 1))
	assert.Equal(t, "dflt", getEnv("X_UNSET_FOR_TEST", "dflt"))
}
