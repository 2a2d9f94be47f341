package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// getEnv returns the environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the environment variable as an integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Data sources.
const (
	SourceCSV   = "csv"
	SourceNeo4j = "neo4j"
)

type Config struct {
	Port           int
	DataSource     string
	DataDir        string
	Neo4jURI       string
	Neo4jUser      string
	Neo4jPassword  string
	Neo4jSeedFile  string
	KafkaBrokers   []string
	KafkaTopic     string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	ReferenceSpeed float64
	AvoidAffected  bool
	// SkipConditions lists road conditions treated as impassable. Empty by
	// default: road_condition is informational unless an operator opts in.
	SkipConditions []string
	CORSOrigins    []string
	LogLevel       slog.Level
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when one exists.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnvAsInt("PORT", 8080),
		DataSource:     strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		DataDir:        getEnv("DATA_DIR", "data"),
		Neo4jURI:       getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:      getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:  getEnv("NEO4J_PASSWORD", "12345678"),
		Neo4jSeedFile:  getEnv("NEO4J_SEED_FILE", ""),
		KafkaBrokers:   getEnvAsList("KAFKA_BROKERS", nil),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "disaster.allocations"),
		RequestTimeout: time.Duration(getEnvAsInt("REQUEST_TIMEOUT_MS", 5000)) * time.Millisecond,
		CacheTTL:       time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		ReferenceSpeed: getEnvAsFloat("REFERENCE_SPEED_KMPH", 50),
		AvoidAffected:  getEnv("AVOID_AFFECTED_TRANSIT", "false") == "true",
		SkipConditions: getEnvAsList("SKIP_ROAD_CONDITIONS", nil),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"*"}),
		LogLevel:       parseLevel(getEnv("LOG_LEVEL", "info")),
	}
	if cfg.ReferenceSpeed <= 0 {
		cfg.ReferenceSpeed = 50
	}
	return cfg
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
