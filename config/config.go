package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds service-level settings, loaded from the environment.
type Config struct {
	HTTPAddr      string
	MongoURI      string
	MongoDatabase string
	NATSUrl       string
	SourcesFile   string
	FetchInterval time.Duration
	FetchTimeout  time.Duration
	PageSize      int
	PageSizeMax   int
}

// Load reads configuration from environment variables. MONGO_URI and
// NATS_URL are optional: without them the service falls back to the
// in-memory store and skips event publishing.
func Load() *Config {
	cfg := &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DB", "infobro"),
		NATSUrl:       getEnv("NATS_URL", ""),
		SourcesFile:   getEnv("SOURCES_FILE", "config/sources.yaml"),
		FetchInterval: getDurationEnv("FETCH_INTERVAL", "0"),
		FetchTimeout:  getDurationEnv("FETCH_TIMEOUT", "2m"),
		PageSize:      getIntEnv("PAGE_SIZE_DEFAULT", 20),
		PageSizeMax:   getIntEnv("PAGE_SIZE_MAX", 100),
	}

	log.Printf("Config loaded - HTTPAddr: %s, FetchInterval: %v, FetchTimeout: %v",
		cfg.HTTPAddr, cfg.FetchInterval, cfg.FetchTimeout)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
