package config

import (
	"log"
	"os"
	"strconv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port        string
	MetricsAddr string // empty disables the metrics listener

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	StorageBackend string // "memory" or "firestore"
	UseMockLLM     bool   // true = use mock even on GCP

	// MaxTurnsPerThread bounds in-memory thread history; oldest turns are
	// dropped once a thread exceeds it.
	MaxTurnsPerThread int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("ECHO_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port:        getEnv("ECHO_PORT", "8080"),
		MetricsAddr: getEnv("ECHO_METRICS_ADDR", ""),

		GCPProjectID: getEnv("ECHO_GCP_PROJECT", ""),
		GCPLocation:  getEnv("ECHO_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("ECHO_MODEL_NAME", "gemini-2.5-flash"),

		StorageBackend: getEnv("ECHO_STORAGE_BACKEND", "memory"),
		UseMockLLM:     getBoolEnv("ECHO_USE_MOCK_LLM", mode == ModeLocal),

		MaxTurnsPerThread: getIntEnv("ECHO_MAX_TURNS", 200),
	}

	// Fail fast on missing credentials instead of failing on first request.
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("ECHO_GCP_PROJECT must be set in gcp mode")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("ECHO_GCP_PROJECT must be set for the firestore storage backend")
	}

	return cfg
}
