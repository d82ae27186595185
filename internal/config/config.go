package config

import (
	"log"
	"os"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

type Config struct {
	Mode Mode

	Port string

	// LLM backend: "mock", "dashscope" or "vertex".
	LLMBackend       string
	DashScopeAPIKey  string
	DashScopeBaseURL string
	GCPProjectID     string
	GCPLocation      string

	// Per-agent model IDs.
	ReviewerModel   string
	ResearcherModel string
	VisualizerModel string

	// Storage backend: "memory", "sqlite" or "firestore".
	StorageBackend string
	SQLitePath     string

	// Optional YAML file overriding the diagram fallback rules.
	FallbackRulesPath string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads all env vars and builds the config.
func Load() *Config {
	modeStr := getEnv("STUDYCIRCLE_MODE", "local")
	var mode Mode
	switch modeStr {
	case "cloud":
		mode = ModeCloud
	default:
		mode = ModeLocal
	}

	defaultLLM := "mock"
	if mode == ModeCloud {
		defaultLLM = "dashscope"
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("PORT", "8080"),

		LLMBackend:       getEnv("STUDYCIRCLE_LLM_BACKEND", defaultLLM),
		DashScopeAPIKey:  getEnv("DASHSCOPE_API_KEY", ""),
		DashScopeBaseURL: getEnv("STUDYCIRCLE_DASHSCOPE_BASE_URL", ""),
		GCPProjectID:     getEnv("STUDYCIRCLE_GCP_PROJECT", ""),
		GCPLocation:      getEnv("STUDYCIRCLE_GCP_LOCATION", "us-central1"),

		ReviewerModel:   getEnv("STUDYCIRCLE_REVIEWER_MODEL", ""),
		ResearcherModel: getEnv("STUDYCIRCLE_RESEARCHER_MODEL", ""),
		VisualizerModel: getEnv("STUDYCIRCLE_VISUALIZER_MODEL", ""),

		StorageBackend: getEnv("STUDYCIRCLE_STORAGE_BACKEND", "memory"),
		SQLitePath:     getEnv("STUDYCIRCLE_SQLITE_PATH", "data/studycircle.db"),

		FallbackRulesPath: getEnv("STUDYCIRCLE_FALLBACK_RULES", ""),
	}

	if cfg.LLMBackend == "dashscope" && cfg.DashScopeAPIKey == "" {
		log.Fatal("DASHSCOPE_API_KEY must be set for the dashscope backend")
	}
	if cfg.LLMBackend == "vertex" && cfg.GCPProjectID == "" {
		log.Fatal("STUDYCIRCLE_GCP_PROJECT must be set for the vertex backend")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("STUDYCIRCLE_GCP_PROJECT must be set for the firestore backend")
	}

	return cfg
}
