package config

import (
	"os"
	"strconv"
	"time"

	"github.com/freeeve/tacticalcombat/aiplanner"
)

// Config holds engine configuration loaded from environment variables.
// There are no database or auth settings: combat sessions are in-memory
// and player identity is out of scope.
type Config struct {
	LogLevel          string
	LogFile           string
	BattlefieldLength float64
	NeuralModelPath   string // empty disables the neural blend scorer

	SearchTimeBudgetMS      int
	SearchMaxDepth          int
	SearchMaxBranching      int
	SearchMinScoreThreshold float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFile:           envOrDefault("LOG_FILE", ""),
		BattlefieldLength: envFloatOrDefault("BATTLEFIELD_LENGTH_M", 300),
		NeuralModelPath:   envOrDefault("NEURAL_MODEL_PATH", ""),

		SearchTimeBudgetMS:      envIntOrDefault("SEARCH_TIME_BUDGET_MS", 80),
		SearchMaxDepth:          envIntOrDefault("SEARCH_MAX_DEPTH", 4),
		SearchMaxBranching:      envIntOrDefault("SEARCH_MAX_BRANCHING", 8),
		SearchMinScoreThreshold: envFloatOrDefault("SEARCH_MIN_SCORE_THRESHOLD", 0),
	}
}

// Search maps the SEARCH_* tunables onto the planner's SearchConfig.
func (c *Config) Search() aiplanner.SearchConfig {
	return aiplanner.SearchConfig{
		TimeBudget:        time.Duration(c.SearchTimeBudgetMS) * time.Millisecond,
		MaxDepth:          c.SearchMaxDepth,
		MaxBranching:      c.SearchMaxBranching,
		MinScoreThreshold: c.SearchMinScoreThreshold,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
