package sim

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config holds run parameters, loaded from the environment.
type Config struct {
	// Seed for the deterministic random source; 0 picks a fresh seed.
	Seed int64 `env:"TOWNLIFE_SEED" envDefault:"0"`
	// Months is the number of steps to simulate.
	Months int `env:"TOWNLIFE_MONTHS" envDefault:"24"`
	// TownName names the generated settlement.
	TownName string `env:"TOWNLIFE_TOWN" envDefault:"Brookside"`
	// Districts is the number of neighborhoods in the settlement.
	Districts int `env:"TOWNLIFE_DISTRICTS" envDefault:"4"`
	// Population is the number of characters generated at startup.
	Population int `env:"TOWNLIFE_POPULATION" envDefault:"12"`
	// DBPath locates the SQLite run log. Setting TOWNLIFE_DB to an empty
	// string disables persistence; leaving it unset uses the default.
	DBPath string `env:"TOWNLIFE_DB"`
	// LogLevel selects the slog level: debug, info, warn, or error.
	LogLevel string `env:"TOWNLIFE_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	// env.Parse cannot tell a set-but-empty TOWNLIFE_DB from an unset one,
	// and empty must stay empty to disable persistence.
	if _, set := os.LookupEnv("TOWNLIFE_DB"); !set {
		cfg.DBPath = "townlife.db"
	}
	if cfg.Months < 0 {
		return Config{}, fmt.Errorf("months must be non-negative, got %d", cfg.Months)
	}
	if cfg.Population < 0 {
		return Config{}, fmt.Errorf("population must be non-negative, got %d", cfg.Population)
	}
	return cfg, nil
}
