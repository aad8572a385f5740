// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every tunable the commands read.
type Config struct {
	// DatabaseURL enables the snapshot store when set.
	DatabaseURL string
	// BalanceTolerance is the acceptable balance-sheet difference in
	// working units.
	BalanceTolerance float64
	// ExportPath is the default workbook output path.
	ExportPath string
}

// Load reads the environment, merging in a .env file when present. A missing
// .env is not an error; a malformed tolerance is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		BalanceTolerance: 0.01,
		ExportPath:       "model.xlsx",
	}
	if v := os.Getenv("BALANCE_TOLERANCE"); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse BALANCE_TOLERANCE: %w", err)
		}
		cfg.BalanceTolerance = tol
	}
	if v := os.Getenv("EXPORT_PATH"); v != "" {
		cfg.ExportPath = v
	}
	return cfg, nil
}
