package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv overrides tagged Tracker fields from NIMBLE_* environment
// variables. Unset variables leave the current values alone.
func ApplyEnv(cfg *Tracker) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
