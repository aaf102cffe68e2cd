// Package session implements the practice session runtime: the orchestrator
// state machine plus the environment gate, wake-lock manager, section focus
// routine, and typed event dispatcher it coordinates.
package session

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultPageSettleDelay     = 500 * time.Millisecond
	defaultResolvePollAttempts = 10
	defaultResolvePollInterval = 100 * time.Millisecond
	defaultIndicatorDuration   = 3 * time.Second
	defaultLayoutMode          = "practice"

	// Hosts with less available memory than this defer the layout revert
	// to the background pool instead of running it on the exit path.
	defaultDeferThresholdBytes = 256 << 20
)

// Config carries the tunables of the session runtime.
type Config struct {
	// PageSettleDelay is how long to wait after a page render for overlay
	// rehydration before polling for the section's region.
	PageSettleDelay time.Duration `env:"PRACTICE_PAGE_SETTLE_DELAY"`
	// ResolvePollAttempts bounds the presentation-layer readiness poll.
	ResolvePollAttempts uint64 `env:"PRACTICE_RESOLVE_POLL_ATTEMPTS"`
	// ResolvePollInterval is the gap between readiness poll attempts.
	ResolvePollInterval time.Duration `env:"PRACTICE_RESOLVE_POLL_INTERVAL"`
	// IndicatorDuration is how long the "selection disabled" indicator
	// stays visible after entering practice mode.
	IndicatorDuration time.Duration `env:"PRACTICE_INDICATOR_DURATION"`
	// LayoutMode names the host layout mode toggled by the environment gate.
	LayoutMode string `env:"PRACTICE_LAYOUT_MODE"`
	// DeferThresholdBytes is the available-memory floor below which the
	// host counts as constrained and layout reverts run deferred.
	DeferThresholdBytes uint64 `env:"PRACTICE_DEFER_THRESHOLD_BYTES"`
}

// DefaultConfig returns the runtime defaults.
func DefaultConfig() *Config {
	return &Config{
		PageSettleDelay:     defaultPageSettleDelay,
		ResolvePollAttempts: defaultResolvePollAttempts,
		ResolvePollInterval: defaultResolvePollInterval,
		IndicatorDuration:   defaultIndicatorDuration,
		LayoutMode:          defaultLayoutMode,
		DeferThresholdBytes: defaultDeferThresholdBytes,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by any PRACTICE_* process
// environment variables.
func ConfigFromEnv() (*Config, error) {
	conf := DefaultConfig()
	if err := env.Parse(conf); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}
	return conf, nil
}

// VerifyConfig checks conf for values the runtime cannot operate with.
func VerifyConfig(conf *Config) error {
	if conf == nil {
		return fmt.Errorf("config is nil")
	}
	if conf.PageSettleDelay < 0 {
		return fmt.Errorf("PageSettleDelay must not be negative, got %v", conf.PageSettleDelay)
	}
	if conf.ResolvePollAttempts == 0 {
		return fmt.Errorf("ResolvePollAttempts must be at least 1")
	}
	if conf.ResolvePollInterval <= 0 {
		return fmt.Errorf("ResolvePollInterval must be positive, got %v", conf.ResolvePollInterval)
	}
	if conf.IndicatorDuration <= 0 {
		return fmt.Errorf("IndicatorDuration must be positive, got %v", conf.IndicatorDuration)
	}
	if conf.LayoutMode == "" {
		return fmt.Errorf("LayoutMode must not be empty")
	}
	return nil
}
