// Package config provides centralized configuration for the AIrWAVE browser
// test harness. It loads configuration from environment variables, validates
// what it can, and provides defaults that work against the in-repo fixture
// server (no environment needed for a hermetic run).
//
// Environment variables:
//
//	AIRWAVE_BASE_URL  base URL of the deployment under test; empty means the
//	                  suite starts its own fixture server
//	AIRWAVE_EMAIL     login email for the credentialed path
//	AIRWAVE_PASSWORD  login password for the credentialed path
//	AIRWAVE_CLIENT    client (workspace) name to select after login
//	HEADLESS          "false" to run with a visible browser for debugging
//	RESULTS_DIR       directory for screenshots and JSON run reports
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Defaults for bounded waits. Every blocking harness call derives its bound
// from one of these unless the caller overrides it.
const (
	DefaultLocateTimeout     = 1500 * time.Millisecond // per locator candidate
	DefaultActionTimeout     = 5 * time.Second
	DefaultNavigationTimeout = 10 * time.Second
	DefaultPollInterval      = 100 * time.Millisecond
)

// Config holds all harness configuration.
type Config struct {
	// BaseURL is the deployment under test. Empty means fixture mode.
	BaseURL string

	// Credentials for the credentialed login path. A single configured
	// value; the harness never loops over credential variants.
	Email    string
	Password string

	// Client is the client workspace to select after login, if any.
	Client string

	Headless   bool
	ResultsDir string

	LocateTimeout     time.Duration
	ActionTimeout     time.Duration
	NavigationTimeout time.Duration
	PollInterval      time.Duration
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load builds a Config from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:           strings.TrimSpace(os.Getenv("AIRWAVE_BASE_URL")),
		Email:             strings.TrimSpace(os.Getenv("AIRWAVE_EMAIL")),
		Password:          os.Getenv("AIRWAVE_PASSWORD"),
		Client:            strings.TrimSpace(os.Getenv("AIRWAVE_CLIENT")),
		Headless:          os.Getenv("HEADLESS") != "false",
		ResultsDir:        getEnvOrDefault("RESULTS_DIR", "test-results"),
		LocateTimeout:     DefaultLocateTimeout,
		ActionTimeout:     DefaultActionTimeout,
		NavigationTimeout: DefaultNavigationTimeout,
		PollInterval:      DefaultPollInterval,
	}

	if d, err := getEnvDuration("AIRWAVE_LOCATE_TIMEOUT"); err != nil {
		return nil, err
	} else if d > 0 {
		cfg.LocateTimeout = d
	}
	if d, err := getEnvDuration("AIRWAVE_ACTION_TIMEOUT"); err != nil {
		return nil, err
	} else if d > 0 {
		cfg.ActionTimeout = d
	}
	if d, err := getEnvDuration("AIRWAVE_NAVIGATION_TIMEOUT"); err != nil {
		return nil, err
	} else if d > 0 {
		cfg.NavigationTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	var problems []string

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("AIRWAVE_BASE_URL %q is not an absolute URL", c.BaseURL))
		}
	}
	if c.BaseURL != "" && c.Email != "" && c.Password == "" {
		problems = append(problems, "AIRWAVE_EMAIL is set but AIRWAVE_PASSWORD is empty")
	}
	if c.LocateTimeout <= 0 {
		problems = append(problems, "locate timeout must be positive")
	}
	if c.ActionTimeout <= 0 {
		problems = append(problems, "action timeout must be positive")
	}
	if c.NavigationTimeout <= 0 {
		problems = append(problems, "navigation timeout must be positive")
	}
	if c.PollInterval <= 0 {
		problems = append(problems, "poll interval must be positive")
	}

	if len(problems) > 0 {
		return &ValidationError{Errors: problems}
	}
	return nil
}

// FixtureMode reports whether the suite should start the in-repo fixture
// server instead of targeting an external deployment.
func (c *Config) FixtureMode() bool {
	return c.BaseURL == ""
}

func getEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ValidationError{Errors: []string{fmt.Sprintf("%s %q is not a duration", key, raw)}}
	}
	return d, nil
}
