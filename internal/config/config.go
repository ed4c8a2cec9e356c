// Package config loads process configuration from the environment, so the
// packages doing the actual work never read it themselves.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// tokenEnvVars are the fixed credential slots, in rotation order.
var tokenEnvVars = []string{"GITHUB_TOKEN1", "GITHUB_TOKEN2"}

// Config is built once at startup and injected read-only from then on.
type Config struct {
	Tokens     []string
	RetryDelay time.Duration
	ListenAddr string
}

// Parse reads the credential pool and tuning knobs from the environment.
// Empty token slots are skipped; at least one token is required.
func Parse() (*Config, error) {
	c := &Config{
		RetryDelay: getduration("RETRY_DELAY", 1*time.Second),
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
	}
	for _, key := range tokenEnvVars {
		if v := os.Getenv(key); v != "" {
			c.Tokens = append(c.Tokens, v)
		}
	}
	if len(c.Tokens) == 0 {
		return nil, fmt.Errorf("at least one of %s must be set", strings.Join(tokenEnvVars, ", "))
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}
