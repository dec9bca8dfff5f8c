package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the limits applied to external actions.
// These values can be customized via environment variables.
type Timeouts struct {
	Gcloud            time.Duration // Timeout for a single gcloud invocation
	Binary            time.Duration // Timeout for external binaries (apply, installers, rule generator)
	RetryMaxAttempts  int           // Maximum number of retries for transient failures
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - DEPLOYFLEET_TIMEOUT_GCLOUD (default: 10m)
//   - DEPLOYFLEET_TIMEOUT_BINARY (default: 60m)
//   - DEPLOYFLEET_RETRY_MAX_ATTEMPTS (default: 3)
//   - DEPLOYFLEET_RETRY_INITIAL_DELAY (default: 2s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Gcloud:            parseDuration("DEPLOYFLEET_TIMEOUT_GCLOUD", 10*time.Minute),
		Binary:            parseDuration("DEPLOYFLEET_TIMEOUT_BINARY", 60*time.Minute),
		RetryMaxAttempts:  parseInt("DEPLOYFLEET_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: parseDuration("DEPLOYFLEET_RETRY_INITIAL_DELAY", 2*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}

	return i
}
