// Package config provides the configuration management for the divseq
// application.
// This file contains environment variable utilities for configuration
// override.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// getEnvString returns the value of the environment variable with the given
// key (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as int, or the default value if not set
// or invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvInt64 returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as int64, or the default value if not
// set or invalid.
func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as bool, or the default value if not
// set. Accepts "true", "1", "yes" as true; "false", "0", "no" as false
// (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns the value of the environment variable with the
// given key (prefixed with EnvPrefix) parsed as time.Duration, or the
// default value if not set or invalid. Accepts formats like "5m", "30s",
// "1h30m".
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables:
//   - DIVSEQ_MODE: Scan mode (string: single, pq, init, all)
//   - DIVSEQ_P, DIVSEQ_Q: Recurrence coefficients (int64)
//   - DIVSEQ_X0, DIVSEQ_X1: Initial terms (int64)
//   - DIVSEQ_N: Largest sequence index to test (int)
//   - DIVSEQ_TERMS: Retained term prefix length (int)
//   - DIVSEQ_WORKERS: Number of concurrent scan evaluators (int)
//   - DIVSEQ_TIMEOUT: Scan timeout (duration: "5m", "30s")
//   - DIVSEQ_PORT: Port for server mode (string)
//   - DIVSEQ_REPORT: Report file path (string)
//   - DIVSEQ_SERVER: Enable server mode (bool: true/false, 1/0, yes/no)
//   - DIVSEQ_JSON: Enable JSON output (bool)
//   - DIVSEQ_VERBOSE: Enable verbose output (bool)
//   - DIVSEQ_QUIET: Enable quiet mode (bool)
//   - DIVSEQ_STREAM: Enable streaming report writes (bool)
//   - DIVSEQ_INTERACTIVE: Enable interactive prompt mode (bool)
//   - DIVSEQ_NO_COLOR: Disable colored output (bool)
//   - DIVSEQ_NO_COMPANION: Skip the U-type companion comparison (bool)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	applyNumericOverrides(config, fs)
	applyDurationOverrides(config, fs)
	applyStringOverrides(config, fs)
	applyBooleanOverrides(config, fs)
}

func applyNumericOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "p") {
		config.P = getEnvInt64("P", config.P)
	}
	if !isFlagSet(fs, "q") {
		config.Q = getEnvInt64("Q", config.Q)
	}
	if !isFlagSet(fs, "x0") {
		config.X0 = getEnvInt64("X0", config.X0)
	}
	if !isFlagSet(fs, "x1") {
		config.X1 = getEnvInt64("X1", config.X1)
	}
	if !isFlagSet(fs, "n") {
		config.MaxN = getEnvInt("N", config.MaxN)
	}
	if !isFlagSet(fs, "terms") {
		config.Terms = getEnvInt("TERMS", config.Terms)
	}
	if !isFlagSet(fs, "workers") {
		config.Workers = getEnvInt("WORKERS", config.Workers)
	}
}

func applyDurationOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}

func applyStringOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "mode") {
		config.Mode = getEnvString("MODE", config.Mode)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "report") && !isFlagSet(fs, "o") {
		config.ReportFile = getEnvString("REPORT", config.ReportFile)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "server") {
		config.ServerMode = getEnvBool("SERVER", config.ServerMode)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "v") {
		config.Verbose = getEnvBool("VERBOSE", config.Verbose)
	}
	if !isFlagSet(fs, "quiet") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "stream") {
		config.StreamReport = getEnvBool("STREAM", config.StreamReport)
	}
	if !isFlagSet(fs, "interactive") {
		config.Interactive = getEnvBool("INTERACTIVE", config.Interactive)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
	if !isFlagSet(fs, "no-companion") {
		config.NoCompanion = getEnvBool("NO_COMPANION", config.NoCompanion)
	}
}
