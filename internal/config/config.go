// Package config handles application configuration from CLI flags and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// Config holds all application configuration.
type Config struct {
	// SleepDuration is the interval between generated excuses.
	SleepDuration time.Duration

	// HealthPort is the port for health check endpoints.
	HealthPort int

	// ResetThreshold forces each picker to reset after this many draws.
	// Zero means pickers only reset once exhausted.
	ResetThreshold int

	// WordlistPath is a YAML word list file. Empty uses the built-in list.
	WordlistPath string

	// Seed seeds the random source. Zero seeds from the clock.
	Seed uint64

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string
}

// Default values.
const (
	DefaultSleepDuration  = 5 * time.Second
	DefaultHealthPort     = 8081
	DefaultResetThreshold = 0
	DefaultLogLevel       = "info"
)

// Environment variable names.
const (
	EnvSleepDuration  = "EXCUSEGEN_SLEEP_DURATION"
	EnvHealthPort     = "EXCUSEGEN_HEALTH_PORT"
	EnvResetThreshold = "EXCUSEGEN_RESET_THRESHOLD"
	EnvWordlist       = "EXCUSEGEN_WORDLIST"
	EnvSeed           = "EXCUSEGEN_SEED"
	EnvLogLevel       = "EXCUSEGEN_LOG_LEVEL"
)

// Load parses configuration from flags and environment variables.
// Environment variables override CLI flag defaults.
func Load() *Config {
	// CommandLine exits on parse errors, so err is always nil here.
	cfg, _ := parse(pflag.CommandLine, os.Args[1:])
	return cfg
}

// LoadArgs is Load against an explicit argument list and its own flag set.
func LoadArgs(args []string) (*Config, error) {
	return parse(pflag.NewFlagSet("excusegen", pflag.ContinueOnError), args)
}

func parse(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	addFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// LoadWithDefaults returns a Config with default values without parsing flags.
// Useful for testing.
func LoadWithDefaults() *Config {
	cfg := &Config{
		SleepDuration:  DefaultSleepDuration,
		HealthPort:     DefaultHealthPort,
		ResetThreshold: DefaultResetThreshold,
		LogLevel:       DefaultLogLevel,
	}
	cfg.applyEnvOverrides()
	return cfg
}

func addFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.DurationVarP(&cfg.SleepDuration, "sleep-duration", "s", DefaultSleepDuration,
		"Duration between excuses (env: "+EnvSleepDuration+")")
	fs.IntVar(&cfg.HealthPort, "health-port", DefaultHealthPort,
		"Port for health check server (env: "+EnvHealthPort+")")
	fs.IntVar(&cfg.ResetThreshold, "reset-threshold", DefaultResetThreshold,
		"Draws before a picker is forced to reset, 0 to disable (env: "+EnvResetThreshold+")")
	fs.StringVarP(&cfg.WordlistPath, "wordlist", "w", "",
		"YAML word list file (env: "+EnvWordlist+")")
	fs.Uint64Var(&cfg.Seed, "seed", 0,
		"Random seed, 0 seeds from the clock (env: "+EnvSeed+")")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel,
		"Log level (env: "+EnvLogLevel+")")
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvSleepDuration); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.SleepDuration = d
		}
	}

	if v := os.Getenv(EnvHealthPort); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 && i < 65536 {
			c.HealthPort = i
		}
	}

	if v := os.Getenv(EnvResetThreshold); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			c.ResetThreshold = i
		}
	}

	if v := os.Getenv(EnvWordlist); v != "" {
		c.WordlistPath = v
	}

	if v := os.Getenv(EnvSeed); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = u
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		if _, err := zapcore.ParseLevel(v); err == nil {
			c.LogLevel = v
		}
	}
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var err error
	if c.SleepDuration <= 0 {
		err = multierr.Append(err, fmt.Errorf("sleep duration must be positive, got %v", c.SleepDuration))
	}
	if c.HealthPort <= 0 || c.HealthPort >= 65536 {
		err = multierr.Append(err, fmt.Errorf("health port out of range: %d", c.HealthPort))
	}
	if c.ResetThreshold < 0 {
		err = multierr.Append(err, errors.New("reset threshold must not be negative"))
	}
	if _, lerr := zapcore.ParseLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	return err
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
