// Package config loads the auctiond configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openclear-io/sealedbid/core"
)

// Config is the daemon configuration. Every field has a workable default
// except Owner, which must be set explicitly: the owner identity controls
// pausing, fees, and settlement co-signing.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `yaml:"listen_addr"`

	// Owner is the platform owner identity. Required.
	Owner string `yaml:"owner"`

	// FeePercent is the initial platform fee percentage, capped at 10.
	FeePercent uint32 `yaml:"fee_percent"`

	// StartPaused starts the registry with mutating operations disabled.
	StartPaused bool `yaml:"start_paused"`

	// NATSURL enables the NATS audit publisher when non-empty.
	NATSURL string `yaml:"nats_url"`

	// NATSSubjectPrefix overrides the default audit subject namespace.
	NATSSubjectPrefix string `yaml:"nats_subject_prefix"`

	// PostgresDSN enables the Postgres audit journal when non-empty.
	PostgresDSN string `yaml:"postgres_dsn"`

	// ReadTimeout and WriteTimeout bound HTTP request handling.
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ListenAddr:   ":8080",
		FeePercent:   5,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration before the daemon starts.
func (c *Config) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("config: owner is required: %w", core.ErrInvalidInput)
	}
	if c.FeePercent > core.MaxFeePercent {
		return fmt.Errorf("config: fee_percent %d exceeds cap %d: %w",
			c.FeePercent, core.MaxFeePercent, core.ErrFeeTooHigh)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr is required: %w", core.ErrInvalidInput)
	}
	return nil
}
