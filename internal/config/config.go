package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all runtime settings for the dashboard server.
type Config struct {
	Addr           string `koanf:"addr" yaml:"addr"`
	Env            string `koanf:"env" yaml:"env"`
	DBPath         string `koanf:"db_path" yaml:"db_path"`
	BackendURL     string `koanf:"backend_url" yaml:"backend_url"`
	IdentitySecret string `koanf:"identity_secret" yaml:"identity_secret"`
	CSRFKey        string `koanf:"csrf_key" yaml:"csrf_key"`
	ResendKey      string `koanf:"resend_key" yaml:"resend_key"`
	EmailFrom      string `koanf:"email_from" yaml:"email_from"`
	EmailReplyTo   string `koanf:"email_reply_to" yaml:"email_reply_to"`
	RateLimitPerSec int   `koanf:"rate_limit_per_sec" yaml:"rate_limit_per_sec"`
}

// DefaultConfig returns a development-friendly configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		Env:             EnvDevelopment,
		DBPath:          "movesbook.db",
		BackendURL:      "http://localhost:9000",
		EmailFrom:       "Movesbook <noreply@movesbook.test>",
		EmailReplyTo:    "support@movesbook.test",
		RateLimitPerSec: 10,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MOVESBOOK_*).
// PRE: path may or may not exist; a missing file is not an error
// POST: Returns a validated Config or an error
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// MOVESBOOK_BACKEND_URL -> backend_url, etc.
	if err := k.Load(env.Provider("MOVESBOOK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "MOVESBOOK_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
// PRE: cfg has been validated
// POST: File at path holds the YAML rendering of cfg
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
// POST: Returns nil if the server can start with this configuration
func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("invalid env %q: must be development or production", c.Env)
	}
	if strings.TrimSpace(c.BackendURL) == "" {
		return errors.New("backend_url is required")
	}
	if c.IsProduction() && c.IdentitySecret == "" {
		return errors.New("identity_secret is required in production")
	}
	if c.IsProduction() && c.CSRFKey == "" {
		return errors.New("csrf_key is required in production")
	}
	if c.CSRFKey != "" {
		key, err := hex.DecodeString(c.CSRFKey)
		if err != nil || len(key) != 32 {
			return errors.New("csrf_key must be 64 hex characters (32 bytes)")
		}
	}
	if c.RateLimitPerSec <= 0 {
		return errors.New("rate_limit_per_sec must be positive")
	}
	return nil
}

// IsProduction returns true when running with the production environment.
// INVARIANT: Config fields are not mutated
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// CSRFKeyBytes decodes the configured CSRF key.
// PRE: Validate has passed
// POST: Returns the 32-byte key, or nil when no key is configured
func (c *Config) CSRFKeyBytes() []byte {
	if c.CSRFKey == "" {
		return nil
	}
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil {
		return nil
	}
	return key
}
