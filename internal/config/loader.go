package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment variable overrides (AZMCP_*).
const envPrefix = "azmcp"

// Load reads the YAML configuration file at path, applies environment
// overrides, fills defaults, and validates the result. When the file does
// not exist, the error wraps [os.ErrNotExist] so callers can fall back to
// [Default].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the config file at path. When the file does not exist
// it falls back to [Default] with the given listen address, still applying
// AZMCP_* environment overrides. A config file that exists but fails to parse
// or validate is always an error.
func LoadOrDefault(path, listenAddr string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		if cfg.Server.ListenAddr == "" {
			cfg.Server.ListenAddr = listenAddr
		}
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg = Default(listenAddr)
	if err := FromEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies AZMCP_* environment
// overrides, fills defaults, and validates the result. Useful in tests where
// configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := FromEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv overrides cfg fields from AZMCP_* environment variables.
func FromEnv(cfg *Config) error {
	if err := envconfig.Process(envPrefix, &cfg.Server); err != nil {
		return fmt.Errorf("config: process environment: %w", err)
	}
	// envconfig allocates nil struct pointers while walking the schema; an
	// all-empty TLS block means TLS stays disabled.
	if tls := cfg.Server.TLS; tls != nil && tls.CertFile == "" && tls.KeyFile == "" {
		cfg.Server.TLS = nil
	}
	return nil
}

// applyDefaults fills zero-valued fields that have a fixed default. The
// listen address has per-binary defaults and is left to the caller.
func applyDefaults(cfg *Config) {
	if cfg.Server.BasePath == "" {
		cfg.Server.BasePath = "/sse"
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if !strings.HasPrefix(cfg.Server.BasePath, "/") {
		errs = append(errs, fmt.Errorf("server.base_path %q must start with /", cfg.Server.BasePath))
	}
	if tls := cfg.Server.TLS; tls != nil {
		if tls.CertFile == "" || tls.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	return errors.Join(errs...)
}
