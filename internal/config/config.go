// Package config provides the configuration schema and loader for the azmcp
// services. Configuration is read from a YAML file, then overridden by
// AZMCP_* environment variables so containerized deployments can avoid
// config files entirely.
package config

import "log/slog"

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Slog maps l onto the corresponding [slog.Level]. Unknown values map to
// info.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the root configuration structure, loaded with [Load] or
// [LoadFromReader].
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the HTTP server listens on
	// (e.g. ":8001"). Each binary supplies its own default.
	ListenAddr string `yaml:"listen_addr" envconfig:"LISTEN_ADDR"`

	// BasePath is the route of the MCP SSE endpoint. Default: "/sse".
	BasePath string `yaml:"base_path" envconfig:"BASE_PATH"`

	// LogLevel controls verbosity. Default: info.
	LogLevel LogLevel `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// TLS configures TLS for the server. When nil, the server runs plain
	// HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file" envconfig:"TLS_CERT_FILE"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file" envconfig:"TLS_KEY_FILE"`
}

// Default returns a Config with every field at its default, listening on
// listenAddr.
func Default(listenAddr string) *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: listenAddr,
			BasePath:   "/sse",
			LogLevel:   LogInfo,
		},
	}
}
