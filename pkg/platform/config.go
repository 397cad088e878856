// Package platform wires configuration, the BigQuery toolkit, and the MCP
// server into a runnable service.
package platform

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	bqtoolkit "github.com/txn2/mcp-bigquery/pkg/toolkits/bigquery"
)

// Transport names accepted by ServerConfig.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the complete server configuration.
type Config struct {
	Server   ServerConfig     `yaml:"server"`
	BigQuery bqtoolkit.Config `yaml:"bigquery"`
	Logging  LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Transport   string `yaml:"transport"` // "stdio", "http"
	Address     string `yaml:"address"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level     string `yaml:"level"` // "debug", "info", "warn", "error"
	ToolCalls bool   `yaml:"tool_calls"`
}

// SlogLevel maps the configured level name to a slog level.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig loads configuration from a YAML file. ${VAR} references are
// expanded from the environment before parsing.
// The path is expected to come from command line arguments, controlled by the
// administrator.
func LoadConfig(path string) (*Config, error) {
	// #nosec G304 -- path is from CLI args, controlled by admin
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(expandEnvVars(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// envVarRef matches ${VAR} references in config text.
var envVarRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	return envVarRef.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// DefaultConfig returns a configuration suitable for running without a
// config file. The BigQuery project must still be set by the caller.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Logging.ToolCalls = true
	applyDefaults(cfg)
	return cfg
}

// applyDefaults applies default values to the config.
func applyDefaults(cfg *Config) {
	if cfg.Server.Name == "" {
		cfg.Server.Name = "mcp-bigquery"
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "1.0.0"
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = TransportStdio
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Transport != TransportStdio && c.Server.Transport != TransportHTTP {
		errs = append(errs, fmt.Sprintf("server.transport must be %q or %q", TransportStdio, TransportHTTP))
	}
	if c.BigQuery.ProjectID == "" {
		errs = append(errs, "bigquery.project_id is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
