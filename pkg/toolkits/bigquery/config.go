package bigquery

import (
	"fmt"

	"github.com/txn2/mcp-bigquery/pkg/admission"
)

// Config holds BigQuery toolkit configuration.
type Config struct {
	ProjectID       string            `yaml:"project_id"`
	Location        string            `yaml:"location"`
	CredentialsFile string            `yaml:"credentials_file"`
	MaxRows         int               `yaml:"max_rows"`
	Descriptions    map[string]string `yaml:"descriptions"`
}

// validateConfig validates the required configuration fields.
func validateConfig(cfg Config) error {
	if cfg.ProjectID == "" {
		return fmt.Errorf("bigquery project_id is required")
	}
	if cfg.MaxRows < 0 {
		return fmt.Errorf("bigquery max_rows must not be negative")
	}
	return nil
}

// applyDefaults applies default values to the configuration.
func applyDefaults(cfg Config) Config {
	if cfg.MaxRows == 0 {
		cfg.MaxRows = admission.DefaultMaxRows
	}
	return cfg
}

// description returns the tool description, honoring config overrides.
func (t *Toolkit) description(tool, fallback string) string {
	if d, ok := t.config.Descriptions[tool]; ok && d != "" {
		return d
	}
	return fallback
}
