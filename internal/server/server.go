// Package server builds platform configuration for the MCP server binary.
package server

import (
	"fmt"
	"os"

	"github.com/txn2/mcp-bigquery/pkg/platform"
)

// Version is set at build time.
var Version = "dev"

// ConfigFromFile loads platform configuration from a YAML file.
func ConfigFromFile(path string) (*platform.Config, error) {
	return platform.LoadConfig(path)
}

// ConfigFromEnv builds platform configuration from environment variables, for
// running without a config file. GOOGLE_CLOUD_PROJECT is required; credentials
// come from Application Default Credentials.
func ConfigFromEnv() (*platform.Config, error) {
	project := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if project == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT is required when no config file is given")
	}

	cfg := platform.DefaultConfig()
	cfg.Server.Version = Version
	cfg.BigQuery.ProjectID = project
	cfg.BigQuery.Location = os.Getenv("BIGQUERY_LOCATION")

	return cfg, nil
}
