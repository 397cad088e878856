// Package main provides the entry point for the mcp-bigquery server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/txn2/mcp-bigquery/internal/server"
	"github.com/txn2/mcp-bigquery/pkg/platform"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	configPath  string
	transport   string
	address     string
	showVersion bool
}

func parseFlags() serverOptions {
	opts := serverOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.transport, "transport", "", "Transport type: stdio, http (overrides config)")
	flag.StringVar(&opts.address, "address", "", "Server address for HTTP transport (overrides config)")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("mcp-bigquery version %s\n", mcpserver.Version)
		return nil
	}

	// Logging must be configured before the platform is built: the platform,
	// controller, and middleware snapshot slog.Default at construction.
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	applyOverrides(cfg, opts)
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := platform.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer func() { _ = p.Close() }()

	return p.Run(ctx)
}

func loadConfig(opts serverOptions) (*platform.Config, error) {
	if opts.configPath != "" {
		return mcpserver.ConfigFromFile(opts.configPath)
	}
	return mcpserver.ConfigFromEnv()
}

// applyOverrides lets command-line flags win over the config file.
func applyOverrides(cfg *platform.Config, opts serverOptions) {
	if opts.transport != "" {
		cfg.Server.Transport = opts.transport
	}
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}
}

// setupLogging routes structured logs to stderr, keeping stdout free for the
// stdio transport.
func setupLogging(cfg *platform.Config) {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Logging.SlogLevel(),
	})
	slog.SetDefault(slog.New(handler))
}
