package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-bigquery/pkg/health"
	"github.com/txn2/mcp-bigquery/pkg/middleware"
	bqtoolkit "github.com/txn2/mcp-bigquery/pkg/toolkits/bigquery"
)

// httpReadHeaderTimeout bounds header reads on the HTTP transport.
const httpReadHeaderTimeout = 10 * time.Second

// Platform is the assembled server: configuration, toolkit, MCP server, and
// health state.
type Platform struct {
	config    *Config
	mcpServer *mcp.Server
	toolkit   *bqtoolkit.Toolkit
	checker   *health.Checker
	logger    *slog.Logger
}

// New creates a platform from validated configuration. The BigQuery client is
// created here; a bad project or credentials surface as an error before any
// transport starts.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Platform, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	toolkit := options.Toolkit
	if toolkit == nil {
		var err error
		toolkit, err = bqtoolkit.New(ctx, "bigquery", cfg.BigQuery)
		if err != nil {
			return nil, fmt.Errorf("creating bigquery toolkit: %w", err)
		}
	}

	p := &Platform{
		config:  cfg,
		toolkit: toolkit,
		checker: health.NewChecker(),
		logger:  slog.Default(),
	}
	p.buildMCPServer()
	return p, nil
}

// buildMCPServer constructs the MCP server, attaches middleware, and
// registers all tools.
func (p *Platform) buildMCPServer() {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    p.config.Server.Name,
		Version: p.config.Server.Version,
	}, nil)

	if p.config.Logging.ToolCalls {
		server.AddReceivingMiddleware(middleware.ToolCallLogging(p.logger))
	}

	p.toolkit.RegisterTools(server)
	p.mcpServer = server
	p.registerInfoTool()
}

// Run serves the configured transport until ctx is canceled or the transport
// fails.
func (p *Platform) Run(ctx context.Context) error {
	switch p.config.Server.Transport {
	case TransportStdio:
		return p.runStdio(ctx)
	case TransportHTTP:
		return p.runHTTP(ctx)
	default:
		return fmt.Errorf("unknown transport: %s", p.config.Server.Transport)
	}
}

// runStdio serves the MCP protocol over stdin/stdout. Logs go to stderr so
// the protocol stream stays clean.
func (p *Platform) runStdio(ctx context.Context) error {
	p.checker.SetReady()
	p.logger.Info("serving MCP over stdio", "server", p.config.Server.Name)
	if err := p.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// runHTTP serves the streamable HTTP transport on /mcp with health probes on
// /healthz and /readyz.
func (p *Platform) runHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return p.mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	p.checker.Register(mux)

	httpServer := &http.Server{
		Addr:              p.config.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		p.checker.SetDraining()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	p.checker.SetReady()
	p.logger.Info("serving MCP over HTTP",
		"server", p.config.Server.Name, "address", p.config.Server.Address)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http transport: %w", err)
	}
	return nil
}

// MCPServer returns the MCP server.
func (p *Platform) MCPServer() *mcp.Server {
	return p.mcpServer
}

// Config returns the platform configuration.
func (p *Platform) Config() *Config {
	return p.config
}

// Checker returns the health checker.
func (p *Platform) Checker() *health.Checker {
	return p.checker
}

// Close releases platform resources.
func (p *Platform) Close() error {
	if p.toolkit == nil {
		return nil
	}
	if err := p.toolkit.Close(); err != nil {
		return fmt.Errorf("closing toolkit: %w", err)
	}
	return nil
}
