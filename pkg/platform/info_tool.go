package platform

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-bigquery/pkg/admission"
)

// Info describes the running deployment for agents.
type Info struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Project     string   `json:"project"`
	Location    string   `json:"location,omitempty"`
	Tools       []string `json:"tools"`
	Limits      Limits   `json:"limits"`
}

// Limits describes the admission policy in effect.
type Limits struct {
	MaxBytesProcessed string `json:"maxBytesProcessed"`
	FormattedLimit    string `json:"formattedLimit"`
	DefaultMaxRows    int    `json:"defaultMaxRows"`
}

// serverInfoInput is empty since this tool has no parameters.
type serverInfoInput struct{}

// registerInfoTool registers the server_info tool with the MCP server.
func (p *Platform) registerInfoTool() {
	mcp.AddTool(p.mcpServer, &mcp.Tool{
		Name: "server_info",
		Description: "Get information about this BigQuery MCP server: the project it queries, " +
			"available tools, and the query admission limits. Call this first to understand " +
			"what is available and what will be rejected.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ serverInfoInput) (*mcp.CallToolResult, any, error) {
		return p.handleInfo(ctx, req)
	})
}

// handleInfo handles the server_info tool call.
func (p *Platform) handleInfo(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, any, error) {
	info := Info{
		Name:        p.config.Server.Name,
		Version:     p.config.Server.Version,
		Description: p.config.Server.Description,
		Project:     p.config.BigQuery.ProjectID,
		Location:    p.config.BigQuery.Location,
		Tools:       append(p.toolkit.Tools(), "server_info"),
		Limits: Limits{
			MaxBytesProcessed: strconv.FormatUint(admission.MaxBytesProcessed, 10),
			FormattedLimit:    admission.FormatBytes(admission.MaxBytesProcessed),
			DefaultMaxRows:    admission.DefaultMaxRows,
		},
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{ //nolint:nilerr // MCP protocol: tool errors are returned in CallToolResult.IsError, not as Go errors
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Error: " + err.Error()},
			},
			IsError: true,
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}
