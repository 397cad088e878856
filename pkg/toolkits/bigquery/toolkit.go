// Package bigquery provides the BigQuery toolkit: MCP tools for cost-gated
// query execution and dataset metadata.
package bigquery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/mcp-bigquery/pkg/admission"
	"github.com/txn2/mcp-bigquery/pkg/bq"
)

// Tool names.
const (
	ToolDryRun        = "bq_dry_run"
	ToolQuery         = "bq_query"
	ToolListDatasets  = "bq_list_datasets"
	ToolListTables    = "bq_list_tables"
	ToolDescribeTable = "bq_describe_table"
)

// MetadataService lists datasets and tables and describes table schemas.
// *bq.Client implements it.
type MetadataService interface {
	ListDatasets(ctx context.Context, project string) ([]bq.DatasetInfo, error)
	ListTables(ctx context.Context, project, dataset string) ([]bq.TableInfo, error)
	DescribeTable(ctx context.Context, project, dataset, table string) (*bq.TableDescription, error)
}

// Toolkit exposes the BigQuery tools over MCP.
type Toolkit struct {
	name       string
	config     Config
	controller *admission.Controller
	meta       MetadataService
	closer     func() error
}

// New creates a BigQuery toolkit backed by a live client.
func New(ctx context.Context, name string, cfg Config) (*Toolkit, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	cfg = applyDefaults(cfg)

	client, err := bq.New(ctx, bq.Config{
		ProjectID:       cfg.ProjectID,
		Location:        cfg.Location,
		CredentialsFile: cfg.CredentialsFile,
	})
	if err != nil {
		return nil, err
	}

	t := NewWithServices(name, cfg, client, client)
	t.closer = client.Close
	return t, nil
}

// NewWithServices wires a toolkit onto explicit service implementations
// instead of a live client. Callers embedding the toolkit, and tests, use it
// to substitute their own query or metadata backends.
func NewWithServices(name string, cfg Config, svc admission.QueryService, meta MetadataService) *Toolkit {
	return &Toolkit{
		name:       name,
		config:     cfg,
		controller: admission.NewController(svc),
		meta:       meta,
	}
}

// Kind returns the toolkit kind.
func (*Toolkit) Kind() string {
	return "bigquery"
}

// Name returns the toolkit instance name.
func (t *Toolkit) Name() string {
	return t.name
}

// RegisterTools registers all BigQuery tools with the MCP server.
func (t *Toolkit) RegisterTools(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name: ToolDryRun,
		Description: t.description(ToolDryRun,
			"Estimate the byte cost of a BigQuery SQL query without running it. "+
				"Returns the exact bytes the query would process and whether it is below the 1 TB limit."),
	}, t.handleDryRun)

	mcp.AddTool(s, &mcp.Tool{
		Name: ToolQuery,
		Description: t.description(ToolQuery,
			"Validate and execute a read-only BigQuery SQL query. Mutating statements are rejected, "+
				"and queries that would process 1 TB or more are rejected before execution. "+
				"Returns up to max_results rows (default 100)."),
	}, t.handleQuery)

	mcp.AddTool(s, &mcp.Tool{
		Name: ToolListDatasets,
		Description: t.description(ToolListDatasets,
			"List the datasets in the project."),
	}, t.handleListDatasets)

	mcp.AddTool(s, &mcp.Tool{
		Name: ToolListTables,
		Description: t.description(ToolListTables,
			"List the tables in a dataset."),
	}, t.handleListTables)

	mcp.AddTool(s, &mcp.Tool{
		Name: ToolDescribeTable,
		Description: t.description(ToolDescribeTable,
			"Describe a table: schema, row count, and size in bytes."),
	}, t.handleDescribeTable)
}

// Tools returns the list of tool names provided by this toolkit.
func (*Toolkit) Tools() []string {
	return []string{
		ToolDryRun,
		ToolQuery,
		ToolListDatasets,
		ToolListTables,
		ToolDescribeTable,
	}
}

// Close releases the underlying client.
func (t *Toolkit) Close() error {
	if t.closer != nil {
		return t.closer()
	}
	return nil
}

// dryRunInput is the input schema for bq_dry_run.
type dryRunInput struct {
	Query     string `json:"query"`
	ProjectID string `json:"project_id,omitempty"`
}

// queryInput is the input schema for bq_query.
type queryInput struct {
	Query      string `json:"query"`
	ProjectID  string `json:"project_id,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

// listDatasetsInput is the input schema for bq_list_datasets.
type listDatasetsInput struct {
	ProjectID string `json:"project_id,omitempty"`
}

// listTablesInput is the input schema for bq_list_tables.
type listTablesInput struct {
	Dataset   string `json:"dataset"`
	ProjectID string `json:"project_id,omitempty"`
}

// describeTableInput is the input schema for bq_describe_table.
type describeTableInput struct {
	Dataset   string `json:"dataset"`
	Table     string `json:"table"`
	ProjectID string `json:"project_id,omitempty"`
}

// handleDryRun handles the bq_dry_run tool call.
func (t *Toolkit) handleDryRun(ctx context.Context, _ *mcp.CallToolRequest, input dryRunInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, nil, fmt.Errorf("query parameter is required")
	}

	outcome := t.controller.Estimate(ctx, input.Query, input.ProjectID)
	return outcomeResult(outcome)
}

// handleQuery handles the bq_query tool call.
func (t *Toolkit) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, input queryInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, nil, fmt.Errorf("query parameter is required")
	}

	maxRows := input.MaxResults
	if maxRows <= 0 {
		maxRows = t.config.MaxRows
	}

	outcome := t.controller.ExecuteValidated(ctx, input.Query, input.ProjectID, maxRows)
	return outcomeResult(outcome)
}

// listDatasetsOutput is the bq_list_datasets response payload.
type listDatasetsOutput struct {
	Datasets []bq.DatasetInfo `json:"datasets"`
	Count    int              `json:"count"`
}

// handleListDatasets handles the bq_list_datasets tool call.
func (t *Toolkit) handleListDatasets(ctx context.Context, _ *mcp.CallToolRequest, input listDatasetsInput) (*mcp.CallToolResult, any, error) {
	datasets, err := t.meta.ListDatasets(ctx, input.ProjectID)
	if err != nil {
		return errorResult(err.Error()), nil, nil //nolint:nilerr // MCP protocol: tool errors are returned in CallToolResult.IsError
	}
	return jsonResult(listDatasetsOutput{Datasets: datasets, Count: len(datasets)}, false)
}

// listTablesOutput is the bq_list_tables response payload.
type listTablesOutput struct {
	Dataset string         `json:"dataset"`
	Tables  []bq.TableInfo `json:"tables"`
	Count   int            `json:"count"`
}

// handleListTables handles the bq_list_tables tool call.
func (t *Toolkit) handleListTables(ctx context.Context, _ *mcp.CallToolRequest, input listTablesInput) (*mcp.CallToolResult, any, error) {
	if input.Dataset == "" {
		return nil, nil, fmt.Errorf("dataset parameter is required")
	}

	tables, err := t.meta.ListTables(ctx, input.ProjectID, input.Dataset)
	if err != nil {
		return errorResult(err.Error()), nil, nil //nolint:nilerr // MCP protocol: tool errors are returned in CallToolResult.IsError
	}
	return jsonResult(listTablesOutput{Dataset: input.Dataset, Tables: tables, Count: len(tables)}, false)
}

// handleDescribeTable handles the bq_describe_table tool call.
func (t *Toolkit) handleDescribeTable(ctx context.Context, _ *mcp.CallToolRequest, input describeTableInput) (*mcp.CallToolResult, any, error) {
	if input.Dataset == "" || input.Table == "" {
		return nil, nil, fmt.Errorf("dataset and table parameters are required")
	}

	desc, err := t.meta.DescribeTable(ctx, input.ProjectID, input.Dataset, input.Table)
	if err != nil {
		return errorResult(err.Error()), nil, nil //nolint:nilerr // MCP protocol: tool errors are returned in CallToolResult.IsError
	}
	return jsonResult(desc, false)
}

// outcomeResult serializes an admission outcome as a tool result. Rejections
// and service failures are IsError results carrying the structured payload.
func outcomeResult(outcome admission.Outcome) (*mcp.CallToolResult, any, error) {
	return jsonResult(outcome.Response(), !outcome.Success())
}

// jsonResult marshals v into a single JSON text content block.
func jsonResult(v any, isError bool) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult("internal error marshaling response"), nil, nil //nolint:nilerr // MCP protocol: tool errors are returned in CallToolResult.IsError
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
		IsError: isError,
	}, nil, nil
}

// errorResult creates an error CallToolResult.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(`{"success": false, "error": %q}`, msg)},
		},
		IsError: true,
	}
}

// Verify interface compliance.
var _ interface {
	Kind() string
	Name() string
	RegisterTools(s *mcp.Server)
	Tools() []string
	Close() error
} = (*Toolkit)(nil)
