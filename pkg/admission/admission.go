// Package admission gates query execution behind a two-stage admission
// policy: no mutating statements, and no queries whose dry-run estimate
// reaches the byte threshold.
package admission

import (
	"context"
	"log/slog"

	"github.com/txn2/mcp-bigquery/pkg/classify"
)

// MaxBytesProcessed is the admission threshold: queries estimated at or above
// this many bytes are rejected. Comparison is exact unsigned integer
// comparison, strict less-than.
const MaxBytesProcessed uint64 = 1 << 40 // 1,099,511,627,776

// DefaultMaxRows is the row cap applied when the caller supplies none.
const DefaultMaxRows = 100

// QueryService is the external query engine the controller gates. DryRun
// validates a query and returns its exact byte-cost estimate without running
// it; Run executes and returns up to maxRows records. Both may block on
// network I/O. Implementations must be safe for concurrent use.
type QueryService interface {
	DryRun(ctx context.Context, query, project string) (uint64, error)
	Run(ctx context.Context, query, project string, maxRows int) ([]Row, error)
}

// Controller orchestrates the admission pipeline. It holds no per-request
// state; concurrent requests do not interfere.
type Controller struct {
	svc    QueryService
	logger *slog.Logger
}

// NewController creates a Controller gating the given query service.
func NewController(svc QueryService) *Controller {
	return &Controller{svc: svc, logger: slog.Default()}
}

// Estimate dry-runs the query and reports its byte cost against the
// threshold. Service failures (syntax, permission, quota) become a Failed
// outcome, never a Go error; nothing here is fatal to the process.
// Empty-query validation belongs to the transport layer and must happen
// before this call.
func (c *Controller) Estimate(ctx context.Context, query, project string) Outcome {
	bytes, err := c.svc.DryRun(ctx, query, project)
	if err != nil {
		c.logger.Debug("dry run failed", "error", err)
		return failed(err.Error())
	}
	c.logger.Debug("dry run complete", "bytes_processed", bytes,
		"within_limit", bytes < MaxBytesProcessed)
	return dryRunReport(bytes)
}

// ExecuteValidated runs the full pipeline: classification, dry run, threshold
// gate, then execution. Classification happens before any network call, so a
// mutating statement is rejected for free. The dry run always precedes
// execution, so the size gate is evaluated before a single byte is scanned.
// maxRows values of zero or below fall back to DefaultMaxRows.
func (c *Controller) ExecuteValidated(ctx context.Context, query, project string, maxRows int) Outcome {
	if cls := classify.Classify(query); cls.IsMutating {
		c.logger.Debug("query rejected", "matched", cls.Matched)
		return rejectedMutation(cls.Matched)
	}

	bytes, err := c.svc.DryRun(ctx, query, project)
	if err != nil {
		c.logger.Debug("dry run failed", "error", err)
		return failed(err.Error())
	}
	if bytes >= MaxBytesProcessed {
		c.logger.Debug("query rejected", "bytes_processed", bytes)
		return rejectedSize(bytes)
	}

	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	rows, err := c.svc.Run(ctx, query, project, maxRows)
	if err != nil {
		c.logger.Debug("execution failed", "error", err)
		return failed(err.Error())
	}
	c.logger.Debug("query executed", "bytes_processed", bytes, "rows", len(rows))
	return executed(bytes, rows)
}
