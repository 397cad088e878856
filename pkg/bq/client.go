// Package bq wraps the BigQuery client library behind the interfaces the
// admission pipeline and metadata tools consume.
package bq

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/txn2/mcp-bigquery/pkg/admission"
)

// Config holds BigQuery client configuration.
type Config struct {
	// ProjectID is the default billing project. Required.
	ProjectID string
	// Location pins jobs to a region, e.g. "US" or "europe-west1". Optional.
	Location string
	// CredentialsFile is a service account key path. When empty, Application
	// Default Credentials are used.
	CredentialsFile string
}

// Client issues dry-run, query, and metadata requests against BigQuery. The
// underlying connection is stateless per request and safe for concurrent use.
type Client struct {
	cfg  Config
	bq   *bigquery.Client
	opts []option.ClientOption
}

// New creates a Client for the configured default project.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("bigquery project id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating bigquery client: %w", err)
	}

	return &Client{cfg: cfg, bq: client, opts: opts}, nil
}

// ProjectID returns the default billing project.
func (c *Client) ProjectID() string {
	return c.cfg.ProjectID
}

// clientFor returns the client to use for the given project override. For an
// override differing from the default project, a transient client is created
// and the release func closes it; otherwise release is a no-op.
func (c *Client) clientFor(ctx context.Context, project string) (*bigquery.Client, func(), error) {
	if project == "" || project == c.cfg.ProjectID {
		return c.bq, func() {}, nil
	}
	client, err := bigquery.NewClient(ctx, project, c.opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating bigquery client for project %s: %w", project, err)
	}
	return client, func() { _ = client.Close() }, nil
}

// DryRun validates the query and returns its exact byte-cost estimate
// without materializing results.
func (c *Client) DryRun(ctx context.Context, query, project string) (uint64, error) {
	client, release, err := c.clientFor(ctx, project)
	if err != nil {
		return 0, err
	}
	defer release()

	q := client.Query(query)
	q.DryRun = true
	if c.cfg.Location != "" {
		q.Location = c.cfg.Location
	}

	job, err := q.Run(ctx)
	if err != nil {
		return 0, err
	}

	status := job.LastStatus()
	if status == nil || status.Statistics == nil {
		return 0, fmt.Errorf("dry run returned no job statistics")
	}
	if err := status.Err(); err != nil {
		return 0, err
	}

	total := status.Statistics.TotalBytesProcessed
	if total < 0 {
		total = 0
	}
	return uint64(total), nil
}

// Run executes the query and returns up to maxRows result records.
// MaxBytesBilled caps billing at the admission threshold.
func (c *Client) Run(ctx context.Context, query, project string, maxRows int) ([]admission.Row, error) {
	maxRows = capRows(maxRows)

	client, release, err := c.clientFor(ctx, project)
	if err != nil {
		return nil, err
	}
	defer release()

	q := client.Query(query)
	q.MaxBytesBilled = int64(admission.MaxBytesProcessed)
	if c.cfg.Location != "" {
		q.Location = c.cfg.Location
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]admission.Row, 0, maxRows)
	for len(rows) < maxRows {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, toRow(row))
	}
	return rows, nil
}

// capRows clamps non-positive row caps to the default. Run is callable
// outside the admission pipeline, so it cannot rely on the caller clamping.
func capRows(maxRows int) int {
	if maxRows <= 0 {
		return admission.DefaultMaxRows
	}
	return maxRows
}

// toRow converts BigQuery values to a plain record for JSON serialization.
func toRow(values map[string]bigquery.Value) admission.Row {
	row := make(admission.Row, len(values))
	for k, v := range values {
		row[k] = v
	}
	return row
}

// Close releases the default client's resources.
func (c *Client) Close() error {
	if err := c.bq.Close(); err != nil {
		return fmt.Errorf("closing bigquery client: %w", err)
	}
	return nil
}

// Verify interface compliance.
var _ admission.QueryService = (*Client)(nil)
