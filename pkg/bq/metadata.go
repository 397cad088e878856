package bq

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// DatasetInfo summarizes a dataset for listing.
type DatasetInfo struct {
	ID       string `json:"id"`
	Location string `json:"location,omitempty"`
}

// TableInfo summarizes a table for listing.
type TableInfo struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

// ColumnInfo describes one schema field.
type ColumnInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Mode        string `json:"mode,omitempty"`
	Description string `json:"description,omitempty"`
}

// TableDescription is the full description of a table.
type TableDescription struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Description string       `json:"description,omitempty"`
	NumRows     uint64       `json:"numRows"`
	NumBytes    int64        `json:"numBytes"`
	Columns     []ColumnInfo `json:"columns"`
}

// ListDatasets lists the datasets in the given project, or the default
// project when the override is empty.
func (c *Client) ListDatasets(ctx context.Context, project string) ([]DatasetInfo, error) {
	client, release, err := c.clientFor(ctx, project)
	if err != nil {
		return nil, err
	}
	defer release()

	datasets := []DatasetInfo{}
	it := client.Datasets(ctx)
	for {
		ds, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing datasets: %w", err)
		}
		datasets = append(datasets, DatasetInfo{ID: ds.DatasetID})
	}
	return datasets, nil
}

// ListTables lists the tables in a dataset.
func (c *Client) ListTables(ctx context.Context, project, dataset string) ([]TableInfo, error) {
	client, release, err := c.clientFor(ctx, project)
	if err != nil {
		return nil, err
	}
	defer release()

	tables := []TableInfo{}
	it := client.Dataset(dataset).Tables(ctx)
	for {
		tbl, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing tables in %s: %w", dataset, err)
		}
		tables = append(tables, TableInfo{ID: tbl.TableID})
	}
	return tables, nil
}

// DescribeTable fetches schema and size metadata for a table.
func (c *Client) DescribeTable(ctx context.Context, project, dataset, table string) (*TableDescription, error) {
	client, release, err := c.clientFor(ctx, project)
	if err != nil {
		return nil, err
	}
	defer release()

	md, err := client.Dataset(dataset).Table(table).Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching metadata for %s.%s: %w", dataset, table, err)
	}

	desc := &TableDescription{
		ID:          md.FullID,
		Type:        string(md.Type),
		Description: md.Description,
		NumRows:     md.NumRows,
		NumBytes:    md.NumBytes,
		Columns:     toColumns(md.Schema),
	}
	return desc, nil
}

// toColumns flattens a BigQuery schema into column descriptions.
func toColumns(schema bigquery.Schema) []ColumnInfo {
	columns := make([]ColumnInfo, 0, len(schema))
	for _, field := range schema {
		columns = append(columns, ColumnInfo{
			Name:        field.Name,
			Type:        string(field.Type),
			Mode:        fieldMode(field),
			Description: field.Description,
		})
	}
	return columns
}

// fieldMode maps schema flags to the REQUIRED/REPEATED/NULLABLE mode strings.
func fieldMode(field *bigquery.FieldSchema) string {
	switch {
	case field.Repeated:
		return "REPEATED"
	case field.Required:
		return "REQUIRED"
	default:
		return "NULLABLE"
	}
}
