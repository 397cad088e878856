package bq

import (
	"context"
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresProject(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project id is required")
}

func TestCapRows(t *testing.T) {
	// Run allocates its result slice from the cap, so negative and zero
	// values must clamp to the default rather than reaching make.
	assert.Equal(t, 100, capRows(-1))
	assert.Equal(t, 100, capRows(0))
	assert.Equal(t, 1, capRows(1))
	assert.Equal(t, 500, capRows(500))
}

func TestToRow(t *testing.T) {
	values := map[string]bigquery.Value{
		"id":   int64(7),
		"name": "widget",
		"tags": []bigquery.Value{"a", "b"},
	}
	row := toRow(values)
	assert.Equal(t, int64(7), row["id"])
	assert.Equal(t, "widget", row["name"])
	assert.Len(t, row, 3)
}

func TestToColumns(t *testing.T) {
	schema := bigquery.Schema{
		{Name: "id", Type: bigquery.IntegerFieldType, Required: true},
		{Name: "name", Type: bigquery.StringFieldType, Description: "display name"},
		{Name: "tags", Type: bigquery.StringFieldType, Repeated: true},
	}
	cols := toColumns(schema)
	require.Len(t, cols, 3)

	assert.Equal(t, ColumnInfo{Name: "id", Type: "INTEGER", Mode: "REQUIRED"}, cols[0])
	assert.Equal(t, "NULLABLE", cols[1].Mode)
	assert.Equal(t, "display name", cols[1].Description)
	assert.Equal(t, "REPEATED", cols[2].Mode)
}
