package bigquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/mcp-bigquery/pkg/admission"
)

func TestValidateConfig(t *testing.T) {
	t.Run("requires project id", func(t *testing.T) {
		err := validateConfig(Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project_id")
	})

	t.Run("rejects negative max_rows", func(t *testing.T) {
		err := validateConfig(Config{ProjectID: "p", MaxRows: -1})
		require.Error(t, err)
	})

	t.Run("accepts minimal config", func(t *testing.T) {
		assert.NoError(t, validateConfig(Config{ProjectID: "p"}))
	})
}

func TestApplyDefaults(t *testing.T) {
	cfg := applyDefaults(Config{ProjectID: "p"})
	assert.Equal(t, admission.DefaultMaxRows, cfg.MaxRows)

	cfg = applyDefaults(Config{ProjectID: "p", MaxRows: 500})
	assert.Equal(t, 500, cfg.MaxRows)
}
