package platform

import (
	bqtoolkit "github.com/txn2/mcp-bigquery/pkg/toolkits/bigquery"
)

// Options holds optional component overrides for platform construction.
type Options struct {
	// Toolkit replaces the toolkit built from config. Used by tests to
	// inject a toolkit backed by fake services.
	Toolkit *bqtoolkit.Toolkit
}

// Option configures platform construction.
type Option func(*Options)

// WithToolkit supplies a pre-built toolkit.
func WithToolkit(t *bqtoolkit.Toolkit) Option {
	return func(o *Options) {
		o.Toolkit = t
	}
}
