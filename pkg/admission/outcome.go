package admission

import (
	"fmt"
	"strconv"
)

// Row is a single result record keyed by column name.
type Row = map[string]any

// OutcomeKind discriminates the variant held by an Outcome.
type OutcomeKind int

// Outcome variants.
const (
	OutcomeRejectedMutation OutcomeKind = iota + 1
	OutcomeRejectedSize
	OutcomeDryRun
	OutcomeExecuted
	OutcomeFailed
)

// Outcome is the terminal result of an admission pipeline run. Exactly one
// variant is populated; construct it through the package constructors and
// serialize it through Response. Outcomes are immutable once built.
type Outcome struct {
	kind    OutcomeKind
	matched string
	bytes   uint64
	rows    []Row
	errMsg  string
}

func rejectedMutation(matched string) Outcome {
	return Outcome{kind: OutcomeRejectedMutation, matched: matched}
}

func rejectedSize(bytes uint64) Outcome {
	return Outcome{kind: OutcomeRejectedSize, bytes: bytes}
}

func dryRunReport(bytes uint64) Outcome {
	return Outcome{kind: OutcomeDryRun, bytes: bytes}
}

func executed(bytes uint64, rows []Row) Outcome {
	if rows == nil {
		rows = []Row{}
	}
	return Outcome{kind: OutcomeExecuted, bytes: bytes, rows: rows}
}

func failed(errMsg string) Outcome {
	return Outcome{kind: OutcomeFailed, errMsg: errMsg}
}

// Kind returns the populated variant.
func (o Outcome) Kind() OutcomeKind { return o.kind }

// Success reports whether the outcome represents a successful operation.
// A dry-run report is a success even when the estimate is over the limit;
// the dry run itself succeeded.
func (o Outcome) Success() bool {
	return o.kind == OutcomeDryRun || o.kind == OutcomeExecuted
}

// BytesProcessed returns the measured byte count for variants that carry one.
func (o Outcome) BytesProcessed() uint64 { return o.bytes }

// EstimateResponse is the wire shape of a successful dry run.
type EstimateResponse struct {
	Success        bool   `json:"success"`
	BytesProcessed string `json:"bytesProcessed"`
	FormattedSize  string `json:"formattedSize"`
	IsBelowLimit   bool   `json:"isBelowLimit"`
	Message        string `json:"message"`
}

// ExecuteResponse is the wire shape of a successful gated execution.
type ExecuteResponse struct {
	Success        bool   `json:"success"`
	BytesProcessed string `json:"bytesProcessed"`
	FormattedSize  string `json:"formattedSize"`
	RowCount       int    `json:"rowCount"`
	Results        []Row  `json:"results"`
}

// FailureResponse is the wire shape of a rejection or service failure.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// OversizeResponse is the wire shape of a size-limit rejection. It carries the
// measured byte count so the caller can decide whether to narrow the query.
type OversizeResponse struct {
	Success        bool   `json:"success"`
	BytesProcessed string `json:"bytesProcessed"`
	FormattedSize  string `json:"formattedSize"`
	Error          string `json:"error"`
}

// Response maps the outcome to its wire shape. The switch is exhaustive over
// the constructed variants; a zero-value Outcome maps to a generic failure.
func (o Outcome) Response() any {
	switch o.kind {
	case OutcomeRejectedMutation:
		return FailureResponse{
			Error: fmt.Sprintf("mutating statement detected (%s): only read-only queries are allowed", o.matched),
		}
	case OutcomeRejectedSize:
		return OversizeResponse{
			BytesProcessed: strconv.FormatUint(o.bytes, 10),
			FormattedSize:  FormatBytes(o.bytes),
			Error: fmt.Sprintf("query would process %s, exceeding the %s limit",
				FormatBytes(o.bytes), FormatBytes(MaxBytesProcessed)),
		}
	case OutcomeDryRun:
		return EstimateResponse{
			Success:        true,
			BytesProcessed: strconv.FormatUint(o.bytes, 10),
			FormattedSize:  FormatBytes(o.bytes),
			IsBelowLimit:   o.bytes < MaxBytesProcessed,
			Message:        dryRunMessage(o.bytes),
		}
	case OutcomeExecuted:
		return ExecuteResponse{
			Success:        true,
			BytesProcessed: strconv.FormatUint(o.bytes, 10),
			FormattedSize:  FormatBytes(o.bytes),
			RowCount:       len(o.rows),
			Results:        o.rows,
		}
	case OutcomeFailed:
		return FailureResponse{Error: o.errMsg}
	default:
		return FailureResponse{Error: "internal error: empty outcome"}
	}
}

// dryRunMessage renders the human-readable summary of a dry-run estimate.
func dryRunMessage(bytes uint64) string {
	if bytes < MaxBytesProcessed {
		return fmt.Sprintf("Query would process %s, within the %s limit.",
			FormatBytes(bytes), FormatBytes(MaxBytesProcessed))
	}
	return fmt.Sprintf("Query would process %s, exceeding the %s limit. It would be rejected by bq_query.",
		FormatBytes(bytes), FormatBytes(MaxBytesProcessed))
}

const (
	gib = 1 << 30
	tib = 1 << 40
)

// FormatBytes renders a byte count in binary units: terabytes to four decimal
// places at or above 1 TB, otherwise gigabytes to two decimal places.
func FormatBytes(bytes uint64) string {
	if bytes >= tib {
		return fmt.Sprintf("%.4f TB", float64(bytes)/float64(tib))
	}
	return fmt.Sprintf("%.2f GB", float64(bytes)/float64(gib))
}
