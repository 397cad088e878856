// Package classify decides whether a SQL statement could mutate data, schema,
// or access control, as opposed to being a pure read.
package classify

import (
	"regexp"
	"strings"
)

// Classification is the result of classifying a single query string.
// Matched is non-empty if and only if IsMutating is true; it names the first
// mutating construct found in catalog order.
type Classification struct {
	IsMutating bool
	Matched    string
}

// signature pairs a word-boundary-anchored pattern with a human-readable
// label for the construct it detects. Patterns match against normalized
// (comment-stripped, lower-cased) query text.
type signature struct {
	label   string
	pattern *regexp.Regexp
}

func sig(label, expr string) signature {
	return signature{label: label, pattern: regexp.MustCompile(expr)}
}

// catalog is the ordered list of mutating-construct signatures. The first
// match wins. Statements not matched by any entry are presumed read-only;
// unrecognized forms such as CALL or EXPORT DATA pass through undetected.
var catalog = []signature{
	sig("CREATE TABLE", `\bcreate\s+(?:or\s+replace\s+)?(?:temp(?:orary)?\s+)?table\b`),
	sig("CREATE VIEW", `\bcreate\s+(?:or\s+replace\s+)?(?:materialized\s+)?view\b`),
	sig("CREATE FUNCTION", `\bcreate\s+(?:or\s+replace\s+)?(?:temp(?:orary)?\s+)?function\b`),
	sig("CREATE PROCEDURE", `\bcreate\s+(?:or\s+replace\s+)?procedure\b`),
	sig("DROP TABLE", `\bdrop\s+table\b`),
	sig("DROP VIEW", `\bdrop\s+(?:materialized\s+)?view\b`),
	sig("DROP FUNCTION", `\bdrop\s+function\b`),
	sig("DROP PROCEDURE", `\bdrop\s+procedure\b`),
	sig("ALTER TABLE", `\balter\s+table\b`),
	sig("ALTER VIEW", `\balter\s+(?:materialized\s+)?view\b`),
	sig("INSERT INTO", `\binsert\s+into\b`),
	sig("UPDATE", `\bupdate\b`),
	sig("DELETE FROM", `\bdelete\s+from\b`),
	sig("MERGE INTO", `\bmerge\s+into\b`),
	sig("TRUNCATE TABLE", `\btruncate\s+table\b`),
	sig("GRANT", `\bgrant\b`),
	sig("REVOKE", `\brevoke\b`),
	sig("BEGIN TRANSACTION", `\bbegin\s+transaction\b`),
	sig("COMMIT", `\bcommit\b`),
	sig("ROLLBACK", `\brollback\b`),
}

var (
	lineComment  = regexp.MustCompile(`--[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Classify inspects a query string and reports whether it contains a mutating
// construct. It is pure: no I/O, deterministic, and the input is never
// modified. An empty string classifies as non-mutating.
func Classify(query string) Classification {
	normalized := normalize(query)
	for _, s := range catalog {
		if s.pattern.MatchString(normalized) {
			return Classification{IsMutating: true, Matched: s.label}
		}
	}
	return Classification{}
}

// normalize strips comments and case-folds a scratch copy of the query so
// keywords inside comments never match and matching is case-insensitive.
// Line comments are removed before block comments.
func normalize(query string) string {
	text := lineComment.ReplaceAllString(query, " ")
	text = blockComment.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}
