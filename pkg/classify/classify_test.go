package classify

import (
	"testing"
)

func TestClassify_ReadOnlyStatements(t *testing.T) {
	queries := []string{
		"SELECT * FROM users",
		"select name from orders",
		"  SELECT id FROM products WHERE active = true",
		"WITH recent AS (SELECT * FROM events) SELECT count(*) FROM recent",
		"SELECT * FROM `project.dataset.table` LIMIT 10",
		"",
	}
	for _, q := range queries {
		c := Classify(q)
		if c.IsMutating {
			t.Errorf("read-only query classified as mutating: %q (matched %s)", q, c.Matched)
		}
		if c.Matched != "" {
			t.Errorf("non-mutating classification carries a label: %q", c.Matched)
		}
	}
}

func TestClassify_MutatingStatements(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"INSERT INTO users VALUES (1, 'test')", "INSERT INTO"},
		{"insert into orders (id) values (1)", "INSERT INTO"},
		{"UPDATE users SET name = 'x' WHERE id = 1", "UPDATE"},
		{"DELETE FROM users WHERE id = 1", "DELETE FROM"},
		{"CREATE TABLE users (id INT64)", "CREATE TABLE"},
		{"CREATE OR REPLACE TABLE users (id INT64)", "CREATE TABLE"},
		{"create temp table scratch as select 1", "CREATE TABLE"},
		{"DROP TABLE users", "DROP TABLE"},
		{"ALTER TABLE users ADD COLUMN email STRING", "ALTER TABLE"},
		{"MERGE INTO target USING source ON target.id = source.id WHEN MATCHED THEN DELETE", "MERGE INTO"},
		{"TRUNCATE TABLE users", "TRUNCATE TABLE"},
		{"CREATE VIEW v AS SELECT 1", "CREATE VIEW"},
		{"CREATE OR REPLACE MATERIALIZED VIEW v AS SELECT 1", "CREATE VIEW"},
		{"DROP VIEW v", "DROP VIEW"},
		{"CREATE FUNCTION f() RETURNS INT64 AS (1)", "CREATE FUNCTION"},
		{"CREATE OR REPLACE TEMP FUNCTION f() AS (1)", "CREATE FUNCTION"},
		{"DROP FUNCTION f", "DROP FUNCTION"},
		{"CREATE PROCEDURE p() BEGIN SELECT 1; END", "CREATE PROCEDURE"},
		{"DROP PROCEDURE p", "DROP PROCEDURE"},
		{"GRANT `roles/bigquery.dataViewer` ON TABLE t TO 'user:a@b.com'", "GRANT"},
		{"REVOKE `roles/bigquery.dataViewer` ON TABLE t FROM 'user:a@b.com'", "REVOKE"},
		{"BEGIN TRANSACTION", "BEGIN TRANSACTION"},
		{"COMMIT TRANSACTION", "COMMIT"},
		{"ROLLBACK TRANSACTION", "ROLLBACK"},
	}
	for _, tc := range cases {
		c := Classify(tc.query)
		if !c.IsMutating {
			t.Errorf("mutating query not detected: %q", tc.query)
			continue
		}
		if c.Matched != tc.want {
			t.Errorf("query %q: matched %q, want %q", tc.query, c.Matched, tc.want)
		}
	}
}

func TestClassify_KeywordsInsideComments(t *testing.T) {
	queries := []string{
		"-- DROP TABLE users\nSELECT * FROM users",
		"SELECT * FROM users -- TRUNCATE TABLE users",
		"/* INSERT INTO users VALUES (1) */ SELECT 1",
		"/* multi\nline\nDELETE FROM users\n*/ SELECT 1",
		"SELECT 1 /* UPDATE users SET x = 1 */",
	}
	for _, q := range queries {
		c := Classify(q)
		if c.IsMutating {
			t.Errorf("keyword inside comment triggered classification: %q (matched %s)", q, c.Matched)
		}
	}
}

func TestClassify_KeywordsOutsideComments(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"-- harmless comment\nINSERT INTO users VALUES (1)", "INSERT INTO"},
		{"/* comment */ DELETE FROM users", "DELETE FROM"},
		{"/* multi\nline */ DROP TABLE test", "DROP TABLE"},
		{"SELECT 1; -- trailing\nTRUNCATE TABLE t", "TRUNCATE TABLE"},
	}
	for _, tc := range cases {
		c := Classify(tc.query)
		if !c.IsMutating || c.Matched != tc.want {
			t.Errorf("query %q: got (%v, %q), want (true, %q)", tc.query, c.IsMutating, c.Matched, tc.want)
		}
	}
}

func TestClassify_IdentifiersDoNotTrigger(t *testing.T) {
	queries := []string{
		"SELECT updated_at FROM orders",
		"SELECT insert_id FROM events",
		"SELECT * FROM users WHERE delete_flag = true",
		"SELECT last_update FROM sync_state",
		"SELECT granted FROM permissions",
		"SELECT commits FROM repo_stats",
		"SELECT rollback_count FROM deploys",
		"SELECT * FROM truncate_table_log",
	}
	for _, q := range queries {
		c := Classify(q)
		if c.IsMutating {
			t.Errorf("identifier substring triggered classification: %q (matched %s)", q, c.Matched)
		}
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// Both INSERT INTO and UPDATE appear; INSERT INTO precedes UPDATE in the
	// catalog, so its label is returned.
	c := Classify("INSERT INTO t SELECT * FROM s WHERE update_needed; UPDATE t SET x = 1")
	if !c.IsMutating {
		t.Fatal("expected mutating classification")
	}
	if c.Matched != "INSERT INTO" {
		t.Errorf("matched %q, want %q", c.Matched, "INSERT INTO")
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	for _, q := range []string{
		"Insert Into t VALUES (1)",
		"iNsErT iNtO t VALUES (1)",
		"Delete From t",
		"Merge Into t USING s ON t.id = s.id",
	} {
		if c := Classify(q); !c.IsMutating {
			t.Errorf("mixed-case mutating query not detected: %q", q)
		}
	}
}

func TestClassify_UnrecognizedStatementsPass(t *testing.T) {
	// Statement forms outside the catalog pass through as read-only.
	// CALL and EXPORT DATA are deliberately not covered.
	for _, q := range []string{
		"CALL my_dataset.my_procedure()",
		"EXPORT DATA OPTIONS(uri='gs://bucket/*.csv') AS SELECT 1",
	} {
		if c := Classify(q); c.IsMutating {
			t.Errorf("uncataloged statement classified as mutating: %q (matched %s)", q, c.Matched)
		}
	}
}
