package migration_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bfv/miglock/internal/migration"
)

func newReporter(buf *bytes.Buffer, verbose bool) *migration.Reporter {
	return &migration.Reporter{
		W:         buf,
		Tables:    []string{"users", "orders"},
		MinTables: 2,
		Verbose:   verbose,
	}
}

func blockedRun(t *testing.T) migration.RunResult {
	t.Helper()
	c := &migration.Checker{Tables: []string{"users", "orders"}, MinTables: 2, Strict: true}
	res := c.CheckContent("app/migrations/0002_wide.py",
		"migrations.AddField(model_name='users', name='a', field=models.TextField()),\n"+
			"migrations.AddField(model_name='orders', name='b', field=models.TextField()),\n")
	if !res.Blocked {
		t.Fatalf("fixture should be blocked: %+v", res)
	}
	return migration.RunResult{FilesChecked: 1, Results: []migration.FileResult{res}, Failed: true}
}

func TestReportBlocked(t *testing.T) {
	var buf bytes.Buffer
	newReporter(&buf, false).Write(blockedRun(t))
	out := buf.String()

	for _, want := range []string{
		"Checking 1 migrations",
		"Monitoring tables: users, orders",
		"BLOCKED app/migrations/0002_wide.py - 2 large tables locked: orders, users",
		"COMMIT BLOCKED",
		"locked tables: 2 (orders, users)",
		"How to fix:",
		"git commit --no-verify",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReportBlockedVerboseListsOperations(t *testing.T) {
	var buf bytes.Buffer
	newReporter(&buf, true).Write(blockedRun(t))
	out := buf.String()

	if !strings.Contains(out, "dangerous operations:") {
		t.Errorf("verbose report missing operation list:\n%s", out)
	}
	if !strings.Contains(out, "AddField -> ALTER TABLE (ADD COLUMN) -> users") {
		t.Errorf("verbose report missing operation detail:\n%s", out)
	}
}

func TestReportAllPassed(t *testing.T) {
	c := &migration.Checker{Tables: []string{"users", "orders"}, MinTables: 2, Strict: true}
	res := c.CheckContent("app/migrations/0001_ok.py",
		"migrations.AddField(model_name='users', name='a', field=models.TextField()),\n")

	run := migration.RunResult{FilesChecked: 1, Results: []migration.FileResult{res}}

	var buf bytes.Buffer
	newReporter(&buf, false).Write(run)
	out := buf.String()

	if !strings.Contains(out, "WARN    app/migrations/0001_ok.py - locked tables: 1") {
		t.Errorf("expected single-table warning line:\n%s", out)
	}
	if !strings.Contains(out, "All migrations passed. Commit allowed.") {
		t.Errorf("expected pass summary:\n%s", out)
	}
}

func TestReportSkippedFile(t *testing.T) {
	run := migration.RunResult{
		FilesChecked: 1,
		Results: []migration.FileResult{
			{Path: "app/migrations/0003_gone.py", Skipped: true, SkipReason: "no such file"},
		},
		Failed: true,
	}

	var buf bytes.Buffer
	newReporter(&buf, false).Write(run)
	out := buf.String()

	if !strings.Contains(out, "SKIP    app/migrations/0003_gone.py - no such file") {
		t.Errorf("expected skip line:\n%s", out)
	}
	if !strings.Contains(out, "Commit blocked: migration files could not be analyzed.") {
		t.Errorf("expected analysis-failure summary:\n%s", out)
	}
}
