package migration

import (
	"fmt"
	"io"
	"strings"
)

// Reporter renders a RunResult as the console report consumed by the
// pre-commit hook. Diagnostics go to the logger; this output is the
// user-facing contract.
type Reporter struct {
	W         io.Writer
	Tables    []string
	MinTables int
	Verbose   bool
}

const separator = "------------------------------------------------------------"

// Write renders the full report: header, per-file lines, summary.
func (r *Reporter) Write(run RunResult) {
	fmt.Fprintf(r.W, "Checking %d migrations for large table locks\n", run.FilesChecked)
	fmt.Fprintf(r.W, "Monitoring tables: %s\n", strings.Join(r.Tables, ", "))
	fmt.Fprintf(r.W, "Commit blocked at %d+ locked tables\n", r.MinTables)
	fmt.Fprintln(r.W, separator)

	for _, res := range run.Results {
		r.writeFile(res)
	}

	fmt.Fprintln(r.W, separator)
	r.writeSummary(run)
}

func (r *Reporter) writeFile(res FileResult) {
	switch {
	case res.Skipped:
		fmt.Fprintf(r.W, "SKIP    %s - %s\n", res.Path, res.SkipReason)

	case res.Blocked:
		fmt.Fprintf(r.W, "BLOCKED %s - %d large tables locked: %s\n",
			res.Path, res.LockedCount, strings.Join(res.LockedTables, ", "))
		if r.Verbose {
			r.writeOperations(res, "        ")
		}

	case res.LockedCount > 0:
		fmt.Fprintf(r.W, "WARN    %s - locked tables: %d\n", res.Path, res.LockedCount)

	default:
		fmt.Fprintf(r.W, "OK      %s - locked tables: 0\n", res.Path)
	}
}

func (r *Reporter) writeOperations(res FileResult, indent string) {
	fmt.Fprintf(r.W, "%sdangerous operations:\n", indent)
	for _, op := range res.Operations {
		fmt.Fprintf(r.W, "%s  - %s -> %s [%s]\n", indent, op.Description(), op.Table, op.Risk)
	}
}

func (r *Reporter) writeSummary(run RunResult) {
	blocked := run.Blocked()
	if len(blocked) == 0 {
		if run.Failed {
			fmt.Fprintln(r.W, "Commit blocked: migration files could not be analyzed.")
			return
		}
		fmt.Fprintln(r.W, "All migrations passed. Commit allowed.")
		return
	}

	fmt.Fprintf(r.W, "COMMIT BLOCKED - critical migrations found (%d):\n", len(blocked))
	for _, res := range blocked {
		fmt.Fprintf(r.W, "\n  %s\n", res.Path)
		fmt.Fprintf(r.W, "    locked tables: %d (%s)\n", res.LockedCount, strings.Join(res.LockedTables, ", "))
		if res.CriticalRisk {
			fmt.Fprintln(r.W, "    critical risk: 3 or more large tables in one migration")
		}
		if r.Verbose {
			r.writeOperations(res, "    ")
		}
	}

	fmt.Fprintln(r.W, "\nHow to fix:")
	fmt.Fprintln(r.W, "  1. Split the migration into multiple parts")
	fmt.Fprintln(r.W, "  2. Set atomic = False in the migration class")
	fmt.Fprintln(r.W, "  3. Run the operations sequentially in separate migrations")
	fmt.Fprintln(r.W, "  4. For urgent fixes: git commit --no-verify")
	fmt.Fprintln(r.W, "\nCommit blocked due to database lock risk.")
}
