package migration

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// Regular expressions for migration construct detection.
var (
	reMigrationName = regexp.MustCompile(`^\d{4}_.*\.py$`)
	reCreateModel   = regexp.MustCompile(`(?is)CreateModel\s*\(\s*.*?name\s*=\s*['"](.*?)['"]`)
	reRunSQLKeyword = regexp.MustCompile(`(?s)RunSQL\s*\(.*?sql\s*=\s*(.*?)\).*?\)`)
	reRunSQLFirst   = regexp.MustCompile(`(?s)RunSQL\s*\(\s*(.*?)\s*(?:,|)\)`)
	reStringLiteral = regexp.MustCompile(`"((?:\\.|[^"\\])*)"|'((?:\\.|[^'\\])*)'`)
)

// opPattern matches one Django operation class that takes a model_name
// argument and maps it to its SQL effect.
type opPattern struct {
	re       *regexp.Regexp
	kind     OpKind
	djangoOp string
	sqlOp    string
	risk     RiskLevel
}

var modelOpPatterns = buildModelOpPatterns()

func buildModelOpPatterns() []opPattern {
	specs := []struct {
		djangoOp string
		kind     OpKind
		sqlOp    string
		risk     RiskLevel
	}{
		{"DeleteModel", KindDropTable, "DROP TABLE", RiskHigh},
		{"RenameModel", KindRenameTable, "RENAME TABLE", RiskMedium},
		{"AlterModelTable", KindAlterTable, "ALTER TABLE", RiskHigh},
		{"AddField", KindAddColumn, "ALTER TABLE (ADD COLUMN)", RiskMedium},
		{"RemoveField", KindRemoveColumn, "ALTER TABLE (DROP COLUMN)", RiskMedium},
		{"AlterField", KindAlterColumn, "ALTER TABLE (ALTER COLUMN)", RiskMedium},
		{"RenameField", KindRenameColumn, "ALTER TABLE (RENAME COLUMN)", RiskMedium},
		{"AddIndex", KindCreateIndex, "CREATE INDEX", RiskHigh},
		{"RemoveIndex", KindDropIndex, "DROP INDEX", RiskMedium},
		{"AddConstraint", KindAddConstraint, "ALTER TABLE (ADD CONSTRAINT)", RiskMedium},
		{"RemoveConstraint", KindRemoveConstraint, "ALTER TABLE (DROP CONSTRAINT)", RiskMedium},
	}

	patterns := make([]opPattern, 0, len(specs))
	for _, s := range specs {
		patterns = append(patterns, opPattern{
			re:       regexp.MustCompile(`(?is)` + s.djangoOp + `\s*\(\s*.*?model_name\s*=\s*['"](.*?)['"]`),
			kind:     s.kind,
			djangoOp: s.djangoOp,
			sqlOp:    s.sqlOp,
			risk:     s.risk,
		})
	}
	return patterns
}

// IsMigrationFile reports whether a path looks like a Django migration:
// a numbered .py file inside a migrations directory.
func IsMigrationFile(path string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")
	base := parts[len(parts)-1]

	inMigrations := false
	for _, p := range parts[:len(parts)-1] {
		if p == "migrations" {
			inMigrations = true
			break
		}
	}

	return inMigrations && base != "__init__.py" && reMigrationName.MatchString(base)
}

// TableForModel converts a Django model name to its database table name.
func TableForModel(model, app string) string {
	table := strings.ToLower(model)
	if app != "" {
		table = app + "_" + table
	}
	return table
}

// TypeOf classifies the migration as a schema or data migration.
func TypeOf(content string) MigrationType {
	if strings.Contains(content, "RunPython") || strings.Contains(content, "RunSQL") {
		return TypeData
	}
	return TypeSchema
}

// ParseOperations extracts every lock-holding operation in content that
// touches a watchlisted table. Table comparison is case-insensitive; the
// returned operations carry lowercased table names.
func ParseOperations(content string, tables []string, app string) []Operation {
	if content == "" {
		return nil
	}

	watch := make(map[string]bool, len(tables))
	for _, t := range tables {
		watch[strings.ToLower(t)] = true
	}

	var ops []Operation

	// CreateModel declares the model under a plain name argument.
	for _, m := range reCreateModel.FindAllStringSubmatch(content, -1) {
		model := strings.ToLower(m[1])
		table := TableForModel(model, app)
		if !watch[table] {
			continue
		}
		log.Debug().Str("model", model).Str("table", table).Msg("CreateModel on watchlisted table")
		ops = append(ops, Operation{
			Kind:     KindCreateTable,
			DjangoOp: "CreateModel",
			SQLOp:    "CREATE TABLE",
			Model:    model,
			Table:    table,
			Risk:     RiskMedium,
		})
	}

	// Everything else identifies its target via model_name.
	for _, p := range modelOpPatterns {
		for _, m := range p.re.FindAllStringSubmatch(content, -1) {
			model := strings.ToLower(m[1])
			table := TableForModel(model, app)
			if !watch[table] {
				continue
			}
			log.Debug().Str("op", p.djangoOp).Str("table", table).Msg("operation on watchlisted table")
			ops = append(ops, Operation{
				Kind:     p.kind,
				DjangoOp: p.djangoOp,
				SQLOp:    p.sqlOp,
				Model:    model,
				Table:    table,
				Risk:     p.risk,
			})
		}
	}

	// RunSQL payloads get the keyword-anchored lock scan.
	for _, stmt := range extractRunSQL(content) {
		ops = append(ops, AnalyzeRawSQL(stmt, tables)...)
	}

	// RunPython bodies are opaque; best effort is a token scan of the file
	// text for watchlisted names.
	if strings.Contains(content, "RunPython") {
		ops = append(ops, scanCallback(content, tables)...)
	}

	return ops
}

// extractRunSQL pulls the SQL payloads out of RunSQL calls. Both the sql=
// keyword form and the positional form are recognised; list payloads
// contribute every string element.
func extractRunSQL(content string) []string {
	blocks := reRunSQLKeyword.FindAllStringSubmatch(content, -1)
	if len(blocks) == 0 {
		blocks = reRunSQLFirst.FindAllStringSubmatch(content, -1)
	}

	var stmts []string
	for _, b := range blocks {
		block := strings.Join(strings.Fields(b[1]), " ")
		switch {
		case block == "":

		case strings.HasPrefix(block, "["):
			// List payload: every complete string element is a statement.
			// A capture truncated mid-literal falls back to the raw block,
			// which the keyword scan handles fine.
			lits := reStringLiteral.FindAllStringSubmatch(block, -1)
			if len(lits) == 0 {
				stmts = append(stmts, block)
				break
			}
			for _, lit := range lits {
				raw := lit[1]
				if raw == "" {
					raw = lit[2]
				}
				if stmt := unescapeSQL(raw); stmt != "" {
					stmts = append(stmts, stmt)
				}
			}

		case strings.HasPrefix(block, `"`) || strings.HasPrefix(block, `'`):
			// Scalar payload. The capture may be truncated at a closing
			// paren inside the statement, so strip quotes loosely instead
			// of requiring a balanced literal.
			s := block[1:]
			if n := len(s); n > 0 && (s[n-1] == '"' || s[n-1] == '\'') {
				s = s[:n-1]
			}
			if stmt := unescapeSQL(s); stmt != "" {
				stmts = append(stmts, stmt)
			}

		default:
			stmts = append(stmts, block)
		}
	}
	return stmts
}

func unescapeSQL(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, `'`)
	return strings.TrimSpace(s)
}

// scanCallback flags watchlisted table names appearing as whole word
// tokens anywhere in the file. Dynamically built table names are invisible
// to this scan.
func scanCallback(content string, tables []string) []Operation {
	var ops []Operation
	for _, t := range tables {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t) + `\b`)
		if !re.MatchString(content) {
			continue
		}
		table := strings.ToLower(t)
		log.Debug().Str("table", table).Msg("watchlisted table referenced from RunPython migration")
		ops = append(ops, Operation{
			Kind:     KindCodeCallback,
			DjangoOp: "RunPython",
			SQLOp:    "code callback",
			Table:    table,
			Risk:     RiskLow,
		})
	}
	return ops
}
