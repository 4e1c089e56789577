package migration

import (
	"regexp"
	"strings"
)

// sqlLockPattern is one keyword-anchored pattern whose first capture group
// is the table token the statement would lock.
type sqlLockPattern struct {
	re          *regexp.Regexp
	sqlOp       string
	risk        RiskLevel
	noWhereOnly bool // flag only when the statement lacks a WHERE clause
}

var reWhere = regexp.MustCompile(`(?i)\bWHERE\b`)

var sqlLockPatterns = []sqlLockPattern{
	{regexp.MustCompile("(?i)ALTER\\s+TABLE\\s+[`\"]?([\\w_]+)[`\"]?\\s+RENAME\\s+COLUMN"), "RENAME COLUMN", RiskHigh, false},
	{regexp.MustCompile("(?i)ALTER\\s+TABLE\\s+[`\"]?([\\w_]+)[`\"]?\\s+"), "ALTER TABLE", RiskHigh, false},
	{regexp.MustCompile("(?i)CREATE\\s+(?:UNIQUE\\s+)?INDEX\\s+.*?\\s+ON\\s+[`\"]?([\\w_]+)[`\"]?"), "CREATE INDEX", RiskHigh, false},
	{regexp.MustCompile("(?i)DROP\\s+INDEX\\s+.*?\\s+ON\\s+[`\"]?([\\w_]+)[`\"]?"), "DROP INDEX", RiskHigh, false},
	{regexp.MustCompile("(?i)TRUNCATE\\s+TABLE\\s+[`\"]?([\\w_]+)[`\"]?"), "TRUNCATE TABLE", RiskHigh, false},
	{regexp.MustCompile("(?i)DROP\\s+TABLE\\s+[`\"]?([\\w_]+)[`\"]?"), "DROP TABLE", RiskHigh, false},
	{regexp.MustCompile("(?i)UPDATE\\s+[`\"]?([\\w_]+)[`\"]?\\s+SET\\s+[^;]*"), "UPDATE without WHERE", RiskHigh, true},
	{regexp.MustCompile("(?i)DELETE\\s+FROM\\s+[`\"]?([\\w_]+)[`\"]?[^;]*"), "DELETE without WHERE", RiskHigh, true},
}

const snippetLimit = 100

// AnalyzeRawSQL scans a SQL statement for operations that would lock a
// watchlisted table. The captured name must equal a watchlist entry
// exactly (case-insensitive); substrings of longer identifiers never match
// because the capture consumes the whole token.
func AnalyzeRawSQL(sql string, tables []string) []Operation {
	watch := make(map[string]bool, len(tables))
	for _, t := range tables {
		watch[strings.ToLower(t)] = true
	}

	var ops []Operation
	for _, p := range sqlLockPatterns {
		for _, m := range p.re.FindAllStringSubmatch(sql, -1) {
			table := strings.ToLower(m[1])
			if !watch[table] {
				continue
			}
			if p.noWhereOnly && reWhere.MatchString(m[0]) {
				continue
			}
			snippet := m[0]
			if len(snippet) > snippetLimit {
				snippet = snippet[:snippetLimit]
			}
			ops = append(ops, Operation{
				Kind:     KindRawSQL,
				DjangoOp: "RunSQL",
				SQLOp:    p.sqlOp,
				Table:    table,
				Snippet:  snippet,
				Risk:     p.risk,
			})
		}
	}
	return ops
}
