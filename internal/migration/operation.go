package migration

// RiskLevel classifies how disruptive a lock-holding operation is.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// OpKind identifies the schema effect of a migration operation.
type OpKind int

const (
	KindCreateTable OpKind = iota
	KindDropTable
	KindRenameTable
	KindAlterTable
	KindAddColumn
	KindRemoveColumn
	KindAlterColumn
	KindRenameColumn
	KindCreateIndex
	KindDropIndex
	KindAddConstraint
	KindRemoveConstraint
	KindRawSQL
	KindCodeCallback
)

var kindNames = map[OpKind]string{
	KindCreateTable:      "create-table",
	KindDropTable:        "drop-table",
	KindRenameTable:      "rename-table",
	KindAlterTable:       "alter-table",
	KindAddColumn:        "add-column",
	KindRemoveColumn:     "remove-column",
	KindAlterColumn:      "alter-column",
	KindRenameColumn:     "rename-column",
	KindCreateIndex:      "create-index",
	KindDropIndex:        "drop-index",
	KindAddConstraint:    "add-constraint",
	KindRemoveConstraint: "remove-constraint",
	KindRawSQL:           "raw-sql",
	KindCodeCallback:     "code-callback",
}

func (k OpKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// MigrationType distinguishes pure schema changes from data migrations.
type MigrationType string

const (
	TypeSchema MigrationType = "schema_migration"
	TypeData   MigrationType = "data_migration"
)

// Operation is one lock-holding unit extracted from a migration file.
// Table is always lowercased and, for model-derived operations, already
// carries the app prefix.
type Operation struct {
	Kind     OpKind
	DjangoOp string // operation class name, e.g. "AddField"
	SQLOp    string // SQL effect, e.g. "ALTER TABLE (ADD COLUMN)"
	Model    string // model name for model-derived operations
	Table    string
	Snippet  string // matched SQL fragment, raw-SQL hits only
	Risk     RiskLevel
}

// Description renders the operation the way it appears in reports.
func (o Operation) Description() string {
	return o.DjangoOp + " -> " + o.SQLOp
}
