package result

// StatementType is the kind of statement that produced a result.
type StatementType uint8

const (
	StatementInvalid StatementType = iota
	StatementSelect
	StatementInsert
	StatementUpdate
	StatementDelete
	StatementCreate
	StatementDrop
	StatementExplain
	StatementPragma
	StatementCopy
	StatementSet
)

var statementNames = [...]string{
	StatementInvalid: "INVALID",
	StatementSelect:  "SELECT",
	StatementInsert:  "INSERT",
	StatementUpdate:  "UPDATE",
	StatementDelete:  "DELETE",
	StatementCreate:  "CREATE",
	StatementDrop:    "DROP",
	StatementExplain: "EXPLAIN",
	StatementPragma:  "PRAGMA",
	StatementCopy:    "COPY",
	StatementSet:     "SET",
}

func (s StatementType) String() string {
	if int(s) < len(statementNames) {
		return statementNames[s]
	}
	return "UNKNOWN"
}

// ReturnType says what a statement hands back to the client.
type ReturnType uint8

const (
	ReturnQueryResult ReturnType = iota
	ReturnChangedRows
	ReturnNothing
)

// StatementProperties describe how a statement executed. The result layer only
// passes them through.
type StatementProperties struct {
	ReadOnly                 bool
	RequiresValidTransaction bool
	AllowStreamResult        bool
	BoundAllParameters       bool
	ReturnType               ReturnType
	ParameterCount           int
	ModifiedDatabases        []string
}

// ClientProperties carry client locale settings alongside a result.
type ClientProperties struct {
	TimeZone string
}
