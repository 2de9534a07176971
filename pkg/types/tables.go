package types

// Standard table names for Store.GetTable.
const (
	TableSnippets = "snippets"
	TableBranches = "branches"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TableSnippets,
	TableBranches,
}
