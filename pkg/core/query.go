package core

// QueryBuilder generates SQL text from domain data. Every value that should be
// bound rather than inlined must have a token in the given ValueHashMap.
type QueryBuilder interface {
	BuildInsert(table string, columns []string, rows []Row, hashes *ValueHashMap) (string, error)
	BuildUpdate(table string, changes *ChangeSet, condition *Expression, hashes *ValueHashMap) (string, error)
	BuildDelete(table string, condition *Expression, hashes *ValueHashMap) (string, error)
	BuildWhere(condition *Expression, columns *ColumnMap, hashes *ValueHashMap) (string, error)
}
