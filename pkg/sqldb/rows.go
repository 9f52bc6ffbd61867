package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// readRows reads all rows from a sql.Rows result and converts them into a
// slice of Row maps keyed by column name.
func readRows(rows *sql.Rows) ([]core.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	var results []core.Row
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(core.Row, len(columns))
		for i, col := range columns {
			row[col] = convertValue(columnTypes[i].DatabaseTypeName(), values[i])
		}
		results = append(results, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}
	return results, nil
}

// convertValue maps driver values to plain Go values. SQLite stores booleans
// as integers and most drivers return text as []byte.
func convertValue(dbType string, val any) any {
	switch v := val.(type) {
	case nil:
		return nil
	case int64:
		if dbType == "BOOLEAN" || dbType == "BOOL" {
			return v != 0
		}
		return v
	case []byte:
		switch dbType {
		case "BLOB", "BYTEA", "BINARY", "VARBINARY":
			return v
		}
		return string(v)
	}
	return val
}
