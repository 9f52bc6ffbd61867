package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/asaidimu/sqlresource/pkg/core"
	"github.com/asaidimu/sqlresource/pkg/query"
)

// Statement is generated SQL together with its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

func (m *Model) bind(sqlText string, hashes *core.ValueHashMap) Statement {
	q, args := query.Bind(sqlText, hashes, m.dialect.Bind)
	return Statement{SQL: q, Args: args}
}

func (m *Model) exec(ctx context.Context, op string, st Statement) (sql.Result, error) {
	m.logger.DebugContext(ctx, "executing statement", "op", op, "table", m.table, "sql", st.SQL, "args", len(st.Args))

	start := time.Now()
	res, err := m.db.ExecContext(ctx, st.SQL, st.Args...)
	sampleStatement(op, m.table, time.Since(start), len(st.Args), err)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s query: %w", op, err)
	}
	return res, nil
}

func (m *Model) query(ctx context.Context, st Statement) ([]core.Row, error) {
	m.logger.DebugContext(ctx, "executing statement", "op", "select", "table", m.table, "sql", st.SQL, "args", len(st.Args))

	start := time.Now()
	rows, err := m.db.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		sampleStatement("select", m.table, time.Since(start), len(st.Args), err)
		return nil, fmt.Errorf("failed to execute select query: %w", err)
	}
	defer rows.Close()

	out, err := readRows(rows)
	sampleStatement("select", m.table, time.Since(start), len(st.Args), err)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from database: %w", err)
	}
	m.logger.DebugContext(ctx, "fetched rows", "table", m.table, "rows", len(out))
	return out, nil
}
