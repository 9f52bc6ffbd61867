package sqldb

import (
	"context"
	"database/sql"

	"github.com/asaidimu/sqlresource/pkg/core"
	"github.com/asaidimu/sqlresource/pkg/query"
)

// Delete removes the rows matching condition, or every row when it is nil.
func (m *Model) Delete(ctx context.Context, condition *core.Expression) (sql.Result, error) {
	st, err := m.DeleteStatement(condition)
	if err != nil {
		return nil, err
	}
	return m.exec(ctx, "delete", st)
}

// DeleteStatement builds the DELETE statement without running it.
func (m *Model) DeleteStatement(condition *core.Expression) (Statement, error) {
	hashes, err := m.conditionHashes(condition)
	if err != nil {
		return Statement{}, err
	}
	q, err := m.builder.BuildDelete(m.table, condition, hashes)
	if err != nil {
		return Statement{}, err
	}
	return m.bind(q, hashes), nil
}

func (m *Model) conditionHashes(condition *core.Expression) (*core.ValueHashMap, error) {
	if condition == nil {
		return core.NewValueHashMap(), nil
	}
	return query.ExpressionHashMap(condition, m.ignored(), m.hasher)
}
