package sqldb

import (
	"context"

	"github.com/asaidimu/sqlresource/pkg/core"
	"github.com/asaidimu/sqlresource/pkg/query"
)

// Select returns the rows matching condition, keyed by field name. Columns
// the model does not map keep their column name.
func (m *Model) Select(ctx context.Context, condition *core.Expression) ([]core.Row, error) {
	st, err := m.SelectStatement(condition)
	if err != nil {
		return nil, err
	}
	rows, err := m.query(ctx, st)
	if err != nil {
		return nil, err
	}
	return m.fieldRows(rows), nil
}

// SelectStatement builds the SELECT statement without running it.
func (m *Model) SelectStatement(condition *core.Expression) (Statement, error) {
	hashes := core.NewValueHashMap()
	for _, j := range m.joins {
		if err := query.AddExpressionHashes(hashes, j.Condition, m.ignored(), m.hasher); err != nil {
			return Statement{}, err
		}
	}
	if condition != nil {
		if err := query.AddExpressionHashes(hashes, condition, m.ignored(), m.hasher); err != nil {
			return Statement{}, err
		}
	}
	q, err := m.builder.BuildSelect(m.selectColumns(), m.selectTables, m.joins, condition, hashes)
	if err != nil {
		return Statement{}, err
	}
	return m.bind(q, hashes), nil
}

// selectColumns returns the mapped columns, qualified when the model reads
// more than one table.
func (m *Model) selectColumns() []string {
	qualify := len(m.selectTables) > 1 || len(m.joins) > 0
	out := make([]string, 0, m.columns.Len())
	for _, f := range m.columns.Fields() {
		col, _ := m.columns.Column(f)
		if qualify && col.Entity == "" {
			col.Entity = m.table
		}
		out = append(out, col.String())
	}
	return out
}

func (m *Model) fieldRows(rows []core.Row) []core.Row {
	fields := make(map[string]string, m.columns.Len())
	for _, f := range m.columns.Fields() {
		col, _ := m.columns.Column(f)
		fields[col.Field] = f
	}
	out := make([]core.Row, 0, len(rows))
	for _, row := range rows {
		r := make(core.Row, len(row))
		for col, v := range row {
			if f, ok := fields[col]; ok {
				r[f] = v
				continue
			}
			r[col] = v
		}
		out = append(out, r)
	}
	return out
}
