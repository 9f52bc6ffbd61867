package sqldb

import (
	"context"
	"database/sql"

	"github.com/asaidimu/sqlresource/pkg/core"
	"github.com/asaidimu/sqlresource/pkg/query"
)

// Update applies changes to the rows matching condition. Changes are keyed by
// field; fields unknown to the model are skipped.
func (m *Model) Update(ctx context.Context, changes core.Container, condition *core.Expression) (sql.Result, error) {
	st, err := m.UpdateStatement(changes, condition)
	if err != nil {
		return nil, err
	}
	return m.exec(ctx, "update", st)
}

// UpdateStatement builds the UPDATE statement without running it.
func (m *Model) UpdateStatement(changes core.Container, condition *core.Expression) (Statement, error) {
	hashes := core.NewValueHashMap()
	set, err := m.columnChangeSet(changes, hashes)
	if err != nil {
		return Statement{}, err
	}
	if condition != nil {
		if err := query.AddExpressionHashes(hashes, condition, m.ignored(), m.hasher); err != nil {
			return Statement{}, err
		}
	}
	q, err := m.builder.BuildUpdate(m.table, set, condition, hashes)
	if err != nil {
		return Statement{}, err
	}
	return m.bind(q, hashes), nil
}

// columnChangeSet translates a field keyed change set to a column keyed one
// and binds its values in hashes.
func (m *Model) columnChangeSet(changes core.Container, hashes *core.ValueHashMap) (*core.ChangeSet, error) {
	set := core.NewChangeSet()
	for _, field := range changeSetFields(changes, m.columns) {
		col, ok := m.columns.Column(field)
		if !ok {
			continue
		}
		v, err := core.ContainerGet(changes, field)
		if core.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		set.Set(col.Field, v)
		if err := hashChange(hashes, v, m.ignored(), m.hasher); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// changeSetFields lists the keys of changes in their own order when it can be
// enumerated, otherwise the mapped fields it holds.
func changeSetFields(changes core.Container, columns *core.ColumnMap) []string {
	if e, ok := changes.(core.Enumerable); ok && e != nil {
		return e.Keys()
	}
	var out []string
	for _, f := range columns.Fields() {
		if core.ContainerHas(changes, f) {
			out = append(out, f)
		}
	}
	return out
}

func hashChange(hashes *core.ValueHashMap, v any, ignore []string, h core.Hasher) error {
	switch t := v.(type) {
	case nil:
		return nil
	case core.Term:
		return query.AddExpressionHashes(hashes, t, ignore, h)
	}
	s, err := core.NormalizeString(v)
	if err != nil {
		return err
	}
	hashes.Add(s, v, h)
	return nil
}
