package sqldb

import (
	"context"
	"database/sql"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// Insert writes records to the model's table in one statement.
func (m *Model) Insert(ctx context.Context, records ...core.Container) (sql.Result, error) {
	st, err := m.InsertStatement(records...)
	if err != nil {
		return nil, err
	}
	return m.exec(ctx, "insert", st)
}

// InsertStatement builds the INSERT statement for records without running it.
func (m *Model) InsertStatement(records ...core.Container) (Statement, error) {
	if len(records) == 0 {
		return Statement{}, core.NewInvalidArgumentError("no records to insert", nil, records)
	}
	hashes := core.NewValueHashMap()
	rows := make([]core.Row, 0, len(records))
	for _, rec := range records {
		row, err := m.extractRecordData(rec, hashes)
		if err != nil {
			return Statement{}, err
		}
		rows = append(rows, row)
	}
	q, err := m.builder.BuildInsert(m.table, m.columns.ColumnNames(), rows, hashes)
	if err != nil {
		return Statement{}, err
	}
	return m.bind(q, hashes), nil
}

// extractRecordData reads every mapped field of rec into a column keyed row
// and binds its values in hashes. Fields the record lacks are left out.
func (m *Model) extractRecordData(rec core.Container, hashes *core.ValueHashMap) (core.Row, error) {
	row := make(core.Row, m.columns.Len())
	for _, field := range m.columns.Fields() {
		v, err := core.ContainerGet(rec, field)
		if core.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		col, _ := m.columns.Column(field)
		row[col.Field] = v
		if v == nil {
			continue
		}
		s, err := core.NormalizeString(v)
		if err != nil {
			return nil, err
		}
		hashes.Add(s, v, m.hasher)
	}
	return row, nil
}
