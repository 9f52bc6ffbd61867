package query

import (
	"strings"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// BuildInsert builds "INSERT INTO table (columns) VALUES (...), (...);".
//
// Rows are read in column order. A column missing from a row is skipped for
// that row, so sparse rows yield shorter tuples; consistency is up to the
// caller. Without rows the VALUES clause is left out.
func (b *Builder) BuildInsert(table string, columns []string, rows []core.Row, hashes *core.ValueHashMap) (string, error) {
	values, err := b.buildValuesList(columns, rows, hashes)
	if err != nil {
		return "", err
	}
	return statement("INSERT INTO %s (%s) %s",
		b.Escaper.EscapeRef(table),
		b.Escaper.EscapeRefList(columns),
		values,
	), nil
}

func (b *Builder) buildValuesList(columns []string, rows []core.Row, hashes *core.ValueHashMap) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	tuples := make([]string, 0, len(rows))
	for _, row := range rows {
		tuple, err := b.buildRowValues(columns, row, hashes)
		if err != nil {
			return "", err
		}
		tuples = append(tuples, tuple)
	}
	return "VALUES " + strings.Join(tuples, ", "), nil
}

func (b *Builder) buildRowValues(columns []string, row core.Row, hashes *core.ValueHashMap) (string, error) {
	data := make([]string, 0, len(columns))
	for _, col := range columns {
		v, ok := row[col]
		if !ok {
			continue
		}
		s, err := b.Renderer.Value(v, hashes)
		if err != nil {
			return "", err
		}
		data = append(data, s)
	}
	return "(" + strings.Join(data, ", ") + ")", nil
}
