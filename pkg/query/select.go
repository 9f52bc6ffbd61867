package query

import (
	"strings"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// Join is one JOIN clause of a SELECT query.
type Join struct {
	Type      string // INNER, LEFT, ... Defaults to INNER
	Table     string
	Condition *core.Expression
}

// BuildJoins renders "<TYPE> JOIN table ON condition" clauses joined by a
// space. Conditions are rendered with the builder's columns.
func (b *Builder) BuildJoins(joins []Join, hashes *core.ValueHashMap) (string, error) {
	parts := make([]string, 0, len(joins))
	for _, j := range joins {
		if j.Condition == nil {
			return "", core.InvalidArgumentf(nil, j, "join on %q has no condition", j.Table)
		}
		cond, err := b.Renderer.Render(j.Condition, b.Columns, hashes)
		if err != nil {
			return "", err
		}
		typ := strings.ToUpper(strings.TrimSpace(j.Type))
		if typ == "" {
			typ = "INNER"
		}
		parts = append(parts, typ+" JOIN "+b.Escaper.EscapeRef(j.Table)+" ON "+cond)
	}
	return strings.Join(parts, " "), nil
}

// BuildSelect builds "SELECT columns FROM tables [joins] [WHERE ...];".
// Without columns every column is selected.
func (b *Builder) BuildSelect(columns, tables []string, joins []Join, condition *core.Expression, hashes *core.ValueHashMap) (string, error) {
	if len(tables) == 0 {
		return "", core.NewInvalidArgumentError("select needs at least one table", nil, tables)
	}
	cols := "*"
	if len(columns) > 0 {
		cols = b.Escaper.EscapeRefList(columns)
	}
	joinSQL, err := b.BuildJoins(joins, hashes)
	if err != nil {
		return "", err
	}
	where, err := b.BuildWhere(condition, b.Columns, hashes)
	if err != nil {
		return "", err
	}
	parts := []string{"SELECT", cols, "FROM", b.Escaper.EscapeRefList(tables)}
	for _, s := range []string{joinSQL, where} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return statement("%s", strings.Join(parts, " ")), nil
}
