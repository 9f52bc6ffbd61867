package query

import "github.com/asaidimu/sqlresource/pkg/core"

// BuildDelete builds "DELETE FROM table [WHERE ...];".
func (b *Builder) BuildDelete(table string, condition *core.Expression, hashes *core.ValueHashMap) (string, error) {
	where, err := b.BuildWhere(condition, b.Columns, hashes)
	if err != nil {
		return "", err
	}
	return statement("DELETE FROM %s %s", b.Escaper.EscapeRef(table), where), nil
}
