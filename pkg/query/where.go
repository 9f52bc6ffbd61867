package query

import "github.com/asaidimu/sqlresource/pkg/core"

// BuildWhere returns "WHERE <condition>", or an empty string for a nil
// condition.
func (b *Builder) BuildWhere(condition *core.Expression, columns *core.ColumnMap, hashes *core.ValueHashMap) (string, error) {
	if condition == nil {
		return "", nil
	}
	rendered, err := b.Renderer.Render(condition, columns, hashes)
	if err != nil {
		return "", err
	}
	return "WHERE " + rendered, nil
}
