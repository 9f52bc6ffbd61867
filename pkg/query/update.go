package query

import (
	"strings"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// BuildUpdate builds "UPDATE table SET col = expr, ... [WHERE ...];". Change
// set keys are column names; values are scalars or terms. SET entries follow
// the change set order. An empty change set is an invalid argument.
func (b *Builder) BuildUpdate(table string, changes *core.ChangeSet, condition *core.Expression, hashes *core.ValueHashMap) (string, error) {
	if changes.Len() == 0 {
		return "", core.NewInvalidArgumentError("change set cannot be empty", nil, changes)
	}
	set, err := b.buildUpdateSet(changes, hashes)
	if err != nil {
		return "", err
	}
	where, err := b.BuildWhere(condition, b.Columns, hashes)
	if err != nil {
		return "", err
	}
	return statement("UPDATE %s %s %s", b.Escaper.EscapeRef(table), set, where), nil
}

func (b *Builder) buildUpdateSet(changes *core.ChangeSet, hashes *core.ValueHashMap) (string, error) {
	parts := make([]string, 0, changes.Len())
	for _, col := range changes.Keys() {
		v, _ := changes.Get(col)
		var (
			rendered string
			err      error
		)
		if t, ok := v.(core.Term); ok {
			rendered, err = b.Renderer.RenderTerm(t, b.Columns, hashes)
		} else {
			rendered, err = b.Renderer.Value(v, hashes)
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, b.Escaper.EscapeRef(col)+" = "+rendered)
	}
	return "SET " + strings.Join(parts, ", "), nil
}
