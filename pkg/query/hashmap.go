package query

import (
	"fmt"

	"github.com/asaidimu/sqlresource/pkg/core"
)

type leafValue struct {
	key   string
	value any
}

// ExpressionHashMap walks t and binds every value leaf's normalized string to
// a token from h. Literals are always bound. Field and EntityField leaves are
// column references and are never bound; other leaf types are bound unless
// their string is listed in ignore. Leaves are visited in tree order; a
// repeated string keeps its first token and takes the last value.
func ExpressionHashMap(t core.Term, ignore []string, h core.Hasher) (*core.ValueHashMap, error) {
	m := core.NewValueHashMap()
	if err := AddExpressionHashes(m, t, ignore, h); err != nil {
		return nil, err
	}
	return m, nil
}

// AddExpressionHashes is ExpressionHashMap writing into an existing map, so
// that position based hashers continue after the entries already in m.
func AddExpressionHashes(m *core.ValueHashMap, t core.Term, ignore []string, h core.Hasher) error {
	skip := make(map[string]struct{}, len(ignore))
	for _, s := range ignore {
		skip[s] = struct{}{}
	}
	leaves, err := collectLeaves(t, skip)
	if err != nil {
		return err
	}
	for _, l := range leaves {
		m.Add(l.key, l.value, h)
	}
	return nil
}

// collectLeaves returns the hashable leaves under t in tree order. Nested
// expressions contribute their own slices, which are appended by the caller.
func collectLeaves(t core.Term, ignore map[string]struct{}) ([]leafValue, error) {
	switch v := t.(type) {
	case nil:
		return nil, nil
	case *core.Expression:
		if v == nil {
			return nil, nil
		}
		var out []leafValue
		for _, term := range v.Terms {
			sub, err := collectLeaves(term, ignore)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	case core.Literal:
		// NULL is always rendered inline.
		if v.Value == nil {
			return nil, nil
		}
		s, err := v.LeafString()
		if err != nil {
			return nil, err
		}
		return []leafValue{{key: s, value: v.Value}}, nil
	case core.Field, core.EntityField:
		return nil, nil
	case core.Leaf:
		return leafOf(v, v, ignore)
	}
	return nil, core.NewInvalidArgumentError("term is neither an expression nor a scalar", fmt.Errorf("unexpected term %T", t), t)
}

func leafOf(l core.Leaf, value any, ignore map[string]struct{}) ([]leafValue, error) {
	s, err := l.LeafString()
	if err != nil {
		return nil, err
	}
	if _, ok := ignore[s]; ok {
		return nil, nil
	}
	return []leafValue{{key: s, value: value}}, nil
}
