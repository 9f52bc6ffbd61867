package wpnative

import (
	"math"
	"strconv"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// ExtractPostIDs lists the post IDs a condition selects. Only non-negated
// "or", "equal_to", "between" and "in" expressions over idField are
// supported, since posts can only be updated one ID at a time. A between
// range must hold integers.
func ExtractPostIDs(expr *core.Expression, idField string) ([]any, error) {
	if expr == nil {
		return nil, core.NewInvalidArgumentError("condition is nil", nil, nil)
	}
	if expr.Negated {
		return nil, core.NewInvalidArgumentError("negated conditions are not supported for native WordPress updates", nil, expr)
	}

	switch expr.Type.Canonical() {
	case core.TypeOr:
		var ids []any
		for _, t := range expr.Terms {
			sub, ok := t.(*core.Expression)
			if !ok {
				return nil, core.NewInvalidArgumentError("or condition terms must be conditions", nil, t)
			}
			subIDs, err := ExtractPostIDs(sub, idField)
			if err != nil {
				return nil, err
			}
			ids = append(ids, subIDs...)
		}
		return ids, nil

	case core.TypeEqualTo:
		return idOperands(expr, idField, 1)

	case core.TypeIn:
		if len(expr.Terms) != 2 {
			return nil, core.NewInvalidArgumentError("in condition expects a field and a set", nil, expr)
		}
		if !isIDField(expr.Terms[0], idField) {
			return nil, core.InvalidArgumentf(nil, expr, "in condition must reference the %q field", idField)
		}
		set, ok := expr.Terms[1].(*core.Expression)
		if !ok {
			return literalValues([]core.Term{expr.Terms[1]}, expr)
		}
		return literalValues(set.Terms, expr)

	case core.TypeBetween:
		bounds, err := idOperands(expr, idField, 2)
		if err != nil {
			return nil, err
		}
		low, lok := toInt64(bounds[0])
		high, hok := toInt64(bounds[1])
		if !lok || !hok {
			return nil, core.NewInvalidArgumentError("between condition bounds must be integers", nil, expr)
		}
		if low > high {
			return nil, core.NewInvalidArgumentError("between condition lower bound is above its upper bound", nil, expr)
		}
		// The span is computed unsigned so that it cannot overflow.
		if uint64(high)-uint64(low) >= maxBetweenRange {
			return nil, core.InvalidArgumentf(nil, expr, "between condition spans more than %d IDs", maxBetweenRange)
		}
		ids := make([]any, 0, uint64(high)-uint64(low)+1)
		for id := low; ; id++ {
			ids = append(ids, id)
			if id == high {
				break
			}
		}
		return ids, nil
	}
	return nil, core.InvalidArgumentf(nil, expr, "condition type %q is not supported for native WordPress updates", expr.Type)
}

// idOperands checks that the first term of expr is the ID field and returns
// the n values following it.
func idOperands(expr *core.Expression, idField string, n int) ([]any, error) {
	if len(expr.Terms) != n+1 {
		return nil, core.InvalidArgumentf(nil, expr, "%q condition expects %d terms", expr.Type, n+1)
	}
	if !isIDField(expr.Terms[0], idField) {
		return nil, core.InvalidArgumentf(nil, expr, "%q condition must reference the %q field", expr.Type, idField)
	}
	return literalValues(expr.Terms[1:], expr)
}

func literalValues(terms []core.Term, expr *core.Expression) ([]any, error) {
	out := make([]any, 0, len(terms))
	for _, t := range terms {
		lit, ok := t.(core.Literal)
		if !ok || lit.Value == nil {
			return nil, core.NewInvalidArgumentError("post IDs must be values", nil, expr)
		}
		out = append(out, lit.Value)
	}
	return out, nil
}

func isIDField(t core.Term, idField string) bool {
	switch f := t.(type) {
	case core.Field:
		return string(f) == idField
	case core.EntityField:
		return f.Field == idField
	}
	return false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}
