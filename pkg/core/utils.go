package core

import (
	"fmt"
	"strconv"
	"time"
)

// knownExpressionTypes lists the types the default SQL templates render.
var knownExpressionTypes = map[ExpressionType]struct{}{
	TypeAnd:            {},
	TypeOr:             {},
	TypeEqualTo:        {},
	TypeEquals:         {},
	TypeEqual:          {},
	TypeNotEqualTo:     {},
	TypeGreater:        {},
	TypeGreaterEqualTo: {},
	TypeLess:           {},
	TypeLessEqualTo:    {},
	TypeLike:           {},
	TypeIn:             {},
	TypeBetween:        {},
	TypeIsNull:         {},
	TypeSet:            {},
	TypePlus:           {},
	TypeMinus:          {},
	TypeTimes:          {},
	TypeDivide:         {},
}

// IsStandard reports whether t is one of the built-in expression types.
func (t ExpressionType) IsStandard() bool {
	_, ok := knownExpressionTypes[t]
	return ok
}

// Canonical folds the TypeEqualTo aliases into TypeEqualTo.
func (t ExpressionType) Canonical() ExpressionType {
	switch t {
	case TypeEquals, TypeEqual:
		return TypeEqualTo
	}
	return t
}

// NormalizeString converts a scalar or stringable value to its canonical
// string form. It fails for nil and for values that are neither.
func NormalizeString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case bool:
		return strconv.FormatBool(s), nil
	case int:
		return strconv.Itoa(s), nil
	case int8:
		return strconv.FormatInt(int64(s), 10), nil
	case int16:
		return strconv.FormatInt(int64(s), 10), nil
	case int32:
		return strconv.FormatInt(int64(s), 10), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case uint:
		return strconv.FormatUint(uint64(s), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(s), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(s), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(s), 10), nil
	case uint64:
		return strconv.FormatUint(s, 10), nil
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case time.Time:
		return s.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", NewInvalidArgumentError("value is not a scalar or stringable", nil, v)
}

// IsNumeric reports whether v is an integer or floating point value.
func IsNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
