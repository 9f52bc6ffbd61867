package core

import "strings"

// ExpressionType names the operator of an expression node.
type ExpressionType string

const (
	TypeAnd            ExpressionType = "and"
	TypeOr             ExpressionType = "or"
	TypeEqualTo        ExpressionType = "equal_to"
	TypeNotEqualTo     ExpressionType = "not_equal_to"
	TypeGreater        ExpressionType = "greater"
	TypeGreaterEqualTo ExpressionType = "greater_equal_to"
	TypeLess           ExpressionType = "less"
	TypeLessEqualTo    ExpressionType = "less_equal_to"
	TypeLike           ExpressionType = "like"
	TypeIn             ExpressionType = "in"
	TypeBetween        ExpressionType = "between"
	TypeIsNull         ExpressionType = "is_null"

	// TypeSet is a parenthesized, comma separated list of terms. It is the
	// right hand side of an "in" expression.
	TypeSet ExpressionType = "set"

	TypePlus   ExpressionType = "plus"
	TypeMinus  ExpressionType = "minus"
	TypeTimes  ExpressionType = "times"
	TypeDivide ExpressionType = "divide"

	// Aliases accepted for TypeEqualTo.
	TypeEquals ExpressionType = "equals"
	TypeEqual  ExpressionType = "equal"
)

// Term is a node of an expression tree: either a nested *Expression or a leaf
// (Literal, Field or EntityField).
type Term interface {
	isTerm()
}

// Leaf is a term that has a canonical string form. The string form is what
// value hashes and column aliases are keyed by.
type Leaf interface {
	Term
	LeafString() (string, error)
}

// Expression is a logical or value expression. Terms keep their insertion
// order, which matters for non-commutative operators.
type Expression struct {
	Type    ExpressionType // e.g. "and", "equal_to", "plus"
	Negated bool           // Renders as NOT (...) when true
	Terms   []Term
}

func (*Expression) isTerm() {}

// Literal is a scalar value leaf (string, number, bool, fmt.Stringer...).
type Literal struct {
	Value any
}

func (Literal) isTerm() {}

// LeafString returns the normalized form of the literal value.
func (l Literal) LeafString() (string, error) {
	return NormalizeString(l.Value)
}

// Field references a domain field by name. It is translated to a column
// through a ColumnMap when rendered.
type Field string

func (Field) isTerm() {}

// LeafString returns the field name.
func (f Field) LeafString() (string, error) { return string(f), nil }

// EntityField pairs an entity (table) name with a field name. It is used to
// qualify columns in multi-table conditions. An empty Entity means the field
// is not qualified.
type EntityField struct {
	Entity string
	Field  string
}

func (EntityField) isTerm() {}

// LeafString returns "entity.field", or just the field when unqualified.
func (e EntityField) LeafString() (string, error) { return e.String(), nil }

func (e EntityField) String() string {
	if e.Entity == "" {
		return e.Field
	}
	return e.Entity + "." + e.Field
}

// ParseEntityField splits "entity.field" into an EntityField. A name without
// a dot yields an unqualified field.
func ParseEntityField(s string) EntityField {
	if i := strings.LastIndexByte(s, '.'); i > 0 {
		return EntityField{Entity: s[:i], Field: s[i+1:]}
	}
	return EntityField{Field: s}
}

// Lit wraps v as a term. Terms are returned as is.
func Lit(v any) Term {
	if t, ok := v.(Term); ok {
		return t
	}
	return Literal{Value: v}
}

// NewExpression builds an expression of the given type. Values that are not
// already terms are wrapped as literals.
func NewExpression(t ExpressionType, terms ...any) *Expression {
	e := &Expression{Type: t, Terms: make([]Term, 0, len(terms))}
	for _, v := range terms {
		e.Terms = append(e.Terms, Lit(v))
	}
	return e
}

// And joins the given conditions with AND.
func And(conds ...*Expression) *Expression { return group(TypeAnd, conds) }

// Or joins the given conditions with OR.
func Or(conds ...*Expression) *Expression { return group(TypeOr, conds) }

func group(t ExpressionType, conds []*Expression) *Expression {
	e := &Expression{Type: t, Terms: make([]Term, 0, len(conds))}
	for _, c := range conds {
		e.Terms = append(e.Terms, c)
	}
	return e
}

// Not returns a negated copy of e. The terms are shared.
func Not(e *Expression) *Expression {
	n := *e
	n.Negated = !e.Negated
	return &n
}

func EqualTo(field string, v any) *Expression {
	return NewExpression(TypeEqualTo, Field(field), v)
}

func NotEqualTo(field string, v any) *Expression {
	return NewExpression(TypeNotEqualTo, Field(field), v)
}

func Greater(field string, v any) *Expression {
	return NewExpression(TypeGreater, Field(field), v)
}

func GreaterEqualTo(field string, v any) *Expression {
	return NewExpression(TypeGreaterEqualTo, Field(field), v)
}

func Less(field string, v any) *Expression {
	return NewExpression(TypeLess, Field(field), v)
}

func LessEqualTo(field string, v any) *Expression {
	return NewExpression(TypeLessEqualTo, Field(field), v)
}

func Like(field string, pattern any) *Expression {
	return NewExpression(TypeLike, Field(field), pattern)
}

// In checks the field against a set of values. The values are kept in a
// nested TypeSet expression.
func In(field string, values ...any) *Expression {
	return NewExpression(TypeIn, Field(field), NewExpression(TypeSet, values...))
}

// Between checks low <= field <= high.
func Between(field string, low, high any) *Expression {
	return NewExpression(TypeBetween, Field(field), low, high)
}

func IsNull(field string) *Expression {
	return NewExpression(TypeIsNull, Field(field))
}

// Plus, Minus, Times and Divide build value expressions, usable as change set
// values (e.g. Plus(Field("age"), 1)).
func Plus(a, b any) *Expression   { return NewExpression(TypePlus, a, b) }
func Minus(a, b any) *Expression  { return NewExpression(TypeMinus, a, b) }
func Times(a, b any) *Expression  { return NewExpression(TypeTimes, a, b) }
func Divide(a, b any) *Expression { return NewExpression(TypeDivide, a, b) }

// Row represents a single record/row of data keyed by column name.
type Row map[string]any

// ColumnMap maps domain field names to database columns. Iteration follows
// insertion order. It is built once per resource model and only read by the
// query builders.
type ColumnMap struct {
	fields  []string
	columns map[string]EntityField
}

// NewColumnMap builds a map from alternating field, column pairs. Columns in
// "table.column" form are qualified.
func NewColumnMap(pairs ...string) *ColumnMap {
	m := &ColumnMap{columns: make(map[string]EntityField, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set maps field to column, parsing "table.column" names.
func (m *ColumnMap) Set(field, column string) *ColumnMap {
	return m.SetEntity(field, ParseEntityField(column))
}

// SetEntity maps field to a (possibly qualified) column.
func (m *ColumnMap) SetEntity(field string, column EntityField) *ColumnMap {
	if m.columns == nil {
		m.columns = make(map[string]EntityField)
	}
	if _, ok := m.columns[field]; !ok {
		m.fields = append(m.fields, field)
	}
	m.columns[field] = column
	return m
}

// Column returns the column mapped to field.
func (m *ColumnMap) Column(field string) (EntityField, bool) {
	if m == nil {
		return EntityField{}, false
	}
	c, ok := m.columns[field]
	return c, ok
}

// Fields returns the field names in insertion order.
func (m *ColumnMap) Fields() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.fields...)
}

// ColumnNames returns the unqualified column names in field order.
func (m *ColumnMap) ColumnNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		names = append(names, m.columns[f].Field)
	}
	return names
}

func (m *ColumnMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields)
}

// ChangeSet maps field (or column) names to new values for an UPDATE. A value
// is either a scalar or a Term, such as Plus(Field("age"), 1). Keys keep their
// insertion order.
type ChangeSet struct {
	keys   []string
	values map[string]any
}

// NewChangeSet builds a change set from alternating key, value pairs.
// Non-string keys are ignored.
func NewChangeSet(pairs ...any) *ChangeSet {
	c := &ChangeSet{values: make(map[string]any, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		if k, ok := pairs[i].(string); ok {
			c.Set(k, pairs[i+1])
		}
	}
	return c
}

// Set stores value under key, keeping the original position of existing keys.
func (c *ChangeSet) Set(key string, value any) *ChangeSet {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
	return c
}

// Has implements Container.
func (c *ChangeSet) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.values[key]
	return ok
}

// Get implements Container.
func (c *ChangeSet) Get(key string) (any, error) {
	if !c.Has(key) {
		return nil, &NotFoundError{Key: key}
	}
	return c.values[key], nil
}

// Keys returns the keys in insertion order.
func (c *ChangeSet) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

func (c *ChangeSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}
