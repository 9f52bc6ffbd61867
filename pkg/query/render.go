package query

import (
	"fmt"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// RenderContext is handed to a Template. Aliases is the union of the column
// aliases (field -> escaped column) and the value tokens (value -> token);
// value tokens win when both hold the same key.
type RenderContext struct {
	Expression *core.Expression
	Aliases    map[string]string

	r       *Renderer
	columns *core.ColumnMap
	hashes  *core.ValueHashMap
}

// Term renders a single term: nested expressions through their own template,
// leaves through the column map and the value tokens.
func (ctx RenderContext) Term(t core.Term) (string, error) {
	return ctx.r.renderTerm(t, ctx.columns, ctx.hashes)
}

// Terms renders every term of the current expression, in order.
func (ctx RenderContext) Terms() ([]string, error) {
	out := make([]string, 0, len(ctx.Expression.Terms))
	for _, t := range ctx.Expression.Terms {
		s, err := ctx.Term(t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Renderer turns expression trees into SQL using one template per expression
// type. It never modifies its inputs.
type Renderer struct {
	Templates TemplateSet
	Escaper   Escaper

	// Strict makes rendering fail for values that have no token instead of
	// inlining them as literals.
	Strict bool
}

// NewRenderer returns a renderer with the default templates.
func NewRenderer(esc Escaper) *Renderer {
	if esc == nil {
		esc = PlainEscaper{}
	}
	return &Renderer{Templates: DefaultTemplates(), Escaper: esc}
}

// Render renders a condition. Fields are replaced by their mapped columns and
// values by their tokens.
func (r *Renderer) Render(expr *core.Expression, columns *core.ColumnMap, hashes *core.ValueHashMap) (string, error) {
	if expr == nil {
		return "", core.NewInvalidArgumentError("condition is nil", nil, nil)
	}
	return r.renderExpression(expr, columns, hashes)
}

// RenderTerm renders any term, including scalar change set values.
func (r *Renderer) RenderTerm(t core.Term, columns *core.ColumnMap, hashes *core.ValueHashMap) (string, error) {
	return r.renderTerm(t, columns, hashes)
}

// Aliases builds the alias map handed to templates.
func (r *Renderer) Aliases(columns *core.ColumnMap, hashes *core.ValueHashMap) map[string]string {
	out := make(map[string]string, columns.Len()+hashes.Len())
	for _, f := range columns.Fields() {
		c, _ := columns.Column(f)
		out[f] = r.escapeColumn(c)
	}
	for _, e := range hashes.Entries() {
		out[e.Key] = e.Token
	}
	return out
}

func (r *Renderer) renderExpression(expr *core.Expression, columns *core.ColumnMap, hashes *core.ValueHashMap) (string, error) {
	tpl, ok := r.Templates.Lookup(expr.Type)
	if !ok {
		return "", core.InvalidArgumentf(core.ErrTemplateNotFound, expr,
			"could not get a template renderer to render a %q condition", expr.Type)
	}
	out, err := tpl.Render(RenderContext{
		Expression: expr,
		Aliases:    r.Aliases(columns, hashes),
		r:          r,
		columns:    columns,
		hashes:     hashes,
	})
	if err != nil {
		return "", err
	}
	if expr.Negated {
		out = "NOT (" + out + ")"
	}
	return out, nil
}

func (r *Renderer) renderTerm(t core.Term, columns *core.ColumnMap, hashes *core.ValueHashMap) (string, error) {
	switch v := t.(type) {
	case *core.Expression:
		return r.renderExpression(v, columns, hashes)
	case core.Field:
		if c, ok := columns.Column(string(v)); ok {
			return r.escapeColumn(c), nil
		}
		return r.Escaper.EscapeRef(string(v)), nil
	case core.EntityField:
		c := v
		if mapped, ok := columns.Column(v.Field); ok {
			c.Field = mapped.Field
		}
		return r.escapeColumn(c), nil
	case core.Literal:
		return r.Value(v.Value, hashes)
	case core.Leaf:
		s, err := v.LeafString()
		if err != nil {
			return "", err
		}
		if token, ok := hashes.Token(s); ok {
			return token, nil
		}
		return r.Escaper.EscapeRef(s), nil
	}
	return "", core.NewInvalidArgumentError("term is neither an expression nor a scalar", fmt.Errorf("unexpected term %T", t), t)
}

// Value renders a scalar: its token when hashed, otherwise a literal.
func (r *Renderer) Value(v any, hashes *core.ValueHashMap) (string, error) {
	if v == nil {
		return "NULL", nil
	}
	s, err := core.NormalizeString(v)
	if err != nil {
		return "", err
	}
	if token, ok := hashes.Token(s); ok {
		return token, nil
	}
	if r.Strict {
		return "", core.InvalidArgumentf(core.ErrUnhashedLiteral, v, "value %q has no placeholder token", s)
	}
	return literal(v, s), nil
}

func (r *Renderer) escapeColumn(c core.EntityField) string {
	if c.Entity == "" {
		return r.Escaper.EscapeRef(c.Field)
	}
	return r.Escaper.EscapeRef(c.Entity) + "." + r.Escaper.EscapeRef(c.Field)
}

// literal inlines a value that has no token. Strings are wrapped in double
// quotes without escaping; callers that take untrusted input must hash every
// value or build strictly.
func literal(v any, normalized string) string {
	switch b := v.(type) {
	case bool:
		if b {
			return "TRUE"
		}
		return "FALSE"
	}
	if core.IsNumeric(v) {
		return normalized
	}
	return `"` + normalized + `"`
}
