package query

import (
	"fmt"
	"strings"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// Template renders one expression type.
type Template interface {
	Render(ctx RenderContext) (string, error)
}

// TemplateFunc adapts a function to Template.
type TemplateFunc func(ctx RenderContext) (string, error)

// Render implements Template.
func (f TemplateFunc) Render(ctx RenderContext) (string, error) { return f(ctx) }

// TemplateSet binds expression types to templates.
type TemplateSet map[core.ExpressionType]Template

// Lookup returns the template for t, falling back to its canonical type.
func (s TemplateSet) Lookup(t core.ExpressionType) (Template, bool) {
	if tpl, ok := s[t]; ok && tpl != nil {
		return tpl, true
	}
	tpl, ok := s[t.Canonical()]
	return tpl, ok && tpl != nil
}

// With returns a copy of s with t bound to tpl.
func (s TemplateSet) With(t core.ExpressionType, tpl Template) TemplateSet {
	out := make(TemplateSet, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[t] = tpl
	return out
}

// DefaultTemplates returns the SQL templates for the built-in expression types.
func DefaultTemplates() TemplateSet {
	return TemplateSet{
		core.TypeAnd:            group("AND", "1 = 1"),
		core.TypeOr:             group("OR", "1 = 0"),
		core.TypeEqualTo:        binary("="),
		core.TypeNotEqualTo:     binary("<>"),
		core.TypeGreater:        binary(">"),
		core.TypeGreaterEqualTo: binary(">="),
		core.TypeLess:           binary("<"),
		core.TypeLessEqualTo:    binary("<="),
		core.TypeLike:           binary("LIKE"),
		core.TypeIn:             TemplateFunc(renderIn),
		core.TypeBetween:        TemplateFunc(renderBetween),
		core.TypeIsNull:         TemplateFunc(renderIsNull),
		core.TypeSet:            TemplateFunc(renderSet),
		core.TypePlus:           arithmetic("+"),
		core.TypeMinus:          arithmetic("-"),
		core.TypeTimes:          arithmetic("*"),
		core.TypeDivide:         arithmetic("/"),
	}
}

// group joins the terms with op. A group without terms renders as empty,
// a constant condition.
func group(op, empty string) TemplateFunc {
	return func(ctx RenderContext) (string, error) {
		parts, err := ctx.Terms()
		if err != nil {
			return "", err
		}
		switch len(parts) {
		case 0:
			return empty, nil
		case 1:
			return parts[0], nil
		}
		return "(" + strings.Join(parts, " "+op+" ") + ")", nil
	}
}

func binary(op string) TemplateFunc {
	return func(ctx RenderContext) (string, error) {
		parts, err := ctx.termsN(2)
		if err != nil {
			return "", err
		}
		return parts[0] + " " + op + " " + parts[1], nil
	}
}

func arithmetic(op string) TemplateFunc {
	return func(ctx RenderContext) (string, error) {
		if len(ctx.Expression.Terms) < 2 {
			return "", ctx.arityError("at least 2")
		}
		parts := make([]string, 0, len(ctx.Expression.Terms))
		for _, t := range ctx.Expression.Terms {
			s, err := ctx.Term(t)
			if err != nil {
				return "", err
			}
			if e, ok := t.(*core.Expression); ok && isArithmetic(e.Type) && !e.Negated {
				s = "(" + s + ")"
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, " "+op+" "), nil
	}
}

func isArithmetic(t core.ExpressionType) bool {
	switch t {
	case core.TypePlus, core.TypeMinus, core.TypeTimes, core.TypeDivide:
		return true
	}
	return false
}

func renderIn(ctx RenderContext) (string, error) {
	parts, err := ctx.termsN(2)
	if err != nil {
		return "", err
	}
	set := parts[1]
	if e, ok := ctx.Expression.Terms[1].(*core.Expression); !ok || e.Type != core.TypeSet {
		set = "(" + set + ")"
	}
	return parts[0] + " IN " + set, nil
}

func renderBetween(ctx RenderContext) (string, error) {
	parts, err := ctx.termsN(3)
	if err != nil {
		return "", err
	}
	return parts[0] + " BETWEEN " + parts[1] + " AND " + parts[2], nil
}

func renderIsNull(ctx RenderContext) (string, error) {
	parts, err := ctx.termsN(1)
	if err != nil {
		return "", err
	}
	return parts[0] + " IS NULL", nil
}

func renderSet(ctx RenderContext) (string, error) {
	parts, err := ctx.Terms()
	if err != nil {
		return "", err
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

func (ctx RenderContext) termsN(n int) ([]string, error) {
	if len(ctx.Expression.Terms) != n {
		return nil, ctx.arityError(fmt.Sprint(n))
	}
	return ctx.Terms()
}

func (ctx RenderContext) arityError(want string) error {
	return core.InvalidArgumentf(nil, ctx.Expression,
		"%q expression expects %s terms, got %d", ctx.Expression.Type, want, len(ctx.Expression.Terms))
}
