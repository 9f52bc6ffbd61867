package query

import (
	"fmt"
	"strings"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// Builder builds INSERT, UPDATE, DELETE, SELECT and WHERE SQL text for one
// resource. Columns is the resource's field-column map, used to render
// conditions; it is only read.
type Builder struct {
	Escaper  Escaper
	Renderer *Renderer
	Columns  *core.ColumnMap
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTemplates replaces the condition templates.
func WithTemplates(set TemplateSet) BuilderOption {
	return func(b *Builder) { b.Renderer.Templates = set }
}

// Strict makes the builder fail on values without a token instead of
// inlining them.
func Strict() BuilderOption {
	return func(b *Builder) { b.Renderer.Strict = true }
}

// NewBuilder returns a builder escaping identifiers with esc.
func NewBuilder(esc Escaper, columns *core.ColumnMap, opts ...BuilderOption) *Builder {
	if esc == nil {
		esc = PlainEscaper{}
	}
	b := &Builder{Escaper: esc, Renderer: NewRenderer(esc), Columns: columns}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// statement formats a query and terminates it: "<trimmed>;".
func statement(format string, args ...any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...)) + ";"
}

var _ core.QueryBuilder = (*Builder)(nil)
