package query

import (
	"strings"

	"github.com/lib/pq"
)

// Escaper escapes table and column identifiers for inclusion in SQL text.
type Escaper interface {
	EscapeRef(name string) string
	EscapeRefList(names []string) string
}

// Escapers by name, as used in configuration.
const (
	EscapeNone     = "none"
	EscapeBacktick = "backtick"
	EscapeDouble   = "double"
)

// EscaperByName returns the escaper registered under name. Unknown names
// yield the PlainEscaper.
func EscaperByName(name string) Escaper {
	switch name {
	case EscapeBacktick:
		return BacktickEscaper{}
	case EscapeDouble:
		return DoubleQuoteEscaper{}
	}
	return PlainEscaper{}
}

// PlainEscaper leaves identifiers untouched.
type PlainEscaper struct{}

func (PlainEscaper) EscapeRef(name string) string { return name }

func (PlainEscaper) EscapeRefList(names []string) string { return strings.Join(names, ", ") }

// BacktickEscaper quotes identifiers MySQL and SQLite style: `users`.`id`.
type BacktickEscaper struct{}

func (BacktickEscaper) EscapeRef(name string) string {
	return eachPart(name, func(s string) string {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	})
}

func (e BacktickEscaper) EscapeRefList(names []string) string { return escapeList(e, names) }

// DoubleQuoteEscaper quotes identifiers the ANSI way: "users"."id".
type DoubleQuoteEscaper struct{}

func (DoubleQuoteEscaper) EscapeRef(name string) string {
	return eachPart(name, pq.QuoteIdentifier)
}

func (e DoubleQuoteEscaper) EscapeRefList(names []string) string { return escapeList(e, names) }

// eachPart quotes every dot separated part of a qualified name. A "*" part
// is kept bare.
func eachPart(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if p == "*" {
			continue
		}
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

func escapeList(e Escaper, names []string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = e.EscapeRef(n)
	}
	return strings.Join(out, ", ")
}
