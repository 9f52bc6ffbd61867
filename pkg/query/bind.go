package query

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// BindStyle is the placeholder syntax of a database driver.
type BindStyle int

const (
	// BindNamed rewrites ":1a2b3c4d" to ":v1a2b3c4d" and passes sql.Named
	// arguments. Names must start with a letter for database/sql.
	BindNamed BindStyle = iota
	// BindQuestion rewrites every token to "?" with one argument per
	// occurrence.
	BindQuestion
	// BindDollar rewrites tokens to "$1", "$2"...; a repeated token reuses
	// its number.
	BindDollar
)

func (s BindStyle) String() string {
	switch s {
	case BindNamed:
		return "named"
	case BindQuestion:
		return "question"
	case BindDollar:
		return "dollar"
	}
	return "BindStyle(" + strconv.Itoa(int(s)) + ")"
}

// ParseBindStyle maps "named", "question" or "dollar" to a BindStyle.
func ParseBindStyle(s string) (BindStyle, error) {
	switch strings.ToLower(s) {
	case "named", ":":
		return BindNamed, nil
	case "question", "?":
		return BindQuestion, nil
	case "dollar", "$":
		return BindDollar, nil
	}
	return 0, fmt.Errorf("unknown bind style %q", s)
}

// Bind rewrites the tokens of hashes found in query to the placeholders of
// style and returns the arguments in the order the driver expects. Quoted
// regions are copied untouched. Tokens of hashes that query does not
// reference are not passed.
//
// Any Hasher's tokens are recognized. Where tokens overlap the longest one
// wins, and a token ending in an identifier character only matches when the
// next character does not continue the identifier.
func Bind(query string, hashes *core.ValueHashMap, style BindStyle) (string, []any) {
	tokens := bindTokens(hashes)
	if len(tokens) == 0 {
		return query, nil
	}

	var (
		out     strings.Builder
		bound   []any
		seen    = make(map[string]int)
		quote   byte
		literal = false
	)
	out.Grow(len(query))
	for i := 0; i < len(query); i++ {
		c := query[i]
		if literal {
			out.WriteByte(c)
			if c == quote {
				literal = false
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			literal, quote = true, c
			out.WriteByte(c)
			continue
		}
		e, ok := matchToken(query, i, tokens[c])
		if !ok {
			out.WriteByte(c)
			continue
		}
		switch style {
		case BindNamed:
			n, dup := seen[e.Token]
			if !dup {
				n = len(bound)
				seen[e.Token] = n
				bound = append(bound, sql.Named(bindName(e.Token, n), e.Value))
			}
			out.WriteString(":" + bound[n].(sql.NamedArg).Name)
		case BindQuestion:
			out.WriteByte('?')
			bound = append(bound, e.Value)
		case BindDollar:
			n, dup := seen[e.Token]
			if !dup {
				bound = append(bound, e.Value)
				n = len(bound)
				seen[e.Token] = n
			}
			out.WriteString("$" + strconv.Itoa(n))
		}
		i += len(e.Token) - 1
	}
	return out.String(), bound
}

// bindTokens groups the entries of hashes by the first byte of their token,
// longest token first.
func bindTokens(hashes *core.ValueHashMap) map[byte][]core.HashEntry {
	out := make(map[byte][]core.HashEntry)
	for _, e := range hashes.Entries() {
		if e.Token == "" {
			continue
		}
		out[e.Token[0]] = append(out[e.Token[0]], e)
	}
	for _, es := range out {
		sort.SliceStable(es, func(a, b int) bool { return len(es[a].Token) > len(es[b].Token) })
	}
	return out
}

func matchToken(query string, i int, candidates []core.HashEntry) (core.HashEntry, bool) {
	for _, e := range candidates {
		if !strings.HasPrefix(query[i:], e.Token) {
			continue
		}
		end := i + len(e.Token)
		if end < len(query) && isIdentByte(e.Token[len(e.Token)-1]) && isIdentByte(query[end]) {
			continue
		}
		return e, true
	}
	return core.HashEntry{}, false
}

// bindName derives the parameter name of token. A ":"-prefixed identifier
// keeps its body behind a "v"; any other token is named by its position.
func bindName(token string, n int) string {
	body, ok := strings.CutPrefix(token, ":")
	if ok && body != "" {
		valid := true
		for i := 0; i < len(body); i++ {
			if !isIdentByte(body[i]) {
				valid = false
				break
			}
		}
		if valid {
			return "v" + body
		}
	}
	return "p" + strconv.Itoa(n+1)
}

func isIdentByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
