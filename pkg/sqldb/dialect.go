package sqldb

import (
	"fmt"
	"strings"

	"github.com/asaidimu/sqlresource/pkg/query"
)

// Dialect describes how a database quotes identifiers and binds parameters.
type Dialect struct {
	Name    string
	Driver  string // database/sql driver name
	Escaper query.Escaper
	Bind    query.BindStyle
}

// Supported dialects.
var (
	SQLite       = Dialect{Name: "sqlite3", Driver: "sqlite3", Escaper: query.BacktickEscaper{}, Bind: query.BindNamed}
	ModernSQLite = Dialect{Name: "sqlite", Driver: "sqlite", Escaper: query.BacktickEscaper{}, Bind: query.BindNamed}
	MySQL        = Dialect{Name: "mysql", Driver: "mysql", Escaper: query.BacktickEscaper{}, Bind: query.BindQuestion}
	Postgres     = Dialect{Name: "postgres", Driver: "postgres", Escaper: query.DoubleQuoteEscaper{}, Bind: query.BindDollar}
	PGX          = Dialect{Name: "pgx", Driver: "pgx", Escaper: query.DoubleQuoteEscaper{}, Bind: query.BindDollar}
)

var dialects = map[string]Dialect{
	SQLite.Name:       SQLite,
	ModernSQLite.Name: ModernSQLite,
	MySQL.Name:        MySQL,
	Postgres.Name:     Postgres,
	"postgresql":      Postgres,
	PGX.Name:          PGX,
}

// DialectByName returns the dialect registered under name.
func DialectByName(name string) (Dialect, error) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Dialect{}, fmt.Errorf("sqldb: unknown dialect %q", name)
	}
	return d, nil
}
