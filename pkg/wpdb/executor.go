package wpdb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Executor runs a query with numbered placeholders. args[0] is bound to
// "%1$...", args[1] to "%2$..." and so on.
type Executor interface {
	Query(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, query string, args ...any) (sql.Result, error)

// Query implements Executor.
func (f ExecutorFunc) Query(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return f(ctx, query, args...)
}

// Execer is the part of *sql.DB the MySQL executor needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// MySQLExecutor runs numbered placeholder queries on a MySQL connection by
// rewriting them to "?" placeholders.
type MySQLExecutor struct {
	DB Execer
}

// Query implements Executor.
func (e MySQLExecutor) Query(ctx context.Context, query string, args ...any) (sql.Result, error) {
	q, bound, err := Positional(query, args)
	if err != nil {
		return nil, err
	}
	return e.DB.ExecContext(ctx, q, bound...)
}

// Positional rewrites "%N$s", "%N$d" and "%N$f" to "?" and returns the
// arguments in occurrence order. "%%" yields a literal "%". Quoted regions
// are copied untouched.
func Positional(query string, args []any) (string, []any, error) {
	var (
		out   strings.Builder
		bound []any
		quote byte
	)
	out.Grow(len(query))
	for i := 0; i < len(query); i++ {
		c := query[i]
		if quote != 0 {
			out.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '%':
			if i+1 < len(query) && query[i+1] == '%' {
				out.WriteByte('%')
				i++
				continue
			}
			n, width, ok := placeholder(query[i+1:])
			if !ok {
				break
			}
			if n < 1 || n > len(args) {
				return "", nil, fmt.Errorf("wpdb: placeholder %s has no argument", query[i:i+1+width])
			}
			out.WriteByte('?')
			bound = append(bound, args[n-1])
			i += width
			continue
		}
		out.WriteByte(c)
	}
	return out.String(), bound, nil
}

// placeholder parses "N$v" at the start of s.
func placeholder(s string) (n, width int, ok bool) {
	j := 0
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == 0 || j+1 >= len(s) || s[j] != '$' {
		return 0, 0, false
	}
	switch s[j+1] {
	case 's', 'd', 'f':
	default:
		return 0, 0, false
	}
	n, err := strconv.Atoi(s[:j])
	if err != nil {
		return 0, 0, false
	}
	return n, j + 2, true
}

// Config holds the connection settings of a WordPress database.
type Config struct {
	Host     string
	User     string
	Password string
	Name     string
	Charset  string
	Timeout  time.Duration
}

// DSN returns the go-sql-driver/mysql data source name for c.
func (c Config) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host
	cfg.DBName = c.Name
	cfg.ParseTime = true
	cfg.Timeout = c.Timeout
	if c.Charset != "" {
		cfg.Params = map[string]string{"charset": c.Charset}
	}
	return cfg.FormatDSN()
}

// Open connects to the database described by c.
func Open(c Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", c.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
