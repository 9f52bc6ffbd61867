// Package sqldb implements resource models over database/sql. Values are
// always bound as parameters: queries are built strictly and their tokens
// rewritten to the dialect's placeholders before execution.
package sqldb

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/asaidimu/sqlresource/pkg/core"
	"github.com/asaidimu/sqlresource/pkg/query"
)

// ExecQuerier wraps the standard Exec and Query methods. *sql.DB, *sql.Tx
// and *sql.Conn implement it.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Model is a resource model over one table. Its configuration is read-only
// once built, so a Model may be shared between goroutines.
type Model struct {
	db      ExecQuerier
	table   string
	columns *core.ColumnMap
	dialect Dialect
	hasher  core.Hasher
	logger  *slog.Logger
	builder *query.Builder

	selectTables []string
	joins        []query.Join
}

// Option configures a Model.
type Option func(*Model)

// WithDialect sets the dialect. The default is SQLite.
func WithDialect(d Dialect) Option {
	return func(m *Model) { m.dialect = d }
}

// WithLogger sets the logger generated statements are logged to.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithHasher replaces the CRC32 value hasher.
func WithHasher(h core.Hasher) Option {
	return func(m *Model) { m.hasher = h }
}

// WithSelectTables sets the tables read by Select. The default is the
// model's table.
func WithSelectTables(tables ...string) Option {
	return func(m *Model) { m.selectTables = tables }
}

// WithJoin adds a JOIN to Select. typ may be empty for an INNER join.
func WithJoin(typ, table string, condition *core.Expression) Option {
	return func(m *Model) {
		m.joins = append(m.joins, query.Join{Type: typ, Table: table, Condition: condition})
	}
}

// New returns a model writing to table. columns maps the resource's fields
// to the table's columns and must not be empty.
func New(db ExecQuerier, table string, columns *core.ColumnMap, opts ...Option) (*Model, error) {
	m := &Model{
		db:      db,
		table:   table,
		columns: columns,
		dialect: SQLite,
		hasher:  query.CRC32Hasher{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if db == nil {
		return nil, core.NewInvalidArgumentError("database is nil", nil, nil)
	}
	if table == "" {
		return nil, core.NewInvalidArgumentError("table name is empty", nil, table)
	}
	if columns.Len() == 0 {
		return nil, core.NewInvalidArgumentError("field-column map is empty", nil, columns)
	}
	for _, j := range m.joins {
		if j.Condition == nil {
			return nil, core.InvalidArgumentf(nil, j, "join on %q has no condition", j.Table)
		}
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if len(m.selectTables) == 0 {
		m.selectTables = []string{table}
	}
	m.builder = query.NewBuilder(m.dialect.Escaper, columns, query.Strict())
	return m, nil
}

// Table returns the model's table.
func (m *Model) Table() string { return m.table }

// Columns returns the model's field-column map.
func (m *Model) Columns() *core.ColumnMap { return m.columns }

// Dialect returns the model's dialect.
func (m *Model) Dialect() Dialect { return m.dialect }

// Builder returns the query builder the model uses.
func (m *Model) Builder() *query.Builder { return m.builder }

// ignored lists the strings that never become bound values in conditions.
func (m *Model) ignored() []string {
	return m.columns.Fields()
}

var _ core.ResourceModel = (*Model)(nil)
