package wpdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/asaidimu/sqlresource/pkg/core"
	"github.com/asaidimu/sqlresource/pkg/query"
)

// DefaultPrefix is the WordPress table prefix.
const DefaultPrefix = "wp_"

// Model is a resource model over one WordPress table.
type Model struct {
	exec    Executor
	table   string
	columns *core.ColumnMap
	logger  *slog.Logger
	builder *query.Builder
	hasher  core.Hasher
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger generated statements are logged to.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// New returns a model over prefix+table.
func New(exec Executor, prefix, table string, columns *core.ColumnMap, opts ...Option) (*Model, error) {
	if exec == nil {
		return nil, core.NewInvalidArgumentError("executor is nil", nil, nil)
	}
	if table == "" {
		return nil, core.NewInvalidArgumentError("table name is empty", nil, table)
	}
	if columns.Len() == 0 {
		return nil, core.NewInvalidArgumentError("field-column map is empty", nil, columns)
	}
	m := &Model{
		exec:    exec,
		table:   prefix + table,
		columns: columns,
		logger:  slog.Default(),
		hasher:  PositionalHasher{},
		builder: query.NewBuilder(query.BacktickEscaper{}, columns, query.Strict()),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m, nil
}

// Table returns the prefixed table name.
func (m *Model) Table() string { return m.table }

// Insert writes records in one statement.
func (m *Model) Insert(ctx context.Context, records ...core.Container) (sql.Result, error) {
	if len(records) == 0 {
		return nil, core.NewInvalidArgumentError("no records to insert", nil, records)
	}
	hashes := core.NewValueHashMap()
	rows := make([]core.Row, 0, len(records))
	for _, rec := range records {
		row, err := m.extractRecordData(rec, hashes)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	q, err := m.builder.BuildInsert(m.table, m.columns.ColumnNames(), rows, hashes)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, "insert", q, hashes)
}

func (m *Model) extractRecordData(rec core.Container, hashes *core.ValueHashMap) (core.Row, error) {
	row := make(core.Row, m.columns.Len())
	for _, field := range m.columns.Fields() {
		v, err := core.ContainerGet(rec, field)
		if core.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		col, _ := m.columns.Column(field)
		row[col.Field] = v
		if err := m.add(hashes, v); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// Update applies changes to the rows matching condition. The condition's
// placeholders are numbered first, the change set's continue after them.
func (m *Model) Update(ctx context.Context, changes core.Container, condition *core.Expression) (sql.Result, error) {
	fields := changeFields(changes, m.columns)
	if len(fields) == 0 {
		return nil, core.NewInvalidArgumentError("update set cannot be empty", nil, changes)
	}

	hashes := core.NewValueHashMap()
	if condition != nil {
		if err := query.AddExpressionHashes(hashes, condition, m.columns.Fields(), m.hasher); err != nil {
			return nil, err
		}
	}
	set := core.NewChangeSet()
	for _, field := range fields {
		v, err := core.ContainerGet(changes, field)
		if err != nil {
			return nil, err
		}
		col, _ := m.columns.Column(field)
		set.Set(col.Field, v)
		if t, ok := v.(core.Term); ok {
			err = query.AddExpressionHashes(hashes, t, m.columns.Fields(), m.hasher)
		} else {
			err = m.add(hashes, v)
		}
		if err != nil {
			return nil, err
		}
	}

	q, err := m.builder.BuildUpdate(m.table, set, condition, hashes)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, "update", q, hashes)
}

// Delete removes the rows matching condition, or every row when it is nil.
func (m *Model) Delete(ctx context.Context, condition *core.Expression) (sql.Result, error) {
	hashes := core.NewValueHashMap()
	if condition != nil {
		if err := query.AddExpressionHashes(hashes, condition, m.columns.Fields(), m.hasher); err != nil {
			return nil, err
		}
	}
	q, err := m.builder.BuildDelete(m.table, condition, hashes)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, "delete", q, hashes)
}

func (m *Model) add(hashes *core.ValueHashMap, v any) error {
	if v == nil {
		return nil
	}
	s, err := core.NormalizeString(v)
	if err != nil {
		return err
	}
	hashes.Add(s, v, m.hasher)
	return nil
}

// run executes q with the hashed values in position order.
func (m *Model) run(ctx context.Context, op, q string, hashes *core.ValueHashMap) (sql.Result, error) {
	entries := hashes.Entries()
	args := make([]any, len(entries))
	for i, e := range entries {
		args[i] = e.Value
	}
	m.logger.DebugContext(ctx, "executing statement", "op", op, "table", m.table, "sql", q, "args", len(args))
	res, err := m.exec.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s query: %w", op, err)
	}
	return res, nil
}

// changeFields lists the mapped fields changes holds, in field map order.
func changeFields(changes core.Container, columns *core.ColumnMap) []string {
	var out []string
	for _, f := range columns.Fields() {
		if core.ContainerHas(changes, f) {
			out = append(out, f)
		}
	}
	return out
}
