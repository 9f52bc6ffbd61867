package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/sqlresource/pkg/core"
	"github.com/asaidimu/sqlresource/pkg/sqldb"
)

const usersModel = `
table: users
columns:
  name: user_name
  age: user_age
  email: user_email
records:
  - {name: Alice, age: 30, email: null}
  - {name: Bob, age: 41, email: bob@example.com}
changes:
  age: {type: plus, terms: [{field: age}, 1]}
  name: Carol
condition:
  type: and
  terms:
    - {type: equal_to, terms: [{field: name}, Alice]}
    - {type: in, terms: [{field: age}, [30, 31]]}
    - {type: is_null, negated: true, terms: [{field: email}]}
`

func TestParseModelFile(t *testing.T) {
	f, err := ParseModelFile([]byte(usersModel))
	require.NoError(t, err)

	assert.Equal(t, "users", f.Table)
	assert.Equal(t, []string{"name", "age", "email"}, f.Columns.Fields())
	assert.Equal(t, []string{"user_name", "user_age", "user_email"}, f.Columns.ColumnNames())

	require.Len(t, f.Records, 2)
	assert.Equal(t, core.Record{"name": "Alice", "age": 30, "email": nil}, f.Records[0])

	assert.Equal(t, []string{"age", "name"}, f.Changes.Keys())
	age, err := f.Changes.Get("age")
	require.NoError(t, err)
	assert.Equal(t, core.Plus(core.Field("age"), 1), age)
	name, err := f.Changes.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "Carol", name)

	want := core.And(
		core.EqualTo("name", "Alice"),
		core.In("age", 30, 31),
		core.Not(core.IsNull("email")),
	)
	assert.Equal(t, want, f.Condition)
}

func TestParseModelFile_Joins(t *testing.T) {
	f, err := ParseModelFile([]byte(`
table: posts
columns:
  title: posts.title
  author: users.name
select_tables: [posts]
joins:
  - type: left
    table: users
    on: {type: equal_to, terms: [{column: posts.author_id}, {column: users.id}]}
`))
	require.NoError(t, err)

	require.Len(t, f.Joins, 1)
	assert.Equal(t, "left", f.Joins[0].Type)
	assert.Equal(t, "users", f.Joins[0].Table)
	assert.Equal(t, core.NewExpression(core.TypeEqualTo,
		core.EntityField{Entity: "posts", Field: "author_id"},
		core.EntityField{Entity: "users", Field: "id"},
	), f.Joins[0].Condition)
	assert.Nil(t, f.Condition)
	assert.Nil(t, f.Changes)

	col, ok := f.Columns.Column("author")
	require.True(t, ok)
	assert.Equal(t, core.EntityField{Entity: "users", Field: "name"}, col)
}

func TestParseModelFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no table", "columns: {a: b}", "table is required"},
		{"no columns", "table: t", "columns are required"},
		{"columns list", "table: t\ncolumns: [a, b]", "columns must be a mapping"},
		{"condition without type", "table: t\ncolumns: {a: b}\ncondition: {terms: []}", "must be an expression with a type"},
		{"bad term", "table: t\ncolumns: {a: b}\ncondition: {type: equal_to, terms: [{foo: bar}]}", "expected a value"},
		{"terms not a list", "table: t\ncolumns: {a: b}\ncondition: {type: and, terms: x}", "terms must be a list"},
		{"join without condition", "table: t\ncolumns: {a: b}\njoins: [{table: u, on: {terms: []}}]", "join u"},
		{"invalid yaml", "table: [", "parsing model file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModelFile([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadModelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(usersModel), 0o644))

	f, err := LoadModelFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Containers(), 2)

	_, err = LoadModelFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestModelFileModel(t *testing.T) {
	ctx := context.Background()
	f, err := ParseModelFile([]byte(usersModel))
	require.NoError(t, err)

	db, d, err := Open(&Config{Dialect: "sqlite", DataSource: ":memory:"})
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE app_users (user_name TEXT, user_age INTEGER, user_email TEXT)`)
	require.NoError(t, err)

	m, err := f.Model(db, d, "app_", nil)
	require.NoError(t, err)
	assert.Equal(t, "app_users", m.Table())

	_, err = m.Insert(ctx, f.Containers()...)
	require.NoError(t, err)

	res, err := m.Update(ctx, f.Changes, f.Condition)
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	// Alice has no email, so the negated is_null excludes her.
	assert.Equal(t, int64(0), affected)

	rows, err := m.Select(ctx, core.EqualTo("name", "Bob"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(41), rows[0]["age"])

	st, err := m.DeleteStatement(f.Condition)
	require.NoError(t, err)
	assert.Contains(t, st.SQL, "DELETE FROM `app_users` WHERE")
	assert.Equal(t, sqldb.ModernSQLite.Name, m.Dialect().Name)
}
