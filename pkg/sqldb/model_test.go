package sqldb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/sqlresource/pkg/core"
)

func userColumns() *core.ColumnMap {
	return core.NewColumnMap("id", "id", "name", "user_name", "age", "age")
}

func newMockModel(t *testing.T, opts ...Option) (*Model, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m, err := New(db, "users", userColumns(), append([]Option{WithDialect(MySQL)}, opts...)...)
	require.NoError(t, err)
	return m, mock
}

func TestInsert(t *testing.T) {
	m, mock := newMockModel(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users` (`id`, `user_name`, `age`) VALUES (?, ?, ?), (?, ?);")).
		WithArgs(5, "foo", 22, 11, "bar").
		WillReturnResult(sqlmock.NewResult(11, 2))

	res, err := m.Insert(context.Background(),
		core.Record{"id": 5, "name": "foo", "age": 22},
		core.Record{"id": 11, "name": "bar"},
	)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertNoRecords(t *testing.T) {
	m, mock := newMockModel(t)
	_, err := m.Insert(context.Background())
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	m, mock := newMockModel(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `user_name` = ?, `age` = `age` + ? WHERE `id` = ?;")).
		WithArgs("baz", 1, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	changes := core.NewChangeSet("name", "baz", "age", core.Plus(core.Field("age"), 1))
	_, err := m.Update(context.Background(), changes, core.EqualTo("id", 5))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSkipsUnknownFields(t *testing.T) {
	m, mock := newMockModel(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `user_name` = ?;")).
		WithArgs("x").
		WillReturnResult(sqlmock.NewResult(0, 3))

	_, err := m.Update(context.Background(), core.Record{"nope": 1, "name": "x"}, nil)
	require.NoError(t, err)

	_, err = m.Update(context.Background(), core.Record{"nope": 1}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePostgres(t *testing.T) {
	m, mock := newMockModel(t, WithDialect(Postgres))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users" WHERE ("id" = $1 OR "id" = $2);`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))

	_, err := m.Delete(context.Background(), core.Or(core.EqualTo("id", 1), core.EqualTo("id", 2)))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAll(t *testing.T) {
	m, mock := newMockModel(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `users`;")).
		WillReturnResult(sqlmock.NewResult(0, 5))

	_, err := m.Delete(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect(t *testing.T) {
	m, mock := newMockModel(t)

	rows := sqlmock.NewRows([]string{"id", "user_name", "age"}).
		AddRow(int64(1), []byte("foo"), int64(22)).
		AddRow(int64(2), []byte("bar"), nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id`, `user_name`, `age` FROM `users` WHERE `age` > ?;")).
		WithArgs(18).
		WillReturnRows(rows)

	got, err := m.Select(context.Background(), core.Greater("age", 18))
	require.NoError(t, err)
	assert.Equal(t, []core.Row{
		{"id": int64(1), "name": "foo", "age": int64(22)},
		{"id": int64(2), "name": "bar", "age": nil},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectStatementWithJoin(t *testing.T) {
	join := core.NewExpression(core.TypeEqualTo,
		core.EntityField{Entity: "users", Field: "id"},
		core.EntityField{Entity: "posts", Field: "author_id"})
	m, _ := newMockModel(t, WithJoin("", "posts", join))

	st, err := m.SelectStatement(core.EqualTo("name", "foo"))
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT `users`.`id`, `users`.`user_name`, `users`.`age` FROM `users` INNER JOIN `posts` ON `users`.`id` = `posts`.`author_id` WHERE `user_name` = ?;",
		st.SQL)
	assert.Equal(t, []any{"foo"}, st.Args)
}

func TestDeleteStatementValuesNamedLikeFields(t *testing.T) {
	m, _ := newMockModel(t)

	st, err := m.DeleteStatement(core.Or(core.EqualTo("name", "age"), core.In("id", "name", "id")))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `users` WHERE (`user_name` = ? OR `id` IN (?, ?));", st.SQL)
	assert.Equal(t, []any{"age", "name", "id"}, st.Args)
}

func TestDeleteWithHasher(t *testing.T) {
	counter := core.HasherFunc(func(_ string, _ any, pos int) string { return fmt.Sprintf(":p%d", pos+1) })
	m, mock := newMockModel(t, WithHasher(counter))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `users` WHERE `id` IN (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);")).
		WithArgs(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11).
		WillReturnResult(sqlmock.NewResult(0, 11))

	_, err := m.Delete(context.Background(), core.In("id", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecError(t *testing.T) {
	m, mock := newMockModel(t)
	boom := errors.New("boom")
	mock.ExpectExec("DELETE FROM").WillReturnError(boom)

	_, err := m.Delete(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNewValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(nil, "users", userColumns())
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = New(db, "", userColumns())
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = New(db, "users", core.NewColumnMap())
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = New(db, "users", userColumns(), WithJoin("", "posts", nil))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestDialectByName(t *testing.T) {
	for _, name := range []string{"sqlite3", "sqlite", "MySQL", "postgres", "postgresql", "pgx"} {
		_, err := DialectByName(name)
		assert.NoError(t, err, name)
	}
	_, err := DialectByName("oracle")
	assert.Error(t, err)
}

func TestRegisterMetrics(t *testing.T) {
	// For now we only test that the metrics definitions are valid.
	registry := prometheus.NewRegistry()
	MustRegisterMetrics(registry)
}
