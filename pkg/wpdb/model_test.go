package wpdb

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/sqlresource/pkg/core"
)

type call struct {
	query string
	args  []any
}

type recorder struct {
	calls []call
	err   error
}

func (r *recorder) Query(_ context.Context, query string, args ...any) (sql.Result, error) {
	r.calls = append(r.calls, call{query: query, args: args})
	if r.err != nil {
		return nil, r.err
	}
	return sqlmock.NewResult(0, 1), nil
}

func newUsers(t *testing.T, exec Executor) *Model {
	t.Helper()
	m, err := New(exec, DefaultPrefix, "users", core.NewColumnMap("id", "ID", "login", "user_login"))
	require.NoError(t, err)
	return m
}

func TestPositionalHasher(t *testing.T) {
	h := PositionalHasher{}
	assert.Equal(t, "%1$s", h.Hash("foo", "foo", 0))
	assert.Equal(t, "%2$d", h.Hash("5", 5, 1))
	assert.Equal(t, "%3$f", h.Hash("1.5", 1.5, 2))
	assert.Equal(t, "%10$s", h.Hash("true", true, 9))
}

func TestPositional(t *testing.T) {
	q, args, err := Positional("SELECT %1$s, %2$d, %1$s, '%3$s', 100%% FROM t", []any{"a", 2, "c"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT ?, ?, ?, '%3$s', 100% FROM t", q)
	assert.Equal(t, []any{"a", 2, "a"}, args)

	q, args, err = Positional("SELECT 5 % 2, '%' FROM t", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 5 % 2, '%' FROM t", q)
	assert.Empty(t, args)

	_, _, err = Positional("SELECT %2$s", []any{"a"})
	assert.Error(t, err)
}

func TestInsert(t *testing.T) {
	rec := &recorder{}
	m := newUsers(t, rec)

	_, err := m.Insert(context.Background(),
		core.Record{"id": 1, "login": "foo"},
		core.Record{"id": 2, "login": "bar", "ignored": true},
	)
	require.NoError(t, err)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "INSERT INTO `wp_users` (`ID`, `user_login`) VALUES (%1$d, %2$s), (%3$d, %4$s);", rec.calls[0].query)
	assert.Equal(t, []any{1, "foo", 2, "bar"}, rec.calls[0].args)
}

func TestUpdate(t *testing.T) {
	rec := &recorder{}
	m := newUsers(t, rec)

	_, err := m.Update(context.Background(), core.Record{"login": "baz"}, core.EqualTo("id", 7))
	require.NoError(t, err)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "UPDATE `wp_users` SET `user_login` = %2$s WHERE `ID` = %1$d;", rec.calls[0].query)
	assert.Equal(t, []any{7, "baz"}, rec.calls[0].args)
}

func TestUpdateEmpty(t *testing.T) {
	rec := &recorder{}
	m := newUsers(t, rec)

	_, err := m.Update(context.Background(), core.Record{"unknown": 1}, core.EqualTo("id", 7))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Empty(t, rec.calls)
}

func TestDelete(t *testing.T) {
	rec := &recorder{}
	m := newUsers(t, rec)

	_, err := m.Delete(context.Background(), core.In("id", 3, 7))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `wp_users` WHERE `ID` IN (%1$d, %2$d);", rec.calls[0].query)
	assert.Equal(t, []any{3, 7}, rec.calls[0].args)
}

func TestDeleteFieldComparison(t *testing.T) {
	rec := &recorder{}
	m := newUsers(t, rec)

	cond := core.And(
		core.EqualTo("login", "id"),
		core.NewExpression(core.TypeEqualTo, core.Field("id"), core.Field("login")),
	)
	_, err := m.Delete(context.Background(), cond)
	require.NoError(t, err)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, "DELETE FROM `wp_users` WHERE (`user_login` = %1$s AND `ID` = `user_login`);", rec.calls[0].query)
	assert.Equal(t, []any{"id"}, rec.calls[0].args)
}

func TestExecutorError(t *testing.T) {
	boom := errors.New("boom")
	m := newUsers(t, &recorder{err: boom})
	_, err := m.Delete(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestMySQLExecutor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `wp_users` SET `user_login` = ? WHERE `ID` = ?;")).
		WithArgs("baz", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m := newUsers(t, MySQLExecutor{DB: db})
	_, err = m.Update(context.Background(), core.Record{"login": "baz"}, core.EqualTo("id", 7))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew(t *testing.T) {
	_, err := New(nil, DefaultPrefix, "users", core.NewColumnMap("id", "ID"))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = New(&recorder{}, DefaultPrefix, "", core.NewColumnMap("id", "ID"))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = New(&recorder{}, DefaultPrefix, "users", nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestConfigDSN(t *testing.T) {
	c := Config{Host: "db:3306", User: "wp", Password: "secret", Name: "wordpress", Charset: "utf8mb4", Timeout: 5 * time.Second}
	parsed, err := mysql.ParseDSN(c.DSN())
	require.NoError(t, err)
	assert.Equal(t, "wp", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "db:3306", parsed.Addr)
	assert.Equal(t, "wordpress", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, 5*time.Second, parsed.Timeout)
}
