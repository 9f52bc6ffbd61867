package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = `
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
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInsertPrintsStatement(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "sqlresource.yaml", "dialect: mysql\n")
	model := writeFile(t, dir, "users.yaml", testModel)

	out, err := run(t, "insert", "--config", config, "--model", model, "--exec=false")
	require.NoError(t, err)

	assert.Contains(t, out, "INSERT INTO `users` (`user_name`, `user_age`, `user_email`) VALUES (?, ?, NULL), (?, ?, ?);")
	assert.Contains(t, out, "-- 1 = \"Alice\"\n-- 2 = 30\n-- 3 = \"Bob\"\n-- 4 = 41\n-- 5 = \"bob@example.com\"\n")
}

func TestUpdatePrintsPostgresStatement(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "sqlresource.yaml", "dialect: postgres\ntable_prefix: app_\n")
	model := writeFile(t, dir, "users.yaml", testModel+`
condition: {type: equal_to, terms: [{field: name}, Bob]}
`)

	out, err := run(t, "update", "--config", config, "--model", model, "--exec=false")
	require.NoError(t, err)

	assert.Contains(t, out, `UPDATE "app_users" SET "user_age" = "user_age" + $1 WHERE "user_name" = $2;`)
	assert.Contains(t, out, "-- 1 = 1\n-- 2 = \"Bob\"\n")
}

func TestStatementRequiresModel(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "sqlresource.yaml", "dialect: mysql\n")

	_, err := run(t, "delete", "--config", config, "--model", "", "--exec=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--model is required")
}

func TestExecAgainstSQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE users (user_name TEXT, user_age INTEGER, user_email TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	config := writeFile(t, dir, "sqlresource.yaml", "dialect: sqlite3\ndsn: "+dbPath+"\n")
	model := writeFile(t, dir, "users.yaml", testModel)

	out, err := run(t, "insert", "--config", config, "--model", model, "--exec")
	require.NoError(t, err)
	assert.Contains(t, out, "2 rows affected")

	out, err = run(t, "update", "--config", config, "--model", model, "--exec")
	require.NoError(t, err)
	assert.Contains(t, out, "2 rows affected")

	out, err = run(t, "select", "--config", config, "--model", model, "--exec")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Alice")
	assert.Contains(t, out, "age: 31")
	assert.Contains(t, out, "age: 42")

	out, err = run(t, "delete", "--config", config, "--model", model, "--exec")
	require.NoError(t, err)
	assert.Contains(t, out, "DELETE FROM `users`;")
	assert.Contains(t, out, "2 rows affected")
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "sqlresource.yaml", "dialect: mysql\ndatabase:\n  password: hunter2\n")

	out, err := run(t, "config", "show", "--config", config, "--source")
	require.NoError(t, err)
	assert.Contains(t, out, "Config file: "+config)
	assert.Contains(t, out, "dialect: mysql")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "hunter2")
}
