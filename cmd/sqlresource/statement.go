package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/asaidimu/sqlresource/internal/cli"
	"github.com/asaidimu/sqlresource/pkg/sqldb"
)

var errOffline = errors.New("no database connection, run with --exec")

// offline stands in for the database when statements are only printed.
type offline struct{}

func (offline) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errOffline
}

func (offline) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errOffline
}

func statementCommands() []*cobra.Command {
	return []*cobra.Command{
		newStatementCommand("insert", "Insert the model file's records", `  # Print the INSERT statement and its arguments
  sqlresource insert --model users.yaml

  # Run it against the configured database
  sqlresource insert --model users.yaml --exec`),
		newStatementCommand("update", "Apply the model file's changes to the rows its condition selects", `  sqlresource update --model users.yaml`),
		newStatementCommand("delete", "Delete the rows the model file's condition selects", `  sqlresource delete --model users.yaml --exec`),
		newStatementCommand("select", "Select the rows the model file's condition selects", `  # Rows are printed as YAML keyed by field
  sqlresource select --model users.yaml --exec`),
	}
}

func newStatementCommand(op, short, example string) *cobra.Command {
	var exec bool
	c := &cobra.Command{
		Use:     op,
		Short:   short,
		Example: example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatement(cmd, op, exec)
		},
	}
	c.Flags().BoolVar(&exec, "exec", false, "run the statement against the configured database")
	return c
}

func runStatement(cmd *cobra.Command, op string, exec bool) error {
	if modelFile == "" {
		return cli.ConfigError("no model file", errors.New("--model is required"))
	}
	f, err := cli.LoadModelFile(modelFile)
	if err != nil {
		return cli.ModelParseError("loading model file", err)
	}

	var (
		db sqldb.ExecQuerier = offline{}
		d  sqldb.Dialect
	)
	if exec {
		sqlDB, dialect, err := cli.Open(cfg)
		if err != nil {
			return cli.DBConnectError("connecting to database", err)
		}
		defer func() { _ = sqlDB.Close() }()
		db, d = sqlDB, dialect
	} else if d, err = cfg.SQLDialect(); err != nil {
		return cli.ConfigError("resolving dialect", err)
	}

	m, err := f.Model(db, d, cfg.TablePrefix, logger)
	if err != nil {
		return cli.ModelParseError("building model", err)
	}

	st, err := buildStatement(m, f, op)
	if err != nil {
		return cli.GeneralError(fmt.Sprintf("building %s statement", op), err)
	}
	out := cmd.OutOrStdout()
	printStatement(out, st)

	if !exec {
		return nil
	}
	if err := runOperation(cmd.Context(), out, m, f, op); err != nil {
		return cli.GeneralError(fmt.Sprintf("running %s statement", op), err)
	}
	return nil
}

func buildStatement(m *sqldb.Model, f *cli.ModelFile, op string) (sqldb.Statement, error) {
	switch op {
	case "insert":
		return m.InsertStatement(f.Containers()...)
	case "update":
		if f.Changes == nil {
			return sqldb.Statement{}, errors.New("model file has no changes")
		}
		return m.UpdateStatement(f.Changes, f.Condition)
	case "delete":
		return m.DeleteStatement(f.Condition)
	case "select":
		return m.SelectStatement(f.Condition)
	}
	return sqldb.Statement{}, fmt.Errorf("unknown operation %q", op)
}

func runOperation(ctx context.Context, out io.Writer, m *sqldb.Model, f *cli.ModelFile, op string) error {
	var (
		res sql.Result
		err error
	)
	switch op {
	case "insert":
		res, err = m.Insert(ctx, f.Containers()...)
	case "update":
		res, err = m.Update(ctx, f.Changes, f.Condition)
	case "delete":
		res, err = m.Delete(ctx, f.Condition)
	case "select":
		rows, err := m.Select(ctx, f.Condition)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(rows)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
		return nil
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d rows affected\n", n)
	return nil
}

func printStatement(out io.Writer, st sqldb.Statement) {
	fmt.Fprintln(out, st.SQL)
	for i, a := range st.Args {
		if n, ok := a.(sql.NamedArg); ok {
			fmt.Fprintf(out, "-- :%s = %s\n", n.Name, formatArg(n.Value))
			continue
		}
		fmt.Fprintf(out, "-- %d = %s\n", i+1, formatArg(a))
	}
}

func formatArg(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprint(v)
}
