package cli

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/asaidimu/sqlresource/pkg/sqldb"
)

// Open connects to the configured database and returns it with its dialect.
func Open(cfg *Config) (*sql.DB, sqldb.Dialect, error) {
	d, err := cfg.SQLDialect()
	if err != nil {
		return nil, sqldb.Dialect{}, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, d, err
	}
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, d, fmt.Errorf("connecting to database: %w", err)
	}
	return db, d, nil
}
