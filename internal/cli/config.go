package cli

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/asaidimu/sqlresource/pkg/query"
	"github.com/asaidimu/sqlresource/pkg/sqldb"
	"github.com/asaidimu/sqlresource/pkg/wpdb"
)

const (
	maxWalkDepth = 25
)

// Config represents the sqlresource configuration from sqlresource.yaml.
type Config struct {
	Dialect     string `mapstructure:"dialect" json:"dialect"`
	DataSource  string `mapstructure:"dsn" json:"dsn"`
	TablePrefix string `mapstructure:"table_prefix" json:"table_prefix"`
	Escape      string `mapstructure:"escape" json:"escape"`
	LogLevel    string `mapstructure:"log_level" json:"log_level"`

	// Database configuration, used when dsn is not set
	Database DatabaseConfig `mapstructure:"database" json:"database"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	Name     string `mapstructure:"name" json:"name"`
	User     string `mapstructure:"user" json:"user"`
	Password string `mapstructure:"password" json:"password"`
	Charset  string `mapstructure:"charset" json:"charset"`
	SSLMode  string `mapstructure:"sslmode" json:"sslmode"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SQLRESOURCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dialect", sqldb.SQLite.Name)
	v.SetDefault("dsn", "")
	v.SetDefault("table_prefix", "")
	v.SetDefault("escape", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.sslmode", "")
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for sqlresource.yaml or
// sqlresource.yml, stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"sqlresource.yaml", "sqlresource.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// SQLDialect returns the configured dialect, with its escaper replaced when
// escape is set.
func (c *Config) SQLDialect() (sqldb.Dialect, error) {
	d, err := sqldb.DialectByName(c.Dialect)
	if err != nil {
		return sqldb.Dialect{}, err
	}
	switch c.Escape {
	case "":
	case query.EscapeNone, query.EscapeBacktick, query.EscapeDouble:
		d.Escaper = query.EscaperByName(c.Escape)
	default:
		return sqldb.Dialect{}, fmt.Errorf("unknown escape %q (want none, backtick or double)", c.Escape)
	}
	return d, nil
}

// Level parses log_level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// DSN returns the database connection string.
// If dsn is set, it's returned directly.
// Otherwise, builds one from the database fields for the configured dialect.
func (c *Config) DSN() (string, error) {
	if c.DataSource != "" {
		return c.DataSource, nil
	}

	d, err := sqldb.DialectByName(c.Dialect)
	if err != nil {
		return "", err
	}
	db := c.Database

	switch d.Name {
	case sqldb.SQLite.Name, sqldb.ModernSQLite.Name:
		if db.Name == "" {
			return "", fmt.Errorf("database.name is required for %s when dsn is not set", d.Name)
		}
		return db.Name, nil

	case sqldb.MySQL.Name:
		if err := requireFields(db); err != nil {
			return "", err
		}
		return wpdb.Config{
			Host:     hostPort(db.Host, db.Port),
			User:     db.User,
			Password: db.Password,
			Name:     db.Name,
			Charset:  db.Charset,
		}.DSN(), nil
	}

	// postgres and pgx
	if err := requireFields(db); err != nil {
		return "", err
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   hostPort(db.Host, db.Port),
		Path:   "/" + db.Name,
	}
	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	} else {
		u.User = url.User(db.User)
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func requireFields(db DatabaseConfig) error {
	if db.Host == "" {
		return fmt.Errorf("database.host is required when dsn is not set")
	}
	if db.Name == "" {
		return fmt.Errorf("database.name is required when dsn is not set")
	}
	if db.User == "" {
		return fmt.Errorf("database.user is required when dsn is not set")
	}
	return nil
}

func hostPort(host string, port int) string {
	if port == 0 {
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
