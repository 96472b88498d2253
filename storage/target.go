package storage

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const (
	// DriverSQLite is the database/sql driver name for sqlite
	DriverSQLite = "sqlite3"
	// DriverPostgres is the database/sql driver name registered by pgx
	DriverPostgres = "pgx"
	// DriverMySQL is the database/sql driver name for mysql
	DriverMySQL = "mysql"

	// DefaultConnection is used when no connection string is configured
	DefaultConnection = "sqlite://./data"
	// DefaultDatabaseName is used when no database name is configured
	DefaultDatabaseName = "monitoring_app"

	memoryPath       = ":memory:"
	sqliteExtension  = ".db"
	sqliteDSNOptions = "?_journal_mode=WAL&_busy_timeout=5000"
	mysqlDefaultPort = "3306"
)

// ErrUnsupportedConnection signals a connection string with an unknown scheme
var ErrUnsupportedConnection = errors.New("unsupported connection string")

// Target identifies the store a component connects to
type Target struct {
	Driver string
	DSN    string
	// Path is the sqlite database file, empty for network stores and in-memory databases
	Path string
}

// ParseTarget resolves a connection string and a database name into a store target.
// Supported forms: sqlite://<dir or file.db>, sqlite://:memory:, postgres://..., postgresql://..., mysql://...
func ParseTarget(connection string, database string) (Target, error) {
	connection = strings.TrimSpace(connection)
	if len(connection) == 0 {
		connection = DefaultConnection
	}
	database = strings.TrimSpace(database)
	if len(database) == 0 {
		database = DefaultDatabaseName
	}

	scheme, _, found := strings.Cut(connection, "://")
	if !found {
		return Target{}, fmt.Errorf("%w: missing scheme in %q", ErrUnsupportedConnection, connection)
	}

	switch strings.ToLower(scheme) {
	case "sqlite", "sqlite3":
		return parseSQLiteTarget(connection[len(scheme)+3:], database), nil
	case "postgres", "postgresql":
		return parsePostgresTarget(connection, database)
	case "mysql":
		return parseMySQLTarget(connection, database)
	default:
		return Target{}, fmt.Errorf("%w: scheme %q", ErrUnsupportedConnection, scheme)
	}
}

func parseSQLiteTarget(location string, database string) Target {
	if location == memoryPath {
		return Target{
			Driver: DriverSQLite,
			DSN:    memoryPath,
		}
	}

	path := location
	if !strings.HasSuffix(strings.ToLower(location), sqliteExtension) {
		path = filepath.Join(location, database+sqliteExtension)
	}

	return Target{
		Driver: DriverSQLite,
		DSN:    path + sqliteDSNOptions,
		Path:   path,
	}
}

func parsePostgresTarget(connection string, database string) (Target, error) {
	u, err := url.Parse(connection)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrUnsupportedConnection, err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/" + database
	}

	return Target{
		Driver: DriverPostgres,
		DSN:    u.String(),
	}, nil
}

func parseMySQLTarget(connection string, database string) (Target, error) {
	u, err := url.Parse(connection)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrUnsupportedConnection, err)
	}
	if len(u.Host) == 0 {
		return Target{}, fmt.Errorf("%w: mysql connection without host", ErrUnsupportedConnection)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if len(u.Port()) == 0 {
		cfg.Addr = net.JoinHostPort(u.Hostname(), mysqlDefaultPort)
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if len(cfg.DBName) == 0 {
		cfg.DBName = database
	}
	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		cfg.Params[key] = values[0]
	}

	return Target{
		Driver: DriverMySQL,
		DSN:    cfg.FormatDSN(),
	}, nil
}
