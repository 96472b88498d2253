package storage

import (
	"fmt"
	"strconv"
	"strings"
)

type dialect struct {
	driver string
	schema []string
	// uptimeQuery returns the store uptime in seconds; empty means the store is embedded
	uptimeQuery          string
	numberedPlaceholders bool
}

var sqliteDialect = dialect{
	driver: DriverSQLite,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS metrics (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			ts              INTEGER NOT NULL,
			uptime          REAL    NOT NULL,
			users_connected INTEGER NOT NULL,
			activity        TEXT    NOT NULL,
			activity_key    TEXT    NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			ts          INTEGER NOT NULL,
			event_type      TEXT    NOT NULL,
			description     TEXT    NOT NULL,
			event_type_key  TEXT    NOT NULL,
			description_key TEXT    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_ts ON metrics(ts);`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_ts ON notifications(ts);`,
	},
}

var postgresDialect = dialect{
	driver: DriverPostgres,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS metrics (
			id              BIGSERIAL PRIMARY KEY,
			ts              BIGINT           NOT NULL,
			uptime          DOUBLE PRECISION NOT NULL,
			users_connected INTEGER          NOT NULL,
			activity        TEXT             NOT NULL,
			activity_key    TEXT             NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id          BIGSERIAL PRIMARY KEY,
			ts          BIGINT NOT NULL,
			event_type      TEXT   NOT NULL,
			description     TEXT   NOT NULL,
			event_type_key  TEXT   NOT NULL,
			description_key TEXT   NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_ts ON metrics(ts);`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_ts ON notifications(ts);`,
	},
	uptimeQuery:          `SELECT CAST(EXTRACT(EPOCH FROM (now() - pg_postmaster_start_time())) AS BIGINT)`,
	numberedPlaceholders: true,
}

// mysql has no CREATE INDEX IF NOT EXISTS, the indexes live in the table definitions
var mysqlDialect = dialect{
	driver: DriverMySQL,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS metrics (
			id              BIGINT      NOT NULL AUTO_INCREMENT PRIMARY KEY,
			ts              BIGINT      NOT NULL,
			uptime          DOUBLE      NOT NULL,
			users_connected INT         NOT NULL,
			activity        VARCHAR(32) NOT NULL,
			activity_key    VARCHAR(32) NOT NULL,
			INDEX idx_metrics_ts (ts)
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id          BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
			ts          BIGINT       NOT NULL,
			event_type      VARCHAR(128) NOT NULL,
			description     TEXT         NOT NULL,
			event_type_key  VARCHAR(128) NOT NULL,
			description_key TEXT         NOT NULL,
			INDEX idx_notifications_ts (ts)
		);`,
	},
	uptimeQuery: `SELECT VARIABLE_VALUE FROM performance_schema.global_status WHERE VARIABLE_NAME = 'Uptime'`,
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite:
		return sqliteDialect, nil
	case DriverPostgres:
		return postgresDialect, nil
	case DriverMySQL:
		return mysqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("%w: driver %q", ErrUnsupportedConnection, driver)
	}
}

// rebind rewrites ? placeholders into $N for the drivers that need it
func (d dialect) rebind(query string) string {
	if !d.numberedPlaceholders {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	idx := 0
	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		idx++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(idx))
	}

	return sb.String()
}
