package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("storage")

const (
	pingTimeout = 5 * time.Second
	likeEscape  = "!"
)

// ErrUnavailable signals a store that can not be reached
var ErrUnavailable = errors.New("store unavailable")

// sqlStorage keeps the metrics and notifications collections in a database/sql backed store
type sqlStorage struct {
	db       *sql.DB
	dialect  dialect
	openedAt time.Time
}

// NewSQLStorage opens the target store, checks it is reachable and creates the schema
func NewSQLStorage(target Target) (*sqlStorage, error) {
	d, err := dialectFor(target.Driver)
	if err != nil {
		return nil, err
	}

	if len(target.Path) > 0 {
		err = prepareDirectories(target.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create the database directory: %w", err)
		}
	}

	db, err := sql.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if target.DSN == memoryPath {
		// every new connection would see a fresh empty in-memory database
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	err = createSchema(ctx, db, d)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug("store opened", "driver", target.Driver, "path", target.Path)

	return &sqlStorage{
		db:       db,
		dialect:  d,
		openedAt: time.Now(),
	}, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(ctx context.Context, db *sql.DB, d dialect) error {
	for _, stmt := range d.schema {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// InsertMetric validates and appends a metric record
func (s *sqlStorage) InsertMetric(ctx context.Context, record common.MetricRecord) error {
	err := record.Validate()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO metrics (ts, uptime, users_connected, activity, activity_key)
		VALUES (?, ?, ?, ?, ?)
	`), record.Timestamp.Unix(), record.Uptime, record.UsersConnected, string(record.Activity), searchKey(string(record.Activity)))
	if err != nil {
		return fmt.Errorf("failed to insert metric: %w", err)
	}

	return nil
}

// InsertNotification validates and appends a notification record
func (s *sqlStorage) InsertNotification(ctx context.Context, record common.NotificationRecord) error {
	err := record.Validate()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO notifications (ts, event_type, description, event_type_key, description_key)
		VALUES (?, ?, ?, ?, ?)
	`), record.Timestamp.Unix(), record.EventType, record.Description, searchKey(record.EventType), searchKey(record.Description))
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// Reset wipes both collections
func (s *sqlStorage) Reset(ctx context.Context) error {
	for _, table := range []string{"metrics", "notifications"} {
		_, err := s.db.ExecContext(ctx, "DELETE FROM "+table)
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	return nil
}

// ListMetrics returns the requested page of metrics, newest first, and the total matching count.
// The keyword is matched against the activity label.
func (s *sqlStorage) ListMetrics(ctx context.Context, filter common.ListFilter, page common.PageRequest) (*common.MetricsPage, error) {
	where, args := buildFilters(filter, "activity_key")

	total, err := s.count(ctx, "metrics", where, args)
	if err != nil {
		return nil, err
	}

	query, args := paginate("SELECT ts, uptime, users_connected, activity FROM metrics"+where+" ORDER BY ts DESC, id DESC", args, page)
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("metrics query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := &common.MetricsPage{
		Records: make([]common.MetricRecord, 0),
		Total:   total,
	}
	for rows.Next() {
		var ts int64
		var activity string
		var m common.MetricRecord

		err = rows.Scan(&ts, &m.Uptime, &m.UsersConnected, &activity)
		if err != nil {
			return nil, err
		}

		m.Timestamp = time.Unix(ts, 0).UTC()
		m.Activity = common.Activity(activity)
		result.Records = append(result.Records, m)
	}

	return result, rows.Err()
}

// ListNotifications returns the requested page of notifications, newest first, and the total matching count.
// The keyword is matched against the event type or the description.
func (s *sqlStorage) ListNotifications(ctx context.Context, filter common.ListFilter, page common.PageRequest) (*common.NotificationsPage, error) {
	where, args := buildFilters(filter, "event_type_key", "description_key")

	total, err := s.count(ctx, "notifications", where, args)
	if err != nil {
		return nil, err
	}

	query, args := paginate("SELECT ts, event_type, description FROM notifications"+where+" ORDER BY ts DESC, id DESC", args, page)
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("notifications query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := &common.NotificationsPage{
		Records: make([]common.NotificationRecord, 0),
		Total:   total,
	}
	for rows.Next() {
		var ts int64
		var n common.NotificationRecord

		err = rows.Scan(&ts, &n.EventType, &n.Description)
		if err != nil {
			return nil, err
		}

		n.Timestamp = time.Unix(ts, 0).UTC()
		result.Records = append(result.Records, n)
	}

	return result, rows.Err()
}

// SummarizeMetrics aggregates the metrics recorded at or after since
func (s *sqlStorage) SummarizeMetrics(ctx context.Context, since time.Time) (*common.MetricsSummary, error) {
	var total, suspicious, maxUsers, sumUsers int64
	var sumUptime float64

	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT COUNT(*),
			COALESCE(SUM(uptime), 0),
			COALESCE(SUM(CASE WHEN activity = ? THEN 1 ELSE 0 END), 0),
			COALESCE(MAX(users_connected), 0),
			COALESCE(SUM(users_connected), 0)
		FROM metrics
		WHERE ts >= ?
	`), string(common.ActivitySuspicious), since.Unix()).Scan(&total, &sumUptime, &suspicious, &maxUsers, &sumUsers)
	if err != nil {
		return nil, fmt.Errorf("summary query failed: %w", err)
	}

	summary := &common.MetricsSummary{
		TotalRecords:         int(total),
		SuspiciousActivities: int(suspicious),
		MaxConcurrentUsers:   int(maxUsers),
	}
	if total > 0 {
		summary.AvgUptime = sumUptime / float64(total)
		summary.AvgUsers = float64(sumUsers) / float64(total)
	}

	return summary, nil
}

// Stats pings the store and reports its uptime and the size of both collections
func (s *sqlStorage) Stats(ctx context.Context) (*common.StoreStats, error) {
	err := s.db.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	stats := &common.StoreStats{}
	stats.UptimeSeconds, err = s.uptime(ctx)
	if err != nil {
		return nil, err
	}
	stats.MetricsCount, err = s.count(ctx, "metrics", "", nil)
	if err != nil {
		return nil, err
	}
	stats.NotificationsCount, err = s.count(ctx, "notifications", "", nil)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *sqlStorage) uptime(ctx context.Context) (int64, error) {
	if len(s.dialect.uptimeQuery) == 0 {
		return int64(time.Since(s.openedAt).Seconds()), nil
	}

	var seconds int64
	err := s.db.QueryRowContext(ctx, s.dialect.uptimeQuery).Scan(&seconds)
	if err != nil {
		return 0, fmt.Errorf("uptime query failed: %w", err)
	}

	return seconds, nil
}

func (s *sqlStorage) count(ctx context.Context, table string, where string, args []any) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, s.dialect.rebind("SELECT COUNT(*) FROM "+table+where), args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count on %s failed: %w", table, err)
	}

	return total, nil
}

// buildFilters returns the WHERE clause (with a leading space, empty if no filter applies) and its arguments.
// The keyword is folded with searchKey and matched as a literal substring of any of the provided key columns.
func buildFilters(filter common.ListFilter, keywordColumns ...string) (string, []any) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 2+len(keywordColumns))

	if filter.Range.From != nil {
		clauses = append(clauses, "ts >= ?")
		args = append(args, filter.Range.From.Unix())
	}
	if filter.Range.To != nil {
		clauses = append(clauses, "ts <= ?")
		args = append(args, filter.Range.To.Unix())
	}

	if len(filter.Keyword) > 0 && len(keywordColumns) > 0 {
		pattern := "%" + escapeLike(searchKey(filter.Keyword)) + "%"
		likes := make([]string, 0, len(keywordColumns))
		for _, column := range keywordColumns {
			likes = append(likes, column+" LIKE ? ESCAPE '"+likeEscape+"'")
			args = append(args, pattern)
		}
		clauses = append(clauses, "("+strings.Join(likes, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// searchKey folds text for keyword matching. Both the stored *_key columns and the keyword go through it.
func searchKey(value string) string {
	return strings.ToLower(value)
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)

	return replacer.Replace(value)
}

func paginate(query string, args []any, page common.PageRequest) (string, []any) {
	if page.PerPage < 1 {
		return query, args
	}

	return query + " LIMIT ? OFFSET ?", append(args, page.PerPage, page.Offset())
}

// Close closes the database
func (s *sqlStorage) Close() error {
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqlStorage) IsInterfaceNil() bool {
	return s == nil
}
