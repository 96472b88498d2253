package storage

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStorage(t *testing.T) *sqlStorage {
	t.Helper()

	s, err := NewSQLStorage(Target{Driver: DriverSQLite, DSN: memoryPath})
	require.NoError(t, err)
	require.False(t, s.IsInterfaceNil())
	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func dayAt(day int, hour int, minute int, second int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, second, 0, time.UTC)
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

func TestNewSQLStorage_FileBacked(t *testing.T) {
	target, err := ParseTarget("sqlite://"+filepath.Join(t.TempDir(), "nested"), "monitoring_app")
	require.NoError(t, err)

	s, err := NewSQLStorage(target)
	require.NoError(t, err)

	err = s.InsertMetric(context.Background(), common.MetricRecord{Timestamp: dayAt(1, 1, 0, 0), Uptime: 99, UsersConnected: 1, Activity: common.ActivityNormal})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// reopening must keep the data and not fail on the existing schema
	s, err = NewSQLStorage(target)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.MetricsCount)
}

func TestNewSQLStorage_UnknownDriver(t *testing.T) {
	s, err := NewSQLStorage(Target{Driver: "mongodb", DSN: "x"})
	require.ErrorIs(t, err, ErrUnsupportedConnection)
	require.True(t, s.IsInterfaceNil())
}

func TestSQLStorage_InsertValidates(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	err := s.InsertMetric(ctx, common.MetricRecord{Timestamp: dayAt(1, 0, 0, 0), Uptime: 120, Activity: common.ActivityNormal})
	require.ErrorIs(t, err, common.ErrInvalidRecord)

	err = s.InsertNotification(ctx, common.NotificationRecord{Timestamp: dayAt(1, 0, 0, 0)})
	require.ErrorIs(t, err, common.ErrInvalidRecord)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.MetricsCount)
	require.Equal(t, 0, stats.NotificationsCount)
}

func TestSQLStorage_ListMetricsPagination(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	for day := 1; day <= 25; day++ {
		err := s.InsertMetric(ctx, common.MetricRecord{
			Timestamp:      dayAt(day, 12, 0, 0),
			Uptime:         90 + float64(day)/10,
			UsersConnected: day,
			Activity:       common.ActivityNormal,
		})
		require.NoError(t, err)
	}

	page, err := s.ListMetrics(ctx, common.ListFilter{}, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 25, page.Total)
	require.Len(t, page.Records, 10)
	// newest first
	require.Equal(t, dayAt(25, 12, 0, 0), page.Records[0].Timestamp)
	require.Equal(t, 25, page.Records[0].UsersConnected)

	page, err = s.ListMetrics(ctx, common.ListFilter{}, common.PageRequest{Page: 3, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Records, 5)
	require.Equal(t, dayAt(1, 12, 0, 0), page.Records[4].Timestamp)

	page, err = s.ListMetrics(ctx, common.ListFilter{}, common.PageRequest{Page: 4, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 25, page.Total)
	require.Empty(t, page.Records)

	// no paging returns everything
	page, err = s.ListMetrics(ctx, common.ListFilter{}, common.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Records, 25)
}

func TestSQLStorage_DateRangeIsInclusive(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	timestamps := []time.Time{
		dayAt(9, 23, 59, 59),
		dayAt(10, 0, 0, 0),
		dayAt(11, 23, 59, 59),
		dayAt(12, 0, 0, 0),
	}
	for _, ts := range timestamps {
		err := s.InsertMetric(ctx, common.MetricRecord{Timestamp: ts, Uptime: 99, UsersConnected: 3, Activity: common.ActivityNormal})
		require.NoError(t, err)
	}

	filter := common.ListFilter{
		Range: common.TimeRange{
			From: ptrTime(dayAt(10, 0, 0, 0)),
			To:   ptrTime(dayAt(11, 23, 59, 59)),
		},
	}
	page, err := s.ListMetrics(ctx, filter, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	require.Equal(t, dayAt(11, 23, 59, 59), page.Records[0].Timestamp)
	require.Equal(t, dayAt(10, 0, 0, 0), page.Records[1].Timestamp)

	// open start
	filter.Range.From = nil
	page, err = s.ListMetrics(ctx, filter, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
}

func TestSQLStorage_MetricsKeyword(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	activities := []common.Activity{common.ActivityNormal, common.ActivitySuspicious, common.ActivityNormal}
	for i, activity := range activities {
		err := s.InsertMetric(ctx, common.MetricRecord{Timestamp: dayAt(i+1, 8, 0, 0), Uptime: 95, UsersConnected: 10, Activity: activity})
		require.NoError(t, err)
	}

	page, err := s.ListMetrics(ctx, common.ListFilter{Keyword: "SUSP"}, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, common.ActivitySuspicious, page.Records[0].Activity)

	page, err = s.ListMetrics(ctx, common.ListFilter{Keyword: "orm"}, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
}

func TestSQLStorage_NotificationsKeyword(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	records := []common.NotificationRecord{
		{Timestamp: dayAt(1, 1, 0, 0), EventType: "Unauthorized Access Attempt", Description: "Login from 10.0.0.1"},
		{Timestamp: dayAt(2, 1, 0, 0), EventType: "Service Restart", Description: "nginx was restarted after an unauthorized change"},
		{Timestamp: dayAt(3, 1, 0, 0), EventType: "Backup Completed", Description: "Backup of 12 GB finished"},
		{Timestamp: dayAt(4, 1, 0, 0), EventType: "Disk Usage", Description: "Volume at 100% capacity"},
	}
	for _, record := range records {
		require.NoError(t, s.InsertNotification(ctx, record))
	}

	// matches the event type of the first and the description of the second
	page, err := s.ListNotifications(ctx, common.ListFilter{Keyword: "UNAUTHORIZED"}, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	require.Equal(t, "Service Restart", page.Records[0].EventType)
	require.Equal(t, "Unauthorized Access Attempt", page.Records[1].EventType)

	// wildcard characters are matched literally
	page, err = s.ListNotifications(ctx, common.ListFilter{Keyword: "100%"}, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Disk Usage", page.Records[0].EventType)

	page, err = s.ListNotifications(ctx, common.ListFilter{Keyword: "_"}, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 0, page.Total)

	// keyword combined with a date range
	filter := common.ListFilter{
		Keyword: "backup",
		Range:   common.TimeRange{From: ptrTime(dayAt(3, 0, 0, 0))},
	}
	page, err = s.ListNotifications(ctx, filter, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
}

func TestSQLStorage_KeywordFoldsNonASCII(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	records := []common.NotificationRecord{
		{Timestamp: dayAt(1, 1, 0, 0), EventType: "ÉVÉNEMENT Sécurité", Description: "Connexion refusée"},
		{Timestamp: dayAt(2, 1, 0, 0), EventType: "ACCÈS Refusé", Description: "Zugriff für Ölmühle"},
		{Timestamp: dayAt(3, 1, 0, 0), EventType: "Service Restart", Description: "plain ascii"},
	}
	for _, record := range records {
		require.NoError(t, s.InsertNotification(ctx, record))
	}

	tests := map[string]int{
		"ÉVÉNEMENT":  1,
		"événement":  1,
		"sécURITÉ":   1,
		"accès":      1,
		"ACCÈS":      1,
		"ÖLMÜHLE":    1,
		"REFUSÉ":     2,
		"restart":    1,
		"évènements": 0,
	}
	for keyword, expected := range tests {
		page, err := s.ListNotifications(ctx, common.ListFilter{Keyword: keyword}, common.PageRequest{Page: 1, PerPage: 10})
		require.NoError(t, err)
		assert.Equal(t, expected, page.Total, keyword)
	}
}

func TestSQLStorage_KeywordKeepsSpaces(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	records := []common.NotificationRecord{
		{Timestamp: dayAt(1, 1, 0, 0), EventType: "Service Restart", Description: "scheduled"},
		{Timestamp: dayAt(2, 1, 0, 0), EventType: "Restarted", Description: "api"},
	}
	for _, record := range records {
		require.NoError(t, s.InsertNotification(ctx, record))
	}

	page, err := s.ListNotifications(ctx, common.ListFilter{Keyword: " restart"}, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Service Restart", page.Records[0].EventType)

	page, err = s.ListNotifications(ctx, common.ListFilter{Keyword: "restart"}, common.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
}

func TestSQLStorage_HugePageIsEmpty(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	for day := 1; day <= 3; day++ {
		err := s.InsertMetric(ctx, common.MetricRecord{Timestamp: dayAt(day, 1, 0, 0), Uptime: 99, UsersConnected: 1, Activity: common.ActivityNormal})
		require.NoError(t, err)
	}

	page, err := s.ListMetrics(ctx, common.ListFilter{}, common.PageRequest{Page: math.MaxInt, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Empty(t, page.Records)
}

func TestSQLStorage_SummarizeMetrics(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	summary, err := s.SummarizeMetrics(ctx, dayAt(1, 0, 0, 0))
	require.NoError(t, err)
	require.Equal(t, common.MetricsSummary{}, *summary)

	records := []common.MetricRecord{
		{Timestamp: dayAt(1, 10, 0, 0), Uptime: 80, UsersConnected: 100, Activity: common.ActivitySuspicious},
		{Timestamp: dayAt(5, 10, 0, 0), Uptime: 99, UsersConnected: 10, Activity: common.ActivityNormal},
		{Timestamp: dayAt(6, 10, 0, 0), Uptime: 91, UsersConnected: 30, Activity: common.ActivitySuspicious},
	}
	for _, record := range records {
		require.NoError(t, s.InsertMetric(ctx, record))
	}

	summary, err = s.SummarizeMetrics(ctx, dayAt(5, 0, 0, 0))
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalRecords)
	require.InDelta(t, 95.0, summary.AvgUptime, 0.0001)
	require.Equal(t, 1, summary.SuspiciousActivities)
	require.Equal(t, 30, summary.MaxConcurrentUsers)
	require.InDelta(t, 20.0, summary.AvgUsers, 0.0001)
}

func TestSQLStorage_ResetAndStats(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	require.NoError(t, s.InsertMetric(ctx, common.MetricRecord{Timestamp: dayAt(1, 0, 0, 0), Uptime: 99, UsersConnected: 1, Activity: common.ActivityNormal}))
	require.NoError(t, s.InsertNotification(ctx, common.NotificationRecord{Timestamp: dayAt(1, 0, 0, 0), EventType: "Service Restart"}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.MetricsCount)
	require.Equal(t, 1, stats.NotificationsCount)
	require.GreaterOrEqual(t, stats.UptimeSeconds, int64(0))

	require.NoError(t, s.Reset(ctx))

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.MetricsCount)
	require.Equal(t, 0, stats.NotificationsCount)
}

func TestSQLStorage_StatsOnClosedStore(t *testing.T) {
	s, err := NewSQLStorage(Target{Driver: DriverSQLite, DSN: memoryPath})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Stats(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}
