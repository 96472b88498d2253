package common

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// TimestampLayout is the layout used when timestamps leave the service
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the layout accepted for date range filters
const DateLayout = "2006-01-02"

// Activity labels a metric sample
type Activity string

const (
	// ActivityNormal marks a regular sample
	ActivityNormal Activity = "Normal"
	// ActivitySuspicious marks an anomalous sample
	ActivitySuspicious Activity = "Suspicious"
)

// IsValid returns true if the activity is one of the known labels
func (a Activity) IsValid() bool {
	return a == ActivityNormal || a == ActivitySuspicious
}

// ErrInvalidRecord signals a record that can not be persisted
var ErrInvalidRecord = errors.New("invalid record")

// MetricRecord is one sampled observation of system uptime and usage
type MetricRecord struct {
	Timestamp      time.Time
	Uptime         float64
	UsersConnected int
	Activity       Activity
}

// Validate checks the record before it reaches the store
func (m MetricRecord) Validate() error {
	if m.Timestamp.IsZero() {
		return fmt.Errorf("%w: metric without timestamp", ErrInvalidRecord)
	}
	if m.Uptime < 0 || m.Uptime > 100 {
		return fmt.Errorf("%w: uptime %.2f out of range", ErrInvalidRecord, m.Uptime)
	}
	if m.UsersConnected < 0 {
		return fmt.Errorf("%w: negative users connected %d", ErrInvalidRecord, m.UsersConnected)
	}
	if !m.Activity.IsValid() {
		return fmt.Errorf("%w: unknown activity %q", ErrInvalidRecord, m.Activity)
	}

	return nil
}

// NotificationRecord is one logged security or operational event
type NotificationRecord struct {
	Timestamp   time.Time
	EventType   string
	Description string
}

// Validate checks the record before it reaches the store
func (n NotificationRecord) Validate() error {
	if n.Timestamp.IsZero() {
		return fmt.Errorf("%w: notification without timestamp", ErrInvalidRecord)
	}
	if len(strings.TrimSpace(n.EventType)) == 0 {
		return fmt.Errorf("%w: notification without event type", ErrInvalidRecord)
	}

	return nil
}

// TimeRange bounds a query on the record timestamp. Nil ends are open.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// ListFilter narrows a listing query
type ListFilter struct {
	Range   TimeRange
	Keyword string
}

// PageRequest selects one page of a listing. PerPage 0 means no paging.
type PageRequest struct {
	Page    int
	PerPage int
}

// Offset returns the number of rows to skip. Pages too far to be addressed saturate to an offset
// past any real table.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.PerPage < 1 {
		return 0
	}
	if p.Page-1 > (math.MaxInt-p.PerPage)/p.PerPage {
		return math.MaxInt - p.PerPage
	}

	return (p.Page - 1) * p.PerPage
}

// MetricsPage holds one page of metrics and the total matching count
type MetricsPage struct {
	Records []MetricRecord
	Total   int
}

// NotificationsPage holds one page of notifications and the total matching count
type NotificationsPage struct {
	Records []NotificationRecord
	Total   int
}

// MetricsSummary aggregates the metrics of a trailing window
type MetricsSummary struct {
	TotalRecords         int
	AvgUptime            float64
	SuspiciousActivities int
	MaxConcurrentUsers   int
	AvgUsers             float64
}

// StoreStats is what the store reports about itself on a health probe
type StoreStats struct {
	UptimeSeconds      int64
	MetricsCount       int
	NotificationsCount int
}

// DaySample is the synthetic data produced for one day of the generated window
type DaySample struct {
	Metric        MetricRecord
	Notifications []NotificationRecord
}

// GenerationResult counts what a generator run wrote
type GenerationResult struct {
	MetricsInserted       int
	NotificationsInserted int
	Failures              int
}
