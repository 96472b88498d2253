package api

import (
	"context"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
)

// Storage defines the read operations the dashboard needs from the store
type Storage interface {
	// ListMetrics returns one page of filtered metrics, newest first, along with the total matching count
	ListMetrics(ctx context.Context, filter common.ListFilter, page common.PageRequest) (*common.MetricsPage, error)

	// ListNotifications returns one page of filtered notifications, newest first, along with the total matching count
	ListNotifications(ctx context.Context, filter common.ListFilter, page common.PageRequest) (*common.NotificationsPage, error)

	// SummarizeMetrics aggregates the metrics recorded at or after since
	SummarizeMetrics(ctx context.Context, since time.Time) (*common.MetricsSummary, error)

	// Stats pings the store and returns its uptime and the size of both collections
	Stats(ctx context.Context) (*common.StoreStats, error)

	// Close shuts down the database connection
	Close() error

	IsInterfaceNil() bool
}
