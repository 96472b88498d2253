package testsCommon

import (
	"context"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
)

// StoreStub -
type StoreStub struct {
	ListMetricsHandler       func(ctx context.Context, filter common.ListFilter, page common.PageRequest) (*common.MetricsPage, error)
	ListNotificationsHandler func(ctx context.Context, filter common.ListFilter, page common.PageRequest) (*common.NotificationsPage, error)
	SummarizeMetricsHandler  func(ctx context.Context, since time.Time) (*common.MetricsSummary, error)
	StatsHandler             func(ctx context.Context) (*common.StoreStats, error)
	CloseHandler             func() error
}

// ListMetrics -
func (stub *StoreStub) ListMetrics(ctx context.Context, filter common.ListFilter, page common.PageRequest) (*common.MetricsPage, error) {
	if stub.ListMetricsHandler != nil {
		return stub.ListMetricsHandler(ctx, filter, page)
	}

	return &common.MetricsPage{Records: make([]common.MetricRecord, 0)}, nil
}

// ListNotifications -
func (stub *StoreStub) ListNotifications(ctx context.Context, filter common.ListFilter, page common.PageRequest) (*common.NotificationsPage, error) {
	if stub.ListNotificationsHandler != nil {
		return stub.ListNotificationsHandler(ctx, filter, page)
	}

	return &common.NotificationsPage{Records: make([]common.NotificationRecord, 0)}, nil
}

// SummarizeMetrics -
func (stub *StoreStub) SummarizeMetrics(ctx context.Context, since time.Time) (*common.MetricsSummary, error) {
	if stub.SummarizeMetricsHandler != nil {
		return stub.SummarizeMetricsHandler(ctx, since)
	}

	return &common.MetricsSummary{}, nil
}

// Stats -
func (stub *StoreStub) Stats(ctx context.Context) (*common.StoreStats, error) {
	if stub.StatsHandler != nil {
		return stub.StatsHandler(ctx)
	}

	return &common.StoreStats{}, nil
}

// Close -
func (stub *StoreStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *StoreStub) IsInterfaceNil() bool {
	return stub == nil
}
