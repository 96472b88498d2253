package engine

import (
	"context"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
)

// Sampler produces the synthetic records of one day
type Sampler interface {
	// SampleDay returns the metric of the day and the notifications it triggers, none of them later than now
	SampleDay(day time.Time, now time.Time) common.DaySample
	IsInterfaceNil() bool
}

// Writer defines the store operations the generator needs
type Writer interface {
	InsertMetric(ctx context.Context, record common.MetricRecord) error
	InsertNotification(ctx context.Context, record common.NotificationRecord) error
	// Reset deletes every metric and notification
	Reset(ctx context.Context) error
	IsInterfaceNil() bool
}
