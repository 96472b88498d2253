package factory

import (
	"context"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
)

// Engine defines the operation of an entity able to generate and persist a window of data
type Engine interface {
	Process(ctx context.Context) (common.GenerationResult, error)
	IsInterfaceNil() bool
}

// Store is the writer side of the store, closed once the run completes
type Store interface {
	InsertMetric(ctx context.Context, record common.MetricRecord) error
	InsertNotification(ctx context.Context, record common.NotificationRecord) error
	Reset(ctx context.Context) error
	Close() error
	IsInterfaceNil() bool
}
