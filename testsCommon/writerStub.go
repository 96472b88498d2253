package testsCommon

import (
	"context"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
)

// WriterStub -
type WriterStub struct {
	InsertMetricHandler       func(ctx context.Context, record common.MetricRecord) error
	InsertNotificationHandler func(ctx context.Context, record common.NotificationRecord) error
	ResetHandler              func(ctx context.Context) error
}

// InsertMetric -
func (stub *WriterStub) InsertMetric(ctx context.Context, record common.MetricRecord) error {
	if stub.InsertMetricHandler != nil {
		return stub.InsertMetricHandler(ctx, record)
	}

	return nil
}

// InsertNotification -
func (stub *WriterStub) InsertNotification(ctx context.Context, record common.NotificationRecord) error {
	if stub.InsertNotificationHandler != nil {
		return stub.InsertNotificationHandler(ctx, record)
	}

	return nil
}

// Reset -
func (stub *WriterStub) Reset(ctx context.Context) error {
	if stub.ResetHandler != nil {
		return stub.ResetHandler(ctx)
	}

	return nil
}

// IsInterfaceNil -
func (stub *WriterStub) IsInterfaceNil() bool {
	return stub == nil
}
