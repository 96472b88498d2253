package testsCommon

import (
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
)

// SamplerStub -
type SamplerStub struct {
	SampleDayHandler func(day time.Time, now time.Time) common.DaySample
}

// SampleDay -
func (stub *SamplerStub) SampleDay(day time.Time, now time.Time) common.DaySample {
	if stub.SampleDayHandler != nil {
		return stub.SampleDayHandler(day, now)
	}

	return common.DaySample{
		Metric: common.MetricRecord{
			Timestamp:      day,
			Uptime:         99,
			UsersConnected: 10,
			Activity:       common.ActivityNormal,
		},
	}
}

// IsInterfaceNil -
func (stub *SamplerStub) IsInterfaceNil() bool {
	return stub == nil
}
