package common

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricRecord_Validate(t *testing.T) {
	t.Parallel()

	valid := MetricRecord{
		Timestamp:      time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Uptime:         99.5,
		UsersConnected: 12,
		Activity:       ActivityNormal,
	}

	t.Run("valid record should work", func(t *testing.T) {
		assert.Nil(t, valid.Validate())
	})
	t.Run("zero timestamp should error", func(t *testing.T) {
		m := valid
		m.Timestamp = time.Time{}
		assert.ErrorIs(t, m.Validate(), ErrInvalidRecord)
	})
	t.Run("uptime out of range should error", func(t *testing.T) {
		m := valid
		m.Uptime = 100.01
		assert.ErrorIs(t, m.Validate(), ErrInvalidRecord)

		m.Uptime = -1
		assert.ErrorIs(t, m.Validate(), ErrInvalidRecord)
	})
	t.Run("negative users should error", func(t *testing.T) {
		m := valid
		m.UsersConnected = -3
		assert.ErrorIs(t, m.Validate(), ErrInvalidRecord)
	})
	t.Run("unknown activity should error", func(t *testing.T) {
		m := valid
		m.Activity = "Weird"
		err := m.Validate()
		assert.ErrorIs(t, err, ErrInvalidRecord)
		assert.Contains(t, err.Error(), "Weird")
	})
}

func TestNotificationRecord_Validate(t *testing.T) {
	t.Parallel()

	n := NotificationRecord{
		Timestamp:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		EventType:   "Service Restart",
		Description: "",
	}
	assert.Nil(t, n.Validate())

	n.EventType = "   "
	assert.ErrorIs(t, n.Validate(), ErrInvalidRecord)

	n.EventType = "Service Restart"
	n.Timestamp = time.Time{}
	assert.ErrorIs(t, n.Validate(), ErrInvalidRecord)
}

func TestPageRequest_Offset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, PageRequest{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 20, PageRequest{Page: 3, PerPage: 10}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 0, PerPage: 10}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 4, PerPage: 0}.Offset())

	huge := PageRequest{Page: math.MaxInt, PerPage: 10}.Offset()
	assert.Equal(t, math.MaxInt-10, huge)
	assert.Equal(t, math.MaxInt-1000, PageRequest{Page: math.MaxInt / 999, PerPage: 1000}.Offset())
	assert.Equal(t, (math.MaxInt/1000-1)*1000, PageRequest{Page: math.MaxInt / 1000, PerPage: 1000}.Offset())
}
