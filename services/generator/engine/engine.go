package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("engine")

const day = 24 * time.Hour

// ErrInvalidDays signals a non-positive window length
var ErrInvalidDays = errors.New("days must be greater than 0")

// ArgsGeneratorEngine defines the generator engine arguments
type ArgsGeneratorEngine struct {
	Days    int
	Reset   bool
	Sampler Sampler
	Writer  Writer
	// NowHandler is optional and defaults to time.Now
	NowHandler func() time.Time
}

// generatorEngine walks the day window and writes the sampled records one by one
type generatorEngine struct {
	days    int
	reset   bool
	sampler Sampler
	writer  Writer
	now     func() time.Time
}

// NewGeneratorEngine creates a new engine instance
func NewGeneratorEngine(args ArgsGeneratorEngine) (*generatorEngine, error) {
	if args.Days <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidDays, args.Days)
	}
	if check.IfNil(args.Sampler) {
		return nil, errors.New("nil sampler")
	}
	if check.IfNil(args.Writer) {
		return nil, errors.New("nil writer")
	}

	e := &generatorEngine{
		days:    args.Days,
		reset:   args.Reset,
		sampler: args.Sampler,
		writer:  args.Writer,
		now:     args.NowHandler,
	}
	if e.now == nil {
		e.now = time.Now
	}

	return e, nil
}

// Process optionally wipes the store, then writes one sampled day at a time, oldest first.
// Write failures are logged and counted, they do not stop the run.
func (e *generatorEngine) Process(ctx context.Context) (common.GenerationResult, error) {
	result := common.GenerationResult{}

	if e.reset {
		err := e.writer.Reset(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to reset the store: %w", err)
		}
		log.Info("store cleared")
	}

	now := e.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	log.Info("generating data", "days", e.days, "from", today.Add(-time.Duration(e.days)*day).Format(common.DateLayout))

	for i := e.days; i > 0; i-- {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		sample := e.sampler.SampleDay(today.Add(-time.Duration(i)*day), now)
		e.write(ctx, sample, &result)
	}

	log.Info("data generated",
		"metrics", result.MetricsInserted,
		"notifications", result.NotificationsInserted,
		"failures", result.Failures,
	)

	return result, nil
}

func (e *generatorEngine) write(ctx context.Context, sample common.DaySample, result *common.GenerationResult) {
	err := e.writer.InsertMetric(ctx, sample.Metric)
	if err != nil {
		result.Failures++
		log.Warn("failed to insert metric", "timestamp", sample.Metric.Timestamp.Format(common.TimestampLayout), "error", err)
	} else {
		result.MetricsInserted++
	}

	for _, notification := range sample.Notifications {
		err = e.writer.InsertNotification(ctx, notification)
		if err != nil {
			result.Failures++
			log.Warn("failed to insert notification", "timestamp", notification.Timestamp.Format(common.TimestampLayout),
				"event type", notification.EventType, "error", err)
			continue
		}
		result.NotificationsInserted++
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *generatorEngine) IsInterfaceNil() bool {
	return e == nil
}
