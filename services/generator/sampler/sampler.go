package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
	"github.com/SalvatoreBevilacqua/monitoring-app/services/generator/templates"
)

const (
	problemDayProbability         = 0.05
	residualSuspiciousProbability = 0.05
	incidentalProbability         = 0.1
	suspiciousUptimeThreshold     = 92.0

	problemUptimeMin = 85.0
	problemUptimeMax = 95.0
	normalUptimeMin  = 97.0
	normalUptimeMax  = 100.0

	minBaseUsers       = 20
	maxBaseUsers       = 50
	busyHoursStart     = 8
	busyHoursEnd       = 19
	quietHoursEnd      = 5
	busyMultiplier     = 1.5
	quietMultiplier    = 0.3
	weekendMultiplier  = 0.6
	minIncidentalDelay = time.Hour
	maxIncidentalDelay = 12 * time.Hour
)

var (
	usernames = []string{"admin", "root", "jdoe", "msmith", "operator", "backup", "guest", "svc-deploy"}
	locations = []string{"Milan", "Frankfurt", "Singapore", "Sao Paulo", "Toronto", "Lagos", "Sydney", "unknown location"}
	services  = []string{"api", "auth", "database", "scheduler", "web", "cache", "mail"}
)

// ArgsSampler defines the sampler arguments
type ArgsSampler struct {
	// Seed makes the generated data reproducible, 0 selects a time based seed
	Seed    uint64
	Catalog *templates.Catalog
}

type sampler struct {
	rnd     *rand.Rand
	catalog *templates.Catalog
}

// NewSampler creates a sampler drawing from a seeded random source
func NewSampler(args ArgsSampler) (*sampler, error) {
	if args.Catalog == nil {
		return nil, errors.New("nil event catalog")
	}
	err := args.Catalog.Validate()
	if err != nil {
		return nil, err
	}

	seed := args.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &sampler{
		rnd:     rand.New(rand.NewPCG(seed, seed>>1)),
		catalog: args.Catalog,
	}, nil
}

// SampleDay produces the metric of the provided day and the notifications it triggers.
// No timestamp is placed after now.
func (s *sampler) SampleDay(day time.Time, now time.Time) common.DaySample {
	day = day.UTC()
	timestamp := time.Date(day.Year(), day.Month(), day.Day(), s.rnd.IntN(24), s.rnd.IntN(60), s.rnd.IntN(60), 0, time.UTC)
	timestamp = clamp(timestamp, now)

	uptime := s.uptime()
	activity := common.ActivityNormal
	if uptime < suspiciousUptimeThreshold || s.rnd.Float64() < residualSuspiciousProbability {
		activity = common.ActivitySuspicious
	}

	sample := common.DaySample{
		Metric: common.MetricRecord{
			Timestamp:      timestamp,
			Uptime:         uptime,
			UsersConnected: s.users(timestamp),
			Activity:       activity,
		},
		Notifications: make([]common.NotificationRecord, 0, 2),
	}

	if activity == common.ActivitySuspicious {
		sample.Notifications = append(sample.Notifications, s.notification(s.catalog.Security, timestamp))
	}
	if s.rnd.Float64() < incidentalProbability {
		delay := minIncidentalDelay + time.Duration(s.rnd.Int64N(int64(maxIncidentalDelay-minIncidentalDelay)))
		at := clamp(timestamp.Add(delay.Truncate(time.Second)), now)
		sample.Notifications = append(sample.Notifications, s.notification(s.catalog.Operational, at))
	}

	return sample
}

func (s *sampler) uptime() float64 {
	if s.rnd.Float64() < problemDayProbability {
		return round2(s.uniform(problemUptimeMin, problemUptimeMax))
	}

	return round2(s.uniform(normalUptimeMin, normalUptimeMax))
}

func (s *sampler) users(timestamp time.Time) int {
	base := float64(minBaseUsers + s.rnd.IntN(maxBaseUsers-minBaseUsers+1))

	users := base * hourMultiplier(timestamp.Hour())
	if isWeekend(timestamp) {
		users *= weekendMultiplier
	}

	return max(0, int(math.Round(users)))
}

func (s *sampler) notification(events []templates.EventTemplate, timestamp time.Time) common.NotificationRecord {
	event := events[s.rnd.IntN(len(events))]
	description := event.Descriptions[s.rnd.IntN(len(event.Descriptions))]

	return common.NotificationRecord{
		Timestamp:   timestamp,
		EventType:   event.EventType,
		Description: templates.Render(description, s.placeholderValues()),
	}
}

func (s *sampler) placeholderValues() map[string]string {
	return map[string]string{
		templates.PlaceholderIP:       fmt.Sprintf("%d.%d.%d.%d", 1+s.rnd.IntN(223), s.rnd.IntN(256), s.rnd.IntN(256), 1+s.rnd.IntN(254)),
		templates.PlaceholderUsername: usernames[s.rnd.IntN(len(usernames))],
		templates.PlaceholderLocation: locations[s.rnd.IntN(len(locations))],
		templates.PlaceholderService:  services[s.rnd.IntN(len(services))],
		templates.PlaceholderDuration: fmt.Sprintf("%d minutes", 1+s.rnd.IntN(120)),
		templates.PlaceholderSize:     fmt.Sprintf("%d MB", 10+s.rnd.IntN(20000)),
	}
}

// uniform draws from [low, high]
func (s *sampler) uniform(low float64, high float64) float64 {
	return low + s.rnd.Float64()*(high-low)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sampler) IsInterfaceNil() bool {
	return s == nil
}

func hourMultiplier(hour int) float64 {
	switch {
	case hour >= busyHoursStart && hour <= busyHoursEnd:
		return busyMultiplier
	case hour <= quietHoursEnd:
		return quietMultiplier
	default:
		return 1.0
	}
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

func clamp(t time.Time, now time.Time) time.Time {
	if t.After(now) {
		return now.UTC().Truncate(time.Second)
	}

	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
