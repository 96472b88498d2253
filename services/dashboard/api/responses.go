package api

import (
	"math"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
)

type metricResponse struct {
	Timestamp      string  `json:"timestamp"`
	Uptime         float64 `json:"uptime"`
	UsersConnected int     `json:"users_connected"`
	Activity       string  `json:"activity"`
}

type notificationResponse struct {
	Timestamp   string `json:"timestamp"`
	EventType   string `json:"event_type"`
	Description string `json:"description"`
}

type paginationResponse struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

type metricsListResponse struct {
	Data       []metricResponse   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type notificationsListResponse struct {
	Data       []notificationResponse `json:"data"`
	Pagination paginationResponse     `json:"pagination"`
}

type summaryResponse struct {
	Days                 int     `json:"days"`
	TotalRecords         int     `json:"total_records"`
	AvgUptime            float64 `json:"avg_uptime"`
	SuspiciousActivities int     `json:"suspicious_activities"`
	MaxConcurrentUsers   int     `json:"max_concurrent_users"`
	AvgUsers             float64 `json:"avg_users"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(common.TimestampLayout)
}

func newMetricResponses(records []common.MetricRecord) []metricResponse {
	out := make([]metricResponse, 0, len(records))
	for _, r := range records {
		out = append(out, metricResponse{
			Timestamp:      formatTimestamp(r.Timestamp),
			Uptime:         r.Uptime,
			UsersConnected: r.UsersConnected,
			Activity:       string(r.Activity),
		})
	}

	return out
}

func newNotificationResponses(records []common.NotificationRecord) []notificationResponse {
	out := make([]notificationResponse, 0, len(records))
	for _, r := range records {
		out = append(out, notificationResponse{
			Timestamp:   formatTimestamp(r.Timestamp),
			EventType:   r.EventType,
			Description: r.Description,
		})
	}

	return out
}

func newPagination(page common.PageRequest, total int) paginationResponse {
	return paginationResponse{
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   total,
		Pages:   (total + page.PerPage - 1) / page.PerPage,
	}
}

func newSummaryResponse(days int, summary *common.MetricsSummary) summaryResponse {
	return summaryResponse{
		Days:                 days,
		TotalRecords:         summary.TotalRecords,
		AvgUptime:            round2(summary.AvgUptime),
		SuspiciousActivities: summary.SuspiciousActivities,
		MaxConcurrentUsers:   summary.MaxConcurrentUsers,
		AvgUsers:             round2(summary.AvgUsers),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
