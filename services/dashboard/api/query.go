package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/SalvatoreBevilacqua/monitoring-app/common"
	"github.com/gin-gonic/gin"
)

const (
	defaultPage        = 1
	defaultPerPage     = 10
	maxPerPage         = 1000
	defaultSummaryDays = 30
	maxSummaryDays     = 365
	lastSecondOfDay    = 24*time.Hour - time.Second
)

type listQuery struct {
	filter common.ListFilter
	page   common.PageRequest
}

// parseListQuery never fails: malformed values fall back to their defaults
func parseListQuery(c *gin.Context) listQuery {
	q := listQuery{
		page: common.PageRequest{
			Page:    positiveIntOrDefault(c.Query("page"), defaultPage),
			PerPage: positiveIntOrDefault(c.Query("per_page"), defaultPerPage),
		},
		filter: common.ListFilter{
			Keyword: c.Query("keyword"),
		},
	}
	if q.page.PerPage > maxPerPage {
		q.page.PerPage = maxPerPage
	}

	start, ok := parseDate(c.Query("start_date"))
	if ok {
		q.filter.Range.From = &start
	}
	end, ok := parseDate(c.Query("end_date"))
	if ok {
		end = end.Add(lastSecondOfDay)
		q.filter.Range.To = &end
	}

	return q
}

func positiveIntOrDefault(value string, defaultValue int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return defaultValue
	}

	return n
}

func parseDate(value string) (time.Time, bool) {
	t, err := time.ParseInLocation(common.DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseSummaryDays accepts values in (0, 365], anything else yields the default window
func parseSummaryDays(value string) int {
	days, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || days <= 0 || days > maxSummaryDays {
		return defaultSummaryDays
	}

	return days
}
