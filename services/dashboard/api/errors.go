package api

import (
	"errors"
	"net/http"

	"github.com/SalvatoreBevilacqua/monitoring-app/storage"
	"github.com/gin-gonic/gin"
)

type errorKind int

const (
	kindInternal errorKind = iota
	kindNotFound
	kindUnavailable
)

// apiError carries the message that is safe to return to the client
type apiError struct {
	kind    errorKind
	message string
}

func (e *apiError) Error() string {
	return e.message
}

var (
	errNotFound    = &apiError{kind: kindNotFound, message: "Not found"}
	errInternal    = &apiError{kind: kindInternal, message: "Internal server error"}
	errUnavailable = &apiError{kind: kindUnavailable, message: "Store unavailable"}
)

var statusByKind = map[errorKind]int{
	kindInternal:    http.StatusInternalServerError,
	kindNotFound:    http.StatusNotFound,
	kindUnavailable: http.StatusServiceUnavailable,
}

// classify maps any error to its client facing counterpart. Unknown errors never leak their details.
func classify(err error) *apiError {
	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, storage.ErrUnavailable):
		return errUnavailable
	default:
		return errInternal
	}
}

// respondError logs the failure with its context and writes the {"error": message} envelope
func respondError(c *gin.Context, operation string, err error) {
	apiErr := classify(err)
	status := statusByKind[apiErr.kind]

	if status >= http.StatusInternalServerError {
		log.Error("request failed", "operation", operation, "path", c.Request.URL.Path,
			"request id", requestID(c), "error", err)
	} else {
		log.Debug("request rejected", "operation", operation, "path", c.Request.URL.Path, "status", status)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": apiErr.message})
}
