package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"wealth/internal/health"
	"wealth/internal/logger"
)

// HealthChecker runs the diagnostic probe.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
	Failure(err error) health.FailureReport
}

// HealthHandler serves the diagnostic health probe.
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Check reports storage and configuration health: 200 when healthy, 503
// when unhealthy and 500 when the probe itself fails.
func (h *HealthHandler) Check(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			logger.FromContext(c.Request.Context()).Errorw("health check failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, h.checker.Failure(err))
		}
	}()

	report := h.checker.Check(c.Request.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
