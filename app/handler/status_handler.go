package handler

import (
	"net/http"

	"fleetbase/internal/service"

	"github.com/gin-gonic/gin"
)

// StatusHandler exposes the worker's lifecycle state over the local ops
// surface. Read-only: all state changes come from the monitor's control
// channel, never from HTTP.
type StatusHandler struct {
	service *service.Service
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(svc *service.Service) *StatusHandler {
	return &StatusHandler{service: svc}
}

// Status returns the worker identity and current state
func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sid":   h.service.SID(),
		"state": h.service.Status(),
	})
}

// Healthz is a liveness probe for the process itself
func (h *StatusHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
