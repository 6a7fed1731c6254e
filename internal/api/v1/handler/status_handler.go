package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"thermo-guard/internal/features/coordinator/domain"
)

// StatusHandler serves the coordinator's state over HTTP
type StatusHandler struct {
	coordinator domain.Coordinator
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(coordinator domain.Coordinator) *StatusHandler {
	if coordinator == nil {
		log.Fatal("coordinator cannot be nil")
	}

	return &StatusHandler{
		coordinator: coordinator,
	}
}

// SetupRoutes configures the routes for this handler
func (h *StatusHandler) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/status", h.getStatus)
	}
}

// getStatus returns the current cluster state and controller counters
func (h *StatusHandler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.Status())
}
