package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/consignmentgenie/backend/internal/infrastructure/event"
	"github.com/consignmentgenie/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SystemHandler serves version, uptime, and event processing counters.
// @name HandlerSystemInfoResponse
type SystemHandler struct {
	BaseHandler
	startTime          time.Time
	idempotencyMetrics *event.IdempotencyMetrics
}

// NewSystemHandler creates a SystemHandler. idempotencyMetrics may be nil
// when event dedup is not wired, and the response then omits the counters.
func NewSystemHandler(idempotencyMetrics *event.IdempotencyMetrics) *SystemHandler {
	return &SystemHandler{
		startTime:          time.Now(),
		idempotencyMetrics: idempotencyMetrics,
	}
}

// EventProcessingStats reports how event handlers are keeping up
// @name HandlerEventProcessingStats
type EventProcessingStats struct {
	EventsProcessed int64 `json:"events_processed" example:"1204"`
	EventsDuplicate int64 `json:"events_duplicate" example:"17"`
	EventsFailed    int64 `json:"events_failed" example:"2"`
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name            string                `json:"name" example:"ConsignmentGenie API"`
	Version         string                `json:"version" example:"1.0.0"`
	GoVersion       string                `json:"go_version" example:"go1.25.5"`
	Uptime          string                `json:"uptime" example:"1h30m45s"`
	EventProcessing *EventProcessingStats `json:"event_processing,omitempty"`
}

// GetSystemInfo godoc
// @ID           getSystemSystemInfo
// @Summary      Get system information
// @Description  Returns version, uptime, and event processing counters
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "ConsignmentGenie API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.idempotencyMetrics != nil {
		stats := h.idempotencyMetrics.Stats()
		info.EventProcessing = &EventProcessingStats{
			EventsProcessed: stats.EventsProcessed,
			EventsDuplicate: stats.EventsDuplicate,
			EventsFailed:    stats.EventsFailed,
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
