package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	realtimeapp "github.com/glowpos/backend/internal/application/realtime"
	"github.com/glowpos/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const defaultHeartbeat = 30 * time.Second

// RealtimeHandler serves the live dashboard feed, counters and event stream
type RealtimeHandler struct {
	BaseHandler
	relay     *realtimeapp.EventRelay
	heartbeat time.Duration
	logger    *zap.Logger
}

// NewRealtimeHandler creates a new RealtimeHandler. A non-positive heartbeat
// uses 30s.
func NewRealtimeHandler(relay *realtimeapp.EventRelay, heartbeat time.Duration, logger *zap.Logger) *RealtimeHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealtimeHandler{relay: relay, heartbeat: heartbeat, logger: logger}
}

// Feed godoc
// @ID           getRealtimeFeed
// @Summary      Recent dashboard events, newest first
// @Tags         realtime
// @Produce      json
// @Success      200 {object} APIResponse[[]realtime.FeedEvent]
// @Security     BearerAuth
// @Router       /realtime/feed [get]
func (h *RealtimeHandler) Feed(c *gin.Context) {
	events, err := h.relay.Feed(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, events)
}

// Dismiss godoc
// @ID           dismissRealtimeEvent
// @Summary      Dismiss an event that needs operator action
// @Tags         realtime
// @Param        id path string true "Event ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /realtime/feed/{id} [delete]
func (h *RealtimeHandler) Dismiss(c *gin.Context) {
	eventID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.relay.Dismiss(c.Request.Context(), middleware.GetTenantID(c), eventID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Counters godoc
// @ID           getRealtimeCounters
// @Summary      Today's dashboard counters
// @Tags         realtime
// @Produce      json
// @Success      200 {object} APIResponse[realtime.Counters]
// @Security     BearerAuth
// @Router       /realtime/counters [get]
func (h *RealtimeHandler) Counters(c *gin.Context) {
	counters, err := h.relay.Counters(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counters)
}

// Refresh godoc
// @ID           refreshRealtime
// @Summary      Clear the feed and recompute counters
// @Tags         realtime
// @Produce      json
// @Success      200 {object} APIResponse[realtimeapp.Snapshot]
// @Security     BearerAuth
// @Router       /realtime/refresh [post]
func (h *RealtimeHandler) Refresh(c *gin.Context) {
	snapshot, err := h.relay.Refresh(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// Stream godoc
// @ID           streamRealtime
// @Summary      Server-sent events for the tenant dashboard
// @Description  Events: connected, feed_event, feed_dismissed, counters, heartbeat
// @Tags         realtime
// @Produce      text/event-stream
// @Success      200
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /realtime/stream [get]
func (h *RealtimeHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantID(c)

	sub, err := h.relay.Subscribe(ctx, tenantID, middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer h.relay.Unsubscribe(context.WithoutCancel(ctx), sub)

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	h.writeEvent(c.Writer, realtimeapp.StreamMessage{
		Event: realtimeapp.StreamEventConnected,
		ID:    sub.ID,
		Data:  gin.H{"subscription_id": sub.ID, "timestamp": time.Now().Unix()},
	})
	if counters, err := h.relay.Counters(ctx, tenantID); err == nil {
		h.writeEvent(c.Writer, realtimeapp.StreamMessage{Event: realtimeapp.StreamEventCounters, Data: counters})
	} else {
		h.logger.Warn("Failed to load counters for new stream", zap.Error(err))
	}
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case <-ticker.C:
			h.writeEvent(c.Writer, realtimeapp.StreamMessage{
				Event: realtimeapp.StreamEventHeartbeat,
				Data:  gin.H{"timestamp": time.Now().Unix()},
			})
			c.Writer.Flush()
		case msg := <-sub.Messages:
			h.writeEvent(c.Writer, msg)
			c.Writer.Flush()
		}
	}
}

// writeEvent writes one server-sent event
func (h *RealtimeHandler) writeEvent(w io.Writer, msg realtimeapp.StreamMessage) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		h.logger.Error("Failed to marshal stream event", zap.String("event", msg.Event), zap.Error(err))
		return
	}
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
