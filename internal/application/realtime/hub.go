package realtime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stream event names
const (
	StreamEventConnected = "connected"
	StreamEventFeed      = "feed_event"
	StreamEventDismissed = "feed_dismissed"
	StreamEventCounters  = "counters"
	StreamEventHeartbeat = "heartbeat"
)

// subscriberBuffer is the per-subscriber queue length. A subscriber that
// falls this far behind misses messages.
const subscriberBuffer = 100

// ErrMaxSubscribers is returned when the subscriber cap is reached
var ErrMaxSubscribers = shared.NewDomainError("MAX_CONNECTIONS_REACHED", "Maximum number of stream connections reached")

// StreamMessage is one message sent to stream subscribers
type StreamMessage struct {
	Event string
	ID    string
	Data  any
}

// Subscription is a connected stream subscriber
type Subscription struct {
	ID       string
	TenantID uuid.UUID
	UserID   uuid.UUID
	Messages <-chan StreamMessage
	// Done is closed when the subscription is removed
	Done <-chan struct{}

	messages chan StreamMessage
	done     chan struct{}
}

// hub tracks stream subscribers per tenant
type hub struct {
	clients sync.Map // map[string]*Subscription
	size    atomic.Int64
	max     atomic.Int64
	logger  *zap.Logger
	metrics Metrics
}

func newHub(logger *zap.Logger, metrics Metrics) *hub {
	return &hub{logger: logger, metrics: metrics}
}

func (h *hub) setMax(n int) {
	h.max.Store(int64(n))
}

// reserve claims a subscriber slot. Check and increment happen in one CAS so
// concurrent connects cannot overshoot the cap.
func (h *hub) reserve() bool {
	for {
		current := h.size.Load()
		if limit := h.max.Load(); limit > 0 && current >= limit {
			return false
		}
		if h.size.CompareAndSwap(current, current+1) {
			return true
		}
	}
}

func (h *hub) subscribe(ctx context.Context, tenantID, userID uuid.UUID) (*Subscription, error) {
	if !h.reserve() {
		return nil, ErrMaxSubscribers
	}

	messages := make(chan StreamMessage, subscriberBuffer)
	done := make(chan struct{})
	sub := &Subscription{
		ID:       uuid.New().String(),
		TenantID: tenantID,
		UserID:   userID,
		Messages: messages,
		Done:     done,
		messages: messages,
		done:     done,
	}
	h.clients.Store(sub.ID, sub)
	h.metrics.SubscriberDelta(ctx, 1)

	h.logger.Info("Stream subscriber connected",
		zap.String("subscription_id", sub.ID),
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()))
	return sub, nil
}

func (h *hub) unsubscribe(ctx context.Context, sub *Subscription) {
	if sub == nil {
		return
	}
	if _, loaded := h.clients.LoadAndDelete(sub.ID); !loaded {
		return
	}
	close(sub.done)
	h.size.Add(-1)
	h.metrics.SubscriberDelta(ctx, -1)

	h.logger.Info("Stream subscriber disconnected",
		zap.String("subscription_id", sub.ID),
		zap.String("tenant_id", sub.TenantID.String()))
}

// broadcast queues msg for every subscriber of the tenant without blocking
func (h *hub) broadcast(tenantID uuid.UUID, msg StreamMessage) {
	h.clients.Range(func(_, value any) bool {
		sub := value.(*Subscription)
		if sub.TenantID != tenantID {
			return true
		}
		select {
		case sub.messages <- msg:
		default:
			h.logger.Warn("Stream subscriber buffer full, dropping message",
				zap.String("subscription_id", sub.ID),
				zap.String("event", msg.Event))
		}
		return true
	})
}

func (h *hub) count() int {
	return int(h.size.Load())
}

func (h *hub) close(ctx context.Context) {
	var removed int64
	h.clients.Range(func(key, value any) bool {
		if _, loaded := h.clients.LoadAndDelete(key); loaded {
			close(value.(*Subscription).done)
			h.size.Add(-1)
			removed++
		}
		return true
	})
	if removed > 0 {
		h.metrics.SubscriberDelta(ctx, -removed)
	}
}
