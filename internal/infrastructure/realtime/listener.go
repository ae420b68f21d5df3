// Package realtime turns PostgreSQL NOTIFY payloads from the change triggers
// into ChangeNotification events on the in-process bus.
package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/glowpos/backend/internal/domain/realtime"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const pingInterval = 90 * time.Second

// changePayload is the JSON written by pos_notify_change()
type changePayload struct {
	Table       string        `json:"table"`
	Operation   string        `json:"operation"`
	TenantID    uuid.UUID     `json:"tenant_id"`
	CommittedAt time.Time     `json:"committed_at"`
	Record      domain.Record `json:"record"`
	OldRecord   domain.Record `json:"old_record"`
}

// DecodeNotification parses a trigger payload. Numbers stay json.Number so
// decimals keep their precision.
func DecodeNotification(payload string) (*domain.ChangeNotification, error) {
	dec := json.NewDecoder(bytes.NewBufferString(payload))
	dec.UseNumber()

	var p changePayload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode change payload: %w", err)
	}
	if p.Table == "" || p.TenantID == uuid.Nil {
		return nil, fmt.Errorf("change payload missing table or tenant_id")
	}
	if p.Operation != domain.OperationInsert && p.Operation != domain.OperationUpdate {
		return nil, fmt.Errorf("unsupported operation %q", p.Operation)
	}
	return domain.NewChangeNotification(p.TenantID, p.Table, p.Operation, p.Record, p.OldRecord).
		WithTimestamp(p.CommittedAt), nil
}

// ChangeListener holds a LISTEN connection and republishes notifications
type ChangeListener struct {
	dsn          string
	channel      string
	minReconnect time.Duration
	maxReconnect time.Duration
	publisher    shared.EventPublisher
	onReconnect  func(ctx context.Context)
	logger       *zap.Logger
}

// ListenerOption is a functional option for configuring ChangeListener
type ListenerOption func(*ChangeListener)

// WithReconnectHook runs fn after the connection was re-established.
// Notifications sent while disconnected are lost, so fn should resync state.
func WithReconnectHook(fn func(ctx context.Context)) ListenerOption {
	return func(l *ChangeListener) {
		l.onReconnect = fn
	}
}

// NewChangeListener creates a listener for the configured channel
func NewChangeListener(dsn string, cfg config.RealtimeConfig, publisher shared.EventPublisher, logger *zap.Logger, opts ...ListenerOption) *ChangeListener {
	l := &ChangeListener{
		dsn:          dsn,
		channel:      cfg.Channel,
		minReconnect: cfg.MinReconnectInterval,
		maxReconnect: cfg.MaxReconnectInterval,
		publisher:    publisher,
		logger:       logger.Named("change_listener"),
	}
	if l.minReconnect <= 0 {
		l.minReconnect = time.Second
	}
	if l.maxReconnect < l.minReconnect {
		l.maxReconnect = time.Minute
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run listens until ctx is cancelled
func (l *ChangeListener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, l.minReconnect, l.maxReconnect, l.logEvent)
	defer func() { _ = listener.Close() }()

	if err := listener.Listen(l.channel); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	l.logger.Info("Listening for row changes", zap.String("channel", l.channel))

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			if n == nil {
				// pq sends nil after a reconnect
				if l.onReconnect != nil {
					l.onReconnect(ctx)
				}
				continue
			}
			l.dispatch(ctx, n.Extra)
		case <-ticker.C:
			if err := listener.Ping(); err != nil {
				l.logger.Warn("Listener ping failed", zap.Error(err))
			}
		}
	}
}

func (l *ChangeListener) dispatch(ctx context.Context, payload string) {
	evt, err := DecodeNotification(payload)
	if err != nil {
		l.logger.Warn("Dropping malformed change notification", zap.Error(err))
		return
	}
	if err := l.publisher.Publish(ctx, evt); err != nil {
		l.logger.Error("Failed to publish change notification",
			zap.String("table", evt.Table),
			zap.Error(err),
		)
	}
}

func (l *ChangeListener) logEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		l.logger.Debug("Listener connected")
	case pq.ListenerEventDisconnected:
		l.logger.Warn("Listener disconnected", zap.Error(err))
	case pq.ListenerEventReconnected:
		l.logger.Info("Listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		l.logger.Warn("Listener connection attempt failed", zap.Error(err))
	}
}
