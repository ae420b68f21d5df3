// Package realtime turns row changes and domain events into the per-tenant
// dashboard feed and counters, and fans them out to stream subscribers.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/glowpos/backend/internal/domain/commission"
	"github.com/glowpos/backend/internal/domain/realtime"
	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Metrics receives relay activity. telemetry.POSMetrics implements it.
type Metrics interface {
	FeedEventAdded(ctx context.Context, feedType string)
	SubscriberDelta(ctx context.Context, delta int64)
}

type noopMetrics struct{}

func (noopMetrics) FeedEventAdded(context.Context, string) {}
func (noopMetrics) SubscriberDelta(context.Context, int64) {}

// tenantState is the feed and counters of one tenant
type tenantState struct {
	feed     *realtime.Feed
	counters realtime.Counters
	day      time.Time
}

// EventRelay holds dashboard state per tenant. All state is guarded by mu,
// so counter deltas apply atomically with respect to each other.
type EventRelay struct {
	counters   realtime.CounterSource
	directory  realtime.Directory
	rules      realtime.PriorityRules
	capacity   int
	changeFeed bool
	metrics    Metrics
	logger     *zap.Logger
	now        func() time.Time

	mu      sync.Mutex
	tenants map[uuid.UUID]*tenantState

	hub *hub
}

// RelayOption configures an EventRelay
type RelayOption func(*EventRelay)

// WithRelayLogger sets the logger
func WithRelayLogger(l *zap.Logger) RelayOption {
	return func(r *EventRelay) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m Metrics) RelayOption {
	return func(r *EventRelay) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithPriorityRules overrides the priority thresholds
func WithPriorityRules(rules realtime.PriorityRules) RelayOption {
	return func(r *EventRelay) {
		r.rules = rules
	}
}

// WithFeedCapacity sets how many events each tenant feed keeps
func WithFeedCapacity(n int) RelayOption {
	return func(r *EventRelay) {
		r.capacity = n
	}
}

// WithChangeFeed selects the event source. When enabled the relay consumes
// ChangeNotification events from the database listener; otherwise it maps
// the domain events published by the application services.
func WithChangeFeed(enabled bool) RelayOption {
	return func(r *EventRelay) {
		r.changeFeed = enabled
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) RelayOption {
	return func(r *EventRelay) {
		if now != nil {
			r.now = now
		}
	}
}

// NewEventRelay creates a new EventRelay
func NewEventRelay(counters realtime.CounterSource, directory realtime.Directory, opts ...RelayOption) *EventRelay {
	r := &EventRelay{
		counters:  counters,
		directory: directory,
		rules:     realtime.DefaultPriorityRules(),
		capacity:  realtime.DefaultFeedCapacity,
		metrics:   noopMetrics{},
		logger:    zap.NewNop(),
		now:       time.Now,
		tenants:   make(map[uuid.UUID]*tenantState),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.hub = newHub(r.logger, r.metrics)
	return r
}

// EventTypes returns the event types the relay consumes
func (r *EventRelay) EventTypes() []string {
	if r.changeFeed {
		return []string{realtime.EventTypeChangeNotification}
	}
	return []string{
		sales.EventTypeOrderCreated,
		sales.EventTypeOrderCompleted,
		sales.EventTypeOrderCancelled,
		commission.EventTypeCommissionCalculated,
		commission.EventTypeCommissionPaid,
	}
}

// Handle maps one event into the tenant's feed and counters and notifies
// subscribers. Unrecognised changes are ignored.
func (r *EventRelay) Handle(ctx context.Context, evt shared.DomainEvent) error {
	var ch change
	switch e := evt.(type) {
	case *realtime.ChangeNotification:
		ch = r.fromNotification(ctx, e)
	case *sales.OrderCreatedEvent:
		ch = r.fromOrderCreated(ctx, e)
	case *sales.OrderCompletedEvent:
		ch = r.fromOrderCompleted(ctx, e)
	case *sales.OrderCancelledEvent:
		ch = r.fromOrderCancelled(e)
	case *commission.CommissionCalculatedEvent:
		ch = r.fromCommissionCalculated(ctx, e)
	case *commission.CommissionPaidEvent:
		ch = r.fromCommissionPaid(ctx, e)
	default:
		return nil
	}
	if ch.empty() {
		return nil
	}
	return r.apply(ctx, evt.TenantID(), evt.OccurredAt(), ch)
}

func (r *EventRelay) apply(ctx context.Context, tenantID uuid.UUID, at time.Time, ch change) error {
	r.mu.Lock()
	st, fresh, err := r.stateLocked(ctx, tenantID)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	// a freshly loaded snapshot already includes the committed row
	if ch.delta != nil && !fresh {
		ch.delta(&st.counters)
	}
	var pushed *realtime.FeedEvent
	if ch.event != nil {
		ev := r.buildEvent(*ch.event, at)
		st.feed.Push(ev)
		pushed = &ev
	}
	counters := st.counters
	r.mu.Unlock()

	if pushed != nil {
		r.metrics.FeedEventAdded(ctx, string(pushed.Type))
		r.hub.broadcast(tenantID, StreamMessage{Event: StreamEventFeed, ID: pushed.ID.String(), Data: pushed})
	}
	r.hub.broadcast(tenantID, StreamMessage{Event: StreamEventCounters, Data: counters})
	return nil
}

func (r *EventRelay) buildEvent(d eventDraft, at time.Time) realtime.FeedEvent {
	if at.IsZero() {
		at = r.now()
	}
	return realtime.FeedEvent{
		ID:           uuid.New(),
		Type:         d.feedType,
		Title:        d.title,
		Description:  d.description,
		Priority:     r.rules.PriorityFor(d.feedType, d.priorityAmount, d.level),
		Timestamp:    at.UTC(),
		AutoResolved: realtime.AutoResolves(d.feedType),
		Amount:       d.amount,
		EntityID:     d.entityID,
	}
}

// stateLocked returns the tenant state, loading counters on first access or
// when the day has rolled over. fresh reports whether a load happened.
func (r *EventRelay) stateLocked(ctx context.Context, tenantID uuid.UUID) (*tenantState, bool, error) {
	today := dayStart(r.now())
	st, ok := r.tenants[tenantID]
	if ok && st.day.Equal(today) {
		return st, false, nil
	}
	counters, err := r.counters.LoadCounters(ctx, tenantID, today)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		st = &tenantState{feed: realtime.NewFeed(r.capacity)}
		r.tenants[tenantID] = st
	}
	st.counters = counters
	st.day = today
	return st, true, nil
}

// Feed returns the tenant's feed, newest first
func (r *EventRelay) Feed(ctx context.Context, tenantID uuid.UUID) ([]realtime.FeedEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, _, err := r.stateLocked(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return st.feed.Events(), nil
}

// Counters returns the tenant's dashboard counters
func (r *EventRelay) Counters(ctx context.Context, tenantID uuid.UUID) (realtime.Counters, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, _, err := r.stateLocked(ctx, tenantID)
	if err != nil {
		return realtime.Counters{}, err
	}
	return st.counters, nil
}

// Dismiss removes an operator-resolvable event from the tenant's feed
func (r *EventRelay) Dismiss(ctx context.Context, tenantID, eventID uuid.UUID) error {
	r.mu.Lock()
	st, _, err := r.stateLocked(ctx, tenantID)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	err = st.feed.Dismiss(eventID)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	r.hub.broadcast(tenantID, StreamMessage{Event: StreamEventDismissed, ID: eventID.String(), Data: map[string]string{"id": eventID.String()}})
	return nil
}

// Snapshot is the full dashboard state of a tenant
type Snapshot struct {
	Events   []realtime.FeedEvent `json:"events"`
	Counters realtime.Counters    `json:"counters"`
}

// Refresh clears the tenant's feed and recomputes its counters
func (r *EventRelay) Refresh(ctx context.Context, tenantID uuid.UUID) (*Snapshot, error) {
	today := dayStart(r.now())
	counters, err := r.counters.LoadCounters(ctx, tenantID, today)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	st, ok := r.tenants[tenantID]
	if !ok {
		st = &tenantState{feed: realtime.NewFeed(r.capacity)}
		r.tenants[tenantID] = st
	}
	st.feed.Clear()
	st.counters = counters
	st.day = today
	r.mu.Unlock()

	logger.Enrich(ctx, r.logger).Info("Realtime state refreshed", zap.String("tenant_id", tenantID.String()))
	r.hub.broadcast(tenantID, StreamMessage{Event: StreamEventCounters, Data: counters})
	return &Snapshot{Events: []realtime.FeedEvent{}, Counters: counters}, nil
}

// Resync recomputes counters for every tenant seen so far. Feeds are kept.
// It runs after the change listener reconnects, since notifications sent
// while disconnected are lost.
func (r *EventRelay) Resync(ctx context.Context) {
	r.mu.Lock()
	ids := make([]uuid.UUID, 0, len(r.tenants))
	for id := range r.tenants {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	today := dayStart(r.now())
	for _, id := range ids {
		counters, err := r.counters.LoadCounters(ctx, id, today)
		if err != nil {
			r.logger.Warn("Failed to resync realtime counters",
				zap.String("tenant_id", id.String()),
				zap.Error(err))
			continue
		}
		r.mu.Lock()
		if st, ok := r.tenants[id]; ok {
			st.counters = counters
			st.day = today
		}
		r.mu.Unlock()
		r.hub.broadcast(id, StreamMessage{Event: StreamEventCounters, Data: counters})
	}
}

// Subscribe registers a stream subscriber for the tenant. The returned
// subscription must be closed with Unsubscribe.
func (r *EventRelay) Subscribe(ctx context.Context, tenantID, userID uuid.UUID) (*Subscription, error) {
	return r.hub.subscribe(ctx, tenantID, userID)
}

// Unsubscribe removes a stream subscriber
func (r *EventRelay) Unsubscribe(ctx context.Context, sub *Subscription) {
	r.hub.unsubscribe(ctx, sub)
}

// SubscriberCount returns the number of connected stream subscribers
func (r *EventRelay) SubscriberCount() int {
	return r.hub.count()
}

// SetMaxSubscribers caps concurrent stream subscribers. Zero means no cap.
func (r *EventRelay) SetMaxSubscribers(n int) {
	r.hub.setMax(n)
}

// Close disconnects every subscriber
func (r *EventRelay) Close() {
	r.hub.close(context.Background())
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
