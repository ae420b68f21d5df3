package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowpos/backend/internal/domain/commission"
	"github.com/glowpos/backend/internal/domain/reconciliation"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/domain/till"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("meter cannot be nil")

// VarianceBuckets are histogram boundaries for absolute drawer variance.
var VarianceBuckets = []float64{0, 1, 5, 10, 25, 50, 100, 500}

// POSMetrics records business metrics from domain events and the relay.
type POSMetrics struct {
	sessionsOpened   metric.Int64Counter
	sessionsClosed   metric.Int64Counter
	closeVariance    metric.Float64Histogram
	varianceDetected metric.Int64Counter
	commissionCount  metric.Int64Counter
	commissionAmount metric.Float64Counter
	reportsSaved     metric.Int64Counter
	feedEvents       metric.Int64Counter
	subscribers      metric.Int64UpDownCounter
}

// NewPOSMetrics creates the business instruments on meter.
func NewPOSMetrics(meter metric.Meter) (*POSMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &POSMetrics{}
	var err error
	if m.sessionsOpened, err = meter.Int64Counter("pos_till_sessions_opened_total",
		metric.WithDescription("Till sessions opened"), metric.WithUnit("{sessions}")); err != nil {
		return nil, wrapInstrumentErr("pos_till_sessions_opened_total", err)
	}
	if m.sessionsClosed, err = meter.Int64Counter("pos_till_sessions_closed_total",
		metric.WithDescription("Till sessions closed"), metric.WithUnit("{sessions}")); err != nil {
		return nil, wrapInstrumentErr("pos_till_sessions_closed_total", err)
	}
	if m.closeVariance, err = meter.Float64Histogram("pos_till_close_variance",
		metric.WithDescription("Absolute cash variance at session close"),
		metric.WithExplicitBucketBoundaries(VarianceBuckets...)); err != nil {
		return nil, wrapInstrumentErr("pos_till_close_variance", err)
	}
	if m.varianceDetected, err = meter.Int64Counter("pos_till_variance_detected_total",
		metric.WithDescription("Till counts over the variance threshold"), metric.WithUnit("{counts}")); err != nil {
		return nil, wrapInstrumentErr("pos_till_variance_detected_total", err)
	}
	if m.commissionCount, err = meter.Int64Counter("pos_commission_calculated_total",
		metric.WithDescription("Commission calculations stored"), metric.WithUnit("{calculations}")); err != nil {
		return nil, wrapInstrumentErr("pos_commission_calculated_total", err)
	}
	if m.commissionAmount, err = meter.Float64Counter("pos_commission_amount_total",
		metric.WithDescription("Commission amount calculated")); err != nil {
		return nil, wrapInstrumentErr("pos_commission_amount_total", err)
	}
	if m.reportsSaved, err = meter.Int64Counter("pos_reconciliation_reports_saved_total",
		metric.WithDescription("Reconciliation reports saved"), metric.WithUnit("{reports}")); err != nil {
		return nil, wrapInstrumentErr("pos_reconciliation_reports_saved_total", err)
	}
	if m.feedEvents, err = meter.Int64Counter("pos_realtime_feed_events_total",
		metric.WithDescription("Events added to live feeds"), metric.WithUnit("{events}")); err != nil {
		return nil, wrapInstrumentErr("pos_realtime_feed_events_total", err)
	}
	if m.subscribers, err = meter.Int64UpDownCounter("pos_realtime_subscribers",
		metric.WithDescription("Connected live feed streams"), metric.WithUnit("{streams}")); err != nil {
		return nil, wrapInstrumentErr("pos_realtime_subscribers", err)
	}
	return m, nil
}

func wrapInstrumentErr(name string, err error) error {
	return fmt.Errorf("failed to create instrument %s: %w", name, err)
}

// EventTypes implements shared.EventHandler
func (m *POSMetrics) EventTypes() []string {
	return []string{
		till.EventTypeTillSessionOpened,
		till.EventTypeTillCountRecorded,
		till.EventTypeTillSessionClosed,
		commission.EventTypeCommissionCalculated,
		reconciliation.EventTypeReportSaved,
	}
}

// Handle implements shared.EventHandler
func (m *POSMetrics) Handle(ctx context.Context, evt shared.DomainEvent) error {
	tenant := metric.WithAttributes(AttrTenantID.String(evt.TenantID().String()))

	switch e := evt.(type) {
	case *till.TillSessionOpenedEvent:
		m.sessionsOpened.Add(ctx, 1, tenant)
	case *till.TillCountRecordedEvent:
		if e.VarianceDetected {
			m.varianceDetected.Add(ctx, 1, tenant)
		}
	case *till.TillSessionClosedEvent:
		m.sessionsClosed.Add(ctx, 1, tenant)
		m.closeVariance.Record(ctx, e.CashVariance.Abs().InexactFloat64(), tenant)
	case *commission.CommissionCalculatedEvent:
		attrs := metric.WithAttributes(
			AttrTenantID.String(evt.TenantID().String()),
			AttrPeriodType.String(string(e.PeriodType)),
		)
		m.commissionCount.Add(ctx, 1, attrs)
		m.commissionAmount.Add(ctx, e.CommissionAmount.InexactFloat64(), attrs)
	case *reconciliation.ReportSavedEvent:
		m.reportsSaved.Add(ctx, 1, metric.WithAttributes(
			AttrTenantID.String(evt.TenantID().String()),
			attribute.String("status", string(e.Status)),
		))
	}
	return nil
}

// FeedEventAdded counts an event pushed onto a live feed
func (m *POSMetrics) FeedEventAdded(ctx context.Context, feedType string) {
	m.feedEvents.Add(ctx, 1, metric.WithAttributes(AttrFeedType.String(feedType)))
}

// SubscriberDelta tracks live stream connects and disconnects. Shutdown
// reports every remaining subscriber in one negative delta.
func (m *POSMetrics) SubscriberDelta(ctx context.Context, delta int64) {
	m.subscribers.Add(ctx, delta)
}

var _ shared.EventHandler = (*POSMetrics)(nil)
