package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name for application spans
const TracerName = "glowpos-backend"

// Common attribute keys
var (
	AttrTenantID   = attribute.Key("tenant_id")
	AttrStoreID    = attribute.Key("store_id")
	AttrEmployeeID = attribute.Key("employee_id")
	AttrSessionID  = attribute.Key("till_session_id")
	AttrPeriodType = attribute.Key("period_type")
	AttrFeedType   = attribute.Key("feed_type")
	AttrTable      = attribute.Key("db.table")

	attributeRowsAffected = attribute.Key("db.rows_affected")
)

// StartSpan starts an internal span on the global tracer.
//
//	ctx, span := telemetry.StartSpan(ctx, "till.close_session", telemetry.AttrSessionID.String(id.String()))
//	defer span.End()
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name, opts...)
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
