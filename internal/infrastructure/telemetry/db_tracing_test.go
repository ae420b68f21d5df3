package telemetry

import (
	"context"
	"testing"

	"github.com/glowpos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type traceProbe struct {
	ID   int `gorm:"primaryKey"`
	Name string
}

func TestRegisterDBTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&traceProbe{}))

	t.Run("disabled is a no-op", func(t *testing.T) {
		require.NoError(t, RegisterDBTracing(db, config.TelemetryConfig{}, zaptest.NewLogger(t)))
		require.NoError(t, db.WithContext(context.Background()).Create(&traceProbe{Name: "a"}).Error)
		assert.Empty(t, recorder.Ended())
	})

	t.Run("enabled records spans", func(t *testing.T) {
		require.NoError(t, RegisterDBTracing(db, config.TelemetryConfig{DBTraceEnabled: true}, zaptest.NewLogger(t)))

		ctx, span := StartSpan(context.Background(), "probe")
		require.NoError(t, db.WithContext(ctx).Create(&traceProbe{Name: "b"}).Error)
		span.End()

		var dbSpans int
		for _, s := range recorder.Ended() {
			if s.Name() != "probe" {
				dbSpans++
				assert.Equal(t, span.SpanContext().TraceID(), s.SpanContext().TraceID())
			}
		}
		assert.Positive(t, dbSpans)
	})
}
