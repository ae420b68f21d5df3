package telemetry

import (
	"errors"
	"fmt"

	"github.com/glowpos/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing installs the otelgorm plugin plus a callback that tags
// spans with the table and affected row count.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.DBTraceEnabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register otelgorm: %w", err)
	}

	cb := db.Callback()
	for name, register := range map[string]func(string, func(*gorm.DB)) error{
		"pos_trace:create": cb.Create().After("gorm:create").Register,
		"pos_trace:query":  cb.Query().After("gorm:query").Register,
		"pos_trace:update": cb.Update().After("gorm:update").Register,
		"pos_trace:delete": cb.Delete().After("gorm:delete").Register,
		"pos_trace:raw":    cb.Raw().After("gorm:raw").Register,
	} {
		if err := register(name, annotateSpan); err != nil {
			return fmt.Errorf("failed to register %s: %w", name, err)
		}
	}

	logger.Info("Database tracing enabled", zap.Bool("log_full_sql", cfg.DBLogFullSQL))
	return nil
}

func annotateSpan(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(AttrTable.String(db.Statement.Table))
	}
	span.SetAttributes(attributeRowsAffected.Int64(db.Statement.RowsAffected))
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
	}
}
