package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterGormTracing attaches otelgorm spans to every statement on db.
// Query variables are never recorded. dbSystem is "sqlite" or "postgresql".
func RegisterGormTracing(db *gorm.DB, dbSystem string, logger *zap.Logger) error {
	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName(dbSystem),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}

	// Runs after otelgorm has started the span for the statement.
	after := func(tx *gorm.DB) {
		if tx.Statement.Context == nil {
			return
		}
		span := trace.SpanFromContext(tx.Statement.Context)
		if !span.IsRecording() {
			return
		}
		if tx.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
		if tx.Error != nil && tx.Error != gorm.ErrRecordNotFound {
			span.SetStatus(codes.Error, tx.Error.Error())
		}
	}

	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("moodtrack:span_attrs_create", after); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("moodtrack:span_attrs_query", after); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("moodtrack:span_attrs_update", after); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("moodtrack:span_attrs_delete", after); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.String("db_system", dbSystem))
	return nil
}
