package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowStatement = 200 * time.Millisecond

// SQLLogger writes GORM statement logs to zap. Failures the repositories
// translate into domain errors (missing rows, duplicate keys) are not logged.
type SQLLogger struct {
	log   *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

// SQLLoggerOption configures a SQLLogger
type SQLLoggerOption func(*SQLLogger)

// WithSlowThreshold sets the duration above which statements are logged as slow.
// Zero disables slow statement logging.
func WithSlowThreshold(threshold time.Duration) SQLLoggerOption {
	return func(l *SQLLogger) {
		l.slow = threshold
	}
}

// NewSQLLogger logs statements under the "sql" logger name. appLevel is
// the application log level; see SQLLevel.
func NewSQLLogger(log *zap.Logger, appLevel string, opts ...SQLLoggerOption) *SQLLogger {
	l := &SQLLogger{
		log:   log.Named("sql"),
		level: SQLLevel(appLevel),
		slow:  defaultSlowStatement,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SQLLevel picks the GORM verbosity for an application log level. Only
// debug logs every statement.
func SQLLevel(appLevel string) gormlogger.LogLevel {
	switch appLevel {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copied := *l
	copied.level = level
	return &copied
}

func (l *SQLLogger) Info(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Info, msg, data)
}

func (l *SQLLogger) Warn(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Warn, msg, data)
}

func (l *SQLLogger) Error(_ context.Context, msg string, data ...any) {
	l.printf(gormlogger.Error, msg, data)
}

func (l *SQLLogger) printf(at gormlogger.LogLevel, msg string, data []any) {
	if l.level < at {
		return
	}
	text := fmt.Sprintf(msg, data...)
	switch at {
	case gormlogger.Error:
		l.log.Error(text)
	case gormlogger.Warn:
		l.log.Warn(text)
	default:
		l.log.Info(text)
	}
}

// Trace logs one executed statement together with the signed-in user and
// trace of ctx
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !expectedSQLError(err)
	slow := l.slow > 0 && elapsed > l.slow

	var (
		lvl gormlogger.LogLevel
		msg string
	)
	switch {
	case failed:
		lvl, msg = gormlogger.Error, "SQL statement failed"
	case slow:
		lvl, msg = gormlogger.Warn, fmt.Sprintf("Slow SQL statement (over %v)", l.slow)
	case err == nil:
		lvl, msg = gormlogger.Info, "SQL statement"
	default:
		return
	}
	if l.level < lvl {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	if userID := GetUserID(ctx); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	if spanCtx := trace.SpanFromContext(ctx).SpanContext(); spanCtx.IsValid() {
		fields = append(fields, zap.String("trace_id", spanCtx.TraceID().String()))
	}

	switch lvl {
	case gormlogger.Error:
		l.log.Error(msg, append(fields, zap.Error(err))...)
	case gormlogger.Warn:
		l.log.Warn(msg, fields...)
	default:
		l.log.Debug(msg, fields...)
	}
}

func expectedSQLError(err error) bool {
	return errors.Is(err, gormlogger.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey)
}

var _ gormlogger.Interface = (*SQLLogger)(nil)
