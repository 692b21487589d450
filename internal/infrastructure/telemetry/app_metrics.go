package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	attrOperation = attribute.Key("operation")
	attrOutcome   = attribute.Key("outcome")
	attrStoreMode = attribute.Key("store.mode")
)

// AppMetrics records the business counters of the mood tracker and inventory.
// Construct with NewAppMetrics. A nil *AppMetrics records nothing.
type AppMetrics struct {
	moodEntries   metric.Int64Counter
	logins        metric.Int64Counter
	itemMutations metric.Int64Counter
	emails        metric.Int64Counter
	storeDegraded metric.Int64Gauge
}

// NewAppMetrics registers the application instruments on meter.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var (
		m   AppMetrics
		err error
	)
	if m.moodEntries, err = counter(meter, "moodtrack.mood_entries",
		"Mood entry writes by outcome", "{entry}"); err != nil {
		return nil, err
	}
	if m.logins, err = counter(meter, "moodtrack.logins",
		"Login attempts by outcome", "{attempt}"); err != nil {
		return nil, err
	}
	if m.itemMutations, err = counter(meter, "moodtrack.inventory.mutations",
		"Inventory writes by operation", "{item}"); err != nil {
		return nil, err
	}
	if m.emails, err = counter(meter, "moodtrack.emails",
		"Account emails by outcome", "{email}"); err != nil {
		return nil, err
	}
	if m.storeDegraded, err = meter.Int64Gauge("moodtrack.store.degraded",
		metric.WithDescription("1 while serving from the in-memory fallback store")); err != nil {
		return nil, fmt.Errorf("failed to create gauge: %w", err)
	}
	return &m, nil
}

// MoodEntry counts an entry write; outcome is created, replaced or rejected.
func (m *AppMetrics) MoodEntry(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.moodEntries.Add(ctx, 1, metric.WithAttributes(attrOutcome.String(outcome)))
}

// Login counts a login attempt.
func (m *AppMetrics) Login(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(attrOutcome.String(outcome)))
}

// ItemMutation counts an inventory write; op is create, update or delete.
func (m *AppMetrics) ItemMutation(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.itemMutations.Add(ctx, 1, metric.WithAttributes(attrOperation.String(op)))
}

// Email counts an account email delivery attempt.
func (m *AppMetrics) Email(ctx context.Context, sent bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if sent {
		outcome = "sent"
	}
	m.emails.Add(ctx, 1, metric.WithAttributes(attrOutcome.String(outcome)))
}

// StoreMode records which store backs the process.
func (m *AppMetrics) StoreMode(ctx context.Context, mode string, degraded bool) {
	if m == nil {
		return
	}
	var v int64
	if degraded {
		v = 1
	}
	m.storeDegraded.Record(ctx, v, metric.WithAttributes(attrStoreMode.String(mode)))
}

func counter(meter metric.Meter, name, description, unit string) (metric.Int64Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return c, nil
}
