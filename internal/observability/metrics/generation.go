package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	generationMeterName = "commute.generation"
)

type GenerationMetrics struct {
	usersProcessed     metric.Int64Counter
	usersDisplaced     metric.Int64Counter
	overloadedSlots    metric.Int64Counter
	enginePasses       metric.Int64Histogram
	generationDuration metric.Float64Histogram
	nudgesDispatched   metric.Int64Counter
}

func NewGenerationMetrics() (*GenerationMetrics, error) {
	meter := otel.Meter(generationMeterName)

	usersProcessed, err := meter.Int64Counter(
		"commute_users_processed_total",
		metric.WithDescription("Users that entered a window allocation"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	usersDisplaced, err := meter.Int64Counter(
		"commute_users_displaced_total",
		metric.WithDescription("Users whose final slot is not their first choice"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	overloadedSlots, err := meter.Int64Counter(
		"commute_overloaded_slots_total",
		metric.WithDescription("Slots left over capacity after allocation"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, err
	}

	enginePasses, err := meter.Int64Histogram(
		"commute_allocation_passes",
		metric.WithDescription("Passes the reallocation engine needed to reach its fixpoint"),
		metric.WithUnit("{pass}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 6, 8, 12, 16, 32),
	)
	if err != nil {
		return nil, err
	}

	generationDuration, err := meter.Float64Histogram(
		"commute_generation_duration_seconds",
		metric.WithDescription("Duration of a full generation run"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	nudgesDispatched, err := meter.Int64Counter(
		"commute_nudges_dispatched_total",
		metric.WithDescription("Nudge tasks handed to the task queue"),
		metric.WithUnit("{nudge}"),
	)
	if err != nil {
		return nil, err
	}

	return &GenerationMetrics{
		usersProcessed:     usersProcessed,
		usersDisplaced:     usersDisplaced,
		overloadedSlots:    overloadedSlots,
		enginePasses:       enginePasses,
		generationDuration: generationDuration,
		nudgesDispatched:   nudgesDispatched,
	}, nil
}

func (m *GenerationMetrics) RecordWindow(ctx context.Context, window string, users, displaced, overloaded, passes int) {
	attrs := metric.WithAttributes(attribute.String("window", window))

	m.usersProcessed.Add(ctx, int64(users), attrs)
	m.usersDisplaced.Add(ctx, int64(displaced), attrs)
	m.overloadedSlots.Add(ctx, int64(overloaded), attrs)
	m.enginePasses.Record(ctx, int64(passes), attrs)
}

func (m *GenerationMetrics) RecordGenerationDuration(ctx context.Context, outcome string, duration time.Duration) {
	m.generationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *GenerationMetrics) RecordNudgeDispatched(ctx context.Context, outcome string) {
	m.nudgesDispatched.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
