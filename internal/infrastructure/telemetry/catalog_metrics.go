package telemetry

import (
	"context"
	"errors"

	catalogapp "github.com/touchline/backend/internal/application/catalog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor gets a nil meter
var ErrMeterNil = errors.New("meter is nil")

// Metric names
const (
	MetricCatalogMutations        = "catalog.mutations"
	MetricCatalogOrphanedExercise = "catalog.exercises.orphaned"
)

// Attribute keys on catalog.mutations
var (
	AttrEntity = attribute.Key("catalog.entity")
	AttrAction = attribute.Key("catalog.action")
)

// CatalogMetrics records catalog writes and orphan cleanups
type CatalogMetrics struct {
	mutations metric.Int64Counter
	orphaned  metric.Int64Counter
}

// NewCatalogMetrics creates the catalog counters on meter
func NewCatalogMetrics(meter metric.Meter) (*CatalogMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	mutations, err := meter.Int64Counter(MetricCatalogMutations,
		metric.WithDescription("Committed catalog writes"),
		metric.WithUnit("{write}"))
	if err != nil {
		return nil, err
	}
	orphaned, err := meter.Int64Counter(MetricCatalogOrphanedExercise,
		metric.WithDescription("Exercises deleted because all of their skills were deleted"),
		metric.WithUnit("{exercise}"))
	if err != nil {
		return nil, err
	}
	return &CatalogMetrics{mutations: mutations, orphaned: orphaned}, nil
}

// RecordMutation counts one committed write
func (m *CatalogMetrics) RecordMutation(ctx context.Context, entity, action string) {
	m.mutations.Add(ctx, 1, metric.WithAttributes(AttrEntity.String(entity), AttrAction.String(action)))
}

// RecordOrphanedExercises counts exercises removed by orphan cleanup
func (m *CatalogMetrics) RecordOrphanedExercises(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	m.orphaned.Add(ctx, int64(count))
}

// Ensure CatalogMetrics implements catalogapp.MetricsRecorder
var _ catalogapp.MetricsRecorder = (*CatalogMetrics)(nil)
