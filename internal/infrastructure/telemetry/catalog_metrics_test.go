package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Sum[int64] {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Sum[int64]{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				out[m.Name] = sum
			}
		}
	}
	return out
}

func TestNewCatalogMetrics_NilMeter(t *testing.T) {
	_, err := NewCatalogMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestCatalogMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewCatalogMetrics(provider.Meter("catalog-test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordMutation(ctx, "skill", "delete")
	m.RecordMutation(ctx, "skill", "delete")
	m.RecordMutation(ctx, "exercise", "create")
	m.RecordOrphanedExercises(ctx, 3)
	m.RecordOrphanedExercises(ctx, 0)

	sums := collectSums(t, reader)

	mutations, ok := sums[MetricCatalogMutations]
	require.True(t, ok)
	assert.True(t, mutations.IsMonotonic)
	byKey := map[string]int64{}
	for _, dp := range mutations.DataPoints {
		entity, _ := dp.Attributes.Value(AttrEntity)
		action, _ := dp.Attributes.Value(AttrAction)
		byKey[entity.AsString()+"."+action.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"skill.delete": 2, "exercise.create": 1}, byKey)

	orphaned, ok := sums[MetricCatalogOrphanedExercise]
	require.True(t, ok)
	require.Len(t, orphaned.DataPoints, 1)
	assert.Equal(t, int64(3), orphaned.DataPoints[0].Value)
}
