package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type drillRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&drillRow{}))
	return db
}

func setupTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func findAttr(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL, "bound variables stay out of spans by default")
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestNewDBTracingPlugin_DefaultsThreshold(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)
	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
	assert.NotNil(t, p.logger)
}

func TestRegisterOtelGorm_Disabled(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupTracer(t)

	cfg := DefaultDBTracingConfig()
	cfg.TracerProvider = tp
	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))

	require.NoError(t, db.Create(&drillRow{Name: "rondo"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestRegisterOtelGorm_EmitsSpans(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupTracer(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	cfg.TracerProvider = tp
	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))

	require.NoError(t, db.Create(&drillRow{Name: "rondo"}).Error)
	var found drillRow
	require.NoError(t, db.First(&found).Error)
	assert.Equal(t, "rondo", found.Name)

	assert.NotEmpty(t, recorder.Ended())
}

func TestRegisterOtelGorm_DoubleRegistrationFails(t *testing.T) {
	db := setupTestDB(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true

	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))
	assert.Error(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))
}

func TestMarkQueryStart(t *testing.T) {
	db := setupTestDB(t).WithContext(context.Background())
	markQueryStart(db)

	start, ok := db.Statement.Context.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}

func TestSlowQueryCallback(t *testing.T) {
	t.Run("annotates rows and table", func(t *testing.T) {
		db := setupTestDB(t)
		tp, recorder := setupTracer(t)
		ctx, span := tp.Tracer("test").Start(context.Background(), "insert")

		require.NoError(t, db.Create(&[]drillRow{{Name: "a"}, {Name: "b"}}).Error)
		tx := db.WithContext(ctx).Where("1 = 1").Delete(&drillRow{})
		require.NoError(t, tx.Error)

		NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).slowQueryCallback(tx)
		span.End()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		rows, ok := findAttr(spans[0].Attributes(), "db.rows_affected")
		require.True(t, ok)
		assert.Equal(t, int64(2), rows.AsInt64())
		table, ok := findAttr(spans[0].Attributes(), "db.sql.table")
		require.True(t, ok)
		assert.Equal(t, "drill_rows", table.AsString())
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		db := setupTestDB(t)
		tp, recorder := setupTracer(t)
		ctx, span := tp.Tracer("test").Start(context.Background(), "lookup")

		var row drillRow
		tx := db.WithContext(ctx).First(&row, 99999)
		require.ErrorIs(t, tx.Error, gorm.ErrRecordNotFound)

		NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).slowQueryCallback(tx)
		span.End()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("real errors mark the span", func(t *testing.T) {
		db := setupTestDB(t)
		tp, recorder := setupTracer(t)
		ctx, span := tp.Tracer("test").Start(context.Background(), "broken")

		tx := db.WithContext(ctx).Exec("SELECT * FROM no_such_table")
		require.Error(t, tx.Error)

		NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).slowQueryCallback(tx)
		span.End()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("flags queries over the threshold", func(t *testing.T) {
		db := setupTestDB(t)
		tp, recorder := setupTracer(t)
		ctx, span := tp.Tracer("test").Start(context.Background(), "slow")
		ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))

		var rows []drillRow
		tx := db.WithContext(ctx).Find(&rows)
		require.NoError(t, tx.Error)

		cfg := DefaultDBTracingConfig()
		cfg.SlowQueryThresh = time.Millisecond
		NewDBTracingPlugin(cfg, zap.NewNop()).slowQueryCallback(tx)
		span.End()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		slow, ok := findAttr(spans[0].Attributes(), "db.slow_query")
		require.True(t, ok)
		assert.True(t, slow.AsBool())
		require.Len(t, spans[0].Events(), 1)
		assert.Equal(t, "slow_query_warning", spans[0].Events()[0].Name)
	})

	t.Run("ignores non-recording spans", func(t *testing.T) {
		tx := setupTestDB(t).WithContext(context.Background())
		assert.NotPanics(t, func() {
			NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).slowQueryCallback(tx)
		})
	})
}
