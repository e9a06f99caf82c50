package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{ServiceName: "test"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestNewClaimsMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewClaimsMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestClaimsMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewClaimsMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordAdjustment(ctx, "21", telemetry.ResultApplied, decimal.RequireFromString("-1500"))
	m.RecordAdjustment(ctx, "21", telemetry.ResultRejected, decimal.Zero)
	m.RecordRejectedLine(ctx, "LUC_EXCEDIDO")
	m.RecordDuration(ctx, telemetry.OperationApplyAdjustments, 120*time.Millisecond)
	m.RecordReconcileMismatch(ctx, 3)
	m.RecordExport(ctx)

	got := collect(t, reader)

	adj, ok := got["siniestros_ajustes_total"]
	require.True(t, ok)
	sum := adj.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 2)

	amount := got["siniestros_ajuste_monto"].Data.(metricdata.Histogram[float64])
	require.Len(t, amount.DataPoints, 1)
	assert.Equal(t, uint64(1), amount.DataPoints[0].Count)
	assert.InDelta(t, 1500.0, amount.DataPoints[0].Sum, 0.001)

	gauge := got["siniestros_reservas_descuadradas"].Data.(metricdata.Gauge[int64])
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(3), gauge.DataPoints[0].Value)

	assert.Contains(t, got, "siniestros_lineas_rechazadas_total")
	assert.Contains(t, got, "siniestros_operacion_duracion_segundos")
	assert.Contains(t, got, "siniestros_exportaciones_total")
}

func TestClaimsMetrics_NilSafe(t *testing.T) {
	var m *telemetry.ClaimsMetrics
	assert.NotPanics(t, func() {
		m.RecordAdjustment(context.Background(), "21", telemetry.ResultApplied, decimal.NewFromInt(1))
		m.RecordExport(context.Background())
	})
}
