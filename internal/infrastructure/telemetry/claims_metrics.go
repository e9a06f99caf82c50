package telemetry

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// Adjustment outcomes recorded by ClaimsMetrics
const (
	ResultApplied   = "aplicado"
	ResultRejected  = "rechazado"
	ResultDuplicate = "duplicado"
	ResultFailed    = "error"
)

// ClaimsMetrics holds the business instruments of the reserve service.
type ClaimsMetrics struct {
	adjustmentsTotal   *Counter
	adjustmentAmount   *Histogram
	rejectedLinesTotal *Counter
	operationDuration  *Histogram
	reconcileMismatch  *Gauge
	exportsTotal       *Counter
}

// NewClaimsMetrics creates the reserve service instruments on the given meter.
func NewClaimsMetrics(meter metric.Meter) (*ClaimsMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &ClaimsMetrics{}
	var err error

	if m.adjustmentsTotal, err = NewCounter(meter,
		"siniestros_ajustes_total", "Reserve adjustment requests by outcome", "{request}"); err != nil {
		return nil, err
	}
	if m.adjustmentAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "siniestros_ajuste_monto",
		Description: "Absolute reserve change per applied adjustment",
		Unit:        "{currency}",
		Boundaries:  AmountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.rejectedLinesTotal, err = NewCounter(meter,
		"siniestros_lineas_rechazadas_total", "Adjustment lines rejected by validation code", "{line}"); err != nil {
		return nil, err
	}
	if m.operationDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "siniestros_operacion_duracion_segundos",
		Description: "Reserve service operation latency",
		Unit:        "s",
		Boundaries:  OperationDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.reconcileMismatch, err = NewGauge(meter,
		"siniestros_reservas_descuadradas", "Reserve rows whose cached balance differs from movements", "{row}"); err != nil {
		return nil, err
	}
	if m.exportsTotal, err = NewCounter(meter,
		"siniestros_exportaciones_total", "Reserve spreadsheet exports", "{file}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordAdjustment counts an adjustment request and, when applied, its size.
func (m *ClaimsMetrics) RecordAdjustment(ctx context.Context, codRamo, result string, delta decimal.Decimal) {
	if m == nil {
		return
	}
	m.adjustmentsTotal.Inc(ctx, AttrBranch.String(codRamo), AttrResult.String(result))
	if result == ResultApplied {
		amount, _ := delta.Abs().Float64()
		m.adjustmentAmount.Record(ctx, amount, AttrBranch.String(codRamo))
	}
}

// RecordRejectedLine counts a rejected adjustment line by error code.
func (m *ClaimsMetrics) RecordRejectedLine(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.rejectedLinesTotal.Inc(ctx, AttrErrorCode.String(code))
}

// RecordDuration records how long an operation took.
func (m *ClaimsMetrics) RecordDuration(ctx context.Context, operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.operationDuration.RecordDuration(ctx, d, AttrOperation.String(operation))
}

// RecordReconcileMismatch reports the rows found out of balance by the last reconciliation.
func (m *ClaimsMetrics) RecordReconcileMismatch(ctx context.Context, rows int64) {
	if m == nil {
		return
	}
	m.reconcileMismatch.Record(ctx, rows)
}

// RecordExport counts a spreadsheet export.
func (m *ClaimsMetrics) RecordExport(ctx context.Context) {
	if m == nil {
		return
	}
	m.exportsTotal.Inc(ctx)
}
