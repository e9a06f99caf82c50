package claims

import (
	"context"

	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultReconcileBatchSize is the number of claims read per page
const DefaultReconcileBatchSize = 200

// ReconcileReserves recomputes every reserve row balance from its movements
// and reports the rows whose cached monto_reserva differs. Nothing is written.
func (s *ReserveService) ReconcileReserves(ctx context.Context, batchSize int) (*ReconcileReport, error) {
	start := s.now()
	ctx, span := telemetry.StartServiceSpan(ctx, "reserve", "reconcile_reserves")
	defer span.End()

	if batchSize <= 0 {
		batchSize = DefaultReconcileBatchSize
	}

	report := &ReconcileReport{Descuadradas: make([]ReconcileMismatch, 0)}
	var opErr error
	telemetry.WithProfilingLabels(ctx, telemetry.ClaimsOperationLabels(telemetry.OperationReconcileReserves, ""), func(c context.Context) {
		var after int64
		for {
			if err := c.Err(); err != nil {
				opErr = err
				return
			}
			page, err := s.reserveRepo.FindPage(c, after, batchSize)
			if err != nil {
				opErr = err
				return
			}
			if len(page) == 0 {
				return
			}
			if err := s.reconcilePage(c, page, report); err != nil {
				opErr = err
				return
			}
			after = page[len(page)-1].NumSiniestro
		}
	})
	report.Duracion = s.now().Sub(start)

	if opErr != nil {
		telemetry.RecordError(span, opErr)
		s.logger.Error("Reserve reconciliation failed", zap.Error(opErr))
		return nil, opErr
	}

	s.metrics.RecordReconcileMismatch(ctx, int64(len(report.Descuadradas)))
	s.metrics.RecordDuration(ctx, telemetry.OperationReconcileReserves, report.Duracion)
	telemetry.SetAttributes(span,
		"siniestros", report.Siniestros,
		"reservas", report.Reservas,
		"descuadradas", len(report.Descuadradas),
	)
	telemetry.SetOK(span)

	s.logger.Info("Reserve reconciliation completed",
		zap.Int("siniestros", report.Siniestros),
		zap.Int("reservas", report.Reservas),
		zap.Int("descuadradas", len(report.Descuadradas)),
		zap.Duration("duracion", report.Duracion),
	)
	return report, nil
}

// reconcilePage checks the reserve rows of one page, which never splits a claim
func (s *ReserveService) reconcilePage(ctx context.Context, page []claims.Reserve, report *ReconcileReport) error {
	byClaim := make(map[int64][]claims.Reserve)
	order := make([]int64, 0)
	for _, r := range page {
		if _, seen := byClaim[r.NumSiniestro]; !seen {
			order = append(order, r.NumSiniestro)
		}
		byClaim[r.NumSiniestro] = append(byClaim[r.NumSiniestro], r)
	}

	for _, num := range order {
		movements, err := s.movementRepo.FindCoverageMovements(ctx, num)
		if err != nil {
			return err
		}
		balances := claims.BalancesByCoverage(movements)
		report.Siniestros++
		for _, r := range byClaim[num] {
			report.Reservas++
			computed := claims.ComputeBalance(nil).Current()
			if b, ok := balances[r.Key()]; ok {
				computed = b.Current()
			}
			if computed.Equal(r.MontoReserva) {
				continue
			}
			report.Descuadradas = append(report.Descuadradas, ReconcileMismatch{
				NumSiniestro:    r.NumSiniestro,
				CodRamoContable: r.CodRamoContable,
				CodCobertura:    r.CodCobertura,
				MontoReserva:    r.MontoReserva,
				SaldoCalculado:  computed,
			})
			s.logger.Warn("Reserve balance out of sync with movements",
				zap.Int64("num_siniestro", r.NumSiniestro),
				zap.String("cobertura", r.Key().String()),
				zap.String("monto_reserva", r.MontoReserva.StringFixed(2)),
				zap.String("saldo_calculado", computed.StringFixed(2)),
			)
		}
	}
	return nil
}
