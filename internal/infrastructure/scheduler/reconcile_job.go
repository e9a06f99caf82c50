package scheduler

import (
	"context"

	appclaims "github.com/siniestros/backend/internal/application/claims"
	"github.com/siniestros/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReconcileJobName identifies the reserve reconciliation job
const ReconcileJobName = "reserve_reconciliation"

// ReserveReconciler compares cached reserve balances against movement history
type ReserveReconciler interface {
	ReconcileReserves(ctx context.Context, batchSize int) (*appclaims.ReconcileReport, error)
}

// RegisterReconciliation schedules the nightly reserve reconciliation
func RegisterReconciliation(s *Scheduler, reconciler ReserveReconciler, cfg config.SchedulerConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	return s.Register(ReconcileJobName, cfg.ReconcileSchedule, func(ctx context.Context) error {
		report, err := reconciler.ReconcileReserves(ctx, cfg.BatchSize)
		if err != nil {
			return err
		}
		logger.Info("Reserve reconciliation finished",
			zap.Int("siniestros", report.Siniestros),
			zap.Int("reservas", report.Reservas),
			zap.Int("descuadradas", len(report.Descuadradas)),
			zap.Duration("duracion", report.Duracion),
		)
		return nil
	})
}
