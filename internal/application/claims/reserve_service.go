package claims

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/domain/shared"
	"github.com/siniestros/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Config holds the reserve rules configuration
type Config struct {
	Rules           claims.BranchRules
	DefaultAccounts claims.ReserveAccounts // Used when cuentas_reserva has no row for the accounting line
	IdempotencyTTL  time.Duration
}

// ClaimLocker serializes reserve changes of one claim across instances
type ClaimLocker interface {
	// Lock holds the claim until release is called.
	// It returns claims.ErrClaimBusy when another holder has it.
	Lock(ctx context.Context, numSiniestro int64) (release func(context.Context) error, err error)
}

// noopLocker is used when no distributed lock is configured
type noopLocker struct{}

func (noopLocker) Lock(context.Context, int64) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// ReserveService handles the reserve adjustment operations of a claim
type ReserveService struct {
	claimRepo    claims.ClaimRepository
	coverageRepo claims.CoverageRepository
	reserveRepo  claims.ReserveRepository
	movementRepo claims.MovementRepository
	ledgerRepo   claims.LedgerRepository
	direct       *NoOpTransactionScope
	txScope      TransactionScope
	locker       ClaimLocker
	idempotency  shared.IdempotencyStore
	metrics      *telemetry.ClaimsMetrics
	cfg          Config
	logger       *zap.Logger
	now          func() time.Time
}

// NewReserveService creates a new ReserveService
func NewReserveService(
	claimRepo claims.ClaimRepository,
	coverageRepo claims.CoverageRepository,
	reserveRepo claims.ReserveRepository,
	movementRepo claims.MovementRepository,
	ledgerRepo claims.LedgerRepository,
	txScope TransactionScope,
	cfg Config,
	logger *zap.Logger,
) *ReserveService {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &ReserveService{
		claimRepo:    claimRepo,
		coverageRepo: coverageRepo,
		reserveRepo:  reserveRepo,
		movementRepo: movementRepo,
		ledgerRepo:   ledgerRepo,
		direct:       NewNoOpTransactionScope(claimRepo, coverageRepo, reserveRepo, movementRepo, ledgerRepo),
		txScope:      txScope,
		locker:       noopLocker{},
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// SetLocker sets the distributed claim lock used by ApplyAdjustments
func (s *ReserveService) SetLocker(locker ClaimLocker) {
	if locker == nil {
		locker = noopLocker{}
	}
	s.locker = locker
}

// SetIdempotencyStore sets the store that remembers Idempotency-Key values
func (s *ReserveService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency = store
}

// SetMetrics sets the business metrics recorder
func (s *ReserveService) SetMetrics(metrics *telemetry.ClaimsMetrics) {
	s.metrics = metrics
}

// GetClaim returns a claim with its policy and certificate
func (s *ReserveService) GetClaim(ctx context.Context, numSiniestro int64) (*ClaimDetailResponse, error) {
	claim, err := s.claimRepo.FindByNumber(ctx, numSiniestro)
	if err != nil {
		return nil, err
	}
	policy, err := s.claimRepo.FindPolicy(ctx, claim.CodRamo, claim.NumPoliza)
	if err != nil {
		return nil, err
	}
	certificate, err := s.claimRepo.FindCertificate(ctx, claim.CertificateKey())
	if err != nil {
		return nil, err
	}
	return &ClaimDetailResponse{
		Claim:       *claim,
		Poliza:      policy,
		Certificado: certificate,
		TipoRamo:    s.cfg.Rules.KindOf(claim.CodRamo),
	}, nil
}

// ListClaims searches claims
func (s *ReserveService) ListClaims(ctx context.Context, filter claims.ClaimFilter) (*shared.Paginated[claims.Claim], error) {
	filter.Filter = filter.Normalize()
	items, total, err := s.claimRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListReserves returns the reserve rows of a claim in priority order
func (s *ReserveService) ListReserves(ctx context.Context, numSiniestro int64) ([]ReserveRowResponse, error) {
	claim, err := s.claimRepo.FindByNumber(ctx, numSiniestro)
	if err != nil {
		return nil, err
	}
	snap, err := loadSnapshot(ctx, s.direct, s.cfg.Rules, claim)
	if err != nil {
		return nil, err
	}

	rows := make([]ReserveRowResponse, 0, len(snap.reserves))
	for _, r := range snap.reserves {
		key := r.Key()
		cov := snap.coverage(key)
		b := snap.balance(key)
		row := ReserveRowResponse{
			CodRamoContable: r.CodRamoContable,
			CodCobertura:    r.CodCobertura,
			Descripcion:     cov.Descripcion,
			CodLuc:          cov.CodLuc,
			Prioridad:       cov.Prioridad,
			SumaAsegurada:   decimal.Zero,
			Reservado:       b.Reserved,
			Pagos:           b.Payments(),
			Deducibles:      b.Deductibles,
			SaldoActual:     b.Current(),
			Disponible:      decimal.Zero,
			MontoReserva:    r.MontoReserva,
			FecCreacion:     r.FecCreacion,
			FecUltAjuste:    r.FecUltAjuste,
			Usuario:         r.Usuario,
		}

		sum, err := snap.insuredSum(ctx, s.direct, s.cfg.Rules, key)
		switch {
		case err == nil:
			row.SumaAsegurada = sum.Amount
			row.Pagos = sum.Payments
			row.Disponible = sum.Available()
			row.OrigenSuma = sum.Source
		case isNotContracted(err):
		default:
			return nil, err
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Prioridad != rows[j].Prioridad {
			return rows[i].Prioridad < rows[j].Prioridad
		}
		ki := claims.CoverageKey{CodRamoContable: rows[i].CodRamoContable, CodCobertura: rows[i].CodCobertura}
		kj := claims.CoverageKey{CodRamoContable: rows[j].CodRamoContable, CodCobertura: rows[j].CodCobertura}
		return ki.Less(kj)
	})
	return rows, nil
}

// GetBalance returns the balance breakdown of one coverage computed from its movements
func (s *ReserveService) GetBalance(ctx context.Context, numSiniestro int64, key claims.CoverageKey) (*BalanceResponse, error) {
	if _, err := s.claimRepo.FindByNumber(ctx, numSiniestro); err != nil {
		return nil, err
	}
	if _, err := s.reserveRepo.FindOne(ctx, numSiniestro, key); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindCoverageMovements(ctx, numSiniestro)
	if err != nil {
		return nil, err
	}

	own := make([]claims.CoverageMovement, 0, len(movements))
	for _, m := range movements {
		if m.Key() == key {
			own = append(own, m)
		}
	}
	b := claims.ComputeBalance(own)
	return &BalanceResponse{
		NumSiniestro:    numSiniestro,
		CodRamoContable: key.CodRamoContable,
		CodCobertura:    key.CodCobertura,
		Reservado:       b.Reserved,
		Liquidado:       b.Settled,
		Deducibles:      b.Deductibles,
		SaldoActual:     b.Current(),
	}, nil
}

// GetInsuredSum returns the insured sum of one coverage with its source
func (s *ReserveService) GetInsuredSum(ctx context.Context, numSiniestro int64, key claims.CoverageKey) (*InsuredSumResponse, error) {
	claim, err := s.claimRepo.FindByNumber(ctx, numSiniestro)
	if err != nil {
		return nil, err
	}
	snap, err := loadSnapshot(ctx, s.direct, s.cfg.Rules, claim)
	if err != nil {
		return nil, err
	}
	sum, err := snap.insuredSum(ctx, s.direct, s.cfg.Rules, key)
	if err != nil {
		return nil, err
	}
	return &InsuredSumResponse{
		NumSiniestro:    numSiniestro,
		CodRamoContable: key.CodRamoContable,
		CodCobertura:    key.CodCobertura,
		SumaAsegurada:   sum.Amount,
		Pagos:           sum.Payments,
		Disponible:      sum.Available(),
		Origen:          sum.Source,
		TipoRamo:        sum.Branch,
	}, nil
}

// ValidateAdjustments checks the requested adjustments without writing anything.
// Rule failures are reported per line; only lookup errors are returned as errors.
func (s *ReserveService) ValidateAdjustments(ctx context.Context, numSiniestro int64, lines []AdjustmentLineInput) (*ValidationResponse, error) {
	start := s.now()
	ctx, span := telemetry.StartServiceSpan(ctx, "reserve", "validate_adjustments")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrClaimNumber, numSiniestro,
		telemetry.SpanAttrLineCount, len(lines),
	)

	var resp *ValidationResponse
	var opErr error
	telemetry.WithProfilingLabels(ctx, telemetry.ClaimsOperationLabels(telemetry.OperationValidateAdjustments, ""), func(c context.Context) {
		claim, err := s.claimRepo.FindByNumber(c, numSiniestro)
		if err != nil {
			opErr = err
			return
		}
		telemetry.SetAttributes(span, telemetry.SpanAttrBranch, claim.CodRamo)
		if err := claim.EnsureOpen(); err != nil {
			opErr = err
			return
		}
		snap, err := loadSnapshot(c, s.direct, s.cfg.Rules, claim)
		if err != nil {
			opErr = err
			return
		}
		result, err := snap.validate(c, s.direct, s.cfg.Rules, lines)
		if err != nil {
			opErr = err
			return
		}
		s.recordRejectedLines(c, result)
		resp = toValidationResponse(numSiniestro, result)
	})
	s.metrics.RecordDuration(ctx, telemetry.OperationValidateAdjustments, s.now().Sub(start))

	if opErr != nil {
		telemetry.RecordError(span, opErr)
		return nil, opErr
	}
	telemetry.SetOK(span)
	return resp, nil
}

// ApplyAdjustments validates the requested adjustments again and writes them atomically:
// one AJU movement, its coverage lines, the accounting entry, the reserve rows
// and the claim total.
func (s *ReserveService) ApplyAdjustments(ctx context.Context, in ApplyAdjustmentsInput) (*ApplyResponse, error) {
	start := s.now()
	ctx, span := telemetry.StartServiceSpan(ctx, "reserve", "apply_adjustments")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrClaimNumber, in.NumSiniestro,
		telemetry.SpanAttrLineCount, len(in.Lines),
		telemetry.SpanAttrUser, in.Usuario,
	)
	if in.IdempotencyKey != "" {
		telemetry.SetAttributes(span, telemetry.SpanAttrIdempotencyKey, in.IdempotencyKey)
	}

	var resp *ApplyResponse
	var opErr error
	telemetry.WithProfilingLabels(ctx, telemetry.ClaimsOperationLabels(telemetry.OperationApplyAdjustments, ""), func(c context.Context) {
		resp, opErr = s.applyAdjustments(c, in)
	})
	s.metrics.RecordDuration(ctx, telemetry.OperationApplyAdjustments, s.now().Sub(start))

	if opErr != nil {
		telemetry.RecordError(span, opErr)
		return nil, opErr
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrMovementNumber, resp.NumMovimiento,
		telemetry.SpanAttrEntryNumber, resp.NumAsiento,
		telemetry.SpanAttrAmount, resp.MontoTotal.String(),
	)
	telemetry.SetOK(span)
	return resp, nil
}

func (s *ReserveService) applyAdjustments(ctx context.Context, in ApplyAdjustmentsInput) (resp *ApplyResponse, err error) {
	if len(in.Lines) == 0 {
		return nil, claims.ErrEmptyAdjustment
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		key := idempotencyKey(in.NumSiniestro, in.IdempotencyKey)
		fresh, markErr := s.idempotency.MarkProcessed(ctx, key, s.cfg.IdempotencyTTL)
		if markErr != nil {
			return nil, fmt.Errorf("failed to record idempotency key: %w", markErr)
		}
		if !fresh {
			s.metrics.RecordAdjustment(ctx, "", telemetry.ResultDuplicate, decimal.Zero)
			return nil, shared.ErrDuplicateRequest.WithDetail("idempotency_key", in.IdempotencyKey)
		}
		defer func() {
			if err == nil {
				return
			}
			if forgetErr := s.idempotency.Forget(context.WithoutCancel(ctx), key); forgetErr != nil {
				s.logger.Warn("Failed to release idempotency key",
					zap.String("key", key),
					zap.Error(forgetErr),
				)
			}
		}()
	}

	release, err := s.locker.Lock(ctx, in.NumSiniestro)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := release(context.WithoutCancel(ctx)); releaseErr != nil {
			s.logger.Warn("Failed to release claim lock",
				zap.Int64("num_siniestro", in.NumSiniestro),
				zap.Error(releaseErr),
			)
		}
	}()

	now := s.now()
	codRamo := ""
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		claim, err := repos.Claims().FindByNumberForUpdate(ctx, in.NumSiniestro)
		if err != nil {
			return err
		}
		codRamo = claim.CodRamo
		if err := claim.EnsureOpen(); err != nil {
			return err
		}

		snap, err := loadSnapshot(ctx, repos, s.cfg.Rules, claim)
		if err != nil {
			return err
		}
		result, err := snap.validate(ctx, repos, s.cfg.Rules, in.Lines)
		if err != nil {
			return err
		}
		if !result.OK() {
			s.recordRejectedLines(ctx, result)
			return result.Error()
		}
		ordered := make([]claims.AdjustmentLine, len(result.Lines))
		for i, lr := range result.Lines {
			ordered[i] = lr.Line
		}

		numMovimiento, err := repos.Movements().NextNumber(ctx, claim.NumSiniestro)
		if err != nil {
			return err
		}
		movement := claims.NewAdjustmentMovement(claim, numMovimiento, ordered, in.Usuario, in.Observacion, now)
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		resolve, err := s.accountResolver(ctx, repos)
		if err != nil {
			return err
		}
		numAsiento, err := repos.Ledger().NextEntryNumber(ctx)
		if err != nil {
			return err
		}
		entries, err := claims.BuildAccountingEntries(numAsiento, claim, movement, resolve, now)
		if err != nil {
			return err
		}
		if err := repos.Ledger().CreateEntries(ctx, entries); err != nil {
			return err
		}

		for _, line := range ordered {
			reserve, _ := snap.reserve(line.Key)
			reserve.Adjust(line.NewAmount, in.Usuario, now)
			if err := repos.Reserves().Update(ctx, reserve); err != nil {
				return err
			}
		}

		// Claim total is the sum of the stored reserve rows
		total := decimal.Zero
		for _, r := range snap.reserves {
			total = total.Add(r.MontoReserva)
		}
		claim.ApplyReserveTotal(total, now)
		if err := repos.Claims().UpdateReserveTotal(ctx, claim); err != nil {
			return err
		}

		resp = &ApplyResponse{
			NumSiniestro:  claim.NumSiniestro,
			NumMovimiento: movement.NumMovimiento,
			NumAsiento:    numAsiento,
			MontoTotal:    movement.MontoTotal,
			ReservaTotal:  total,
			FecMovimiento: now,
			Lineas:        make([]AppliedLineResponse, 0, len(movement.Lines)),
		}
		for _, ml := range movement.Lines {
			resp.Lineas = append(resp.Lineas, AppliedLineResponse{
				CodRamoContable: ml.CodRamoContable,
				CodCobertura:    ml.CodCobertura,
				SaldoAnterior:   ml.SaldoAnterior,
				SaldoNuevo:      ml.SaldoNuevo,
				Diferencia:      ml.Monto,
			})
		}
		return nil
	})
	if err != nil {
		result := telemetry.ResultFailed
		if _, ok := shared.AsDomainError(err); ok {
			result = telemetry.ResultRejected
		}
		s.metrics.RecordAdjustment(ctx, codRamo, result, decimal.Zero)
		return nil, err
	}

	s.metrics.RecordAdjustment(ctx, codRamo, telemetry.ResultApplied, resp.MontoTotal)
	s.logger.Info("Reserve adjustment applied",
		zap.Int64("num_siniestro", resp.NumSiniestro),
		zap.Int("num_movimiento", resp.NumMovimiento),
		zap.Int64("num_asiento", resp.NumAsiento),
		zap.String("monto_total", resp.MontoTotal.StringFixed(2)),
		zap.String("usuario", in.Usuario),
	)
	return resp, nil
}

// AddReserveRow opens a zero reserve row for a coverage contracted on the claim's certificate
func (s *ReserveService) AddReserveRow(ctx context.Context, numSiniestro int64, key claims.CoverageKey, user string) (*claims.Reserve, error) {
	claim, err := s.claimRepo.FindByNumber(ctx, numSiniestro)
	if err != nil {
		return nil, err
	}
	if err := claim.EnsureOpen(); err != nil {
		return nil, err
	}

	contracted, err := s.coverageRepo.FindCertificateCoverages(ctx, claim.CertificateKey())
	if err != nil {
		return nil, err
	}
	found := false
	for _, c := range contracted {
		if c.Key() == key {
			found = true
			break
		}
	}
	if !found {
		return nil, claims.ErrCoverageNotFound.WithDetail("cobertura", key.String())
	}

	reserve := claims.NewReserve(claim, key, user, s.now())
	if err := s.reserveRepo.Create(ctx, reserve); err != nil {
		return nil, err
	}
	return reserve, nil
}

// RemoveReserveRow deletes a reserve row that has no movements and a zero balance
func (s *ReserveService) RemoveReserveRow(ctx context.Context, numSiniestro int64, key claims.CoverageKey) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		claim, err := repos.Claims().FindByNumberForUpdate(ctx, numSiniestro)
		if err != nil {
			return err
		}
		if err := claim.EnsureOpen(); err != nil {
			return err
		}
		reserve, err := repos.Reserves().FindOne(ctx, numSiniestro, key)
		if err != nil {
			return err
		}
		count, err := repos.Movements().CountCoverageMovements(ctx, numSiniestro, key)
		if err != nil {
			return err
		}
		if count > 0 || !reserve.MontoReserva.IsZero() {
			return claims.ErrReserveHasMovements.
				WithDetail("cobertura", key.String()).
				WithDetail("movimientos", count).
				WithDetail("monto_reserva", reserve.MontoReserva.StringFixed(2))
		}
		return repos.Reserves().Delete(ctx, numSiniestro, key)
	})
}

// ListMovements returns the movements of a claim, newest first
func (s *ReserveService) ListMovements(ctx context.Context, numSiniestro int64) ([]claims.Movement, error) {
	if _, err := s.claimRepo.FindByNumber(ctx, numSiniestro); err != nil {
		return nil, err
	}
	return s.movementRepo.FindByClaim(ctx, numSiniestro)
}

// ListAccountingEntries returns the accounting lines written for a movement
func (s *ReserveService) ListAccountingEntries(ctx context.Context, numSiniestro int64, numMovimiento int) ([]claims.AccountingEntry, error) {
	if _, err := s.claimRepo.FindByNumber(ctx, numSiniestro); err != nil {
		return nil, err
	}
	exists, err := s.movementRepo.Exists(ctx, numSiniestro, numMovimiento)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, claims.ErrMovementNotFound.WithDetail("num_movimiento", numMovimiento)
	}
	return s.ledgerRepo.FindByMovement(ctx, numSiniestro, numMovimiento)
}

// accountResolver maps accounting lines to reserve accounts, falling back to the configured defaults
func (s *ReserveService) accountResolver(ctx context.Context, repos TransactionalRepositories) (claims.AccountResolver, error) {
	list, err := repos.Coverages().FindReserveAccounts(ctx)
	if err != nil {
		return nil, err
	}
	byLine := make(map[string]claims.ReserveAccounts, len(list))
	for _, a := range list {
		byLine[a.CodRamoContable] = a
	}
	fallback := s.cfg.DefaultAccounts
	return func(codRamoContable string) (claims.ReserveAccounts, bool) {
		if a, ok := byLine[codRamoContable]; ok {
			return a, true
		}
		if fallback.CuentaGasto == "" || fallback.CuentaReserva == "" {
			return claims.ReserveAccounts{}, false
		}
		a := fallback
		a.CodRamoContable = codRamoContable
		return a, true
	}, nil
}

func (s *ReserveService) recordRejectedLines(ctx context.Context, result claims.BatchResult) {
	for _, lr := range result.Lines {
		if !lr.OK() {
			s.metrics.RecordRejectedLine(ctx, lr.Err.Code)
		}
	}
}

func toValidationResponse(numSiniestro int64, result claims.BatchResult) *ValidationResponse {
	resp := &ValidationResponse{
		NumSiniestro: numSiniestro,
		Valido:       result.OK(),
		Lineas:       make([]LineValidationResponse, 0, len(result.Lines)),
	}
	for _, lr := range result.Lines {
		line := LineValidationResponse{
			CodRamoContable: lr.Line.Key.CodRamoContable,
			CodCobertura:    lr.Line.Key.CodCobertura,
			Prioridad:       lr.Line.Prioridad,
			CodLuc:          lr.Line.CodLuc,
			Valido:          lr.OK(),
			SaldoActual:     lr.Line.Current(),
			NuevoMonto:      lr.Line.NewAmount,
			Diferencia:      lr.Line.Delta(),
			Disponible:      lr.Line.InsuredSum.Available(),
			DisponibleLuc:   lr.LucAvailable,
		}
		if !lr.OK() {
			line.Codigo = lr.Err.Code
			line.Mensaje = lr.Err.Message
		}
		resp.Lineas = append(resp.Lineas, line)
	}
	return resp
}

func idempotencyKey(numSiniestro int64, key string) string {
	return fmt.Sprintf("ajuste:%d:%s", numSiniestro, key)
}
