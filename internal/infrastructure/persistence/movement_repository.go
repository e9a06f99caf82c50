package persistence

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/infrastructure/persistence/dberror"
	"github.com/siniestros/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// FindByClaim finds the movements of a claim, newest first, with their coverage lines
func (r *GormMovementRepository) FindByClaim(ctx context.Context, numSiniestro int64) ([]claims.Movement, error) {
	var headers []models.MovementModel
	if err := r.db.WithContext(ctx).
		Where("num_siniestro = ?", numSiniestro).
		Order("num_movimiento DESC").
		Find(&headers).Error; err != nil {
		return nil, dberror.Translate(err)
	}

	lines, err := r.FindCoverageMovements(ctx, numSiniestro)
	if err != nil {
		return nil, err
	}
	byMovement := make(map[int][]claims.CoverageMovement)
	for _, l := range lines {
		byMovement[l.NumMovimiento] = append(byMovement[l.NumMovimiento], l)
	}

	result := make([]claims.Movement, len(headers))
	for i := range headers {
		m := headers[i].ToDomain()
		m.Lines = byMovement[m.NumMovimiento]
		if m.Lines == nil {
			m.Lines = []claims.CoverageMovement{}
		}
		result[i] = m
	}
	return result, nil
}

// FindCoverageMovements finds every coverage movement of a claim in movement order
func (r *GormMovementRepository) FindCoverageMovements(ctx context.Context, numSiniestro int64) ([]claims.CoverageMovement, error) {
	var rows []models.CoverageMovementModel
	if err := r.db.WithContext(ctx).
		Where("num_siniestro = ?", numSiniestro).
		Order("num_movimiento, cod_ramo_contable, cod_cobertura").
		Find(&rows).Error; err != nil {
		return nil, dberror.Translate(err)
	}
	result := make([]claims.CoverageMovement, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// CountCoverageMovements counts the movements recorded for one coverage of a claim
func (r *GormMovementRepository) CountCoverageMovements(ctx context.Context, numSiniestro int64, key claims.CoverageKey) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CoverageMovementModel{}).
		Where("num_siniestro = ? AND cod_ramo_contable = ? AND cod_cobertura = ?",
			numSiniestro, key.CodRamoContable, key.CodCobertura).
		Count(&count).Error; err != nil {
		return 0, dberror.Translate(err)
	}
	return count, nil
}

// SumCertificatePayments sums settlements and payments of one certificate
// coverage across every claim of the certificate
func (r *GormMovementRepository) SumCertificatePayments(ctx context.Context, cert claims.CertificateKey, key claims.CoverageKey) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Table("movimientos_cobertura mc").
		Joins("JOIN siniestros s ON s.num_siniestro = mc.num_siniestro").
		Where("s.cod_ramo = ? AND s.num_poliza = ? AND s.num_certificado = ?", cert.CodRamo, cert.NumPoliza, cert.NumCertificado).
		Where("mc.cod_ramo_contable = ? AND mc.cod_cobertura = ?", key.CodRamoContable, key.CodCobertura).
		Where("mc.tipo IN ?", []string{string(claims.MovementSettlement), string(claims.MovementPayment)}).
		Select("SUM(mc.monto)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, dberror.Translate(err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// NextNumber returns MAX(num_movimiento)+1 for the claim.
// Callers hold the claim row lock so concurrent allocations serialize.
func (r *GormMovementRepository) NextNumber(ctx context.Context, numSiniestro int64) (int, error) {
	var maxNum sql.NullInt64
	if err := r.db.WithContext(ctx).
		Model(&models.MovementModel{}).
		Where("num_siniestro = ?", numSiniestro).
		Select("MAX(num_movimiento)").
		Row().Scan(&maxNum); err != nil {
		return 0, dberror.Translate(err)
	}
	return int(maxNum.Int64) + 1, nil
}

// Create inserts a movement header and its coverage lines
func (r *GormMovementRepository) Create(ctx context.Context, movement *claims.Movement) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(models.MovementModelFromDomain(movement)).Error; err != nil {
		return dberror.Translate(err)
	}
	if len(movement.Lines) == 0 {
		return nil
	}
	lines := make([]*models.CoverageMovementModel, len(movement.Lines))
	for i := range movement.Lines {
		lines[i] = models.CoverageMovementModelFromDomain(&movement.Lines[i])
	}
	if err := db.Create(&lines).Error; err != nil {
		return dberror.Translate(err)
	}
	return nil
}

// Exists reports whether a movement exists
func (r *GormMovementRepository) Exists(ctx context.Context, numSiniestro int64, numMovimiento int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MovementModel{}).
		Where("num_siniestro = ? AND num_movimiento = ?", numSiniestro, numMovimiento).
		Count(&count).Error; err != nil {
		return false, dberror.Translate(err)
	}
	return count > 0, nil
}

// Ensure GormMovementRepository implements MovementRepository
var _ claims.MovementRepository = (*GormMovementRepository)(nil)
