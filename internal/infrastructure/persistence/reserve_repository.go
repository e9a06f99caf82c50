package persistence

import (
	"context"
	"errors"

	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/infrastructure/persistence/dberror"
	"github.com/siniestros/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReserveRepository implements ReserveRepository using GORM
type GormReserveRepository struct {
	db *gorm.DB
}

// NewGormReserveRepository creates a new GormReserveRepository
func NewGormReserveRepository(db *gorm.DB) *GormReserveRepository {
	return &GormReserveRepository{db: db}
}

// FindByClaim finds every reserve row of a claim ordered by coverage key
func (r *GormReserveRepository) FindByClaim(ctx context.Context, numSiniestro int64) ([]claims.Reserve, error) {
	var rows []models.ReserveModel
	if err := r.db.WithContext(ctx).
		Where("num_siniestro = ?", numSiniestro).
		Order("cod_ramo_contable, cod_cobertura").
		Find(&rows).Error; err != nil {
		return nil, dberror.Translate(err)
	}
	return toReserves(rows), nil
}

// FindOne finds the reserve row of one coverage
func (r *GormReserveRepository) FindOne(ctx context.Context, numSiniestro int64, key claims.CoverageKey) (*claims.Reserve, error) {
	var model models.ReserveModel
	if err := r.db.WithContext(ctx).
		Where("num_siniestro = ? AND cod_ramo_contable = ? AND cod_cobertura = ?",
			numSiniestro, key.CodRamoContable, key.CodCobertura).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, claims.ErrReserveNotFound.WithDetail("cobertura", key.String())
		}
		return nil, dberror.Translate(err)
	}
	reserve := model.ToDomain()
	return &reserve, nil
}

// Create inserts a new reserve row
func (r *GormReserveRepository) Create(ctx context.Context, reserve *claims.Reserve) error {
	err := r.db.WithContext(ctx).Create(models.ReserveModelFromDomain(reserve)).Error
	if err != nil {
		err = dberror.Translate(err)
		if errors.Is(err, dberror.ErrDuplicate) {
			return claims.ErrDuplicateReserve.WithDetail("cobertura", reserve.Key().String())
		}
		return err
	}
	return nil
}

// Update stores the cached balance of a reserve row
func (r *GormReserveRepository) Update(ctx context.Context, reserve *claims.Reserve) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReserveModel{}).
		Where("num_siniestro = ? AND cod_ramo_contable = ? AND cod_cobertura = ?",
			reserve.NumSiniestro, reserve.CodRamoContable, reserve.CodCobertura).
		Updates(map[string]any{
			"monto_reserva":  reserve.MontoReserva,
			"fec_ult_ajuste": reserve.FecUltAjuste,
			"usuario":        reserve.Usuario,
		})
	if result.Error != nil {
		return dberror.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return claims.ErrReserveNotFound.WithDetail("cobertura", reserve.Key().String())
	}
	return nil
}

// Delete removes the reserve row of one coverage
func (r *GormReserveRepository) Delete(ctx context.Context, numSiniestro int64, key claims.CoverageKey) error {
	result := r.db.WithContext(ctx).
		Where("num_siniestro = ? AND cod_ramo_contable = ? AND cod_cobertura = ?",
			numSiniestro, key.CodRamoContable, key.CodCobertura).
		Delete(&models.ReserveModel{})
	if result.Error != nil {
		return dberror.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return claims.ErrReserveNotFound.WithDetail("cobertura", key.String())
	}
	return nil
}

// FindPage returns reserve rows of claims numbered above afterSiniestro.
// Pages never split a claim, so a page may hold more than limit rows.
func (r *GormReserveRepository) FindPage(ctx context.Context, afterSiniestro int64, limit int) ([]claims.Reserve, error) {
	var nums []int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReserveModel{}).
		Distinct("num_siniestro").
		Where("num_siniestro > ?", afterSiniestro).
		Order("num_siniestro").
		Limit(limit).
		Pluck("num_siniestro", &nums).Error; err != nil {
		return nil, dberror.Translate(err)
	}
	if len(nums) == 0 {
		return []claims.Reserve{}, nil
	}

	var rows []models.ReserveModel
	if err := r.db.WithContext(ctx).
		Where("num_siniestro IN ?", nums).
		Order("num_siniestro, cod_ramo_contable, cod_cobertura").
		Find(&rows).Error; err != nil {
		return nil, dberror.Translate(err)
	}
	return toReserves(rows), nil
}

func toReserves(rows []models.ReserveModel) []claims.Reserve {
	result := make([]claims.Reserve, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result
}

// Ensure GormReserveRepository implements ReserveRepository
var _ claims.ReserveRepository = (*GormReserveRepository)(nil)
