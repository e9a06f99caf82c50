package persistence

import (
	"context"
	"errors"

	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/infrastructure/persistence/dberror"
	"github.com/siniestros/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormClaimRepository implements ClaimRepository using GORM
type GormClaimRepository struct {
	db *gorm.DB
}

// NewGormClaimRepository creates a new GormClaimRepository
func NewGormClaimRepository(db *gorm.DB) *GormClaimRepository {
	return &GormClaimRepository{db: db}
}

// FindByNumber finds a claim by number
func (r *GormClaimRepository) FindByNumber(ctx context.Context, numSiniestro int64) (*claims.Claim, error) {
	var model models.ClaimModel
	if err := r.db.WithContext(ctx).First(&model, "num_siniestro = ?", numSiniestro).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, claims.ErrClaimNotFound.WithDetail("num_siniestro", numSiniestro)
		}
		return nil, dberror.Translate(err)
	}
	return model.ToDomain(), nil
}

// FindByNumberForUpdate finds a claim and holds a row lock (SELECT ... FOR UPDATE)
func (r *GormClaimRepository) FindByNumberForUpdate(ctx context.Context, numSiniestro int64) (*claims.Claim, error) {
	var model models.ClaimModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "num_siniestro = ?", numSiniestro).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, claims.ErrClaimNotFound.WithDetail("num_siniestro", numSiniestro)
		}
		return nil, dberror.Translate(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds claims matching the filter and returns the total count
func (r *GormClaimRepository) FindAll(ctx context.Context, filter claims.ClaimFilter) ([]claims.Claim, int64, error) {
	filter.Filter = filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.ClaimModel{})
	if filter.CodRamo != "" {
		query = query.Where("cod_ramo = ?", filter.CodRamo)
	}
	if filter.NumPoliza != nil {
		query = query.Where("num_poliza = ?", *filter.NumPoliza)
	}
	if filter.NumCertificado != nil {
		query = query.Where("num_certificado = ?", *filter.NumCertificado)
	}
	if filter.Estado != nil {
		query = query.Where("estado = ?", string(*filter.Estado))
	}
	if filter.OcurridoDesde != nil {
		query = query.Where("fec_ocurrencia >= ?", *filter.OcurridoDesde)
	}
	if filter.OcurridoHasta != nil {
		query = query.Where("fec_ocurrencia <= ?", *filter.OcurridoHasta)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dberror.Translate(err)
	}

	sortField := ValidateSortField(filter.OrderBy, ClaimSortFields, "num_siniestro")
	sortOrder := ValidateSortOrder(filter.OrderDir)

	var rows []models.ClaimModel
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, dberror.Translate(err)
	}

	result := make([]claims.Claim, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, total, nil
}

// UpdateReserveTotal stores the claim's total reserve and last movement date
func (r *GormClaimRepository) UpdateReserveTotal(ctx context.Context, claim *claims.Claim) error {
	result := r.db.WithContext(ctx).
		Model(&models.ClaimModel{}).
		Where("num_siniestro = ?", claim.NumSiniestro).
		Updates(map[string]any{
			"monto_reserva":      claim.MontoReserva,
			"fec_ult_movimiento": claim.FecUltMovimiento,
		})
	if result.Error != nil {
		return dberror.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return claims.ErrClaimNotFound.WithDetail("num_siniestro", claim.NumSiniestro)
	}
	return nil
}

// FindPolicy finds a policy by its natural key
func (r *GormClaimRepository) FindPolicy(ctx context.Context, codRamo string, numPoliza int64) (*claims.Policy, error) {
	var model models.PolicyModel
	if err := r.db.WithContext(ctx).
		Where("cod_ramo = ? AND num_poliza = ?", codRamo, numPoliza).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, claims.ErrPolicyNotFound
		}
		return nil, dberror.Translate(err)
	}
	return model.ToDomain(), nil
}

// FindCertificate finds a certificate by its natural key
func (r *GormClaimRepository) FindCertificate(ctx context.Context, key claims.CertificateKey) (*claims.Certificate, error) {
	var model models.CertificateModel
	if err := r.db.WithContext(ctx).
		Where("cod_ramo = ? AND num_poliza = ? AND num_certificado = ?", key.CodRamo, key.NumPoliza, key.NumCertificado).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, claims.ErrCertificateNotFound
		}
		return nil, dberror.Translate(err)
	}
	return model.ToDomain(), nil
}

// FindDeclaration finds a transport declaration of a certificate
func (r *GormClaimRepository) FindDeclaration(ctx context.Context, key claims.CertificateKey, numDeclaracion int64) (*claims.TransportDeclaration, error) {
	var model models.DeclarationModel
	if err := r.db.WithContext(ctx).
		Where("cod_ramo = ? AND num_poliza = ? AND num_certificado = ? AND num_declaracion = ?",
			key.CodRamo, key.NumPoliza, key.NumCertificado, numDeclaracion).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, claims.ErrDeclarationNotFound.WithDetail("num_declaracion", numDeclaracion)
		}
		return nil, dberror.Translate(err)
	}
	return model.ToDomain(), nil
}

// Ensure GormClaimRepository implements ClaimRepository
var _ claims.ClaimRepository = (*GormClaimRepository)(nil)
