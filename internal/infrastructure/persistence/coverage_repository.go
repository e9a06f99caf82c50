package persistence

import (
	"context"

	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/infrastructure/persistence/dberror"
	"github.com/siniestros/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCoverageRepository implements CoverageRepository using GORM
type GormCoverageRepository struct {
	db *gorm.DB
}

// NewGormCoverageRepository creates a new GormCoverageRepository
func NewGormCoverageRepository(db *gorm.DB) *GormCoverageRepository {
	return &GormCoverageRepository{db: db}
}

// FindCatalog finds the catalog coverages of a line of business, by priority
func (r *GormCoverageRepository) FindCatalog(ctx context.Context, codRamo string) ([]claims.Coverage, error) {
	var rows []models.CoverageModel
	if err := r.db.WithContext(ctx).
		Where("cod_ramo = ?", codRamo).
		Order("prioridad, cod_ramo_contable, cod_cobertura").
		Find(&rows).Error; err != nil {
		return nil, dberror.Translate(err)
	}
	result := make([]claims.Coverage, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// FindCertificateCoverages finds the coverages contracted on a certificate
func (r *GormCoverageRepository) FindCertificateCoverages(ctx context.Context, key claims.CertificateKey) ([]claims.CertificateCoverage, error) {
	var rows []models.CertificateCoverageModel
	if err := r.db.WithContext(ctx).
		Where("cod_ramo = ? AND num_poliza = ? AND num_certificado = ?", key.CodRamo, key.NumPoliza, key.NumCertificado).
		Order("cod_ramo_contable, cod_cobertura").
		Find(&rows).Error; err != nil {
		return nil, dberror.Translate(err)
	}
	result := make([]claims.CertificateCoverage, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// FindLucLimits finds the combined single limits of a certificate
func (r *GormCoverageRepository) FindLucLimits(ctx context.Context, key claims.CertificateKey) ([]claims.LucLimit, error) {
	var rows []models.LucLimitModel
	if err := r.db.WithContext(ctx).
		Where("cod_ramo = ? AND num_poliza = ? AND num_certificado = ?", key.CodRamo, key.NumPoliza, key.NumCertificado).
		Find(&rows).Error; err != nil {
		return nil, dberror.Translate(err)
	}
	result := make([]claims.LucLimit, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// FindReserveAccounts finds the accounts used for reserve entries
func (r *GormCoverageRepository) FindReserveAccounts(ctx context.Context) ([]claims.ReserveAccounts, error) {
	var rows []models.ReserveAccountsModel
	if err := r.db.WithContext(ctx).Order("cod_ramo_contable").Find(&rows).Error; err != nil {
		return nil, dberror.Translate(err)
	}
	result := make([]claims.ReserveAccounts, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// Ensure GormCoverageRepository implements CoverageRepository
var _ claims.CoverageRepository = (*GormCoverageRepository)(nil)
