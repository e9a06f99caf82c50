package persistence

import (
	"context"
	"database/sql"

	"github.com/siniestros/backend/internal/domain/claims"
	"github.com/siniestros/backend/internal/infrastructure/persistence/dberror"
	"github.com/siniestros/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// EntrySequence is the PostgreSQL sequence that numbers accounting entries
const EntrySequence = "seq_asientos"

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// NextEntryNumber allocates the next accounting entry number.
// PostgreSQL uses the seq_asientos sequence; other dialects fall back to MAX+1
// inside the caller's transaction.
func (r *GormLedgerRepository) NextEntryNumber(ctx context.Context) (int64, error) {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		var next int64
		if err := db.Raw("SELECT nextval('" + EntrySequence + "')").Row().Scan(&next); err != nil {
			return 0, dberror.Translate(err)
		}
		return next, nil
	}

	var maxNum sql.NullInt64
	if err := db.Model(&models.AccountingEntryModel{}).
		Select("MAX(num_asiento)").
		Row().Scan(&maxNum); err != nil {
		return 0, dberror.Translate(err)
	}
	return maxNum.Int64 + 1, nil
}

// CreateEntries inserts the lines of an accounting entry
func (r *GormLedgerRepository) CreateEntries(ctx context.Context, entries []claims.AccountingEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.AccountingEntryModel, len(entries))
	for i := range entries {
		rows[i] = models.AccountingEntryModelFromDomain(&entries[i])
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return dberror.Translate(err)
	}
	return nil
}

// FindByMovement finds the accounting lines written for a movement
func (r *GormLedgerRepository) FindByMovement(ctx context.Context, numSiniestro int64, numMovimiento int) ([]claims.AccountingEntry, error) {
	var rows []models.AccountingEntryModel
	if err := r.db.WithContext(ctx).
		Where("num_siniestro = ? AND num_movimiento = ?", numSiniestro, numMovimiento).
		Order("num_asiento, linea").
		Find(&rows).Error; err != nil {
		return nil, dberror.Translate(err)
	}
	result := make([]claims.AccountingEntry, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ claims.LedgerRepository = (*GormLedgerRepository)(nil)
