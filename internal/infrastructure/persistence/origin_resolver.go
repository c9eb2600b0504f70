package persistence

import (
	"context"

	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOriginResolver checks origins against tables shared with other services.
// Only maintenance orders are stored in the ledger database; other origin
// types are trusted.
type GormOriginResolver struct {
	db *gorm.DB
}

// NewGormOriginResolver creates a new GormOriginResolver
func NewGormOriginResolver(db *gorm.DB) *GormOriginResolver {
	return &GormOriginResolver{db: db}
}

// Exists reports whether the origin exists in the company and branch
func (r *GormOriginResolver) Exists(ctx context.Context, origin finance.Origin, companyID, branchID uuid.UUID) (bool, error) {
	if origin.ID == nil || origin.Type != finance.OriginTypeMaintenanceOrder {
		return true, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MaintenanceOrderModel{}).
		Where("id = ? AND company_id = ? AND branch_id = ?", *origin.ID, companyID, branchID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ finance.OriginResolver = (*GormOriginResolver)(nil)
