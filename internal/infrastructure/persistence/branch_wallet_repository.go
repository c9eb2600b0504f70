package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBranchWalletRepository implements BranchWalletRepository using GORM
type GormBranchWalletRepository struct {
	db *gorm.DB
}

// NewGormBranchWalletRepository creates a new GormBranchWalletRepository
func NewGormBranchWalletRepository(db *gorm.DB) *GormBranchWalletRepository {
	return &GormBranchWalletRepository{db: db}
}

// Get returns the branch wallet, or a zero wallet when the branch has none yet
func (r *GormBranchWalletRepository) Get(ctx context.Context, companyID, branchID uuid.UUID) (*finance.BranchWallet, error) {
	var model models.BranchWalletModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND branch_id = ?", companyID, branchID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return finance.NewBranchWallet(companyID, branchID), nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetForUpdate makes sure the wallet row exists, then locks it
func (r *GormBranchWalletRepository) GetForUpdate(ctx context.Context, companyID, branchID uuid.UUID) (*finance.BranchWallet, error) {
	if err := r.ensure(ctx, companyID, branchID); err != nil {
		return nil, err
	}
	var model models.BranchWalletModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND branch_id = ?", companyID, branchID).
		First(&model).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// SumBalances totals every wallet of the company
func (r *GormBranchWalletRepository) SumBalances(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.BranchWalletModel{}).
		Select("COALESCE(SUM(current_balance), 0) as total").
		Where("company_id = ?", companyID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// ApplyDelta adds delta to the stored balance. The arithmetic happens in SQL
// so concurrent deltas on the same branch never lose an update.
func (r *GormBranchWalletRepository) ApplyDelta(ctx context.Context, companyID, branchID uuid.UUID, delta decimal.Decimal) error {
	if err := r.ensure(ctx, companyID, branchID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.BranchWalletModel{}).
		Where("branch_id = ?", branchID).
		Updates(map[string]any{
			"current_balance": gorm.Expr("current_balance + ?", delta),
			"updated_at":      time.Now(),
		}).Error
}

// Save overwrites the stored balance
func (r *GormBranchWalletRepository) Save(ctx context.Context, wallet *finance.BranchWallet) error {
	model := models.BranchWalletModelFromDomain(wallet)
	model.CreatedAt = model.UpdatedAt
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "branch_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_balance", "updated_at"}),
		}).
		Create(model).Error
}

// ensure inserts a zero wallet unless one already exists
func (r *GormBranchWalletRepository) ensure(ctx context.Context, companyID, branchID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "branch_id"}}, DoNothing: true}).
		Create(&models.BranchWalletModel{
			BranchID:       branchID,
			CompanyID:      companyID,
			CurrentBalance: decimal.Zero,
			CreatedAt:      now,
			UpdatedAt:      now,
		}).Error
}

// GormBalanceAdjustmentRepository implements BalanceAdjustmentRepository using GORM
type GormBalanceAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormBalanceAdjustmentRepository creates a new GormBalanceAdjustmentRepository
func NewGormBalanceAdjustmentRepository(db *gorm.DB) *GormBalanceAdjustmentRepository {
	return &GormBalanceAdjustmentRepository{db: db}
}

// Create appends an adjustment record
func (r *GormBalanceAdjustmentRepository) Create(ctx context.Context, adjustment *finance.BalanceAdjustment) error {
	return r.db.WithContext(ctx).Create(models.BalanceAdjustmentModelFromDomain(adjustment)).Error
}

func (r *GormBalanceAdjustmentRepository) filtered(ctx context.Context, f finance.AdjustmentFilter) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.BalanceAdjustmentModel{}).
		Scopes(branchScope(f.CompanyID, f.BranchID))
}

// FindAll lists adjustments newest first
func (r *GormBalanceAdjustmentRepository) FindAll(ctx context.Context, filter finance.AdjustmentFilter) ([]finance.BalanceAdjustment, error) {
	var rows []models.BalanceAdjustmentModel
	if err := r.filtered(ctx, filter).
		Scopes(pageScope(filter.Filter, AdjustmentSortFields, "created_at", "DESC")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	adjustments := make([]finance.BalanceAdjustment, len(rows))
	for i := range rows {
		adjustments[i] = *rows[i].ToDomain()
	}
	return adjustments, nil
}

// Count counts adjustments matching the filter
func (r *GormBalanceAdjustmentRepository) Count(ctx context.Context, filter finance.AdjustmentFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var (
	_ finance.BranchWalletRepository      = (*GormBranchWalletRepository)(nil)
	_ finance.BalanceAdjustmentRepository = (*GormBalanceAdjustmentRepository)(nil)
)
