package persistence

import (
	"context"
	"errors"

	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFinancialTransactionRepository implements FinancialTransactionRepository using GORM
type GormFinancialTransactionRepository struct {
	db *gorm.DB
}

// NewGormFinancialTransactionRepository creates a new GormFinancialTransactionRepository
func NewGormFinancialTransactionRepository(db *gorm.DB) *GormFinancialTransactionRepository {
	return &GormFinancialTransactionRepository{db: db}
}

// FindByID finds a transaction of the company
func (r *GormFinancialTransactionRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*finance.FinancialTransaction, error) {
	var model models.FinancialTransactionModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("financial transaction not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormFinancialTransactionRepository) filtered(ctx context.Context, f finance.TransactionFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{}).
		Scopes(branchScope(f.CompanyID, f.BranchID), dateRangeScope("transaction_date", f.Date))
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	return q
}

// FindAll lists transactions newest first unless another order is requested
func (r *GormFinancialTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.FinancialTransaction, error) {
	var rows []models.FinancialTransactionModel
	if err := r.filtered(ctx, filter).
		Scopes(pageScope(filter.Filter, TransactionSortFields, "transaction_date", "DESC")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	transactions := make([]finance.FinancialTransaction, len(rows))
	for i := range rows {
		transactions[i] = *rows[i].ToDomain()
	}
	return transactions, nil
}

// Count counts transactions matching the filter
func (r *GormFinancialTransactionRepository) Count(ctx context.Context, filter finance.TransactionFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByType totals income and expense within the date range
func (r *GormFinancialTransactionRepository) SumByType(ctx context.Context, companyID uuid.UUID, branchID *uuid.UUID, date shared.DateRange) (decimal.Decimal, decimal.Decimal, error) {
	var rows []struct {
		Type  string
		Total decimal.Decimal
	}
	if err := r.filtered(ctx, finance.TransactionFilter{CompanyID: companyID, BranchID: branchID, Date: date}).
		Select("type, COALESCE(SUM(amount), 0) as total").
		Group("type").
		Scan(&rows).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	income, expense := decimal.Zero, decimal.Zero
	for _, row := range rows {
		switch finance.TransactionType(row.Type) {
		case finance.TransactionTypeIncome:
			income = row.Total
		case finance.TransactionTypeExpense:
			expense = row.Total
		}
	}
	return income, expense, nil
}

// Create inserts a new transaction
func (r *GormFinancialTransactionRepository) Create(ctx context.Context, ft *finance.FinancialTransaction) error {
	return r.db.WithContext(ctx).Create(models.FinancialTransactionModelFromDomain(ft)).Error
}

// Update rewrites every mutable column of the transaction
func (r *GormFinancialTransactionRepository) Update(ctx context.Context, ft *finance.FinancialTransaction) error {
	model := models.FinancialTransactionModelFromDomain(ft)
	result := r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{}).
		Where("company_id = ? AND id = ?", ft.CompanyID, ft.ID).
		Updates(map[string]any{
			"branch_id":        model.BranchID,
			"type":             model.Type,
			"amount":           model.Amount,
			"description":      model.Description,
			"transaction_date": model.TransactionDate,
			"origin_type":      model.OriginType,
			"origin_id":        model.OriginID,
			"document_number":  model.DocumentNumber,
			"notes":            model.Notes,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("financial transaction not found")
	}
	return nil
}

// Delete hard-deletes a transaction
func (r *GormFinancialTransactionRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FinancialTransactionModel{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("financial transaction not found")
	}
	return nil
}

var _ finance.FinancialTransactionRepository = (*GormFinancialTransactionRepository)(nil)
