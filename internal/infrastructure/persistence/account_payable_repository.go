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
	"gorm.io/gorm/clause"
)

var payableTable = obligationTable{
	model:          func() any { return &models.AccountPayableModel{} },
	settledStatus:  string(finance.PayableStatusPaid),
	settlementDate: "payment_date",
}

// GormAccountPayableRepository implements AccountPayableRepository using GORM
type GormAccountPayableRepository struct {
	db *gorm.DB
}

// NewGormAccountPayableRepository creates a new GormAccountPayableRepository
func NewGormAccountPayableRepository(db *gorm.DB) *GormAccountPayableRepository {
	return &GormAccountPayableRepository{db: db}
}

// FindByID finds a live payable of the company
func (r *GormAccountPayableRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*finance.AccountPayable, error) {
	return r.find(r.db.WithContext(ctx), companyID, id)
}

// FindByIDForUpdate locks the payable row until the surrounding transaction ends.
// Soft-deleted rows are returned too, with DeletedAt set.
func (r *GormAccountPayableRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*finance.AccountPayable, error) {
	return r.find(r.db.WithContext(ctx).Unscoped().Clauses(clause.Locking{Strength: "UPDATE"}), companyID, id)
}

func (r *GormAccountPayableRepository) find(q *gorm.DB, companyID, id uuid.UUID) (*finance.AccountPayable, error) {
	var model models.AccountPayableModel
	if err := q.Where("company_id = ? AND id = ?", companyID, id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("account payable not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists payables by due date ascending unless another order is requested
func (r *GormAccountPayableRepository) FindAll(ctx context.Context, filter finance.ObligationFilter) ([]finance.AccountPayable, error) {
	var rows []models.AccountPayableModel
	if err := payableTable.filtered(ctx, r.db, filter).
		Scopes(pageScope(filter.Filter, ObligationSortFields, "due_date", "ASC")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return payablesToDomain(rows), nil
}

// Count counts payables matching the filter
func (r *GormAccountPayableRepository) Count(ctx context.Context, filter finance.ObligationFilter) (int64, error) {
	return payableTable.count(ctx, r.db, filter)
}

// SumByStatus aggregates pending, paid and cancelled payables
func (r *GormAccountPayableRepository) SumByStatus(ctx context.Context, filter finance.ObligationFilter) (*finance.StatusTotals, error) {
	return payableTable.sumByStatus(ctx, r.db, filter)
}

// SumPending sums pending payables, bounded by due date when due is set
func (r *GormAccountPayableRepository) SumPending(ctx context.Context, companyID uuid.UUID, branchID *uuid.UUID, due shared.DateRange) (decimal.Decimal, error) {
	return payableTable.sumPending(ctx, r.db, companyID, branchID, due)
}

// FindMovements returns the payables that move money in the period
func (r *GormAccountPayableRepository) FindMovements(ctx context.Context, companyID uuid.UUID, branchID *uuid.UUID, period shared.DateRange) ([]finance.AccountPayable, error) {
	var rows []models.AccountPayableModel
	if err := payableTable.movements(ctx, r.db, companyID, branchID, period).Find(&rows).Error; err != nil {
		return nil, err
	}
	return payablesToDomain(rows), nil
}

// CountByTransactionID counts payables settled by the transaction, deleted ones included
func (r *GormAccountPayableRepository) CountByTransactionID(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	return payableTable.countByTransactionID(ctx, r.db, transactionID)
}

// Create inserts a new payable
func (r *GormAccountPayableRepository) Create(ctx context.Context, ap *finance.AccountPayable) error {
	return r.db.WithContext(ctx).Create(models.AccountPayableModelFromDomain(ap)).Error
}

// Update writes the payable if its stored status is still expected
func (r *GormAccountPayableRepository) Update(ctx context.Context, ap *finance.AccountPayable, expected finance.PayableStatus) error {
	model := models.AccountPayableModelFromDomain(ap)
	columns := editableColumns(model.BranchID, model.ObligationColumns, model.UpdatedAt)
	columns["status"] = model.Status
	columns["payment_date"] = model.PaymentDate
	return payableTable.update(ctx, r.db, ap.ID, string(expected), columns)
}

func payablesToDomain(rows []models.AccountPayableModel) []finance.AccountPayable {
	payables := make([]finance.AccountPayable, len(rows))
	for i := range rows {
		payables[i] = *rows[i].ToDomain()
	}
	return payables
}

var _ finance.AccountPayableRepository = (*GormAccountPayableRepository)(nil)
