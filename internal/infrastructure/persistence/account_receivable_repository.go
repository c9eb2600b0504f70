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

var receivableTable = obligationTable{
	model:          func() any { return &models.AccountReceivableModel{} },
	settledStatus:  string(finance.ReceivableStatusReceived),
	settlementDate: "receipt_date",
}

// GormAccountReceivableRepository implements AccountReceivableRepository using GORM
type GormAccountReceivableRepository struct {
	db *gorm.DB
}

// NewGormAccountReceivableRepository creates a new GormAccountReceivableRepository
func NewGormAccountReceivableRepository(db *gorm.DB) *GormAccountReceivableRepository {
	return &GormAccountReceivableRepository{db: db}
}

// FindByID finds a live receivable of the company
func (r *GormAccountReceivableRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*finance.AccountReceivable, error) {
	return r.find(r.db.WithContext(ctx), companyID, id)
}

// FindByIDForUpdate locks the receivable row until the surrounding transaction ends.
// Soft-deleted rows are returned too, with DeletedAt set.
func (r *GormAccountReceivableRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*finance.AccountReceivable, error) {
	return r.find(r.db.WithContext(ctx).Unscoped().Clauses(clause.Locking{Strength: "UPDATE"}), companyID, id)
}

func (r *GormAccountReceivableRepository) find(q *gorm.DB, companyID, id uuid.UUID) (*finance.AccountReceivable, error) {
	var model models.AccountReceivableModel
	if err := q.Where("company_id = ? AND id = ?", companyID, id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("account receivable not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists receivables by due date ascending unless another order is requested
func (r *GormAccountReceivableRepository) FindAll(ctx context.Context, filter finance.ObligationFilter) ([]finance.AccountReceivable, error) {
	var rows []models.AccountReceivableModel
	if err := receivableTable.filtered(ctx, r.db, filter).
		Scopes(pageScope(filter.Filter, ObligationSortFields, "due_date", "ASC")).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return receivablesToDomain(rows), nil
}

// Count counts receivables matching the filter
func (r *GormAccountReceivableRepository) Count(ctx context.Context, filter finance.ObligationFilter) (int64, error) {
	return receivableTable.count(ctx, r.db, filter)
}

// SumByStatus aggregates pending, received and cancelled receivables
func (r *GormAccountReceivableRepository) SumByStatus(ctx context.Context, filter finance.ObligationFilter) (*finance.StatusTotals, error) {
	return receivableTable.sumByStatus(ctx, r.db, filter)
}

// SumPending sums pending receivables, bounded by due date when due is set
func (r *GormAccountReceivableRepository) SumPending(ctx context.Context, companyID uuid.UUID, branchID *uuid.UUID, due shared.DateRange) (decimal.Decimal, error) {
	return receivableTable.sumPending(ctx, r.db, companyID, branchID, due)
}

// FindMovements returns the receivables that move money in the period
func (r *GormAccountReceivableRepository) FindMovements(ctx context.Context, companyID uuid.UUID, branchID *uuid.UUID, period shared.DateRange) ([]finance.AccountReceivable, error) {
	var rows []models.AccountReceivableModel
	if err := receivableTable.movements(ctx, r.db, companyID, branchID, period).Find(&rows).Error; err != nil {
		return nil, err
	}
	return receivablesToDomain(rows), nil
}

// CountByTransactionID counts receivables settled by the transaction, deleted ones included
func (r *GormAccountReceivableRepository) CountByTransactionID(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	return receivableTable.countByTransactionID(ctx, r.db, transactionID)
}

// Create inserts a new receivable
func (r *GormAccountReceivableRepository) Create(ctx context.Context, ar *finance.AccountReceivable) error {
	return r.db.WithContext(ctx).Create(models.AccountReceivableModelFromDomain(ar)).Error
}

// Update writes the receivable if its stored status is still expected
func (r *GormAccountReceivableRepository) Update(ctx context.Context, ar *finance.AccountReceivable, expected finance.ReceivableStatus) error {
	model := models.AccountReceivableModelFromDomain(ar)
	columns := editableColumns(model.BranchID, model.ObligationColumns, model.UpdatedAt)
	columns["status"] = model.Status
	columns["receipt_date"] = model.ReceiptDate
	return receivableTable.update(ctx, r.db, ar.ID, string(expected), columns)
}

func receivablesToDomain(rows []models.AccountReceivableModel) []finance.AccountReceivable {
	receivables := make([]finance.AccountReceivable, len(rows))
	for i := range rows {
		receivables[i] = *rows[i].ToDomain()
	}
	return receivables
}

var _ finance.AccountReceivableRepository = (*GormAccountReceivableRepository)(nil)
