package persistence

import (
	"context"
	"time"

	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// obligationTable describes the columns that differ between payables and receivables
type obligationTable struct {
	model          func() any
	settledStatus  string
	settlementDate string
}

const obligationPending = "PENDING"
const obligationCancelled = "CANCELLED"

// filtered applies every filter dimension except paging
func (t obligationTable) filtered(ctx context.Context, db *gorm.DB, f finance.ObligationFilter) *gorm.DB {
	q := db.WithContext(ctx).Model(t.model()).
		Scopes(branchScope(f.CompanyID, f.BranchID), dateRangeScope("due_date", f.DueDate))
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

func (t obligationTable) count(ctx context.Context, db *gorm.DB, f finance.ObligationFilter) (int64, error) {
	var count int64
	if err := t.filtered(ctx, db, f).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// sumByStatus totals the three status buckets, ignoring f.Status
func (t obligationTable) sumByStatus(ctx context.Context, db *gorm.DB, f finance.ObligationFilter) (*finance.StatusTotals, error) {
	f.Status = ""
	var rows []struct {
		Status string
		Count  int64
		Total  decimal.Decimal
	}
	if err := t.filtered(ctx, db, f).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := &finance.StatusTotals{
		PendingAmount:   decimal.Zero,
		SettledAmount:   decimal.Zero,
		CancelledAmount: decimal.Zero,
	}
	for _, row := range rows {
		switch row.Status {
		case obligationPending:
			totals.PendingCount, totals.PendingAmount = row.Count, row.Total
		case t.settledStatus:
			totals.SettledCount, totals.SettledAmount = row.Count, row.Total
		case obligationCancelled:
			totals.CancelledCount, totals.CancelledAmount = row.Count, row.Total
		}
	}
	return totals, nil
}

func (t obligationTable) sumPending(ctx context.Context, db *gorm.DB, companyID uuid.UUID, branchID *uuid.UUID, due shared.DateRange) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := db.WithContext(ctx).Model(t.model()).
		Select("COALESCE(SUM(amount), 0) as total").
		Scopes(branchScope(companyID, branchID), dateRangeScope("due_date", due)).
		Where("status = ?", obligationPending).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// movements selects pending rows due in the period and settled rows whose
// settlement date falls in it
func (t obligationTable) movements(ctx context.Context, db *gorm.DB, companyID uuid.UUID, branchID *uuid.UUID, period shared.DateRange) *gorm.DB {
	from, to := period.From, period.To
	if from == nil {
		from = &time.Time{}
	}
	if to == nil {
		far := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		to = &far
	}
	return db.WithContext(ctx).Model(t.model()).
		Scopes(branchScope(companyID, branchID)).
		Where(
			db.Where("status = ? AND due_date BETWEEN ? AND ?", obligationPending, *from, *to).
				Or("status = ? AND "+t.settlementDate+" BETWEEN ? AND ?", t.settledStatus, *from, *to),
		).
		Order("due_date ASC")
}

// countByTransactionID includes soft-deleted rows
func (t obligationTable) countByTransactionID(ctx context.Context, db *gorm.DB, transactionID uuid.UUID) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Unscoped().Model(t.model()).
		Where("financial_transaction_id = ?", transactionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// update writes columns only when the stored status still matches expected
func (t obligationTable) update(ctx context.Context, db *gorm.DB, id uuid.UUID, expected string, columns map[string]any) error {
	result := db.WithContext(ctx).Model(t.model()).
		Where("id = ? AND status = ?", id, expected).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewInvalidStateError("record changed concurrently, reload and retry")
	}
	return nil
}

// editableColumns lists the columns written by Update
func editableColumns(branchID uuid.UUID, c models.ObligationColumns, updatedAt time.Time) map[string]any {
	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		deletedAt = &c.DeletedAt.Time
	}
	return map[string]any{
		"branch_id":                branchID,
		"description":              c.Description,
		"amount":                   c.Amount,
		"due_date":                 c.DueDate,
		"origin_type":              c.OriginType,
		"origin_id":                c.OriginID,
		"document_number":          c.DocumentNumber,
		"notes":                    c.Notes,
		"financial_transaction_id": c.FinancialTransactionID,
		"deleted_at":               deletedAt,
		"updated_at":               updatedAt,
	}
}
