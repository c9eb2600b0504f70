package finance

import (
	"context"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObligationFilter selects payables or receivables.
// A nil BranchID means all branches of the company.
type ObligationFilter struct {
	shared.Filter
	CompanyID uuid.UUID
	BranchID  *uuid.UUID
	Status    string
	DueDate   shared.DateRange
}

// StatusTotals are aggregate counts and amounts per status bucket
type StatusTotals struct {
	PendingCount    int64           `json:"pending_count"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
	SettledCount    int64           `json:"settled_count"`
	SettledAmount   decimal.Decimal `json:"settled_amount"`
	CancelledCount  int64           `json:"cancelled_count"`
	CancelledAmount decimal.Decimal `json:"cancelled_amount"`
}

// AccountPayableRepository persists payables. Soft-deleted payables are
// invisible to every finder except FindByIDForUpdate.
type AccountPayableRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*AccountPayable, error)
	// FindByIDForUpdate reads the payable under a row lock inside a transaction.
	// Unlike the other finders it also returns a soft-deleted payable, so that
	// settlement can report a cancelled record as cancelled.
	FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*AccountPayable, error)
	// FindAll returns payables ordered by due date ascending
	FindAll(ctx context.Context, filter ObligationFilter) ([]AccountPayable, error)
	Count(ctx context.Context, filter ObligationFilter) (int64, error)
	// SumByStatus aggregates all three buckets and ignores filter.Status and paging
	SumByStatus(ctx context.Context, filter ObligationFilter) (*StatusTotals, error)
	// SumPending sums pending amounts, bounded by due date when the range is set
	SumPending(ctx context.Context, companyID uuid.UUID, branchID *uuid.UUID, due shared.DateRange) (decimal.Decimal, error)
	// FindMovements returns pending payables due in the period and paid payables settled in it
	FindMovements(ctx context.Context, companyID uuid.UUID, branchID *uuid.UUID, period shared.DateRange) ([]AccountPayable, error)
	// CountByTransactionID counts payables linked to a transaction, deleted ones included
	CountByTransactionID(ctx context.Context, transactionID uuid.UUID) (int64, error)
	Create(ctx context.Context, ap *AccountPayable) error
	// Update writes the payable only if its stored status still equals expected
	Update(ctx context.Context, ap *AccountPayable, expected PayableStatus) error
}

// AccountReceivableRepository persists receivables. Soft-deleted receivables
// are invisible to every finder except FindByIDForUpdate.
type AccountReceivableRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*AccountReceivable, error)
	// FindByIDForUpdate also returns soft-deleted receivables, see AccountPayableRepository
	FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*AccountReceivable, error)
	FindAll(ctx context.Context, filter ObligationFilter) ([]AccountReceivable, error)
	Count(ctx context.Context, filter ObligationFilter) (int64, error)
	SumByStatus(ctx context.Context, filter ObligationFilter) (*StatusTotals, error)
	SumPending(ctx context.Context, companyID uuid.UUID, branchID *uuid.UUID, due shared.DateRange) (decimal.Decimal, error)
	FindMovements(ctx context.Context, companyID uuid.UUID, branchID *uuid.UUID, period shared.DateRange) ([]AccountReceivable, error)
	CountByTransactionID(ctx context.Context, transactionID uuid.UUID) (int64, error)
	Create(ctx context.Context, ar *AccountReceivable) error
	Update(ctx context.Context, ar *AccountReceivable, expected ReceivableStatus) error
}

// TransactionFilter selects financial transactions.
// Zero CompanyID and nil BranchID leave those dimensions unfiltered.
type TransactionFilter struct {
	shared.Filter
	CompanyID uuid.UUID
	BranchID  *uuid.UUID
	Type      *TransactionType
	Date      shared.DateRange
}

// FinancialTransactionRepository persists financial transactions
type FinancialTransactionRepository interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*FinancialTransaction, error)
	// FindAll returns transactions ordered by transaction date descending
	FindAll(ctx context.Context, filter TransactionFilter) ([]FinancialTransaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
	// SumByType returns total income and total expense within the range
	SumByType(ctx context.Context, companyID uuid.UUID, branchID *uuid.UUID, date shared.DateRange) (income, expense decimal.Decimal, err error)
	Create(ctx context.Context, ft *FinancialTransaction) error
	Update(ctx context.Context, ft *FinancialTransaction) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// BranchWalletRepository persists branch balances
type BranchWalletRepository interface {
	// Get returns the stored wallet or a zero wallet when none exists
	Get(ctx context.Context, companyID, branchID uuid.UUID) (*BranchWallet, error)
	// GetForUpdate creates the wallet row if needed and reads it under a row lock
	GetForUpdate(ctx context.Context, companyID, branchID uuid.UUID) (*BranchWallet, error)
	// SumBalances totals every branch wallet of the company
	SumBalances(ctx context.Context, companyID uuid.UUID) (decimal.Decimal, error)
	// ApplyDelta adds delta to the stored balance in a single atomic statement
	ApplyDelta(ctx context.Context, companyID, branchID uuid.UUID, delta decimal.Decimal) error
	Save(ctx context.Context, wallet *BranchWallet) error
}

// AdjustmentFilter selects balance adjustments
type AdjustmentFilter struct {
	shared.Filter
	CompanyID uuid.UUID
	BranchID  *uuid.UUID
}

// BalanceAdjustmentRepository stores the append-only adjustment history
type BalanceAdjustmentRepository interface {
	Create(ctx context.Context, adjustment *BalanceAdjustment) error
	// FindAll returns adjustments newest first
	FindAll(ctx context.Context, filter AdjustmentFilter) ([]BalanceAdjustment, error)
	Count(ctx context.Context, filter AdjustmentFilter) (int64, error)
}
