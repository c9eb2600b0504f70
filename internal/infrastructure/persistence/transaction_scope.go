package persistence

import (
	"context"

	appfinance "github.com/fleet/ledger/internal/application/finance"
	"github.com/fleet/ledger/internal/domain/finance"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. An error from fn rolls the
// transaction back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Payables() finance.AccountPayableRepository {
	return NewGormAccountPayableRepository(r.tx)
}

func (r *gormTransactionalRepositories) Receivables() finance.AccountReceivableRepository {
	return NewGormAccountReceivableRepository(r.tx)
}

func (r *gormTransactionalRepositories) Transactions() finance.FinancialTransactionRepository {
	return NewGormFinancialTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Wallets() finance.BranchWalletRepository {
	return NewGormBranchWalletRepository(r.tx)
}

func (r *gormTransactionalRepositories) Adjustments() finance.BalanceAdjustmentRepository {
	return NewGormBalanceAdjustmentRepository(r.tx)
}

var (
	_ appfinance.TransactionScope          = (*GormTransactionScope)(nil)
	_ appfinance.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
