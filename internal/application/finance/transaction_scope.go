package finance

import (
	"context"

	"github.com/fleet/ledger/internal/domain/finance"
)

// TransactionScope provides transactional access to ledger repositories.
// Every repository handed to fn shares one database transaction that is
// committed when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories within a transaction.
type TransactionalRepositories interface {
	Payables() finance.AccountPayableRepository
	Receivables() finance.AccountReceivableRepository
	Transactions() finance.FinancialTransactionRepository
	Wallets() finance.BranchWalletRepository
	Adjustments() finance.BalanceAdjustmentRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Useful for tests and for stores without transaction support.
type NoOpTransactionScope struct {
	payables     finance.AccountPayableRepository
	receivables  finance.AccountReceivableRepository
	transactions finance.FinancialTransactionRepository
	wallets      finance.BranchWalletRepository
	adjustments  finance.BalanceAdjustmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	payables finance.AccountPayableRepository,
	receivables finance.AccountReceivableRepository,
	transactions finance.FinancialTransactionRepository,
	wallets finance.BranchWalletRepository,
	adjustments finance.BalanceAdjustmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		payables:     payables,
		receivables:  receivables,
		transactions: transactions,
		wallets:      wallets,
		adjustments:  adjustments,
	}
}

// Execute runs fn without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Payables() finance.AccountPayableRepository           { return s.payables }
func (s *NoOpTransactionScope) Receivables() finance.AccountReceivableRepository     { return s.receivables }
func (s *NoOpTransactionScope) Transactions() finance.FinancialTransactionRepository { return s.transactions }
func (s *NoOpTransactionScope) Wallets() finance.BranchWalletRepository              { return s.wallets }
func (s *NoOpTransactionScope) Adjustments() finance.BalanceAdjustmentRepository     { return s.adjustments }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
