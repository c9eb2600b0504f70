package finance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appfinance "github.com/fleet/ledger/internal/application/finance"
	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/organization"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errStoreDown = errors.New("store unavailable")

// fixedNow is inside March 2024 so settlements land in a known period
var fixedNow = time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)

type env struct {
	db      *gorm.DB
	deps    appfinance.Dependencies
	company access.CompanyContext
	north   uuid.UUID
	south   uuid.UUID
	admin   access.Actor
	clerk   access.Actor
	auditor *auditRecorder
}

// newEnv wires every ledger repository to one in-memory sqlite database
// and seeds a company with a north and a south branch.
func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	ctx := context.Background()
	companies := persistence.NewGormCompanyRepository(db)
	branches := persistence.NewGormBranchRepository(db)

	company, err := organization.NewCompany("Fleet Co")
	require.NoError(t, err)
	require.NoError(t, companies.Save(ctx, company))
	north, err := organization.NewBranch(company.ID, "North")
	require.NoError(t, err)
	require.NoError(t, branches.Save(ctx, north))
	south, err := organization.NewBranch(company.ID, "South")
	require.NoError(t, err)
	require.NoError(t, branches.Save(ctx, south))

	northID := north.ID
	return &env{
		db: db,
		deps: appfinance.Dependencies{
			Payables:     persistence.NewGormAccountPayableRepository(db),
			Receivables:  persistence.NewGormAccountReceivableRepository(db),
			Transactions: persistence.NewGormFinancialTransactionRepository(db),
			Wallets:      persistence.NewGormBranchWalletRepository(db),
			Adjustments:  persistence.NewGormBalanceAdjustmentRepository(db),
			Scope:        persistence.NewGormTransactionScope(db),
			Companies:    companies,
			Branches:     branches,
			Guard:        access.NewGuard(),
		},
		company: access.CompanyContext{CompanyID: company.ID},
		north:   north.ID,
		south:   south.ID,
		admin:   access.Actor{ID: uuid.New(), Role: access.RoleAdmin},
		clerk:   access.Actor{ID: uuid.New(), Role: "CLERK", BranchID: &northID},
		auditor: &auditRecorder{},
	}
}

func (e *env) options(extra ...appfinance.Option) []appfinance.Option {
	opts := []appfinance.Option{
		appfinance.WithClock(func() time.Time { return fixedNow }),
		appfinance.WithAuditSink(e.auditor),
		appfinance.WithOriginResolver(persistence.NewGormOriginResolver(e.db)),
	}
	return append(opts, extra...)
}

func (e *env) payables(opts ...appfinance.Option) *appfinance.PayableService {
	return appfinance.NewPayableService(e.deps, e.options(opts...)...)
}

func (e *env) receivables(opts ...appfinance.Option) *appfinance.ReceivableService {
	return appfinance.NewReceivableService(e.deps, e.options(opts...)...)
}

func (e *env) transactions(opts ...appfinance.Option) *appfinance.TransactionService {
	return appfinance.NewTransactionService(e.deps, e.options(opts...)...)
}

func (e *env) wallets(opts ...appfinance.Option) *appfinance.WalletService {
	return appfinance.NewWalletService(e.deps, e.options(opts...)...)
}

func (e *env) summaries(opts ...appfinance.Option) *appfinance.WalletSummaryService {
	return appfinance.NewWalletSummaryService(e.deps, e.options(opts...)...)
}

func (e *env) balance(t *testing.T, branchID uuid.UUID) decimal.Decimal {
	t.Helper()
	wallet, err := e.deps.Wallets.Get(context.Background(), e.company.CompanyID, branchID)
	require.NoError(t, err)
	return wallet.CurrentBalance
}

func (e *env) countTransactions(t *testing.T) int64 {
	t.Helper()
	n, err := e.deps.Transactions.Count(context.Background(), finance.TransactionFilter{CompanyID: e.company.CompanyID})
	require.NoError(t, err)
	return n
}

func obligation(branchID uuid.UUID, amount int64, due time.Time) appfinance.CreateObligationRequest {
	return appfinance.CreateObligationRequest{
		Description: "Brake pads",
		Amount:      decimal.NewFromInt(amount),
		DueDate:     due,
		BranchID:    &branchID,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// auditRecorder keeps every entry it receives
type auditRecorder struct {
	entries []finance.AuditEntry
}

func (r *auditRecorder) Record(_ context.Context, entry finance.AuditEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *auditRecorder) actions() []finance.AuditAction {
	out := make([]finance.AuditAction, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

// mockAuditSink is a testify mock of the audit sink
type mockAuditSink struct {
	mock.Mock
}

func (m *mockAuditSink) Record(ctx context.Context, entry finance.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// mockPublisher is a testify mock of the event publisher
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// failingWallets fails every ApplyDelta and delegates everything else
type failingWallets struct {
	finance.BranchWalletRepository
}

func (failingWallets) ApplyDelta(context.Context, uuid.UUID, uuid.UUID, decimal.Decimal) error {
	return errStoreDown
}

// failingTransactions fails every Create and delegates everything else
type failingTransactions struct {
	finance.FinancialTransactionRepository
}

func (failingTransactions) Create(context.Context, *finance.FinancialTransaction) error {
	return errStoreDown
}

// faultyScope wraps a real scope and swaps in failing repositories
type faultyScope struct {
	inner             appfinance.TransactionScope
	failTransactions  bool
	failWalletInScope bool
}

func (s *faultyScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.inner.Execute(ctx, func(repos appfinance.TransactionalRepositories) error {
		return fn(&faultyRepos{TransactionalRepositories: repos, scope: s})
	})
}

type faultyRepos struct {
	appfinance.TransactionalRepositories
	scope *faultyScope
}

func (r *faultyRepos) Transactions() finance.FinancialTransactionRepository {
	if r.scope.failTransactions {
		return failingTransactions{r.TransactionalRepositories.Transactions()}
	}
	return r.TransactionalRepositories.Transactions()
}

func (r *faultyRepos) Wallets() finance.BranchWalletRepository {
	if r.scope.failWalletInScope {
		return failingWallets{r.TransactionalRepositories.Wallets()}
	}
	return r.TransactionalRepositories.Wallets()
}

// cancelAfterCommitScope cancels the caller's context as soon as the inner transaction commits
type cancelAfterCommitScope struct {
	inner  appfinance.TransactionScope
	cancel context.CancelFunc
}

func (s *cancelAfterCommitScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	err := s.inner.Execute(ctx, fn)
	s.cancel()
	return err
}
