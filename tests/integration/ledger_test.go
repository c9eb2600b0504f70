//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appfinance "github.com/fleet/ledger/internal/application/finance"
	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/event"
	"github.com/fleet/ledger/internal/infrastructure/idgen"
	"github.com/fleet/ledger/internal/infrastructure/persistence"
	"github.com/fleet/ledger/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	db          *TestDB
	org         testutil.Organization
	payables    *appfinance.PayableService
	receivables *appfinance.ReceivableService
	wallet      *appfinance.WalletService
	summary     *appfinance.WalletSummaryService
	events      *testutil.RecordingHandler
}

func newLedgerFixture(t *testing.T, mode appfinance.BalanceMode) *ledgerFixture {
	t.Helper()

	tdb := NewTestDB(t)
	org := testutil.SeedOrganization(t, tdb.DB)

	references, err := idgen.NewSnowflakeReferences(1)
	require.NoError(t, err)

	events := testutil.NewRecordingHandler()
	bus := event.NewInMemoryEventBus(nil)
	bus.Subscribe(events)

	companies := persistence.NewGormCompanyRepository(tdb.DB)
	branches := persistence.NewGormBranchRepository(tdb.DB)
	deps := appfinance.Dependencies{
		Payables:     persistence.NewGormAccountPayableRepository(tdb.DB),
		Receivables:  persistence.NewGormAccountReceivableRepository(tdb.DB),
		Transactions: persistence.NewGormFinancialTransactionRepository(tdb.DB),
		Wallets:      persistence.NewGormBranchWalletRepository(tdb.DB),
		Adjustments:  persistence.NewGormBalanceAdjustmentRepository(tdb.DB),
		Scope:        persistence.NewGormTransactionScope(tdb.DB),
		Companies:    companies,
		Branches:     branches,
		Guard:        access.NewGuard(),
	}
	opts := []appfinance.Option{
		appfinance.WithBalanceMode(mode),
		appfinance.WithPendingScope(finance.PendingScopeAll),
		appfinance.WithReferenceGenerator(references),
		appfinance.WithAuditSink(persistence.NewGormAuditSink(tdb.DB)),
		appfinance.WithEventPublisher(bus),
		appfinance.WithOriginResolver(persistence.NewGormOriginResolver(tdb.DB)),
	}

	return &ledgerFixture{
		db:          tdb,
		org:         org,
		payables:    appfinance.NewPayableService(deps, opts...),
		receivables: appfinance.NewReceivableService(deps, opts...),
		wallet:      appfinance.NewWalletService(deps, opts...),
		summary:     appfinance.NewWalletSummaryService(deps, opts...),
		events:      events,
	}
}

func (f *ledgerFixture) balance(t *testing.T, branch uuid.UUID) decimal.Decimal {
	t.Helper()
	resp, err := f.wallet.GetBalance(context.Background(), f.org.Company, testutil.Admin(), &branch)
	require.NoError(t, err)
	return resp.CurrentBalance
}

func TestLedger_SettlementUpdatesWallet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	for _, mode := range []appfinance.BalanceMode{appfinance.BalanceModePostCommit, appfinance.BalanceModeAtomic} {
		t.Run(string(mode), func(t *testing.T) {
			f := newLedgerFixture(t, mode)
			ctx := testutil.ContextWithTimeout(t, 30*time.Second)
			clerk := testutil.Clerk(f.org.North)

			payable, err := f.payables.Create(ctx, f.org.Company, clerk, appfinance.CreateObligationRequest{
				Description: "Brake pads",
				Amount:      decimal.RequireFromString("150.00"),
				DueDate:     time.Now().UTC(),
			})
			require.NoError(t, err)
			assert.Equal(t, f.org.North, payable.BranchID)

			receivable, err := f.receivables.Create(ctx, f.org.Company, clerk, appfinance.CreateObligationRequest{
				Description: "Fleet service contract",
				Amount:      decimal.RequireFromString("400.00"),
				DueDate:     time.Now().UTC(),
			})
			require.NoError(t, err)

			paid, err := f.payables.Pay(ctx, f.org.Company, clerk, payable.ID, appfinance.SettleRequest{})
			require.NoError(t, err)
			assert.Equal(t, string(finance.PayableStatusPaid), paid.Record.Status)
			require.NotNil(t, paid.Transaction)
			assert.Equal(t, string(finance.TransactionTypeExpense), paid.Transaction.Type)
			assert.NotEmpty(t, paid.Transaction.Reference)

			received, err := f.receivables.Receive(ctx, f.org.Company, clerk, receivable.ID, appfinance.SettleRequest{})
			require.NoError(t, err)
			assert.Equal(t, string(finance.ReceivableStatusReceived), received.Record.Status)
			assert.NotEqual(t, paid.Transaction.Reference, received.Transaction.Reference)

			assert.True(t, decimal.RequireFromString("250").Equal(f.balance(t, f.org.North)))
			assert.True(t, f.balance(t, f.org.South).IsZero())

			now := time.Now().UTC()
			summary, err := f.summary.Summary(ctx, f.org.Company, testutil.Admin(), appfinance.WalletSummaryRequest{
				BranchID: &f.org.North,
				Month:    int(now.Month()),
				Year:     now.Year(),
			})
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString("400").Equal(summary.TotalIncome))
			assert.True(t, decimal.RequireFromString("150").Equal(summary.TotalExpense))
			assert.True(t, summary.PendingPayables.IsZero())

			var audits int64
			require.NoError(t, f.db.DB.Table("audit_logs").Count(&audits).Error)
			assert.GreaterOrEqual(t, audits, int64(4))

			assert.Contains(t, f.events.Types(), finance.EventTypeAccountPayablePaid)
			assert.Contains(t, f.events.Types(), finance.EventTypeAccountReceivableReceived)
		})
	}
}

func TestLedger_ConcurrentPayOnlyOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	f := newLedgerFixture(t, appfinance.BalanceModeAtomic)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)
	admin := testutil.Admin()

	payable, err := f.payables.Create(ctx, f.org.Company, admin, appfinance.CreateObligationRequest{
		Description: "Tyres",
		Amount:      decimal.RequireFromString("80.00"),
		DueDate:     time.Now().UTC(),
		BranchID:    &f.org.South,
	})
	require.NoError(t, err)

	const workers = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.payables.Pay(ctx, f.org.Company, admin, payable.ID, appfinance.SettleRequest{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, shared.ErrInvalidState):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
	assert.True(t, decimal.RequireFromString("-80").Equal(f.balance(t, f.org.South)))

	var transactions int64
	require.NoError(t, f.db.DB.Table("financial_transactions").Where("branch_id = ?", f.org.South).Count(&transactions).Error)
	assert.Equal(t, int64(1), transactions)
}

func TestLedger_OriginValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	f := newLedgerFixture(t, appfinance.BalanceModePostCommit)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)
	admin := testutil.Admin()

	orderID := uuid.New()
	f.db.InsertMaintenanceOrder(orderID.String(), f.org.Company.CompanyID.String(), f.org.North.String())

	_, err := f.payables.Create(ctx, f.org.Company, admin, appfinance.CreateObligationRequest{
		Description: "Oil change",
		Amount:      decimal.RequireFromString("60.00"),
		DueDate:     time.Now().UTC(),
		BranchID:    &f.org.North,
		OriginType:  string(finance.OriginTypeMaintenanceOrder),
		OriginID:    &orderID,
	})
	require.NoError(t, err)

	// same order, other branch
	_, err = f.payables.Create(ctx, f.org.Company, admin, appfinance.CreateObligationRequest{
		Description: "Oil change",
		Amount:      decimal.RequireFromString("60.00"),
		DueDate:     time.Now().UTC(),
		BranchID:    &f.org.South,
		OriginType:  string(finance.OriginTypeMaintenanceOrder),
		OriginID:    &orderID,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLedger_AdjustBalance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	f := newLedgerFixture(t, appfinance.BalanceModePostCommit)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	adj, err := f.wallet.AdjustBalance(ctx, f.org.Company, testutil.Admin(), appfinance.AdjustBalanceRequest{
		BranchID:       f.org.North,
		NewBalance:     decimal.RequireFromString("1000.50"),
		AdjustmentType: string(finance.AdjustmentTypeInitialBalance),
		Reason:         "opening balance",
	})
	require.NoError(t, err)
	assert.True(t, adj.PreviousBalance.IsZero())
	assert.True(t, decimal.RequireFromString("1000.50").Equal(f.balance(t, f.org.North)))

	_, err = f.wallet.AdjustBalance(ctx, f.org.Company, testutil.Clerk(f.org.North), appfinance.AdjustBalanceRequest{
		BranchID:       f.org.North,
		NewBalance:     decimal.Zero,
		AdjustmentType: string(finance.AdjustmentTypeCorrection),
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	history, err := f.wallet.ListAdjustments(ctx, f.org.Company, testutil.Admin(), appfinance.AdjustmentListFilter{BranchID: &f.org.North})
	require.NoError(t, err)
	assert.Equal(t, int64(1), history.Total)
}
