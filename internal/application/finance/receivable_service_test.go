package finance_test

import (
	"context"
	"sync"
	"testing"

	appfinance "github.com/fleet/ledger/internal/application/finance"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceivableService_FreightScenario(t *testing.T) {
	e := newEnv(t)
	svc := e.receivables()
	ctx := context.Background()

	req := obligation(e.north, 5000, day(2024, 2, 15))
	req.Description = "Freight"
	created, err := svc.Create(ctx, e.company, e.admin, req)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", created.Status)

	settled, err := svc.Receive(ctx, e.company, e.admin, created.ID, appfinance.SettleRequest{})
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", settled.Record.Status)
	require.NotNil(t, settled.Record.ReceiptDate)
	assert.True(t, fixedNow.Equal(*settled.Record.ReceiptDate))

	ft, err := e.deps.Transactions.FindByID(ctx, e.company.CompanyID, *settled.Record.FinancialTransactionID)
	require.NoError(t, err)
	assert.Equal(t, finance.TransactionTypeIncome, ft.Type)
	assert.True(t, dec(5000).Equal(ft.Amount))
	assert.Equal(t, "Freight", ft.Description)
	assert.Equal(t, e.north, ft.BranchID)

	assert.True(t, dec(5000).Equal(e.balance(t, e.north)))

	_, err = svc.Receive(ctx, e.company, e.admin, created.ID, appfinance.SettleRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.EqualError(t, err, "already received")
	assert.True(t, dec(5000).Equal(e.balance(t, e.north)))
}

func TestReceivableService_ExplicitSettlementDate(t *testing.T) {
	e := newEnv(t)
	svc := e.receivables()
	ctx := context.Background()

	created, err := svc.Create(ctx, e.company, e.admin, obligation(e.north, 250, day(2024, 3, 1)))
	require.NoError(t, err)

	at := day(2024, 3, 4)
	settled, err := svc.Receive(ctx, e.company, e.admin, created.ID, appfinance.SettleRequest{SettlementDate: &at, Notes: "cash"})
	require.NoError(t, err)
	assert.True(t, at.Equal(*settled.Record.ReceiptDate))
	assert.True(t, at.Equal(settled.Transaction.TransactionDate))
	assert.Equal(t, "cash", settled.Record.Notes)
}

func TestReceivableService_BalanceConservation(t *testing.T) {
	e := newEnv(t)
	receivables := e.receivables()
	payables := e.payables()
	ctx := context.Background()

	require.NoError(t, e.deps.Wallets.ApplyDelta(ctx, e.company.CompanyID, e.north, dec(1000)))

	incoming := []int64{500, 1250, 75, 300}
	outgoing := []int64{220, 980, 40}

	var arIDs, apIDs []uuid.UUID
	for _, amount := range incoming {
		r, err := receivables.Create(ctx, e.company, e.admin, obligation(e.north, amount, day(2024, 3, 9)))
		require.NoError(t, err)
		arIDs = append(arIDs, r.ID)
	}
	for _, amount := range outgoing {
		p, err := payables.Create(ctx, e.company, e.admin, obligation(e.north, amount, day(2024, 3, 9)))
		require.NoError(t, err)
		apIDs = append(apIDs, p.ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(arIDs)+len(apIDs))
	for _, id := range arIDs {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := receivables.Receive(ctx, e.company, e.admin, id, appfinance.SettleRequest{})
			errs <- err
		}(id)
	}
	for _, id := range apIDs {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := payables.Pay(ctx, e.company, e.admin, id, appfinance.SettleRequest{})
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	expected := dec(1000)
	for _, amount := range incoming {
		expected = expected.Add(decimal.NewFromInt(amount))
	}
	for _, amount := range outgoing {
		expected = expected.Sub(decimal.NewFromInt(amount))
	}
	assert.True(t, expected.Equal(e.balance(t, e.north)), "balance %s, expected %s", e.balance(t, e.north), expected)
}

func TestReceivableService_FailedTransactionKeepsPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.receivables().Create(ctx, e.company, e.admin, obligation(e.north, 900, day(2024, 3, 12)))
	require.NoError(t, err)

	e.deps.Scope = &faultyScope{inner: e.deps.Scope, failTransactions: true}
	_, err = e.receivables().Receive(ctx, e.company, e.admin, created.ID, appfinance.SettleRequest{})
	assert.ErrorIs(t, err, errStoreDown)

	stored, err := e.deps.Receivables.FindByID(ctx, e.company.CompanyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.ReceivableStatusPending, stored.Status)
	assert.Nil(t, stored.FinancialTransactionID)
	assert.Zero(t, e.countTransactions(t))
}

func TestReceivableService_WalletFailureAfterCommitRequiresReconciliation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.receivables().Create(ctx, e.company, e.admin, obligation(e.north, 150, day(2024, 3, 12)))
	require.NoError(t, err)

	e.deps.Wallets = failingWallets{e.deps.Wallets}
	settled, err := e.receivables().Receive(ctx, e.company, e.admin, created.ID, appfinance.SettleRequest{})
	assert.ErrorIs(t, err, shared.ErrReconciliationRequired)
	require.NotNil(t, settled)
	assert.Equal(t, "RECEIVED", settled.Record.Status)

	// a retry does not repeat the settlement
	_, err = e.receivables().Receive(ctx, e.company, e.admin, created.ID, appfinance.SettleRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, int64(1), e.countTransactions(t))
}

func TestReceivableService_BranchScoping(t *testing.T) {
	e := newEnv(t)
	svc := e.receivables()
	ctx := context.Background()

	created, err := svc.Create(ctx, e.company, e.clerk, obligation(e.south, 90, day(2024, 3, 5)))
	require.NoError(t, err)
	assert.Equal(t, e.north, created.BranchID)

	foreign, err := svc.Create(ctx, e.company, e.admin, obligation(e.south, 40, day(2024, 3, 5)))
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, e.company, e.clerk, foreign.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = svc.Receive(ctx, e.company, e.clerk, foreign.ID, appfinance.SettleRequest{})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	stored, err := e.deps.Receivables.FindByID(ctx, e.company.CompanyID, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.ReceivableStatusPending, stored.Status)
}

func TestReceivableService_CallerCancelAfterCommitStillMovesBalance(t *testing.T) {
	e := newEnv(t)

	created, err := e.receivables().Create(context.Background(), e.company, e.admin, obligation(e.south, 180, day(2024, 3, 12)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e.deps.Scope = &cancelAfterCommitScope{inner: e.deps.Scope, cancel: cancel}

	settled, err := e.receivables().Receive(ctx, e.company, e.admin, created.ID, appfinance.SettleRequest{})
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", settled.Record.Status)
	assert.True(t, dec(180).Equal(e.balance(t, e.south)))
}

func TestReceivableService_ListRejectsUnknownStatus(t *testing.T) {
	e := newEnv(t)
	svc := e.receivables()
	ctx := context.Background()

	_, err := svc.List(ctx, e.company, e.admin, appfinance.ObligationListFilter{Status: "PAID"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.List(ctx, e.company, e.admin, appfinance.ObligationListFilter{Status: "received"})
	assert.NoError(t, err)
}

func TestReceivableService_UpdateIsPartial(t *testing.T) {
	e := newEnv(t)
	svc := e.receivables()
	ctx := context.Background()

	req := obligation(e.north, 400, day(2024, 3, 20))
	req.DocumentNumber = "INV-77"
	req.Notes = "first"
	created, err := svc.Create(ctx, e.company, e.admin, req)
	require.NoError(t, err)

	amount := dec(420)
	updated, err := svc.Update(ctx, e.company, e.admin, created.ID, appfinance.UpdateObligationRequest{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, dec(420).Equal(updated.Amount))
	assert.Equal(t, "INV-77", updated.DocumentNumber)
	assert.Equal(t, "first", updated.Notes)
	assert.Equal(t, "Brake pads", updated.Description)

	stored, err := svc.GetByID(ctx, e.company, e.admin, created.ID)
	require.NoError(t, err)
	assert.True(t, dec(420).Equal(stored.Amount))
	assert.Equal(t, "INV-77", stored.DocumentNumber)
}

func TestReceivableService_ListFiltersByDueDate(t *testing.T) {
	e := newEnv(t)
	svc := e.receivables()
	ctx := context.Background()

	for _, d := range []int{2, 14, 28} {
		_, err := svc.Create(ctx, e.company, e.admin, obligation(e.north, 10, day(2024, 3, d)))
		require.NoError(t, err)
	}

	start, end := day(2024, 3, 10), day(2024, 3, 28)
	page, err := svc.List(ctx, e.company, e.admin, appfinance.ObligationListFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, day(2024, 3, 14).Equal(page.Items[0].DueDate))
	assert.True(t, day(2024, 3, 28).Equal(page.Items[1].DueDate))

	_, err = svc.List(ctx, e.company, e.admin, appfinance.ObligationListFilter{StartDate: &end, EndDate: &start})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
