package finance_test

import (
	"context"
	"testing"

	appfinance "github.com/fleet/ledger/internal/application/finance"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWalletService_GetBalanceDefaultsToZero(t *testing.T) {
	e := newEnv(t)
	svc := e.wallets()
	ctx := context.Background()

	north := e.north
	balance, err := svc.GetBalance(ctx, e.company, e.admin, &north)
	require.NoError(t, err)
	assert.Equal(t, e.north, balance.BranchID)
	assert.True(t, balance.CurrentBalance.IsZero())

	// clerks always see their own branch
	south := e.south
	require.NoError(t, e.deps.Wallets.ApplyDelta(ctx, e.company.CompanyID, e.south, dec(90)))
	balance, err = svc.GetBalance(ctx, e.company, e.clerk, &south)
	require.NoError(t, err)
	assert.Equal(t, e.north, balance.BranchID)
	assert.True(t, balance.CurrentBalance.IsZero())

	_, err = svc.GetBalance(ctx, e.company, e.admin, nil)
	assert.ErrorIs(t, err, shared.ErrValidation)

	unknown := uuid.New()
	_, err = svc.GetBalance(ctx, e.company, e.admin, &unknown)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestWalletService_AdjustBalanceRecordsHistory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var published []shared.DomainEvent
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			published = append(published, args.Get(1).([]shared.DomainEvent)...)
		}).
		Return(nil)
	svc := e.wallets(appfinance.WithEventPublisher(publisher))

	require.NoError(t, e.deps.Wallets.ApplyDelta(ctx, e.company.CompanyID, e.north, dec(300)))

	first, err := svc.AdjustBalance(ctx, e.company, e.admin, appfinance.AdjustBalanceRequest{
		BranchID:       e.north,
		NewBalance:     dec(1000),
		AdjustmentType: "INITIAL_BALANCE",
		Reason:         "opening",
	})
	require.NoError(t, err)
	assert.True(t, dec(300).Equal(first.PreviousBalance))
	assert.True(t, dec(1000).Equal(first.NewBalance))
	assert.True(t, dec(700).Equal(first.Difference))
	assert.Equal(t, e.admin.ID, first.ActorID)

	second, err := svc.AdjustBalance(ctx, e.company, e.admin, appfinance.AdjustBalanceRequest{
		BranchID:       e.north,
		NewBalance:     dec(950),
		AdjustmentType: "CORRECTION",
	})
	require.NoError(t, err)
	assert.True(t, dec(1000).Equal(second.PreviousBalance))

	assert.True(t, dec(950).Equal(e.balance(t, e.north)))

	history, err := svc.ListAdjustments(ctx, e.company, e.admin, appfinance.AdjustmentListFilter{})
	require.NoError(t, err)
	require.Len(t, history.Items, 2)
	assert.Equal(t, second.ID, history.Items[0].ID)
	assert.Equal(t, first.ID, history.Items[1].ID)

	require.Len(t, published, 2)
	assert.Equal(t, finance.EventTypeWalletBalanceAdjusted, published[0].EventType())
	assert.Equal(t, []finance.AuditAction{finance.AuditActionAdjust, finance.AuditActionAdjust}, e.auditor.actions())
}

func TestWalletService_AdjustBalanceRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	svc := e.wallets()
	ctx := context.Background()

	_, err := svc.AdjustBalance(ctx, e.company, e.clerk, appfinance.AdjustBalanceRequest{
		BranchID:       e.north,
		NewBalance:     dec(5),
		AdjustmentType: "MANUAL_ADJUSTMENT",
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.AdjustBalance(ctx, e.company, e.admin, appfinance.AdjustBalanceRequest{
		BranchID:       e.north,
		NewBalance:     dec(5),
		AdjustmentType: "GIFT",
	})
	assert.ErrorIs(t, err, shared.ErrValidation)

	assert.True(t, dec(0).Equal(e.balance(t, e.north)))
	history, err := svc.ListAdjustments(ctx, e.company, e.admin, appfinance.AdjustmentListFilter{})
	require.NoError(t, err)
	assert.Zero(t, history.Total)
}

func TestWalletService_ListAdjustmentsIsBranchScoped(t *testing.T) {
	e := newEnv(t)
	svc := e.wallets()
	ctx := context.Background()

	for _, branch := range []uuid.UUID{e.north, e.south} {
		_, err := svc.AdjustBalance(ctx, e.company, e.admin, appfinance.AdjustBalanceRequest{
			BranchID:       branch,
			NewBalance:     dec(10),
			AdjustmentType: "MANUAL_ADJUSTMENT",
		})
		require.NoError(t, err)
	}

	south := e.south
	page, err := svc.ListAdjustments(ctx, e.company, e.clerk, appfinance.AdjustmentListFilter{BranchID: &south})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, e.north, page.Items[0].BranchID)

	all, err := svc.ListAdjustments(ctx, e.company, e.admin, appfinance.AdjustmentListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}
