package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	appfinance "github.com/fleet/ledger/internal/application/finance"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOriginResolver_Exists(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	resolver := NewGormOriginResolver(db)
	ctx := context.Background()

	orderID := uuid.New()
	require.NoError(t, db.Create(&models.MaintenanceOrderModel{
		ID:        orderID,
		CompanyID: org.companyID,
		BranchID:  org.branchID,
	}).Error)

	missing := uuid.New()
	tests := []struct {
		name     string
		origin   finance.Origin
		branchID uuid.UUID
		expected bool
	}{
		{"maintenance order in branch", finance.Origin{Type: finance.OriginTypeMaintenanceOrder, ID: &orderID}, org.branchID, true},
		{"maintenance order in other branch", finance.Origin{Type: finance.OriginTypeMaintenanceOrder, ID: &orderID}, org.otherID, false},
		{"unknown maintenance order", finance.Origin{Type: finance.OriginTypeMaintenanceOrder, ID: &missing}, org.branchID, false},
		{"untracked origin type is trusted", finance.Origin{Type: finance.OriginTypePayroll, ID: &missing}, org.branchID, true},
		{"no origin ID", finance.Origin{Type: finance.OriginTypeMaintenanceOrder}, org.branchID, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := resolver.Exists(ctx, tt.origin, org.companyID, tt.branchID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestGormAuditSink_Record(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	sink := NewGormAuditSink(db)

	ap := newPayable(t, org, org.branchID, 250, date(2024, 3, 1))
	entry := finance.NewAuditEntry(finance.EntityTypeAccountPayable, ap.ID, finance.AuditActionCreate,
		uuid.New(), org.companyID, org.branchID, nil, ap.Snapshot())
	require.NoError(t, sink.Record(context.Background(), entry))

	var stored models.AuditLogModel
	require.NoError(t, db.First(&stored, "id = ?", entry.ID).Error)
	assert.Equal(t, finance.AuditActionCreate, stored.Action)
	assert.Empty(t, stored.Before)

	var after map[string]any
	require.NoError(t, json.Unmarshal(stored.After, &after))
	assert.NotEmpty(t, after)
}

func TestGormTransactionScope_Execute(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		ap := newPayable(t, org, org.branchID, 100, date(2024, 3, 1))
		err := scope.Execute(ctx, func(repos appfinance.TransactionalRepositories) error {
			if err := repos.Payables().Create(ctx, ap); err != nil {
				return err
			}
			return repos.Wallets().ApplyDelta(ctx, org.companyID, org.branchID, decimal.NewFromInt(-100))
		})
		require.NoError(t, err)

		_, err = NewGormAccountPayableRepository(db).FindByID(ctx, org.companyID, ap.ID)
		assert.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		ft := newTransaction(t, org, finance.TransactionTypeIncome, 40, date(2024, 3, 2))
		boom := errors.New("boom")
		err := scope.Execute(ctx, func(repos appfinance.TransactionalRepositories) error {
			if err := repos.Transactions().Create(ctx, ft); err != nil {
				return err
			}
			if err := repos.Wallets().ApplyDelta(ctx, org.companyID, org.branchID, decimal.NewFromInt(40)); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = NewGormFinancialTransactionRepository(db).FindByID(ctx, org.companyID, ft.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		wallet, err := NewGormBranchWalletRepository(db).Get(ctx, org.companyID, org.branchID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(-100).Equal(wallet.CurrentBalance), "got %s", wallet.CurrentBalance)
	})
}
