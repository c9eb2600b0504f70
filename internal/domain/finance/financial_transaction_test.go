package finance

import (
	"testing"
	"time"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTransactionInput() TransactionInput {
	return TransactionInput{
		CompanyID:       uuid.New(),
		BranchID:        uuid.New(),
		Type:            TransactionTypeIncome,
		Amount:          decimal.NewFromInt(250),
		Description:     "Fuel refund",
		TransactionDate: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		Reference:       "FT-100",
	}
}

func TestNewFinancialTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ft, err := NewFinancialTransaction(createTestTransactionInput())
		require.NoError(t, err)
		assert.Equal(t, "FT-100", ft.Reference)
		assert.True(t, ft.SignedAmount().Equal(decimal.NewFromInt(250)))
		assert.Equal(t, EventTypeFinancialTransactionCreated, ft.GetDomainEvents()[0].EventType())
	})

	tests := []struct {
		name   string
		mutate func(in *TransactionInput)
	}{
		{"bad type", func(in *TransactionInput) { in.Type = "TRANSFER" }},
		{"zero amount", func(in *TransactionInput) { in.Amount = decimal.Zero }},
		{"missing date", func(in *TransactionInput) { in.TransactionDate = time.Time{} }},
		{"missing branch", func(in *TransactionInput) { in.BranchID = uuid.Nil }},
		{"origin id without type", func(in *TransactionInput) {
			id := uuid.New()
			in.Origin = Origin{ID: &id}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := createTestTransactionInput()
			tt.mutate(&in)
			_, err := NewFinancialTransaction(in)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestFinancialTransaction_Update(t *testing.T) {
	ft, err := NewFinancialTransaction(createTestTransactionInput())
	require.NoError(t, err)
	ft.ClearDomainEvents()

	expense := TransactionTypeExpense
	amount := decimal.NewFromInt(300)
	require.NoError(t, ft.Update(TransactionUpdate{Type: &expense, Amount: &amount}))
	assert.Equal(t, TransactionTypeExpense, ft.Type)
	assert.True(t, ft.SignedAmount().Equal(decimal.NewFromInt(-300)))
	assert.Equal(t, "Fuel refund", ft.Description)
	assert.Equal(t, EventTypeFinancialTransactionUpdated, ft.GetDomainEvents()[0].EventType())

	zero := decimal.Zero
	assert.ErrorIs(t, ft.Update(TransactionUpdate{Amount: &zero}), shared.ErrValidation)
	assert.True(t, ft.Amount.Equal(amount))

	maintenance := OriginTypeMaintenanceOrder
	update := TransactionUpdate{OriginType: &maintenance}
	assert.True(t, update.OriginChanged())
	require.NoError(t, ft.Update(update))
	assert.Equal(t, OriginTypeMaintenanceOrder, ft.Origin.Type)
}
