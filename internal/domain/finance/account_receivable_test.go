package finance

import (
	"testing"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestReceivable(t *testing.T) *AccountReceivable {
	t.Helper()
	in := createTestObligationInput()
	in.Description = "Freight"
	in.Amount = decimal.NewFromInt(5000)
	ar, err := NewAccountReceivable(in)
	require.NoError(t, err)
	ar.ClearDomainEvents()
	return ar
}

func TestAccountReceivable_Receive(t *testing.T) {
	t.Run("receives once", func(t *testing.T) {
		ar := createTestReceivable(t)
		txID := uuid.New()

		require.NoError(t, ar.Receive(txID, nil, ""))
		assert.Equal(t, ReceivableStatusReceived, ar.Status)
		assert.Equal(t, txID, *ar.FinancialTransactionID)
		assert.NotNil(t, ar.ReceiptDate)
		assert.True(t, ar.SettlementDelta().Equal(decimal.NewFromInt(5000)))

		err := ar.Receive(uuid.New(), nil, "")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.EqualError(t, err, "already received")
	})

	t.Run("cancelled receivable", func(t *testing.T) {
		ar := createTestReceivable(t)
		require.NoError(t, ar.Cancel())

		err := ar.Receive(uuid.New(), nil, "")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.EqualError(t, err, "cancelled, cannot settle")

		notes := "late"
		assert.ErrorIs(t, ar.Update(ObligationUpdate{Notes: &notes}), shared.ErrInvalidState)
		require.NoError(t, ar.MarkDeleted())
	})

	t.Run("requires transaction id", func(t *testing.T) {
		ar := createTestReceivable(t)
		assert.ErrorIs(t, ar.Receive(uuid.Nil, nil, ""), shared.ErrValidation)
		assert.Equal(t, ReceivableStatusPending, ar.Status)
	})
}

func TestAccountReceivable_TerminalImmutability(t *testing.T) {
	ar := createTestReceivable(t)
	require.NoError(t, ar.Receive(uuid.New(), nil, ""))

	description := "changed"
	assert.ErrorIs(t, ar.Update(ObligationUpdate{Description: &description}), shared.ErrInvalidState)
	assert.ErrorIs(t, ar.Cancel(), shared.ErrInvalidState)
	assert.ErrorIs(t, ar.MarkDeleted(), shared.ErrInvalidState)
}

func TestAccountReceivable_SettlementTransaction(t *testing.T) {
	ar := createTestReceivable(t)
	ft, err := ar.SettlementTransaction("FT-2", nil, "cash", nil)
	require.NoError(t, err)
	assert.Equal(t, TransactionTypeIncome, ft.Type)
	assert.True(t, ft.Amount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "Freight", ft.Description)
	assert.Equal(t, "cash", ft.Notes)
	assert.False(t, ft.TransactionDate.IsZero())
}

func TestAccountReceivable_Snapshot(t *testing.T) {
	ar := createTestReceivable(t)
	snap := ar.Snapshot()
	assert.Equal(t, ar.ID, snap.ID)
	assert.Equal(t, "PENDING", snap.Status)
	assert.True(t, snap.Amount.Equal(ar.Amount))
}
