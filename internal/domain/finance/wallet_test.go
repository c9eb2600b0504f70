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

func TestBranchWallet_Adjust(t *testing.T) {
	wallet := NewBranchWallet(uuid.New(), uuid.New())
	wallet.CurrentBalance = decimal.NewFromInt(700)
	actor := uuid.New()

	adj, err := wallet.Adjust(decimal.NewFromInt(1000), AdjustmentTypeCorrection, "cash count", actor)
	require.NoError(t, err)
	assert.True(t, adj.PreviousBalance.Equal(decimal.NewFromInt(700)))
	assert.True(t, adj.NewBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, adj.Difference().Equal(decimal.NewFromInt(300)))
	assert.Equal(t, actor, adj.ActorID)
	assert.Equal(t, wallet.BranchID, adj.BranchID)
	assert.True(t, wallet.CurrentBalance.Equal(decimal.NewFromInt(1000)))

	_, err = wallet.Adjust(decimal.Zero, "ROUNDING", "", actor)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = wallet.Adjust(decimal.Zero, AdjustmentTypeManual, "", uuid.Nil)
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.True(t, wallet.CurrentBalance.Equal(decimal.NewFromInt(1000)))
}

func TestPeriod(t *testing.T) {
	p, err := NewPeriod(2, 2024)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.Start(time.UTC))
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), p.End(time.UTC))

	r := p.Range(time.UTC)
	assert.Equal(t, p.Start(time.UTC), *r.From)

	_, err = NewPeriod(13, 2024)
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = NewPeriod(1, 0)
	assert.ErrorIs(t, err, shared.ErrValidation)

	assert.Equal(t, Period{Month: 7, Year: 2025}, CurrentPeriod(time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)))
}

func TestNewWalletSummary(t *testing.T) {
	early := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	movements := []Movement{
		{ID: uuid.New(), Type: MovementTypePayable, DueDate: late},
		{ID: uuid.New(), Type: MovementTypeReceivable, DueDate: early},
	}

	summary := NewWalletSummary(nil, Period{Month: 2, Year: 2024},
		decimal.NewFromInt(10000), // current
		decimal.NewFromInt(4000),  // income
		decimal.NewFromInt(1500),  // expense
		decimal.NewFromInt(1200),  // pending payables
		decimal.NewFromInt(5000),  // pending receivables
		movements,
	)

	assert.True(t, summary.PeriodProfit.Equal(decimal.NewFromInt(2500)))
	assert.True(t, summary.ProjectedBalance.Equal(decimal.NewFromInt(13800)))
	assert.Equal(t, MovementTypeReceivable, summary.Movements[0].Type)

	empty := NewWalletSummary(nil, Period{Month: 2, Year: 2024}, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, nil)
	assert.NotNil(t, empty.Movements)
	assert.True(t, empty.ProjectedBalance.IsZero())
}

func TestOrigin_Validate(t *testing.T) {
	id := uuid.New()
	nilID := uuid.Nil

	assert.NoError(t, Origin{}.Validate())
	assert.NoError(t, Origin{Type: OriginTypeManual}.Validate())
	assert.NoError(t, Origin{Type: OriginTypePayroll, ID: &id}.Validate())
	assert.ErrorIs(t, Origin{ID: &id}.Validate(), shared.ErrValidation)
	assert.ErrorIs(t, Origin{Type: "X"}.Validate(), shared.ErrValidation)
	assert.ErrorIs(t, Origin{Type: OriginTypePayroll, ID: &nilID}.Validate(), shared.ErrValidation)
}
