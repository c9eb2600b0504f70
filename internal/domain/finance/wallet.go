package finance

import (
	"time"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentType classifies an administrative balance override
type AdjustmentType string

const (
	AdjustmentTypeManual         AdjustmentType = "MANUAL_ADJUSTMENT"
	AdjustmentTypeInitialBalance AdjustmentType = "INITIAL_BALANCE"
	AdjustmentTypeCorrection     AdjustmentType = "CORRECTION"
)

// IsValid checks if the adjustment type is valid
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentTypeManual, AdjustmentTypeInitialBalance, AdjustmentTypeCorrection:
		return true
	}
	return false
}

// String returns the string representation of AdjustmentType
func (t AdjustmentType) String() string {
	return string(t)
}

// BranchWallet is the running cash balance of one branch.
// A branch without a stored wallet has a zero balance.
type BranchWallet struct {
	BranchID       uuid.UUID
	CompanyID      uuid.UUID
	CurrentBalance decimal.Decimal
	UpdatedAt      time.Time
}

// NewBranchWallet returns an empty wallet for a branch
func NewBranchWallet(companyID, branchID uuid.UUID) *BranchWallet {
	return &BranchWallet{
		BranchID:       branchID,
		CompanyID:      companyID,
		CurrentBalance: decimal.Zero,
		UpdatedAt:      time.Now(),
	}
}

// Adjust replaces the balance and returns the immutable history record
func (w *BranchWallet) Adjust(newBalance decimal.Decimal, adjustmentType AdjustmentType, reason string, actorID uuid.UUID) (*BalanceAdjustment, error) {
	if !adjustmentType.IsValid() {
		return nil, shared.NewValidationError("adjustment type %q is not valid", adjustmentType)
	}
	if actorID == uuid.Nil {
		return nil, shared.NewValidationError("actor ID is required")
	}
	if len(reason) > 500 {
		return nil, shared.NewValidationError("reason cannot exceed 500 characters")
	}

	adjustment := &BalanceAdjustment{
		ID:              uuid.New(),
		CompanyID:       w.CompanyID,
		BranchID:        w.BranchID,
		PreviousBalance: w.CurrentBalance,
		NewBalance:      newBalance,
		AdjustmentType:  adjustmentType,
		Reason:          reason,
		ActorID:         actorID,
		CreatedAt:       time.Now(),
	}

	w.CurrentBalance = newBalance
	w.UpdatedAt = adjustment.CreatedAt

	return adjustment, nil
}

// BalanceAdjustment records one administrative override of a branch balance
type BalanceAdjustment struct {
	ID              uuid.UUID
	CompanyID       uuid.UUID
	BranchID        uuid.UUID
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	AdjustmentType  AdjustmentType
	Reason          string
	ActorID         uuid.UUID
	CreatedAt       time.Time
}

// Difference returns newBalance - previousBalance
func (a *BalanceAdjustment) Difference() decimal.Decimal {
	return a.NewBalance.Sub(a.PreviousBalance)
}
