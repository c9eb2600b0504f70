package models

import (
	"time"

	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BranchWalletModel stores one running balance per branch.
type BranchWalletModel struct {
	BranchID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BranchWalletModel) TableName() string {
	return "branch_wallets"
}

// ToDomain converts the model to a domain BranchWallet
func (m *BranchWalletModel) ToDomain() *finance.BranchWallet {
	return &finance.BranchWallet{
		BranchID:       m.BranchID,
		CompanyID:      m.CompanyID,
		CurrentBalance: m.CurrentBalance,
		UpdatedAt:      m.UpdatedAt,
	}
}

// BranchWalletModelFromDomain creates a model from a domain BranchWallet
func BranchWalletModelFromDomain(w *finance.BranchWallet) *BranchWalletModel {
	return &BranchWalletModel{
		BranchID:       w.BranchID,
		CompanyID:      w.CompanyID,
		CurrentBalance: w.CurrentBalance,
		UpdatedAt:      w.UpdatedAt,
	}
}

// BalanceAdjustmentModel is an append-only record of a manual balance override.
type BalanceAdjustmentModel struct {
	ID              uuid.UUID              `gorm:"type:uuid;primary_key"`
	CompanyID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	BranchID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	PreviousBalance decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	NewBalance      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	AdjustmentType  finance.AdjustmentType `gorm:"type:varchar(30);not null"`
	Reason          string                 `gorm:"type:varchar(500)"`
	ActorID         uuid.UUID              `gorm:"type:uuid;not null"`
	CreatedAt       time.Time              `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BalanceAdjustmentModel) TableName() string {
	return "balance_adjustments"
}

// ToDomain converts the model to a domain BalanceAdjustment
func (m *BalanceAdjustmentModel) ToDomain() *finance.BalanceAdjustment {
	return &finance.BalanceAdjustment{
		ID:              m.ID,
		CompanyID:       m.CompanyID,
		BranchID:        m.BranchID,
		PreviousBalance: m.PreviousBalance,
		NewBalance:      m.NewBalance,
		AdjustmentType:  m.AdjustmentType,
		Reason:          m.Reason,
		ActorID:         m.ActorID,
		CreatedAt:       m.CreatedAt,
	}
}

// BalanceAdjustmentModelFromDomain creates a model from a domain BalanceAdjustment
func BalanceAdjustmentModelFromDomain(a *finance.BalanceAdjustment) *BalanceAdjustmentModel {
	return &BalanceAdjustmentModel{
		ID:              a.ID,
		CompanyID:       a.CompanyID,
		BranchID:        a.BranchID,
		PreviousBalance: a.PreviousBalance,
		NewBalance:      a.NewBalance,
		AdjustmentType:  a.AdjustmentType,
		Reason:          a.Reason,
		ActorID:         a.ActorID,
		CreatedAt:       a.CreatedAt,
	}
}
