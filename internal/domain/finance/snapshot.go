package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObligationSnapshot is the audit view of a payable or receivable
type ObligationSnapshot struct {
	ID                     uuid.UUID       `json:"id"`
	CompanyID              uuid.UUID       `json:"company_id"`
	BranchID               uuid.UUID       `json:"branch_id"`
	Status                 string          `json:"status"`
	Description            string          `json:"description"`
	Amount                 decimal.Decimal `json:"amount"`
	DueDate                time.Time       `json:"due_date"`
	OriginType             OriginType      `json:"origin_type,omitempty"`
	OriginID               *uuid.UUID      `json:"origin_id,omitempty"`
	DocumentNumber         string          `json:"document_number,omitempty"`
	Notes                  string          `json:"notes,omitempty"`
	FinancialTransactionID *uuid.UUID      `json:"financial_transaction_id,omitempty"`
	SettledAt              *time.Time      `json:"settled_at,omitempty"`
	DeletedAt              *time.Time      `json:"deleted_at,omitempty"`
}

// Snapshot returns the audit view of the payable
func (ap *AccountPayable) Snapshot() ObligationSnapshot {
	return ObligationSnapshot{
		ID:                     ap.ID,
		CompanyID:              ap.CompanyID,
		BranchID:               ap.BranchID,
		Status:                 ap.Status.String(),
		Description:            ap.Description,
		Amount:                 ap.Amount,
		DueDate:                ap.DueDate,
		OriginType:             ap.Origin.Type,
		OriginID:               ap.Origin.ID,
		DocumentNumber:         ap.DocumentNumber,
		Notes:                  ap.Notes,
		FinancialTransactionID: ap.FinancialTransactionID,
		SettledAt:              ap.PaymentDate,
		DeletedAt:              ap.DeletedAt,
	}
}

// Snapshot returns the audit view of the receivable
func (ar *AccountReceivable) Snapshot() ObligationSnapshot {
	return ObligationSnapshot{
		ID:                     ar.ID,
		CompanyID:              ar.CompanyID,
		BranchID:               ar.BranchID,
		Status:                 ar.Status.String(),
		Description:            ar.Description,
		Amount:                 ar.Amount,
		DueDate:                ar.DueDate,
		OriginType:             ar.Origin.Type,
		OriginID:               ar.Origin.ID,
		DocumentNumber:         ar.DocumentNumber,
		Notes:                  ar.Notes,
		FinancialTransactionID: ar.FinancialTransactionID,
		SettledAt:              ar.ReceiptDate,
		DeletedAt:              ar.DeletedAt,
	}
}

// TransactionSnapshot is the audit view of a financial transaction
type TransactionSnapshot struct {
	ID              uuid.UUID       `json:"id"`
	Reference       string          `json:"reference"`
	CompanyID       uuid.UUID       `json:"company_id"`
	BranchID        uuid.UUID       `json:"branch_id"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transaction_date"`
	OriginType      OriginType      `json:"origin_type,omitempty"`
	OriginID        *uuid.UUID      `json:"origin_id,omitempty"`
	DocumentNumber  string          `json:"document_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// Snapshot returns the audit view of the transaction
func (ft *FinancialTransaction) Snapshot() TransactionSnapshot {
	return TransactionSnapshot{
		ID:              ft.ID,
		Reference:       ft.Reference,
		CompanyID:       ft.CompanyID,
		BranchID:        ft.BranchID,
		Type:            ft.Type,
		Amount:          ft.Amount,
		Description:     ft.Description,
		TransactionDate: ft.TransactionDate,
		OriginType:      ft.Origin.Type,
		OriginID:        ft.Origin.ID,
		DocumentNumber:  ft.DocumentNumber,
		Notes:           ft.Notes,
	}
}

// WalletSnapshot is the audit view of a branch balance
type WalletSnapshot struct {
	BranchID       uuid.UUID       `json:"branch_id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	AdjustmentType AdjustmentType  `json:"adjustment_type,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	Delta          decimal.Decimal `json:"delta,omitempty"`
}
