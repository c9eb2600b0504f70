package finance

import (
	"time"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayableStatus represents the status of an account payable
type PayableStatus string

const (
	PayableStatusPending   PayableStatus = "PENDING"
	PayableStatusPaid      PayableStatus = "PAID"
	PayableStatusCancelled PayableStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PayableStatus
func (s PayableStatus) IsValid() bool {
	switch s {
	case PayableStatusPending, PayableStatusPaid, PayableStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PayableStatus
func (s PayableStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the payable is paid or cancelled
func (s PayableStatus) IsTerminal() bool {
	return s == PayableStatusPaid || s == PayableStatusCancelled
}

// AccountPayable is money owed by the company
type AccountPayable struct {
	shared.BranchAggregateRoot
	obligation
	Status      PayableStatus
	PaymentDate *time.Time
}

// NewAccountPayable creates a pending payable
func NewAccountPayable(in ObligationInput) (*AccountPayable, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ap := &AccountPayable{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(in.CompanyID, in.BranchID, in.CreatedBy),
		obligation:          newObligation(in),
		Status:              PayableStatusPending,
	}

	ap.AddDomainEvent(NewAccountPayableCreatedEvent(ap))

	return ap, nil
}

// Update applies a partial update. Only pending payables can be edited.
func (ap *AccountPayable) Update(u ObligationUpdate) error {
	switch ap.Status {
	case PayableStatusPaid:
		return shared.NewInvalidStateError("already settled records are immutable")
	case PayableStatusCancelled:
		return shared.NewInvalidStateError("cancelled records are immutable")
	}
	if err := ap.apply(u); err != nil {
		return err
	}
	if u.BranchID != nil {
		ap.BranchID = *u.BranchID
	}
	ap.Touch()

	ap.AddDomainEvent(NewAccountPayableUpdatedEvent(ap))

	return nil
}

// CanSettle checks that the payable can still be paid
func (ap *AccountPayable) CanSettle() error {
	switch ap.Status {
	case PayableStatusPaid:
		return shared.NewInvalidStateError("already paid")
	case PayableStatusCancelled:
		return shared.NewInvalidStateError("cancelled, cannot settle")
	}
	return nil
}

// Pay marks the payable as paid by the given financial transaction
func (ap *AccountPayable) Pay(transactionID uuid.UUID, paidAt *time.Time, notes string) error {
	if err := ap.CanSettle(); err != nil {
		return err
	}
	if transactionID == uuid.Nil {
		return shared.NewValidationError("financial transaction ID is required")
	}

	at := settlementTime(paidAt)
	ap.Status = PayableStatusPaid
	ap.PaymentDate = &at
	ap.FinancialTransactionID = &transactionID
	if notes != "" {
		ap.Notes = notes
	}
	ap.Touch()

	ap.AddDomainEvent(NewAccountPayablePaidEvent(ap))

	return nil
}

// Cancel moves a pending payable to CANCELLED
func (ap *AccountPayable) Cancel() error {
	switch ap.Status {
	case PayableStatusPaid:
		return shared.NewInvalidStateError("cannot cancel a settled record")
	case PayableStatusCancelled:
		return shared.NewInvalidStateError("already cancelled")
	}

	ap.Status = PayableStatusCancelled
	ap.Touch()

	ap.AddDomainEvent(NewAccountPayableCancelledEvent(ap))

	return nil
}

// MarkDeleted soft-deletes the payable. Paid payables cannot be deleted.
func (ap *AccountPayable) MarkDeleted() error {
	if ap.Status == PayableStatusPaid {
		return shared.NewInvalidStateError("cannot delete a settled record")
	}
	if ap.DeletedAt != nil {
		return shared.NewNotFoundError("account payable not found")
	}

	now := time.Now()
	ap.DeletedAt = &now
	ap.UpdatedAt = now

	ap.AddDomainEvent(NewAccountPayableDeletedEvent(ap))

	return nil
}

// SettlementDelta is the signed wallet movement caused by paying this payable
func (ap *AccountPayable) SettlementDelta() decimal.Decimal {
	return ap.Amount.Neg()
}

// SettlementTransaction builds the EXPENSE transaction that realises the payable
func (ap *AccountPayable) SettlementTransaction(reference string, at *time.Time, notes string, actorID *uuid.UUID) (*FinancialTransaction, error) {
	if notes == "" {
		notes = ap.Notes
	}
	return NewFinancialTransaction(TransactionInput{
		CompanyID:       ap.CompanyID,
		BranchID:        ap.BranchID,
		Type:            TransactionTypeExpense,
		Amount:          ap.Amount,
		Description:     ap.Description,
		TransactionDate: settlementTime(at),
		Origin:          ap.Origin,
		DocumentNumber:  ap.DocumentNumber,
		Notes:           notes,
		Reference:       reference,
		CreatedBy:       actorID,
	})
}
