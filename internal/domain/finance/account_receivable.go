package finance

import (
	"time"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivableStatus represents the status of an account receivable
type ReceivableStatus string

const (
	ReceivableStatusPending   ReceivableStatus = "PENDING"
	ReceivableStatusReceived  ReceivableStatus = "RECEIVED"
	ReceivableStatusCancelled ReceivableStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusPending, ReceivableStatusReceived, ReceivableStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReceivableStatus
func (s ReceivableStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the receivable is received or cancelled
func (s ReceivableStatus) IsTerminal() bool {
	return s == ReceivableStatusReceived || s == ReceivableStatusCancelled
}

// AccountReceivable is money due to the company
type AccountReceivable struct {
	shared.BranchAggregateRoot
	obligation
	Status      ReceivableStatus
	ReceiptDate *time.Time
}

// NewAccountReceivable creates a pending receivable
func NewAccountReceivable(in ObligationInput) (*AccountReceivable, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ar := &AccountReceivable{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(in.CompanyID, in.BranchID, in.CreatedBy),
		obligation:          newObligation(in),
		Status:              ReceivableStatusPending,
	}

	ar.AddDomainEvent(NewAccountReceivableCreatedEvent(ar))

	return ar, nil
}

// Update applies a partial update. Only pending receivables can be edited.
func (ar *AccountReceivable) Update(u ObligationUpdate) error {
	switch ar.Status {
	case ReceivableStatusReceived:
		return shared.NewInvalidStateError("already settled records are immutable")
	case ReceivableStatusCancelled:
		return shared.NewInvalidStateError("cancelled records are immutable")
	}
	if err := ar.apply(u); err != nil {
		return err
	}
	if u.BranchID != nil {
		ar.BranchID = *u.BranchID
	}
	ar.Touch()

	ar.AddDomainEvent(NewAccountReceivableUpdatedEvent(ar))

	return nil
}

// CanSettle checks that the receivable can still be received
func (ar *AccountReceivable) CanSettle() error {
	switch ar.Status {
	case ReceivableStatusReceived:
		return shared.NewInvalidStateError("already received")
	case ReceivableStatusCancelled:
		return shared.NewInvalidStateError("cancelled, cannot settle")
	}
	return nil
}

// Receive marks the receivable as received by the given financial transaction
func (ar *AccountReceivable) Receive(transactionID uuid.UUID, receivedAt *time.Time, notes string) error {
	if err := ar.CanSettle(); err != nil {
		return err
	}
	if transactionID == uuid.Nil {
		return shared.NewValidationError("financial transaction ID is required")
	}

	at := settlementTime(receivedAt)
	ar.Status = ReceivableStatusReceived
	ar.ReceiptDate = &at
	ar.FinancialTransactionID = &transactionID
	if notes != "" {
		ar.Notes = notes
	}
	ar.Touch()

	ar.AddDomainEvent(NewAccountReceivableReceivedEvent(ar))

	return nil
}

// Cancel moves a pending receivable to CANCELLED
func (ar *AccountReceivable) Cancel() error {
	switch ar.Status {
	case ReceivableStatusReceived:
		return shared.NewInvalidStateError("cannot cancel a settled record")
	case ReceivableStatusCancelled:
		return shared.NewInvalidStateError("already cancelled")
	}

	ar.Status = ReceivableStatusCancelled
	ar.Touch()

	ar.AddDomainEvent(NewAccountReceivableCancelledEvent(ar))

	return nil
}

// MarkDeleted soft-deletes the receivable. Received receivables cannot be deleted.
func (ar *AccountReceivable) MarkDeleted() error {
	if ar.Status == ReceivableStatusReceived {
		return shared.NewInvalidStateError("cannot delete a settled record")
	}
	if ar.DeletedAt != nil {
		return shared.NewNotFoundError("account receivable not found")
	}

	now := time.Now()
	ar.DeletedAt = &now
	ar.UpdatedAt = now

	ar.AddDomainEvent(NewAccountReceivableDeletedEvent(ar))

	return nil
}

// SettlementDelta is the signed wallet movement caused by receiving this receivable
func (ar *AccountReceivable) SettlementDelta() decimal.Decimal {
	return ar.Amount
}

// SettlementTransaction builds the INCOME transaction that realises the receivable
func (ar *AccountReceivable) SettlementTransaction(reference string, at *time.Time, notes string, actorID *uuid.UUID) (*FinancialTransaction, error) {
	if notes == "" {
		notes = ar.Notes
	}
	return NewFinancialTransaction(TransactionInput{
		CompanyID:       ar.CompanyID,
		BranchID:        ar.BranchID,
		Type:            TransactionTypeIncome,
		Amount:          ar.Amount,
		Description:     ar.Description,
		TransactionDate: settlementTime(at),
		Origin:          ar.Origin,
		DocumentNumber:  ar.DocumentNumber,
		Notes:           notes,
		Reference:       reference,
		CreatedBy:       actorID,
	})
}
