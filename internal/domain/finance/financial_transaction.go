package finance

import (
	"strings"
	"time"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a realised cash movement
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// TransactionInput carries the fields used to record a financial transaction
type TransactionInput struct {
	CompanyID       uuid.UUID
	BranchID        uuid.UUID
	Type            TransactionType
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
	Origin          Origin
	DocumentNumber  string
	Notes           string
	Reference       string
	CreatedBy       *uuid.UUID
}

// TransactionUpdate holds a partial update. Nil fields are left untouched.
type TransactionUpdate struct {
	BranchID        *uuid.UUID
	Type            *TransactionType
	Amount          *decimal.Decimal
	Description     *string
	TransactionDate *time.Time
	OriginType      *OriginType
	OriginID        *uuid.UUID
	DocumentNumber  *string
	Notes           *string
}

// OriginChanged reports whether the update touches the origin reference
func (u TransactionUpdate) OriginChanged() bool {
	return u.OriginType != nil || u.OriginID != nil
}

// FinancialTransaction is a realised cash movement
type FinancialTransaction struct {
	shared.BranchAggregateRoot
	Reference       string
	Type            TransactionType
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
	Origin          Origin
	DocumentNumber  string
	Notes           string
}

// NewFinancialTransaction records a new transaction
func NewFinancialTransaction(in TransactionInput) (*FinancialTransaction, error) {
	if in.CompanyID == uuid.Nil {
		return nil, shared.NewValidationError("company ID is required")
	}
	if in.BranchID == uuid.Nil {
		return nil, shared.NewValidationError("branch ID is required")
	}
	if !in.Type.IsValid() {
		return nil, shared.NewValidationError("transaction type must be INCOME or EXPENSE")
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.TransactionDate.IsZero() {
		return nil, shared.NewValidationError("transaction date is required")
	}
	if err := in.Origin.Validate(); err != nil {
		return nil, err
	}
	if len(in.Description) > 500 {
		return nil, shared.NewValidationError("description cannot exceed 500 characters")
	}

	ft := &FinancialTransaction{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(in.CompanyID, in.BranchID, in.CreatedBy),
		Reference:           in.Reference,
		Type:                in.Type,
		Amount:              in.Amount,
		Description:         strings.TrimSpace(in.Description),
		TransactionDate:     in.TransactionDate,
		Origin:              in.Origin,
		DocumentNumber:      in.DocumentNumber,
		Notes:               in.Notes,
	}

	ft.AddDomainEvent(NewFinancialTransactionCreatedEvent(ft))

	return ft, nil
}

// Update applies a partial update. Transactions carry no state machine.
func (ft *FinancialTransaction) Update(u TransactionUpdate) error {
	if u.Type != nil && !u.Type.IsValid() {
		return shared.NewValidationError("transaction type must be INCOME or EXPENSE")
	}
	if u.Amount != nil {
		if err := validateAmount(*u.Amount); err != nil {
			return err
		}
	}
	if u.TransactionDate != nil && u.TransactionDate.IsZero() {
		return shared.NewValidationError("transaction date cannot be empty")
	}
	if u.Description != nil && len(*u.Description) > 500 {
		return shared.NewValidationError("description cannot exceed 500 characters")
	}
	if u.BranchID != nil && *u.BranchID == uuid.Nil {
		return shared.NewValidationError("branch ID cannot be empty")
	}

	origin := ft.Origin
	if u.OriginType != nil {
		origin.Type = *u.OriginType
	}
	if u.OriginID != nil {
		id := *u.OriginID
		origin.ID = &id
	}
	if err := origin.Validate(); err != nil {
		return err
	}

	if u.BranchID != nil {
		ft.BranchID = *u.BranchID
	}
	if u.Type != nil {
		ft.Type = *u.Type
	}
	if u.Amount != nil {
		ft.Amount = *u.Amount
	}
	if u.Description != nil {
		ft.Description = strings.TrimSpace(*u.Description)
	}
	if u.TransactionDate != nil {
		ft.TransactionDate = *u.TransactionDate
	}
	if u.DocumentNumber != nil {
		ft.DocumentNumber = *u.DocumentNumber
	}
	if u.Notes != nil {
		ft.Notes = *u.Notes
	}
	ft.Origin = origin
	ft.Touch()

	ft.AddDomainEvent(NewFinancialTransactionUpdatedEvent(ft))

	return nil
}

// SignedAmount returns +amount for income and -amount for expense
func (ft *FinancialTransaction) SignedAmount() decimal.Decimal {
	if ft.Type == TransactionTypeExpense {
		return ft.Amount.Neg()
	}
	return ft.Amount
}

// MarkDeleted raises the deletion event. Reference checks happen in the ledger service.
func (ft *FinancialTransaction) MarkDeleted() {
	ft.AddDomainEvent(NewFinancialTransactionDeletedEvent(ft))
}
