package finance

import (
	"strings"
	"time"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObligationInput carries the fields used to create a payable or receivable
type ObligationInput struct {
	CompanyID      uuid.UUID
	BranchID       uuid.UUID
	Description    string
	Amount         decimal.Decimal
	DueDate        time.Time
	Origin         Origin
	DocumentNumber string
	Notes          string
	CreatedBy      *uuid.UUID
}

// ObligationUpdate holds a partial update. Nil fields are left untouched.
type ObligationUpdate struct {
	BranchID       *uuid.UUID
	Description    *string
	Amount         *decimal.Decimal
	DueDate        *time.Time
	OriginType     *OriginType
	OriginID       *uuid.UUID
	DocumentNumber *string
	Notes          *string
}

// IsEmpty reports whether the update changes nothing
func (u ObligationUpdate) IsEmpty() bool {
	return u.BranchID == nil && u.Description == nil && u.Amount == nil && u.DueDate == nil &&
		u.OriginType == nil && u.OriginID == nil && u.DocumentNumber == nil && u.Notes == nil
}

// obligation is the state shared by payables and receivables
type obligation struct {
	Description            string
	Amount                 decimal.Decimal
	DueDate                time.Time
	Origin                 Origin
	DocumentNumber         string
	Notes                  string
	FinancialTransactionID *uuid.UUID
	DeletedAt              *time.Time
}

func (in ObligationInput) validate() error {
	if in.CompanyID == uuid.Nil {
		return shared.NewValidationError("company ID is required")
	}
	if in.BranchID == uuid.Nil {
		return shared.NewValidationError("branch ID is required")
	}
	if err := validateDescription(in.Description); err != nil {
		return err
	}
	if err := validateAmount(in.Amount); err != nil {
		return err
	}
	if in.DueDate.IsZero() {
		return shared.NewValidationError("due date is required")
	}
	return in.Origin.Validate()
}

func newObligation(in ObligationInput) obligation {
	return obligation{
		Description:    strings.TrimSpace(in.Description),
		Amount:         in.Amount,
		DueDate:        in.DueDate,
		Origin:         in.Origin,
		DocumentNumber: in.DocumentNumber,
		Notes:          in.Notes,
	}
}

// apply validates every provided field before writing any of them
func (o *obligation) apply(u ObligationUpdate) error {
	if u.Description != nil {
		if err := validateDescription(*u.Description); err != nil {
			return err
		}
	}
	if u.Amount != nil {
		if err := validateAmount(*u.Amount); err != nil {
			return err
		}
	}
	if u.DueDate != nil && u.DueDate.IsZero() {
		return shared.NewValidationError("due date cannot be empty")
	}
	if u.BranchID != nil && *u.BranchID == uuid.Nil {
		return shared.NewValidationError("branch ID cannot be empty")
	}

	origin := o.Origin
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

	if u.Description != nil {
		o.Description = strings.TrimSpace(*u.Description)
	}
	if u.Amount != nil {
		o.Amount = *u.Amount
	}
	if u.DueDate != nil {
		o.DueDate = *u.DueDate
	}
	if u.DocumentNumber != nil {
		o.DocumentNumber = *u.DocumentNumber
	}
	if u.Notes != nil {
		o.Notes = *u.Notes
	}
	o.Origin = origin
	return nil
}

func validateDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewValidationError("description cannot be empty")
	}
	if len(description) > 500 {
		return shared.NewValidationError("description cannot exceed 500 characters")
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("amount must be positive")
	}
	return nil
}

// settlementTime returns at, or now when at is nil
func settlementTime(at *time.Time) time.Time {
	if at == nil || at.IsZero() {
		return time.Now()
	}
	return *at
}
