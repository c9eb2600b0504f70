package finance

import (
	"context"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// OriginType names the business event class that produced a ledger record
type OriginType string

const (
	OriginTypeMaintenanceOrder OriginType = "MAINTENANCE_ORDER"
	OriginTypeStockMovement    OriginType = "STOCK_MOVEMENT"
	OriginTypePayroll          OriginType = "PAYROLL"
	OriginTypeManual           OriginType = "MANUAL"
)

// IsValid checks if the origin type is known
func (o OriginType) IsValid() bool {
	switch o {
	case OriginTypeMaintenanceOrder, OriginTypeStockMovement, OriginTypePayroll, OriginTypeManual:
		return true
	}
	return false
}

// String returns the string representation of OriginType
func (o OriginType) String() string {
	return string(o)
}

// Origin is a weak reference to the business event behind a record.
// The ledger never owns the referenced entity.
type Origin struct {
	Type OriginType
	ID   *uuid.UUID
}

// IsZero reports whether no origin is set
func (o Origin) IsZero() bool {
	return o.Type == "" && o.ID == nil
}

// Validate checks the origin shape
func (o Origin) Validate() error {
	if o.IsZero() {
		return nil
	}
	if o.Type == "" {
		return shared.NewValidationError("origin type is required when origin ID is set")
	}
	if !o.Type.IsValid() {
		return shared.NewValidationError("origin type %q is not valid", o.Type)
	}
	if o.ID != nil && *o.ID == uuid.Nil {
		return shared.NewValidationError("origin ID cannot be empty")
	}
	return nil
}

// OriginResolver checks that a referenced origin exists in the caller's scope.
// Only origin types the ledger recognises are checked; others are trusted.
type OriginResolver interface {
	Exists(ctx context.Context, origin Origin, companyID, branchID uuid.UUID) (bool, error)
}
