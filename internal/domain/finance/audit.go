package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditAction names a mutating ledger operation
type AuditAction string

const (
	AuditActionCreate                 AuditAction = "CREATE"
	AuditActionUpdate                 AuditAction = "UPDATE"
	AuditActionSettle                 AuditAction = "SETTLE"
	AuditActionCancel                 AuditAction = "CANCEL"
	AuditActionDelete                 AuditAction = "DELETE"
	AuditActionAdjust                 AuditAction = "ADJUST"
	AuditActionReconciliationRequired AuditAction = "RECONCILIATION_REQUIRED"
)

// Audited entity types
const (
	EntityTypeAccountPayable       = "AccountPayable"
	EntityTypeAccountReceivable    = "AccountReceivable"
	EntityTypeFinancialTransaction = "FinancialTransaction"
	EntityTypeBranchWallet         = "BranchWallet"
)

// AuditEntry is one compliance record of a mutating ledger call.
// Before and After are snapshots of the entity; either may be nil.
type AuditEntry struct {
	ID         uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Action     AuditAction
	ActorID    uuid.UUID
	CompanyID  uuid.UUID
	BranchID   uuid.UUID
	Before     any
	After      any
	CreatedAt  time.Time
}

// NewAuditEntry stamps a new audit entry
func NewAuditEntry(entityType string, entityID uuid.UUID, action AuditAction, actorID, companyID, branchID uuid.UUID, before, after any) AuditEntry {
	return AuditEntry{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
		CompanyID:  companyID,
		BranchID:   branchID,
		Before:     before,
		After:      after,
		CreatedAt:  time.Now(),
	}
}

// AuditSink receives audit entries. Failures never abort a ledger operation.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}
