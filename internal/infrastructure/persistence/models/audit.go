package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLogModel is one row of the append-only audit trail.
type AuditLogModel struct {
	ID         uuid.UUID           `gorm:"type:uuid;primary_key"`
	EntityType string              `gorm:"type:varchar(50);not null;index:idx_audit_entity,priority:1"`
	EntityID   uuid.UUID           `gorm:"type:uuid;not null;index:idx_audit_entity,priority:2"`
	Action     finance.AuditAction `gorm:"type:varchar(30);not null"`
	ActorID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	CompanyID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	BranchID   uuid.UUID           `gorm:"type:uuid;index"`
	Before     datatypes.JSON
	After      datatypes.JSON
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// AuditLogModelFromDomain serialises the before/after snapshots of an entry.
func AuditLogModelFromDomain(e finance.AuditEntry) (*AuditLogModel, error) {
	before, err := marshalSnapshot(e.Before)
	if err != nil {
		return nil, fmt.Errorf("failed to encode before snapshot: %w", err)
	}
	after, err := marshalSnapshot(e.After)
	if err != nil {
		return nil, fmt.Errorf("failed to encode after snapshot: %w", err)
	}
	return &AuditLogModel{
		ID:         e.ID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		ActorID:    e.ActorID,
		CompanyID:  e.CompanyID,
		BranchID:   e.BranchID,
		Before:     before,
		After:      after,
		CreatedAt:  e.CreatedAt,
	}, nil
}

func marshalSnapshot(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
