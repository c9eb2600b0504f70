package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaintenanceOrderModel is the subset of the maintenance service's table the
// ledger reads to validate MAINTENANCE_ORDER origins. The ledger never writes it.
type MaintenanceOrderModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	CompanyID uuid.UUID      `gorm:"type:uuid;not null;index"`
	BranchID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (MaintenanceOrderModel) TableName() string {
	return "maintenance_orders"
}
