package persistence

import (
	"github.com/fleet/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// AllModels lists every table owned by the ledger plus the read-only origin tables.
func AllModels() []any {
	return []any{
		&models.CompanyModel{},
		&models.BranchModel{},
		&models.AccountPayableModel{},
		&models.AccountReceivableModel{},
		&models.FinancialTransactionModel{},
		&models.BranchWalletModel{},
		&models.BalanceAdjustmentModel{},
		&models.AuditLogModel{},
		&models.MaintenanceOrderModel{},
	}
}

// AutoMigrate migrates the schema of every model in AllModels
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
