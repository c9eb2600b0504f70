package models

import (
	"time"

	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ObligationColumns are the columns shared by payables and receivables.
type ObligationColumns struct {
	Description            string             `gorm:"type:varchar(500);not null"`
	Amount                 decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	DueDate                time.Time          `gorm:"not null;index"`
	OriginType             finance.OriginType `gorm:"type:varchar(30)"`
	OriginID               *uuid.UUID         `gorm:"type:uuid;index"`
	DocumentNumber         string             `gorm:"type:varchar(100)"`
	Notes                  string             `gorm:"type:text"`
	FinancialTransactionID *uuid.UUID         `gorm:"type:uuid;index"`
	DeletedAt              gorm.DeletedAt     `gorm:"index"`
}

func (c *ObligationColumns) origin() finance.Origin {
	return finance.Origin{Type: c.OriginType, ID: c.OriginID}
}

// AccountPayableModel is the persistence model for the AccountPayable aggregate root.
type AccountPayableModel struct {
	BranchAggregateModel
	ObligationColumns
	Status      finance.PayableStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentDate *time.Time            `gorm:"index"`
}

// TableName returns the table name for GORM
func (AccountPayableModel) TableName() string {
	return "account_payables"
}

// ToDomain converts the persistence model to a domain AccountPayable.
func (m *AccountPayableModel) ToDomain() *finance.AccountPayable {
	ap := &finance.AccountPayable{
		BranchAggregateRoot: m.ToDomainBranchAggregateRoot(),
		Status:              m.Status,
		PaymentDate:         m.PaymentDate,
	}
	ap.Description = m.Description
	ap.Amount = m.Amount
	ap.DueDate = m.DueDate
	ap.Origin = m.origin()
	ap.DocumentNumber = m.DocumentNumber
	ap.Notes = m.Notes
	ap.FinancialTransactionID = m.FinancialTransactionID
	ap.DeletedAt = deletedAtToDomain(m.DeletedAt)
	return ap
}

// AccountPayableModelFromDomain creates a persistence model from a domain AccountPayable.
func AccountPayableModelFromDomain(ap *finance.AccountPayable) *AccountPayableModel {
	m := &AccountPayableModel{
		ObligationColumns: ObligationColumns{
			Description:            ap.Description,
			Amount:                 ap.Amount,
			DueDate:                ap.DueDate,
			OriginType:             ap.Origin.Type,
			OriginID:               ap.Origin.ID,
			DocumentNumber:         ap.DocumentNumber,
			Notes:                  ap.Notes,
			FinancialTransactionID: ap.FinancialTransactionID,
			DeletedAt:              deletedAtFromDomain(ap.DeletedAt),
		},
		Status:      ap.Status,
		PaymentDate: ap.PaymentDate,
	}
	m.FromDomainBranchAggregateRoot(ap.BranchAggregateRoot)
	return m
}

// AccountReceivableModel is the persistence model for the AccountReceivable aggregate root.
type AccountReceivableModel struct {
	BranchAggregateModel
	ObligationColumns
	Status      finance.ReceivableStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ReceiptDate *time.Time               `gorm:"index"`
}

// TableName returns the table name for GORM
func (AccountReceivableModel) TableName() string {
	return "account_receivables"
}

// ToDomain converts the persistence model to a domain AccountReceivable.
func (m *AccountReceivableModel) ToDomain() *finance.AccountReceivable {
	ar := &finance.AccountReceivable{
		BranchAggregateRoot: m.ToDomainBranchAggregateRoot(),
		Status:              m.Status,
		ReceiptDate:         m.ReceiptDate,
	}
	ar.Description = m.Description
	ar.Amount = m.Amount
	ar.DueDate = m.DueDate
	ar.Origin = m.origin()
	ar.DocumentNumber = m.DocumentNumber
	ar.Notes = m.Notes
	ar.FinancialTransactionID = m.FinancialTransactionID
	ar.DeletedAt = deletedAtToDomain(m.DeletedAt)
	return ar
}

// AccountReceivableModelFromDomain creates a persistence model from a domain AccountReceivable.
func AccountReceivableModelFromDomain(ar *finance.AccountReceivable) *AccountReceivableModel {
	m := &AccountReceivableModel{
		ObligationColumns: ObligationColumns{
			Description:            ar.Description,
			Amount:                 ar.Amount,
			DueDate:                ar.DueDate,
			OriginType:             ar.Origin.Type,
			OriginID:               ar.Origin.ID,
			DocumentNumber:         ar.DocumentNumber,
			Notes:                  ar.Notes,
			FinancialTransactionID: ar.FinancialTransactionID,
			DeletedAt:              deletedAtFromDomain(ar.DeletedAt),
		},
		Status:      ar.Status,
		ReceiptDate: ar.ReceiptDate,
	}
	m.FromDomainBranchAggregateRoot(ar.BranchAggregateRoot)
	return m
}

// FinancialTransactionModel is the persistence model for realised cash movements.
// Transactions are hard-deleted.
type FinancialTransactionModel struct {
	BranchAggregateModel
	Reference       string                  `gorm:"type:varchar(50);index"`
	Type            finance.TransactionType `gorm:"type:varchar(20);not null;index"`
	Amount          decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Description     string                  `gorm:"type:varchar(500)"`
	TransactionDate time.Time               `gorm:"not null;index"`
	OriginType      finance.OriginType      `gorm:"type:varchar(30)"`
	OriginID        *uuid.UUID              `gorm:"type:uuid"`
	DocumentNumber  string                  `gorm:"type:varchar(100)"`
	Notes           string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FinancialTransactionModel) TableName() string {
	return "financial_transactions"
}

// ToDomain converts the persistence model to a domain FinancialTransaction.
func (m *FinancialTransactionModel) ToDomain() *finance.FinancialTransaction {
	return &finance.FinancialTransaction{
		BranchAggregateRoot: m.ToDomainBranchAggregateRoot(),
		Reference:           m.Reference,
		Type:                m.Type,
		Amount:              m.Amount,
		Description:         m.Description,
		TransactionDate:     m.TransactionDate,
		Origin:              finance.Origin{Type: m.OriginType, ID: m.OriginID},
		DocumentNumber:      m.DocumentNumber,
		Notes:               m.Notes,
	}
}

// FinancialTransactionModelFromDomain creates a persistence model from a domain FinancialTransaction.
func FinancialTransactionModelFromDomain(ft *finance.FinancialTransaction) *FinancialTransactionModel {
	m := &FinancialTransactionModel{
		Reference:       ft.Reference,
		Type:            ft.Type,
		Amount:          ft.Amount,
		Description:     ft.Description,
		TransactionDate: ft.TransactionDate,
		OriginType:      ft.Origin.Type,
		OriginID:        ft.Origin.ID,
		DocumentNumber:  ft.DocumentNumber,
		Notes:           ft.Notes,
	}
	m.FromDomainBranchAggregateRoot(ft.BranchAggregateRoot)
	return m
}
