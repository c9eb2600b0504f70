package models

import (
	"github.com/fleet/ledger/internal/domain/organization"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyModel is the persistence model for companies.
type CompanyModel struct {
	BaseModel
	Name      string         `gorm:"type:varchar(200);not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the model to a domain Company
func (m *CompanyModel) ToDomain() *organization.Company {
	return &organization.Company{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		DeletedAt:  deletedAtToDomain(m.DeletedAt),
	}
}

// CompanyModelFromDomain creates a model from a domain Company
func CompanyModelFromDomain(c *organization.Company) *CompanyModel {
	m := &CompanyModel{Name: c.Name, DeletedAt: deletedAtFromDomain(c.DeletedAt)}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// BranchModel is the persistence model for branches.
type BranchModel struct {
	BaseModel
	CompanyID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name      string         `gorm:"type:varchar(200);not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the model to a domain Branch
func (m *BranchModel) ToDomain() *organization.Branch {
	return &organization.Branch{
		BaseEntity: m.BaseModel.ToDomain(),
		CompanyID:  m.CompanyID,
		Name:       m.Name,
		DeletedAt:  deletedAtToDomain(m.DeletedAt),
	}
}

// BranchModelFromDomain creates a model from a domain Branch
func BranchModelFromDomain(b *organization.Branch) *BranchModel {
	m := &BranchModel{CompanyID: b.CompanyID, Name: b.Name, DeletedAt: deletedAtFromDomain(b.DeletedAt)}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}
