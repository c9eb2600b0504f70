package models

import (
	"time"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// BranchAggregateModel carries the company/branch partition of ledger records.
type BranchAggregateModel struct {
	BaseModel
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	BranchID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainBranchAggregateRoot populates the model from a domain aggregate
func (m *BranchAggregateModel) FromDomainBranchAggregateRoot(a shared.BranchAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.CompanyID = a.CompanyID
	m.BranchID = a.BranchID
	m.CreatedBy = a.CreatedBy
}

// ToDomainBranchAggregateRoot rebuilds the domain aggregate root. Pending
// events are not persisted, so the result starts with none.
func (m *BranchAggregateModel) ToDomainBranchAggregateRoot() shared.BranchAggregateRoot {
	return shared.BranchAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		CompanyID:         m.CompanyID,
		BranchID:          m.BranchID,
		CreatedBy:         m.CreatedBy,
	}
}

func deletedAtToDomain(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func deletedAtFromDomain(t *time.Time) gorm.DeletedAt {
	if t == nil {
		return gorm.DeletedAt{}
	}
	return gorm.DeletedAt{Time: *t, Valid: true}
}
