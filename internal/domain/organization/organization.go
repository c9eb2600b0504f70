// Package organization models the companies and branches that partition
// ledger records.
package organization

import (
	"context"
	"strings"
	"time"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Company owns branches and every ledger record below them
type Company struct {
	shared.BaseEntity
	Name      string
	DeletedAt *time.Time
}

// NewCompany creates a company
func NewCompany(name string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("company name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("company name cannot exceed 200 characters")
	}
	return &Company{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// IsActive reports whether the company has not been deleted
func (c *Company) IsActive() bool {
	return c.DeletedAt == nil
}

// Branch is the access-control partition for ledger records
type Branch struct {
	shared.BaseEntity
	CompanyID uuid.UUID
	Name      string
	DeletedAt *time.Time
}

// NewBranch creates a branch under a company
func NewBranch(companyID uuid.UUID, name string) (*Branch, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewValidationError("company ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("branch name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("branch name cannot exceed 200 characters")
	}
	return &Branch{BaseEntity: shared.NewBaseEntity(), CompanyID: companyID, Name: name}, nil
}

// IsActive reports whether the branch has not been deleted
func (b *Branch) IsActive() bool {
	return b.DeletedAt == nil
}

// CompanyRepository persists companies
type CompanyRepository interface {
	// FindByID returns shared.ErrNotFound for missing or deleted companies
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindAll(ctx context.Context) ([]Company, error)
	Save(ctx context.Context, company *Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BranchRepository persists branches
type BranchRepository interface {
	// FindByID returns shared.ErrNotFound for missing or deleted branches
	// and for branches of another company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Branch, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID) ([]Branch, error)
	Save(ctx context.Context, branch *Branch) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
