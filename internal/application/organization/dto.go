package organization

import (
	"time"

	"github.com/fleet/ledger/internal/domain/organization"
	"github.com/google/uuid"
)

// CreateCompanyRequest is the input for creating a company
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// CreateBranchRequest is the input for creating a branch in the caller's company
type CreateBranchRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// CompanyResponse is the API view of a company
type CompanyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchResponse is the API view of a branch
type BranchResponse struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCompanyResponse(c *organization.Company) *CompanyResponse {
	return &CompanyResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func toBranchResponse(b *organization.Branch) *BranchResponse {
	return &BranchResponse{ID: b.ID, CompanyID: b.CompanyID, Name: b.Name, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}
}
