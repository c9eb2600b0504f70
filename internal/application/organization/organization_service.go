// Package organization manages the companies and branches ledger records are
// partitioned by. Writes are reserved to administrators.
package organization

import (
	"context"

	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/domain/organization"
	"github.com/fleet/ledger/internal/infrastructure/logger"
	"github.com/fleet/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const serviceName = "organization"

// OrganizationService handles company and branch management
type OrganizationService struct {
	companies organization.CompanyRepository
	branches  organization.BranchRepository
	guard     *access.Guard
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(companies organization.CompanyRepository, branches organization.BranchRepository, guard *access.Guard) *OrganizationService {
	if guard == nil {
		guard = access.NewGuard()
	}
	return &OrganizationService{companies: companies, branches: branches, guard: guard}
}

// CreateCompany registers a new company
func (s *OrganizationService) CreateCompany(ctx context.Context, actor access.Actor, req CreateCompanyRequest) (_ *CompanyResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "create_company",
		attribute.String(telemetry.AttrActorID, actor.ID.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	company, err := organization.NewCompany(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.companies.Save(ctx, company); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("company created", zap.String("company_id", company.ID.String()))
	return toCompanyResponse(company), nil
}

// ListCompanies returns every active company
func (s *OrganizationService) ListCompanies(ctx context.Context, actor access.Actor) ([]CompanyResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	companies, err := s.companies.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CompanyResponse, len(companies))
	for i := range companies {
		out[i] = *toCompanyResponse(&companies[i])
	}
	return out, nil
}

// GetCompany returns the caller's company
func (s *OrganizationService) GetCompany(ctx context.Context, company access.CompanyContext, actor access.Actor) (*CompanyResponse, error) {
	if err := s.guard.RequireIdentity(actor); err != nil {
		return nil, err
	}
	found, err := s.companies.FindByID(ctx, company.CompanyID)
	if err != nil {
		return nil, err
	}
	return toCompanyResponse(found), nil
}

// CreateBranch adds a branch to the caller's company
func (s *OrganizationService) CreateBranch(ctx context.Context, company access.CompanyContext, actor access.Actor, req CreateBranchRequest) (_ *BranchResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "create_branch",
		attribute.String(telemetry.AttrCompanyID, company.CompanyID.String()),
		attribute.String(telemetry.AttrActorID, actor.ID.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.companies.FindByID(ctx, company.CompanyID); err != nil {
		return nil, err
	}
	branch, err := organization.NewBranch(company.CompanyID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.branches.Save(ctx, branch); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("branch created",
		zap.String("company_id", company.CompanyID.String()),
		zap.String("branch_id", branch.ID.String()))
	return toBranchResponse(branch), nil
}

// ListBranches returns the company's branches. Branch-confined callers only see their own.
func (s *OrganizationService) ListBranches(ctx context.Context, company access.CompanyContext, actor access.Actor) ([]BranchResponse, error) {
	if err := s.guard.RequireIdentity(actor); err != nil {
		return nil, err
	}
	branches, err := s.branches.FindAllForCompany(ctx, company.CompanyID)
	if err != nil {
		return nil, err
	}

	scope := s.guard.ScopeBranch(actor, nil)
	out := make([]BranchResponse, 0, len(branches))
	for i := range branches {
		if scope != nil && branches[i].ID != *scope {
			continue
		}
		out = append(out, *toBranchResponse(&branches[i]))
	}
	return out, nil
}

// GetBranch returns one branch the caller may see
func (s *OrganizationService) GetBranch(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (*BranchResponse, error) {
	if err := s.guard.RequireIdentity(actor); err != nil {
		return nil, err
	}
	branch, err := s.branches.FindByID(ctx, company.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeRecord(actor, branch.ID); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// DeleteBranch soft deletes a branch. Its ledger records stay, but no new ones can be created.
func (s *OrganizationService) DeleteBranch(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	if err := s.branches.Delete(ctx, company.CompanyID, id); err != nil {
		return err
	}
	logger.L(ctx).Info("branch deleted",
		zap.String("company_id", company.CompanyID.String()),
		zap.String("branch_id", id.String()))
	return nil
}

func (s *OrganizationService) requireAdmin(actor access.Actor) error {
	if err := s.guard.RequireIdentity(actor); err != nil {
		return err
	}
	return s.guard.RequireAdmin(actor)
}

