package finance

import (
	"context"
	"strings"

	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// TransactionService records realised cash movements. Manual transactions
// never move the branch wallet; only settlements do.
type TransactionService struct {
	ledger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(deps Dependencies, opts ...Option) *TransactionService {
	return &TransactionService{ledger: newLedger(deps, opts)}
}

// Create records a manual financial transaction
func (s *TransactionService) Create(ctx context.Context, company access.CompanyContext, actor access.Actor, req CreateTransactionRequest) (_ *FinancialTransactionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "create",
		attribute.String(telemetry.AttrCompanyID, company.CompanyID.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if err := s.authenticate(actor, company); err != nil {
		return nil, err
	}
	branchID, err := s.writeBranch(actor, req.BranchID)
	if err != nil {
		return nil, err
	}
	origin := finance.Origin{Type: finance.OriginType(req.OriginType), ID: req.OriginID}
	if err := s.ensureScope(ctx, company.CompanyID, branchID); err != nil {
		return nil, err
	}
	if err := s.ensureOrigin(ctx, origin, company.CompanyID, branchID); err != nil {
		return nil, err
	}

	ft, err := finance.NewFinancialTransaction(finance.TransactionInput{
		CompanyID:       company.CompanyID,
		BranchID:        branchID,
		Type:            finance.TransactionType(strings.ToUpper(req.Type)),
		Amount:          req.Amount,
		Description:     req.Description,
		TransactionDate: req.TransactionDate,
		Origin:          origin,
		DocumentNumber:  req.DocumentNumber,
		Notes:           req.Notes,
		Reference:       s.opts.references.NextReference(),
		CreatedBy:       &actor.ID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.deps.Transactions.Create(ctx, ft); err != nil {
		return nil, err
	}

	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeFinancialTransaction, ft.ID, finance.AuditActionCreate,
		actor.ID, ft.CompanyID, ft.BranchID, nil, ft.Snapshot()))
	s.publish(ctx, ft)

	return toTransactionResponse(ft), nil
}

// GetByID returns a transaction the caller is allowed to see
func (s *TransactionService) GetByID(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (*FinancialTransactionResponse, error) {
	ft, err := s.find(ctx, company, actor, id)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(ft), nil
}

func (s *TransactionService) find(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (*finance.FinancialTransaction, error) {
	if err := s.authenticate(actor, company); err != nil {
		return nil, err
	}
	ft, err := s.deps.Transactions.FindByID(ctx, company.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Guard.AuthorizeRecord(actor, ft.BranchID); err != nil {
		return nil, err
	}
	return ft, nil
}

// List returns transactions newest first
func (s *TransactionService) List(ctx context.Context, company access.CompanyContext, actor access.Actor, filter TransactionListFilter) (*shared.Paginated[FinancialTransactionResponse], error) {
	if err := s.authenticate(actor, company); err != nil {
		return nil, err
	}
	date := ObligationListFilter{StartDate: filter.StartDate, EndDate: filter.EndDate}.dueRange()
	if err := date.Validate(); err != nil {
		return nil, err
	}

	domainFilter := finance.TransactionFilter{
		Filter:    s.listFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
		CompanyID: company.CompanyID,
		BranchID:  s.deps.Guard.ScopeBranch(actor, filter.BranchID),
		Date:      date,
	}
	if filter.Type != "" {
		t := finance.TransactionType(strings.ToUpper(filter.Type))
		if !t.IsValid() {
			return nil, shared.NewValidationError("transaction type must be INCOME or EXPENSE")
		}
		domainFilter.Type = &t
	}

	transactions, err := s.deps.Transactions.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.deps.Transactions.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]FinancialTransactionResponse, len(transactions))
	for i := range transactions {
		items[i] = *toTransactionResponse(&transactions[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update edits a transaction. Transactions have no state machine, so settled
// links do not block edits here.
func (s *TransactionService) Update(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID, req UpdateTransactionRequest) (_ *FinancialTransactionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "update",
		attribute.String(telemetry.AttrTransactionID, id.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	ft, err := s.find(ctx, company, actor, id)
	if err != nil {
		return nil, err
	}
	before := ft.Snapshot()

	u := req.toDomain()
	if u.BranchID != nil {
		branchID, err := s.writeBranch(actor, u.BranchID)
		if err != nil {
			return nil, err
		}
		u.BranchID = &branchID
	}
	if err := ft.Update(u); err != nil {
		return nil, err
	}
	if ft.BranchID != before.BranchID {
		if err := s.ensureScope(ctx, company.CompanyID, ft.BranchID); err != nil {
			return nil, err
		}
	}
	if u.OriginChanged() || ft.BranchID != before.BranchID {
		if err := s.ensureOrigin(ctx, ft.Origin, company.CompanyID, ft.BranchID); err != nil {
			return nil, err
		}
	}
	if err := s.deps.Transactions.Update(ctx, ft); err != nil {
		return nil, err
	}

	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeFinancialTransaction, ft.ID, finance.AuditActionUpdate,
		actor.ID, ft.CompanyID, ft.BranchID, before, ft.Snapshot()))
	s.publish(ctx, ft)

	return toTransactionResponse(ft), nil
}

// Delete removes a transaction that no payable or receivable references.
// Deleted payables and receivables still count as references.
func (s *TransactionService) Delete(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "delete",
		attribute.String(telemetry.AttrTransactionID, id.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	ft, err := s.find(ctx, company, actor, id)
	if err != nil {
		return err
	}
	before := ft.Snapshot()

	err = s.deps.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payables, err := repos.Payables().CountByTransactionID(ctx, ft.ID)
		if err != nil {
			return err
		}
		if payables > 0 {
			return shared.NewConflictError("transaction is linked to a payable")
		}
		receivables, err := repos.Receivables().CountByTransactionID(ctx, ft.ID)
		if err != nil {
			return err
		}
		if receivables > 0 {
			return shared.NewConflictError("transaction is linked to a receivable")
		}
		return repos.Transactions().Delete(ctx, company.CompanyID, ft.ID)
	})
	if err != nil {
		return err
	}

	ft.MarkDeleted()
	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeFinancialTransaction, ft.ID, finance.AuditActionDelete,
		actor.ID, ft.CompanyID, ft.BranchID, before, nil))
	s.publish(ctx, ft)

	return nil
}
