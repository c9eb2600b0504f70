package finance

import (
	"context"
	"errors"

	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const kindReceivable = "receivable"

// ReceivableService is the accounts receivable engine
type ReceivableService struct {
	ledger
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(deps Dependencies, opts ...Option) *ReceivableService {
	return &ReceivableService{ledger: newLedger(deps, opts)}
}

// Create records a pending receivable in the caller's branch
func (s *ReceivableService) Create(ctx context.Context, company access.CompanyContext, actor access.Actor, req CreateObligationRequest) (_ *AccountReceivableResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, kindReceivable, "create",
		attribute.String(telemetry.AttrCompanyID, company.CompanyID.String()),
		attribute.String(telemetry.AttrActorID, actor.ID.String()))
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

	ar, err := finance.NewAccountReceivable(finance.ObligationInput{
		CompanyID:      company.CompanyID,
		BranchID:       branchID,
		Description:    req.Description,
		Amount:         req.Amount,
		DueDate:        req.DueDate,
		Origin:         origin,
		DocumentNumber: req.DocumentNumber,
		Notes:          req.Notes,
		CreatedBy:      &actor.ID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.deps.Receivables.Create(ctx, ar); err != nil {
		return nil, err
	}

	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeAccountReceivable, ar.ID, finance.AuditActionCreate,
		actor.ID, ar.CompanyID, ar.BranchID, nil, ar.Snapshot()))
	s.publish(ctx, ar)

	return toReceivableResponse(ar), nil
}

// GetByID returns a receivable the caller is allowed to see
func (s *ReceivableService) GetByID(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (*AccountReceivableResponse, error) {
	ar, err := s.find(ctx, company, actor, id)
	if err != nil {
		return nil, err
	}
	return toReceivableResponse(ar), nil
}

func (s *ReceivableService) find(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (*finance.AccountReceivable, error) {
	if err := s.authenticate(actor, company); err != nil {
		return nil, err
	}
	ar, err := s.deps.Receivables.FindByID(ctx, company.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Guard.AuthorizeRecord(actor, ar.BranchID); err != nil {
		return nil, err
	}
	return ar, nil
}

// List returns a page of receivables ordered by due date
func (s *ReceivableService) List(ctx context.Context, company access.CompanyContext, actor access.Actor, filter ObligationListFilter) (*shared.Paginated[AccountReceivableResponse], error) {
	domainFilter, err := s.obligationFilter(company, actor, filter, isReceivableStatus)
	if err != nil {
		return nil, err
	}
	receivables, err := s.deps.Receivables.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.deps.Receivables.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]AccountReceivableResponse, len(receivables))
	for i := range receivables {
		items[i] = *toReceivableResponse(&receivables[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Summary returns a page of receivables plus totals per status. The status
// filter narrows the page only; totals always cover all three statuses.
func (s *ReceivableService) Summary(ctx context.Context, company access.CompanyContext, actor access.Actor, filter ObligationListFilter) (*ReceivableSummaryResponse, error) {
	page, err := s.List(ctx, company, actor, filter)
	if err != nil {
		return nil, err
	}
	domainFilter, err := s.obligationFilter(company, actor, filter, isReceivableStatus)
	if err != nil {
		return nil, err
	}
	totals, err := s.deps.Receivables.SumByStatus(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return &ReceivableSummaryResponse{Paginated: page, Totals: *totals}, nil
}

// Update edits a pending receivable. Only provided fields change.
func (s *ReceivableService) Update(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID, req UpdateObligationRequest) (_ *AccountReceivableResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, kindReceivable, "update",
		attribute.String(telemetry.AttrReceivableID, id.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	ar, err := s.find(ctx, company, actor, id)
	if err != nil {
		return nil, err
	}
	before := ar.Snapshot()
	expected := ar.Status

	u := req.toDomain()
	if u.BranchID != nil {
		branchID, err := s.writeBranch(actor, u.BranchID)
		if err != nil {
			return nil, err
		}
		u.BranchID = &branchID
	}
	if err := ar.Update(u); err != nil {
		return nil, err
	}
	if ar.BranchID != before.BranchID {
		if err := s.ensureScope(ctx, company.CompanyID, ar.BranchID); err != nil {
			return nil, err
		}
	}
	if u.OriginType != nil || u.OriginID != nil || ar.BranchID != before.BranchID {
		if err := s.ensureOrigin(ctx, ar.Origin, company.CompanyID, ar.BranchID); err != nil {
			return nil, err
		}
	}

	if err := s.deps.Receivables.Update(ctx, ar, expected); err != nil {
		return nil, err
	}

	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeAccountReceivable, ar.ID, finance.AuditActionUpdate,
		actor.ID, ar.CompanyID, ar.BranchID, before, ar.Snapshot()))
	s.publish(ctx, ar)

	return toReceivableResponse(ar), nil
}

// Receive settles a receivable: it records an INCOME transaction, marks the
// receivable RECEIVED and credits the branch wallet. A wallet failure after the
// ledger commit returns the received record with RECONCILIATION_REQUIRED.
func (s *ReceivableService) Receive(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID, req SettleRequest) (_ *SettlementResponse[AccountReceivableResponse], err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, kindReceivable, "receive",
		attribute.String(telemetry.AttrReceivableID, id.String()),
		attribute.String(telemetry.AttrActorID, actor.ID.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if err := s.authenticate(actor, company); err != nil {
		return nil, err
	}

	at := s.now()
	if req.SettlementDate != nil {
		at = *req.SettlementDate
	}

	var (
		ar     *finance.AccountReceivable
		ft     *finance.FinancialTransaction
		before finance.ObligationSnapshot
	)
	st := &settlement{
		kind:       kindReceivable,
		entityType: finance.EntityTypeAccountReceivable,
		companyID:  company.CompanyID,
		actorID:    actor.ID,
	}
	err = s.settle(ctx, st, func(repos TransactionalRepositories) error {
		found, err := repos.Receivables().FindByIDForUpdate(ctx, company.CompanyID, id)
		if err != nil {
			return err
		}
		if err := s.deps.Guard.AuthorizeRecord(actor, found.BranchID); err != nil {
			return err
		}
		if err := found.CanSettle(); err != nil {
			return err
		}
		if found.DeletedAt != nil {
			return shared.NewNotFoundError("account receivable not found")
		}
		before = found.Snapshot()

		tx, err := found.SettlementTransaction(s.opts.references.NextReference(), &at, req.Notes, &actor.ID)
		if err != nil {
			return err
		}
		if err := repos.Transactions().Create(ctx, tx); err != nil {
			return err
		}
		if err := found.Receive(tx.ID, &at, req.Notes); err != nil {
			return err
		}
		if err := repos.Receivables().Update(ctx, found, finance.ReceivableStatusPending); err != nil {
			return err
		}

		ar, ft = found, tx
		st.branchID = found.BranchID
		st.recordID = found.ID
		st.delta = found.SettlementDelta()
		st.amount = found.Amount
		return nil
	})
	if err != nil && !errors.Is(err, shared.ErrReconciliationRequired) {
		return nil, err
	}
	// committed from here on; audit and events must not be lost to a cancelled caller
	ctx = context.WithoutCancel(ctx)

	telemetry.SetAttributes(span, telemetry.AttrBranchID, ar.BranchID.String(), telemetry.AttrTransactionID, ft.ID.String())
	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeAccountReceivable, ar.ID, finance.AuditActionSettle,
		actor.ID, ar.CompanyID, ar.BranchID, before, ar.Snapshot()))
	s.publish(ctx, ft, ar)

	return &SettlementResponse[AccountReceivableResponse]{
		Record:      toReceivableResponse(ar),
		Transaction: toTransactionResponse(ft),
	}, err
}

// Cancel moves a pending receivable to CANCELLED. No money moves.
func (s *ReceivableService) Cancel(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (_ *AccountReceivableResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, kindReceivable, "cancel",
		attribute.String(telemetry.AttrReceivableID, id.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	ar, err := s.find(ctx, company, actor, id)
	if err != nil {
		return nil, err
	}
	before := ar.Snapshot()
	if err := ar.Cancel(); err != nil {
		return nil, err
	}
	if err := s.deps.Receivables.Update(ctx, ar, finance.ReceivableStatusPending); err != nil {
		return nil, err
	}

	s.opts.metrics.RecordCancellation(ctx, kindReceivable)
	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeAccountReceivable, ar.ID, finance.AuditActionCancel,
		actor.ID, ar.CompanyID, ar.BranchID, before, ar.Snapshot()))
	s.publish(ctx, ar)

	return toReceivableResponse(ar), nil
}

// Delete soft-deletes a receivable that was never received
func (s *ReceivableService) Delete(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, kindReceivable, "delete",
		attribute.String(telemetry.AttrReceivableID, id.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	ar, err := s.find(ctx, company, actor, id)
	if err != nil {
		return err
	}
	before := ar.Snapshot()
	expected := ar.Status
	if err := ar.MarkDeleted(); err != nil {
		return err
	}
	if err := s.deps.Receivables.Update(ctx, ar, expected); err != nil {
		return err
	}

	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeAccountReceivable, ar.ID, finance.AuditActionDelete,
		actor.ID, ar.CompanyID, ar.BranchID, before, ar.Snapshot()))
	s.publish(ctx, ar)

	return nil
}

func isReceivableStatus(s string) bool {
	return finance.ReceivableStatus(s).IsValid()
}
