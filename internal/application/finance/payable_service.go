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

const kindPayable = "payable"

// PayableService is the accounts payable engine
type PayableService struct {
	ledger
}

// NewPayableService creates a new PayableService
func NewPayableService(deps Dependencies, opts ...Option) *PayableService {
	return &PayableService{ledger: newLedger(deps, opts)}
}

// Create records a pending payable in the caller's branch
func (s *PayableService) Create(ctx context.Context, company access.CompanyContext, actor access.Actor, req CreateObligationRequest) (_ *AccountPayableResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, kindPayable, "create",
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

	ap, err := finance.NewAccountPayable(finance.ObligationInput{
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
	if err := s.deps.Payables.Create(ctx, ap); err != nil {
		return nil, err
	}

	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeAccountPayable, ap.ID, finance.AuditActionCreate,
		actor.ID, ap.CompanyID, ap.BranchID, nil, ap.Snapshot()))
	s.publish(ctx, ap)

	return toPayableResponse(ap), nil
}

// GetByID returns a payable the caller is allowed to see
func (s *PayableService) GetByID(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (*AccountPayableResponse, error) {
	ap, err := s.find(ctx, company, actor, id)
	if err != nil {
		return nil, err
	}
	return toPayableResponse(ap), nil
}

func (s *PayableService) find(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (*finance.AccountPayable, error) {
	if err := s.authenticate(actor, company); err != nil {
		return nil, err
	}
	ap, err := s.deps.Payables.FindByID(ctx, company.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Guard.AuthorizeRecord(actor, ap.BranchID); err != nil {
		return nil, err
	}
	return ap, nil
}

// List returns a page of payables ordered by due date
func (s *PayableService) List(ctx context.Context, company access.CompanyContext, actor access.Actor, filter ObligationListFilter) (*shared.Paginated[AccountPayableResponse], error) {
	domainFilter, err := s.obligationFilter(company, actor, filter, isPayableStatus)
	if err != nil {
		return nil, err
	}
	payables, err := s.deps.Payables.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.deps.Payables.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]AccountPayableResponse, len(payables))
	for i := range payables {
		items[i] = *toPayableResponse(&payables[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Summary returns a page of payables plus totals per status. The status
// filter narrows the page only; totals always cover all three statuses.
func (s *PayableService) Summary(ctx context.Context, company access.CompanyContext, actor access.Actor, filter ObligationListFilter) (*PayableSummaryResponse, error) {
	page, err := s.List(ctx, company, actor, filter)
	if err != nil {
		return nil, err
	}
	domainFilter, err := s.obligationFilter(company, actor, filter, isPayableStatus)
	if err != nil {
		return nil, err
	}
	totals, err := s.deps.Payables.SumByStatus(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return &PayableSummaryResponse{Paginated: page, Totals: *totals}, nil
}

// Update edits a pending payable. Only provided fields change.
func (s *PayableService) Update(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID, req UpdateObligationRequest) (_ *AccountPayableResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, kindPayable, "update",
		attribute.String(telemetry.AttrPayableID, id.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	ap, err := s.find(ctx, company, actor, id)
	if err != nil {
		return nil, err
	}
	before := ap.Snapshot()
	expected := ap.Status

	u := req.toDomain()
	if u.BranchID != nil {
		branchID, err := s.writeBranch(actor, u.BranchID)
		if err != nil {
			return nil, err
		}
		u.BranchID = &branchID
	}
	if err := ap.Update(u); err != nil {
		return nil, err
	}
	if ap.BranchID != before.BranchID {
		if err := s.ensureScope(ctx, company.CompanyID, ap.BranchID); err != nil {
			return nil, err
		}
	}
	if u.OriginType != nil || u.OriginID != nil || ap.BranchID != before.BranchID {
		if err := s.ensureOrigin(ctx, ap.Origin, company.CompanyID, ap.BranchID); err != nil {
			return nil, err
		}
	}

	if err := s.deps.Payables.Update(ctx, ap, expected); err != nil {
		return nil, err
	}

	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeAccountPayable, ap.ID, finance.AuditActionUpdate,
		actor.ID, ap.CompanyID, ap.BranchID, before, ap.Snapshot()))
	s.publish(ctx, ap)

	return toPayableResponse(ap), nil
}

// Pay settles a payable: it records an EXPENSE transaction, marks the payable
// PAID and debits the branch wallet. When the wallet update fails after the
// ledger commit the paid payable is returned together with a
// RECONCILIATION_REQUIRED error.
func (s *PayableService) Pay(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID, req SettleRequest) (_ *SettlementResponse[AccountPayableResponse], err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, kindPayable, "pay",
		attribute.String(telemetry.AttrPayableID, id.String()),
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
		ap     *finance.AccountPayable
		ft     *finance.FinancialTransaction
		before finance.ObligationSnapshot
	)
	st := &settlement{
		kind:       kindPayable,
		entityType: finance.EntityTypeAccountPayable,
		companyID:  company.CompanyID,
		actorID:    actor.ID,
	}
	err = s.settle(ctx, st, func(repos TransactionalRepositories) error {
		found, err := repos.Payables().FindByIDForUpdate(ctx, company.CompanyID, id)
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
			return shared.NewNotFoundError("account payable not found")
		}
		before = found.Snapshot()

		tx, err := found.SettlementTransaction(s.opts.references.NextReference(), &at, req.Notes, &actor.ID)
		if err != nil {
			return err
		}
		if err := repos.Transactions().Create(ctx, tx); err != nil {
			return err
		}
		if err := found.Pay(tx.ID, &at, req.Notes); err != nil {
			return err
		}
		if err := repos.Payables().Update(ctx, found, finance.PayableStatusPending); err != nil {
			return err
		}

		ap, ft = found, tx
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

	telemetry.SetAttributes(span, telemetry.AttrBranchID, ap.BranchID.String(), telemetry.AttrTransactionID, ft.ID.String())
	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeAccountPayable, ap.ID, finance.AuditActionSettle,
		actor.ID, ap.CompanyID, ap.BranchID, before, ap.Snapshot()))
	s.publish(ctx, ft, ap)

	return &SettlementResponse[AccountPayableResponse]{
		Record:      toPayableResponse(ap),
		Transaction: toTransactionResponse(ft),
	}, err
}

// Cancel moves a pending payable to CANCELLED. No money moves.
func (s *PayableService) Cancel(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (_ *AccountPayableResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, kindPayable, "cancel",
		attribute.String(telemetry.AttrPayableID, id.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	ap, err := s.find(ctx, company, actor, id)
	if err != nil {
		return nil, err
	}
	before := ap.Snapshot()
	if err := ap.Cancel(); err != nil {
		return nil, err
	}
	if err := s.deps.Payables.Update(ctx, ap, finance.PayableStatusPending); err != nil {
		return nil, err
	}

	s.opts.metrics.RecordCancellation(ctx, kindPayable)
	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeAccountPayable, ap.ID, finance.AuditActionCancel,
		actor.ID, ap.CompanyID, ap.BranchID, before, ap.Snapshot()))
	s.publish(ctx, ap)

	return toPayableResponse(ap), nil
}

// Delete soft-deletes a payable that was never paid
func (s *PayableService) Delete(ctx context.Context, company access.CompanyContext, actor access.Actor, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, kindPayable, "delete",
		attribute.String(telemetry.AttrPayableID, id.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	ap, err := s.find(ctx, company, actor, id)
	if err != nil {
		return err
	}
	before := ap.Snapshot()
	expected := ap.Status
	if err := ap.MarkDeleted(); err != nil {
		return err
	}
	if err := s.deps.Payables.Update(ctx, ap, expected); err != nil {
		return err
	}

	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeAccountPayable, ap.ID, finance.AuditActionDelete,
		actor.ID, ap.CompanyID, ap.BranchID, before, ap.Snapshot()))
	s.publish(ctx, ap)

	return nil
}

func isPayableStatus(s string) bool {
	return finance.PayableStatus(s).IsValid()
}
