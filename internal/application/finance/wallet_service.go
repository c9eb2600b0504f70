package finance

import (
	"context"

	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// WalletService exposes branch balances and their administrative overrides
type WalletService struct {
	ledger
}

// NewWalletService creates a new WalletService
func NewWalletService(deps Dependencies, opts ...Option) *WalletService {
	return &WalletService{ledger: newLedger(deps, opts)}
}

// GetBalance returns the current balance of a branch.
// A branch that never had a settlement or adjustment reports zero.
func (s *WalletService) GetBalance(ctx context.Context, company access.CompanyContext, actor access.Actor, branchID *uuid.UUID) (*WalletBalanceResponse, error) {
	if err := s.authenticate(actor, company); err != nil {
		return nil, err
	}
	scoped, err := s.writeBranch(actor, branchID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureScope(ctx, company.CompanyID, scoped); err != nil {
		return nil, err
	}
	wallet, err := s.deps.Wallets.Get(ctx, company.CompanyID, scoped)
	if err != nil {
		return nil, err
	}
	return &WalletBalanceResponse{
		BranchID:       wallet.BranchID,
		CurrentBalance: wallet.CurrentBalance,
		UpdatedAt:      wallet.UpdatedAt,
	}, nil
}

// AdjustBalance replaces a branch balance outright and appends the override
// to the adjustment history in the same transaction. Administrators only.
func (s *WalletService) AdjustBalance(ctx context.Context, company access.CompanyContext, actor access.Actor, req AdjustBalanceRequest) (_ *BalanceAdjustmentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "adjust",
		attribute.String(telemetry.AttrBranchID, req.BranchID.String()),
		attribute.String(telemetry.AttrActorID, actor.ID.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if err := s.authenticate(actor, company); err != nil {
		return nil, err
	}
	if err := s.deps.Guard.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if req.BranchID == uuid.Nil {
		return nil, shared.NewValidationError("branch ID is required")
	}
	if err := s.ensureScope(ctx, company.CompanyID, req.BranchID); err != nil {
		return nil, err
	}

	var (
		adjustment *finance.BalanceAdjustment
		before     finance.WalletSnapshot
	)
	err = s.deps.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		wallet, err := repos.Wallets().GetForUpdate(ctx, company.CompanyID, req.BranchID)
		if err != nil {
			return err
		}
		before = finance.WalletSnapshot{BranchID: wallet.BranchID, CurrentBalance: wallet.CurrentBalance}

		adj, err := wallet.Adjust(req.NewBalance, finance.AdjustmentType(req.AdjustmentType), req.Reason, actor.ID)
		if err != nil {
			return err
		}
		if err := repos.Wallets().Save(ctx, wallet); err != nil {
			return err
		}
		if err := repos.Adjustments().Create(ctx, adj); err != nil {
			return err
		}
		adjustment = adj
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.metrics.RecordAdjustment(ctx, adjustment.AdjustmentType.String())
	s.audit(ctx, finance.NewAuditEntry(finance.EntityTypeBranchWallet, adjustment.ID, finance.AuditActionAdjust,
		actor.ID, company.CompanyID, adjustment.BranchID, before, finance.WalletSnapshot{
			BranchID:       adjustment.BranchID,
			CurrentBalance: adjustment.NewBalance,
			AdjustmentType: adjustment.AdjustmentType,
			Reason:         adjustment.Reason,
			Delta:          adjustment.Difference(),
		}))
	s.publish(ctx, &eventBatch{events: []shared.DomainEvent{finance.NewWalletBalanceAdjustedEvent(adjustment)}})

	resp := toAdjustmentResponse(adjustment)
	return &resp, nil
}

// ListAdjustments returns the adjustment history newest first
func (s *WalletService) ListAdjustments(ctx context.Context, company access.CompanyContext, actor access.Actor, filter AdjustmentListFilter) (*shared.Paginated[BalanceAdjustmentResponse], error) {
	if err := s.authenticate(actor, company); err != nil {
		return nil, err
	}
	domainFilter := finance.AdjustmentFilter{
		Filter:    s.listFilter(filter.Page, filter.PageSize, "", ""),
		CompanyID: company.CompanyID,
		BranchID:  s.deps.Guard.ScopeBranch(actor, filter.BranchID),
	}
	adjustments, err := s.deps.Adjustments.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.deps.Adjustments.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]BalanceAdjustmentResponse, len(adjustments))
	for i := range adjustments {
		items[i] = toAdjustmentResponse(&adjustments[i])
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// eventBatch carries events raised outside an aggregate root
type eventBatch struct {
	events []shared.DomainEvent
}

func (b *eventBatch) GetDomainEvents() []shared.DomainEvent { return b.events }

func (b *eventBatch) ClearDomainEvents() { b.events = nil }
