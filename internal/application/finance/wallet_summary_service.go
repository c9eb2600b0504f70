package finance

import (
	"context"

	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// WalletSummaryService projects balances, period totals and pending pools
// for dashboards. It never writes.
type WalletSummaryService struct {
	ledger
}

// NewWalletSummaryService creates a new WalletSummaryService
func NewWalletSummaryService(deps Dependencies, opts ...Option) *WalletSummaryService {
	return &WalletSummaryService{ledger: newLedger(deps, opts)}
}

// Summary builds the wallet summary of one branch, or of every branch when an
// administrator omits it. A zero month or year falls back to the current one.
func (s *WalletSummaryService) Summary(ctx context.Context, company access.CompanyContext, actor access.Actor, req WalletSummaryRequest) (_ *finance.WalletSummary, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "wallet", "summary",
		attribute.String(telemetry.AttrCompanyID, company.CompanyID.String()))
	defer span.End()
	defer func() { telemetry.RecordError(span, err) }()

	if err := s.authenticate(actor, company); err != nil {
		return nil, err
	}

	current := finance.CurrentPeriod(s.now())
	month, year := req.Month, req.Year
	if month == 0 {
		month = current.Month
	}
	if year == 0 {
		year = current.Year
	}
	period, err := finance.NewPeriod(month, year)
	if err != nil {
		return nil, err
	}

	branchID := s.deps.Guard.ScopeBranch(actor, req.BranchID)
	if branchID != nil {
		if _, err := s.deps.Branches.FindByID(ctx, company.CompanyID, *branchID); err != nil {
			return nil, err
		}
		telemetry.SetAttributes(span, telemetry.AttrBranchID, branchID.String())
	}

	bounds := period.Range(s.opts.location)

	income, expense, err := s.deps.Transactions.SumByType(ctx, company.CompanyID, branchID, bounds)
	if err != nil {
		return nil, err
	}

	pendingBounds := bounds
	if s.opts.pendingScope == finance.PendingScopeAll {
		pendingBounds = shared.DateRange{}
	}
	pendingPayables, err := s.deps.Payables.SumPending(ctx, company.CompanyID, branchID, pendingBounds)
	if err != nil {
		return nil, err
	}
	pendingReceivables, err := s.deps.Receivables.SumPending(ctx, company.CompanyID, branchID, pendingBounds)
	if err != nil {
		return nil, err
	}

	var balance decimal.Decimal
	if branchID != nil {
		wallet, err := s.deps.Wallets.Get(ctx, company.CompanyID, *branchID)
		if err != nil {
			return nil, err
		}
		balance = wallet.CurrentBalance
	} else {
		balance, err = s.deps.Wallets.SumBalances(ctx, company.CompanyID)
		if err != nil {
			return nil, err
		}
	}

	payables, err := s.deps.Payables.FindMovements(ctx, company.CompanyID, branchID, bounds)
	if err != nil {
		return nil, err
	}
	receivables, err := s.deps.Receivables.FindMovements(ctx, company.CompanyID, branchID, bounds)
	if err != nil {
		return nil, err
	}
	movements := make([]finance.Movement, 0, len(payables)+len(receivables))
	for i := range payables {
		movements = append(movements, finance.PayableMovement(&payables[i]))
	}
	for i := range receivables {
		movements = append(movements, finance.ReceivableMovement(&receivables[i]))
	}

	return finance.NewWalletSummary(branchID, period, balance, income, expense,
		pendingPayables, pendingReceivables, movements), nil
}
