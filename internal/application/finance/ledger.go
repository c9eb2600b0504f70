package finance

import (
	"context"
	"strings"
	"time"

	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/organization"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/logger"
	"github.com/fleet/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BalanceMode decides when a settlement delta reaches the branch wallet
type BalanceMode string

const (
	// BalanceModePostCommit applies the delta after the ledger write commits.
	// A failure leaves the settlement in place and is reported as RECONCILIATION_REQUIRED.
	BalanceModePostCommit BalanceMode = "post_commit"
	// BalanceModeAtomic applies the delta inside the settlement transaction
	BalanceModeAtomic BalanceMode = "atomic"
)

// ReferenceGenerator issues human-readable financial transaction references
type ReferenceGenerator interface {
	NextReference() string
}

// ReferenceFunc adapts a function to ReferenceGenerator
type ReferenceFunc func() string

// NextReference calls f
func (f ReferenceFunc) NextReference() string { return f() }

func randomReference() string {
	return "FT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// Dependencies are the repositories and policies shared by the ledger services
type Dependencies struct {
	Payables     finance.AccountPayableRepository
	Receivables  finance.AccountReceivableRepository
	Transactions finance.FinancialTransactionRepository
	Wallets      finance.BranchWalletRepository
	Adjustments  finance.BalanceAdjustmentRepository
	Scope        TransactionScope
	Companies    organization.CompanyRepository
	Branches     organization.BranchRepository
	Guard        *access.Guard
}

type options struct {
	balanceMode  BalanceMode
	pendingScope finance.PendingScope
	pageSize     int
	metrics      *telemetry.LedgerMetrics
	publisher    shared.EventPublisher
	audit        finance.AuditSink
	origins      finance.OriginResolver
	references   ReferenceGenerator
	logger       *zap.Logger
	location     *time.Location
	now          func() time.Time
}

// Option configures a ledger service
type Option func(*options)

// WithBalanceMode selects post-commit or atomic wallet updates
func WithBalanceMode(mode BalanceMode) Option {
	return func(o *options) {
		if mode == BalanceModeAtomic || mode == BalanceModePostCommit {
			o.balanceMode = mode
		}
	}
}

// WithPendingScope selects how wallet summaries bound pending totals
func WithPendingScope(scope finance.PendingScope) Option {
	return func(o *options) {
		if scope.IsValid() {
			o.pendingScope = scope
		}
	}
}

// WithDefaultPageSize sets the page size used when a listing omits one
func WithDefaultPageSize(size int) Option {
	return func(o *options) {
		if size > 0 && size <= shared.MaxPageSize {
			o.pageSize = size
		}
	}
}

// WithMetrics records ledger metrics
func WithMetrics(m *telemetry.LedgerMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithEventPublisher publishes domain events after each committed change
func WithEventPublisher(p shared.EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithAuditSink reports every mutation to the audit trail
func WithAuditSink(sink finance.AuditSink) Option {
	return func(o *options) { o.audit = sink }
}

// WithOriginResolver validates origin references on create and update
func WithOriginResolver(r finance.OriginResolver) Option {
	return func(o *options) { o.origins = r }
}

// WithReferenceGenerator overrides how transaction references are issued
func WithReferenceGenerator(g ReferenceGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.references = g
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLocation sets the time zone used for period bounds
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithClock overrides the settlement clock
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// ledger holds what every ledger service needs besides its own repositories
type ledger struct {
	deps Dependencies
	opts options
}

func newLedger(deps Dependencies, opts []Option) ledger {
	o := options{
		balanceMode:  BalanceModePostCommit,
		pendingScope: finance.PendingScopePeriod,
		pageSize:     shared.DefaultPageSize,
		references:   ReferenceFunc(randomReference),
		logger:       zap.NewNop(),
		location:     time.UTC,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if deps.Guard == nil {
		deps.Guard = access.NewGuard()
	}
	return ledger{deps: deps, opts: o}
}

// log prefers the request logger and falls back to the service logger
func (l *ledger) log(ctx context.Context) *zap.Logger {
	if rl := logger.L(ctx); rl.Core().Enabled(zapcore.ErrorLevel) {
		return rl
	}
	return l.opts.logger
}

func (l *ledger) now() time.Time {
	return l.opts.now().In(l.opts.location)
}

// authenticate rejects calls without a caller identity or company
func (l *ledger) authenticate(actor access.Actor, company access.CompanyContext) error {
	if err := l.deps.Guard.RequireIdentity(actor); err != nil {
		return err
	}
	if company.CompanyID == uuid.Nil {
		return shared.NewValidationError("company ID is required")
	}
	return nil
}

// writeBranch resolves the branch a create or update must be written to
func (l *ledger) writeBranch(actor access.Actor, requested *uuid.UUID) (uuid.UUID, error) {
	scoped := l.deps.Guard.ScopeBranch(actor, requested)
	if scoped == nil || *scoped == uuid.Nil {
		return uuid.Nil, shared.NewValidationError("branch ID is required")
	}
	return *scoped, nil
}

// ensureScope checks that the company and branch exist and are not deleted
func (l *ledger) ensureScope(ctx context.Context, companyID, branchID uuid.UUID) error {
	if _, err := l.deps.Companies.FindByID(ctx, companyID); err != nil {
		return err
	}
	if _, err := l.deps.Branches.FindByID(ctx, companyID, branchID); err != nil {
		return err
	}
	return nil
}

// ensureOrigin checks a recognised origin reference within the branch
func (l *ledger) ensureOrigin(ctx context.Context, origin finance.Origin, companyID, branchID uuid.UUID) error {
	if l.opts.origins == nil || origin.ID == nil {
		return nil
	}
	ok, err := l.opts.origins.Exists(ctx, origin, companyID, branchID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewNotFoundError("origin not found")
	}
	return nil
}

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publish hands committed events to the bus. Delivery failures are logged;
// the change they describe is already durable.
func (l *ledger) publish(ctx context.Context, sources ...eventSource) {
	for _, src := range sources {
		events := src.GetDomainEvents()
		src.ClearDomainEvents()
		if l.opts.publisher == nil || len(events) == 0 {
			continue
		}
		if err := l.opts.publisher.Publish(ctx, events...); err != nil {
			l.log(ctx).Warn("failed to publish ledger events",
				zap.Int("count", len(events)),
				zap.Error(err))
		}
	}
}

// audit records an entry best-effort. A sink outage never fails the caller.
func (l *ledger) audit(ctx context.Context, entry finance.AuditEntry) {
	if l.opts.audit == nil {
		return
	}
	if err := l.opts.audit.Record(ctx, entry); err != nil {
		l.log(ctx).Error("failed to record audit entry",
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID.String()),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
		l.opts.metrics.RecordAuditFailure(ctx, entry.EntityType)
	}
}

// settlement describes the wallet effect of one pay or receive call
type settlement struct {
	kind       string
	entityType string
	companyID  uuid.UUID
	branchID   uuid.UUID
	recordID   uuid.UUID
	actorID    uuid.UUID
	delta      decimal.Decimal
	amount     decimal.Decimal
}

// settle runs write inside one transaction and then moves the branch balance,
// either in the same transaction or after commit depending on the balance mode.
// write must fill st before returning nil.
func (l *ledger) settle(ctx context.Context, st *settlement, write func(repos TransactionalRepositories) error) error {
	atomic := l.opts.balanceMode == BalanceModeAtomic

	var err error
	telemetry.WithProfilingLabels(ctx, map[string]string{"ledger_operation": "settle_" + st.kind}, func(ctx context.Context) {
		err = l.deps.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
			if err := write(repos); err != nil {
				return err
			}
			if atomic {
				return repos.Wallets().ApplyDelta(ctx, st.companyID, st.branchID, st.delta)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	// the settlement is committed; the balance must follow even if the caller has gone away
	ctx = context.WithoutCancel(ctx)
	l.opts.metrics.RecordSettlement(ctx, st.kind, st.branchID.String(), st.amount)
	if atomic {
		return nil
	}

	if err := l.deps.Wallets.ApplyDelta(ctx, st.companyID, st.branchID, st.delta); err != nil {
		return l.reconciliationRequired(ctx, st, err)
	}
	return nil
}

// reconciliationRequired reports a settled record whose balance effect was lost
func (l *ledger) reconciliationRequired(ctx context.Context, st *settlement, cause error) error {
	l.log(ctx).Error("wallet update failed after settlement commit",
		zap.Bool("reconciliation_required", true),
		zap.String("kind", st.kind),
		zap.String("record_id", st.recordID.String()),
		zap.String("branch_id", st.branchID.String()),
		zap.String("delta", st.delta.String()),
		zap.Error(cause))
	l.opts.metrics.RecordReconciliationRequired(ctx, st.kind, st.branchID.String())
	l.audit(ctx, finance.NewAuditEntry(
		st.entityType, st.recordID, finance.AuditActionReconciliationRequired,
		st.actorID, st.companyID, st.branchID,
		nil,
		finance.WalletSnapshot{BranchID: st.branchID, Delta: st.delta, Reason: cause.Error()},
	))
	return shared.NewDomainError(shared.CodeReconciliationRequired,
		"settlement recorded but the branch balance was not updated; reconciliation required")
}

// listFilter builds the paging part of a domain filter
func (l *ledger) listFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	if pageSize <= 0 {
		pageSize = l.opts.pageSize
	}
	return shared.Filter{Page: page, PageSize: pageSize, OrderBy: orderBy, OrderDir: orderDir}.Normalize()
}

// obligationFilter builds the branch-scoped filter shared by payable and receivable listings.
// validStatus decides which status values the listing accepts.
func (l *ledger) obligationFilter(company access.CompanyContext, actor access.Actor, f ObligationListFilter, validStatus func(string) bool) (finance.ObligationFilter, error) {
	if err := l.authenticate(actor, company); err != nil {
		return finance.ObligationFilter{}, err
	}
	due := f.dueRange()
	if err := due.Validate(); err != nil {
		return finance.ObligationFilter{}, err
	}
	status := strings.ToUpper(strings.TrimSpace(f.Status))
	if status != "" && !validStatus(status) {
		return finance.ObligationFilter{}, shared.NewValidationError("invalid status: %s", f.Status)
	}
	return finance.ObligationFilter{
		Filter:    l.listFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir),
		CompanyID: company.CompanyID,
		BranchID:  l.deps.Guard.ScopeBranch(actor, f.BranchID),
		Status:    status,
		DueDate:   due,
	}, nil
}
