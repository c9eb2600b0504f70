package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	AttrKeyKind   = attribute.Key("kind")
	AttrKeyBranch = attribute.Key("branch_id")
	AttrKeyReason = attribute.Key("reason")
)

// LedgerMetrics holds the business instruments recorded by the finance services.
// The zero value pointer is safe: every method on a nil *LedgerMetrics is a no-op.
type LedgerMetrics struct {
	settlements          metric.Int64Counter
	settledAmount        metric.Float64Histogram
	cancellations        metric.Int64Counter
	adjustments          metric.Int64Counter
	reconciliationNeeded metric.Int64Counter
	auditFailures        metric.Int64Counter
}

// NewLedgerMetrics registers the ledger instruments on meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{}
	var err error

	if m.settlements, err = meter.Int64Counter("ledger_settlements_total",
		metric.WithDescription("Payables paid and receivables received"),
		metric.WithUnit("{settlement}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create settlements counter: %w", err)
	}
	if m.settledAmount, err = meter.Float64Histogram("ledger_settlement_amount",
		metric.WithDescription("Settled amounts"),
	); err != nil {
		return nil, fmt.Errorf("failed to create settlement amount histogram: %w", err)
	}
	if m.cancellations, err = meter.Int64Counter("ledger_cancellations_total",
		metric.WithDescription("Cancelled payables and receivables"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cancellations counter: %w", err)
	}
	if m.adjustments, err = meter.Int64Counter("ledger_wallet_adjustments_total",
		metric.WithDescription("Manual wallet balance adjustments"),
	); err != nil {
		return nil, fmt.Errorf("failed to create adjustments counter: %w", err)
	}
	if m.reconciliationNeeded, err = meter.Int64Counter("ledger_reconciliation_failures_total",
		metric.WithDescription("Settlements whose wallet delta could not be applied"),
	); err != nil {
		return nil, fmt.Errorf("failed to create reconciliation counter: %w", err)
	}
	if m.auditFailures, err = meter.Int64Counter("ledger_audit_failures_total",
		metric.WithDescription("Audit entries that could not be written"),
	); err != nil {
		return nil, fmt.Errorf("failed to create audit failure counter: %w", err)
	}
	return m, nil
}

// RecordSettlement counts a settlement of the given kind (payable or receivable).
func (m *LedgerMetrics) RecordSettlement(ctx context.Context, kind string, branchID string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrKeyKind.String(kind), AttrKeyBranch.String(branchID))
	m.settlements.Add(ctx, 1, attrs)
	m.settledAmount.Record(ctx, amount.InexactFloat64(), attrs)
}

// RecordCancellation counts a cancellation.
func (m *LedgerMetrics) RecordCancellation(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.cancellations.Add(ctx, 1, metric.WithAttributes(AttrKeyKind.String(kind)))
}

// RecordAdjustment counts a manual balance adjustment.
func (m *LedgerMetrics) RecordAdjustment(ctx context.Context, adjustmentType string) {
	if m == nil {
		return
	}
	m.adjustments.Add(ctx, 1, metric.WithAttributes(AttrKeyKind.String(adjustmentType)))
}

// RecordReconciliationRequired counts a settlement committed without its wallet delta.
func (m *LedgerMetrics) RecordReconciliationRequired(ctx context.Context, kind string, branchID string) {
	if m == nil {
		return
	}
	m.reconciliationNeeded.Add(ctx, 1, metric.WithAttributes(AttrKeyKind.String(kind), AttrKeyBranch.String(branchID)))
}

// RecordAuditFailure counts a dropped audit entry.
func (m *LedgerMetrics) RecordAuditFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.auditFailures.Add(ctx, 1, metric.WithAttributes(AttrKeyReason.String(reason)))
}
