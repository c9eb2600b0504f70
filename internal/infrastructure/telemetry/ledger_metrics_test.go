package telemetry_test

import (
	"context"
	"testing"

	"github.com/fleet/ledger/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func counterValue(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestLedgerMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	lm, err := telemetry.NewLedgerMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	lm.RecordSettlement(ctx, "payable", "b-1", decimal.NewFromInt(150))
	lm.RecordSettlement(ctx, "receivable", "b-1", decimal.NewFromInt(80))
	lm.RecordCancellation(ctx, "payable")
	lm.RecordAdjustment(ctx, "CORRECTION")
	lm.RecordReconciliationRequired(ctx, "payable", "b-1")
	lm.RecordAuditFailure(ctx, "write_failed")

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), counterValue(t, metrics["ledger_settlements_total"]))
	assert.Equal(t, int64(1), counterValue(t, metrics["ledger_cancellations_total"]))
	assert.Equal(t, int64(1), counterValue(t, metrics["ledger_wallet_adjustments_total"]))
	assert.Equal(t, int64(1), counterValue(t, metrics["ledger_reconciliation_failures_total"]))
	assert.Equal(t, int64(1), counterValue(t, metrics["ledger_audit_failures_total"]))

	hist, ok := metrics["ledger_settlement_amount"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestLedgerMetrics_NilIsNoop(t *testing.T) {
	var lm *telemetry.LedgerMetrics
	assert.NotPanics(t, func() {
		lm.RecordSettlement(context.Background(), "payable", "b", decimal.NewFromInt(1))
		lm.RecordAuditFailure(context.Background(), "x")
	})
}

func TestNewLedgerMetrics_Noop(t *testing.T) {
	lm, err := telemetry.NewLedgerMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	assert.NotNil(t, lm)
}
