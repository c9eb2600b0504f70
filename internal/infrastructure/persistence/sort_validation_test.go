package persistence

import (
	"testing"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
		{"injection attempt returns DESC", "ASC; DROP TABLE account_payables;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		allowed  map[string]bool
		expected string
	}{
		{"empty returns default", "", ObligationSortFields, "due_date"},
		{"allowed obligation field", "amount", ObligationSortFields, "amount"},
		{"transaction field not allowed on obligations", "reference", ObligationSortFields, "due_date"},
		{"allowed transaction field", "  transaction_date ", TransactionSortFields, "transaction_date"},
		{"injection attempt returns default", "amount; DROP TABLE x", TransactionSortFields, "due_date"},
		{"case sensitive", "NEW_BALANCE", AdjustmentSortFields, "due_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, "due_date"))
		})
	}
}

func TestPageScope(t *testing.T) {
	db := newTestDB(t)

	t.Run("default direction applies without explicit order", func(t *testing.T) {
		stmt := db.Session(&gorm.Session{DryRun: true}).
			Table("account_payables").
			Scopes(pageScope(shared.Filter{}, ObligationSortFields, "due_date", "ASC")).
			Find(&[]map[string]any{}).Statement
		assert.Contains(t, stmt.SQL.String(), "ORDER BY due_date ASC")
		assert.Contains(t, stmt.SQL.String(), "LIMIT 15")
	})

	t.Run("explicit direction overrides default", func(t *testing.T) {
		stmt := db.Session(&gorm.Session{DryRun: true}).
			Table("account_payables").
			Scopes(pageScope(shared.Filter{Page: 3, PageSize: 10, OrderBy: "amount", OrderDir: "desc"}, ObligationSortFields, "due_date", "ASC")).
			Find(&[]map[string]any{}).Statement
		assert.Contains(t, stmt.SQL.String(), "ORDER BY amount DESC")
		assert.Contains(t, stmt.SQL.String(), "OFFSET 20")
	})
}
