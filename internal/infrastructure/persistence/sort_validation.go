package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ObligationSortFields contains allowed sort fields for payables and receivables
var ObligationSortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"due_date":    true,
	"amount":      true,
	"status":      true,
	"description": true,
}

// TransactionSortFields contains allowed sort fields for financial transactions
var TransactionSortFields = map[string]bool{
	"created_at":       true,
	"transaction_date": true,
	"amount":           true,
	"type":             true,
	"reference":        true,
}

// AdjustmentSortFields contains allowed sort fields for balance adjustments
var AdjustmentSortFields = map[string]bool{
	"created_at":  true,
	"new_balance": true,
}
