// Package models contains GORM persistence models for the ledger tables.
// Models are kept apart from domain entities so the domain layer stays free
// of ORM tags.
//
// Structure:
//   - base.go: BaseModel and BranchAggregateModel
//   - organization.go: companies and branches
//   - finance.go: payables, receivables and financial transactions
//   - wallet.go: branch wallets and balance adjustments
//   - audit.go: audit log rows
//   - origin.go: read-only views of origin tables owned by other services
package models
