package persistence

import (
	"strings"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// branchScope restricts a query to a company and, when set, one branch.
// A zero companyID leaves the company unfiltered.
func branchScope(companyID uuid.UUID, branchID *uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if companyID != uuid.Nil {
			db = db.Where("company_id = ?", companyID)
		}
		if branchID != nil {
			db = db.Where("branch_id = ?", *branchID)
		}
		return db
	}
}

// dateRangeScope applies inclusive bounds on column
func dateRangeScope(column string, r shared.DateRange) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if r.From != nil {
			db = db.Where(column+" >= ?", *r.From)
		}
		if r.To != nil {
			db = db.Where(column+" <= ?", *r.To)
		}
		return db
	}
}

// pageScope applies ordering and limit/offset from a normalized filter
func pageScope(f shared.Filter, allowed map[string]bool, defaultField, defaultDir string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		f = f.Normalize()
		field := ValidateSortField(f.OrderBy, allowed, defaultField)
		dir := defaultDir
		if strings.TrimSpace(f.OrderDir) != "" {
			dir = ValidateSortOrder(f.OrderDir)
		}
		return db.Order(field + " " + dir).Offset(f.Offset()).Limit(f.PageSize)
	}
}
