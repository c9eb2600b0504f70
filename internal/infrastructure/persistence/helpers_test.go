package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/organization"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with every ledger table.
// One connection keeps the in-memory database alive for the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

type testOrg struct {
	companyID uuid.UUID
	branchID  uuid.UUID
	otherID   uuid.UUID
}

func seedOrg(t *testing.T, db *gorm.DB) testOrg {
	t.Helper()
	ctx := context.Background()

	company, err := organization.NewCompany("Fleet Co")
	require.NoError(t, err)
	require.NoError(t, NewGormCompanyRepository(db).Save(ctx, company))

	branches := NewGormBranchRepository(db)
	b1, err := organization.NewBranch(company.ID, "North")
	require.NoError(t, err)
	require.NoError(t, branches.Save(ctx, b1))
	b2, err := organization.NewBranch(company.ID, "South")
	require.NoError(t, err)
	require.NoError(t, branches.Save(ctx, b2))

	return testOrg{companyID: company.ID, branchID: b1.ID, otherID: b2.ID}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newPayable(t *testing.T, org testOrg, branchID uuid.UUID, amount int64, due time.Time) *finance.AccountPayable {
	t.Helper()
	ap, err := finance.NewAccountPayable(finance.ObligationInput{
		CompanyID:   org.companyID,
		BranchID:    branchID,
		Description: "Tyres",
		Amount:      decimal.NewFromInt(amount),
		DueDate:     due,
	})
	require.NoError(t, err)
	return ap
}

func newReceivable(t *testing.T, org testOrg, branchID uuid.UUID, amount int64, due time.Time) *finance.AccountReceivable {
	t.Helper()
	ar, err := finance.NewAccountReceivable(finance.ObligationInput{
		CompanyID:   org.companyID,
		BranchID:    branchID,
		Description: "Freight",
		Amount:      decimal.NewFromInt(amount),
		DueDate:     due,
	})
	require.NoError(t, err)
	return ar
}

func newTransaction(t *testing.T, org testOrg, txType finance.TransactionType, amount int64, at time.Time) *finance.FinancialTransaction {
	t.Helper()
	ft, err := finance.NewFinancialTransaction(finance.TransactionInput{
		CompanyID:       org.companyID,
		BranchID:        org.branchID,
		Type:            txType,
		Amount:          decimal.NewFromInt(amount),
		Description:     "Fuel",
		TransactionDate: at,
		Reference:       "FT-" + uuid.NewString()[:8],
	})
	require.NoError(t, err)
	return ft
}
