// Package testutil provides common test utilities for the ledger service.
// It contains helpers for setting up databases, seeding organizations,
// building callers, and performing common assertions.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/fleet/ledger/internal/domain/access"
	"github.com/fleet/ledger/internal/domain/organization"
	"github.com/fleet/ledger/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDB opens an in-memory database with every ledger table.
// A single connection keeps the schema visible to all queries.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open sqlite database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, persistence.AutoMigrate(db), "Failed to migrate schema")
	return db
}

// Organization is a seeded company with two branches
type Organization struct {
	Company access.CompanyContext
	North   uuid.UUID
	South   uuid.UUID
}

// SeedOrganization stores a company with the branches North and South
func SeedOrganization(t *testing.T, db *gorm.DB) Organization {
	t.Helper()
	ctx := context.Background()

	company, err := organization.NewCompany("Fleet Co")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCompanyRepository(db).Save(ctx, company))

	branches := persistence.NewGormBranchRepository(db)
	north, err := organization.NewBranch(company.ID, "North")
	require.NoError(t, err)
	require.NoError(t, branches.Save(ctx, north))
	south, err := organization.NewBranch(company.ID, "South")
	require.NoError(t, err)
	require.NoError(t, branches.Save(ctx, south))

	return Organization{
		Company: access.CompanyContext{CompanyID: company.ID},
		North:   north.ID,
		South:   south.ID,
	}
}

// Admin returns an unconfined administrator
func Admin() access.Actor {
	return access.Actor{ID: NewTestUUID("admin"), Role: access.RoleAdmin}
}

// Clerk returns a non-admin caller confined to branch
func Clerk(branch uuid.UUID) access.Actor {
	return access.Actor{ID: NewTestUUID("clerk-" + branch.String()), Role: "CLERK", BranchID: &branch}
}

// NewTestUUID generates a deterministic UUID for testing.
// Uses the provided seed string to create a reproducible UUID.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually retries condition until it passes or fails the test on timeout.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
