package organization

import (
	"strings"
	"testing"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompany(t *testing.T) {
	company, err := NewCompany("  Fleet Logistics ")
	require.NoError(t, err)
	assert.Equal(t, "Fleet Logistics", company.Name)
	assert.NotEqual(t, uuid.Nil, company.ID)
	assert.True(t, company.IsActive())

	_, err = NewCompany("")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewCompany(strings.Repeat("x", 201))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestNewBranch(t *testing.T) {
	companyID := uuid.New()

	branch, err := NewBranch(companyID, "North Depot")
	require.NoError(t, err)
	assert.Equal(t, companyID, branch.CompanyID)
	assert.True(t, branch.IsActive())

	_, err = NewBranch(uuid.Nil, "North Depot")
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewBranch(companyID, " ")
	assert.ErrorIs(t, err, shared.ErrValidation)
}
