package persistence

import (
	"context"
	"errors"

	"github.com/fleet/ledger/internal/domain/organization"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds an active company by ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("company not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every active company ordered by name
func (r *GormCompanyRepository) FindAll(ctx context.Context) ([]organization.Company, error) {
	var rows []models.CompanyModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	companies := make([]organization.Company, len(rows))
	for i := range rows {
		companies[i] = *rows[i].ToDomain()
	}
	return companies, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *organization.Company) error {
	return r.db.WithContext(ctx).Save(models.CompanyModelFromDomain(company)).Error
}

// Delete soft deletes a company
func (r *GormCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CompanyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("company not found")
	}
	return nil
}

// GormBranchRepository implements BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID finds an active branch of the company
func (r *GormBranchRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*organization.Branch, error) {
	var model models.BranchModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("branch not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForCompany returns the active branches of a company ordered by name
func (r *GormBranchRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID) ([]organization.Branch, error) {
	var rows []models.BranchModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	branches := make([]organization.Branch, len(rows))
	for i := range rows {
		branches[i] = *rows[i].ToDomain()
	}
	return branches, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, branch *organization.Branch) error {
	return r.db.WithContext(ctx).Save(models.BranchModelFromDomain(branch)).Error
}

// Delete soft deletes a branch of the company
func (r *GormBranchRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BranchModel{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("branch not found")
	}
	return nil
}

var (
	_ organization.CompanyRepository = (*GormCompanyRepository)(nil)
	_ organization.BranchRepository  = (*GormBranchRepository)(nil)
)
