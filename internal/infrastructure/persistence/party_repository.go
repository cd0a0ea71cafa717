package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCompanyRepository implements investment.CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*investment.Company, error) {
	m, err := findOne[models.CompanyModel](ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByOwner lists the companies an account owns
func (r *GormCompanyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]investment.Company, error) {
	rows, err := findOwned[models.CompanyModel](ctx, r.db, ownerID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]investment.Company, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, c *investment.Company) error {
	m := &models.CompanyModel{}
	m.FromDomain(c)
	return translateError(r.db.WithContext(ctx).Save(m).Error)
}

// Delete removes a company
func (r *GormCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.CompanyModel](ctx, r.db, id)
}

// GormFundRepository implements investment.FundRepository using GORM
type GormFundRepository struct {
	db *gorm.DB
}

// NewGormFundRepository creates a new GormFundRepository
func NewGormFundRepository(db *gorm.DB) *GormFundRepository {
	return &GormFundRepository{db: db}
}

// FindByID finds a fund by its ID
func (r *GormFundRepository) FindByID(ctx context.Context, id uuid.UUID) (*investment.Fund, error) {
	m, err := findOne[models.FundModel](ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByOwner lists the funds an account owns
func (r *GormFundRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]investment.Fund, error) {
	rows, err := findOwned[models.FundModel](ctx, r.db, ownerID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]investment.Fund, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a fund
func (r *GormFundRepository) Save(ctx context.Context, f *investment.Fund) error {
	m := &models.FundModel{}
	m.FromDomain(f)
	return translateError(r.db.WithContext(ctx).Save(m).Error)
}

// Delete removes a fund
func (r *GormFundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.FundModel](ctx, r.db, id)
}

// GormFounderRepository implements investment.FounderRepository using GORM
type GormFounderRepository struct {
	db *gorm.DB
}

// NewGormFounderRepository creates a new GormFounderRepository
func NewGormFounderRepository(db *gorm.DB) *GormFounderRepository {
	return &GormFounderRepository{db: db}
}

// FindByID finds a founder by its ID
func (r *GormFounderRepository) FindByID(ctx context.Context, id uuid.UUID) (*investment.Founder, error) {
	m, err := findOne[models.FounderModel](ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByOwner lists the founders an account owns
func (r *GormFounderRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]investment.Founder, error) {
	rows, err := findOwned[models.FounderModel](ctx, r.db, ownerID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]investment.Founder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a founder
func (r *GormFounderRepository) Save(ctx context.Context, f *investment.Founder) error {
	m := &models.FounderModel{}
	m.FromDomain(f)
	return translateError(r.db.WithContext(ctx).Save(m).Error)
}

// Delete removes a founder
func (r *GormFounderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.FounderModel](ctx, r.db, id)
}

// GormInvestorRepository implements investment.InvestorRepository using GORM
type GormInvestorRepository struct {
	db *gorm.DB
}

// NewGormInvestorRepository creates a new GormInvestorRepository
func NewGormInvestorRepository(db *gorm.DB) *GormInvestorRepository {
	return &GormInvestorRepository{db: db}
}

// FindByID finds an investor by its ID
func (r *GormInvestorRepository) FindByID(ctx context.Context, id uuid.UUID) (*investment.Investor, error) {
	m, err := findOne[models.InvestorModel](ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByOwner lists the investors an account owns
func (r *GormInvestorRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]investment.Investor, error) {
	rows, err := findOwned[models.InvestorModel](ctx, r.db, ownerID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]investment.Investor, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates an investor
func (r *GormInvestorRepository) Save(ctx context.Context, i *investment.Investor) error {
	m := &models.InvestorModel{}
	m.FromDomain(i)
	return translateError(r.db.WithContext(ctx).Save(m).Error)
}

// Delete removes an investor
func (r *GormInvestorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.InvestorModel](ctx, r.db, id)
}

var (
	_ investment.CompanyRepository  = (*GormCompanyRepository)(nil)
	_ investment.FundRepository     = (*GormFundRepository)(nil)
	_ investment.FounderRepository  = (*GormFounderRepository)(nil)
	_ investment.InvestorRepository = (*GormInvestorRepository)(nil)
)
