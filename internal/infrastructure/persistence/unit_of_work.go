package persistence

import (
	"context"

	"github.com/safedocs/backend/internal/domain/investment"
	"gorm.io/gorm"
)

// NewRepositories builds every investment repository on db, which may be a
// transaction
func NewRepositories(db *gorm.DB) investment.Repositories {
	return investment.Repositories{
		Companies:   NewGormCompanyRepository(db),
		Funds:       NewGormFundRepository(db),
		Founders:    NewGormFounderRepository(db),
		Investors:   NewGormInvestorRepository(db),
		Investments: NewGormInvestmentRepository(db),
	}
}

// GormUnitOfWork implements investment.UnitOfWork with a database transaction
type GormUnitOfWork struct {
	db *Database
}

// NewGormUnitOfWork creates a unit of work over db
func NewGormUnitOfWork(db *Database) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do runs fn with repositories scoped to a single transaction
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(repos investment.Repositories) error) error {
	return u.db.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
