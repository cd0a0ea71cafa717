package investment

import (
	"context"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/shared"
)

// CompanyRepository persists companies
type CompanyRepository interface {
	shared.OwnedRepository[Company]
}

// FundRepository persists funds
type FundRepository interface {
	shared.OwnedRepository[Fund]
}

// FounderRepository persists founders
type FounderRepository interface {
	shared.OwnedRepository[Founder]
}

// InvestorRepository persists investors
type InvestorRepository interface {
	shared.OwnedRepository[Investor]
}

// InvestmentRepository persists investments. FindByID preloads all parties.
type InvestmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Investment, error)
	FindByCreator(ctx context.Context, creatorID uuid.UUID, filter shared.Filter) ([]Investment, int64, error)
	Save(ctx context.Context, inv *Investment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateDocument writes back the derived fields only, leaving terms untouched
	UpdateDocument(ctx context.Context, id uuid.UUID, url, summary string, status Status) error
	// UpdateStatus changes the status and, when non-empty, the envelope id
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, envelopeID string) error
}

// Repositories groups the persistence ports of the investment aggregate and its
// parties
type Repositories struct {
	Companies   CompanyRepository
	Funds       FundRepository
	Founders    FounderRepository
	Investors   InvestorRepository
	Investments InvestmentRepository
}

// UnitOfWork runs fn against repositories bound to one transaction. Every write
// made through them is rolled back when fn returns an error.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
