package investment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/shared"
)

// Company is an issuer owned by a user account
type Company struct {
	shared.BaseEntity
	OwnerID              uuid.UUID
	Name                 string
	Street               string
	CityStateZip         string
	StateOfIncorporation string
}

// NewCompany creates a company record
func NewCompany(ownerID uuid.UUID, name string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	return &Company{BaseEntity: shared.NewBaseEntity(), OwnerID: ownerID, Name: name}, nil
}

// Fund is an investing entity owned by a user account
type Fund struct {
	shared.BaseEntity
	OwnerID      uuid.UUID
	Name         string
	Byline       string
	Street       string
	CityStateZip string
}

// NewFund creates a fund record
func NewFund(ownerID uuid.UUID, name string) (*Fund, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Fund name cannot be empty")
	}
	return &Fund{BaseEntity: shared.NewBaseEntity(), OwnerID: ownerID, Name: name}, nil
}

// Founder is the person signing for a company
type Founder struct {
	shared.BaseEntity
	OwnerID uuid.UUID
	Name    string
	Title   string
	Email   string
}

// NewFounder creates a founder record
func NewFounder(ownerID uuid.UUID, name, email string) (*Founder, error) {
	if err := validatePerson(name, email); err != nil {
		return nil, err
	}
	return &Founder{
		BaseEntity: shared.NewBaseEntity(),
		OwnerID:    ownerID,
		Name:       strings.TrimSpace(name),
		Email:      strings.TrimSpace(email),
	}, nil
}

// Investor is the person signing for a fund
type Investor struct {
	shared.BaseEntity
	OwnerID uuid.UUID
	Name    string
	Title   string
	Email   string
}

// NewInvestor creates an investor record
func NewInvestor(ownerID uuid.UUID, name, email string) (*Investor, error) {
	if err := validatePerson(name, email); err != nil {
		return nil, err
	}
	return &Investor{
		BaseEntity: shared.NewBaseEntity(),
		OwnerID:    ownerID,
		Name:       strings.TrimSpace(name),
		Email:      strings.TrimSpace(email),
	}, nil
}

func validatePerson(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if e := strings.TrimSpace(email); e != "" && !strings.Contains(e, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return nil
}
