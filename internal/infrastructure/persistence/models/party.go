package models

import (
	"github.com/safedocs/backend/internal/domain/investment"
)

// CompanyModel is the persistence model for the Company entity
type CompanyModel struct {
	OwnedModel
	Name                 string `gorm:"type:varchar(200);not null"`
	Street               string `gorm:"type:varchar(200)"`
	CityStateZip         string `gorm:"type:varchar(200)"`
	StateOfIncorporation string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the model to a domain Company
func (m *CompanyModel) ToDomain() *investment.Company {
	return &investment.Company{
		BaseEntity:           m.BaseModel.ToDomain(),
		OwnerID:              m.OwnerID,
		Name:                 m.Name,
		Street:               m.Street,
		CityStateZip:         m.CityStateZip,
		StateOfIncorporation: m.StateOfIncorporation,
	}
}

// FromDomain populates the model from a domain Company
func (m *CompanyModel) FromDomain(c *investment.Company) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.OwnerID = c.OwnerID
	m.Name = c.Name
	m.Street = c.Street
	m.CityStateZip = c.CityStateZip
	m.StateOfIncorporation = c.StateOfIncorporation
}

// FundModel is the persistence model for the Fund entity
type FundModel struct {
	OwnedModel
	Name         string `gorm:"type:varchar(200);not null"`
	Byline       string `gorm:"type:varchar(200)"`
	Street       string `gorm:"type:varchar(200)"`
	CityStateZip string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (FundModel) TableName() string {
	return "funds"
}

// ToDomain converts the model to a domain Fund
func (m *FundModel) ToDomain() *investment.Fund {
	return &investment.Fund{
		BaseEntity:   m.BaseModel.ToDomain(),
		OwnerID:      m.OwnerID,
		Name:         m.Name,
		Byline:       m.Byline,
		Street:       m.Street,
		CityStateZip: m.CityStateZip,
	}
}

// FromDomain populates the model from a domain Fund
func (m *FundModel) FromDomain(f *investment.Fund) {
	m.FromDomainBaseEntity(f.BaseEntity)
	m.OwnerID = f.OwnerID
	m.Name = f.Name
	m.Byline = f.Byline
	m.Street = f.Street
	m.CityStateZip = f.CityStateZip
}

// FounderModel is the persistence model for the Founder entity
type FounderModel struct {
	OwnedModel
	Name  string `gorm:"type:varchar(200);not null"`
	Title string `gorm:"type:varchar(100)"`
	Email string `gorm:"type:varchar(200);index"`
}

// TableName returns the table name for GORM
func (FounderModel) TableName() string {
	return "founders"
}

// ToDomain converts the model to a domain Founder
func (m *FounderModel) ToDomain() *investment.Founder {
	return &investment.Founder{
		BaseEntity: m.BaseModel.ToDomain(),
		OwnerID:    m.OwnerID,
		Name:       m.Name,
		Title:      m.Title,
		Email:      m.Email,
	}
}

// FromDomain populates the model from a domain Founder
func (m *FounderModel) FromDomain(f *investment.Founder) {
	m.FromDomainBaseEntity(f.BaseEntity)
	m.OwnerID = f.OwnerID
	m.Name = f.Name
	m.Title = f.Title
	m.Email = f.Email
}

// InvestorModel is the persistence model for the Investor entity
type InvestorModel struct {
	OwnedModel
	Name  string `gorm:"type:varchar(200);not null"`
	Title string `gorm:"type:varchar(100)"`
	Email string `gorm:"type:varchar(200);index"`
}

// TableName returns the table name for GORM
func (InvestorModel) TableName() string {
	return "investors"
}

// ToDomain converts the model to a domain Investor
func (m *InvestorModel) ToDomain() *investment.Investor {
	return &investment.Investor{
		BaseEntity: m.BaseModel.ToDomain(),
		OwnerID:    m.OwnerID,
		Name:       m.Name,
		Title:      m.Title,
		Email:      m.Email,
	}
}

// FromDomain populates the model from a domain Investor
func (m *InvestorModel) FromDomain(i *investment.Investor) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.OwnerID = i.OwnerID
	m.Name = i.Name
	m.Title = i.Title
	m.Email = i.Email
}
