package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/shopspring/decimal"
)

// InvestmentModel is the persistence model for the Investment aggregate
type InvestmentModel struct {
	BaseModel
	CreatorID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	FounderID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	InvestorID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	CompanyID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	FundID              uuid.UUID           `gorm:"type:uuid;not null;index"`
	PurchaseAmount      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Type                investment.Variant  `gorm:"type:varchar(20);not null"`
	ValuationCap        decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	Discount            decimal.NullDecimal `gorm:"type:decimal(5,2)"`
	Date                time.Time           `gorm:"type:date;not null"`
	URL                 string              `gorm:"column:url;type:text"`
	Summary             string              `gorm:"type:text"`
	Status              investment.Status   `gorm:"type:varchar(30);not null;default:'draft';index"`
	EnvelopeID          string              `gorm:"type:varchar(100)"`
	InformationRights   bool                `gorm:"not null;default:false"`
	ProRataRights       bool                `gorm:"not null;default:false"`
	MajorInvestorRights bool                `gorm:"not null;default:false"`
	Termination         string              `gorm:"type:text"`

	Founder  *FounderModel  `gorm:"foreignKey:FounderID"`
	Investor *InvestorModel `gorm:"foreignKey:InvestorID"`
	Company  *CompanyModel  `gorm:"foreignKey:CompanyID"`
	Fund     *FundModel     `gorm:"foreignKey:FundID"`
}

// TableName returns the table name for GORM
func (InvestmentModel) TableName() string {
	return "investments"
}

// ToDomain converts the model and any loaded associations to a domain Investment
func (m *InvestmentModel) ToDomain() *investment.Investment {
	inv := &investment.Investment{
		BaseEntity:     m.BaseModel.ToDomain(),
		CreatorID:      m.CreatorID,
		FounderID:      m.FounderID,
		InvestorID:     m.InvestorID,
		CompanyID:      m.CompanyID,
		FundID:         m.FundID,
		PurchaseAmount: m.PurchaseAmount,
		Type:           m.Type,
		ValuationCap:   m.ValuationCap,
		Discount:       m.Discount,
		Date:           m.Date,
		URL:            m.URL,
		Summary:        m.Summary,
		Status:         m.Status,
		EnvelopeID:     m.EnvelopeID,
		Rights: investment.Rights{
			InformationRights:   m.InformationRights,
			ProRataRights:       m.ProRataRights,
			MajorInvestorRights: m.MajorInvestorRights,
			Termination:         m.Termination,
		},
	}
	if m.Founder != nil {
		inv.Founder = m.Founder.ToDomain()
	}
	if m.Investor != nil {
		inv.Investor = m.Investor.ToDomain()
	}
	if m.Company != nil {
		inv.Company = m.Company.ToDomain()
	}
	if m.Fund != nil {
		inv.Fund = m.Fund.ToDomain()
	}
	return inv
}

// FromDomain populates the model from a domain Investment. Associations are not copied.
func (m *InvestmentModel) FromDomain(inv *investment.Investment) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.CreatorID = inv.CreatorID
	m.FounderID = inv.FounderID
	m.InvestorID = inv.InvestorID
	m.CompanyID = inv.CompanyID
	m.FundID = inv.FundID
	m.PurchaseAmount = inv.PurchaseAmount
	m.Type = inv.Type
	m.ValuationCap = inv.ValuationCap
	m.Discount = inv.Discount
	m.Date = inv.Date
	m.URL = inv.URL
	m.Summary = inv.Summary
	m.Status = inv.Status
	m.EnvelopeID = inv.EnvelopeID
	m.InformationRights = inv.Rights.InformationRights
	m.ProRataRights = inv.Rights.ProRataRights
	m.MajorInvestorRights = inv.Rights.MajorInvestorRights
	m.Termination = inv.Rights.Termination
}

// InvestmentModelFromDomain creates a model from a domain Investment
func InvestmentModelFromDomain(inv *investment.Investment) *InvestmentModel {
	m := &InvestmentModel{}
	m.FromDomain(inv)
	return m
}

// All lists every model for AutoMigrate in tests and local tooling
func All() []any {
	return []any{
		&CompanyModel{},
		&FundModel{},
		&FounderModel{},
		&InvestorModel{},
		&InvestmentModel{},
	}
}
