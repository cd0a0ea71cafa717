package investment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/safedocs/backend/internal/domain/shared"
)

// Status tracks how far an investment has moved through the document pipeline
type Status string

const (
	StatusDraft            Status = "draft"
	StatusGenerated        Status = "generated"
	StatusSentForSignature Status = "sent_for_signature"
	StatusEmailed          Status = "emailed"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusGenerated, StatusSentForSignature, StatusEmailed:
		return true
	}
	return false
}

// Investment links a creator with the parties and terms of one SAFE
type Investment struct {
	shared.BaseEntity
	CreatorID      uuid.UUID
	FounderID      uuid.UUID
	InvestorID     uuid.UUID
	CompanyID      uuid.UUID
	FundID         uuid.UUID
	PurchaseAmount decimal.Decimal
	Type           Variant
	ValuationCap   decimal.NullDecimal
	Discount       decimal.NullDecimal
	Date           time.Time
	URL            string
	Summary        string
	Status         Status
	EnvelopeID     string
	Rights         Rights

	// Loaded associations; nil unless the repository preloads them
	Founder  *Founder
	Investor *Investor
	Company  *Company
	Fund     *Fund
}

// NewInvestment validates terms against the variant and creates a draft record
func NewInvestment(creatorID, founderID, investorID, companyID, fundID uuid.UUID, terms InvestmentTerms) (*Investment, error) {
	if _, err := Format(terms); err != nil {
		return nil, err
	}
	amount, err := ParseAmount(terms.PurchaseAmount)
	if err != nil {
		return nil, withField(err, "purchaseAmount")
	}

	inv := &Investment{
		BaseEntity:     shared.NewBaseEntity(),
		CreatorID:      creatorID,
		FounderID:      founderID,
		InvestorID:     investorID,
		CompanyID:      companyID,
		FundID:         fundID,
		PurchaseAmount: amount,
		Type:           terms.Variant,
		Date:           terms.Date,
		Status:         StatusDraft,
		Rights:         terms.Rights,
	}
	if terms.Variant.RequiresValuationCap() {
		valCap, err := ParseAmount(terms.ValuationCap)
		if err != nil {
			return nil, withField(err, "valuationCap")
		}
		inv.ValuationCap = decimal.NewNullDecimal(valCap)
	}
	if terms.Variant.RequiresDiscount() {
		d, err := ParseDiscount(terms.Discount)
		if err != nil {
			return nil, err
		}
		inv.Discount = decimal.NewNullDecimal(d)
	}
	return inv, nil
}

// Terms rebuilds form-level terms from the record and its loaded associations
func (i *Investment) Terms() InvestmentTerms {
	t := InvestmentTerms{
		PurchaseAmount: i.PurchaseAmount.StringFixed(0),
		Variant:        i.Type,
		Date:           i.Date,
		Rights:         i.Rights,
	}
	if i.ValuationCap.Valid {
		t.ValuationCap = i.ValuationCap.Decimal.StringFixed(0)
	}
	if i.Discount.Valid {
		t.Discount = i.Discount.Decimal.String()
	}
	if i.Founder != nil {
		t.Founder = Signatory{Name: i.Founder.Name, Title: i.Founder.Title, Email: i.Founder.Email}
	}
	if i.Company != nil {
		t.Company = CompanyParty{
			Name:                 i.Company.Name,
			Street:               i.Company.Street,
			CityStateZip:         i.Company.CityStateZip,
			StateOfIncorporation: i.Company.StateOfIncorporation,
		}
	}
	if i.Fund != nil {
		t.Investor = InvestorParty{
			Name:         i.Fund.Name,
			Byline:       i.Fund.Byline,
			Street:       i.Fund.Street,
			CityStateZip: i.Fund.CityStateZip,
		}
	}
	if i.Investor != nil {
		t.Investor.Email = i.Investor.Email
		if t.Investor.Byline == "" {
			t.Investor.Byline = i.Investor.Name
		}
	}
	return t
}

// RecordDocument stores the location and summary of a freshly generated document
func (i *Investment) RecordDocument(url, summary string) {
	i.URL = url
	i.Summary = summary
	i.Status = StatusGenerated
	i.Touch()
}
