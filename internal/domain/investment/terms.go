package investment

import "time"

// Signatory is the founder who signs on behalf of the company
type Signatory struct {
	Name  string
	Title string
	Email string
}

// CompanyParty identifies the issuing company
type CompanyParty struct {
	Name                 string
	Street               string
	CityStateZip         string
	StateOfIncorporation string
}

// InvestorParty identifies the investing entity
type InvestorParty struct {
	Name         string
	Byline       string
	Street       string
	CityStateZip string
	Email        string
}

// Rights are the side-letter flags the summary describes
type Rights struct {
	InformationRights   bool
	ProRataRights       bool
	MajorInvestorRights bool
	Termination         string
}

// InvestmentTerms is the raw, form-level description of one investment.
// Amounts are kept as entered; Format normalizes them.
type InvestmentTerms struct {
	Founder        Signatory
	Company        CompanyParty
	Investor       InvestorParty
	PurchaseAmount string
	Variant        Variant
	ValuationCap   string
	Discount       string
	Date           time.Time
	Rights         Rights
}
