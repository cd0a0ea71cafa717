package safe

import (
	"strings"
	"time"

	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/infrastructure/esign"
)

// =============================================================================
// Terms DTOs
// =============================================================================

// InvestmentData is the flat form payload describing one SAFE. Required names are
// not enforced at binding so that the renderer reports them as missing fields.
type InvestmentData struct {
	CompanyName          string `json:"companyName" binding:"max=200"`
	CompanyAddress       string `json:"companyAddress" binding:"max=200"`
	CompanyCityStateZip  string `json:"companyCityStateZip" binding:"max=200"`
	StateOfIncorporation string `json:"stateOfIncorporation" binding:"max=100"`

	FounderName  string `json:"founderName" binding:"max=200"`
	FounderTitle string `json:"founderTitle" binding:"max=100"`
	FounderEmail string `json:"founderEmail" binding:"omitempty,email"`

	InvestorName         string `json:"investorName" binding:"max=200"`
	InvestorBy           string `json:"investorBy" binding:"max=200"`
	InvestorAddress      string `json:"investorAddress" binding:"max=200"`
	InvestorCityStateZip string `json:"investorCityStateZip" binding:"max=200"`
	InvestorEmail        string `json:"investorEmail" binding:"omitempty,email"`

	PurchaseAmount string `json:"purchaseAmount"`
	Type           string `json:"type" binding:"required"`
	ValuationCap   string `json:"valuationCap"`
	Discount       string `json:"discount"`
	Date           string `json:"date" binding:"required"`

	InformationRights   bool   `json:"informationRights"`
	ProRataRights       bool   `json:"proRataRights"`
	MajorInvestorRights bool   `json:"majorInvestorRights"`
	Termination         string `json:"termination" binding:"max=2000"`
}

// ToTerms parses the payload into domain terms. Errors are *investment.FormatError.
func (d InvestmentData) ToTerms() (investment.InvestmentTerms, error) {
	variant, err := investment.ParseVariant(d.Type)
	if err != nil {
		return investment.InvestmentTerms{}, err
	}
	date, err := investment.ParseDate(d.Date)
	if err != nil {
		return investment.InvestmentTerms{}, err
	}
	return investment.InvestmentTerms{
		Founder: investment.Signatory{
			Name:  strings.TrimSpace(d.FounderName),
			Title: strings.TrimSpace(d.FounderTitle),
			Email: strings.TrimSpace(d.FounderEmail),
		},
		Company: investment.CompanyParty{
			Name:                 strings.TrimSpace(d.CompanyName),
			Street:               strings.TrimSpace(d.CompanyAddress),
			CityStateZip:         strings.TrimSpace(d.CompanyCityStateZip),
			StateOfIncorporation: strings.TrimSpace(d.StateOfIncorporation),
		},
		Investor: investment.InvestorParty{
			Name:         strings.TrimSpace(d.InvestorName),
			Byline:       strings.TrimSpace(d.InvestorBy),
			Street:       strings.TrimSpace(d.InvestorAddress),
			CityStateZip: strings.TrimSpace(d.InvestorCityStateZip),
			Email:        strings.TrimSpace(d.InvestorEmail),
		},
		PurchaseAmount: d.PurchaseAmount,
		Variant:        variant,
		ValuationCap:   d.ValuationCap,
		Discount:       d.Discount,
		Date:           date,
		Rights: investment.Rights{
			InformationRights:   d.InformationRights,
			ProRataRights:       d.ProRataRights,
			MajorInvestorRights: d.MajorInvestorRights,
			Termination:         strings.TrimSpace(d.Termination),
		},
	}, nil
}

// =============================================================================
// Summary DTOs
// =============================================================================

// GenerateSummaryRequest asks for a summary of arbitrary document text
type GenerateSummaryRequest struct {
	Content string `json:"content" binding:"required,max=200000"`
}

// SummaryResponse carries a generated summary
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// =============================================================================
// Email DTOs
// =============================================================================

// SendEmailRequest renders the document and mails it with a summary to the founder
type SendEmailRequest struct {
	InvestmentData InvestmentData `json:"investmentData" binding:"required"`
	// Content is the summary text; when empty a summary is generated if possible
	Content      string `json:"content" binding:"max=20000"`
	InvestmentID string `json:"investmentId" binding:"omitempty,uuid"`
}

// SendInvestmentEmailRequest mails an already rendered document to founder and investor
type SendInvestmentEmailRequest struct {
	InvestmentData InvestmentData `json:"investmentData" binding:"required"`
	// Attachment is the base64 document; when empty the document is rendered from InvestmentData
	Attachment   string `json:"attachment"`
	EmailContent string `json:"emailContent" binding:"required,max=50000"`
	InvestmentID string `json:"investmentId" binding:"omitempty,uuid"`
}

// EmailResponse acknowledges a delivered email
type EmailResponse struct {
	ID         string `json:"id"`
	Recipients int    `json:"recipients"`
	Summarized bool   `json:"summarized"`
}

// =============================================================================
// Signature DTOs
// =============================================================================

// SignerDTO is one signer supplied by the caller
type SignerDTO struct {
	Name     string `json:"name" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email"`
	RoleName string `json:"roleName" binding:"max=100"`
}

// SignatureRequest starts an e-signature workflow
type SignatureRequest struct {
	InvestmentData *InvestmentData `json:"investmentData"`
	// Document is a base64 document; when empty it is rendered from InvestmentData
	Document     string      `json:"document"`
	Signers      []SignerDTO `json:"signers" binding:"omitempty,dive"`
	EmailSubject string      `json:"emailSubject" binding:"max=200"`
	InvestmentID string      `json:"investmentId" binding:"omitempty,uuid"`
}

// SignatureResponse identifies the dispatched envelope
type SignatureResponse struct {
	TemplateID string `json:"templateId"`
	EnvelopeID string `json:"envelopeId"`
	Status     string `json:"status"`
	Signers    int    `json:"signers"`
}

func toSigners(in []SignerDTO) []esign.Signer {
	out := make([]esign.Signer, len(in))
	for i, s := range in {
		out[i] = esign.Signer{Name: s.Name, Email: s.Email, RoleName: s.RoleName}
	}
	return out
}

// =============================================================================
// Template DTOs
// =============================================================================

// TemplateResponse describes one available SAFE template
type TemplateResponse struct {
	ID           string   `json:"id"`
	Variant      string   `json:"variant"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Source       string   `json:"source"`
	Size         int      `json:"size"`
	Placeholders []string `json:"placeholders"`
}

// =============================================================================
// Investment DTOs
// =============================================================================

// PartyRef selects an existing party by id or describes a new one
type PartyRef struct {
	ID string `json:"id" binding:"omitempty,uuid"`
}

// CompanyInput references or creates a company
type CompanyInput struct {
	PartyRef
	Name                 string `json:"name" binding:"max=200"`
	Street               string `json:"street" binding:"max=200"`
	CityStateZip         string `json:"cityStateZip" binding:"max=200"`
	StateOfIncorporation string `json:"stateOfIncorporation" binding:"max=100"`
}

// FundInput references or creates a fund
type FundInput struct {
	PartyRef
	Name         string `json:"name" binding:"max=200"`
	Byline       string `json:"byline" binding:"max=200"`
	Street       string `json:"street" binding:"max=200"`
	CityStateZip string `json:"cityStateZip" binding:"max=200"`
}

// PersonInput references or creates a founder or investor
type PersonInput struct {
	PartyRef
	Name  string `json:"name" binding:"max=200"`
	Title string `json:"title" binding:"max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

// CreateInvestmentRequest records a new investment with its parties
type CreateInvestmentRequest struct {
	Company  CompanyInput `json:"company" binding:"required"`
	Fund     FundInput    `json:"fund" binding:"required"`
	Founder  PersonInput  `json:"founder" binding:"required"`
	Investor PersonInput  `json:"investor" binding:"required"`

	PurchaseAmount      string `json:"purchaseAmount" binding:"required"`
	Type                string `json:"type" binding:"required"`
	ValuationCap        string `json:"valuationCap"`
	Discount            string `json:"discount"`
	Date                string `json:"date" binding:"required"`
	InformationRights   bool   `json:"informationRights"`
	ProRataRights       bool   `json:"proRataRights"`
	MajorInvestorRights bool   `json:"majorInvestorRights"`
	Termination         string `json:"termination" binding:"max=2000"`
}

// ListInvestmentsRequest pages through the caller's investments
type ListInvestmentsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvestmentResponse is the API view of an investment
type InvestmentResponse struct {
	ID                  string    `json:"id"`
	CompanyID           string    `json:"companyId"`
	CompanyName         string    `json:"companyName,omitempty"`
	FundID              string    `json:"fundId"`
	FundName            string    `json:"fundName,omitempty"`
	FounderID           string    `json:"founderId"`
	InvestorID          string    `json:"investorId"`
	PurchaseAmount      string    `json:"purchaseAmount"`
	Type                string    `json:"type"`
	ValuationCap        string    `json:"valuationCap,omitempty"`
	Discount            string    `json:"discount,omitempty"`
	Date                string    `json:"date"`
	Status              string    `json:"status"`
	HasDocument         bool      `json:"hasDocument"`
	Summary             string    `json:"summary,omitempty"`
	EnvelopeID          string    `json:"envelopeId,omitempty"`
	InformationRights   bool      `json:"informationRights"`
	ProRataRights       bool      `json:"proRataRights"`
	MajorInvestorRights bool      `json:"majorInvestorRights"`
	Termination         string    `json:"termination,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// DocumentLinkResponse points at a stored document
type DocumentLinkResponse struct {
	InvestmentID string    `json:"investmentId"`
	Filename     string    `json:"filename"`
	URL          string    `json:"url"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Summary      string    `json:"summary,omitempty"`
	Status       string    `json:"status"`
}

// ToInvestmentResponse converts a domain investment to its API view
func ToInvestmentResponse(inv *investment.Investment) InvestmentResponse {
	resp := InvestmentResponse{
		ID:                  inv.ID.String(),
		CompanyID:           inv.CompanyID.String(),
		FundID:              inv.FundID.String(),
		FounderID:           inv.FounderID.String(),
		InvestorID:          inv.InvestorID.String(),
		PurchaseAmount:      inv.PurchaseAmount.StringFixed(0),
		Type:                string(inv.Type),
		Date:                inv.Date.Format("2006-01-02"),
		Status:              string(inv.Status),
		HasDocument:         inv.URL != "",
		Summary:             inv.Summary,
		EnvelopeID:          inv.EnvelopeID,
		InformationRights:   inv.Rights.InformationRights,
		ProRataRights:       inv.Rights.ProRataRights,
		MajorInvestorRights: inv.Rights.MajorInvestorRights,
		Termination:         inv.Rights.Termination,
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
	if inv.ValuationCap.Valid {
		resp.ValuationCap = inv.ValuationCap.Decimal.StringFixed(0)
	}
	if inv.Discount.Valid {
		resp.Discount = inv.Discount.Decimal.String()
	}
	if inv.Company != nil {
		resp.CompanyName = inv.Company.Name
	}
	if inv.Fund != nil {
		resp.FundName = inv.Fund.Name
	}
	return resp
}
