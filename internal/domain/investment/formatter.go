package investment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Template placeholder names shared by every SAFE template
const (
	FieldCompanyName          = "company_name"
	FieldCompanyAddress       = "company_address"
	FieldCompanyCityStateZip  = "company_city_state_zip"
	FieldStateOfIncorporation = "state_of_incorporation"
	FieldFounderName          = "founder_name"
	FieldFounderTitle         = "founder_title"
	FieldFounderEmail         = "founder_email"
	FieldInvestorName         = "investor_name"
	FieldInvestorBy           = "investor_by"
	FieldInvestorAddress      = "investor_address"
	FieldInvestorCityStateZip = "investor_city_state_zip"
	FieldPurchaseAmount       = "purchase_amount"
	FieldValuationCap         = "valuation_cap"
	FieldDiscount             = "discount"
	FieldDate                 = "date"
)

// RequiredFields must be non-empty for any template to render
var RequiredFields = []string{FieldCompanyName, FieldInvestorName, FieldPurchaseAmount}

// FormattedTerms maps placeholder names to the exact strings a template expects
type FormattedTerms map[string]string

// Get returns the value for key, or "" when it is absent
func (t FormattedTerms) Get(key string) string {
	return t[key]
}

// Missing returns the required fields that are absent or blank
func (t FormattedTerms) Missing() []string {
	var missing []string
	for _, f := range RequiredFields {
		if strings.TrimSpace(t[f]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

var hundred = decimal.NewFromInt(100)

var amountPrinter = message.NewPrinter(language.English)

// Format normalizes raw terms into template values. It has no side effects and
// returns a *FormatError for any input it rejects.
//
// Required names are not enforced here; an absent company name, investor name or
// purchase amount passes through empty and is rejected by the renderer.
func Format(terms InvestmentTerms) (FormattedTerms, error) {
	if !terms.Variant.IsValid() {
		return nil, newFormatError(ErrCodeUnknownVariant, "type", fmt.Sprintf("unknown investment type %q", terms.Variant))
	}
	if err := checkVariantFields(terms); err != nil {
		return nil, err
	}

	out := FormattedTerms{
		FieldCompanyName:          strings.TrimSpace(terms.Company.Name),
		FieldCompanyAddress:       strings.TrimSpace(terms.Company.Street),
		FieldCompanyCityStateZip:  strings.TrimSpace(terms.Company.CityStateZip),
		FieldStateOfIncorporation: strings.TrimSpace(terms.Company.StateOfIncorporation),
		FieldFounderName:          strings.TrimSpace(terms.Founder.Name),
		FieldFounderTitle:         strings.TrimSpace(terms.Founder.Title),
		FieldFounderEmail:         strings.TrimSpace(terms.Founder.Email),
		FieldInvestorName:         strings.TrimSpace(terms.Investor.Name),
		FieldInvestorBy:           strings.TrimSpace(terms.Investor.Byline),
		FieldInvestorAddress:      strings.TrimSpace(terms.Investor.Street),
		FieldInvestorCityStateZip: strings.TrimSpace(terms.Investor.CityStateZip),
	}

	if strings.TrimSpace(terms.PurchaseAmount) != "" {
		amount, err := FormatCurrency(terms.PurchaseAmount)
		if err != nil {
			return nil, withField(err, "purchaseAmount")
		}
		out[FieldPurchaseAmount] = amount
	}

	if terms.Variant.RequiresValuationCap() {
		valCap, err := FormatCurrency(terms.ValuationCap)
		if err != nil {
			return nil, withField(err, "valuationCap")
		}
		out[FieldValuationCap] = valCap
	}

	if terms.Variant.RequiresDiscount() {
		encoded, err := EncodeDiscount(terms.Discount)
		if err != nil {
			return nil, err
		}
		out[FieldDiscount] = encoded
	}

	if terms.Date.IsZero() {
		return nil, newFormatError(ErrCodeInvalidDate, "date", "effective date is required")
	}
	out[FieldDate] = FormatDate(terms.Date)

	return out, nil
}

func checkVariantFields(terms InvestmentTerms) error {
	hasCap := strings.TrimSpace(terms.ValuationCap) != ""
	hasDiscount := strings.TrimSpace(terms.Discount) != ""

	if hasCap && hasDiscount {
		return newFormatError(ErrCodeInconsistentVariant, "", "valuation cap and discount cannot both be set")
	}
	switch terms.Variant {
	case VariantValuationCap:
		if !hasCap {
			return newFormatError(ErrCodeInconsistentVariant, "valuationCap", "valuation cap is required for a valuation-cap SAFE")
		}
	case VariantDiscount:
		if !hasDiscount {
			return newFormatError(ErrCodeInconsistentVariant, "discount", "discount is required for a discount SAFE")
		}
	case VariantMFN:
		if hasCap || hasDiscount {
			return newFormatError(ErrCodeInconsistentVariant, "", "an MFN SAFE carries neither valuation cap nor discount")
		}
	}
	return nil
}

func withField(err error, field string) error {
	if fe, ok := err.(*FormatError); ok {
		fe.Field = field
	}
	return err
}

// FormatDate renders t as "March 3rd, 2024"
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %d%s, %d", t.Month().String(), t.Day(), OrdinalSuffix(t.Day()), t.Year())
}

// OrdinalSuffix returns the English ordinal suffix for day
func OrdinalSuffix(day int) string {
	if n := day % 100; n >= 11 && n <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// FormatCurrency strips every non-digit from raw and renders the result with
// thousands separators. Negative, non-numeric and zero input is rejected.
func FormatCurrency(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "(") {
		return "", newFormatError(ErrCodeInvalidAmount, "", fmt.Sprintf("amount %q must not be negative", raw))
	}
	digits := stripNonDigits(trimmed)
	if digits == "" {
		return "", newFormatError(ErrCodeInvalidAmount, "", fmt.Sprintf("amount %q is not numeric", raw))
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "", newFormatError(ErrCodeInvalidAmount, "", fmt.Sprintf("amount %q is out of range", raw))
	}
	if n == 0 {
		return "", newFormatError(ErrCodeInvalidAmount, "", "amount must be positive")
	}
	return amountPrinter.Sprintf("%d", n), nil
}

// ParseAmount returns the integer value of a currency string as a decimal
func ParseAmount(raw string) (decimal.Decimal, error) {
	if _, err := FormatCurrency(raw); err != nil {
		return decimal.Zero, err
	}
	return decimal.RequireFromString(stripNonDigits(raw)), nil
}

// EncodeDiscount converts a user-facing discount percentage into the value the
// templates expect, which is its complement: 20 becomes "80".
func EncodeDiscount(raw string) (string, error) {
	d, err := ParseDiscount(raw)
	if err != nil {
		return "", err
	}
	return hundred.Sub(d).String(), nil
}

// ParseDiscount parses a percentage in [0, 100); a trailing "%" is allowed
func ParseDiscount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, newFormatError(ErrCodeInvalidDiscount, "discount", fmt.Sprintf("discount %q is not numeric", raw))
	}
	if d.IsNegative() || d.GreaterThanOrEqual(hundred) {
		return decimal.Zero, newFormatError(ErrCodeInvalidDiscount, "discount", "discount must be at least 0 and below 100")
	}
	return d, nil
}

// ParseDate accepts "2006-01-02" or RFC 3339 input
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, newFormatError(ErrCodeInvalidDate, "date", fmt.Sprintf("date %q is not YYYY-MM-DD", raw))
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
