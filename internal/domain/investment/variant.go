package investment

import (
	"fmt"
	"strings"
)

// Variant identifies which SAFE form an investment uses
type Variant string

const (
	VariantValuationCap Variant = "valuation-cap"
	VariantDiscount     Variant = "discount"
	VariantMFN          Variant = "mfn"
)

// AllVariants returns every supported variant in display order
func AllVariants() []Variant {
	return []Variant{VariantValuationCap, VariantDiscount, VariantMFN}
}

// ParseVariant normalizes s into a Variant. Underscores and case are tolerated so
// that stored values such as "VALUATION_CAP" still resolve.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	if !v.IsValid() {
		return "", newFormatError(ErrCodeUnknownVariant, "type", fmt.Sprintf("unknown investment type %q", s))
	}
	return v, nil
}

// IsValid reports whether v is a supported variant
func (v Variant) IsValid() bool {
	switch v {
	case VariantValuationCap, VariantDiscount, VariantMFN:
		return true
	}
	return false
}

// RequiresValuationCap reports whether the variant carries a valuation cap
func (v Variant) RequiresValuationCap() bool {
	return v == VariantValuationCap
}

// RequiresDiscount reports whether the variant carries a discount
func (v Variant) RequiresDiscount() bool {
	return v == VariantDiscount
}

// DisplayName is the title-cased form used in download filenames
func (v Variant) DisplayName() string {
	switch v {
	case VariantValuationCap:
		return "Valuation-Cap"
	case VariantDiscount:
		return "Discount"
	case VariantMFN:
		return "MFN"
	}
	return string(v)
}

func (v Variant) String() string {
	return string(v)
}
