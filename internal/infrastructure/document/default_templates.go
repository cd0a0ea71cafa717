package document

import (
	"embed"
	"fmt"

	"github.com/safedocs/backend/internal/domain/investment"
)

//go:embed templates/*.docx
var templateFS embed.FS

// DefaultTemplate describes a template shipped with the binary
type DefaultTemplate struct {
	Variant     investment.Variant
	Name        string
	Description string
	FilePath    string // Path within embed.FS
}

// GetDefaultTemplates returns all embedded template descriptors
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		{
			Variant:     investment.VariantValuationCap,
			Name:        "SAFE: Valuation Cap, no Discount",
			Description: "Post-money SAFE converting at the valuation cap",
			FilePath:    "templates/valuation-cap.docx",
		},
		{
			Variant:     investment.VariantDiscount,
			Name:        "SAFE: Discount Only",
			Description: "Post-money SAFE converting at a discount to the next round price",
			FilePath:    "templates/discount.docx",
		},
		{
			Variant:     investment.VariantMFN,
			Name:        "SAFE: MFN, no Valuation Cap, no Discount",
			Description: "SAFE with a most-favored-nation clause and no economic terms",
			FilePath:    "templates/mfn.docx",
		},
	}
}

// LoadTemplateContent reads an embedded template
func LoadTemplateContent(path string) ([]byte, error) {
	content, err := templateFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded template %s: %w", path, err)
	}
	return content, nil
}
