package summarizer

import (
	"fmt"
	"strings"

	"github.com/safedocs/backend/internal/domain/investment"
)

// SystemInstruction is sent with every summary request
const SystemInstruction = `You summarize legal documents for a reader who is not a lawyer.
Explain in plain English what the agreement means for the founder and the investor.
Use short paragraphs, state every amount and percentage exactly as given, and do not invent terms that are not present.`

// Prompt is one summary request
type Prompt struct {
	System string
	User   string
}

// DocumentPrompt summarizes arbitrary document text
func DocumentPrompt(content string) Prompt {
	return Prompt{
		System: SystemInstruction,
		User:   "Summarize this legal document:\n\n" + strings.TrimSpace(content),
	}
}

// DealPrompt describes the terms of a SAFE investment
func DealPrompt(terms investment.InvestmentTerms) Prompt {
	var sb strings.Builder
	sb.WriteString("Summarize this SAFE (Simple Agreement for Future Equity) investment.\n\n")

	writeLine(&sb, "Company", terms.Company.Name)
	writeLine(&sb, "Investor", terms.Investor.Name)
	writeLine(&sb, "Purchase amount", money(terms.PurchaseAmount))
	if terms.Variant.IsValid() {
		writeLine(&sb, "Investment type", terms.Variant.DisplayName()+" SAFE")
	}
	writeLine(&sb, "Post-money valuation cap", money(terms.ValuationCap))
	if terms.Discount != "" {
		writeLine(&sb, "Discount", strings.TrimSuffix(strings.TrimSpace(terms.Discount), "%")+"%")
	}
	if !terms.Date.IsZero() {
		writeLine(&sb, "Date", investment.FormatDate(terms.Date))
	}
	writeLine(&sb, "Information rights", yesNo(terms.Rights.InformationRights))
	writeLine(&sb, "Pro-rata rights", yesNo(terms.Rights.ProRataRights))
	writeLine(&sb, "Major investor rights", yesNo(terms.Rights.MajorInvestorRights))
	writeLine(&sb, "Termination", terms.Rights.Termination)

	return Prompt{System: SystemInstruction, User: sb.String()}
}

func writeLine(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "- %s: %s\n", label, value)
}

func money(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	formatted, err := investment.FormatCurrency(raw)
	if err != nil {
		return raw
	}
	return "$" + formatted
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
