package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/mail"
	"strings"

	"github.com/safedocs/backend/internal/domain/investment"
)

// Message is one outgoing email
type Message struct {
	To         []string
	Cc         []string
	Subject    string
	HTML       string
	Attachment *investment.RenderedDocument
	// IdempotencyKey is forwarded to the provider when set
	IdempotencyKey string
}

// Message validation errors
var (
	ErrNoRecipients     = errors.New("email: at least one recipient is required")
	ErrInvalidRecipient = errors.New("email: invalid recipient address")
	ErrNoSubject        = errors.New("email: subject is required")
)

// Validate checks addresses and required fields
func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	for _, addr := range append(append([]string{}, m.To...), m.Cc...) {
		if _, err := mail.ParseAddress(addr); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidRecipient, addr)
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrNoSubject
	}
	return nil
}

var founderTemplate = template.Must(template.New("founder").Parse(`<p>Hi {{.FounderName}},</p>
<p>Your SAFE with {{.InvestorName}} for {{.CompanyName}} is attached.</p>
{{- if .Summary}}
<p><strong>Summary</strong></p>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}
{{- end}}
<p>The full document is attached as {{.Filename}}.</p>
`))

// FounderNotification builds the founder email: summary, when present, plus the document
func FounderNotification(terms investment.InvestmentTerms, summary string, doc *investment.RenderedDocument) (*Message, error) {
	summary = strings.TrimSpace(summary)
	var paragraphs []string
	for _, p := range strings.Split(summary, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	founderName := terms.Founder.Name
	if founderName == "" {
		founderName = "there"
	}

	var buf bytes.Buffer
	err := founderTemplate.Execute(&buf, map[string]any{
		"FounderName":  founderName,
		"InvestorName": terms.Investor.Name,
		"CompanyName":  terms.Company.Name,
		"Summary":      summary,
		"Paragraphs":   paragraphs,
		"Filename":     doc.AttachmentFilename(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render founder email: %w", err)
	}

	return &Message{
		To:         []string{terms.Founder.Email},
		Subject:    "Your SAFE for " + terms.Company.Name,
		HTML:       buf.String(),
		Attachment: doc,
	}, nil
}

// CounterpartyNotification builds the founder + investor email with an edited HTML body
func CounterpartyNotification(terms investment.InvestmentTerms, htmlBody string, doc *investment.RenderedDocument) *Message {
	msg := &Message{
		To:         []string{terms.Founder.Email},
		Subject:    "SAFE: " + terms.Company.Name + " / " + terms.Investor.Name,
		HTML:       htmlBody,
		Attachment: doc,
	}
	if terms.Investor.Email != "" {
		msg.Cc = []string{terms.Investor.Email}
	}
	return msg
}
