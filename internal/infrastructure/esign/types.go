package esign

import (
	"net/mail"
	"strconv"

	"github.com/safedocs/backend/internal/domain/investment"
)

// Signer is one recipient who must sign
type Signer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	// RoleName ties the signer to a template role; defaults to signer<n>
	RoleName string `json:"role_name,omitempty"`
}

// Request is a complete signature workflow run
type Request struct {
	// TemplateName names the template created on the platform
	TemplateName string
	// EmailSubject is used for the signing invitation
	EmailSubject string
	Document     *investment.RenderedDocument
	Signers      []Signer
}

// Result identifies the dispatched envelope
type Result struct {
	TemplateID string
	EnvelopeID string
	Status     string
}

func (r *Request) validate() error {
	if r.Document == nil || r.Document.Size() == 0 {
		return ErrNoDocument
	}
	if len(r.Signers) == 0 {
		return ErrNoSigners
	}
	for i := range r.Signers {
		s := &r.Signers[i]
		if s.Name == "" {
			return invalidSigner(i, "name is required")
		}
		if _, err := mail.ParseAddress(s.Email); err != nil {
			return invalidSigner(i, "email "+strconv.Quote(s.Email)+" is invalid")
		}
	}
	return nil
}

// roles assigns role names to signers missing one
func roles(signers []Signer) []Signer {
	out := make([]Signer, len(signers))
	for i, s := range signers {
		if s.RoleName == "" {
			s.RoleName = "signer" + strconv.Itoa(i+1)
		}
		out[i] = s
	}
	return out
}

// Wire types

type templateRecipient struct {
	RoleName     string `json:"roleName"`
	RecipientID  string `json:"recipientId"`
	RoutingOrder string `json:"routingOrder"`
}

type createTemplateRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	EmailSubject string `json:"emailSubject,omitempty"`
	Shared       string `json:"shared"`
	Recipients   struct {
		Signers []templateRecipient `json:"signers"`
	} `json:"recipients"`
}

type createTemplateResponse struct {
	TemplateID string `json:"templateId"`
	Name       string `json:"name"`
}

type templateDocument struct {
	DocumentID     string `json:"documentId"`
	Name           string `json:"name"`
	FileExtension  string `json:"fileExtension"`
	DocumentBase64 string `json:"documentBase64"`
}

type templateRole struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	RoleName string `json:"roleName"`
}

type createEnvelopeRequest struct {
	TemplateID    string         `json:"templateId"`
	EmailSubject  string         `json:"emailSubject,omitempty"`
	Status        string         `json:"status"`
	TemplateRoles []templateRole `json:"templateRoles"`
}

type envelopeResponse struct {
	EnvelopeID string `json:"envelopeId"`
	Status     string `json:"status"`
}

type updateEnvelopeRequest struct {
	Status string `json:"status"`
}
