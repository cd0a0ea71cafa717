package safe

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/esign"
	"go.uber.org/zap"
)

// SignatureService routes SAFE documents through the e-signature platform
type SignatureService struct {
	docs        *DocumentService
	client      SignatureClient
	investments investment.InvestmentRepository
	guard       *idempotencyGuard
	logger      *zap.Logger
}

// NewSignatureService creates a new SignatureService. investments may be nil;
// a nil client makes Send fail with SERVICE_UNAVAILABLE.
func NewSignatureService(
	docs *DocumentService,
	client SignatureClient,
	investments investment.InvestmentRepository,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	logger *zap.Logger,
) *SignatureService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignatureService{
		docs:        docs,
		client:      client,
		investments: investments,
		guard:       &idempotencyGuard{store: idempotency, config: idemConfig, logger: logger},
		logger:      logger,
	}
}

// Send runs the signature workflow. Signers come from the request; when none are
// given the founder and the investor from the terms are used.
func (s *SignatureService) Send(ctx context.Context, req SignatureRequest, idempotencyKey string) (*SignatureResponse, error) {
	if s.client == nil {
		return nil, shared.NewDomainError("SERVICE_UNAVAILABLE", "E-signature is not configured")
	}
	var terms *investment.InvestmentTerms
	if req.InvestmentData != nil {
		t, err := req.InvestmentData.ToTerms()
		if err != nil {
			return nil, err
		}
		terms = &t
	}

	doc, err := s.document(ctx, terms, req.Document)
	if err != nil {
		return nil, err
	}

	signers := toSigners(req.Signers)
	if len(signers) == 0 && terms != nil {
		signers = DefaultSigners(*terms)
	}

	wf := &esign.Request{
		EmailSubject: req.EmailSubject,
		Document:     doc,
		Signers:      signers,
	}

	var result *esign.Result
	err = s.guard.do(ctx, "esign", idempotencyKey, func() error {
		var runErr error
		result, runErr = s.client.Run(ctx, wf)
		return runErr
	})
	s.docs.Recorder().SignatureSent(ctx, err)
	if err != nil {
		if step, ok := esign.FailedStep(err); ok {
			s.logger.Warn("signature workflow aborted", zap.String("step", string(step)), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("signature envelope sent",
		zap.String("envelope_id", result.EnvelopeID),
		zap.Int("signers", len(signers)))
	s.recordSent(ctx, req.InvestmentID, result.EnvelopeID)

	return &SignatureResponse{
		TemplateID: result.TemplateID,
		EnvelopeID: result.EnvelopeID,
		Status:     result.Status,
		Signers:    len(signers),
	}, nil
}

func (s *SignatureService) document(ctx context.Context, terms *investment.InvestmentTerms, encoded string) (*investment.RenderedDocument, error) {
	if strings.TrimSpace(encoded) != "" {
		raw, err := decodeDocument(encoded)
		if err != nil {
			return nil, err
		}
		var variant investment.Variant
		var company string
		if terms != nil {
			variant, company = terms.Variant, terms.Company.Name
		}
		return investment.NewRenderedDocument(raw, variant, company), nil
	}
	if terms == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Either investmentData or document is required")
	}
	return s.docs.Generate(ctx, *terms)
}

func (s *SignatureService) recordSent(ctx context.Context, rawID, envelopeID string) {
	if s.investments == nil || rawID == "" {
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return
	}
	if err := s.investments.UpdateStatus(ctx, id, investment.StatusSentForSignature, envelopeID); err != nil {
		s.logger.Warn("failed to record envelope on investment",
			zap.String("investment_id", rawID),
			zap.String("envelope_id", envelopeID),
			zap.Error(err))
	}
}

// DefaultSigners derives the founder and investor signers from the terms.
// Parties without an email address are skipped.
func DefaultSigners(terms investment.InvestmentTerms) []esign.Signer {
	var out []esign.Signer
	if terms.Founder.Email != "" {
		name := terms.Founder.Name
		if name == "" {
			name = terms.Company.Name
		}
		out = append(out, esign.Signer{Name: name, Email: terms.Founder.Email, RoleName: "founder"})
	}
	if terms.Investor.Email != "" {
		name := terms.Investor.Byline
		if name == "" {
			name = terms.Investor.Name
		}
		out = append(out, esign.Signer{Name: name, Email: terms.Investor.Email, RoleName: "investor"})
	}
	return out
}
