package safe

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/email"
	"go.uber.org/zap"
)

// NotificationService emails rendered SAFE documents
type NotificationService struct {
	docs        *DocumentService
	mailer      Mailer
	investments investment.InvestmentRepository
	guard       *idempotencyGuard
	logger      *zap.Logger
}

// NewNotificationService creates a new NotificationService. investments may be nil,
// in which case delivered emails are not recorded on investment rows.
func NewNotificationService(
	docs *DocumentService,
	mailer Mailer,
	investments investment.InvestmentRepository,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	logger *zap.Logger,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		docs:        docs,
		mailer:      mailer,
		investments: investments,
		guard:       &idempotencyGuard{store: idempotency, config: idemConfig, logger: logger},
		logger:      logger,
	}
}

// SendFounderEmail renders the document and mails it with the summary to the founder.
// An empty summary falls back to a generated one; if that fails too, the summary
// paragraph is omitted.
func (s *NotificationService) SendFounderEmail(ctx context.Context, req SendEmailRequest, idempotencyKey string) (*EmailResponse, error) {
	terms, err := req.InvestmentData.ToTerms()
	if err != nil {
		return nil, err
	}
	if terms.Founder.Email == "" {
		return nil, shared.NewDomainError("MISSING_RECIPIENT", "Founder email is required")
	}

	doc, err := s.docs.Generate(ctx, terms)
	if err != nil {
		return nil, err
	}

	summary := strings.TrimSpace(req.Content)
	if summary == "" {
		summary = s.docs.OptionalDealSummary(ctx, terms)
	}

	msg, err := email.FounderNotification(terms, summary, doc)
	if err != nil {
		return nil, err
	}

	receipt, err := s.deliver(ctx, EmailKindFounder, msg, idempotencyKey)
	if err != nil {
		return nil, err
	}
	s.recordEmailed(ctx, req.InvestmentID)

	return &EmailResponse{ID: receipt.ID, Recipients: len(msg.To) + len(msg.Cc), Summarized: summary != ""}, nil
}

// SendCounterpartyEmail mails the document to the founder with the investor on cc
func (s *NotificationService) SendCounterpartyEmail(ctx context.Context, req SendInvestmentEmailRequest, idempotencyKey string) (*EmailResponse, error) {
	terms, err := req.InvestmentData.ToTerms()
	if err != nil {
		return nil, err
	}
	if terms.Founder.Email == "" {
		return nil, shared.NewDomainError("MISSING_RECIPIENT", "Founder email is required")
	}

	doc, err := s.attachment(ctx, terms, req.Attachment)
	if err != nil {
		return nil, err
	}

	msg := email.CounterpartyNotification(terms, req.EmailContent, doc)
	receipt, err := s.deliver(ctx, EmailKindCounterparty, msg, idempotencyKey)
	if err != nil {
		return nil, err
	}
	s.recordEmailed(ctx, req.InvestmentID)

	return &EmailResponse{ID: receipt.ID, Recipients: len(msg.To) + len(msg.Cc)}, nil
}

// attachment decodes a supplied document or renders one from the terms
func (s *NotificationService) attachment(ctx context.Context, terms investment.InvestmentTerms, encoded string) (*investment.RenderedDocument, error) {
	if strings.TrimSpace(encoded) == "" {
		return s.docs.Generate(ctx, terms)
	}
	raw, err := decodeDocument(encoded)
	if err != nil {
		return nil, err
	}
	return investment.NewRenderedDocument(raw, terms.Variant, terms.Company.Name), nil
}

func (s *NotificationService) deliver(ctx context.Context, kind string, msg *email.Message, idempotencyKey string) (*email.DeliveryReceipt, error) {
	if s.mailer == nil {
		return nil, shared.NewDomainError("SERVICE_UNAVAILABLE", "Email delivery is not configured")
	}
	msg.IdempotencyKey = idempotencyKey

	var receipt *email.DeliveryReceipt
	err := s.guard.do(ctx, "email:"+kind, idempotencyKey, func() error {
		var sendErr error
		receipt, sendErr = s.mailer.Send(ctx, msg)
		return sendErr
	})
	s.docs.Recorder().EmailSent(ctx, kind, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("email delivered",
		zap.String("kind", kind),
		zap.String("id", receipt.ID),
		zap.Int("recipients", len(msg.To)+len(msg.Cc)))
	return receipt, nil
}

func (s *NotificationService) recordEmailed(ctx context.Context, rawID string) {
	if s.investments == nil || rawID == "" {
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return
	}
	if err := s.investments.UpdateStatus(ctx, id, investment.StatusEmailed, ""); err != nil {
		s.logger.Warn("failed to record emailed status", zap.String("investment_id", rawID), zap.Error(err))
	}
}

// decodeDocument accepts standard or URL-safe base64, with or without a data URL prefix
func decodeDocument(encoded string) ([]byte, error) {
	s := strings.TrimSpace(encoded)
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if raw, err := enc.DecodeString(s); err == nil && len(raw) > 0 {
			return raw, nil
		}
	}
	return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document must be base64 encoded")
}
