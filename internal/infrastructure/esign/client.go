package esign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/safedocs/backend/internal/domain/investment"
	"go.uber.org/zap"
)

// maxResponseSize limits the platform response body read into memory
const maxResponseSize = 1 << 20

// Client drives the CreateTemplate -> AttachDocument -> CreateEnvelope -> SendEnvelope sequence.
// No step is retried.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client from config
func NewClient(config *Config, opts ...ClientOption) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run executes the workflow; a failing step aborts everything after it
func (c *Client) Run(ctx context.Context, req *Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	signers := roles(req.Signers)

	name := req.TemplateName
	if name == "" {
		name = req.Document.CompanyName() + " SAFE"
	}
	subject := req.EmailSubject
	if subject == "" {
		subject = "Please sign: " + name
	}

	templateID, err := c.CreateTemplate(ctx, name, subject, signers)
	if err != nil {
		return nil, err
	}
	if err := c.AttachDocument(ctx, templateID, req.Document); err != nil {
		return nil, err
	}
	envelopeID, err := c.CreateEnvelope(ctx, templateID, subject, signers)
	if err != nil {
		return nil, err
	}
	status, err := c.SendEnvelope(ctx, envelopeID)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Envelope sent for signature",
		zap.String("template_id", templateID),
		zap.String("envelope_id", envelopeID),
		zap.Int("signers", len(signers)))

	return &Result{TemplateID: templateID, EnvelopeID: envelopeID, Status: status}, nil
}

// CreateTemplate registers a template with one role per signer
func (c *Client) CreateTemplate(ctx context.Context, name, subject string, signers []Signer) (string, error) {
	body := createTemplateRequest{
		Name:         name,
		Description:  "Simple Agreement for Future Equity",
		EmailSubject: subject,
		Shared:       "false",
	}
	for i, s := range signers {
		n := strconv.Itoa(i + 1)
		body.Recipients.Signers = append(body.Recipients.Signers, templateRecipient{
			RoleName:     s.RoleName,
			RecipientID:  n,
			RoutingOrder: n,
		})
	}

	var resp createTemplateResponse
	if err := c.do(ctx, StepCreateTemplate, http.MethodPost, c.config.accountURL()+"/templates", body, &resp); err != nil {
		return "", err
	}
	if resp.TemplateID == "" {
		return "", &SignatureWorkflowError{Step: StepCreateTemplate, Cause: fmt.Errorf("response carries no templateId")}
	}
	return resp.TemplateID, nil
}

// AttachDocument uploads the document as document 1 of the template
func (c *Client) AttachDocument(ctx context.Context, templateID string, doc *investment.RenderedDocument) error {
	body := templateDocument{
		DocumentID:     "1",
		Name:           doc.AttachmentFilename(),
		FileExtension:  "docx",
		DocumentBase64: doc.Base64(),
	}
	endpoint := c.config.accountURL() + "/templates/" + url.PathEscape(templateID) + "/documents/" + body.DocumentID
	return c.do(ctx, StepAttachDocument, http.MethodPut, endpoint, body, nil)
}

// CreateEnvelope creates a draft envelope from the template
func (c *Client) CreateEnvelope(ctx context.Context, templateID, subject string, signers []Signer) (string, error) {
	body := createEnvelopeRequest{
		TemplateID:   templateID,
		EmailSubject: subject,
		Status:       "created",
	}
	for _, s := range signers {
		body.TemplateRoles = append(body.TemplateRoles, templateRole{Email: s.Email, Name: s.Name, RoleName: s.RoleName})
	}

	var resp envelopeResponse
	if err := c.do(ctx, StepCreateEnvelope, http.MethodPost, c.config.accountURL()+"/envelopes", body, &resp); err != nil {
		return "", err
	}
	if resp.EnvelopeID == "" {
		return "", &SignatureWorkflowError{Step: StepCreateEnvelope, Cause: fmt.Errorf("response carries no envelopeId")}
	}
	return resp.EnvelopeID, nil
}

// SendEnvelope moves the envelope to sent, which emails the signers
func (c *Client) SendEnvelope(ctx context.Context, envelopeID string) (string, error) {
	endpoint := c.config.accountURL() + "/envelopes/" + url.PathEscape(envelopeID)
	var resp envelopeResponse
	if err := c.do(ctx, StepSendEnvelope, http.MethodPut, endpoint, updateEnvelopeRequest{Status: "sent"}, &resp); err != nil {
		return "", err
	}
	if resp.Status == "" {
		resp.Status = "sent"
	}
	return resp.Status, nil
}

func (c *Client) do(ctx context.Context, step Step, method, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &SignatureWorkflowError{Step: step, Cause: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return &SignatureWorkflowError{Step: step, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SignatureWorkflowError{Step: step, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &SignatureWorkflowError{Step: step, StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("e-signature platform rejected request",
			zap.String("step", string(step)),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return &SignatureWorkflowError{
			Step:       step,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			Cause:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &SignatureWorkflowError{Step: step, StatusCode: resp.StatusCode, Body: string(respBody),
				Cause: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}
