package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const maxResponseSize = 1 << 20

// DeliveryReceipt is the provider's acknowledgement
type DeliveryReceipt struct {
	ID string `json:"id"`
}

// DeliveryError reports a failed send. The dispatcher never retries.
type DeliveryError struct {
	// StatusCode is the provider's HTTP status, 0 for transport failures
	StatusCode int
	// Payload is the raw provider response, for logs only
	Payload string
	Cause   error
}

func (e *DeliveryError) Error() string {
	msg := "email delivery failed"
	if e.StatusCode != 0 {
		msg += " (HTTP " + strconv.Itoa(e.StatusCode) + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

type attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

type sendRequest struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Cc          []string     `json:"cc,omitempty"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []attachment `json:"attachments,omitempty"`
}

// Client sends Messages through the provider API
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

// Send delivers msg once
func (c *Client) Send(ctx context.Context, msg *Message) (*DeliveryReceipt, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	body := sendRequest{
		From:    c.config.From,
		To:      msg.To,
		Cc:      msg.Cc,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	if msg.Attachment != nil {
		body.Attachments = []attachment{{
			Filename:    msg.Attachment.AttachmentFilename(),
			Content:     msg.Attachment.Base64(),
			ContentType: msg.Attachment.ContentType(),
		}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &DeliveryError{Cause: fmt.Errorf("failed to encode message: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return nil, &DeliveryError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if msg.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", msg.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DeliveryError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &DeliveryError{StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("email provider rejected message",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("payload", respBody))
		return nil, &DeliveryError{
			StatusCode: resp.StatusCode,
			Payload:    string(respBody),
			Cause:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var receipt DeliveryReceipt
	if err := json.Unmarshal(respBody, &receipt); err != nil {
		return nil, &DeliveryError{StatusCode: resp.StatusCode, Payload: string(respBody),
			Cause: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.logger.Info("Email delivered",
		zap.String("id", receipt.ID),
		zap.Int("to", len(msg.To)),
		zap.Int("cc", len(msg.Cc)))
	return &receipt, nil
}
