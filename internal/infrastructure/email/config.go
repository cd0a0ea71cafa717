// Package email delivers SAFE documents through a transactional email API
// (Resend-compatible: POST /emails with base64 attachments).
package email

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the provider API root
	DefaultBaseURL = "https://api.resend.com"

	defaultTimeout = 15 * time.Second
)

// Errors for email configuration
var (
	ErrConfigMissingAPIKey = errors.New("email: API key is required")
	ErrConfigMissingFrom   = errors.New("email: sender address is required")
	ErrConfigInvalidFrom   = errors.New("email: sender address is invalid")
)

// Config holds the email provider settings
type Config struct {
	BaseURL string
	APIKey  string
	// From is the sender, e.g. "SAFE Docs <deals@example.com>"
	From    string
	Timeout time.Duration
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.From == "" {
		return ErrConfigMissingFrom
	}
	if _, err := mail.ParseAddress(c.From); err != nil {
		return ErrConfigInvalidFrom
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}
