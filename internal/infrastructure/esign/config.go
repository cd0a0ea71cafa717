// Package esign routes rendered documents through an e-signature platform
// (DocuSign eSignature REST v2.1 compatible).
package esign

import (
	"errors"
	"strings"
	"time"
)

const (
	// DemoBaseURL is the DocuSign developer sandbox
	DemoBaseURL = "https://demo.docusign.net/restapi/v2.1"
	// ProductionBaseURL is the DocuSign production API
	ProductionBaseURL = "https://www.docusign.net/restapi/v2.1"

	defaultTimeout = 30 * time.Second
)

// Errors for e-signature configuration
var (
	ErrConfigMissingAccountID   = errors.New("esign: account ID is required")
	ErrConfigMissingAccessToken = errors.New("esign: access token is required")
)

// Config holds the e-signature platform settings
type Config struct {
	// BaseURL is the REST API root, without the /accounts segment
	BaseURL string
	// AccountID is the platform account the templates and envelopes live in
	AccountID string
	// AccessToken is an OAuth bearer token
	AccessToken string
	// Timeout bounds each HTTP request
	Timeout time.Duration
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.AccountID == "" {
		return ErrConfigMissingAccountID
	}
	if c.AccessToken == "" {
		return ErrConfigMissingAccessToken
	}
	if c.BaseURL == "" {
		c.BaseURL = DemoBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

func (c *Config) accountURL() string {
	return c.BaseURL + "/accounts/" + c.AccountID
}
