package email

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{
		BaseURL: srv.URL,
		APIKey:  "re_test",
		From:    "SAFE Docs <deals@example.com>",
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return c
}

func testDocument() *investment.RenderedDocument {
	return investment.NewRenderedDocument([]byte("PK\x03\x04exact-bytes"), investment.VariantDiscount, "Acme")
}

func TestClient_Send(t *testing.T) {
	var got sendRequest
	var idempotency string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		idempotency = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-123"}`))
	})

	receipt, err := c.Send(context.Background(), &Message{
		To:             []string{"jane@acme.test"},
		Cc:             []string{"ivan@fund.test"},
		Subject:        "Your SAFE",
		HTML:           "<p>hi</p>",
		Attachment:     testDocument(),
		IdempotencyKey: "key-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "email-123", receipt.ID)
	assert.Equal(t, "key-1", idempotency)

	assert.Equal(t, "SAFE Docs <deals@example.com>", got.From)
	assert.Equal(t, []string{"ivan@fund.test"}, got.Cc)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "Acme-SAFE.docx", got.Attachments[0].Filename)
	raw, err := base64.StdEncoding.DecodeString(got.Attachments[0].Content)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04exact-bytes"), raw)
}

func TestClient_SendProviderError(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from"}`))
	})

	_, err := c.Send(context.Background(), &Message{To: []string{"jane@acme.test"}, Subject: "s", HTML: "h"})
	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, http.StatusUnprocessableEntity, de.StatusCode)
	assert.Contains(t, de.Payload, "validation_error")
	assert.Equal(t, 1, calls, "no retry")
}

func TestClient_SendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := NewClient(&Config{BaseURL: srv.URL, APIKey: "k", From: "a@b.test"})
	require.NoError(t, err)
	srv.Close()

	_, err = c.Send(context.Background(), &Message{To: []string{"jane@acme.test"}, Subject: "s"})
	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Zero(t, de.StatusCode)
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want error
	}{
		{"no recipients", Message{Subject: "s"}, ErrNoRecipients},
		{"bad to", Message{To: []string{"nope"}, Subject: "s"}, ErrInvalidRecipient},
		{"bad cc", Message{To: []string{"a@b.test"}, Cc: []string{""}, Subject: "s"}, ErrInvalidRecipient},
		{"no subject", Message{To: []string{"a@b.test"}}, ErrNoSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.msg.Validate(), tt.want)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Config{From: "a@b.test"}).Validate(), ErrConfigMissingAPIKey)
	assert.ErrorIs(t, (&Config{APIKey: "k"}).Validate(), ErrConfigMissingFrom)
	assert.ErrorIs(t, (&Config{APIKey: "k", From: "not an address"}).Validate(), ErrConfigInvalidFrom)

	cfg := &Config{APIKey: "k", From: "a@b.test"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
}
