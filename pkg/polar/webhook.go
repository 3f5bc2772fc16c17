package polar

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

// WebhookEvent is the envelope Polar posts to the webhook endpoint.
type WebhookEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WebhookOrder is the payload carried by order lifecycle events.
type WebhookOrder struct {
	ID             string `json:"id"`
	CustomerEmail  string `json:"customer_email"`
	SubscriptionID string `json:"subscription_id"`
	Status         string `json:"status"`
}

var (
	errSignatureMissing  = errors.New("webhook signature missing")
	errSignatureMismatch = errors.New("webhook signature mismatch")
)

// VerifySignature checks the hex-encoded HMAC-SHA256 signature Polar sends
// with each webhook delivery.
func VerifySignature(payload []byte, signature, secret string) error {
	signature = strings.TrimSpace(strings.TrimPrefix(signature, "sha256="))
	if signature == "" {
		return errSignatureMissing
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errSignatureMismatch
	}
	return nil
}

// ParseWebhookEvent decodes and minimally validates the webhook envelope.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if event.ID == "" || event.Type == "" {
		return nil, errors.New("webhook event missing id or type")
	}
	return &event, nil
}

// OrderPayload decodes the event data as an order lifecycle payload.
func (e *WebhookEvent) OrderPayload() (*WebhookOrder, error) {
	var order WebhookOrder
	if err := json.Unmarshal(e.Data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
