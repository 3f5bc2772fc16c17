package redis

import (
	"context"
	"time"
)

const webhookPrefix = "webhook"

// WebhookGuard deduplicates provider webhook deliveries by event id.
type WebhookGuard struct {
	client *Client
	ttl    time.Duration
}

// NewWebhookGuard builds a guard with the given replay window.
func NewWebhookGuard(client *Client, ttl time.Duration) *WebhookGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &WebhookGuard{client: client, ttl: ttl}
}

// CheckAndMark reports whether the event was seen before, marking it seen
// atomically when it was not.
func (g *WebhookGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	set, err := g.client.SetNX(ctx, buildKey(webhookPrefix, eventID), "1", g.ttl)
	if err != nil {
		return false, err
	}
	return !set, nil
}

// Delete unmarks an event so a failed handler can be retried by the provider.
func (g *WebhookGuard) Delete(ctx context.Context, eventID string) error {
	return g.client.Del(ctx, buildKey(webhookPrefix, eventID))
}
