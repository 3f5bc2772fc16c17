package mailer

import (
	"context"
	"errors"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/afigueroa/mailprov-backend/pkg/config"
)

var errAPIKeyRequired = errors.New("resend api key is required")

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender abstracts the transactional email collaborator. Implementations
// return the provider message id on success.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Client wraps the Resend API client.
type Client struct {
	api  *resend.Client
	from string
}

// NewClient builds the Resend-backed sender from configuration.
func NewClient(cfg config.ResendConfig) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	return &Client{
		api:  resend.NewClient(apiKey),
		from: cfg.DefaultFrom,
	}, nil
}

// Send dispatches the message and returns the Resend message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	sent, err := c.api.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}
