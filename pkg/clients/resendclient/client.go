package resendclient

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Client sends plain text mail through the Resend API
type Client struct {
	client *resend.Client
	from   string
	ctx    context.Context
}

// NewClient creates a client for apiKey sending as from
func NewClient(ctx context.Context, apiKey, from string) *Client {
	return NewClientWithResend(ctx, resend.NewClient(apiKey), from)
}

// NewClientWithResend wraps an existing resend client
func NewClientWithResend(ctx context.Context, client *resend.Client, from string) *Client {
	return &Client{client: client, from: from, ctx: ctx}
}

// SendEmail sends a plain text email with the specified subject and body
func (c *Client) SendEmail(to, subject, body string) error {
	_, err := c.client.Emails.SendWithContext(c.ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}
