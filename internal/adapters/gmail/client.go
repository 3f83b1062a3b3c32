// Package gmail reads a user's inbox through the Gmail API using an OAuth
// access token supplied per request.
package gmail

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/lifeos-app/echo/internal/domain"
)

// Client wraps the Gmail Users service for a single access token.
type Client struct {
	svc *gmailapi.UsersService
}

// NewClient builds a Gmail client from a raw OAuth2 access token.
func NewClient(ctx context.Context, accessToken string) (*Client, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("gmail: access token is required")
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(ctx, src)

	svc, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("gmail: creating service: %w", err)
	}

	return &Client{svc: svc.Users}, nil
}

// RecentMessages returns summaries of the newest inbox messages.
func (c *Client) RecentMessages(ctx context.Context, limit int) ([]domain.MailSummary, error) {
	return c.list(ctx, "in:inbox", limit)
}

// Search returns summaries of messages matching a Gmail search query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.MailSummary, error) {
	return c.list(ctx, query, limit)
}

func (c *Client) list(ctx context.Context, query string, limit int) ([]domain.MailSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	res, err := c.svc.Messages.List("me").
		Q(query).
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gmail: list messages: %w", err)
	}

	out := make([]domain.MailSummary, 0, len(res.Messages))
	for _, m := range res.Messages {
		msg, err := c.svc.Messages.Get("me", m.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("gmail: get message %s: %w", m.Id, err)
		}
		out = append(out, toSummary(msg))
	}
	return out, nil
}

func toSummary(msg *gmailapi.Message) domain.MailSummary {
	s := domain.MailSummary{
		Snippet: msg.Snippet,
		Date:    time.UnixMilli(msg.InternalDate),
	}
	for _, l := range msg.LabelIds {
		if l == "UNREAD" {
			s.Unread = true
			break
		}
	}
	if msg.Payload == nil {
		return s
	}
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "From":
			s.From = h.Value
		case "Subject":
			s.Subject = h.Value
		}
	}
	return s
}
