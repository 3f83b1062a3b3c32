package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/lifeos-app/echo/internal/domain"
)

// InboxTool reads the user's mailbox so agents can ground replies in real
// inbox content. The access token in ToolContext decides whether the real
// Gmail client or the demo mailbox is used.
type InboxTool struct {
	opener domain.MailboxOpener
}

func NewInboxTool(opener domain.MailboxOpener) *InboxTool {
	return &InboxTool{opener: opener}
}

func (t *InboxTool) Name() string {
	return "inbox_read"
}

// Call expects an input with this shape:
//
//	{
//	  "query": "from:alice",   // optional; empty means recent messages
//	  "limit": 10              // optional
//	}
//
// and returns {"messages": [{"from", "subject", "snippet", "date", "unread"}]}.
func (t *InboxTool) Call(
	ctx context.Context,
	tctx ToolContext,
	input map[string]any,
) (map[string]any, error) {

	mailbox, err := t.opener.Open(ctx, tctx.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("inbox_read: open mailbox: %w", err)
	}

	limit := getInt(input, "limit", 10)
	query := getString(input, "query")

	var summaries []domain.MailSummary
	if query == "" {
		summaries, err = mailbox.RecentMessages(ctx, limit)
	} else {
		summaries, err = mailbox.Search(ctx, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("inbox_read: %w", err)
	}

	messages := make([]map[string]any, 0, len(summaries))
	for _, s := range summaries {
		messages = append(messages, map[string]any{
			"from":    s.From,
			"subject": s.Subject,
			"snippet": s.Snippet,
			"date":    s.Date.Format(time.RFC3339),
			"unread":  s.Unread,
		})
	}

	return map[string]any{"messages": messages}, nil
}

// --- internal helpers --- //

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(m map[string]any, key string, def int) int {
	if m == nil {
		return def
	}
	switch v := m[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return def
}
