package gmail

import (
	"context"
	"strings"
	"time"

	"github.com/lifeos-app/echo/internal/domain"
)

// MockMailbox serves a small canned inbox for demo mode and tests.
type MockMailbox struct {
	messages []domain.MailSummary
}

func NewMockMailbox() *MockMailbox {
	now := time.Now()
	return &MockMailbox{
		messages: []domain.MailSummary{
			{
				From:    "Dana Reyes <dana@example.com>",
				Subject: "Quarterly planning doc",
				Snippet: "Hi! I shared the Q3 planning doc with you, could you take a look before Friday?",
				Date:    now.Add(-2 * time.Hour),
				Unread:  true,
			},
			{
				From:    "GitHub <notifications@github.com>",
				Subject: "[echo] Build passed on main",
				Snippet: "All checks have passed. 42 tests run in 3.1s.",
				Date:    now.Add(-5 * time.Hour),
			},
			{
				From:    "Aunt May <may@example.com>",
				Subject: "Dinner on Sunday?",
				Snippet: "We'd love to have you over around 6. Let me know if you can make it!",
				Date:    now.Add(-26 * time.Hour),
				Unread:  true,
			},
			{
				From:    "Cloud Billing <billing@example.com>",
				Subject: "Your May invoice is available",
				Snippet: "Your invoice for May totals $12.40 and is attached to this message.",
				Date:    now.Add(-48 * time.Hour),
			},
		},
	}
}

func (m *MockMailbox) RecentMessages(ctx context.Context, limit int) ([]domain.MailSummary, error) {
	if limit <= 0 || limit > len(m.messages) {
		limit = len(m.messages)
	}
	out := make([]domain.MailSummary, limit)
	copy(out, m.messages[:limit])
	return out, nil
}

func (m *MockMailbox) Search(ctx context.Context, query string, limit int) ([]domain.MailSummary, error) {
	q := strings.ToLower(query)
	var out []domain.MailSummary
	for _, msg := range m.messages {
		if strings.Contains(strings.ToLower(msg.From), q) ||
			strings.Contains(strings.ToLower(msg.Subject), q) ||
			strings.Contains(strings.ToLower(msg.Snippet), q) {
			out = append(out, msg)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
