package domain

import (
	"context"
	"time"
)

// LLMClient defines how the core application interacts with an LLM service.
type LLMClient interface {
	GenerateReply(ctx context.Context, prompt string, convCtx ConversationContext) (string, error)
}

// ConversationContext gives the LLM minimal context about the conversation.
type ConversationContext struct {
	ThreadID ThreadID
	History  []*Message // last N turns, oldest first
}

// ThreadStore persists conversation turns keyed by thread id. A thread is
// created implicitly by the first Append for its id.
type ThreadStore interface {
	// GetThread returns thread metadata, or ErrThreadNotFound for unseen ids.
	GetThread(id ThreadID) (*Thread, error)
	// History returns up to limit most recent turns in insertion order.
	// Unseen ids yield an empty slice, not an error.
	History(id ThreadID, limit int) ([]*Message, error)
	// Append adds a turn at the end of its thread.
	Append(msg *Message) error
}

// MailSummary is the slice of an email the mail agent feeds into the prompt.
type MailSummary struct {
	From    string
	Subject string
	Snippet string
	Date    time.Time
	Unread  bool
}

// Mailbox reads a user's inbox.
type Mailbox interface {
	RecentMessages(ctx context.Context, limit int) ([]MailSummary, error)
	Search(ctx context.Context, query string, limit int) ([]MailSummary, error)
}

// MailboxOpener resolves an access token into a Mailbox. Tokens "mock",
// "demo" and "" select the canned demo mailbox.
type MailboxOpener interface {
	Open(ctx context.Context, accessToken string) (Mailbox, error)
}
