package gmail

import (
	"context"

	"github.com/lifeos-app/echo/internal/domain"
)

// Opener implements domain.MailboxOpener. Demo tokens ("mock", "demo") and
// an absent token select the canned mailbox so Echo works without live
// Google credentials.
type Opener struct{}

func NewOpener() *Opener {
	return &Opener{}
}

func (o *Opener) Open(ctx context.Context, accessToken string) (domain.Mailbox, error) {
	if IsDemoToken(accessToken) {
		return NewMockMailbox(), nil
	}
	return NewClient(ctx, accessToken)
}

// IsDemoToken reports whether a token selects mock mode.
func IsDemoToken(token string) bool {
	switch token {
	case "", "mock", "demo":
		return true
	default:
		return false
	}
}
