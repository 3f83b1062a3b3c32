// Package routing decides which agent handles a chat message based on a
// leading @mention token.
package routing

import (
	"strings"

	"github.com/lifeos-app/echo/internal/domain"
)

// Resolve scans message for a leading @mention and returns the agent that
// should handle the turn plus the text to forward to it.
//
// Recognized mentions (@mail, @cal, @mem) are stripped before forwarding.
// Anything else, including unknown mentions like @fake, is treated as plain
// text and handled by the mail agent. Matching is case-sensitive.
func Resolve(message string) (domain.AgentName, string) {
	trimmed := strings.TrimSpace(message)
	if !strings.HasPrefix(trimmed, "@") {
		return domain.AgentMail, trimmed
	}

	token, rest, _ := strings.Cut(trimmed, " ")
	switch token {
	case "@mail":
		return domain.AgentMail, strings.TrimSpace(rest)
	case "@cal":
		return domain.AgentCalendar, strings.TrimSpace(rest)
	case "@mem":
		return domain.AgentMemory, strings.TrimSpace(rest)
	default:
		return domain.AgentMail, trimmed
	}
}
