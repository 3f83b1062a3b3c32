package llm

import (
	"fmt"
	"strings"

	"github.com/lifeos-app/echo/internal/domain"
)

const baseSystemPrompt = `
You are "Echo", an AI assistant that helps a user stay on top of their Gmail inbox.

Your role:
- You answer questions about the user's email: what arrived, from whom, what needs attention.
- You summarize, you do not invent. If the inbox context does not contain the answer, say so.
- You never send, delete or modify email; you only read and report.

Style guidelines:
- Answer in the SAME LANGUAGE as the user.
- Be concise: a short paragraph or a compact bullet list.
- When listing emails, include sender and subject; quote snippets only when they add something.
- If the user asks something unrelated to email, answer briefly and remind them what you can help with.

Context:
- An "Inbox context" block may be attached to the user's message. Treat it as
  the ground truth about the mailbox at this moment.
`

// BuildSystemPrompt returns the system instruction for the mail assistant.
func BuildSystemPrompt() string {
	return strings.TrimSpace(baseSystemPrompt)
}

// BuildMailPrompt combines the user's question with an inbox snapshot into a
// single prompt turn.
func BuildMailPrompt(userMessage string, inbox []domain.MailSummary) string {
	var b strings.Builder

	if len(inbox) > 0 {
		b.WriteString("Inbox context:\n")
		for i, m := range inbox {
			status := "read"
			if m.Unread {
				status = "unread"
			}
			fmt.Fprintf(&b, "%d. [%s] from %s, %q: %s\n",
				i+1, status, m.From, m.Subject, m.Snippet)
		}
		b.WriteString("\n")
	}

	b.WriteString("User question:\n")
	b.WriteString(userMessage)

	return b.String()
}
