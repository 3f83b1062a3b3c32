package llm

import (
	"context"
	"fmt"

	"github.com/lifeos-app/echo/internal/domain"
)

// MockLLM is a deterministic stand-in used in local mode and tests.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateReply(ctx context.Context, prompt string, convCtx domain.ConversationContext) (string, error) {
	return fmt.Sprintf("(demo) I looked at your inbox for: %q. Turn off mock mode to get real answers.",
		firstLine(prompt)), nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
