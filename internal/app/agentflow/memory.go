package agentflow

import (
	"context"

	"github.com/lifeos-app/echo/internal/domain"
)

// MemoryComingSoonReply is the stable placeholder the memory agent returns
// until it is implemented.
const MemoryComingSoonReply = "The memory agent is coming soon! For now I can help with your email, just ask without @mem."

// MemoryAgent is a placeholder, same contract as CalendarAgent.
type MemoryAgent struct{}

func NewMemoryAgent() *MemoryAgent {
	return &MemoryAgent{}
}

func (a *MemoryAgent) Name() domain.AgentName {
	return domain.AgentMemory
}

func (a *MemoryAgent) Run(ctx context.Context, in AgentInput) (AgentOutput, error) {
	return AgentOutput{Reply: MemoryComingSoonReply}, nil
}
