// Package agentflow contains the agents a chat turn can be routed to and the
// registry the chat service dispatches through.
package agentflow

import (
	"context"
	"fmt"

	"github.com/lifeos-app/echo/internal/domain"
)

// AgentInput carries one routed turn into an agent.
type AgentInput struct {
	// Message is the user's text with any recognized @mention stripped.
	Message string
	// AccessToken is the Gmail token from the request; demo tokens select
	// the canned mailbox.
	AccessToken string
	ConvCtx     domain.ConversationContext
}

// AgentOutput is the agent's textual reply.
type AgentOutput struct {
	Reply string
}

// Agent handles a routed chat turn.
type Agent interface {
	Name() domain.AgentName
	Run(ctx context.Context, in AgentInput) (AgentOutput, error)
}

// Registry maps the closed agent set to implementations.
type Registry struct {
	agents map[domain.AgentName]Agent
}

// NewRegistry builds a registry from the given agents.
func NewRegistry(agents ...Agent) *Registry {
	m := make(map[domain.AgentName]Agent, len(agents))
	for _, a := range agents {
		m[a.Name()] = a
	}
	return &Registry{agents: m}
}

// Lookup returns the agent for name.
func (r *Registry) Lookup(name domain.AgentName) (Agent, error) {
	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("no agent registered for %q", name)
	}
	return a, nil
}
