package agentflow

import (
	"context"

	"github.com/lifeos-app/echo/internal/domain"
)

// CalendarComingSoonReply is the stable placeholder the calendar agent
// returns until it is implemented. Clients may match on it.
const CalendarComingSoonReply = "The calendar agent is coming soon! For now I can help with your email, just ask without @cal."

// CalendarAgent is a placeholder. It answers with a canned reply and never
// touches the LLM or any external service.
type CalendarAgent struct{}

func NewCalendarAgent() *CalendarAgent {
	return &CalendarAgent{}
}

func (a *CalendarAgent) Name() domain.AgentName {
	return domain.AgentCalendar
}

func (a *CalendarAgent) Run(ctx context.Context, in AgentInput) (AgentOutput, error) {
	return AgentOutput{Reply: CalendarComingSoonReply}, nil
}
