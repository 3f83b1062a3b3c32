package agentflow_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeos-app/echo/internal/adapters/gmail"
	"github.com/lifeos-app/echo/internal/app/agentflow"
	"github.com/lifeos-app/echo/internal/app/tools"
	"github.com/lifeos-app/echo/internal/domain"
)

// stubLLM records calls and serves canned replies, failing the first failBefore
// calls so retry behavior is observable.
type stubLLM struct {
	calls      int
	failBefore int
	lastPrompt string
	lastCtx    domain.ConversationContext
	reply      string
}

func (s *stubLLM) GenerateReply(
	ctx context.Context,
	prompt string,
	convCtx domain.ConversationContext,
) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastCtx = convCtx
	if s.calls <= s.failBefore {
		return "", fmt.Errorf("upstream unavailable (call %d)", s.calls)
	}
	return s.reply, nil
}

type failingTool struct{}

func (failingTool) Name() string { return "inbox_read" }
func (failingTool) Call(context.Context, tools.ToolContext, map[string]any) (map[string]any, error) {
	return nil, errors.New("mailbox offline")
}

func newMailAgent(llm domain.LLMClient) *agentflow.MailAgent {
	return agentflow.NewMailAgent(llm, tools.NewInboxTool(gmail.NewOpener()))
}

func TestMailAgentGroundsReplyInInbox(t *testing.T) {
	llm := &stubLLM{reply: "You have two unread emails."}
	agent := newMailAgent(llm)

	out, err := agent.Run(context.Background(), agentflow.AgentInput{
		Message:     "what's new in my inbox?",
		AccessToken: "mock",
		ConvCtx:     domain.ConversationContext{ThreadID: "t1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "You have two unread emails.", out.Reply)

	require.Equal(t, 1, llm.calls)
	assert.Contains(t, llm.lastPrompt, "what's new in my inbox?")
	// Demo mailbox content is attached as prompt context.
	assert.Contains(t, llm.lastPrompt, "Quarterly planning doc")
	assert.Equal(t, domain.ThreadID("t1"), llm.lastCtx.ThreadID)
}

func TestMailAgentRetriesOnce(t *testing.T) {
	llm := &stubLLM{reply: "second try worked", failBefore: 1}
	agent := newMailAgent(llm)

	out, err := agent.Run(context.Background(), agentflow.AgentInput{
		Message:     "anything urgent?",
		AccessToken: "mock",
	})
	require.NoError(t, err)
	assert.Equal(t, "second try worked", out.Reply)
	assert.Equal(t, 2, llm.calls)
}

func TestMailAgentFailsAfterRetry(t *testing.T) {
	llm := &stubLLM{failBefore: 2}
	agent := newMailAgent(llm)

	_, err := agent.Run(context.Background(), agentflow.AgentInput{
		Message:     "anything urgent?",
		AccessToken: "mock",
	})
	require.Error(t, err)
	assert.Equal(t, 2, llm.calls)
}

func TestMailAgentNoRetryAfterCancel(t *testing.T) {
	llm := &stubLLM{failBefore: 2}
	agent := newMailAgent(llm)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agent.Run(ctx, agentflow.AgentInput{
		Message:     "anything urgent?",
		AccessToken: "mock",
	})
	require.Error(t, err)
	assert.Equal(t, 1, llm.calls)
}

func TestMailAgentRepliesWithoutInboxOnToolFailure(t *testing.T) {
	llm := &stubLLM{reply: "no inbox, still here"}
	agent := agentflow.NewMailAgent(llm, failingTool{})

	out, err := agent.Run(context.Background(), agentflow.AgentInput{
		Message: "did alice write back?",
	})
	require.NoError(t, err)
	assert.Equal(t, "no inbox, still here", out.Reply)
	assert.NotContains(t, llm.lastPrompt, "Inbox context")
}

func TestPlaceholderAgentsNeverCallUpstream(t *testing.T) {
	tests := []struct {
		agent agentflow.Agent
		name  domain.AgentName
		reply string
	}{
		{agentflow.NewCalendarAgent(), domain.AgentCalendar, agentflow.CalendarComingSoonReply},
		{agentflow.NewMemoryAgent(), domain.AgentMemory, agentflow.MemoryComingSoonReply},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			assert.Equal(t, tt.name, tt.agent.Name())
			out, err := tt.agent.Run(context.Background(), agentflow.AgentInput{
				Message: "show my calendar",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.reply, out.Reply)
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := agentflow.NewRegistry(agentflow.NewCalendarAgent(), agentflow.NewMemoryAgent())

	a, err := reg.Lookup(domain.AgentCalendar)
	require.NoError(t, err)
	assert.Equal(t, domain.AgentCalendar, a.Name())

	_, err = reg.Lookup(domain.AgentMail)
	assert.Error(t, err)
}
