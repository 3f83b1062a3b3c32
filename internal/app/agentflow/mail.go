package agentflow

import (
	"context"
	"errors"

	"github.com/lifeos-app/echo/internal/adapters/llm"
	"github.com/lifeos-app/echo/internal/app/tools"
	"github.com/lifeos-app/echo/internal/domain"
	"github.com/lifeos-app/echo/internal/observability"
)

// inboxContextLimit is how many recent messages are attached to the prompt.
const inboxContextLimit = 10

// MailAgent answers questions about the user's Gmail inbox. It reads recent
// messages through the inbox tool and lets the LLM compose the reply.
type MailAgent struct {
	llm       domain.LLMClient
	inboxTool tools.Tool
}

func NewMailAgent(llmClient domain.LLMClient, inboxTool tools.Tool) *MailAgent {
	return &MailAgent{
		llm:       llmClient,
		inboxTool: inboxTool,
	}
}

func (a *MailAgent) Name() domain.AgentName {
	return domain.AgentMail
}

func (a *MailAgent) Run(ctx context.Context, in AgentInput) (AgentOutput, error) {
	log := observability.LoggerFromContext(ctx).With(
		"agent", a.Name(),
		"thread_id", in.ConvCtx.ThreadID,
	)

	inbox, err := a.fetchInbox(ctx, in)
	if err != nil {
		// A reply grounded in history is still better than a hard failure.
		log.Warn("inbox read failed, replying without inbox context", "error", err)
		inbox = nil
	}

	prompt := llm.BuildMailPrompt(in.Message, inbox)

	reply, err := a.generateWithRetry(ctx, prompt, in.ConvCtx)
	if err != nil {
		log.Error("llm call failed", "error", err)
		return AgentOutput{}, err
	}

	return AgentOutput{Reply: reply}, nil
}

func (a *MailAgent) fetchInbox(ctx context.Context, in AgentInput) ([]domain.MailSummary, error) {
	tctx := tools.ToolContext{
		ThreadID:    string(in.ConvCtx.ThreadID),
		AccessToken: in.AccessToken,
	}

	out, err := a.inboxTool.Call(ctx, tctx, map[string]any{
		"limit": inboxContextLimit,
	})
	if err != nil {
		return nil, err
	}

	raw, _ := out["messages"].([]map[string]any)
	summaries := make([]domain.MailSummary, 0, len(raw))
	for _, m := range raw {
		s := domain.MailSummary{}
		s.From, _ = m["from"].(string)
		s.Subject, _ = m["subject"].(string)
		s.Snippet, _ = m["snippet"].(string)
		s.Unread, _ = m["unread"].(bool)
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// generateWithRetry calls the LLM, retrying once on a transient failure.
func (a *MailAgent) generateWithRetry(
	ctx context.Context,
	prompt string,
	convCtx domain.ConversationContext,
) (string, error) {
	reply, err := a.llm.GenerateReply(ctx, prompt, convCtx)
	if err == nil {
		return reply, nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", err
	}
	return a.llm.GenerateReply(ctx, prompt, convCtx)
}
