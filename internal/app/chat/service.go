package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lifeos-app/echo/internal/app/agentflow"
	"github.com/lifeos-app/echo/internal/app/routing"
	"github.com/lifeos-app/echo/internal/domain"
	"github.com/lifeos-app/echo/internal/metrics"
	"github.com/lifeos-app/echo/internal/observability"
)

const (
	// historyLimit is how many prior turns are handed to the agent as context.
	historyLimit = 20

	// defaultAgentTimeout bounds a single agent run so a stuck upstream call
	// maps to a failure response instead of hanging the request.
	defaultAgentTimeout = 30 * time.Second
)

// Service runs one chat turn: default the thread id, route the message,
// invoke the agent, and record both turns in the thread store.
type Service struct {
	store        domain.ThreadStore
	agents       *agentflow.Registry
	now          func() time.Time
	agentTimeout time.Duration
}

type Option func(*Service)

// WithAgentTimeout overrides the deadline imposed on a single agent run.
func WithAgentTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.agentTimeout = d
	}
}

func NewService(store domain.ThreadStore, agents *agentflow.Registry, opts ...Option) *Service {
	s := &Service{
		store:        store,
		agents:       agents,
		now:          time.Now,
		agentTimeout: defaultAgentTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SendInput struct {
	ThreadID    domain.ThreadID // empty means DefaultThreadID
	Text        string
	AccessToken string
}

type SendOutput struct {
	ThreadID     domain.ThreadID
	Agent        domain.AgentName
	UserMessage  *domain.Message
	AgentMessage *domain.Message
}

func (s *Service) Send(ctx context.Context, in SendInput) (*SendOutput, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	agentName, forward := routing.Resolve(text)

	threadID := in.ThreadID
	if threadID == "" {
		threadID = domain.DefaultThreadID
	}

	log := observability.LoggerFromContext(ctx).With(
		"thread_id", threadID,
		"agent", agentName,
	)
	log.Info("chat turn started")

	agent, err := s.agents.Lookup(agentName)
	if err != nil {
		return nil, err
	}

	// History is loaded before the user turn is appended so the agent sees
	// prior turns as context and the new message exactly once.
	history, err := s.store.History(threadID, historyLimit)
	if err != nil {
		log.Error("failed to load history", "error", err)
		return nil, err
	}

	now := s.now()
	userMsg := &domain.Message{
		ID:        domain.MessageID(generateID(now)),
		ThreadID:  threadID,
		Author:    domain.RoleUser,
		Text:      text,
		CreatedAt: now,
		Agent:     agentName,
	}
	if err := s.store.Append(userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	defer cancel()

	out, err := agent.Run(runCtx, agentflow.AgentInput{
		Message:     forward,
		AccessToken: in.AccessToken,
		ConvCtx: domain.ConversationContext{
			ThreadID: threadID,
			History:  history,
		},
	})
	if err != nil {
		log.Error("agent failed", "error", err)
		metrics.IncUpstreamError()
		metrics.IncChatRequest(string(agentName), "error")
		return nil, fmt.Errorf("%w: agent %s: %v", domain.ErrUpstream, agentName, err)
	}

	agentMsg := &domain.Message{
		ID:        domain.MessageID(generateID(s.now())),
		ThreadID:  threadID,
		Author:    domain.RoleAgent,
		Text:      out.Reply,
		CreatedAt: s.now(),
		Agent:     agentName,
	}
	if err := s.store.Append(agentMsg); err != nil {
		log.Error("failed to append agent message", "error", err)
		return nil, err
	}

	metrics.IncChatRequest(string(agentName), "ok")
	log.Info("chat turn completed")

	return &SendOutput{
		ThreadID:     threadID,
		Agent:        agentName,
		UserMessage:  userMsg,
		AgentMessage: agentMsg,
	}, nil
}

// Timeline returns thread metadata plus up to limit stored turns.
func (s *Service) Timeline(
	ctx context.Context,
	threadID domain.ThreadID,
	limit int,
) (*domain.Thread, []*domain.Message, error) {

	log := observability.LoggerFromContext(ctx).With(
		"thread_id", threadID,
		"limit", limit,
	)

	thread, err := s.store.GetThread(threadID)
	if err != nil {
		log.Warn("failed to get thread", "error", err)
		return nil, nil, err
	}

	msgs, err := s.store.History(threadID, limit)
	if err != nil {
		log.Error("failed to get messages", "error", err)
		return nil, nil, err
	}

	log.Info("fetched thread timeline", "message_count", len(msgs))

	return thread, msgs, nil
}

// TODO: replace with something like UUID
func generateID(t time.Time) string {
	return t.Format("20060102150405.000000000")
}
