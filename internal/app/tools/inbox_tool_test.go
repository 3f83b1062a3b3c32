package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeos-app/echo/internal/adapters/gmail"
	"github.com/lifeos-app/echo/internal/app/tools"
	"github.com/lifeos-app/echo/internal/domain"
)

type brokenOpener struct{}

func (brokenOpener) Open(context.Context, string) (domain.Mailbox, error) {
	return nil, errors.New("token expired")
}

func demoCtx() tools.ToolContext {
	return tools.ToolContext{ThreadID: "t1", AccessToken: "mock"}
}

func TestInboxToolRecentMessages(t *testing.T) {
	tool := tools.NewInboxTool(gmail.NewOpener())

	out, err := tool.Call(context.Background(), demoCtx(), map[string]any{"limit": 2})
	require.NoError(t, err)

	msgs, ok := out["messages"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.NotEmpty(t, m["from"])
		assert.NotEmpty(t, m["subject"])
		assert.NotEmpty(t, m["date"])
	}
}

func TestInboxToolSearch(t *testing.T) {
	tool := tools.NewInboxTool(gmail.NewOpener())

	out, err := tool.Call(context.Background(), demoCtx(), map[string]any{"query": "dinner"})
	require.NoError(t, err)

	msgs := out["messages"].([]map[string]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Dinner on Sunday?", msgs[0]["subject"])
}

func TestInboxToolDefaultsInput(t *testing.T) {
	tool := tools.NewInboxTool(gmail.NewOpener())

	// JSON-decoded input carries numbers as float64; nil input is allowed too.
	out, err := tool.Call(context.Background(), demoCtx(), map[string]any{"limit": float64(3)})
	require.NoError(t, err)
	assert.Len(t, out["messages"].([]map[string]any), 3)

	out, err = tool.Call(context.Background(), demoCtx(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out["messages"])
}

func TestInboxToolOpenFailure(t *testing.T) {
	tool := tools.NewInboxTool(brokenOpener{})

	_, err := tool.Call(context.Background(), demoCtx(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open mailbox")
}
