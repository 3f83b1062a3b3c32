package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeos-app/echo/internal/adapters/gmail"
	httpadapter "github.com/lifeos-app/echo/internal/adapters/http"
	memstore "github.com/lifeos-app/echo/internal/adapters/storage/memory"
	"github.com/lifeos-app/echo/internal/app/agentflow"
	"github.com/lifeos-app/echo/internal/app/chat"
	"github.com/lifeos-app/echo/internal/app/tools"
	"github.com/lifeos-app/echo/internal/domain"
)

type stubLLM struct {
	calls int
	err   error
	reply string
}

func (s *stubLLM) GenerateReply(
	ctx context.Context,
	prompt string,
	convCtx domain.ConversationContext,
) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type chatEnvelope struct {
	Success  bool   `json:"success"`
	Text     string `json:"text"`
	Error    string `json:"error"`
	ThreadID string `json:"threadId"`
}

func newTestServer(llm domain.LLMClient) http.Handler {
	store := memstore.NewThreadStore(200)
	agents := agentflow.NewRegistry(
		agentflow.NewMailAgent(llm, tools.NewInboxTool(gmail.NewOpener())),
		agentflow.NewCalendarAgent(),
		agentflow.NewMemoryAgent(),
	)
	return httpadapter.NewServer(chat.NewService(store, agents))
}

func postChat(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, chatEnvelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env chatEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestChatDefaultsThread(t *testing.T) {
	h := newTestServer(&stubLLM{reply: "You have 2 unread emails."})

	rec, env := postChat(t, h, `{"message":"show my emails","accessToken":"mock"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "You have 2 unread emails.", env.Text)
	assert.Equal(t, "default-thread", env.ThreadID)
	assert.Empty(t, env.Error)
}

func TestChatEchoesThreadID(t *testing.T) {
	h := newTestServer(&stubLLM{reply: "ok"})

	rec, env := postChat(t, h, `{"message":"hello","threadId":"t1","accessToken":"mock"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", env.ThreadID)
}

func TestChatThreadContinuity(t *testing.T) {
	h := newTestServer(&stubLLM{reply: "ok"})

	_, _ = postChat(t, h, `{"message":"first","threadId":"t1","accessToken":"mock"}`)
	_, _ = postChat(t, h, `{"message":"second","threadId":"t1","accessToken":"mock"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/threads/t1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ThreadID string `json:"threadId"`
		Messages []struct {
			Author string `json:"author"`
			Text   string `json:"text"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "t1", resp.ThreadID)
	require.Len(t, resp.Messages, 4)
	assert.Equal(t, "user", resp.Messages[0].Author)
	assert.Equal(t, "first", resp.Messages[0].Text)
	assert.Equal(t, "agent", resp.Messages[1].Author)
	assert.Equal(t, "second", resp.Messages[2].Text)
}

func TestChatRejectsMissingMessage(t *testing.T) {
	llm := &stubLLM{reply: "should not run"}
	h := newTestServer(llm)

	for _, body := range []string{
		`{"accessToken":"mock"}`,
		`{"message":"","accessToken":"mock"}`,
		`{"message":"   ","threadId":"t1"}`,
	} {
		rec, env := postChat(t, h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		assert.False(t, env.Success)
		assert.Equal(t, "Message is required", env.Error)
	}
	assert.Zero(t, llm.calls)
}

func TestChatRejectsInvalidJSON(t *testing.T) {
	h := newTestServer(&stubLLM{reply: "ok"})

	rec, env := postChat(t, h, `{"message": "unterminated`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid request body", env.Error)
}

func TestChatCalendarPlaceholder(t *testing.T) {
	llm := &stubLLM{reply: "should not run"}
	h := newTestServer(llm)

	rec, env := postChat(t, h, `{"message":"@cal show my calendar"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, env.Text, "coming soon")
	assert.Zero(t, llm.calls)
}

func TestChatUpstreamFailureIsGeneric(t *testing.T) {
	h := newTestServer(&stubLLM{err: errors.New("vertex: 503 backend overloaded")})

	rec, env := postChat(t, h, `{"message":"anything urgent?","accessToken":"mock"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "The assistant is unavailable right now. Please try again.", env.Error)
	// Provider detail never leaks to the client.
	assert.NotContains(t, rec.Body.String(), "vertex")
	assert.NotContains(t, rec.Body.String(), "503")
}

func TestThreadNotFound(t *testing.T) {
	h := newTestServer(&stubLLM{reply: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/api/threads/never-used", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newTestServer(&stubLLM{reply: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Version)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(&stubLLM{reply: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "not found"))
}

func TestCORSHeadersPresent(t *testing.T) {
	h := newTestServer(&stubLLM{reply: "ok"})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
