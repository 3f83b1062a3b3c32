package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lifeos-app/echo/internal/app/chat"
	"github.com/lifeos-app/echo/internal/domain"
	"github.com/lifeos-app/echo/internal/observability"
)

var startTime = time.Now()

type Server struct {
	svc *chat.Service
}

// NewServer builds the HTTP surface: the chat endpoint, thread timelines and
// a liveness check, behind permissive CORS for the paired web client.
func NewServer(svc *chat.Service) http.Handler {
	s := &Server{svc: svc}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(chimw.RequestID)
	r.Use(withRequestLogging)

	r.Get("/health", s.handleHealth)
	r.Post("/api/chat", s.handleChat)
	r.Get("/api/threads/{threadID}", s.handleThread)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	})

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message     string `json:"message"`
	ThreadID    string `json:"threadId,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
	ThreadID string `json:"threadId"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"threadId"`
	Author    string    `json:"author"`
	Agent     string    `json:"agent"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type threadResponse struct {
	ThreadID  string            `json:"threadId"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Messages  []messageResponse `json:"messages"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithRequestID(r.Context(), chimw.GetReqID(r.Context()))

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Success:  false,
			Error:    "Invalid request body",
			ThreadID: threadIDOrDefault(req.ThreadID),
		})
		return
	}

	threadID := threadIDOrDefault(req.ThreadID)

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Success:  false,
			Error:    "Message is required",
			ThreadID: threadID,
		})
		return
	}

	out, err := s.svc.Send(ctx, chat.SendInput{
		ThreadID:    domain.ThreadID(threadID),
		Text:        req.Message,
		AccessToken: req.AccessToken,
	})
	if err != nil {
		s.writeChatError(ctx, w, threadID, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Success:  true,
		Text:     out.AgentMessage.Text,
		ThreadID: string(out.ThreadID),
	})
}

// writeChatError maps service errors to the envelope. Upstream detail is
// logged server-side only; clients get a short generic string.
func (s *Server) writeChatError(ctx context.Context, w http.ResponseWriter, threadID string, err error) {
	log := observability.LoggerFromContext(ctx)

	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Success:  false,
			Error:    "Message is required",
			ThreadID: threadID,
		})
	case errors.Is(err, domain.ErrUpstream):
		log.Error("upstream failure", "error", err)
		writeJSON(w, http.StatusBadGateway, chatResponse{
			Success:  false,
			Error:    "The assistant is unavailable right now. Please try again.",
			ThreadID: threadID,
		})
	default:
		log.Error("chat request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, chatResponse{
			Success:  false,
			Error:    "Something went wrong. Please try again.",
			ThreadID: threadID,
		})
	}
}

func (s *Server) handleThread(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithRequestID(r.Context(), chimw.GetReqID(r.Context()))

	id := strings.TrimSpace(chi.URLParam(r, "threadID"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("thread id is required"))
		return
	}

	thread, msgs, err := s.svc.Timeline(ctx, domain.ThreadID(id), 0)
	if err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("thread not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to load thread"))
		return
	}

	resp := threadResponse{
		ThreadID:  string(thread.ID),
		CreatedAt: thread.CreatedAt,
		UpdatedAt: thread.UpdatedAt,
		Messages:  make([]messageResponse, 0, len(msgs)),
	}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, messageResponse{
			ID:        string(m.ID),
			ThreadID:  string(m.ThreadID),
			Author:    string(m.Author),
			Agent:     string(m.Agent),
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Version:   version(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func threadIDOrDefault(id string) string {
	if strings.TrimSpace(id) == "" {
		return string(domain.DefaultThreadID)
	}
	return strings.TrimSpace(id)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func version() string {
	if v := os.Getenv("ECHO_VERSION"); v != "" {
		return v
	}
	return "dev"
}
