package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lifeos-app/echo/internal/adapters/gmail"
	httpadapter "github.com/lifeos-app/echo/internal/adapters/http"
	"github.com/lifeos-app/echo/internal/adapters/llm"
	firestorestore "github.com/lifeos-app/echo/internal/adapters/storage/firestore"
	memstore "github.com/lifeos-app/echo/internal/adapters/storage/memory"
	"github.com/lifeos-app/echo/internal/app/agentflow"
	"github.com/lifeos-app/echo/internal/app/chat"
	"github.com/lifeos-app/echo/internal/app/tools"
	"github.com/lifeos-app/echo/internal/config"
	"github.com/lifeos-app/echo/internal/domain"
	"github.com/lifeos-app/echo/internal/metrics"
	"github.com/lifeos-app/echo/internal/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	// LLM: mock in local mode, Gemini on GCP.
	var (
		llmClient domain.LLMClient
		err       error
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		llmClient = llm.NewMockLLM()
	} else {
		log.Println("[LLM] Using Gemini LLM client")
		llmClient, err = llm.NewGeminiClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini LLM client: %v", err)
		}
	}

	// Thread store: Firestore or memory.
	var threadStore domain.ThreadStore
	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore thread store (project=%s)", cfg.GCPProjectID)
		threadStore, err = firestorestore.NewStore(ctx, cfg.GCPProjectID, cfg.MaxTurnsPerThread)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
	default:
		log.Println("[STORE] Using in-memory thread store")
		threadStore = memstore.NewThreadStore(cfg.MaxTurnsPerThread)
	}

	// Agents: mail is real, calendar and memory are placeholders.
	inboxTool := tools.NewInboxTool(gmail.NewOpener())
	registry := agentflow.NewRegistry(
		agentflow.NewMailAgent(llmClient, inboxTool),
		agentflow.NewCalendarAgent(),
		agentflow.NewMemoryAgent(),
	)

	svc := chat.NewService(threadStore, registry)
	handler := httpadapter.NewServer(svc)

	if err := metrics.Start(ctx, cfg.MetricsAddr, observability.Logger()); err != nil {
		log.Fatalf("error starting metrics listener: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		log.Println("Echo API listening on port:", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received, stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("error shutting down HTTP server: %v", err)
		}
	case err := <-serverDone:
		if err != nil {
			log.Fatal(err)
		}
	}
}
