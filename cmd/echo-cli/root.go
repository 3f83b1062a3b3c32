package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifeos-app/echo/internal/clientcache"
)

var (
	serverURL string
	cachePath string
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "echo-cli",
		Short: "Terminal client for the Echo mail assistant",
		Long: `echo-cli talks to an Echo server and keeps the conversation, your
access token and the thread id in a local cache, so a session survives
between runs.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Echo server base URL")
	cmd.PersistentFlags().StringVar(&cachePath, "cache", defaultCachePath(), "Path to the local conversation cache")

	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newResetCmd())

	return cmd
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".echo/cache.db"
	}
	return filepath.Join(home, ".echo", "cache.db")
}

func openCache() (*clientcache.Cache, error) {
	return clientcache.Open(cachePath)
}

// ─────────────────────────────────────────────
// chat
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

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message to Echo and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			cache, err := openCache()
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}
			defer cache.Close()

			token, err := cache.Token()
			if err != nil {
				return err
			}
			threadID, err := cache.ThreadID()
			if err != nil {
				return err
			}

			resp, err := sendChat(chatRequest{
				Message:     message,
				ThreadID:    threadID,
				AccessToken: token,
			})
			if err != nil {
				var urlErr *url.Error
				if errors.As(err, &urlErr) {
					fmt.Println("Echo server is unreachable (offline). Your message was not sent.")
					return nil
				}
				return err
			}

			if !resp.Success {
				fmt.Printf("Echo: %s\n", resp.Error)
				return nil
			}

			if err := cacheTurn(cache, message, resp); err != nil {
				fmt.Fprintf(os.Stderr, "warning: local cache not updated: %v\n", err)
			}

			fmt.Printf("Echo: %s\n", resp.Text)
			return nil
		},
	}
}

// cacheTurn persists both sides of a completed exchange plus the server's
// thread id, keeping local history in sync with the server thread.
func cacheTurn(cache *clientcache.Cache, userText string, resp *chatResponse) error {
	now := time.Now()
	if err := cache.AppendMessage(clientcache.CachedMessage{Author: "user", Text: userText, SentAt: now}); err != nil {
		return err
	}
	if err := cache.AppendMessage(clientcache.CachedMessage{Author: "agent", Text: resp.Text, SentAt: now}); err != nil {
		return err
	}
	return cache.SaveThreadID(resp.ThreadID)
}

func sendChat(req chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 60 * time.Second}
	httpResp, err := client.Post(serverURL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var resp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding server response: %w", err)
	}
	return &resp, nil
}

// ─────────────────────────────────────────────
// history / login / reset
// ─────────────────────────────────────────────

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the cached conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache()
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}
			defer cache.Close()

			msgs, err := cache.Messages()
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Println("No cached conversation yet. Start one with: echo-cli chat <message>")
				return nil
			}

			for _, m := range msgs {
				who := "You"
				if m.Author == "agent" {
					who = "Echo"
				}
				fmt.Printf("[%s] %s: %s\n", m.SentAt.Format("Jan 2 15:04"), who, m.Text)
			}
			return nil
		},
	}
}

func newLoginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a Gmail access token (use \"mock\" for demo mode)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required")
			}

			cache, err := openCache()
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}
			defer cache.Close()

			if err := cache.SaveToken(token); err != nil {
				return err
			}
			fmt.Println("Token saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Gmail OAuth access token, or \"mock\"/\"demo\"")
	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the cached conversation and thread id",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache()
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}
			defer cache.Close()

			if err := cache.Reset(); err != nil {
				return err
			}
			fmt.Println("Conversation cleared.")
			return nil
		},
	}
}
