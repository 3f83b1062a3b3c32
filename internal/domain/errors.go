package domain

import "errors"

var (
	// ErrEmptyMessage means the chat request had no usable message text.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrThreadNotFound means the requested thread has never been written to.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrUpstream wraps any agent/LLM/provider failure. The HTTP layer maps it
	// to a generic client-facing string; detail stays in the server logs.
	ErrUpstream = errors.New("upstream agent failure")
)
