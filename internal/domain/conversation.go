package domain

// Message represents a single turn in a thread (user or agent).
type Message struct {
	ID        MessageID
	ThreadID  ThreadID
	Author    Role
	Text      string
	CreatedAt Timestamp

	// Agent that produced (or handled) this turn.
	Agent AgentName
}

// Thread is a conversation identified by an opaque, client-supplied id.
// It is created on first use and lives for the lifetime of the store.
type Thread struct {
	ID        ThreadID
	CreatedAt Timestamp
	UpdatedAt Timestamp
}
