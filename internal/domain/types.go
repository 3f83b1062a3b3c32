package domain

import "time"

type ThreadID string
type MessageID string

// DefaultThreadID is used when a chat request carries no thread id.
const DefaultThreadID ThreadID = "default-thread"

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// AgentName is the closed set of agents Echo can route a message to.
type AgentName string

const (
	AgentMail     AgentName = "mail" // Gmail assistant, also the default
	AgentCalendar AgentName = "cal"
	AgentMemory   AgentName = "mem"
)

type Timestamp = time.Time
