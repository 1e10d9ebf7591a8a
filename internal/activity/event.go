// ABOUTME: Agent activity events and the telemetry feed contract
// ABOUTME: Activity is display-only; nothing here writes to conversation state

package activity

import (
	"context"
	"time"
)

// Event is one entry of the agent activity stream for a session.
type Event struct {
	ID        string    `json:"event_id"`
	SessionID string    `json:"session_id"`
	Type      string    `json:"event_type"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types emitted by the agent platform.
const (
	EventThinking   = "thinking"
	EventToolCall   = "tool_call"
	EventRetrieval  = "retrieval"
	EventProcessing = "processing"
	EventCompleted  = "completed"
	EventError      = "error"
)

// Feed subscribes to the activity stream of one session. The returned
// channel is closed when ctx is cancelled or the stream ends.
type Feed interface {
	Subscribe(ctx context.Context, sessionID string) (<-chan Event, error)
}
