// ABOUTME: Conversation and Message types held by the conversation store
// ABOUTME: Messages are append-only; topics form a case-preserving, deduplicated set

package conversation

import (
	"time"

	"github.com/2389/insight-chat/internal/answer"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// PlaceholderTitle is the title of a conversation with no user message yet.
const PlaceholderTitle = "New conversation"

// maxTitleRunes bounds a title derived from the first user message.
const maxTitleRunes = 50

// Message is a single turn in a conversation.
// Parsed is set only on agent messages.
type Message struct {
	ID        string               `json:"id"`
	Role      Role                 `json:"role"`
	Content   string               `json:"content"`
	Parsed    *answer.ParsedAnswer `json:"parsed,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// Conversation is a titled thread of messages sharing one session identifier.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
	Topics    []string  `json:"topics"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTopic reports whether topic is in the conversation's topic set (exact match).
func (c *Conversation) HasTopic(topic string) bool {
	for _, t := range c.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// LastMessage returns the most recent message, if any.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// clone returns a copy that shares nothing mutable with c.
func (c *Conversation) clone() Conversation {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		out.Messages[i] = m.clone()
	}
	out.Topics = append(make([]string, 0, len(c.Topics)), c.Topics...)
	return out
}

func (m Message) clone() Message {
	if m.Parsed != nil {
		p := m.Parsed.Clone()
		m.Parsed = &p
	}
	return m
}

// mergeTopics unions incoming into the set, keeping first-seen order.
func (c *Conversation) mergeTopics(incoming []string) {
	for _, t := range incoming {
		if !c.HasTopic(t) {
			c.Topics = append(c.Topics, t)
		}
	}
}

// titleFrom derives a title from the first user message.
func titleFrom(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTitleRunes {
		return text
	}
	return string(runes[:maxTitleRunes]) + "..."
}
