// ABOUTME: In-memory conversation store, the only write path for conversation state
// ABOUTME: Owns creation, selection, message append and topic aggregation

package conversation

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/2389/insight-chat/internal/answer"
)

// ErrNotFound is returned when a conversation ID is unknown.
var ErrNotFound = errors.New("conversation not found")

// Store holds conversations newest first and tracks the current one.
// Readers always receive copies; conversations never leave the store by reference.
type Store struct {
	mu      sync.RWMutex
	convs   []*Conversation          // newest first
	byID    map[string]*Conversation // keyed by conversation ID
	current string

	now    func() time.Time
	logger *slog.Logger
}

// NewStore creates an empty store. Pass nil logger for default.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		byID:   make(map[string]*Conversation),
		now:    time.Now,
		logger: logger.With("component", "conversation"),
	}
}

// Create adds a new, empty conversation and makes it current.
func (s *Store) Create() Conversation {
	now := s.now()
	conv := &Conversation{
		ID:        NewID(),
		Title:     PlaceholderTitle,
		SessionID: NewSessionID(),
		Messages:  []Message{},
		Topics:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.convs = append([]*Conversation{conv}, s.convs...)
	s.byID[conv.ID] = conv
	s.current = conv.ID
	out := conv.clone()
	s.mu.Unlock()

	s.logger.Debug("conversation created",
		"conversation_id", conv.ID,
		"session_id", conv.SessionID)
	return out
}

// AppendUserMessage appends a user message. The first user message also sets
// the title. Returns false without changing anything when text is blank or
// the conversation does not exist.
func (s *Store) AppendUserMessage(conversationID, text string) (Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[conversationID]
	if !ok {
		s.logger.Debug("append to unknown conversation", "conversation_id", conversationID)
		return Message{}, false
	}

	msg := Message{
		ID:        NewID(),
		Role:      RoleUser,
		Content:   text,
		Timestamp: s.now(),
	}
	if len(conv.Messages) == 0 {
		conv.Title = titleFrom(text)
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.Timestamp
	return msg, true
}

// AppendAgentMessage appends an agent message whose content is the parsed
// answer text, and unions the answer's topics into the conversation.
// Returns false when the conversation does not exist.
func (s *Store) AppendAgentMessage(conversationID string, parsed answer.ParsedAnswer) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[conversationID]
	if !ok {
		s.logger.Debug("append to unknown conversation", "conversation_id", conversationID)
		return Message{}, false
	}

	p := parsed.Clone()
	msg := Message{
		ID:        NewID(),
		Role:      RoleAgent,
		Content:   p.Answer,
		Parsed:    &p,
		Timestamp: s.now(),
	}
	conv.Messages = append(conv.Messages, msg)
	conv.mergeTopics(p.Topics)
	conv.UpdatedAt = msg.Timestamp
	return msg.clone(), true
}

// Select makes the conversation current and returns its session ID.
func (s *Store) Select(conversationID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[conversationID]
	if !ok {
		return "", ErrNotFound
	}
	s.current = conv.ID
	return conv.SessionID, nil
}

// Deselect clears the current conversation.
func (s *Store) Deselect() {
	s.mu.Lock()
	s.current = ""
	s.mu.Unlock()
}

// CurrentID returns the current conversation ID, or "" when none is selected.
func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Current returns a copy of the current conversation.
func (s *Store) Current() (Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.byID[s.current]
	if !ok {
		return Conversation{}, false
	}
	return conv.clone(), true
}

// Get returns a copy of the conversation with the given ID.
func (s *Store) Get(conversationID string) (Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.byID[conversationID]
	if !ok {
		return Conversation{}, false
	}
	return conv.clone(), true
}

// List returns copies of all conversations, newest first.
func (s *Store) List() []Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Conversation, len(s.convs))
	for i, c := range s.convs {
		out[i] = c.clone()
	}
	return out
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.convs)
}
