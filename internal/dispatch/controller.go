// ABOUTME: Dispatch controller driving submit -> agent call -> normalized reply
// ABOUTME: A global busy flag allows at most one agent call in flight per process

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/2389/insight-chat/internal/agent"
	"github.com/2389/insight-chat/internal/answer"
	"github.com/2389/insight-chat/internal/conversation"
)

// FailureMessage is appended as the agent's reply when the call itself fails.
const FailureMessage = "An error occurred while processing your request. Please try again."

var (
	// ErrEmptyInput rejects a submission that trims to nothing.
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy rejects a submission while another is in flight.
	ErrBusy = errors.New("dispatch in flight")
)

// State is the controller's dispatch state.
type State int

const (
	StateIdle State = iota
	StateDispatching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ConversationStore defines what the controller needs from the conversation store.
type ConversationStore interface {
	Create() conversation.Conversation
	AppendUserMessage(conversationID, text string) (conversation.Message, bool)
	AppendAgentMessage(conversationID string, parsed answer.ParsedAnswer) (conversation.Message, bool)
	Select(conversationID string) (string, error)
	Deselect()
	Current() (conversation.Conversation, bool)
	List() []conversation.Conversation
}

// SessionBinder defines what the controller needs from the session binder.
// Bind is called without the controller's state lock held, so listeners may
// read controller state. They must not select, create, or submit: rebinds
// are serialized and a nested one would wait on itself.
type SessionBinder interface {
	Bind(sessionID string)
}

// Outcome describes one completed dispatch cycle.
type Outcome struct {
	ConversationID string
	SessionID      string
	UserMessage    conversation.Message
	AgentMessage   conversation.Message
	// Failed is true when the agent call itself failed and FailureMessage was appended.
	Failed  bool
	Elapsed time.Duration
}

// Controller validates input, records the user message, calls the agent,
// and records the normalized reply. Results are always applied to the
// conversation the request was issued from, even if the selection changed
// while the call was in flight.
type Controller struct {
	store   ConversationStore
	invoker agent.Invoker
	binder  SessionBinder
	agentID string
	logger  *slog.Logger

	// bindMu orders rebinds; it is taken before mu and held across Bind.
	bindMu sync.Mutex

	mu          sync.Mutex
	state       State
	activeAgent string

	sampleMode    bool
	sampleCurrent string
	filters       conversation.FilterSet
	now           func() time.Time
}

// New creates a Controller. Pass nil logger for default.
func New(store ConversationStore, invoker agent.Invoker, binder SessionBinder, agentID string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:   store,
		invoker: invoker,
		binder:  binder,
		agentID: agentID,
		logger:  logger.With("component", "dispatch"),
		now:     time.Now,
	}
}

// Submit sends text to the agent on behalf of the current conversation,
// creating one when none is current or sample mode is on.
//
// Record first, then act: the user message is appended before the agent is
// called, and the agent's reply (or FailureMessage) is appended after the
// call settles, whatever the outcome. Blank input and input submitted while
// another dispatch is in flight are rejected with no state change.
func (c *Controller) Submit(ctx context.Context, text string) (*Outcome, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	c.bindMu.Lock()
	c.mu.Lock()
	if c.state == StateDispatching {
		c.mu.Unlock()
		c.bindMu.Unlock()
		return nil, ErrBusy
	}

	conv, fresh := c.targetLocked()
	userMsg, ok := c.store.AppendUserMessage(conv.ID, trimmed)
	if !ok {
		c.mu.Unlock()
		c.bindMu.Unlock()
		return nil, fmt.Errorf("recording user message: %w", conversation.ErrNotFound)
	}
	c.state = StateDispatching
	c.activeAgent = c.agentID
	c.mu.Unlock()

	if fresh {
		c.binder.Bind(conv.SessionID)
	}
	c.bindMu.Unlock()

	c.logger.Debug("user message recorded",
		"conversation_id", conv.ID,
		"message_id", userMsg.ID)

	start := time.Now()
	parsed, failed := c.call(ctx, trimmed, conv.SessionID)

	agentMsg, _ := c.store.AppendAgentMessage(conv.ID, parsed)

	c.mu.Lock()
	c.state = StateIdle
	c.activeAgent = ""
	c.mu.Unlock()

	elapsed := time.Since(start)
	c.logger.Info("dispatch complete",
		"conversation_id", conv.ID,
		"session_id", conv.SessionID,
		"failed", failed,
		"topics", len(parsed.Topics),
		"elapsed", elapsed)

	return &Outcome{
		ConversationID: conv.ID,
		SessionID:      conv.SessionID,
		UserMessage:    userMsg,
		AgentMessage:   agentMsg,
		Failed:         failed,
		Elapsed:        elapsed,
	}, nil
}

// FollowUp submits a suggested follow-up question as a new user message.
func (c *Controller) FollowUp(ctx context.Context, question string) (*Outcome, error) {
	return c.Submit(ctx, question)
}

// targetLocked returns the conversation a submission goes to, creating a
// fresh one when needed. The caller binds a fresh conversation's session
// after releasing c.mu.
func (c *Controller) targetLocked() (conversation.Conversation, bool) {
	if !c.sampleMode {
		if conv, ok := c.store.Current(); ok {
			return conv, false
		}
	}
	return c.newChatLocked(), true
}

// call invokes the agent and normalizes its reply. Any failure of the call
// itself, including a panic in the invoker, is turned into FailureMessage.
func (c *Controller) call(ctx context.Context, prompt, sessionID string) (parsed answer.ParsedAnswer, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("agent invoker panicked", "panic", r, "session_id", sessionID)
			parsed, failed = answer.ParsedAnswer{Answer: FailureMessage}, true
		}
	}()

	res, err := c.invoker.Invoke(ctx, &agent.Request{
		Prompt:    prompt,
		AgentID:   c.agentID,
		SessionID: sessionID,
	})
	if err != nil {
		c.logger.Warn("agent call failed", "error", err, "session_id", sessionID)
		return answer.ParsedAnswer{Answer: FailureMessage}, true
	}
	if !res.Success {
		c.logger.Warn("agent reported failure", "error", res.Error, "session_id", sessionID)
	}
	return answer.Normalize(res), false
}

// NewChat leaves sample mode, creates a conversation, makes it current and
// binds its session.
func (c *Controller) NewChat() conversation.Conversation {
	c.bindMu.Lock()
	defer c.bindMu.Unlock()

	c.mu.Lock()
	conv := c.newChatLocked()
	c.mu.Unlock()

	c.binder.Bind(conv.SessionID)
	return conv
}

func (c *Controller) newChatLocked() conversation.Conversation {
	c.sampleMode = false
	c.sampleCurrent = ""
	return c.store.Create()
}

// Select makes a displayed conversation current and rebinds its session.
// In sample mode the ID refers to a sample conversation.
func (c *Controller) Select(conversationID string) error {
	c.bindMu.Lock()
	defer c.bindMu.Unlock()

	sessionID, err := c.selectLocked(conversationID)
	if err != nil {
		return err
	}
	c.binder.Bind(sessionID)
	return nil
}

func (c *Controller) selectLocked(conversationID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sampleMode {
		sample, ok := c.findSampleLocked(conversationID)
		if !ok {
			return "", conversation.ErrNotFound
		}
		c.sampleCurrent = sample.ID
		return sample.SessionID, nil
	}
	return c.store.Select(conversationID)
}

// ToggleSampleMode switches between real and sample conversations and
// reports the new mode. Entering selects the first sample; leaving clears
// the selection and unbinds the session.
func (c *Controller) ToggleSampleMode() bool {
	c.bindMu.Lock()
	defer c.bindMu.Unlock()

	c.mu.Lock()
	c.sampleMode = !c.sampleMode
	c.store.Deselect()
	sessionID := ""
	if c.sampleMode {
		first := conversation.SampleConversations(c.now())[0]
		c.sampleCurrent = first.ID
		sessionID = first.SessionID
	} else {
		c.sampleCurrent = ""
	}
	on := c.sampleMode
	c.mu.Unlock()

	c.binder.Bind(sessionID)
	return on
}

// SampleMode reports whether sample conversations are displayed.
func (c *Controller) SampleMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sampleMode
}

// ToggleFilter flips a topic filter and returns the active filters.
func (c *Controller) ToggleFilter(topic string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Toggle(topic)
	return c.filters.Active()
}

// ActiveFilters returns the active topic filters.
func (c *Controller) ActiveFilters() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Active()
}

// Conversations returns the displayed conversations (real or sample),
// filtered by the active topic filters.
func (c *Controller) Conversations() []conversation.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()

	var source []conversation.Conversation
	if c.sampleMode {
		source = conversation.SampleConversations(c.now())
	} else {
		source = c.store.List()
	}
	return conversation.Filter(source, c.filters.Active())
}

// Current returns the displayed current conversation.
func (c *Controller) Current() (conversation.Conversation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sampleMode {
		return c.findSampleLocked(c.sampleCurrent)
	}
	return c.store.Current()
}

func (c *Controller) findSampleLocked(id string) (conversation.Conversation, bool) {
	for _, s := range conversation.SampleConversations(c.now()) {
		if s.ID == id {
			return s, true
		}
	}
	return conversation.Conversation{}, false
}

// State returns the dispatch state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a dispatch is in flight.
func (c *Controller) Busy() bool {
	return c.State() == StateDispatching
}

// ActiveAgent returns the agent being called, or "" when idle.
func (c *Controller) ActiveAgent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeAgent
}
