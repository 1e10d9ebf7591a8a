// ABOUTME: Session binder mapping the current conversation to its session identifier
// ABOUTME: Rebinding is synchronous: listeners have run by the time Bind returns

package session

import (
	"log/slog"
	"sync"
)

// Listener is notified with the newly bound session ID ("" when unbound).
type Listener func(sessionID string)

// Binder holds the session identifier that telemetry is attributed to.
type Binder struct {
	mu        sync.Mutex
	current   string
	listeners []Listener
	logger    *slog.Logger
}

// NewBinder creates an unbound Binder. Pass nil logger for default.
func NewBinder(logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{logger: logger.With("component", "session")}
}

// OnRebind registers a listener. Listeners run in registration order on the
// goroutine that calls Bind and must not call back into the Binder.
func (b *Binder) OnRebind(l Listener) {
	b.mu.Lock()
	b.listeners = append(b.listeners, l)
	b.mu.Unlock()
}

// Bind makes sessionID current and notifies listeners before returning.
// Binding the already-current session is a no-op.
func (b *Binder) Bind(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == sessionID {
		return
	}
	previous := b.current
	b.current = sessionID

	b.logger.Debug("session rebound", "from", previous, "to", sessionID)
	for _, l := range b.listeners {
		l(sessionID)
	}
}

// Unbind clears the current session.
func (b *Binder) Unbind() {
	b.Bind("")
}

// Current returns the bound session ID, or "" when unbound.
func (b *Binder) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
