// ABOUTME: Follows the bound session and relays its activity feed to local subscribers
// ABOUTME: Each rebind cancels the previous subscription; repeated event IDs are dropped

package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/insight-chat/internal/dedupe"
)

// AllSessions is the broadcaster key that receives events for whichever
// session the monitor is following.
const AllSessions = "*"

const (
	dedupeTTL     = 10 * time.Minute
	dedupeMaxSize = 1024
)

// Monitor subscribes to the activity feed of one session at a time.
type Monitor struct {
	feed        Feed
	broadcaster *Broadcaster
	seen        *dedupe.Cache
	logger      *slog.Logger

	mu      sync.Mutex
	session string
	gen     uint64
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closed  bool
}

// NewMonitor creates a monitor reading from feed. Pass nil logger for default.
func NewMonitor(feed Feed, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		feed:        feed,
		broadcaster: NewBroadcaster(logger),
		seen:        dedupe.New(dedupeTTL, dedupeMaxSize),
		logger:      logger.With("component", "activity_monitor"),
	}
}

// Follow switches the monitor to sessionID. An empty ID stops following.
// It has the signature of a session.Listener.
func (m *Monitor) Follow(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	m.session = sessionID
	m.seen.Reset()

	if sessionID == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	gen := m.gen

	m.wg.Add(1)
	go m.pump(ctx, gen, sessionID)
}

// Session returns the session currently followed, or "".
func (m *Monitor) Session() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Subscribe receives events for the followed session. Pass AllSessions to
// receive events across rebinds, or a session ID to receive only that one.
func (m *Monitor) Subscribe(ctx context.Context, key string) <-chan Event {
	ch, _ := m.broadcaster.Subscribe(ctx, key)
	return ch
}

// Close stops following and closes every subscriber channel.
func (m *Monitor) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.broadcaster.Close()
}

func (m *Monitor) pump(ctx context.Context, gen uint64, sessionID string) {
	defer m.wg.Done()

	events, err := m.feed.Subscribe(ctx, sessionID)
	if err != nil {
		if ctx.Err() == nil {
			m.logger.Warn("activity subscription failed", "session_id", sessionID, "error", err)
		}
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.relay(gen, sessionID, ev)
		}
	}
}

func (m *Monitor) relay(gen uint64, sessionID string, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return
	}
	if ev.ID != "" && m.seen.CheckAndMark(ev.ID) {
		m.logger.Debug("dropped duplicate event", "session_id", sessionID, "event_id", ev.ID)
		return
	}

	m.broadcaster.Publish(sessionID, ev)
	m.broadcaster.Publish(AllSessions, ev)
}
