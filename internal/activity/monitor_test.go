// ABOUTME: Tests for Monitor session following and event relay
// ABOUTME: Uses a channel-backed fake feed to control delivery per session

package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	mu      sync.Mutex
	streams map[string]chan Event
	ctxs    map[string]context.Context
	fail    map[string]bool
	calls   []string
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		streams: make(map[string]chan Event),
		ctxs:    make(map[string]context.Context),
		fail:    make(map[string]bool),
	}
}

func (f *fakeFeed) Subscribe(ctx context.Context, sessionID string) (<-chan Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sessionID)
	if f.fail[sessionID] {
		return nil, errors.New("dial refused")
	}
	ch := make(chan Event, 16)
	f.streams[sessionID] = ch
	f.ctxs[sessionID] = ctx
	return ch, nil
}

func (f *fakeFeed) stream(t *testing.T, sessionID string) chan Event {
	t.Helper()
	var ch chan Event
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		ch = f.streams[sessionID]
		return ch != nil
	}, time.Second, 5*time.Millisecond)
	return ch
}

func (f *fakeFeed) ctx(sessionID string) context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctxs[sessionID]
}

func TestMonitor_RelaysFollowedSession(t *testing.T) {
	feed := newFakeFeed()
	m := NewMonitor(feed, nil)
	defer m.Close()

	all := m.Subscribe(t.Context(), AllSessions)
	m.Follow("sess-1")
	assert.Equal(t, "sess-1", m.Session())

	feed.stream(t, "sess-1") <- makeEvent("evt-1", "sess-1")
	assert.Equal(t, "evt-1", receive(t, all).ID)
}

func TestMonitor_DropsDuplicateIDs(t *testing.T) {
	feed := newFakeFeed()
	m := NewMonitor(feed, nil)
	defer m.Close()

	all := m.Subscribe(t.Context(), AllSessions)
	m.Follow("sess-1")

	s := feed.stream(t, "sess-1")
	s <- makeEvent("evt-1", "sess-1")
	s <- makeEvent("evt-1", "sess-1")
	s <- makeEvent("evt-2", "sess-1")

	assert.Equal(t, "evt-1", receive(t, all).ID)
	assert.Equal(t, "evt-2", receive(t, all).ID)
}

func TestMonitor_RebindCancelsPrevious(t *testing.T) {
	feed := newFakeFeed()
	m := NewMonitor(feed, nil)
	defer m.Close()

	all := m.Subscribe(t.Context(), AllSessions)
	m.Follow("sess-1")
	old := feed.stream(t, "sess-1")

	m.Follow("sess-2")
	select {
	case <-feed.ctx("sess-1").Done():
	case <-time.After(time.Second):
		t.Fatal("previous subscription not cancelled")
	}

	old <- makeEvent("stale", "sess-1")
	feed.stream(t, "sess-2") <- makeEvent("fresh", "sess-2")

	assert.Equal(t, "fresh", receive(t, all).ID)
}

func TestMonitor_EmptySessionStopsFollowing(t *testing.T) {
	feed := newFakeFeed()
	m := NewMonitor(feed, nil)
	defer m.Close()

	m.Follow("sess-1")
	feed.stream(t, "sess-1")

	m.Follow("")
	assert.Equal(t, "", m.Session())
	select {
	case <-feed.ctx("sess-1").Done():
	case <-time.After(time.Second):
		t.Fatal("subscription not cancelled")
	}

	feed.mu.Lock()
	defer feed.mu.Unlock()
	assert.Equal(t, []string{"sess-1"}, feed.calls)
}

func TestMonitor_SubscriptionFailureIsLogged(t *testing.T) {
	feed := newFakeFeed()
	feed.fail["sess-1"] = true
	m := NewMonitor(feed, nil)
	defer m.Close()

	m.Follow("sess-1")
	assert.Equal(t, "sess-1", m.Session())
}

func TestMonitor_CloseClosesSubscribers(t *testing.T) {
	feed := newFakeFeed()
	m := NewMonitor(feed, nil)

	all := m.Subscribe(t.Context(), AllSessions)
	m.Follow("sess-1")
	feed.stream(t, "sess-1")

	m.Close()
	_, ok := <-all
	assert.False(t, ok)

	// Follow after close is ignored.
	m.Follow("sess-2")
	assert.Equal(t, "sess-1", m.Session())
}
