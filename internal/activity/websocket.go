// ABOUTME: Telemetry feed client reading activity events from a per-session websocket
// ABOUTME: Malformed frames are skipped; the stream ends when ctx ends or the socket closes

package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/coder/websocket"
)

// SessionPlaceholder is replaced by the session ID in a feed URL template.
const SessionPlaceholder = "{session_id}"

// WebSocketFeed subscribes to activity over a websocket per session.
type WebSocketFeed struct {
	urlTemplate string
	logger      *slog.Logger
}

// NewWebSocketFeed creates a feed. urlTemplate must contain SessionPlaceholder,
// e.g. "wss://metrics.example.com/ws/{session_id}". Pass nil logger for default.
func NewWebSocketFeed(urlTemplate string, logger *slog.Logger) *WebSocketFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketFeed{
		urlTemplate: urlTemplate,
		logger:      logger.With("component", "activity_feed"),
	}
}

// URL returns the feed URL for sessionID.
func (f *WebSocketFeed) URL(sessionID string) string {
	return strings.ReplaceAll(f.urlTemplate, SessionPlaceholder, url.PathEscape(sessionID))
}

// Subscribe dials the session's feed and streams its events.
func (f *WebSocketFeed) Subscribe(ctx context.Context, sessionID string) (<-chan Event, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}

	conn, _, err := websocket.Dial(ctx, f.URL(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("dialing activity feed: %w", err)
	}

	out := make(chan Event, subscriberBufferSize)
	go func() {
		defer close(out)
		defer conn.CloseNow()

		for {
			typ, data, err := conn.Read(ctx)
			if err != nil {
				if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
					f.logger.Debug("activity feed ended", "session_id", sessionID, "error", err)
				}
				return
			}
			if typ != websocket.MessageText {
				continue
			}

			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				f.logger.Debug("skipping malformed activity frame", "session_id", sessionID, "error", err)
				continue
			}
			if ev.SessionID == "" {
				ev.SessionID = sessionID
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
