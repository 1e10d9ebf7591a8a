// Package activity relays the agent activity stream for display.
//
// A Feed produces events for one session. WebSocketFeed reads them from the
// telemetry endpoint, one socket per session. The Monitor follows whichever
// session the binder reports, cancelling the previous subscription on every
// rebind, and fans events out through a Broadcaster. Events whose ID was
// already relayed for the current session are dropped.
//
// Nothing in this package writes to conversation state.
package activity
