// Package dispatch drives the question/answer cycle.
//
// # State Machine
//
// The Controller cycles between two states for the life of the process:
//
//	idle --Submit(text)--> dispatching --agent call settles--> idle
//
// Submit is rejected with ErrEmptyInput when text trims to nothing and with
// ErrBusy while any dispatch is in flight. The busy flag is global, not per
// conversation. Rejections change no state; front-ends ignore them.
//
// # Ordering
//
// Record first, then act. The user message is appended to the store before
// the agent is called. The agent's reply is appended after the call settles,
// whether it succeeded, reported a failure, or failed in transport. A
// transport failure appends FailureMessage as the agent's reply; nothing is
// propagated as an error.
//
// There is no cancellation and no staleness check: a reply is always applied
// to the conversation the question was asked in, even when the user has
// since selected another.
//
// # User-Facing Surface
//
// Besides Submit the Controller exposes what a front-end needs: NewChat,
// Select, FollowUp, ToggleFilter, ToggleSampleMode, and the filtered
// Conversations list. Every change of the current conversation rebinds the
// session binder synchronously, before any new dispatch can start.
package dispatch
