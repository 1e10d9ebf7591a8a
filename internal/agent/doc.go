// Package agent defines the contract for invoking the remote answering agent.
//
// # Overview
//
// The core never depends on a concrete agent. It calls an Invoker:
//
//	res, err := invoker.Invoke(ctx, &agent.Request{
//	    Prompt:    "How do top PMs think about retention?",
//	    AgentID:   agentID,
//	    SessionID: conv.SessionID,
//	})
//
// A non-nil error means the call did not complete (network failure, timeout,
// unreadable body). An agent-side failure comes back as a Result with
// Success=false and an optional Error string.
//
// # Reply Envelope
//
//	{"success": true, "response": {"result": <string|object>, "message": "..."}, "error": "..."}
//
// The result payload is kept as raw JSON. Interpreting it is the job of the
// answer package, which validates every field before use.
//
// # HTTP Client
//
// Client performs a single POST per prompt with no retry or backoff. The
// API key, when configured, is sent in the x-api-key header.
package agent
