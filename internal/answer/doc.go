// Package answer normalizes raw agent replies into ParsedAnswer values.
//
// The agent's result payload is untyped: a JSON string, a JSON object, a
// string holding encoded JSON, or nothing. Normalize classifies the payload
// and validates every recognized field on its own. A field of the wrong type
// is dropped while the rest of the answer survives, so the caller always gets
// something renderable:
//
//	parsed := answer.Normalize(res)
//	if parsed.IsEmpty() {
//	    // nothing structured; fall back to the message content
//	}
package answer
