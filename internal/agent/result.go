// ABOUTME: Wire types for the agent invocation contract and a tolerant reply decoder
// ABOUTME: The result payload is kept raw; field types are checked, never trusted

package agent

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// ErrMalformedReply is returned when the agent's reply body is not a JSON object.
var ErrMalformedReply = errors.New("malformed agent reply")

// Invoker sends one prompt to the remote agent.
// A returned error means the call itself failed (transport, decoding);
// an agent-side failure is reported as a Result with Success=false.
type Invoker interface {
	Invoke(ctx context.Context, req *Request) (*Result, error)
}

// Request identifies the prompt and the session it is attributed to.
type Request struct {
	Prompt    string
	AgentID   string
	SessionID string
}

// Result is the agent's reply envelope.
type Result struct {
	Success  bool      `json:"success"`
	Response *Response `json:"response,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Response carries the untyped result and an optional plain message.
// Result may hold a JSON string, a JSON object, or nothing at all.
type Response struct {
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// DecodeResult parses a reply body without trusting its shape.
// Fields with unexpected types are left at their zero value.
func DecodeResult(body []byte) (*Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedReply
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, ErrMalformedReply
	}

	res := &Result{Success: doc.Get("success").Type == gjson.True}
	if e := doc.Get("error"); e.Type == gjson.String {
		res.Error = e.Str
	}
	if r := doc.Get("response"); r.IsObject() {
		resp := &Response{}
		if v := r.Get("result"); v.Exists() && v.Type != gjson.Null {
			resp.Result = json.RawMessage(v.Raw)
		}
		if m := r.Get("message"); m.Type == gjson.String {
			resp.Message = m.Str
		}
		res.Response = resp
	}
	return res, nil
}

// TextResult builds a successful Result whose payload is a JSON string.
func TextResult(text string) *Result {
	raw, _ := json.Marshal(text)
	return &Result{Success: true, Response: &Response{Result: raw}}
}

// ObjectResult builds a successful Result whose payload is v encoded as JSON.
func ObjectResult(v any) (*Result, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Result{Success: true, Response: &Response{Result: raw}}, nil
}

// FailureResult builds an unsuccessful Result carrying an error string.
func FailureResult(msg string) *Result {
	return &Result{Success: false, Error: msg}
}
