// ABOUTME: Response normalizer turning a raw agent Result into a ParsedAnswer
// ABOUTME: Pure and total: malformed payloads degrade to fewer fields, never to an error

package answer

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/2389/insight-chat/internal/agent"
)

// FallbackAnswer is shown when a failed call carries no explanation.
const FallbackAnswer = "Sorry, something went wrong. Please try again."

// PayloadKind tags the recognized shapes of a raw result payload.
type PayloadKind int

const (
	PayloadAbsent PayloadKind = iota // missing or null
	PayloadString                    // a JSON string, possibly holding encoded JSON
	PayloadObject                    // a JSON object
	PayloadOther                     // any other JSON value (array, number, bool)
)

// Payload is a classified raw result.
type Payload struct {
	Kind   PayloadKind
	Text   string       // set for PayloadString
	Object gjson.Result // set for PayloadObject
	Value  gjson.Result // set for PayloadOther
}

// Classify tags a raw result payload. Invalid JSON counts as absent.
func Classify(raw json.RawMessage) Payload {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Payload{Kind: PayloadAbsent}
	}
	v := gjson.ParseBytes(raw)
	switch {
	case v.Type == gjson.Null:
		return Payload{Kind: PayloadAbsent}
	case v.Type == gjson.String:
		return Payload{Kind: PayloadString, Text: v.Str}
	case v.IsObject():
		return Payload{Kind: PayloadObject, Object: v}
	default:
		return Payload{Kind: PayloadOther, Value: v}
	}
}

// Normalize converts an agent Result into a ParsedAnswer.
//
// A failed call yields its error text, else its response message, else
// FallbackAnswer. A successful call yields the fields of the structured
// payload (directly, or decoded from a JSON string). A string that is not
// valid JSON becomes the literal answer; any other non-object value yields an
// empty answer. When the payload is missing or falsy (null, false, 0, "")
// the response message stands in for the answer.
func Normalize(res *agent.Result) ParsedAnswer {
	if res == nil {
		return ParsedAnswer{Answer: FallbackAnswer}
	}

	var raw json.RawMessage
	var message string
	if res.Response != nil {
		raw = res.Response.Result
		message = res.Response.Message
	}

	if !res.Success {
		switch {
		case res.Error != "":
			return ParsedAnswer{Answer: res.Error}
		case message != "":
			return ParsedAnswer{Answer: message}
		default:
			return ParsedAnswer{Answer: FallbackAnswer}
		}
	}

	payload := Classify(raw)
	switch payload.Kind {
	case PayloadString:
		if !gjson.Valid(payload.Text) {
			if payload.Text == "" {
				return ParsedAnswer{Answer: message}
			}
			return ParsedAnswer{Answer: payload.Text}
		}
		v := gjson.Parse(payload.Text)
		if v.IsObject() {
			return fromObject(v)
		}
		if falsy(v) {
			return ParsedAnswer{Answer: message}
		}
		return ParsedAnswer{}
	case PayloadObject:
		return fromObject(payload.Object)
	case PayloadOther:
		if falsy(payload.Value) {
			return ParsedAnswer{Answer: message}
		}
		return ParsedAnswer{}
	}
	return ParsedAnswer{Answer: message}
}

// falsy reports whether v carries no value: null, false, zero, or "".
func falsy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return v.Num == 0
	case gjson.String:
		return v.Str == ""
	}
	return false
}

// fromObject extracts the recognized fields. Each field is kept only when it
// has the expected JSON type; unknown fields are ignored.
func fromObject(obj gjson.Result) ParsedAnswer {
	var p ParsedAnswer

	if v := obj.Get("answer"); v.Type == gjson.String {
		p.Answer = v.Str
	}

	if v := obj.Get("perspectives"); v.IsArray() {
		items := v.Array()
		p.Perspectives = make([]Perspective, 0, len(items))
		for _, item := range items {
			if !item.IsObject() {
				continue
			}
			p.Perspectives = append(p.Perspectives, Perspective{
				GuestName:    stringField(item, "guest_name"),
				EpisodeTitle: stringField(item, "episode_title"),
				Company:      stringField(item, "company"),
				Insight:      stringField(item, "insight"),
			})
		}
	}

	if v := obj.Get("topics"); v.IsArray() {
		p.Topics = stringArray(v)
	}
	if v := obj.Get("follow_up_questions"); v.IsArray() {
		p.FollowUpQuestions = stringArray(v)
	}
	return p
}

func stringField(obj gjson.Result, key string) string {
	if v := obj.Get(key); v.Type == gjson.String {
		return v.Str
	}
	return ""
}

// stringArray keeps the string elements of a JSON array, in order.
func stringArray(v gjson.Result) []string {
	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type == gjson.String {
			out = append(out, item.Str)
		}
	}
	return out
}
