// ABOUTME: Identifier generation for conversations, sessions and messages
// ABOUTME: UUIDv7 gives a millisecond time prefix followed by random bits

package conversation

import "github.com/google/uuid"

// NewID returns a fresh time-ordered identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// NewSessionID returns a fresh session identifier, distinct in form from NewID.
func NewSessionID() string {
	return "sess-" + NewID()
}
