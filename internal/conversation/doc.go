// Package conversation owns conversation state.
//
// # Overview
//
// Store is the single write path for conversations. Nothing outside the
// store mutates a Conversation; every read returns a copy.
//
//	store := conversation.NewStore(logger)
//	conv := store.Create()                       // becomes current
//	store.AppendUserMessage(conv.ID, "How do top PMs think about retention?")
//	store.AppendAgentMessage(conv.ID, parsed)    // merges parsed.Topics
//
// Key operations:
//
//   - Create(): new conversation with fresh ID and session ID, made current
//   - AppendUserMessage(id, text): append; the first one sets the title
//   - AppendAgentMessage(id, parsed): append and union topics
//   - Select(id): make current, returns the session ID for rebinding
//
// # Invariants
//
//   - IDs and session IDs are UUIDv7 based and never reused
//   - Messages are append-only; order is append order
//   - Topics only grow; duplicates (exact match) are ignored
//   - The title is set once, from the first user message, truncated to
//     50 characters plus "..."
//   - Listing order is newest conversation first
//
// # Filtering
//
// Filter derives a projection by topic without touching its input. A
// conversation passes when any of its topics contains any active filter
// term, case-insensitively.
//
// # Sample Data
//
// SampleConversations returns two canned conversations used by the demo
// mode. They are rebuilt on each call and never enter the Store.
package conversation
