// ABOUTME: Topic filter view over conversations and the toggleable filter set
// ABOUTME: Matching is a case-insensitive substring test; inputs are never mutated

package conversation

import "strings"

// TopicFilters are the predefined filters offered to the user.
var TopicFilters = []string{"Acquisition", "Activation", "Retention", "Monetization", "PLG", "GTM"}

// Filter returns the conversations having at least one topic that contains
// at least one active filter term, ignoring case. No active filters means
// every conversation passes. Order is preserved.
func Filter(convs []Conversation, active []string) []Conversation {
	out := make([]Conversation, 0, len(convs))
	if len(active) == 0 {
		return append(out, convs...)
	}

	terms := make([]string, len(active))
	for i, f := range active {
		terms[i] = strings.ToLower(f)
	}

	for _, c := range convs {
		if matchesAny(c.Topics, terms) {
			out = append(out, c)
		}
	}
	return out
}

func matchesAny(topics, lowerTerms []string) bool {
	for _, t := range topics {
		lt := strings.ToLower(t)
		for _, term := range lowerTerms {
			if strings.Contains(lt, term) {
				return true
			}
		}
	}
	return false
}

// FilterSet is the set of active topic filters, in activation order.
type FilterSet struct {
	active []string
}

// Toggle adds topic when absent and removes it when present.
// Reports whether the topic is active afterwards.
func (f *FilterSet) Toggle(topic string) bool {
	for i, t := range f.active {
		if t == topic {
			f.active = append(f.active[:i:i], f.active[i+1:]...)
			return false
		}
	}
	f.active = append(f.active, topic)
	return true
}

// Active returns a copy of the active filters.
func (f *FilterSet) Active() []string {
	return append([]string(nil), f.active...)
}

// IsActive reports whether topic is an active filter.
func (f *FilterSet) IsActive(topic string) bool {
	for _, t := range f.active {
		if t == topic {
			return true
		}
	}
	return false
}

// Clear removes every active filter.
func (f *FilterSet) Clear() {
	f.active = nil
}
