// ABOUTME: Typed model of a structured agent answer: narrative, perspectives, topics, follow-ups
// ABOUTME: Absent fields are nil; an answer with nothing set carries no structured content

package answer

// Perspective is one cited source backing an answer. Every field may be empty.
type Perspective struct {
	GuestName    string `json:"guest_name"`
	EpisodeTitle string `json:"episode_title"`
	Company      string `json:"company"`
	Insight      string `json:"insight"`
}

// ParsedAnswer is the normalized form of an agent reply.
// Perspectives and FollowUpQuestions keep the order the agent sent them in.
type ParsedAnswer struct {
	Answer            string        `json:"answer,omitempty"`
	Perspectives      []Perspective `json:"perspectives,omitempty"`
	Topics            []string      `json:"topics,omitempty"`
	FollowUpQuestions []string      `json:"follow_up_questions,omitempty"`
}

// IsEmpty reports whether no field carries content.
func (p ParsedAnswer) IsEmpty() bool {
	return p.Answer == "" &&
		len(p.Perspectives) == 0 &&
		len(p.Topics) == 0 &&
		len(p.FollowUpQuestions) == 0
}

// Clone returns a deep copy.
func (p ParsedAnswer) Clone() ParsedAnswer {
	out := ParsedAnswer{Answer: p.Answer}
	if p.Perspectives != nil {
		out.Perspectives = make([]Perspective, len(p.Perspectives))
		copy(out.Perspectives, p.Perspectives)
	}
	out.Topics = cloneStrings(p.Topics)
	out.FollowUpQuestions = cloneStrings(p.FollowUpQuestions)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
