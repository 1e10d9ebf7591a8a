// ABOUTME: Canned sample conversations and starter questions for demo mode
// ABOUTME: Samples are rebuilt on every call so callers can never mutate shared data

package conversation

import (
	"time"

	"github.com/2389/insight-chat/internal/answer"
)

// StarterQuestions are offered when a conversation has no messages yet.
var StarterQuestions = []string{
	"What are the best PLG onboarding tactics?",
	"How do top PMs think about retention?",
	"What activation metrics matter most for dev tools?",
	"How should early-stage startups think about GTM?",
	"What are common mistakes in monetization strategy?",
}

// SampleConversations returns the demo conversations, timestamped relative to now.
func SampleConversations(now time.Time) []Conversation {
	return []Conversation{
		sampleConversation(now, sampleSeed{
			id:        "sample-1",
			title:     "PLG Onboarding Tactics",
			sessionID: "sample-session-1",
			question:  "What are the best PLG onboarding tactics?",
			age:       time.Hour,
			parsed: answer.ParsedAnswer{
				Answer: "Based on insights from Lenny's Podcast guests, the most effective PLG onboarding tactics revolve around **reducing time-to-value** and creating **\"aha moments\"** early in the user journey.\n\n" +
					"### Key Tactics:\n\n" +
					"1. **Progressive Disclosure** - Don't overwhelm new users. Show features gradually as they demonstrate readiness.\n\n" +
					"2. **Template-First Approach** - Pre-built templates let users see value before they build from scratch. Companies like Notion and Figma use this extensively.\n\n" +
					"3. **Social Proof in Onboarding** - Show how similar companies use the product during the setup flow.\n\n" +
					"4. **Checklist-Driven Setup** - A clear, completable list of setup steps with progress tracking drives activation.\n\n" +
					"5. **Reverse Trial Model** - Start users on the premium plan, then downgrade. This shows the full value before asking them to pay.",
				Perspectives: []answer.Perspective{
					{
						GuestName:    "Elena Verna",
						EpisodeTitle: "The Ultimate Guide to PLG",
						Company:      "Amplitude",
						Insight:      "Focus on time-to-value, not feature completeness. The best onboarding flows are the ones where users experience the core value proposition within the first session.",
					},
					{
						GuestName:    "Hila Qu",
						EpisodeTitle: "Growth Frameworks That Scale",
						Company:      "GitLab",
						Insight:      "The activation metric should be the single action that most correlates with long-term retention. Find it, then optimize your onboarding to drive users toward it.",
					},
					{
						GuestName:    "Casey Winters",
						EpisodeTitle: "Building Growth Engines",
						Company:      "Eventbrite",
						Insight:      "Templates are the most underrated onboarding tool. They let users skip the blank-canvas problem and immediately see what success looks like.",
					},
				},
				Topics: []string{"PLG", "activation", "onboarding"},
				FollowUpQuestions: []string{
					"How do you measure onboarding success in PLG?",
					"What are the best examples of reverse trials?",
					"How do top companies identify their activation metric?",
				},
			},
		}),
		sampleConversation(now, sampleSeed{
			id:        "sample-2",
			title:     "Retention Strategies",
			sessionID: "sample-session-2",
			question:  "How do top PMs think about retention?",
			age:       2 * time.Hour,
			parsed: answer.ParsedAnswer{
				Answer: "Retention is arguably **the most important growth metric** because it compounds over time. Top PMs approach retention through several key frameworks:\n\n" +
					"### Core Principles:\n\n" +
					"1. **Habit Loops** - The best products create natural usage habits. Think about what triggers users to come back.\n\n" +
					"2. **Value Realization Loops** - Each session should deliver clear value that makes the next session more valuable.\n\n" +
					"3. **Cohort Analysis First** - Don't look at aggregate retention. Break it down by cohort, acquisition channel, and use case.\n\n" +
					"4. **Resurrection Flows** - Build specific re-engagement campaigns for users who've churned but haven't deleted their account.\n\n" +
					"5. **Feature Adoption Curves** - Map which features correlate with retention and invest in driving adoption of those features.",
				Perspectives: []answer.Perspective{
					{
						GuestName:    "Lenny Rachitsky",
						EpisodeTitle: "What Makes Great Products Stick",
						Company:      "Newsletter / Podcast",
						Insight:      "The best retention curves flatten out, they don't keep declining. If your curve never flattens, you have a product-market fit problem, not a retention problem.",
					},
					{
						GuestName:    "Dan Hockenmaier",
						EpisodeTitle: "Marketplace Retention Deep Dive",
						Company:      "Faire",
						Insight:      "In marketplaces, retention is driven by supply quality. If buyers consistently find what they need, they come back. Focus on curating supply, not just growing it.",
					},
				},
				Topics: []string{"retention", "growth", "product"},
				FollowUpQuestions: []string{
					"What is a good D7 retention rate for SaaS?",
					"How do you build effective resurrection campaigns?",
					"What are the best retention metrics to track?",
				},
			},
		}),
	}
}

type sampleSeed struct {
	id, title, sessionID string
	question             string
	age                  time.Duration
	parsed               answer.ParsedAnswer
}

// sampleConversation builds a one-exchange conversation. The agent message
// content is empty; the parsed answer carries the text.
func sampleConversation(now time.Time, seed sampleSeed) Conversation {
	asked := now.Add(-seed.age)
	answered := asked.Add(50 * time.Second)
	parsed := seed.parsed

	return Conversation{
		ID:        seed.id,
		Title:     seed.title,
		SessionID: seed.sessionID,
		Messages: []Message{
			{ID: seed.id + "-q", Role: RoleUser, Content: seed.question, Timestamp: asked},
			{ID: seed.id + "-a", Role: RoleAgent, Parsed: &parsed, Timestamp: answered},
		},
		Topics:    append([]string(nil), parsed.Topics...),
		CreatedAt: asked,
		UpdatedAt: answered,
	}
}
