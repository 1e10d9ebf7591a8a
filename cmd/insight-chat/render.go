// ABOUTME: Terminal rendering of conversations, answers, activity, and documents
// ABOUTME: Colors come from fatih/color and disable themselves when output is not a terminal

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/2389/insight-chat/internal/activity"
	"github.com/2389/insight-chat/internal/answer"
	"github.com/2389/insight-chat/internal/conversation"
	"github.com/2389/insight-chat/internal/knowledge"
)

var (
	userStyle    = color.New(color.FgBlue, color.Bold)
	agentStyle   = color.New(color.FgGreen, color.Bold)
	headingStyle = color.New(color.Bold)
	dimStyle     = color.New(color.FgHiBlack)
	topicStyle   = color.New(color.FgMagenta)
	companyStyle = color.New(color.FgCyan)
	errorStyle   = color.New(color.FgRed)
)

// relativeTime formats t the way the sidebar shows timestamps.
func relativeTime(t, now time.Time) string {
	mins := int(now.Sub(t) / time.Minute)
	if mins < 1 {
		return "Just now"
	}
	if mins < 60 {
		return fmt.Sprintf("%dm ago", mins)
	}
	hours := mins / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("Jan 2")
}

func renderMessage(w io.Writer, m conversation.Message) {
	if m.Role == conversation.RoleUser {
		fmt.Fprintf(w, "%s %s\n", userStyle.Sprint("you>"), m.Content)
		return
	}

	fmt.Fprintln(w, agentStyle.Sprint("agent>"))
	if m.Parsed == nil {
		fmt.Fprintln(w, indent(m.Content))
		return
	}
	renderAnswer(w, *m.Parsed)
}

func renderAnswer(w io.Writer, p answer.ParsedAnswer) {
	if p.Answer != "" {
		fmt.Fprintln(w, indent(p.Answer))
	}

	if len(p.Perspectives) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  "+headingStyle.Sprint("Expert Perspectives"))
		for _, ps := range p.Perspectives {
			name := ps.GuestName
			if name == "" {
				name = "Guest"
			}
			line := "  - " + headingStyle.Sprint(name)
			if ps.Company != "" {
				line += " " + companyStyle.Sprintf("[%s]", ps.Company)
			}
			fmt.Fprintln(w, line)
			if ps.EpisodeTitle != "" {
				fmt.Fprintln(w, "    "+dimStyle.Sprint(ps.EpisodeTitle))
			}
			if ps.Insight != "" {
				fmt.Fprintln(w, "    "+ps.Insight)
			}
		}
	}

	if len(p.Topics) > 0 {
		tags := make([]string, len(p.Topics))
		for i, t := range p.Topics {
			tags[i] = topicStyle.Sprintf("#%s", t)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  "+strings.Join(tags, " "))
	}

	if len(p.FollowUpQuestions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  "+headingStyle.Sprint("Follow-up Questions")+dimStyle.Sprint(" (/follow <n>)"))
		for i, q := range p.FollowUpQuestions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, q)
		}
	}
}

func renderConversation(w io.Writer, c conversation.Conversation) {
	fmt.Fprintln(w, headingStyle.Sprint(c.Title))
	if len(c.Messages) == 0 {
		renderStarters(w)
		return
	}
	for _, m := range c.Messages {
		renderMessage(w, m)
	}
}

func renderStarters(w io.Writer) {
	fmt.Fprintln(w, dimStyle.Sprint("Try one of these (/follow <n>):"))
	for i, q := range conversation.StarterQuestions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, q)
	}
}

func renderList(w io.Writer, convs []conversation.Conversation, currentID string, filters []string, now time.Time) {
	if len(filters) > 0 {
		fmt.Fprintln(w, dimStyle.Sprint("Filters: "+strings.Join(filters, ", ")))
	}
	if len(convs) == 0 {
		fmt.Fprintln(w, dimStyle.Sprint("No conversations"))
		return
	}
	for i, c := range convs {
		marker := " "
		if c.ID == currentID {
			marker = "*"
		}
		line := fmt.Sprintf("%s %d. %s %s", marker, i+1, c.Title, dimStyle.Sprint(relativeTime(c.UpdatedAt, now)))
		if len(c.Topics) > 0 {
			line += " " + topicStyle.Sprint(strings.Join(c.Topics, ", "))
		}
		fmt.Fprintln(w, line)
	}
}

func renderFilters(w io.Writer, active []string) {
	on := make(map[string]bool, len(active))
	for _, a := range active {
		on[a] = true
	}
	parts := make([]string, len(conversation.TopicFilters))
	for i, f := range conversation.TopicFilters {
		if on[f] {
			parts[i] = topicStyle.Sprintf("[%s]", f)
		} else {
			parts[i] = f
		}
	}
	fmt.Fprintln(w, "Filters: "+strings.Join(parts, " "))
}

func renderActivity(w io.Writer, ev activity.Event) {
	text := ev.Message
	if text == "" {
		text = ev.Status
	}
	style := dimStyle
	if ev.Type == activity.EventError {
		style = errorStyle
	}
	fmt.Fprintln(w, style.Sprintf("  · %s %s", ev.Type, text))
}

func renderDocuments(w io.Writer, docs []knowledge.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, dimStyle.Sprint("No documents uploaded yet."))
		return
	}
	for _, d := range docs {
		if d.Status != "" {
			fmt.Fprintf(w, "  %s %s\n", d.FileName, dimStyle.Sprintf("(%s)", d.Status))
		} else {
			fmt.Fprintf(w, "  %s\n", d.FileName)
		}
	}
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
