// ABOUTME: Interactive chat REPL built on the dispatch controller
// ABOUTME: Slash commands drive selection, filters, sample mode, follow-ups, and the knowledge panel

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389/insight-chat/internal/activity"
	"github.com/2389/insight-chat/internal/conversation"
	"github.com/2389/insight-chat/internal/dispatch"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := &syncWriter{w: cmd.OutOrStdout()}
			fmt.Fprintf(out, "insight-chat connected to %s (agent %s)\n", a.cfg.Agent.Endpoint, a.cfg.Agent.AgentID)
			fmt.Fprintln(out, "Ask a question and press Enter. /help for commands. Ctrl+C to quit.")
			fmt.Fprintln(out)

			r := newREPL(a, cmd.InOrStdin(), out)
			if err := r.run(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		},
	}
}

// syncWriter serializes writes from the prompt loop and the activity printer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type repl struct {
	app *app
	in  io.Reader
	out io.Writer
	now func() time.Time

	// lastList is what /list showed, so /select numbers match the screen.
	lastList []conversation.Conversation
}

func newREPL(a *app, in io.Reader, out io.Writer) *repl {
	return &repl{app: a, in: in, out: out, now: time.Now}
}

func (r *repl) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if r.app.monitor != nil {
		events := r.app.monitor.Subscribe(ctx, activity.AllSessions)
		go func() {
			for ev := range events {
				renderActivity(r.out, ev)
			}
		}()
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			readErr <- err
		} else {
			readErr <- io.EOF
		}
	}()

	for {
		r.prompt()

		var line string
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case line = <-lines:
		}

		if quit := r.handle(ctx, line); quit {
			return nil
		}
	}
}

func (r *repl) prompt() {
	if r.app.controller.SampleMode() {
		fmt.Fprint(r.out, "[sample]> ")
		return
	}
	fmt.Fprint(r.out, "> ")
}

// handle processes one input line and reports whether the REPL should exit.
func (r *repl) handle(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit", "/q":
		return true
	case "/help":
		r.printHelp()
	case "/new":
		conv := r.app.controller.NewChat()
		renderConversation(r.out, conv)
	case "/list":
		r.list()
	case "/select":
		r.selectConversation(arg)
	case "/filter":
		r.filter(arg)
	case "/sample":
		r.toggleSample()
	case "/follow":
		r.follow(ctx, arg)
	case "/docs":
		r.docs(ctx, arg)
	default:
		if strings.HasPrefix(cmd, "/") {
			fmt.Fprintf(r.out, "Unknown command %s. /help for commands.\n", cmd)
			break
		}
		r.submit(ctx, input)
	}
	fmt.Fprintln(r.out)
	return false
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  /new               Start a new conversation")
	fmt.Fprintln(r.out, "  /list              List conversations")
	fmt.Fprintln(r.out, "  /select <n>        Open conversation n from /list")
	fmt.Fprintln(r.out, "  /filter [topic]    Toggle a topic filter, or show filters")
	fmt.Fprintln(r.out, "  /sample            Toggle sample conversations")
	fmt.Fprintln(r.out, "  /follow <n>        Ask follow-up (or starter) question n")
	fmt.Fprintln(r.out, "  /docs              List knowledge-base documents")
	fmt.Fprintln(r.out, "  /docs upload <f>   Upload a .pdf, .docx, or .txt file")
	fmt.Fprintln(r.out, "  /docs delete <n>   Delete a document by name")
	fmt.Fprintln(r.out, "  /help              Show this help")
	fmt.Fprintln(r.out, "  /quit              Exit")
}

func (r *repl) submit(ctx context.Context, text string) {
	fmt.Fprintln(r.out, dimStyle.Sprintf("asking %s...", r.app.cfg.Agent.AgentID))

	out, err := r.app.controller.Submit(ctx, text)
	if err != nil {
		// Empty and busy submissions are ignored.
		if !errors.Is(err, dispatch.ErrEmptyInput) && !errors.Is(err, dispatch.ErrBusy) {
			fmt.Fprintln(r.out, errorStyle.Sprintf("[error] %v", err))
		}
		return
	}
	renderMessage(r.out, out.AgentMessage)
}

func (r *repl) list() {
	r.lastList = r.app.controller.Conversations()
	currentID := ""
	if cur, ok := r.app.controller.Current(); ok {
		currentID = cur.ID
	}
	renderList(r.out, r.lastList, currentID, r.app.controller.ActiveFilters(), r.now())
}

func (r *repl) selectConversation(arg string) {
	if r.lastList == nil {
		r.lastList = r.app.controller.Conversations()
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(r.lastList) {
		fmt.Fprintln(r.out, "Usage: /select <n> (see /list)")
		return
	}

	target := r.lastList[n-1]
	if err := r.app.controller.Select(target.ID); err != nil {
		fmt.Fprintln(r.out, errorStyle.Sprintf("[error] %v", err))
		return
	}
	if cur, ok := r.app.controller.Current(); ok {
		renderConversation(r.out, cur)
	}
}

func (r *repl) filter(arg string) {
	if arg == "" {
		renderFilters(r.out, r.app.controller.ActiveFilters())
		return
	}
	topic := arg
	for _, f := range conversation.TopicFilters {
		if strings.EqualFold(f, arg) {
			topic = f
			break
		}
	}
	renderFilters(r.out, r.app.controller.ToggleFilter(topic))
	r.list()
}

func (r *repl) toggleSample() {
	r.lastList = nil
	if r.app.controller.ToggleSampleMode() {
		fmt.Fprintln(r.out, "Showing sample conversations. /sample again to leave.")
		if cur, ok := r.app.controller.Current(); ok {
			renderConversation(r.out, cur)
		}
		return
	}
	fmt.Fprintln(r.out, "Showing your conversations.")
}

// follow asks follow-up question n of the latest answer, or starter
// question n when the conversation has no messages yet.
func (r *repl) follow(ctx context.Context, arg string) {
	options := conversation.StarterQuestions
	if cur, ok := r.app.controller.Current(); ok && len(cur.Messages) > 0 {
		options = nil
		if last, ok := cur.LastMessage(); ok && last.Parsed != nil {
			options = last.Parsed.FollowUpQuestions
		}
	}
	if len(options) == 0 {
		fmt.Fprintln(r.out, "No follow-up questions for the latest answer.")
		return
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(options) {
		fmt.Fprintf(r.out, "Usage: /follow <1-%d>\n", len(options))
		return
	}

	question := options[n-1]
	fmt.Fprintf(r.out, "%s %s\n", userStyle.Sprint("you>"), question)
	fmt.Fprintln(r.out, dimStyle.Sprintf("asking %s...", r.app.cfg.Agent.AgentID))
	out, err := r.app.controller.FollowUp(ctx, question)
	if err != nil {
		return
	}
	renderMessage(r.out, out.AgentMessage)
}

func (r *repl) docs(ctx context.Context, arg string) {
	sub, rest, _ := strings.Cut(arg, " ")
	rest = strings.TrimSpace(rest)
	panel := r.app.panel

	switch sub {
	case "", "list":
		panel.Refresh(ctx)
		renderDocuments(r.out, panel.Documents())
	case "upload":
		if rest == "" {
			fmt.Fprintln(r.out, "Usage: /docs upload <file>")
			return
		}
		f, err := os.Open(rest)
		if err != nil {
			fmt.Fprintln(r.out, errorStyle.Sprintf("[error] %v", err))
			return
		}
		defer f.Close()
		panel.Upload(ctx, filepath.Base(rest), f)
		fmt.Fprintln(r.out, panel.Status())
		renderDocuments(r.out, panel.Documents())
	case "delete":
		if rest == "" {
			fmt.Fprintln(r.out, "Usage: /docs delete <name>")
			return
		}
		panel.Delete(ctx, rest)
		renderDocuments(r.out, panel.Documents())
	default:
		fmt.Fprintln(r.out, "Usage: /docs [list|upload <file>|delete <name>]")
	}
}
