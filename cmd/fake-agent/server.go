// ABOUTME: HTTP handlers for the fake agent: chat, knowledge-base documents, and activity websocket
// ABOUTME: Chat replies embed a structured answer as a JSON string, the way the real platform does

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/2389/insight-chat/internal/activity"
	"github.com/2389/insight-chat/internal/agent"
	"github.com/2389/insight-chat/internal/answer"
	"github.com/2389/insight-chat/internal/knowledge"
)

const maxUploadBytes = 32 << 20

// topicKeywords maps prompt keywords to the topics attached to an answer.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"Acquisition", []string{"acquisition", "acquire", "signup", "sign-up", "top of funnel"}},
	{"Activation", []string{"activation", "activate", "onboard", "aha"}},
	{"Retention", []string{"retention", "retain", "churn", "engagement"}},
	{"Monetization", []string{"monetization", "monetize", "pricing", "revenue", "paywall"}},
	{"PLG", []string{"plg", "product-led", "product led", "self-serve", "freemium"}},
	{"GTM", []string{"gtm", "go-to-market", "go to market", "sales", "launch"}},
}

var cannedPerspectives = []answer.Perspective{
	{
		GuestName:    "Elena Verna",
		EpisodeTitle: "The Ultimate Guide to PLG",
		Company:      "Amplitude",
		Insight:      "Tie every growth experiment to one activation metric before scaling it.",
	},
	{
		GuestName:    "Casey Winters",
		EpisodeTitle: "Building Growth Engines",
		Company:      "Eventbrite",
		Insight:      "Retention is the foundation; acquisition only compounds what already sticks.",
	},
}

type server struct {
	docs        knowledge.Store
	broadcaster *activity.Broadcaster
	step        time.Duration // pause between activity events
	logger      *slog.Logger
}

func newServer(docs knowledge.Store, broadcaster *activity.Broadcaster, step time.Duration, logger *slog.Logger) *server {
	return &server{
		docs:        docs,
		broadcaster: broadcaster,
		step:        step,
		logger:      logger.With("component", "fake_agent"),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /agent/chat", s.handleChat)
	mux.HandleFunc("GET /rag/{ragID}/documents", s.handleListDocuments)
	mux.HandleFunc("POST /rag/{ragID}/documents", s.handleUploadDocument)
	mux.HandleFunc("DELETE /rag/{ragID}/documents", s.handleDeleteDocuments)
	mux.HandleFunc("GET /ws/{sessionID}", s.handleActivity)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	return mux
}

type chatRequest struct {
	Message   string `json:"message"`
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, agent.FailureResult("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeJSON(w, http.StatusBadRequest, agent.FailureResult("message is required"))
		return
	}

	s.logger.Info("chat request", "agent_id", req.AgentID, "session_id", req.SessionID)

	s.emit(req.SessionID, activity.EventThinking, "Reading the question")
	s.emit(req.SessionID, activity.EventRetrieval, "Searching podcast transcripts")

	if strings.Contains(strings.ToLower(req.Message), "fail") {
		s.emit(req.SessionID, activity.EventError, "Simulated failure")
		s.writeJSON(w, http.StatusOK, agent.FailureResult("simulated agent failure"))
		return
	}

	s.emit(req.SessionID, activity.EventProcessing, "Writing the answer")
	parsed := buildAnswer(req.Message)
	encoded, err := json.Marshal(parsed)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, agent.FailureResult(err.Error()))
		return
	}
	s.emit(req.SessionID, activity.EventCompleted, "Done")

	s.writeJSON(w, http.StatusOK, agent.TextResult(string(encoded)))
}

// buildAnswer derives a structured answer from the prompt's keywords.
func buildAnswer(prompt string) answer.ParsedAnswer {
	lower := strings.ToLower(prompt)
	var topics []string
	for _, tk := range topicKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(lower, kw) {
				topics = append(topics, tk.topic)
				break
			}
		}
	}
	if len(topics) == 0 {
		topics = []string{"Growth"}
	}

	return answer.ParsedAnswer{
		Answer: fmt.Sprintf("Here is what experienced product leaders say about **%s**.\n\n"+
			"Start with the metric that matters most for %s, run small experiments, and keep what moves it.",
			strings.TrimSpace(prompt), strings.ToLower(topics[0])),
		Perspectives: cannedPerspectives,
		Topics:       topics,
		FollowUpQuestions: []string{
			fmt.Sprintf("Which %s metric should I track first?", strings.ToLower(topics[0])),
			"What mistakes do teams make early on?",
		},
	}
}

func (s *server) emit(sessionID, eventType, message string) {
	if sessionID == "" {
		return
	}
	s.broadcaster.Publish(sessionID, activity.Event{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
	if s.step > 0 {
		time.Sleep(s.step)
	}
}

func (s *server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.List(r.Context(), r.PathValue("ragID"))
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "documents": docs})
}

func (s *server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.sendError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}
	defer file.Close()

	if err := s.docs.Upload(r.Context(), r.PathValue("ragID"), header.Filename, file); err != nil {
		status := http.StatusInternalServerError
		var se *knowledge.StoreError
		if errors.Is(err, knowledge.ErrUnsupportedType) || errors.As(err, &se) {
			status = http.StatusBadRequest
		}
		s.sendError(w, status, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *server) handleDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileNames []string `json:"fileNames"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := s.docs.Delete(r.Context(), r.PathValue("ragID"), req.FileNames); err != nil {
		s.sendError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleActivity streams the session's activity events until the client leaves.
func (s *server) handleActivity(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", "session_id", sessionID, "error", err)
		return
	}
	defer conn.CloseNow()

	// CloseRead discards client frames and cancels ctx when the client closes.
	ctx := conn.CloseRead(r.Context())
	events, _ := s.broadcaster.Subscribe(ctx, sessionID)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				return
			}
		}
	}
}

func (s *server) sendError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "error", err)
	s.writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
}

// writeJSON sends v with status. The header is already out when encoding
// fails, so the error can only be logged.
func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "status", status, "error", err)
	}
}
