// ABOUTME: Wires configuration into the agent client, conversation core, knowledge store, and activity monitor
// ABOUTME: One app per process; Close releases the SQLite handle and telemetry subscription

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/2389/insight-chat/internal/activity"
	"github.com/2389/insight-chat/internal/agent"
	"github.com/2389/insight-chat/internal/config"
	"github.com/2389/insight-chat/internal/conversation"
	"github.com/2389/insight-chat/internal/dispatch"
	"github.com/2389/insight-chat/internal/knowledge"
	"github.com/2389/insight-chat/internal/logging"
	"github.com/2389/insight-chat/internal/session"
)

type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *conversation.Store
	binder     *session.Binder
	controller *dispatch.Controller
	docs       knowledge.Store
	panel      *knowledge.Panel
	monitor    *activity.Monitor // nil when telemetry is disabled

	closers []func() error
}

// newApp builds the application. Logs go to logOut.
func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	logger := logging.New(cfg.Logging, logOut)

	a := &app{
		cfg:    cfg,
		logger: logger,
		store:  conversation.NewStore(logger),
		binder: session.NewBinder(logger),
	}

	invoker := agent.NewClient(agent.ClientConfig{
		Endpoint: cfg.Agent.Endpoint,
		APIKey:   cfg.Agent.APIKey,
		UserID:   cfg.Agent.UserID,
		Timeout:  cfg.Agent.Timeout,
	}, logger)
	a.controller = dispatch.New(a.store, invoker, a.binder, cfg.Agent.AgentID, logger)

	docs, err := openDocumentStore(cfg.Knowledge, logger)
	if err != nil {
		return nil, err
	}
	a.docs = docs
	if c, ok := docs.(io.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}
	a.panel = knowledge.NewPanel(docs, cfg.Knowledge.RAGID, logger)

	if cfg.Telemetry.Enabled {
		a.monitor = activity.NewMonitor(activity.NewWebSocketFeed(cfg.Telemetry.URL, logger), logger)
		a.binder.OnRebind(a.monitor.Follow)
		a.closers = append(a.closers, func() error {
			a.monitor.Close()
			return nil
		})
	}

	return a, nil
}

func openDocumentStore(cfg config.KnowledgeConfig, logger *slog.Logger) (knowledge.Store, error) {
	if cfg.Endpoint != "" {
		return knowledge.NewHTTPClient(cfg.Endpoint, cfg.APIKey, nil, logger), nil
	}
	s, err := knowledge.NewSQLiteStore(cfg.LocalPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening knowledge store: %w", err)
	}
	return s, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
