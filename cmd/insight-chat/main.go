// ABOUTME: Terminal front-end for asking a remote insight agent product questions
// ABOUTME: Cobra command tree: chat REPL (default), knowledge-base docs, and version

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389/insight-chat/internal/config"
)

// Version is set by goreleaser at build time.
var version = "dev"

var (
	configPath string
	agentID    string
	endpoint   string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "insight-chat",
		Short: "Ask an AI agent for expert product and growth insights",
		Long: `insight-chat sends your questions to a remote agent and renders structured
answers: the narrative, cited expert perspectives, topic tags, and follow-up
questions.

Quick Start:
  insight-chat                       # interactive chat
  insight-chat docs list             # knowledge-base documents
  insight-chat docs upload notes.pdf # add a document`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default $INSIGHT_CHAT_CONFIG or ~/.config/insight-chat/config.yaml)")
	root.PersistentFlags().StringVar(&agentID, "agent-id", "", "Override agent.agent_id")
	root.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Override agent.endpoint")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	chat := newChatCmd()
	root.RunE = chat.RunE
	root.AddCommand(chat, newDocsCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "insight-chat %s\n", version)
		},
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if agentID != "" {
		cfg.Agent.AgentID = agentID
	}
	if endpoint != "" {
		cfg.Agent.Endpoint = endpoint
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// buildApp loads config and wires the app. Logs go to stderr so they do
// not interleave with the transcript.
func buildApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, cmd.ErrOrStderr())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
