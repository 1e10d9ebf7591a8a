// ABOUTME: Configuration loading and parsing for insight-chat
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Defaults used when a field is left empty.
const (
	DefaultAgentEndpoint = "http://localhost:8787/agent/chat"
	DefaultAgentID       = "insight-agent"
	DefaultAgentTimeout  = 120 * time.Second
	DefaultRAGID         = "default"
	DefaultTelemetryURL  = "ws://localhost:8787/ws/{session_id}"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// EnvConfigPath names the environment variable that overrides the config location.
const EnvConfigPath = "INSIGHT_CHAT_CONFIG"

// Config represents the complete insight-chat configuration
type Config struct {
	Agent     AgentConfig     `yaml:"agent" toml:"agent"`
	Knowledge KnowledgeConfig `yaml:"knowledge" toml:"knowledge"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// AgentConfig holds the remote agent connection
type AgentConfig struct {
	Endpoint string        `yaml:"endpoint" toml:"endpoint"`
	AgentID  string        `yaml:"agent_id" toml:"agent_id"`
	APIKey   string        `yaml:"api_key" toml:"api_key"`
	UserID   string        `yaml:"user_id" toml:"user_id"`
	Timeout  time.Duration `yaml:"-" toml:"-"`

	// Raw string value for unmarshaling
	TimeoutRaw string `yaml:"timeout" toml:"timeout"`
}

// KnowledgeConfig selects the knowledge-base document store. When Endpoint
// is empty documents are kept in a local SQLite file at LocalPath.
type KnowledgeConfig struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	RAGID     string `yaml:"rag_id" toml:"rag_id"`
	APIKey    string `yaml:"api_key" toml:"api_key"`
	LocalPath string `yaml:"local_path" toml:"local_path"`
}

// TelemetryConfig holds the agent activity feed
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	URL     string `yaml:"url" toml:"url"` // must contain {session_id}
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns a configuration that talks to a local fake agent.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, anything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads the config from Path. A missing file at a default
// location yields Default(); a missing file named by INSIGHT_CHAT_CONFIG
// is an error.
func LoadDefault() (*Config, error) {
	path, explicit := Path()
	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Path returns the config file location and whether it was set explicitly.
// Priority: INSIGHT_CHAT_CONFIG env var > XDG_CONFIG_HOME/insight-chat/config.yaml > ~/.config/insight-chat/config.yaml
func Path() (string, bool) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		return envPath, true
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml", false // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "insight-chat", "config.yaml"), false
}

// DataDir returns the insight-chat data directory.
// Priority: XDG_DATA_HOME/insight-chat > ~/.local/share/insight-chat
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "insight-chat")
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Agent.Endpoint == "" {
		cfg.Agent.Endpoint = DefaultAgentEndpoint
	}
	if cfg.Agent.AgentID == "" {
		cfg.Agent.AgentID = DefaultAgentID
	}
	if cfg.Agent.Timeout == 0 {
		cfg.Agent.Timeout = DefaultAgentTimeout
	}
	if cfg.Knowledge.RAGID == "" {
		cfg.Knowledge.RAGID = DefaultRAGID
	}
	if cfg.Knowledge.Endpoint == "" && cfg.Knowledge.LocalPath == "" {
		cfg.Knowledge.LocalPath = filepath.Join(DataDir(), "knowledge.db")
	}
	if cfg.Telemetry.URL == "" {
		cfg.Telemetry.URL = DefaultTelemetryURL
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Agent.Endpoint == "" {
		return fmt.Errorf("agent.endpoint is required")
	}
	if err := checkURL(c.Agent.Endpoint, "http", "https"); err != nil {
		return fmt.Errorf("agent.endpoint: %w", err)
	}
	if c.Agent.AgentID == "" {
		return fmt.Errorf("agent.agent_id is required")
	}
	if c.Agent.Timeout < 0 {
		return fmt.Errorf("agent.timeout must not be negative")
	}

	if c.Knowledge.Endpoint != "" {
		if err := checkURL(c.Knowledge.Endpoint, "http", "https"); err != nil {
			return fmt.Errorf("knowledge.endpoint: %w", err)
		}
	}

	if c.Telemetry.Enabled {
		if !strings.Contains(c.Telemetry.URL, "{session_id}") {
			return fmt.Errorf("telemetry.url must contain {session_id}")
		}
		if err := checkURL(strings.ReplaceAll(c.Telemetry.URL, "{session_id}", "x"), "ws", "wss", "http", "https"); err != nil {
			return fmt.Errorf("telemetry.url: %w", err)
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}

	return nil
}

func checkURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Host == "" {
				return fmt.Errorf("URL %q has no host", raw)
			}
			return nil
		}
	}
	return fmt.Errorf("URL %q must use one of: %s", raw, strings.Join(schemes, ", "))
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Agent.TimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.Agent.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", cfg.Agent.TimeoutRaw, err)
		}
		cfg.Agent.Timeout = d
	}
	return nil
}
