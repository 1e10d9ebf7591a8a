// Package config handles configuration loading for insight-chat.
//
// # Configuration File
//
// Location, in order:
//
//  1. Path from the INSIGHT_CHAT_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/insight-chat/config.yaml
//  3. ~/.config/insight-chat/config.yaml
//
// A missing file at a default location yields Default(), which points at a
// fake agent on localhost:8787. Files ending in .toml are decoded as TOML.
//
// # Environment Variable Expansion
//
// Values can reference environment variables:
//
//	agent:
//	  api_key: "${INSIGHT_AGENT_KEY}"
//
// Unset variables expand to the empty string.
//
// # Sections
//
//	agent:
//	  endpoint: "https://agent.example.com/v3/inference/chat"  # required
//	  agent_id: "growth-advisor"                              # required
//	  api_key: "${INSIGHT_AGENT_KEY}"
//	  user_id: "pm@example.com"
//	  timeout: "120s"
//
//	knowledge:
//	  endpoint: ""            # empty keeps documents in local_path
//	  rag_id: "default"
//	  api_key: ""
//	  local_path: "~/.local/share/insight-chat/knowledge.db"
//
//	telemetry:
//	  enabled: false
//	  url: "wss://metrics.example.com/ws/{session_id}"
//
//	logging:
//	  level: "info"           # debug, info, warn, error
//	  format: "text"          # text or json
package config
