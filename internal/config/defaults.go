package config

import (
	"time"
)

// DefaultAgentPort is the fixed port monitoring agents listen on.
const DefaultAgentPort = 19999

// DefaultAggregateRoom is the cloud room representing every node in the
// space. Alarm aggregation is restricted to this room to avoid double
// counting nodes that belong to several overlapping rooms.
const DefaultAggregateRoom = "All nodes"

// GetDefaultConfig returns the built-in configuration. Credentials
// (cloud token, space ID, wiki token) have no default.
func GetDefaultConfig() Config {
	return Config{
		Cloud: CloudConfig{
			BaseURL:       "https://app.netdata.cloud",
			Timeout:       30 * time.Second,
			AggregateRoom: DefaultAggregateRoom,
		},
		Agent: AgentConfig{
			SandboxHost: "sandbox",
			Port:        DefaultAgentPort,
			Timeout:     10 * time.Second,
		},
		Provider: ProviderConfig{
			BaseURL: "https://health.chutes.ai",
			Timeout: 30 * time.Second,
		},
		Wiki: WikiConfig{
			BaseURL: "https://wiki.internal",
			Timeout: 30 * time.Second,
		},
		Probe: ProbeConfig{
			BatchSize:  5,
			BatchDelay: 1 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
