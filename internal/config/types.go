package config

import (
	"time"
)

// Config is the top-level configuration structure for fleetmon.
type Config struct {
	Cloud    CloudConfig    `yaml:"cloud"`
	Agent    AgentConfig    `yaml:"agent"`
	Provider ProviderConfig `yaml:"provider"`
	Wiki     WikiConfig     `yaml:"wiki"`
	Probe    ProbeConfig    `yaml:"probe"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CloudConfig configures access to the metrics cloud API.
type CloudConfig struct {
	BaseURL string `yaml:"baseURL,omitempty"`
	// Token and SpaceID are required for any cloud call. They are not
	// validated at load time; a missing value surfaces as a ConfigError
	// on the first call that needs it.
	Token   string        `yaml:"token,omitempty"`
	SpaceID string        `yaml:"spaceID,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// AggregateRoom is the room name whose counters are treated as the
	// canonical, non-overlapping view of the whole fleet.
	AggregateRoom string `yaml:"aggregateRoom,omitempty"`
}

// AgentConfig configures direct queries to monitoring agents.
type AgentConfig struct {
	// SandboxHost is the agent used for metric activity probing.
	SandboxHost string        `yaml:"sandboxHost,omitempty"`
	Port        int           `yaml:"port,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// ProviderConfig configures the decentralized-provider health API.
type ProviderConfig struct {
	BaseURL string        `yaml:"baseURL,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// WikiConfig configures the wiki content API.
type WikiConfig struct {
	BaseURL string        `yaml:"baseURL,omitempty"`
	Token   string        `yaml:"token,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ProbeConfig paces the batched metric activity prober.
type ProbeConfig struct {
	BatchSize  int           `yaml:"batchSize,omitempty"`
	BatchDelay time.Duration `yaml:"batchDelay,omitempty"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format,omitempty"` // "text" or "json"
}
