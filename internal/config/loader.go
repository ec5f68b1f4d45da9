package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd
var osLookupEnv = os.LookupEnv

const (
	userConfigDir    = ".config/fleetmon"
	projectConfigDir = ".fleetmon"
	configFileName   = "config.yaml"
)

// Load builds the fleetmon configuration by layering defaults, the user
// config file, the project config file and finally environment
// variables. Environment variables win over files so deployments can
// inject credentials without touching disk.
func Load() (Config, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. Determine user-specific configuration path
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// Log this error but don't fail; user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	// 3. Determine project-specific configuration path
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	// 4. Environment overrides
	applyEnv(&config)

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Only fields
// the overlay actually sets override the base.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.Cloud.BaseURL != "" {
		merged.Cloud.BaseURL = overlay.Cloud.BaseURL
	}
	if overlay.Cloud.Token != "" {
		merged.Cloud.Token = overlay.Cloud.Token
	}
	if overlay.Cloud.SpaceID != "" {
		merged.Cloud.SpaceID = overlay.Cloud.SpaceID
	}
	if overlay.Cloud.Timeout != 0 {
		merged.Cloud.Timeout = overlay.Cloud.Timeout
	}
	if overlay.Cloud.AggregateRoom != "" {
		merged.Cloud.AggregateRoom = overlay.Cloud.AggregateRoom
	}

	if overlay.Agent.SandboxHost != "" {
		merged.Agent.SandboxHost = overlay.Agent.SandboxHost
	}
	if overlay.Agent.Port != 0 {
		merged.Agent.Port = overlay.Agent.Port
	}
	if overlay.Agent.Timeout != 0 {
		merged.Agent.Timeout = overlay.Agent.Timeout
	}

	if overlay.Provider.BaseURL != "" {
		merged.Provider.BaseURL = overlay.Provider.BaseURL
	}
	if overlay.Provider.Timeout != 0 {
		merged.Provider.Timeout = overlay.Provider.Timeout
	}

	if overlay.Wiki.BaseURL != "" {
		merged.Wiki.BaseURL = overlay.Wiki.BaseURL
	}
	if overlay.Wiki.Token != "" {
		merged.Wiki.Token = overlay.Wiki.Token
	}
	if overlay.Wiki.Timeout != 0 {
		merged.Wiki.Timeout = overlay.Wiki.Timeout
	}

	if overlay.Probe.BatchSize != 0 {
		merged.Probe.BatchSize = overlay.Probe.BatchSize
	}
	if overlay.Probe.BatchDelay != 0 {
		merged.Probe.BatchDelay = overlay.Probe.BatchDelay
	}

	if overlay.Logging.Level != "" {
		merged.Logging.Level = overlay.Logging.Level
	}
	if overlay.Logging.Format != "" {
		merged.Logging.Format = overlay.Logging.Format
	}

	return merged
}

// applyEnv overrides config fields from the environment. Unparseable
// numeric or duration values are ignored in favor of the layered value.
func applyEnv(c *Config) {
	setString := func(key string, dst *string) {
		if v, ok := osLookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := osLookupEnv(key); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			} else {
				fmt.Fprintf(os.Stderr, "Warning: ignoring invalid duration in %s: %q\n", key, v)
			}
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := osLookupEnv(key); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			} else {
				fmt.Fprintf(os.Stderr, "Warning: ignoring invalid integer in %s: %q\n", key, v)
			}
		}
	}

	setString("FLEETMON_CLOUD_BASE_URL", &c.Cloud.BaseURL)
	setString("FLEETMON_CLOUD_TOKEN", &c.Cloud.Token)
	setString("FLEETMON_CLOUD_SPACE_ID", &c.Cloud.SpaceID)
	setDuration("FLEETMON_CLOUD_TIMEOUT", &c.Cloud.Timeout)
	setString("FLEETMON_CLOUD_AGGREGATE_ROOM", &c.Cloud.AggregateRoom)

	setString("FLEETMON_AGENT_SANDBOX_HOST", &c.Agent.SandboxHost)
	setInt("FLEETMON_AGENT_PORT", &c.Agent.Port)
	setDuration("FLEETMON_AGENT_TIMEOUT", &c.Agent.Timeout)

	setString("FLEETMON_PROVIDER_BASE_URL", &c.Provider.BaseURL)
	setDuration("FLEETMON_PROVIDER_TIMEOUT", &c.Provider.Timeout)

	setString("FLEETMON_WIKI_BASE_URL", &c.Wiki.BaseURL)
	setString("FLEETMON_WIKI_TOKEN", &c.Wiki.Token)
	setDuration("FLEETMON_WIKI_TIMEOUT", &c.Wiki.Timeout)

	setInt("FLEETMON_PROBE_BATCH_SIZE", &c.Probe.BatchSize)
	setDuration("FLEETMON_PROBE_BATCH_DELAY", &c.Probe.BatchDelay)

	setString("FLEETMON_LOG_LEVEL", &c.Logging.Level)
	setString("FLEETMON_LOG_FORMAT", &c.Logging.Format)
}
