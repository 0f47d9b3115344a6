// Package config provides layered configuration for the twcai client.
//
// Configuration is loaded in this order:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (TWCAI_ prefix)
//  4. File reference resolution (token_file)
//  5. Validation
package config

import "time"

// Default values for the agent API.
const (
	DefaultBaseURL = "https://agent.timeweb.cloud"
	DefaultTimeout = 120 * time.Second
)

// Config holds all configuration for the twcai client.
type Config struct {
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ClientConfig holds the connection settings for the agent API.
type ClientConfig struct {
	BaseURL   string        `yaml:"base_url"`   // default: https://agent.timeweb.cloud
	Token     string        `yaml:"token"`      // required
	TokenFile string        `yaml:"token_file"` // _file variant for token
	Timeout   time.Duration `yaml:"timeout"`    // default: 120s
	UserAgent string        `yaml:"user_agent"` // optional suffix appended to the default
}

// LoggingConfig holds debug logging settings, see package debug.
type LoggingConfig struct {
	Debug string `yaml:"debug"` // comma-separated categories
	Level string `yaml:"level"` // TRACE, DEBUG, INFO, WARN, ERROR
}

// MetricsConfig controls Prometheus instrumentation of client calls.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // default: true
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Client: ClientConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}
