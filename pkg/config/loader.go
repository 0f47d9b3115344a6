package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rhuss/twcai/pkg/debug"
)

// Environment variables consulted by Load.
const (
	EnvConfig  = "TWCAI_CONFIG"
	EnvBaseURL = "TWCAI_BASE_URL"
	EnvToken   = "TWCAI_API_TOKEN"
	EnvTimeout = "TWCAI_TIMEOUT"
)

// defaultConfigFile is looked up in the working directory.
const defaultConfigFile = "twcai.yaml"

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, TWCAI_CONFIG env, ./twcai.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (token_file)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	if filePath := discoverConfigFile(configPath); filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
		debug.Log("config", "loaded config file", "path", filePath)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	debug.Log("config", "configuration ready",
		"base_url", cfg.Client.BaseURL,
		"timeout", cfg.Client.Timeout,
		"token", debug.RedactToken(cfg.Client.Token),
	)
	return &cfg, nil
}

// discoverConfigFile returns the explicit path, else TWCAI_CONFIG, else
// ./twcai.yaml if it exists. Returns "" when no file applies.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		return envPath
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}

// loadYAMLFile parses a YAML file into cfg. Fields absent from the file
// keep their current values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps TWCAI_* environment variables onto cfg.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.Client.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Client.Token = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := ParseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Client.Timeout = d
	}
	if v := os.Getenv(debug.EnvCategories); v != "" {
		cfg.Logging.Debug = v
	}
	if v := os.Getenv(debug.EnvLevel); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// ParseTimeout accepts a Go duration ("90s", "2m") or a whole number of seconds.
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: want a duration or whole seconds", s)
	}
	return d, nil
}

// resolveFileReferences reads client.token_file into client.token unless
// a token was already given explicitly.
func resolveFileReferences(cfg *Config) error {
	if cfg.Client.TokenFile != "" && cfg.Client.Token == "" {
		val, err := readSecretFile(cfg.Client.TokenFile)
		if err != nil {
			return fmt.Errorf("client.token_file: %w", err)
		}
		cfg.Client.Token = val
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
