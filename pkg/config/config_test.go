package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv isolates a test from TWCAI_* variables set in the environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvBaseURL, EnvToken, EnvTimeout, "TWCAI_DEBUG", "TWCAI_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Client.BaseURL != "https://agent.timeweb.cloud" {
		t.Errorf("default client.base_url = %q", cfg.Client.BaseURL)
	}
	if cfg.Client.Timeout != 120*time.Second {
		t.Errorf("default client.timeout = %v, want 120s", cfg.Client.Timeout)
	}
	if !cfg.Metrics.Enabled {
		t.Error("default metrics.enabled = false, want true")
	}
	if cfg.Client.Token != "" {
		t.Errorf("default client.token = %q, want empty", cfg.Client.Token)
	}
}

func TestLoadFromYAML(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "twcai-*.yaml", `
client:
  base_url: https://agents.example.com
  token: tok-from-yaml
  timeout: 45s
  user_agent: my-app/1.0
logging:
  debug: client,transport
  level: debug
metrics:
  enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Client.BaseURL != "https://agents.example.com" {
		t.Errorf("client.base_url = %q", cfg.Client.BaseURL)
	}
	if cfg.Client.Token != "tok-from-yaml" {
		t.Errorf("client.token = %q", cfg.Client.Token)
	}
	if cfg.Client.Timeout != 45*time.Second {
		t.Errorf("client.timeout = %v, want 45s", cfg.Client.Timeout)
	}
	if cfg.Client.UserAgent != "my-app/1.0" {
		t.Errorf("client.user_agent = %q", cfg.Client.UserAgent)
	}
	if cfg.Logging.Debug != "client,transport" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics.enabled = true, want false")
	}
}

func TestYAMLDefaultsMerge(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "twcai-*.yaml", `
client:
  token: only-token
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Client.BaseURL != DefaultBaseURL || cfg.Client.Timeout != DefaultTimeout {
		t.Errorf("defaults not kept: %+v", cfg.Client)
	}
}

func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "twcai-*.yaml", `
client:
  base_url: https://from-yaml.example.com
  token: yaml-token
  timeout: 10s
`)
	t.Setenv(EnvBaseURL, "http://localhost:9090")
	t.Setenv(EnvToken, "env-token")
	t.Setenv(EnvTimeout, "30")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Client.BaseURL != "http://localhost:9090" {
		t.Errorf("client.base_url = %q, want env value", cfg.Client.BaseURL)
	}
	if cfg.Client.Token != "env-token" {
		t.Errorf("client.token = %q, want env value", cfg.Client.Token)
	}
	if cfg.Client.Timeout != 30*time.Second {
		t.Errorf("client.timeout = %v, want 30s", cfg.Client.Timeout)
	}
}

func TestEnvOverrideInvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvToken, "tok")
	t.Setenv(EnvTimeout, "soon")

	_, err := Load(writeTemp(t, "twcai-*.yaml", "{}"))
	if err == nil || !strings.Contains(err.Error(), EnvTimeout) {
		t.Errorf("Load() error = %v, want %s error", err, EnvTimeout)
	}
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"120", 120 * time.Second, false},
		{" 5 ", 5 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{"", 0, true},
		{"ten", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeout(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeout(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimeout(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFileReference(t *testing.T) {
	clearEnv(t)
	secret := writeTemp(t, "token-*", "  secret-from-file\n")
	path := writeTemp(t, "twcai-*.yaml", "client:\n  token_file: "+secret+"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Client.Token != "secret-from-file" {
		t.Errorf("client.token = %q, want trimmed file content", cfg.Client.Token)
	}
}

func TestFileReferenceDoesNotOverrideExplicitValue(t *testing.T) {
	clearEnv(t)
	secret := writeTemp(t, "token-*", "from-file")
	path := writeTemp(t, "twcai-*.yaml", "client:\n  token: explicit\n  token_file: "+secret+"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Client.Token != "explicit" {
		t.Errorf("client.token = %q, want explicit", cfg.Client.Token)
	}
}

func TestFileReferenceMissingFile(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "twcai-*.yaml", "client:\n  token_file: /nonexistent/token\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "client.token_file") {
		t.Errorf("Load() error = %v, want client.token_file error", err)
	}
}

func TestFileDiscovery(t *testing.T) {
	clearEnv(t)
	envFile := writeTemp(t, "envconfig-*.yaml", "client:\n  token: from-env-config\n")
	t.Setenv(EnvConfig, envFile)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(TWCAI_CONFIG) error: %v", err)
	}
	if cfg.Client.Token != "from-env-config" {
		t.Errorf("TWCAI_CONFIG: client.token = %q", cfg.Client.Token)
	}

	// No file at all: defaults plus env.
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvToken, "env-only")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(no file) error: %v", err)
	}
	if cfg.Client.Token != "env-only" || cfg.Client.BaseURL != DefaultBaseURL {
		t.Errorf("no file: client = %+v", cfg.Client)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "missing token",
			modify:  func(c *Config) { c.Client.Token = "" },
			wantErr: "client.token is required",
		},
		{
			name:    "relative base_url",
			modify:  func(c *Config) { c.Client.BaseURL = "agent.timeweb.cloud" },
			wantErr: "client.base_url",
		},
		{
			name:    "unsupported scheme",
			modify:  func(c *Config) { c.Client.BaseURL = "ftp://agent.timeweb.cloud" },
			wantErr: "client.base_url",
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Client.Timeout = 0 },
			wantErr: "client.timeout must be > 0",
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Logging.Level = "LOUD" },
			wantErr: "logging.level",
		},
		{
			name:   "valid",
			modify: func(c *Config) {},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Client.Token = "tok"
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidationReportsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Client.BaseURL = ""
	cfg.Client.Timeout = -time.Second
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want errors")
	}
	for _, want := range []string{"client.token", "client.base_url", "client.timeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

// writeTemp creates a temporary file with the given content and returns its path.
// The file is removed when the test finishes.
func writeTemp(t *testing.T, pattern, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		t.Fatalf("writing temp file: %v", err)
	}
	f.Close()
	return filepath.Clean(f.Name())
}
