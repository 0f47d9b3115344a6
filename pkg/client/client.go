package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rhuss/twcai/pkg/auth"
	"github.com/rhuss/twcai/pkg/config"
	"github.com/rhuss/twcai/pkg/debug"
	"github.com/rhuss/twcai/pkg/observability"
	"github.com/rhuss/twcai/pkg/transport"
)

// Version is reported in the User-Agent header.
const Version = "0.1.0"

// ProxySource identifies this client to the agent proxy.
const ProxySource = "twcai-go"

// Config holds the settings of a Client. The zero value of every field
// except Token selects a default.
type Config struct {
	// BaseURL is the API origin. Default: https://agent.timeweb.cloud.
	BaseURL string

	// Token is the agent access token sent as a bearer credential.
	Token string

	// Timeout is the hard deadline of each call. Default: 120s.
	Timeout time.Duration

	// UserAgent is appended to the default User-Agent when set.
	UserAgent string

	// HTTPClient is used by the default transport. Ignored when Doer is set.
	HTTPClient *http.Client

	// Doer replaces the HTTP transport, e.g. in tests.
	Doer transport.Doer

	// Logger receives request logs. Default: slog.Default().
	Logger *slog.Logger

	// DisableMetrics turns off Prometheus instrumentation.
	DisableMetrics bool
}

// Client dispatches typed requests to the agent API.
type Client struct {
	baseURL   string
	token     string
	timeout   time.Duration
	userAgent string
	doer      transport.Doer
	logger    *slog.Logger
	metrics   bool
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var errs []error
	if cfg.Token == "" {
		errs = append(errs, errors.New("token is required"))
	}
	if u, err := url.Parse(cfg.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("base URL %q must be an http(s) URL with a host", cfg.BaseURL))
	}
	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	if info, err := auth.Inspect(cfg.Token); err == nil && info.Expired(time.Now()) {
		cfg.Logger.Warn("configured token has expired",
			"subject", info.Subject,
			"expired_at", info.ExpiresAt,
		)
	}

	ua := "twcai-go/" + Version
	if cfg.UserAgent != "" {
		ua += " " + cfg.UserAgent
	}

	base := cfg.Doer
	if base == nil {
		base = transport.NewHTTPDoer(cfg.HTTPClient)
	}
	middlewares := []transport.Middleware{
		transport.Recovery(),
		transport.RequestID(),
		transport.Logging(cfg.Logger),
	}
	if !cfg.DisableMetrics {
		middlewares = append(middlewares, transport.InFlight(observability.InflightRequests))
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		token:     cfg.Token,
		timeout:   cfg.Timeout,
		userAgent: ua,
		doer:      transport.Chain(middlewares...)(base),
		logger:    cfg.Logger,
		metrics:   !cfg.DisableMetrics,
	}
	debug.Log("client", "client created",
		"base_url", c.baseURL,
		"timeout", c.timeout,
		"token", debug.RedactToken(c.token),
	)
	return c, nil
}

// FromConfig creates a Client from loaded configuration and applies its
// logging settings.
func FromConfig(cfg *config.Config) (*Client, error) {
	debug.Init(cfg.Logging.Debug, cfg.Logging.Level)
	return New(Config{
		BaseURL:        cfg.Client.BaseURL,
		Token:          cfg.Client.Token,
		Timeout:        cfg.Client.Timeout,
		UserAgent:      cfg.Client.UserAgent,
		DisableMetrics: !cfg.Metrics.Enabled,
	})
}

// FromEnv loads configuration from the discovered config file and TWCAI_*
// environment variables, then creates a Client. This is the only entry
// point besides config.Load that reads the environment.
func FromEnv() (*Client, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg)
}

// BaseURL returns the API origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Agent returns a client bound to one agent.
func (c *Client) Agent(agentID string) *AgentClient {
	return &AgentClient{c: c, id: agentID}
}
