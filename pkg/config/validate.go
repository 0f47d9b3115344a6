package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// All problems are reported together, each prefixed with its field path.
func (c *Config) Validate() error {
	var errs []error

	if c.Client.Token == "" {
		errs = append(errs, fmt.Errorf("client.token is required (set %s or client.token_file)", EnvToken))
	}

	if u, err := url.Parse(c.Client.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("client.base_url must be an absolute http(s) URL, got %q", c.Client.BaseURL))
	}

	if c.Client.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("client.timeout must be > 0, got %v", c.Client.Timeout))
	}

	switch strings.ToUpper(c.Logging.Level) {
	case "", "TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of TRACE, DEBUG, INFO, WARN, ERROR, got %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}
