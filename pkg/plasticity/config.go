package plasticity

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultURL     = "https://api.plasticity.ai/"
	DefaultTimeout = 30 * time.Second
)

// Config holds what a Client needs to reach the API.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// ConfigFromEnv reads PLASTICITY_API_URL, PLASTICITY_API_KEY and
// PLASTICITY_TIMEOUT. Unset values fall back to the defaults.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		URL:     os.Getenv("PLASTICITY_API_URL"),
		Token:   os.Getenv("PLASTICITY_API_KEY"),
		Timeout: DefaultTimeout,
	}

	if raw := os.Getenv("PLASTICITY_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, errors.Wrapf(err, "invalid PLASTICITY_TIMEOUT %q", raw)
		}
		cfg.Timeout = timeout
	}

	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if !strings.HasSuffix(c.URL, "/") {
		c.URL += "/"
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
