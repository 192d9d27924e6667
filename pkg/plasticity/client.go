package plasticity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/athapong/plasticity-go/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Poster sends a JSON body to an API URL and returns the raw response body.
type Poster interface {
	Post(ctx context.Context, url string, body interface{}) ([]byte, error)
}

// Client holds the API token and base URL and performs authenticated posts.
// It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *logrus.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Timeout is left
// untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for cfg. Empty URL and timeout fall back to the
// defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg = cfg.withDefaults()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the API base URL, always ending with a slash.
func (c *Client) URL() string {
	return c.cfg.URL
}

// Post implements Poster. Transport problems come back wrapping
// ErrTransportTimeout or ErrTransportFailure; the body of a non-2xx response
// is still returned because the API reports its own errors in JSON.
func (c *Client) Post(ctx context.Context, url string, body interface{}) ([]byte, error) {
	endpoint := strings.TrimPrefix(url, c.cfg.URL)
	log := c.logger.WithField("endpoint", endpoint)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrapf(ErrTransportFailure, "build request for %s: %v", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues(endpoint))
	resp, err := c.httpClient.Do(req)
	timer.ObserveDuration()
	if err != nil {
		if isTimeout(err) {
			metrics.RequestErrors.WithLabelValues(endpoint, "timeout").Inc()
			log.WithError(err).Warn("Request timed out")
			return nil, errors.Wrapf(ErrTransportTimeout, "post %s: %v", url, err)
		}
		metrics.RequestErrors.WithLabelValues(endpoint, "transport").Inc()
		log.WithError(err).Error("Request failed")
		return nil, errors.Wrapf(ErrTransportFailure, "post %s: %v", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RequestErrors.WithLabelValues(endpoint, "read").Inc()
		return nil, errors.Wrapf(ErrTransportFailure, "read response from %s: %v", url, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		metrics.RequestErrors.WithLabelValues(endpoint, "status").Inc()
		log.WithField("status", resp.StatusCode).Warn("API returned an error status")
	}

	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
