// Package sources fetches roster, ADP, projection and historical data from
// upstream providers.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/okian/draftboard/pkg/logger"
	"github.com/okian/draftboard/pkg/metrics"
)

const maxBodyBytes = 64 << 20

// Client is the HTTP client shared by all sources. Requests are rate limited
// and pass through one circuit breaker. There are no retries.
type Client struct {
	http            *http.Client
	timeout         time.Duration
	rps             float64
	breakerFailures uint32
	breakerTimeout  time.Duration
	userAgent       string
	log             logger.Logger

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:            &http.Client{},
		timeout:         15 * time.Second,
		rps:             4,
		breakerFailures: 5,
		breakerTimeout:  30 * time.Second,
		userAgent:       "draftboard/1.0",
		log:             logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.limiter = rate.NewLimiter(rate.Limit(c.rps), 1)
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "upstream",
		Timeout: c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.breakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn(context.Background(), "circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	return c
}

// Get fetches url and returns the body. source labels logs and metrics.
func (c *Client) Get(ctx context.Context, source, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, source, err)
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, url)
	})
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordSourceRequest(source, metrics.StatusFailure, elapsed.Seconds())
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %w", ErrBreakerOpen, source, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, source, err)
	}
	metrics.RecordSourceRequest(source, metrics.StatusSuccess, elapsed.Seconds())
	body, _ := out.([]byte)
	c.log.Debug(ctx, "upstream fetched",
		logger.String("source", source),
		logger.String("url", url),
		logger.Int("bytes", len(body)),
		logger.Duration("elapsed", elapsed),
	)
	return body, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
