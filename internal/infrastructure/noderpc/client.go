package noderpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/internal/core/ports"
	"github.com/nanoflow/nanowallet/pkg/circuitbreaker"
	"github.com/nanoflow/nanowallet/pkg/stats"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

var (
	// ErrNoEndpoints is the failure reported when an endpoint list is empty.
	ErrNoEndpoints = errors.New("no endpoints configured")
	// ErrInvalidResponse is returned for responses whose body is not JSON.
	ErrInvalidResponse = errors.New("response body is not valid JSON")
)

// Options configures a Client.
type Options struct {
	// RPCURLs are tried in order for every action but work generation.
	RPCURLs []string
	// WorkURLs are tried in order for work generation.
	WorkURLs []string
	// Headers are added to every request.
	Headers map[string]string
	// Timeout of a single HTTP request, defaults to 30s.
	Timeout time.Duration
	// RateLimit caps the number of calls per second, 0 disables the limit.
	RateLimit float64
}

// Client is a ports.Ledger that sends every request to a list of endpoints in
// order and returns the first response delivered successfully. Only transport
// failures make it move on to the next endpoint: a response carrying a ledger
// error is still a delivered response. Endpoints whose circuit breaker is open
// are tried after all the others, so every endpoint gets exactly one attempt
// per call.
type Client struct {
	rpcURLs  []string
	workURLs []string
	headers  map[string]string

	http     *httpClient
	breakers map[string]*gobreaker.CircuitBreaker
	limiter  *rate.Limiter
}

// NewClient returns a Client for the given endpoint lists. Every distinct
// endpoint gets its own circuit breaker, shared by both lists.
func NewClient(opts Options) *Client {
	breakers := make(map[string]*gobreaker.CircuitBreaker)
	for _, urls := range [][]string{opts.RPCURLs, opts.WorkURLs} {
		for _, url := range urls {
			if _, ok := breakers[url]; !ok {
				breakers[url] = circuitbreaker.NewCircuitBreaker(url)
			}
		}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &Client{
		rpcURLs:  append([]string{}, opts.RPCURLs...),
		workURLs: append([]string{}, opts.WorkURLs...),
		headers:  headers,
		http:     newHTTPClient(opts.Timeout),
		breakers: breakers,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

var _ ports.Ledger = (*Client)(nil)

// execute makes one pass over the endpoint list selected by the request's
// action and returns the raw body of the first successful response.
func (c *Client) execute(ctx context.Context, req request) (json.RawMessage, error) {
	urls, kind := c.rpcURLs, "RPC"
	if req.isWork() {
		urls, kind = c.workURLs, "work"
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, domain.NewNetworkError(
			fmt.Sprintf("%s request not sent: %s", kind, err), err,
		)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", req.action(), err)
	}

	lastErr := ErrNoEndpoints
	tripped := make([]string, 0)
	for _, url := range urls {
		resp, err := c.post(ctx, url, body)
		if isBreakerRejection(err) {
			tripped = append(tripped, url)
			continue
		}
		if err != nil {
			lastErr = c.attemptFailed(req, url, err)
			continue
		}
		return c.attemptSucceeded(req, resp), nil
	}

	// Endpoints whose breaker is open still get their one attempt, last and
	// without going through the breaker.
	for _, url := range tripped {
		resp, err := c.send(ctx, url, body)
		if err != nil {
			lastErr = c.attemptFailed(req, url, err)
			continue
		}
		return c.attemptSucceeded(req, resp), nil
	}

	return nil, domain.NewNetworkError(
		fmt.Sprintf("all %s servers failed. Last error: %s", kind, lastErr), lastErr,
	)
}

func (c *Client) attemptFailed(req request, url string, err error) error {
	stats.RPCRequests.WithLabelValues(req.action(), "failed").Inc()
	log.WithError(err).WithFields(log.Fields{
		"endpoint": url,
		"action":   req.action(),
	}).Warn("request to endpoint failed")
	return err
}

func (c *Client) attemptSucceeded(req request, resp json.RawMessage) json.RawMessage {
	stats.RPCRequests.WithLabelValues(req.action(), "ok").Inc()
	return resp
}

// post sends body to url through the endpoint's circuit breaker.
func (c *Client) post(ctx context.Context, url string, body []byte) (json.RawMessage, error) {
	res, err := c.breakers[url].Execute(func() (interface{}, error) {
		return c.send(ctx, url, body)
	})
	if err != nil {
		return nil, err
	}
	return res.(json.RawMessage), nil
}

// send makes the actual HTTP request. Non 2xx statuses and non JSON bodies
// are transport failures.
func (c *Client) send(ctx context.Context, url string, body []byte) (json.RawMessage, error) {
	status, resp, err := c.http.post(ctx, url, body, c.headers)
	if err != nil {
		return nil, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("HTTP %d", status)
	}
	if !json.Valid(resp) {
		return nil, ErrInvalidResponse
	}
	return json.RawMessage(resp), nil
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}
