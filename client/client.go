package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tanglekit/tanglebridge/logging"
	"golang.org/x/time/rate"
)

// Options configures a Client. All fields have working defaults except
// Nodes, which must name at least one node URL.
type Options struct {
	// Nodes lists the base URLs of the nodes requests may be routed to.
	Nodes []string
	// HTTPClient overrides the transport used for node requests.
	HTTPClient *http.Client
	// RequestTimeout bounds each individual node request.
	RequestTimeout time.Duration
	// RequestsPerSecond throttles outgoing requests. Zero disables
	// throttling.
	RequestsPerSecond float64
	// Burst is the throttle burst size when RequestsPerSecond is set.
	Burst int
	// Bech32HRP is the human-readable prefix for derived addresses.
	Bech32HRP string
	// GapLimit is the unused-address scan window for seed operations.
	GapLimit int
	// Logger receives client diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Client talks to one or more tangle nodes. It is safe for concurrent use;
// many read operations may run at once. SyncNodes mutates the healthy node
// set and is the only state-changing method.
type Client struct {
	opts    Options
	http    *http.Client
	limiter *rate.Limiter
	logger  logging.Logger

	mu      sync.Mutex
	healthy []string
	next    int
}

// New constructs a Client with optional overrides.
func New(optFns ...func(o *Options)) (*Client, error) {
	opts := Options{
		RequestTimeout: 30 * time.Second,
		Burst:          1,
		Bech32HRP:      "iota",
		GapLimit:       20,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if len(opts.Nodes) == 0 {
		return nil, fmt.Errorf("at least one node URL is required")
	}
	nodes := make([]string, 0, len(opts.Nodes))
	for _, n := range opts.Nodes {
		u, err := url.Parse(n)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid node URL %q", n)
		}
		nodes = append(nodes, strings.TrimRight(n, "/"))
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst)
	}

	return &Client{
		opts:    opts,
		http:    httpClient,
		limiter: limiter,
		logger:  opts.Logger,
		healthy: nodes,
	}, nil
}

// Bech32HRP returns the configured address prefix.
func (c *Client) Bech32HRP() string { return c.opts.Bech32HRP }

// node returns the next healthy node in round-robin order.
func (c *Client) node() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.healthy) == 0 {
		return "", ErrNoHealthyNodes
	}
	n := c.healthy[c.next%len(c.healthy)]
	c.next++
	return n, nil
}

// SyncNodes probes every configured node's health endpoint and replaces the
// healthy set with the nodes that responded. It mutates client state and
// must not run concurrently with other calls on the same client unless the
// caller serializes access (the dispatch bridge runs it under exclusive
// resource access).
func (c *Client) SyncNodes(ctx context.Context) (int, error) {
	healthy := make([]string, 0, len(c.opts.Nodes))
	for _, n := range c.opts.Nodes {
		n = strings.TrimRight(n, "/")
		if c.probeHealth(ctx, n) {
			healthy = append(healthy, n)
		} else {
			c.logger.Warn("node failed health check", "node", n)
		}
	}

	c.mu.Lock()
	c.healthy = healthy
	c.next = 0
	c.mu.Unlock()

	if len(healthy) == 0 {
		return 0, ErrNoHealthyNodes
	}
	c.logger.Debug("node set synced", "healthy", len(healthy), "configured", len(c.opts.Nodes))
	return len(healthy), nil
}

func (c *Client) probeHealth(ctx context.Context, node string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, node+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// dataEnvelope is the node REST response wrapper.
type dataEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do performs one JSON request against a healthy node and decodes the data
// envelope into out (which may be nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	body, err := c.raw(ctx, method, path, in, "application/json")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	var envelope dataEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode node response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode node response data: %w", err)
	}
	return nil
}

// raw performs one request and returns the undecoded response body.
func (c *Client) raw(ctx context.Context, method, path string, in any, accept string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	node, err := c.node()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	var reqBody io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, node+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", accept)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("node request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read node response: %w", err)
	}

	c.logger.Debug("node request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope dataEnvelope
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return nil, apiErr
	}

	return body, nil
}
